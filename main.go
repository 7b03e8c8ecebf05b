package main

import (
	"flag"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/server"
	"hosting-dashboard/internal/version"
	"log"
	"os"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "path to the configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.Parse()

	if showVersion {
		log.SetFlags(0)
		log.SetOutput(os.Stdout)
		log.Println(version.GetFullVersion())
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
