package server

import (
	"context"
	"errors"
	"fmt"
	"hosting-dashboard/internal/auth"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/backend"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/jobs"
	"hosting-dashboard/internal/ledger"
	"hosting-dashboard/internal/middlewares"
	"hosting-dashboard/internal/version"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	jobManager  *jobs.JobManager
	instanceID  string
	closers     []func() error
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	var closers []func() error
	fail := func(err error) (*Server, error) {
		for _, closeFn := range closers {
			_ = closeFn()
		}
		cancel()
		return nil, err
	}

	var sessionClient *redis.Client
	if cfg.Sessions.Store == "redis" {
		sessionClient = newRedisClient(cfg, cfg.Redis.SessionIndex, "sessions", logger)
		closers = append(closers, sessionClient.Close)
	}

	sessionManager, err := auth.NewSessionManager(logger, cfg, sessionClient)
	if err != nil {
		return fail(err)
	}

	var ledgerClient *redis.Client
	if cfg.Ledger.Type == "redis" {
		ledgerClient = newRedisClient(cfg, cfg.Redis.LedgerIndex, "ledger", logger)
	}

	codeLedger, err := ledger.NewLedger(cfg, ledgerClient, logger)
	if err != nil {
		if ledgerClient != nil {
			_ = ledgerClient.Close()
		}
		return fail(err)
	}
	closers = append(closers, codeLedger.Close)

	credentialLedger, err := ledger.NewCredentialLedger(cfg, ledgerClient, logger)
	if err != nil {
		return fail(err)
	}

	api := backend.NewClient(cfg.Backend.APIBaseURL, cfg.Backend.RequestTimeout)

	var verifier authentication.CredentialVerifier
	if cfg.OAuth.Google.VerifyCredential {
		googleVerifier, err := auth.NewGoogleCredentialVerifier(ctx, cfg.OAuth.Google)
		if err != nil {
			logger.Error("failed to initialize google credential verifier", "error", err)
			return fail(err)
		}
		verifier = googleVerifier
	}

	adapters := map[authentication.Provider]authentication.Adapter{
		authentication.ProviderPassword:         authentication.NewPasswordAdapter(api, cfg.Backend.RequestTimeout, logger),
		authentication.ProviderGoogleCredential: authentication.NewGoogleCredentialAdapter(api, verifier, cfg.Backend.RequestTimeout),
		authentication.ProviderGoogleRedirect:   authentication.NewGoogleCodeAdapter(api, cfg.Backend.RequestTimeout),
		authentication.ProviderGithubRedirect:   authentication.NewGithubCodeAdapter(api, cfg.Backend.RequestTimeout),
	}

	controller := authentication.NewController(adapters, logger,
		authentication.WithMinDuration(cfg.Auth.MinLoadingDuration),
		authentication.WithObserver(authentication.LoadingMetricsObserver(logger)),
	)

	launchers := map[authentication.Provider]*authentication.Launcher{
		authentication.ProviderGoogleRedirect: authentication.NewGoogleLauncher(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.RedirectURL),
		authentication.ProviderGithubRedirect: authentication.NewGithubLauncher(cfg.OAuth.Github.ClientID, cfg.OAuth.Github.RedirectURL),
	}
	for provider, launcher := range launchers {
		if !launcher.Enabled() {
			logger.Warn("redirect login disabled: client id not configured", "provider", provider)
		}
	}

	widget := authentication.NewGoogleWidget()

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, sessionManager, api, controller, launchers, widget, codeLedger, credentialLedger)

	handle := widget.InitializeOnce(authentication.WidgetConfig{
		ClientID:   cfg.OAuth.Google.ClientID,
		AutoSelect: cfg.OAuth.Google.AutoSelect,
	})
	widget.UpdateCallback(handle, controller.CredentialFlow(appCtx.Credentials))

	jobManager := jobs.NewJobManager(logger)
	jobManager.Register(jobs.NewLedgerSweepJob(codeLedger, cfg.Ledger.Type, cfg.Ledger.SweepInterval, logger))

	router := setupRouter(appCtx)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugRouter := setupDebugRouter()
		debugServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler: debugRouter,
		}
	}

	instanceID := os.Getenv("HOSTNAME")
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		httpServer:  server,
		debugServer: debugServer,
		jobManager:  jobManager,
		instanceID:  instanceID,
		closers:     closers,
		cancel:      cancel,
	}, nil
}

func (s *Server) Start() error {
	s.jobManager.Start(s.appCtx)

	go func() {
		s.logger.Info("Server Started",
			"port", s.cfg.Server.Port,
			"instance", s.instanceID,
			"version", version.GetFullVersion())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	s.cancel()
	s.jobManager.Shutdown(shutdownCtx)

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.logger.Warn("failed to release resource", "error", err)
		}
	}

	s.logger.Info("Server Exited")
	return nil
}
