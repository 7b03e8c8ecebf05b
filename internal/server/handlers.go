package server

import (
	"hosting-dashboard/internal/handlers"
	"hosting-dashboard/internal/middlewares"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware(ctx.Config.Server.TrustedProxies))
	//r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(ctx.Config.Server.RequestTimeout))

	r.Use(ctx.SessionManager.LoadAndSave)

	r.Use(middlewares.AppContextMiddleware(ctx))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
		AllowedMethods:   ctx.Config.CORS.AllowedMethods,
		AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
		ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
		AllowCredentials: ctx.Config.CORS.AllowCredentials,
		MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
	}))

	r.Use(middleware.Compress(5))

	staticDir := ctx.Config.Server.StaticDir
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(staticDir, "assets")))))
	r.Handle("/favicon.ico", http.FileServer(http.Dir(staticDir)))

	// GitHub returns to the site root
	r.Get("/", ctx.HandlerFunc(handlers.GETIndexHandler))
	r.Get("/auth/google/callback", ctx.HandlerFunc(handlers.GETGoogleCallbackHandler))
	r.Get("/auth/github/callback", ctx.HandlerFunc(handlers.GETGithubCallbackHandler))
	r.Get("/*", ctx.HandlerFunc(handlers.GETSPAHandler))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", ctx.HandlerFunc(handlers.GETAuthStatusHandler))
			r.Post("/login", ctx.HandlerFunc(handlers.POSTLoginHandler))
			r.Post("/register", ctx.HandlerFunc(handlers.POSTRegisterHandler))
			r.Post("/logout", ctx.HandlerFunc(handlers.POSTLogoutHandler))

			r.Post("/google", ctx.HandlerFunc(handlers.POSTGoogleCredentialHandler))
			r.Get("/google/config", ctx.HandlerFunc(handlers.GETGoogleConfigHandler))
			r.Get("/google/login", ctx.HandlerFunc(handlers.GETGoogleLoginHandler))
			r.Get("/github/login", ctx.HandlerFunc(handlers.GETGithubLoginHandler))

			r.Group(func(r chi.Router) {
				r.Use(middlewares.RequireSession)
				r.Delete("/account", ctx.HandlerFunc(handlers.DELETEAccountHandler))
			})
		})

		r.Route("/panel", func(r chi.Router) {
			r.Use(middlewares.RequireSession)
			r.HandleFunc("/*", ctx.HandlerFunc(handlers.PanelProxyHandler))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	//r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
