package middlewares

import (
	"context"
	"encoding/json"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/backend"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/ledger"
	"log/slog"
	"net/http"
)

type AppContext struct {
	context.Context
	Config         *config.Config
	Logger         *slog.Logger
	SessionManager SessionProvider
	Backend        backend.API
	Controller     *authentication.Controller
	Credentials    *authentication.CredentialStore
	Origin         *authentication.OriginMemory
	Launchers      map[authentication.Provider]*authentication.Launcher
	Widget         *authentication.GoogleWidget
	Ledger         ledger.Ledger

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:        r.Context(),
				Config:         baseCtx.Config,
				Logger:         baseCtx.Logger,
				SessionManager: baseCtx.SessionManager,
				Backend:        baseCtx.Backend,
				Controller:     baseCtx.Controller,
				Credentials:    baseCtx.Credentials,
				Origin:         baseCtx.Origin,
				Launchers:      baseCtx.Launchers,
				Widget:         baseCtx.Widget,
				Ledger:         baseCtx.Ledger,
				Request:        r,
				Response:       w,
			}

			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AppHandler func(*AppContext)

// Handler converts an AppHandler to an http.Handler
func (ctx *AppContext) Handler(h AppHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h(appCtx)
	})
}

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get the AppContext from the request context
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

// Launcher returns the redirect launcher for provider, or nil.
func (ctx *AppContext) Launcher(provider authentication.Provider) *authentication.Launcher {
	if ctx.Launchers == nil {
		return nil
	}
	return ctx.Launchers[provider]
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, sessionManager SessionProvider, api backend.API, controller *authentication.Controller, launchers map[authentication.Provider]*authentication.Launcher, widget *authentication.GoogleWidget, codeLedger ledger.Ledger, credentialLedger ledger.CredentialLedger) *AppContext {
	return &AppContext{
		Context:        ctx,
		Config:         cfg,
		Logger:         logger,
		SessionManager: sessionManager,
		Backend:        api,
		Controller:     controller,
		Credentials:    authentication.NewCredentialStore(sessionManager, authentication.WithCredentialRecords(credentialLedger, logger)),
		Origin:         authentication.NewOriginMemory(sessionManager, cfg.Auth.HomePath, cfg.Auth.LoginPaths),
		Launchers:      launchers,
		Widget:         widget,
		Ledger:         codeLedger,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func GetLogger(r *http.Request) *slog.Logger {
	if appCtx := GetAppContext(r); appCtx != nil {
		return appCtx.Logger
	}

	return nil
}

func GetConfig(r *http.Request) *config.Config {
	if appCtx := GetAppContext(r); appCtx != nil {
		return appCtx.Config
	}

	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to marshal json", "error", err)
	}
}

func (ctx *AppContext) WriteText(status int, text string) {
	ctx.Response.WriteHeader(status)
	if _, err := ctx.Response.Write([]byte(text)); err != nil {
		ctx.Logger.Error("failed to write response", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

func (ctx *AppContext) SetJSONStatus(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"status": message,
	})
}
