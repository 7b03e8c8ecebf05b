package handlers

import (
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/middlewares"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

func GETGoogleCallbackHandler(ctx *middlewares.AppContext) {
	handleCallback(ctx, authentication.ProviderGoogleRedirect)
}

func GETGithubCallbackHandler(ctx *middlewares.AppContext) {
	handleCallback(ctx, authentication.ProviderGithubRedirect)
}

// GETIndexHandler serves the SPA entry point. GitHub returns to the site root,
// so a root request carrying code or error is a GitHub callback.
func GETIndexHandler(ctx *middlewares.AppContext) {
	query := ctx.Request.URL.Query()
	if query.Get("code") != "" || query.Get("error") != "" {
		handleCallback(ctx, authentication.ProviderGithubRedirect)
		return
	}

	serveIndex(ctx)
}

// GETSPAHandler serves index.html for client-side routes.
func GETSPAHandler(ctx *middlewares.AppContext) {
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		http.NotFound(ctx.Response, ctx.Request)
		return
	}

	serveIndex(ctx)
}

func serveIndex(ctx *middlewares.AppContext) {
	http.ServeFile(ctx.Response, ctx.Request, filepath.Join(ctx.Config.Server.StaticDir, "index.html"))
}

func handleCallback(ctx *middlewares.AppContext, provider authentication.Provider) {
	coordinator := authentication.NewCoordinator(
		authentication.CoordinatorConfig{
			Provider:     provider,
			RequireState: ctx.Config.Auth.StateRequired(),
			EntryPath:    ctx.Config.Auth.EntryPath,
			FailureDelay: ctx.Config.Auth.FailureRedirectDelay,
		},
		authentication.CoordinatorDeps{
			Location:  newRequestLocation(ctx),
			Ledger:    ctx.Ledger,
			Exchanger: ctx.Controller,
			Store:     ctx.Credentials,
			Origin:    ctx.Origin,
			States:    ctx.SessionManager,
			Navigator: &responseNavigator{ctx: ctx},
			Logger:    ctx.Logger,
		},
	)

	outcome := coordinator.Run(ctx)

	switch outcome.State {
	case authentication.StateNoCode:
		destination := ctx.Config.Auth.EntryPath
		if ctx.Credentials.IsAuthenticated(ctx) {
			destination = ctx.Origin.Home()
		}
		ctx.Redirect(destination, http.StatusFound)
	case authentication.StateSucceeded:
		ctx.Logger.Info("redirect login completed", "provider", provider, "destination", outcome.Destination)
	case authentication.StateFailed:
		if outcome.Err != nil && clientGone(ctx, outcome.Err) {
			ctx.Logger.Debug("client left before the callback settled", "provider", provider)
		}
	}
}

// requestLocation exposes the callback URL to the coordinator. Strip drops
// the query so it is neither reused nor leaked through Referer or caches.
type requestLocation struct {
	ctx   *middlewares.AppContext
	query url.Values
}

func newRequestLocation(ctx *middlewares.AppContext) *requestLocation {
	return &requestLocation{ctx: ctx, query: ctx.Request.URL.Query()}
}

func (l *requestLocation) Query() url.Values {
	return l.query
}

func (l *requestLocation) Strip() {
	l.query = url.Values{}
	l.ctx.Request.URL.RawQuery = ""

	header := l.ctx.Response.Header()
	header.Set("Cache-Control", "no-store")
	header.Set("Referrer-Policy", "no-referrer")
}

type responseNavigator struct {
	ctx *middlewares.AppContext
}

func (n *responseNavigator) Navigate(destination string) {
	n.ctx.Redirect(destination, http.StatusFound)
}

func (n *responseNavigator) Fail(message string, entry string, delay time.Duration) {
	renderCallbackFailure(n.ctx, message, entry, delay)
}
