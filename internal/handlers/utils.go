package handlers

import (
	"context"
	"errors"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/backend"
	"hosting-dashboard/internal/metrics"
	"hosting-dashboard/internal/middlewares"
	"net/http"
)

// writeAuthError renders err as the user-facing message for provider.
func writeAuthError(ctx *middlewares.AppContext, provider authentication.Provider, err error) {
	authErr := authentication.AsAuthError(provider, err)
	ctx.WriteJSON(authErr.HTTPStatus(), AuthErrorResponse{
		Error: authentication.MessageFor(provider, authErr),
		Kind:  string(authErr.Kind),
	})
}

// clientGone reports whether err only means the caller went away.
func clientGone(ctx *middlewares.AppContext, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// isUnauthorized reports whether the backend rejected the session token.
func isUnauthorized(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// clearExpiredSession drops the local credential after the backend refused it.
func clearExpiredSession(ctx *middlewares.AppContext) {
	ctx.Credentials.Clear(ctx)
	metrics.SessionsExpired.Inc()
	ctx.Logger.Info("session token rejected by backend, session cleared")
}

func writeSessionExpired(ctx *middlewares.AppContext) {
	clearExpiredSession(ctx)
	ctx.WriteJSON(http.StatusUnauthorized, SessionExpiredResponse{
		Error:          "session expired",
		Reauthenticate: true,
	})
}
