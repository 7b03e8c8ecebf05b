package handlers

import (
	"hosting-dashboard/internal/middlewares"
	"net/http"
)

// GETAuthStatusHandler reports whether the session holds a token and, if so,
// refreshes the user from the backend.
func GETAuthStatusHandler(ctx *middlewares.AppContext) {
	response := AuthStatusResponse{
		Authenticated: false,
	}

	token, ok := ctx.Credentials.Read(ctx)
	if !ok {
		ctx.WriteJSON(http.StatusUnauthorized, response)
		return
	}

	user, err := ctx.Backend.Me(ctx, token)
	if err != nil {
		if isUnauthorized(err) {
			writeSessionExpired(ctx)
			return
		}

		ctx.Logger.Warn("failed to refresh user from backend, using session copy", "error", err)
		if cached, ok := ctx.Credentials.User(ctx); ok {
			response.Authenticated = true
			response.User = cached
			ctx.WriteJSON(http.StatusOK, response)
			return
		}

		ctx.SetJSONError(http.StatusBadGateway, "Unable to reach server")
		return
	}

	ctx.SessionManager.SetUser(ctx, user)

	response.Authenticated = true
	response.User = user
	ctx.WriteJSON(http.StatusOK, response)
}
