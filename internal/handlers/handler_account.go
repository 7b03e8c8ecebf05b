package handlers

import (
	"hosting-dashboard/internal/middlewares"
	"hosting-dashboard/internal/utils"
	"net/http"
)

// DELETEAccountHandler deletes the account at the backend and then ends the session.
func DELETEAccountHandler(ctx *middlewares.AppContext) {
	token, ok := ctx.Credentials.Read(ctx)
	if !ok {
		ctx.SetJSONError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	user, _ := ctx.Credentials.User(ctx)

	if err := ctx.Backend.DeleteAccount(ctx, token); err != nil {
		if isUnauthorized(err) {
			writeSessionExpired(ctx)
			return
		}

		ctx.Logger.Error("failed to delete account", "error", err)
		ctx.SetJSONError(http.StatusBadGateway, "Gagal menghapus akun")
		return
	}

	ctx.Credentials.Clear(ctx)
	if err := ctx.SessionManager.Logout(ctx); err != nil {
		ctx.Logger.Error("Failed to clear session after account deletion", "error", err)
	}

	if user != nil {
		ctx.Logger.Info("Account deleted", "email", utils.RedactEmail(user.Email))
	}

	ctx.SetJSONStatus(http.StatusOK, "OK")
}
