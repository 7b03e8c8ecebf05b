package handlers

import (
	"hosting-dashboard/internal/middlewares"
	"hosting-dashboard/internal/utils"
	"net/http"
)

func POSTLogoutHandler(ctx *middlewares.AppContext) {
	logger := ctx.Logger

	user, hadUser := ctx.Credentials.User(ctx)

	ctx.Credentials.Clear(ctx)
	err := ctx.SessionManager.Logout(ctx)
	if err != nil {
		logger.Error("Failed to logout user", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Failed to logout")
		return
	}

	if hadUser {
		logger.Info("User logged out", "email", utils.RedactEmail(user.Email))
	}

	ctx.SetJSONStatus(http.StatusOK, "OK")
}
