package handlers

import (
	"hosting-dashboard/internal/middlewares"
	"net/http"
)

func HandlerHealth(ctx *middlewares.AppContext) {
	ctx.SetJSONStatus(http.StatusOK, "OK")
}
