package handlers

import (
	"encoding/json"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/middlewares"
	"net/http"
)

func POSTLoginHandler(ctx *middlewares.AppContext) {
	passwordFlow(ctx, authentication.ModeLogin)
}

func POSTRegisterHandler(ctx *middlewares.AppContext) {
	passwordFlow(ctx, authentication.ModeRegister)
}

func passwordFlow(ctx *middlewares.AppContext, mode authentication.PasswordMode) {
	var body PasswordRequest
	if err := json.NewDecoder(ctx.Request.Body).Decode(&body); err != nil {
		ctx.SetJSONError(http.StatusBadRequest, "Invalid request body")
		return
	}

	proof := authentication.PasswordProof{
		Mode:     mode,
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
	}

	result, err := ctx.Controller.RunFlow(ctx, ctx.Credentials, authentication.ProviderPassword, proof)
	writeFlowResult(ctx, authentication.ProviderPassword, result, err)
}

// writeFlowResult answers a JSON login request once RunFlow has settled.
func writeFlowResult(ctx *middlewares.AppContext, provider authentication.Provider, result *authentication.FlowResult, err error) {
	if err != nil {
		if clientGone(ctx, err) {
			ctx.Logger.Debug("client left before the auth flow settled", "provider", provider)
			return
		}
		writeAuthError(ctx, provider, err)
		return
	}

	user := result.User
	if !result.Applied {
		// a newer flow owns the session; report what is actually stored
		if current, ok := ctx.Credentials.User(ctx); ok {
			user = current
		}
	}

	ctx.WriteJSON(http.StatusOK, AuthResponse{
		Authenticated: true,
		Provider:      string(provider),
		User:          user,
		Redirect:      ctx.Origin.Home(),
	})
}
