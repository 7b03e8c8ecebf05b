package handlers

import (
	"encoding/json"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/middlewares"
	"net/http"
)

// POSTGoogleCredentialHandler hands a One-Tap credential to the widget's
// current callback.
func POSTGoogleCredentialHandler(ctx *middlewares.AppContext) {
	var body GoogleCredentialRequest
	if err := json.NewDecoder(ctx.Request.Body).Decode(&body); err != nil {
		ctx.SetJSONError(http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := ctx.Widget.Deliver(ctx, body.Credential)
	writeFlowResult(ctx, authentication.ProviderGoogleCredential, result, err)
}

func GETGoogleConfigHandler(ctx *middlewares.AppContext) {
	handle := ctx.Widget.Handle()
	if handle == nil || !handle.Enabled() {
		ctx.WriteJSON(http.StatusOK, GoogleConfigResponse{Enabled: false})
		return
	}

	ctx.WriteJSON(http.StatusOK, GoogleConfigResponse{
		Enabled:    true,
		ClientID:   handle.Config.ClientID,
		AutoSelect: handle.Config.AutoSelect,
		HandleID:   handle.ID,
	})
}
