package handlers

import (
	"hosting-dashboard/internal/models"
)

type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

// AuthResponse is returned by the JSON login endpoints once a flow settles.
type AuthResponse struct {
	Authenticated bool         `json:"authenticated"`
	Provider      string       `json:"provider"`
	User          *models.User `json:"user,omitempty"`
	Redirect      string       `json:"redirect"`
}

type AuthErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type SessionExpiredResponse struct {
	Error          string `json:"error"`
	Reauthenticate bool   `json:"reauthenticate"`
}

type PasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type GoogleCredentialRequest struct {
	Credential string `json:"credential"`
}

type GoogleConfigResponse struct {
	Enabled    bool   `json:"enabled"`
	ClientID   string `json:"client_id,omitempty"`
	AutoSelect bool   `json:"auto_select"`
	HandleID   string `json:"handle_id,omitempty"`
}
