package authentication

import (
	"errors"
	"fmt"
	"hosting-dashboard/internal/backend"
	"net/http"
)

type ErrorKind string

const (
	KindInvalidCredentials   ErrorKind = "invalid_credentials"
	KindRegistrationConflict ErrorKind = "registration_conflict"
	KindValidationError      ErrorKind = "validation_error"
	KindMissingCredential    ErrorKind = "missing_credential"
	KindProviderDenied       ErrorKind = "provider_denied"
	KindProviderRejected     ErrorKind = "provider_rejected"
	KindConfigurationMissing ErrorKind = "configuration_missing"
	KindNetworkTimeout       ErrorKind = "network_timeout"
	KindNetworkFailure       ErrorKind = "network_failure"
	KindSessionExpired       ErrorKind = "session_expired"
)

// Sentinels for errors.Is. An *AuthError matches the sentinel of its kind.
var (
	ErrInvalidCredentials   = &AuthError{Kind: KindInvalidCredentials}
	ErrRegistrationConflict = &AuthError{Kind: KindRegistrationConflict}
	ErrValidation           = &AuthError{Kind: KindValidationError}
	ErrMissingCredential    = &AuthError{Kind: KindMissingCredential}
	ErrProviderDenied       = &AuthError{Kind: KindProviderDenied}
	ErrProviderRejected     = &AuthError{Kind: KindProviderRejected}
	ErrConfigurationMissing = &AuthError{Kind: KindConfigurationMissing}
	ErrNetworkTimeout       = &AuthError{Kind: KindNetworkTimeout}
	ErrNetworkFailure       = &AuthError{Kind: KindNetworkFailure}
	ErrSessionExpired       = &AuthError{Kind: KindSessionExpired}
)

// AuthError is the typed failure of every authentication flow.
type AuthError struct {
	Kind     ErrorKind
	Provider Provider
	// Message is the human-readable cause, usually the backend's message.
	Message string
	Err     error

	register bool
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Provider == "" || t.Provider == e.Provider)
}

// HTTPStatus is the status the JSON handlers answer with for this error.
func (e *AuthError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidCredentials, KindSessionExpired:
		return http.StatusUnauthorized
	case KindRegistrationConflict:
		return http.StatusConflict
	case KindValidationError, KindMissingCredential:
		return http.StatusBadRequest
	case KindProviderDenied:
		return http.StatusForbidden
	case KindProviderRejected:
		return http.StatusUnauthorized
	case KindConfigurationMissing:
		return http.StatusServiceUnavailable
	case KindNetworkTimeout:
		return http.StatusGatewayTimeout
	case KindNetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, provider Provider, message string, err error) *AuthError {
	return &AuthError{Kind: kind, Provider: provider, Message: message, Err: err}
}

// AsAuthError unwraps err into an *AuthError, wrapping unknown errors as a
// network failure.
func AsAuthError(provider Provider, err error) *AuthError {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	return newError(KindNetworkFailure, provider, err.Error(), err)
}

// classify maps a backend client error to an *AuthError. rejection is the
// kind used for 4xx answers that are not more specifically mapped.
func classify(provider Provider, err error, rejection ErrorKind, statusKinds map[int]ErrorKind) *AuthError {
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout {
			return newError(KindNetworkTimeout, provider, "request timed out", err)
		}
		return newError(KindNetworkFailure, provider, "unable to reach server", err)
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ServerError() {
			return newError(KindNetworkFailure, provider, apiErr.Error(), err)
		}
		if kind, ok := statusKinds[apiErr.StatusCode]; ok {
			return newError(kind, provider, apiErr.Error(), err)
		}
		return newError(rejection, provider, apiErr.Error(), err)
	}

	return newError(KindNetworkFailure, provider, err.Error(), err)
}

// MessageFor renders the user-facing message of a failed flow.
func MessageFor(provider Provider, err error) string {
	if err == nil {
		return ""
	}

	authErr := AsAuthError(provider, err)
	cause := authErr.Message
	if cause == "" {
		cause = "Unknown error"
	}

	switch authErr.Kind {
	case KindProviderDenied:
		return fmt.Sprintf("Login dibatalkan atau gagal: %s", cause)
	case KindConfigurationMissing:
		return fmt.Sprintf("Login dengan %s belum dikonfigurasi", provider.DisplayName())
	case KindSessionExpired:
		return "Sesi berakhir, silakan login kembali"
	}

	switch provider {
	case ProviderGithubRedirect:
		return fmt.Sprintf("Login GitHub gagal: %s", cause)
	case ProviderGoogleCredential, ProviderGoogleRedirect:
		return fmt.Sprintf("Login dengan Google gagal: %s", cause)
	default:
		if authErr.register {
			return fmt.Sprintf("Registrasi gagal: %s", cause)
		}
		return fmt.Sprintf("Login gagal: %s", cause)
	}
}
