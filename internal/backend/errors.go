package backend

import (
	"fmt"
	"net/http"
)

// APIError is returned when the backend answered but refused the request,
// either with a non-2xx status or with success set to false.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) ServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// TransportError is returned when no usable response was received.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("backend request timed out: %v", e.Err)
	}
	return fmt.Sprintf("backend request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
