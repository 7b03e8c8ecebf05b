package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestClient_LoginSuccess(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, LoginRequest{Email: "steve@example.com", Password: "hunter22"}, body)

		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t1","user":{"id":7,"name":"Steve","email":"steve@example.com","auth_provider":"email","email_verified":true}}}`))
	})

	payload, err := client.Login(context.Background(), LoginRequest{Email: "steve@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "t1", payload.Token)
	require.NotNil(t, payload.User)
	assert.Equal(t, int64(7), payload.User.ID)
	assert.True(t, payload.User.EmailVerified)
}

func TestClient_ExchangePaths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) (*AuthPayload, error)
		wantPath string
		wantBody string
	}{
		{
			name:     "google credential",
			call:     func(c *Client) (*AuthPayload, error) { return c.GoogleCredential(context.Background(), "cred") },
			wantPath: "/api/auth/google",
			wantBody: `{"token":"cred"}`,
		},
		{
			name:     "google code",
			call:     func(c *Client) (*AuthPayload, error) { return c.GoogleCode(context.Background(), "g1") },
			wantPath: "/api/auth/google/callback",
			wantBody: `{"code":"g1"}`,
		},
		{
			name:     "github code",
			call:     func(c *Client) (*AuthPayload, error) { return c.GithubCode(context.Background(), "xyz") },
			wantPath: "/api/auth/github",
			wantBody: `{"code":"xyz"}`,
		},
		{
			name: "register",
			call: func(c *Client) (*AuthPayload, error) {
				return c.Register(context.Background(), RegisterRequest{Email: "a@b.c", Name: "Al", Password: "password1"})
			},
			wantPath: "/api/auth/register",
			wantBody: `{"email":"a@b.c","name":"Al","password":"password1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				var raw json.RawMessage
				require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
				assert.JSONEq(t, tt.wantBody, string(raw))
				_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t","user":{"id":1}}}`))
			})

			payload, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, "t", payload.Token)
		})
	}
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantStatus   int
		wantMessage  string
		unauthorized bool
		serverError  bool
	}{
		{
			name:         "unauthorized with message",
			status:       http.StatusUnauthorized,
			body:         `{"success":false,"message":"Email atau password salah"}`,
			wantStatus:   http.StatusUnauthorized,
			wantMessage:  "Email atau password salah",
			unauthorized: true,
		},
		{
			name:        "conflict with detail",
			status:      http.StatusConflict,
			body:        `{"success":false,"message":"Email sudah terdaftar","error":"duplicate key"}`,
			wantStatus:  http.StatusConflict,
			wantMessage: "Email sudah terdaftar (duplicate key)",
		},
		{
			name:        "server error without json",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Bad Gateway",
			serverError: true,
		},
		{
			name:        "success false on 200",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"code expired"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "code expired",
		},
		{
			name:        "malformed 200",
			status:      http.StatusOK,
			body:        `not json`,
			wantStatus:  http.StatusOK,
			wantMessage: "invalid response from server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GithubCode(context.Background(), "xyz")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
			assert.Equal(t, tt.unauthorized, apiErr.Unauthorized())
			assert.Equal(t, tt.serverError, apiErr.ServerError())
		})
	}
}

func TestClient_MeSendsBearerToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":3,"email":"x@y.z"}}}`))
	})

	user, err := client.Me(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "x@y.z", user.Email)
}

func TestClient_MeWithoutUser(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	})

	_, err := client.Me(context.Background(), "t1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "response did not contain a user", apiErr.Message)
}

func TestClient_DeleteAccount(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"message":"deleted"}`))
	})

	assert.NoError(t, client.DeleteAccount(context.Background(), "t1"))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, 20*time.Millisecond)

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.Timeout)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient(addr, time.Second)

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.False(t, transportErr.Timeout)
}

func TestClient_BaseURLTrimsSlash(t *testing.T) {
	assert.Equal(t, "https://api.example.com", NewClient("https://api.example.com/", 0).BaseURL())
}
