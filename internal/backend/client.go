package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hosting-dashboard/internal/models"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

//go:generate mockgen -source=client.go -destination=../mocks/backend.go -package=mocks

// API is the subset of the hosting backend REST API the gateway consumes.
type API interface {
	Login(ctx context.Context, req LoginRequest) (*AuthPayload, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error)
	GoogleCredential(ctx context.Context, credential string) (*AuthPayload, error)
	GoogleCode(ctx context.Context, code string) (*AuthPayload, error)
	GithubCode(ctx context.Context, code string) (*AuthPayload, error)
	Me(ctx context.Context, token string) (*models.User, error)
	DeleteAccount(ctx context.Context, token string) error
	BaseURL() string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type googleCredentialRequest struct {
	Token string `json:"token"`
}

type codeRequest struct {
	Code string `json:"code"`
}

// AuthPayload is the data member of a successful token exchange.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type userPayload struct {
	User *models.User `json:"user"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type apiRequest struct {
	method  string
	path    string
	token   string
	body    interface{}
	respObj interface{}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a backend client. timeout bounds every request; a zero
// value leaves requests bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTPClient is used by tests that need a custom transport.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthPayload, error) {
	return c.exchange(ctx, "/api/auth/login", req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error) {
	return c.exchange(ctx, "/api/auth/register", req)
}

func (c *Client) GoogleCredential(ctx context.Context, credential string) (*AuthPayload, error) {
	return c.exchange(ctx, "/api/auth/google", googleCredentialRequest{Token: credential})
}

func (c *Client) GoogleCode(ctx context.Context, code string) (*AuthPayload, error) {
	return c.exchange(ctx, "/api/auth/google/callback", codeRequest{Code: code})
}

func (c *Client) GithubCode(ctx context.Context, code string) (*AuthPayload, error) {
	return c.exchange(ctx, "/api/auth/github", codeRequest{Code: code})
}

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var payload userPayload
	err := c.execute(ctx, apiRequest{
		method:  http.MethodGet,
		path:    "/api/auth/me",
		token:   token,
		respObj: &payload,
	})
	if err != nil {
		return nil, err
	}

	if payload.User == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "response did not contain a user"}
	}

	return payload.User, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.execute(ctx, apiRequest{
		method: http.MethodDelete,
		path:   "/api/auth/me",
		token:  token,
	})
}

func (c *Client) exchange(ctx context.Context, path string, body interface{}) (*AuthPayload, error) {
	var payload AuthPayload
	err := c.execute(ctx, apiRequest{
		method:  http.MethodPost,
		path:    path,
		body:    body,
		respObj: &payload,
	})
	if err != nil {
		return nil, err
	}

	return &payload, nil
}

func (c *Client) execute(ctx context.Context, apiReq apiRequest) error {
	var bodyReader io.Reader
	if apiReq.body != nil {
		bodyBytes, err := json.Marshal(apiReq.body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, apiReq.method, c.baseURL+apiReq.path, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request %s %s: %w", apiReq.method, apiReq.path, err)
	}

	req.Header.Set("Accept", "application/json")
	if apiReq.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiReq.token != "" {
		req.Header.Set("Authorization", "Bearer "+apiReq.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Timeout: isTimeout(err), Err: fmt.Errorf("error reading response body: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(respBytes, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Detail = env.Error
		}
		return apiErr
	}

	if decodeErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response from server"}
	}

	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}

	if apiReq.respObj != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, apiReq.respObj); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: "invalid response from server"}
		}
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
