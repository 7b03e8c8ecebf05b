package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"hosting-dashboard/internal/auth"
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/ledger"
	"hosting-dashboard/internal/middlewares"
	"hosting-dashboard/internal/mocks"
	"hosting-dashboard/internal/models"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext     *middlewares.AppContext
	Request        *http.Request
	Response       *httptest.ResponseRecorder
	MockController *gomock.Controller
	MockSession    *mocks.MockSessionProvider
	MockBackend    *mocks.MockAPI
	MockLedger     *mocks.MockLedger
	Session        *auth.SessionManager
	LogHandler     *TestLogHandler
}

// NewTestConfig returns a config with every default a validated config would carry.
func NewTestConfig() *config.Config {
	return &config.Config{
		Server:   config.DefaultServerConfig,
		Log:      config.DefaultLogConfig,
		Sessions: config.DefaultSessionConfig,
		Backend: config.BackendConfig{
			APIBaseURL:     "http://backend.test",
			RequestTimeout: time.Second,
		},
		OAuth: config.OAuthConfig{
			Google: config.GoogleOAuthConfig{ClientID: "google-client", RedirectURL: "http://dash.test/auth/google/callback"},
			Github: config.GithubOAuthConfig{ClientID: "github-client"},
		},
		Auth:   config.DefaultAuthConfig,
		Ledger: config.DefaultLedgerConfig,
	}
}

// NewTestContextWithURL creates a test context whose session provider is a gomock mock.
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	cfg := NewTestConfig()

	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	// Create mock controller
	ctrl := gomock.NewController(t)

	// Create mocks
	mockSession := mocks.NewMockSessionProvider(ctrl)
	mockBackend := mocks.NewMockAPI(ctrl)
	mockLedger := mocks.NewMockLedger(ctrl)

	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()

	appCtx := &middlewares.AppContext{
		Context:        req.Context(),
		Config:         cfg,
		Logger:         logger,
		SessionManager: mockSession,
		Backend:        mockBackend,
		Controller:     newTestController(mockBackend, logger),
		Credentials:    authentication.NewCredentialStore(mockSession),
		Origin:         authentication.NewOriginMemory(mockSession, cfg.Auth.HomePath, cfg.Auth.LoginPaths),
		Launchers:      newTestLaunchers(cfg),
		Widget:         authentication.NewGoogleWidget(),
		Ledger:         mockLedger,
		Request:        req,
		Response:       rr,
	}

	return &TestContext{
		AppContext:     appCtx,
		Request:        req,
		Response:       rr,
		MockController: ctrl,
		MockSession:    mockSession,
		MockBackend:    mockBackend,
		MockLedger:     mockLedger,
		LogHandler:     logHandler,
	}
}

// NewTestContextWithSession creates a test context backed by a real in-memory
// scs session and ledger. Only the backend is mocked.
func NewTestContextWithSession(t *testing.T, method, url string) *TestContext {
	cfg := NewTestConfig()

	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockAPI(ctrl)

	sessionManager, err := auth.NewSessionManager(logger, cfg, nil)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	req := httptest.NewRequest(method, url, nil)
	sessionCtx, err := sessionManager.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	req = req.WithContext(sessionCtx)
	rr := httptest.NewRecorder()

	controller := newTestController(mockBackend, logger)
	credentials := authentication.NewCredentialStore(sessionManager,
		authentication.WithCredentialRecords(ledger.NewMemoryCredentialLedger(time.Hour), logger))

	widget := authentication.NewGoogleWidget()
	handle := widget.InitializeOnce(authentication.WidgetConfig{ClientID: cfg.OAuth.Google.ClientID})
	widget.UpdateCallback(handle, controller.CredentialFlow(credentials))

	appCtx := &middlewares.AppContext{
		Context:        sessionCtx,
		Config:         cfg,
		Logger:         logger,
		SessionManager: sessionManager,
		Backend:        mockBackend,
		Controller:     controller,
		Credentials:    credentials,
		Origin:         authentication.NewOriginMemory(sessionManager, cfg.Auth.HomePath, cfg.Auth.LoginPaths),
		Launchers:      newTestLaunchers(cfg),
		Widget:         widget,
		Ledger:         ledger.NewMemoryLedger(time.Hour),
		Request:        req,
		Response:       rr,
	}

	return &TestContext{
		AppContext:     appCtx,
		Request:        req,
		Response:       rr,
		MockController: ctrl,
		MockBackend:    mockBackend,
		Session:        sessionManager,
		LogHandler:     logHandler,
	}
}

func newTestController(api *mocks.MockAPI, logger *slog.Logger) *authentication.Controller {
	adapters := map[authentication.Provider]authentication.Adapter{
		authentication.ProviderPassword:         authentication.NewPasswordAdapter(api, time.Second, logger),
		authentication.ProviderGoogleCredential: authentication.NewGoogleCredentialAdapter(api, nil, time.Second),
		authentication.ProviderGoogleRedirect:   authentication.NewGoogleCodeAdapter(api, time.Second),
		authentication.ProviderGithubRedirect:   authentication.NewGithubCodeAdapter(api, time.Second),
	}

	return authentication.NewController(adapters, logger, authentication.WithMinDuration(0))
}

func newTestLaunchers(cfg *config.Config) map[authentication.Provider]*authentication.Launcher {
	return map[authentication.Provider]*authentication.Launcher{
		authentication.ProviderGoogleRedirect: authentication.NewGoogleLauncher(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.RedirectURL),
		authentication.ProviderGithubRedirect: authentication.NewGithubLauncher(cfg.OAuth.Github.ClientID, cfg.OAuth.Github.RedirectURL),
	}
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

func (tc *TestContext) AssertLogsContainMessage(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

func (tc *TestContext) GetLogRecords() []TestLogRecord {
	return tc.LogHandler.GetRecords()
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, tc.Response.Code, tc.Response.Body.String())
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

// AssertLocationHeader checks the redirect target
func (tc *TestContext) AssertLocationHeader(t *testing.T, expected string) {
	t.Helper()
	if location := tc.Response.Header().Get("Location"); location != expected {
		t.Errorf("Expected Location %q, got %q", expected, location)
	}
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

func (tc *TestContext) GetResponseBody() string {
	return tc.Response.Body.String()
}

// AssertJSONField checks a specific field in a JSON response
func (tc *TestContext) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	if actual, ok := response[field]; !ok || actual != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, response[field])
	}
}

func (tc *TestContext) AssertJSONBool(t *testing.T, field string, expected bool) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualBool, ok := actual.(bool)
	if !ok {
		t.Errorf("Expected %s to be a boolean, got %T", field, actual)
		return
	}

	if actualBool != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, actualBool)
	}
}

// AssertJSONObject validates an object field with expected key-value pairs
func (tc *TestContext) AssertJSONObject(t *testing.T, field string, expectedFields map[string]interface{}) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualObj, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be an object, got %T", field, actual)
		return
	}

	for key, expectedValue := range expectedFields {
		if actualValue, keyExists := actualObj[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// AssertBodyContains checks the raw body for a substring
func (tc *TestContext) AssertBodyContains(t *testing.T, substr string) {
	t.Helper()
	if !strings.Contains(tc.Response.Body.String(), substr) {
		t.Errorf("Expected body to contain %q, got %q", substr, tc.Response.Body.String())
	}
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// Helper to add query parameters to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	return tc
}

// Helper to add headers
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithJSONBody replaces the request body with v encoded as JSON
func (tc *TestContext) WithJSONBody(t *testing.T, v any) *TestContext {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(tc.Request.Method, tc.Request.URL.String(), bytes.NewReader(body)).WithContext(tc.Request.Context())
	req.Header.Set("Content-Type", "application/json")
	return tc.WithRequest(req)
}

// WithRequest allows you to set a custom request (useful for tests that don't use URL constructor)
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// WithContext swaps the context handlers see, keeping any loaded session
func (tc *TestContext) WithContext(ctx context.Context) *TestContext {
	return tc.WithRequest(tc.Request.WithContext(ctx))
}

// SignIn commits token for a test user into the context's session.
func (tc *TestContext) SignIn(t *testing.T, token string) {
	t.Helper()

	user := &models.User{ID: 1, Name: "Test User", Email: "test@example.com", AuthProvider: models.AuthProviderEmail}
	if _, err := tc.AppContext.Credentials.Commit(tc.AppContext, token, user, time.Now()); err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}
}

// ExpectSessionGetToken sets up an expectation for session.GetToken()
func (tc *TestContext) ExpectSessionGetToken(token string, ok bool) *gomock.Call {
	return tc.MockSession.EXPECT().GetToken(tc.AppContext).Return(token, time.Time{}, ok)
}

// ExpectSessionGetUser sets up an expectation for session.GetUser()
func (tc *TestContext) ExpectSessionGetUser(user *models.User, ok bool) *gomock.Call {
	return tc.MockSession.EXPECT().GetUser(tc.AppContext).Return(user, ok)
}
