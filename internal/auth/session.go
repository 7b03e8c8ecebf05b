package auth

import (
	"context"
	"encoding/gob"
	"fmt"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/models"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager keeps the per-browser credential state in an scs session.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager builds the session manager. client is required when
// cfg.Sessions.Store is "redis".
func NewSessionManager(logger *slog.Logger, cfg *config.Config, client *redis.Client) (*SessionManager, error) {
	gob.Register(&models.User{})
	sessionManager := scs.New()

	switch cfg.Sessions.Store {
	case "memory", "":
		sessionManager.Store = memstore.New()
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis session store requires a redis client")
		}

		ctx := context.Background()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}

		logger.Debug("using redis session store", "db", cfg.Redis.SessionIndex)
		sessionManager.Store = goredisstore.New(client)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Sessions.Store)
	}

	sessionManager.Lifetime = cfg.Sessions.FixedTimeout

	sessionManager.Cookie.Name = cfg.Sessions.Name
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Sessions.Secure
	sessionManager.Cookie.Path = "/"

	return &SessionManager{SessionManager: sessionManager}, nil
}

func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.SessionManager.LoadAndSave(next)
}

// CredentialKey identifies the session to the credential ledger. Unlike the
// cookie token it is kept across RenewToken.
func (s *SessionManager) CredentialKey(ctx context.Context) string {
	return s.GetString(ctx, string(SessionKeyCredential))
}

func (s *SessionManager) ensureCredentialKey(ctx context.Context) {
	if s.CredentialKey(ctx) == "" {
		s.Put(ctx, string(SessionKeyCredential), uuid.NewString())
	}
}

func (s *SessionManager) SetToken(ctx context.Context, token string, issuedAt time.Time) {
	s.ensureCredentialKey(ctx)
	s.Put(ctx, string(SessionKeyToken), token)
	s.Put(ctx, string(SessionKeyTokenIssuedAt), issuedAt.UnixNano())
}

func (s *SessionManager) GetToken(ctx context.Context) (token string, issuedAt time.Time, ok bool) {
	token = s.GetString(ctx, string(SessionKeyToken))
	if token == "" {
		return "", time.Time{}, false
	}

	if nanos := s.GetInt64(ctx, string(SessionKeyTokenIssuedAt)); nanos != 0 {
		issuedAt = time.Unix(0, nanos)
	}

	return token, issuedAt, true
}

func (s *SessionManager) ClearToken(ctx context.Context) {
	s.Remove(ctx, string(SessionKeyToken))
	s.Remove(ctx, string(SessionKeyTokenIssuedAt))
	s.Remove(ctx, string(SessionKeyUserData))
}

func (s *SessionManager) SetUser(ctx context.Context, user *models.User) {
	s.Put(ctx, string(SessionKeyUserData), user)
}

func (s *SessionManager) GetUser(ctx context.Context) (user *models.User, ok bool) {
	data := s.Get(ctx, string(SessionKeyUserData))
	if data == nil {
		return nil, false
	}

	if user, ok := data.(*models.User); ok && user != nil {
		return user.Copy(), true
	}

	return nil, false
}

func (s *SessionManager) SetRedirectOrigin(ctx context.Context, path string) {
	s.ensureCredentialKey(ctx)
	s.Put(ctx, string(SessionKeyRedirectOrigin), path)
}

func (s *SessionManager) GetRedirectOrigin(ctx context.Context) string {
	return s.GetString(ctx, string(SessionKeyRedirectOrigin))
}

func (s *SessionManager) ClearRedirectOrigin(ctx context.Context) {
	s.Remove(ctx, string(SessionKeyRedirectOrigin))
}

func (s *SessionManager) SetOauthState(ctx context.Context, state string) {
	s.ensureCredentialKey(ctx)
	s.Put(ctx, string(SessionKeyOauthState), state)
}

func (s *SessionManager) GetOauthState(ctx context.Context) string {
	return s.GetString(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) ClearOauthState(ctx context.Context) {
	s.Remove(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) Logout(ctx context.Context) error {
	return s.Destroy(ctx)
}
