package authentication

import (
	"context"
	"errors"
	"fmt"
	"hosting-dashboard/internal/models"
	"io"
	"log/slog"
	"sync"
	"time"
)

var ErrEmptyToken = errors.New("refusing to store an empty token")

// TokenStorage is the durable per-client storage the credential store sits on.
// CredentialKey names the client session and survives RenewToken; it is empty
// until the session has been written.
type TokenStorage interface {
	SetToken(ctx context.Context, token string, issuedAt time.Time)
	GetToken(ctx context.Context) (token string, issuedAt time.Time, ok bool)
	SetUser(ctx context.Context, user *models.User)
	GetUser(ctx context.Context) (user *models.User, ok bool)
	ClearToken(ctx context.Context)
	CredentialKey(ctx context.Context) string
	RenewToken(ctx context.Context) error
}

// CredentialRecords holds the newest credential of each client session
// outside any single request's copy of that session.
type CredentialRecords interface {
	Advance(ctx context.Context, key string, credential models.Credential) (current models.Credential, advanced bool, err error)
	Latest(ctx context.Context, key string) (models.Credential, bool, error)
}

type CredentialStoreOption func(*CredentialStore)

// WithCredentialRecords makes records the authority on which token is
// current. Without it the store trusts the request's own session copy.
func WithCredentialRecords(records CredentialRecords, logger *slog.Logger) CredentialStoreOption {
	return func(s *CredentialStore) {
		s.records = records
		if logger != nil {
			s.logger = logger
		}
	}
}

// CredentialStore holds at most one session token per client. It never
// validates the token or talks to the network.
type CredentialStore struct {
	storage TokenStorage
	records CredentialRecords
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewCredentialStore(storage TokenStorage, opts ...CredentialStoreOption) *CredentialStore {
	s := &CredentialStore{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Read returns the current token. A session copy that lags behind the
// records is brought up to date first.
func (s *CredentialStore) Read(ctx context.Context) (string, bool) {
	token, _, ok := s.storage.GetToken(ctx)

	if latest, found := s.latest(ctx); found {
		if latest.Token != token {
			s.adopt(ctx, latest)
		}
		return latest.Token, latest.Token != ""
	}

	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *CredentialStore) User(ctx context.Context) (*models.User, bool) {
	if !s.IsAuthenticated(ctx) {
		return nil, false
	}
	return s.storage.GetUser(ctx)
}

// Clear destroys the current token. Flows that started before the clear can
// no longer commit into this session.
func (s *CredentialStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records != nil {
		if key := s.storage.CredentialKey(ctx); key != "" {
			if _, _, err := s.records.Advance(ctx, key, models.Credential{IssuedAt: s.now()}); err != nil {
				s.logger.Error("failed to record cleared credential", "error", err)
			}
		}
	}

	s.storage.ClearToken(ctx)
}

func (s *CredentialStore) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Read(ctx)
	return ok
}

// Commit stores token and user produced by a flow that started at issuedAt.
// It returns false without writing when the current token came from a flow
// that started later; the session then carries that newer token. On success
// the session gets a fresh identifier.
func (s *CredentialStore) Commit(ctx context.Context, token string, user *models.User, issuedAt time.Time) (bool, error) {
	if token == "" {
		return false, ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, currentIssuedAt, ok := s.storage.GetToken(ctx); ok && currentIssuedAt.After(issuedAt) {
		return false, nil
	}

	credential := models.Credential{Token: token, User: user.Copy(), IssuedAt: issuedAt}

	key := ""
	if s.records != nil {
		key = s.storage.CredentialKey(ctx)
	}
	if key != "" {
		current, advanced, err := s.records.Advance(ctx, key, credential)
		if err != nil {
			return false, fmt.Errorf("record credential: %w", err)
		}
		if !advanced {
			s.adopt(ctx, current)
			return false, nil
		}
	}

	if err := s.storage.RenewToken(ctx); err != nil {
		return false, fmt.Errorf("renew session: %w", err)
	}

	s.storage.SetToken(ctx, token, issuedAt)
	s.storage.SetUser(ctx, user.Copy())

	// first write of a fresh session; nothing else can share it yet
	if s.records != nil && key == "" {
		if key = s.storage.CredentialKey(ctx); key != "" {
			if _, _, err := s.records.Advance(ctx, key, credential); err != nil {
				s.logger.Error("failed to record credential", "error", err)
			}
		}
	}

	return true, nil
}

func (s *CredentialStore) latest(ctx context.Context) (models.Credential, bool) {
	if s.records == nil {
		return models.Credential{}, false
	}

	key := s.storage.CredentialKey(ctx)
	if key == "" {
		return models.Credential{}, false
	}

	latest, found, err := s.records.Latest(ctx, key)
	if err != nil {
		s.logger.Warn("credential records unavailable, using session copy", "error", err)
		return models.Credential{}, false
	}
	return latest, found
}

// adopt overwrites the session copy with the recorded credential.
func (s *CredentialStore) adopt(ctx context.Context, latest models.Credential) {
	if latest.Token == "" {
		s.storage.ClearToken(ctx)
		return
	}

	s.storage.SetToken(ctx, latest.Token, latest.IssuedAt)
	s.storage.SetUser(ctx, latest.User.Copy())
}
