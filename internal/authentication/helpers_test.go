package authentication

import (
	"context"
	"hosting-dashboard/internal/models"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStorage stands in for one request's copy of a session. Copies that
// share key behave like concurrent requests on the same browser session.
type memStorage struct {
	mu       sync.Mutex
	key      string
	token    string
	issuedAt time.Time
	user     *models.User
	origin   string
	state    string
	renewals int
	renewErr error
}

func (s *memStorage) SetToken(_ context.Context, token string, issuedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == "" {
		s.key = "session-" + token
	}
	s.token = token
	s.issuedAt = issuedAt
}

func (s *memStorage) GetToken(_ context.Context) (string, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.issuedAt, s.token != ""
}

func (s *memStorage) SetUser(_ context.Context, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *memStorage) GetUser(_ context.Context) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != nil
}

func (s *memStorage) ClearToken(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.issuedAt = time.Time{}
	s.user = nil
}

func (s *memStorage) CredentialKey(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func (s *memStorage) RenewToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renewErr != nil {
		return s.renewErr
	}
	s.renewals++
	return nil
}

func (s *memStorage) Renewals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renewals
}

func (s *memStorage) SetRedirectOrigin(_ context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = path
}

func (s *memStorage) GetRedirectOrigin(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

func (s *memStorage) ClearRedirectOrigin(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = ""
}

func (s *memStorage) GetOauthState(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *memStorage) ClearOauthState(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ""
}

// fakeClock advances its own time whenever After is used, so waits complete
// immediately while still being recorded.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
	block bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	if c.block {
		return ch
	}
	c.now = c.now.Add(d)
	ch <- c.now
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type adapterFunc func(ctx context.Context, proof Proof) (*ExchangeResult, error)

func (f adapterFunc) Exchange(ctx context.Context, proof Proof) (*ExchangeResult, error) {
	return f(ctx, proof)
}

type memLedger struct {
	mu      sync.Mutex
	claimed map[string]bool
	err     error
}

func newMemLedger() *memLedger {
	return &memLedger{claimed: make(map[string]bool)}
}

func (l *memLedger) Claim(_ context.Context, code string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	if l.claimed[code] {
		return false, nil
	}
	l.claimed[code] = true
	return true, nil
}

func (l *memLedger) IsClaimed(code string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claimed[code]
}

type fakeLocation struct {
	mu       sync.Mutex
	query    url.Values
	stripped int
}

func newFakeLocation(rawQuery string) *fakeLocation {
	q, _ := url.ParseQuery(rawQuery)
	return &fakeLocation{query: q}
}

func (l *fakeLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := url.Values{}
	for k, v := range l.query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

func (l *fakeLocation) Strip() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = url.Values{}
	l.stripped++
}

type failure struct {
	message string
	entry   string
	delay   time.Duration
}

type fakeNavigator struct {
	mu          sync.Mutex
	destination string
	failures    []failure
}

func (n *fakeNavigator) Navigate(destination string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destination = destination
}

func (n *fakeNavigator) Fail(message string, entry string, delay time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, failure{message: message, entry: entry, delay: delay})
}
