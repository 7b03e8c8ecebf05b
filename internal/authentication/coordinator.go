package authentication

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

const DefaultFailureRedirectDelay = 3 * time.Second

type CoordinatorState string

const (
	StateIdle       CoordinatorState = "idle"
	StateDetecting  CoordinatorState = "detecting"
	StateNoCode     CoordinatorState = "no_code"
	StateHasError   CoordinatorState = "has_error"
	StateHasCode    CoordinatorState = "has_code"
	StateConsuming  CoordinatorState = "consuming"
	StateExchanging CoordinatorState = "exchanging"
	StateSucceeded  CoordinatorState = "succeeded"
	StateFailed     CoordinatorState = "failed"
)

// Location is the URL the callback landed on.
type Location interface {
	Query() url.Values
	// Strip removes the callback parameters so they cannot be read again.
	Strip()
}

// Ledger records which authorization codes have been consumed.
type Ledger interface {
	Claim(ctx context.Context, code string) (bool, error)
}

type Exchanger interface {
	RunFlow(ctx context.Context, store *CredentialStore, provider Provider, proof Proof) (*FlowResult, error)
}

type Navigator interface {
	Navigate(destination string)
	// Fail shows message and then returns the user to entry after delay.
	Fail(message string, entry string, delay time.Duration)
}

// StateStorage holds the oauth state issued when the redirect was launched.
type StateStorage interface {
	GetOauthState(ctx context.Context) string
	ClearOauthState(ctx context.Context)
}

type CoordinatorConfig struct {
	Provider     Provider
	RequireState bool
	EntryPath    string
	FailureDelay time.Duration
}

type CoordinatorDeps struct {
	Location  Location
	Ledger    Ledger
	Exchanger Exchanger
	Store     *CredentialStore
	Origin    *OriginMemory
	States    StateStorage
	Navigator Navigator
	Logger    *slog.Logger
}

type CallbackOutcome struct {
	State       CoordinatorState
	Destination string
	Message     string
	Result      *FlowResult
	Err         error
}

// Coordinator processes a single redirect callback. Run exchanges the code at
// most once; concurrent or repeated calls wait for and share the first
// outcome.
type Coordinator struct {
	cfg  CoordinatorConfig
	deps CoordinatorDeps

	mu      sync.Mutex
	state   CoordinatorState
	started bool
	done    chan struct{}
	outcome *CallbackOutcome
}

func NewCoordinator(cfg CoordinatorConfig, deps CoordinatorDeps) *Coordinator {
	if cfg.EntryPath == "" {
		cfg.EntryPath = "/"
	}
	if cfg.FailureDelay <= 0 {
		cfg.FailureDelay = DefaultFailureRedirectDelay
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Coordinator{
		cfg:   cfg,
		deps:  deps,
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

func (c *Coordinator) State() CoordinatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Run(ctx context.Context) *CallbackOutcome {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		select {
		case <-c.done:
			return c.outcome
		case <-ctx.Done():
			return &CallbackOutcome{State: c.State(), Err: ctx.Err()}
		}
	}
	c.started = true
	c.mu.Unlock()

	outcome := c.run(ctx)

	c.mu.Lock()
	c.outcome = outcome
	c.state = outcome.State
	c.mu.Unlock()
	close(c.done)

	return outcome
}

func (c *Coordinator) setState(state CoordinatorState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *Coordinator) run(ctx context.Context) *CallbackOutcome {
	logger := c.deps.Logger.With("provider", c.cfg.Provider)

	c.setState(StateDetecting)
	query := c.deps.Location.Query()
	code := query.Get("code")
	errParam := query.Get("error")

	if code == "" && errParam == "" {
		return &CallbackOutcome{State: StateNoCode}
	}

	if errParam != "" {
		c.setState(StateHasError)
		c.deps.Location.Strip()
		logger.Warn("provider returned an error", "error", errParam, "error_description", query.Get("error_description"))
		return c.fail(newError(KindProviderDenied, c.cfg.Provider, errParam, nil))
	}

	c.setState(StateHasCode)
	c.setState(StateConsuming)
	c.deps.Location.Strip()

	claimed, err := c.deps.Ledger.Claim(ctx, code)
	if err != nil {
		logger.Error("unable to record authorization code", "error", err)
		return c.fail(newError(KindNetworkFailure, c.cfg.Provider, "unable to record authorization code", err))
	}
	if !claimed {
		logger.Info("authorization code already consumed, ignoring callback")
		return &CallbackOutcome{State: StateNoCode}
	}

	if c.cfg.RequireState {
		expected := ""
		if c.deps.States != nil {
			expected = c.deps.States.GetOauthState(ctx)
			c.deps.States.ClearOauthState(ctx)
		}
		if expected == "" || expected != query.Get("state") {
			logger.Warn("oauth state mismatch")
			return c.fail(newError(KindProviderRejected, c.cfg.Provider, "invalid state parameter", nil))
		}
	}

	c.setState(StateExchanging)
	result, err := c.deps.Exchanger.RunFlow(ctx, c.deps.Store, c.cfg.Provider, CodeProof{Code: code})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &CallbackOutcome{State: StateFailed, Err: err}
		}
		return c.fail(err)
	}

	destination := c.deps.Origin.Resolve(ctx)
	c.deps.Origin.Clear(ctx)
	c.deps.Navigator.Navigate(destination)

	return &CallbackOutcome{
		State:       StateSucceeded,
		Destination: destination,
		Result:      result,
	}
}

func (c *Coordinator) fail(err error) *CallbackOutcome {
	message := MessageFor(c.cfg.Provider, err)
	c.deps.Navigator.Fail(message, c.cfg.EntryPath, c.cfg.FailureDelay)

	return &CallbackOutcome{
		State:       StateFailed,
		Destination: c.cfg.EntryPath,
		Message:     message,
		Err:         AsAuthError(c.cfg.Provider, err),
	}
}
