package authentication

import (
	"context"
	"hosting-dashboard/internal/metrics"
	"hosting-dashboard/internal/utils"
	"log/slog"
	"time"
)

const DefaultMinDuration = 1500 * time.Millisecond

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Observer is notified whenever the loading presentation of a flow changes.
type Observer interface {
	LoadingChanged(state LoadingState)
}

type ObserverFunc func(state LoadingState)

func (f ObserverFunc) LoadingChanged(state LoadingState) {
	f(state)
}

type ControllerOption func(*Controller)

func WithClock(clock Clock) ControllerOption {
	return func(c *Controller) {
		c.clock = clock
	}
}

func WithMinDuration(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d >= 0 {
			c.minDuration = d
		}
	}
}

func WithObserver(observer Observer) ControllerOption {
	return func(c *Controller) {
		c.observers = append(c.observers, observer)
	}
}

// Controller runs authentication flows. It keeps no per-flow state and is
// safe for concurrent use.
type Controller struct {
	adapters    map[Provider]Adapter
	clock       Clock
	minDuration time.Duration
	observers   []Observer
	logger      *slog.Logger
}

func NewController(adapters map[Provider]Adapter, logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		adapters:    adapters,
		clock:       realClock{},
		minDuration: DefaultMinDuration,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RunFlow exchanges proof through the provider's adapter and persists the
// resulting token into store as soon as the exchange resolves. The outcome
// is returned no earlier than the minimum duration after the flow started.
// If ctx is done while waiting, ctx.Err() is returned and the outcome is
// dropped; the persisted token stays.
func (c *Controller) RunFlow(ctx context.Context, store *CredentialStore, provider Provider, proof Proof) (*FlowResult, error) {
	startedAt := c.clock.Now()
	c.notify(LoadingState{Provider: provider, Visible: true, StartedAt: startedAt})
	defer c.notify(LoadingState{Provider: provider, Visible: false, StartedAt: startedAt})

	flow, err := c.exchange(ctx, store, provider, proof, startedAt)

	if waitErr := c.holdUntil(ctx, startedAt); waitErr != nil {
		metrics.AuthFlowsTotal.WithLabelValues(string(provider), metrics.FlowOutcomeAbandoned).Inc()
		c.logger.Info("auth flow abandoned by client", "provider", provider, "error", waitErr)
		return nil, waitErr
	}

	if err != nil {
		authErr := AsAuthError(provider, err)
		metrics.AuthFlowsTotal.WithLabelValues(string(provider), metrics.FlowOutcomeFailure).Inc()
		metrics.AuthFlowErrors.WithLabelValues(string(provider), string(authErr.Kind)).Inc()
		c.logger.Warn("auth flow failed", "provider", provider, "kind", authErr.Kind, "error", authErr)
		return nil, authErr
	}

	outcome := metrics.FlowOutcomeSuccess
	if !flow.Applied {
		outcome = metrics.FlowOutcomeSuperseded
	}
	metrics.AuthFlowsTotal.WithLabelValues(string(provider), outcome).Inc()

	return flow, nil
}

func (c *Controller) exchange(ctx context.Context, store *CredentialStore, provider Provider, proof Proof, startedAt time.Time) (*FlowResult, error) {
	adapter, ok := c.adapters[provider]
	if !ok || adapter == nil {
		return nil, newError(KindConfigurationMissing, provider, "provider is not enabled", nil)
	}

	result, err := adapter.Exchange(ctx, proof)
	metrics.AuthExchangeDuration.WithLabelValues(string(provider)).Observe(c.clock.Now().Sub(startedAt).Seconds())
	if err != nil {
		return nil, err
	}

	if result == nil || result.Token == "" {
		return nil, newError(KindProviderRejected, provider, "Tidak menerima token dari server", nil)
	}

	applied, err := store.Commit(ctx, result.Token, result.User, startedAt)
	if err != nil {
		return nil, newError(KindProviderRejected, provider, "unable to store session token", err)
	}

	if applied {
		c.logger.Info("session token stored",
			"provider", provider,
			"email", utils.RedactEmail(result.User.Email),
			"token", utils.RedactToken(result.Token))
	} else {
		c.logger.Info("session token discarded, a newer flow owns the session", "provider", provider)
	}

	return &FlowResult{
		Provider:  provider,
		Token:     result.Token,
		User:      result.User,
		StartedAt: startedAt,
		Applied:   applied,
	}, nil
}

func (c *Controller) holdUntil(ctx context.Context, startedAt time.Time) error {
	remaining := c.minDuration - c.clock.Now().Sub(startedAt)
	if remaining <= 0 {
		return nil
	}

	select {
	case <-c.clock.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) notify(state LoadingState) {
	for _, o := range c.observers {
		o.LoadingChanged(state)
	}
}

// LoadingMetricsObserver mirrors loading state into the loading gauge and logs.
func LoadingMetricsObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(state LoadingState) {
		gauge := metrics.AuthFlowsLoading.WithLabelValues(string(state.Provider))
		if state.Visible {
			gauge.Inc()
			logger.Debug("auth flow loading", "provider", state.Provider)
			return
		}
		gauge.Dec()
		logger.Debug("auth flow settled", "provider", state.Provider, "duration", time.Since(state.StartedAt))
	})
}

// CredentialFlow returns the widget callback that runs a One-Tap credential
// through the controller into store.
func (c *Controller) CredentialFlow(store *CredentialStore) CredentialCallback {
	return func(ctx context.Context, credential string) (*FlowResult, error) {
		return c.RunFlow(ctx, store, ProviderGoogleCredential, CredentialProof{Credential: credential})
	}
}
