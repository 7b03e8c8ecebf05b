package authentication

import (
	"context"
	"errors"
	"hosting-dashboard/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func githubUser() *models.User {
	return &models.User{ID: 7, Name: "Octo Cat", Email: "octo@example.com", AuthProvider: models.AuthProviderGithub}
}

func TestRunFlow_FastExchangeIsHeldForMinimumDuration(t *testing.T) {
	clock := newFakeClock()
	storage := &memStorage{}
	store := NewCredentialStore(storage)

	var states []LoadingState
	adapters := map[Provider]Adapter{
		ProviderGithubRedirect: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			clock.Advance(200 * time.Millisecond)
			return &ExchangeResult{Token: "t1", User: githubUser()}, nil
		}),
	}
	controller := NewController(adapters, discardLogger(),
		WithClock(clock),
		WithObserver(ObserverFunc(func(s LoadingState) { states = append(states, s) })),
	)

	result, err := controller.RunFlow(context.Background(), store, ProviderGithubRedirect, CodeProof{Code: "xyz"})

	require.NoError(t, err)
	assert.Equal(t, "t1", result.Token)
	assert.True(t, result.Applied)
	assert.Equal(t, []time.Duration{1300 * time.Millisecond}, clock.Waits())

	require.Len(t, states, 2)
	assert.True(t, states[0].Visible)
	assert.False(t, states[1].Visible)
	assert.Equal(t, ProviderGithubRedirect, states[0].Provider)
}

func TestRunFlow_SlowExchangeIsNotDelayed(t *testing.T) {
	clock := newFakeClock()
	store := NewCredentialStore(&memStorage{})

	adapters := map[Provider]Adapter{
		ProviderPassword: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			clock.Advance(2 * time.Second)
			return &ExchangeResult{Token: "slow", User: githubUser()}, nil
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(clock))

	result, err := controller.RunFlow(context.Background(), store, ProviderPassword, PasswordProof{Email: "a@b.c", Password: "x"})

	require.NoError(t, err)
	assert.Equal(t, "slow", result.Token)
	assert.Empty(t, clock.Waits())
}

func TestRunFlow_FailureIsHeldAndNotPersisted(t *testing.T) {
	clock := newFakeClock()
	storage := &memStorage{}
	store := NewCredentialStore(storage)

	adapters := map[Provider]Adapter{
		ProviderPassword: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			clock.Advance(100 * time.Millisecond)
			return nil, newError(KindInvalidCredentials, ProviderPassword, "Email atau password salah", nil)
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(clock))

	result, err := controller.RunFlow(context.Background(), store, ProviderPassword, PasswordProof{Email: "a@b.c", Password: "x"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []time.Duration{1400 * time.Millisecond}, clock.Waits())
	assert.False(t, store.IsAuthenticated(context.Background()))
}

func TestRunFlow_TokenPersistedBeforeOutcomeIsShown(t *testing.T) {
	clock := newFakeClock()
	clock.block = true
	store := NewCredentialStore(&memStorage{})

	adapters := map[Provider]Adapter{
		ProviderGoogleRedirect: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			return &ExchangeResult{Token: "early", User: githubUser()}, nil
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	var (
		result *FlowResult
		err    error
		wg     sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, err = controller.RunFlow(ctx, store, ProviderGoogleRedirect, CodeProof{Code: "c"})
	}()

	require.Eventually(t, func() bool { return len(clock.Waits()) == 1 }, time.Second, time.Millisecond)

	token, ok := store.Read(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "early", token)

	cancel()
	wg.Wait()

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)

	token, ok = store.Read(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "early", token)
}

func TestRunFlow_OlderFlowDoesNotOverwriteNewerToken(t *testing.T) {
	clock := newFakeClock()
	store := NewCredentialStore(&memStorage{})

	adapters := map[Provider]Adapter{
		ProviderGithubRedirect: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			// A flow that started later completes while this one is in flight.
			clock.Advance(500 * time.Millisecond)
			_, err := store.Commit(ctx, "newer", githubUser(), clock.Now())
			require.NoError(t, err)
			return &ExchangeResult{Token: "older", User: githubUser()}, nil
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(clock))

	result, err := controller.RunFlow(context.Background(), store, ProviderGithubRedirect, CodeProof{Code: "c"})

	require.NoError(t, err)
	assert.False(t, result.Applied)

	token, _ := store.Read(context.Background())
	assert.Equal(t, "newer", token)
}

func TestRunFlow_NewerFlowReplacesToken(t *testing.T) {
	clock := newFakeClock()
	store := NewCredentialStore(&memStorage{})
	_, err := store.Commit(context.Background(), "old", githubUser(), clock.Now().Add(-time.Hour))
	require.NoError(t, err)

	adapters := map[Provider]Adapter{
		ProviderGoogleCredential: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			return &ExchangeResult{Token: "new", User: githubUser()}, nil
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(clock), WithMinDuration(0))

	result, err := controller.RunFlow(context.Background(), store, ProviderGoogleCredential, CredentialProof{Credential: "jwt"})

	require.NoError(t, err)
	assert.True(t, result.Applied)
	token, _ := store.Read(context.Background())
	assert.Equal(t, "new", token)
}

func TestRunFlow_UnknownProviderIsConfigurationMissing(t *testing.T) {
	controller := NewController(map[Provider]Adapter{}, discardLogger(), WithClock(newFakeClock()), WithMinDuration(0))

	_, err := controller.RunFlow(context.Background(), NewCredentialStore(&memStorage{}), ProviderGithubRedirect, CodeProof{Code: "c"})

	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestRunFlow_UntypedAdapterErrorBecomesNetworkFailure(t *testing.T) {
	adapters := map[Provider]Adapter{
		ProviderPassword: adapterFunc(func(ctx context.Context, proof Proof) (*ExchangeResult, error) {
			return nil, errors.New("boom")
		}),
	}
	controller := NewController(adapters, discardLogger(), WithClock(newFakeClock()), WithMinDuration(0))

	_, err := controller.RunFlow(context.Background(), NewCredentialStore(&memStorage{}), ProviderPassword, PasswordProof{})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, KindNetworkFailure, authErr.Kind)
}
