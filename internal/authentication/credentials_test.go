package authentication

import (
	"context"
	"errors"
	"hosting-dashboard/internal/ledger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_CommitReadClear(t *testing.T) {
	ctx := context.Background()
	storage := &memStorage{}
	store := NewCredentialStore(storage)
	base := time.Now()

	_, ok := store.Read(ctx)
	assert.False(t, ok)
	assert.False(t, store.IsAuthenticated(ctx))

	_, err := store.Commit(ctx, "a", githubUser(), base)
	require.NoError(t, err)
	_, err = store.Commit(ctx, "b", githubUser(), base.Add(time.Millisecond))
	require.NoError(t, err)

	token, ok := store.Read(ctx)
	assert.True(t, ok)
	assert.Equal(t, "b", token)
	assert.True(t, store.IsAuthenticated(ctx))
	assert.Equal(t, 2, storage.Renewals())

	store.Clear(ctx)
	assert.False(t, store.IsAuthenticated(ctx))
	_, ok = store.User(ctx)
	assert.False(t, ok)
}

func TestCredentialStore_CommitRejectsEmptyToken(t *testing.T) {
	store := NewCredentialStore(&memStorage{})

	_, err := store.Commit(context.Background(), "", githubUser(), time.Now())
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestCredentialStore_CommitStoresDetachedUser(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(&memStorage{})
	pic := "https://example.com/a.png"
	user := githubUser()
	user.ProfilePicture = &pic

	applied, err := store.Commit(ctx, "t1", user, time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	*user.ProfilePicture = "changed"
	stored, ok := store.User(ctx)
	require.True(t, ok)
	require.NotNil(t, stored.ProfilePicture)
	assert.Equal(t, "https://example.com/a.png", *stored.ProfilePicture)
}

func TestCredentialStore_CommitFailsWhenSessionCannotRenew(t *testing.T) {
	ctx := context.Background()
	storage := &memStorage{renewErr: errors.New("store unavailable")}
	store := NewCredentialStore(storage)

	applied, err := store.Commit(ctx, "t1", githubUser(), time.Now())

	assert.Error(t, err)
	assert.False(t, applied)
	_, ok := store.Read(ctx)
	assert.False(t, ok)
}

func TestCredentialStore_CommitHonoursIssueOrder(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(&memStorage{})
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	applied, err := store.Commit(ctx, "second", githubUser(), base.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.Commit(ctx, "first", githubUser(), base)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = store.Commit(ctx, "third", githubUser(), base.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, applied)

	token, _ := store.Read(ctx)
	assert.Equal(t, "third", token)
}

// Two copies of one session model two requests that loaded the same cookie
// before either committed.
func TestCredentialStore_StaleSessionCopyCannotOverwriteNewerToken(t *testing.T) {
	ctx := context.Background()
	records := ledger.NewMemoryCredentialLedger(time.Hour)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	olderCopy := &memStorage{key: "browser-1"}
	newerCopy := &memStorage{key: "browser-1"}
	olderStore := NewCredentialStore(olderCopy, WithCredentialRecords(records, discardLogger()))
	newerStore := NewCredentialStore(newerCopy, WithCredentialRecords(records, discardLogger()))

	applied, err := newerStore.Commit(ctx, "newer", githubUser(), base.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = olderStore.Commit(ctx, "older", githubUser(), base)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 0, olderCopy.Renewals())

	// the losing request carries the winner back into its copy
	token, _, ok := olderCopy.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "newer", token)

	// a copy saved before either commit still reads the newer token
	staleCopy := &memStorage{key: "browser-1"}
	staleStore := NewCredentialStore(staleCopy, WithCredentialRecords(records, discardLogger()))
	token, ok = staleStore.Read(ctx)
	assert.True(t, ok)
	assert.Equal(t, "newer", token)
	user, ok := staleStore.User(ctx)
	require.True(t, ok)
	assert.Equal(t, githubUser().Email, user.Email)
}

func TestCredentialStore_ClearBlocksFlowsStartedBeforeIt(t *testing.T) {
	ctx := context.Background()
	records := ledger.NewMemoryCredentialLedger(time.Hour)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &memStorage{key: "browser-1"}
	late := &memStorage{key: "browser-1"}
	firstStore := NewCredentialStore(first, WithCredentialRecords(records, discardLogger()))
	firstStore.now = func() time.Time { return base.Add(time.Minute) }
	lateStore := NewCredentialStore(late, WithCredentialRecords(records, discardLogger()))

	_, err := firstStore.Commit(ctx, "t1", githubUser(), base)
	require.NoError(t, err)
	firstStore.Clear(ctx)

	applied, err := lateStore.Commit(ctx, "t2", githubUser(), base.Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.False(t, lateStore.IsAuthenticated(ctx))

	applied, err = lateStore.Commit(ctx, "t3", githubUser(), base.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, firstStore.IsAuthenticated(ctx))
}

func TestCredentialStore_FreshSessionIsRecordedAfterFirstCommit(t *testing.T) {
	ctx := context.Background()
	records := ledger.NewMemoryCredentialLedger(time.Hour)
	storage := &memStorage{}
	store := NewCredentialStore(storage, WithCredentialRecords(records, discardLogger()))

	applied, err := store.Commit(ctx, "t1", githubUser(), time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	latest, found, err := records.Latest(ctx, storage.CredentialKey(ctx))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "t1", latest.Token)
}
