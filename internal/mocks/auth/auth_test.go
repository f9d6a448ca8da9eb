package auth

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(domainauth.StoredSession{})

	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t1", User: `{"role":"admin"}`}))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)

	require.NoError(t, store.Clear(ctx))
	assert.True(t, store.Snapshot().Empty())
	assert.Equal(t, 1, store.Sets)
	assert.Equal(t, 1, store.Gets)
	assert.Equal(t, 1, store.Clears)
}

func TestMemorySessionStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := NewMemorySessionStore(domainauth.StoredSession{Token: "t1"})
	store.GetErr = boom
	store.ClearErr = boom

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, store.Clear(ctx), boom)
	assert.Equal(t, "t1", store.Snapshot().Token)
}

func TestMemorySessionStores_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	stores := NewMemorySessionStores()

	require.NoError(t, stores.Scope("a").Set(ctx, domainauth.StoredSession{Token: "ta"}))
	got, err := stores.Scope("b").Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, "ta", stores.Store("a").Snapshot().Token)
}

func TestRecordingNavigator_FollowsKnownPaths(t *testing.T) {
	nav := NewRecordingNavigator("Dashboard")
	require.NoError(t, nav.Push(context.Background(), "/login"))
	assert.Equal(t, "Login", nav.CurrentRouteName())
	assert.Equal(t, []string{"/login"}, nav.Pushes())

	nav.FollowPush = false
	require.NoError(t, nav.Push(context.Background(), "/"))
	assert.Equal(t, "Login", nav.CurrentRouteName())
}
