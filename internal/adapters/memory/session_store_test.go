package memory

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	stores := NewSessionStores(time.Hour)
	store := stores.Scope("a")
	ctx := context.Background()

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	pair := domainauth.StoredSession{Token: "t1", User: `{"role":"editor"}`}
	require.NoError(t, store.Set(ctx, pair))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)
	assert.Equal(t, 1, stores.Len())

	require.NoError(t, store.Clear(ctx))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Zero(t, stores.Len())
}

func TestSessionStore_ScopesAreIsolated(t *testing.T) {
	stores := NewSessionStores(time.Hour)
	ctx := context.Background()

	require.NoError(t, stores.Scope("a").Set(ctx, domainauth.StoredSession{Token: "ta"}))
	require.NoError(t, stores.Scope("b").Set(ctx, domainauth.StoredSession{Token: "tb"}))
	require.NoError(t, stores.Scope("a").Clear(ctx))

	got, err := stores.Scope("b").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tb", got.Token)
}

func TestSessionStore_Expiry(t *testing.T) {
	stores := NewSessionStores(20 * time.Millisecond)
	store := stores.Scope("a")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t1"}))
	time.Sleep(50 * time.Millisecond)

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSessionStore_RejectsEmptyScope(t *testing.T) {
	store := NewSessionStores(time.Hour).Scope("")
	require.Error(t, store.Set(context.Background(), domainauth.StoredSession{Token: "t1"}))
}
