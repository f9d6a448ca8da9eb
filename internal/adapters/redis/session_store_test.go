package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SetAndGet(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	store := NewSessionStores(tr.Client).Scope("browser-1")
	ctx := context.Background()

	want := domainauth.StoredSession{Token: "t1", User: `{"username":"alice","role":"editor"}`}
	require.NoError(t, store.Set(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := tr.Client.Get(ctx, "session:{browser-1}:token").Result()
	require.NoError(t, err)
	assert.Equal(t, "t1", raw)
}

func TestSessionStore_GetMissingScope(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	got, err := NewSessionStores(tr.Client).Scope("nobody").Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSessionStore_ClearRemovesBothKeys(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	store := NewSessionStores(tr.Client).Scope("browser-2")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t1", User: `{"role":"admin"}`}))
	require.NoError(t, store.Clear(ctx))

	n, err := tr.Client.Exists(ctx, "session:{browser-2}:token", "session:{browser-2}:user").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	// Clearing again is harmless.
	require.NoError(t, store.Clear(ctx))
}

func TestSessionStore_SetWithEmptyUserDropsStaleUser(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	store := NewSessionStores(tr.Client).Scope("browser-3")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t1", User: `{"role":"admin"}`}))
	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t2"}))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domainauth.StoredSession{Token: "t2"}, got)
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	if tr.Server == nil {
		t.Skip("TTL fast-forward requires miniredis")
	}
	store := NewSessionStoresWithPrefix(tr.Client, "console:", time.Minute).Scope("browser-4")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domainauth.StoredSession{Token: "t1", User: "{}"}))
	tr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSessionStore_EmptyScope(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	store := NewSessionStores(tr.Client).Scope("")
	ctx := context.Background()

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	require.Error(t, store.Set(ctx, domainauth.StoredSession{Token: "t1"}))
	require.NoError(t, store.Clear(ctx))
}

func TestSessionStore_ConcurrentClearNeverTears(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	store := NewSessionStores(tr.Client).Scope("browser-5")
	ctx := context.Background()
	pair := domainauth.StoredSession{Token: "t1", User: `{"role":"viewer"}`}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = store.Set(ctx, pair)
			_ = store.Clear(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			got, err := store.Get(ctx)
			if err != nil {
				continue
			}
			assert.True(t, got == pair || got.Empty(), "torn read: %+v", got)
		}
	}()
	wg.Wait()
}
