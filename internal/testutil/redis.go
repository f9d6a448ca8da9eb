// Package testutil holds shared helpers for tests that need infrastructure.
package testutil

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestRedis is a Redis client for one test. Server is set when the client talks to an
// in-process miniredis rather than a real Redis.
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// SetupTestRedis returns a Redis for the test. When TEST_REDIS_ADDR is set the test runs
// against that server (DB from TEST_REDIS_DB, flushed on cleanup); otherwise an
// in-process miniredis is started.
func SetupTestRedis(t testing.TB) TestRedis {
	t.Helper()

	if addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR")); addr != "" {
		return realRedis(t, addr)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return TestRedis{Client: client, Server: mr}
}

func realRedis(t testing.TB, addr string) TestRedis {
	t.Helper()

	db := 1
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			t.Fatalf("invalid TEST_REDIS_DB=%q", v)
		}
		db = i
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("redis not available at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.FlushDB(ctx).Err(); err != nil {
			t.Logf("warning: failed to flush redis db %d: %v", db, err)
		}
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return TestRedis{Client: client}
}

// FastForward advances key expiry. It is a no-op against a real Redis, so callers that
// depend on expiry should skip when Server is nil.
func (r TestRedis) FastForward(d time.Duration) {
	if r.Server != nil {
		r.Server.FastForward(d)
	}
}
