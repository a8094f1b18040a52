package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values  map[string]string
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values:  map[string]string{},
		counts:  map[string]int64{},
		expires: map[string]time.Duration{},
	}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = toString(value)
	f.expires[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = toString(value)
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Incr(_ context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	removed := int64(0)
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func toString(value any) string {
	if v, ok := value.(string); ok {
		return v
	}
	return "?"
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()
	client := &Client{}

	if got := client.IdempotencyKey("checkout", "abc"); got != "fm:idempotency:checkout:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := client.RateLimitKey("login:ip"); got != "fm:rate_limit:login:ip" {
		t.Fatalf("unexpected rate limit key %q", got)
	}
	if got := client.CounterKey("orders"); got != "fm:counter:orders" {
		t.Fatalf("unexpected counter key %q", got)
	}
}

func TestSetNXFirstWriteWins(t *testing.T) {
	t.Parallel()
	client := &Client{store: newFakeStore()}
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "fm:idempotency:checkout:k1", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to win, ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "fm:idempotency:checkout:k1", "1", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second SetNX to lose, ok=%v err=%v", ok, err)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	t.Parallel()
	client := &Client{store: newFakeStore()}
	ctx := context.Background()

	allowed, count, err := client.FixedWindowAllow(ctx, "login", 1, time.Minute)
	if err != nil || !allowed || count != 1 {
		t.Fatalf("first request should be allowed, allowed=%v count=%d err=%v", allowed, count, err)
	}
	allowed, count, err = client.FixedWindowAllow(ctx, "login", 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed || count != 2 {
		t.Fatalf("second request should be limited, allowed=%v count=%d", allowed, count)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	t.Parallel()
	client := &Client{}
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v", 0); err == nil {
		t.Fatal("expected error from uninitialized Set")
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Fatal("expected error from uninitialized Get")
	}
	if err := client.Ping(ctx); err == nil {
		t.Fatal("expected error from uninitialized Ping")
	}
}
