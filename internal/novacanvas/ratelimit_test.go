package novacanvas

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// memStore is an in-memory objectStore for tests.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, key string, body []byte, _ string) error {
	m.objects[key] = body
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := m.objects[key]
	return data, ok, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestRateLimiterReserve(t *testing.T) {
	store := newMemStore()
	limiter := NewRateLimiter(store, 3)
	now := time.Now()
	limiter.now = fixedClock(now)
	ctx := context.Background()

	// budget 3: standard + premium fills it exactly
	if err := limiter.Reserve(ctx, QualityStandard); err != nil {
		t.Fatalf("first standard request should pass: %v", err)
	}
	if err := limiter.Reserve(ctx, QualityPremium); err != nil {
		t.Fatalf("premium request should pass: %v", err)
	}
	if err := limiter.Reserve(ctx, QualityStandard); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRateLimiterPremiumWeighsDouble(t *testing.T) {
	store := newMemStore()
	limiter := NewRateLimiter(store, 2)
	limiter.now = fixedClock(time.Now())
	ctx := context.Background()

	if err := limiter.Reserve(ctx, QualityStandard); err != nil {
		t.Fatalf("standard request should pass: %v", err)
	}
	// one standard slot used, a premium request needs two
	if err := limiter.Reserve(ctx, QualityPremium); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited for premium, got %v", err)
	}
	if err := limiter.Reserve(ctx, QualityStandard); err != nil {
		t.Fatalf("second standard request should still fit: %v", err)
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	store := newMemStore()
	limiter := NewRateLimiter(store, 1)
	start := time.Now()
	limiter.now = fixedClock(start)
	ctx := context.Background()

	if err := limiter.Reserve(ctx, QualityStandard); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	if err := limiter.Reserve(ctx, QualityStandard); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited inside the window, got %v", err)
	}

	limiter.now = fixedClock(start.Add(rateLimitWindow + time.Minute))
	if err := limiter.Reserve(ctx, QualityStandard); err != nil {
		t.Fatalf("request after the window should pass: %v", err)
	}

	// expired stamps are pruned from the persisted window
	data, found, err := store.Get(ctx, rateLimitKey)
	if err != nil || !found {
		t.Fatalf("expected persisted window, found=%v err=%v", found, err)
	}
	var window rateWindow
	if err := json.Unmarshal(data, &window); err != nil {
		t.Fatalf("failed to decode persisted window: %v", err)
	}
	if len(window.Standard) != 1 {
		t.Errorf("expected 1 retained stamp, got %d", len(window.Standard))
	}
}

func TestRateLimiterUnknownQualityCountsAsStandard(t *testing.T) {
	store := newMemStore()
	limiter := NewRateLimiter(store, 1)
	limiter.now = fixedClock(time.Now())

	if err := limiter.Reserve(context.Background(), ""); err != nil {
		t.Fatalf("empty quality should reserve a standard slot: %v", err)
	}
}
