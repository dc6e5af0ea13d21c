package novacanvas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	rateLimitKey    = "rate-limit/jsonData.json"
	rateLimitWindow = 20 * time.Minute

	// A premium render costs roughly twice a standard one, so it consumes
	// two slots of the budget.
	premiumWeight  = 2
	standardWeight = 1
)

// rateWindow is the persisted sliding window: unix timestamps of recent
// requests per quality tier.
type rateWindow struct {
	Premium  []int64 `json:"premium"`
	Standard []int64 `json:"standard"`
}

func (w *rateWindow) prune(cutoff int64) {
	w.Premium = keepAfter(w.Premium, cutoff)
	w.Standard = keepAfter(w.Standard, cutoff)
}

func (w *rateWindow) weightedCount() int {
	return len(w.Premium)*premiumWeight + len(w.Standard)*standardWeight
}

func keepAfter(stamps []int64, cutoff int64) []int64 {
	kept := stamps[:0]
	for _, stamp := range stamps {
		if stamp > cutoff {
			kept = append(kept, stamp)
		}
	}
	return kept
}

// RateLimiter enforces a weighted request budget over a sliding window,
// persisted in the shared bucket so every instance sees the same window.
type RateLimiter struct {
	store  objectStore
	budget int
	now    func() time.Time
}

func NewRateLimiter(store objectStore, budget int) *RateLimiter {
	return &RateLimiter{store: store, budget: budget, now: time.Now}
}

// Reserve records one request of the given quality, or returns
// ErrRateLimited when the budget would be exceeded.
func (r *RateLimiter) Reserve(ctx context.Context, quality string) error {
	window, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	currentTime := r.now().Unix()
	window.prune(currentTime - int64(rateLimitWindow.Seconds()))

	weight := standardWeight
	if quality == QualityPremium {
		weight = premiumWeight
	}
	if window.weightedCount()+weight > r.budget {
		return ErrRateLimited
	}
	if quality == QualityPremium {
		window.Premium = append(window.Premium, currentTime)
	} else {
		window.Standard = append(window.Standard, currentTime)
	}
	return r.save(ctx, window)
}

func (r *RateLimiter) load(ctx context.Context) (*rateWindow, error) {
	data, found, err := r.store.Get(ctx, rateLimitKey)
	if err != nil {
		return nil, err
	}
	window := &rateWindow{Premium: []int64{}, Standard: []int64{}}
	if !found {
		return window, nil
	}
	if err := json.Unmarshal(data, window); err != nil {
		return nil, err
	}
	return window, nil
}

func (r *RateLimiter) save(ctx context.Context, window *rateWindow) error {
	data, err := json.Marshal(window)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, rateLimitKey, data, "application/json")
}
