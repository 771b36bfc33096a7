package stats

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// RateLimitedDoer wraps a Doer with a token bucket that allows at most rpm
// requests per minute. It delays requests; it never retries them.
type RateLimitedDoer struct {
	doer     Doer
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedDoer wraps doer. A nil doer means a plain *http.Client.
func NewRateLimitedDoer(doer Doer, rpm int) *RateLimitedDoer {
	if doer == nil {
		doer = &http.Client{}
	}
	return &RateLimitedDoer{
		doer:     doer,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *RateLimitedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := r.wait(req.Context()); err != nil {
		return nil, err
	}
	return r.doer.Do(req)
}

func (r *RateLimitedDoer) wait(ctx context.Context) error {
	if r.rpm <= 0 {
		return nil
	}
	for {
		r.mu.Lock()
		now := time.Now()
		refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
		if refill > 0 {
			r.tokens = min(r.tokens+refill, r.rpm)
			r.lastFill = now
		}

		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
