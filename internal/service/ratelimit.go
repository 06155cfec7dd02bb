package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// Decision is the outcome of one rate-limit check, with enough metadata for
// the caller to build a 429 response.
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter applies fixed-window counting per (operation class, client)
// pair over an injectable record store. Checks are serialized with a mutex;
// the read-modify-write on a shared store key is otherwise racy, and a miss
// there only costs a request of budget either way.
type RateLimiter struct {
	mu    sync.Mutex
	rules map[string]util.RateLimitRule
	store storage.RateLimitRepository
	sweep time.Duration
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewRateLimiter(cfg *util.RateLimitConfig, store storage.RateLimitRepository, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{
		rules: cfg.Rules,
		store: store,
		sweep: cfg.SweepInterval,
		log:   log,
		now:   time.Now,
	}
}

// Check counts one request for the class/client pair. A store failure fails
// open with a warning: a broken limiter backend must not take the site down.
func (l *RateLimiter) Check(ctx context.Context, class, clientID string) Decision {
	rule, ok := l.rules[class]
	if !ok {
		rule = l.rules[util.RateClassAPI]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := class + ":" + clientID

	rec, err := l.store.GetRecord(ctx, key)
	if err != nil {
		l.log.Warnw("rate limit store unavailable, allowing request", "class", class, "error", err)
		return Decision{Allowed: true, Remaining: rule.Ceiling - 1, ResetAt: now.Add(rule.Window)}
	}

	// First request in a window, or the previous window has elapsed.
	if rec == nil || now.After(rec.ResetAt) {
		fresh := models.RateLimitRecord{Count: 1, ResetAt: now.Add(rule.Window)}
		if err := l.store.SetRecord(ctx, key, fresh); err != nil {
			l.log.Warnw("rate limit store write failed", "class", class, "error", err)
		}
		return Decision{Allowed: true, Remaining: rule.Ceiling - 1, ResetAt: fresh.ResetAt}
	}

	// Over budget: reject without incrementing.
	if rec.Count >= rule.Ceiling {
		retryAfter := rec.ResetAt.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Decision{Allowed: false, Remaining: 0, ResetAt: rec.ResetAt, RetryAfter: retryAfter}
	}

	rec.Count++
	if err := l.store.SetRecord(ctx, key, *rec); err != nil {
		l.log.Warnw("rate limit store write failed", "class", class, "error", err)
	}

	remaining := rule.Ceiling - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Remaining: remaining, ResetAt: rec.ResetAt}
}

// Rule exposes the configured ceiling/window for a class (falling back to the
// generic API class), for response headers.
func (l *RateLimiter) Rule(class string) util.RateLimitRule {
	if rule, ok := l.rules[class]; ok {
		return rule
	}
	return l.rules[util.RateClassAPI]
}

// StartSweeper purges expired records on a timer until ctx is cancelled.
// Purging is a memory bound, not a correctness requirement.
func (l *RateLimiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.sweep)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := l.store.PurgeExpired(ctx, l.now())
				if err != nil {
					l.log.Warnw("rate limit sweep failed", "error", err)
					continue
				}
				if purged > 0 {
					l.log.Debugw("rate limit sweep", "purged", purged)
				}
			}
		}
	}()
}
