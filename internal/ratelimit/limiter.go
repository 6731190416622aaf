package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const successWindow = 100

// Profile bounds the adaptive delay and sets how harshly failures grow it.
type Profile struct {
	MinDelay              time.Duration
	MaxDelay              time.Duration
	SuccessReduction      float64
	FailureIncreaseFactor float64
}

// LegislationProfile stays well under the source's ~1500 requests per
// 5-minute window at the default delay.
func LegislationProfile() Profile {
	return Profile{
		MinDelay:              200 * time.Millisecond,
		MaxDelay:              300 * time.Second,
		SuccessReduction:      0.95,
		FailureIncreaseFactor: 2.0,
	}
}

// CaselawProfile starts at zero delay but grows harshly on rate-limit
// responses; the judgments archive throttles aggressively.
func CaselawProfile() Profile {
	return Profile{
		MinDelay:              0,
		MaxDelay:              300 * time.Second,
		SuccessReduction:      0.95,
		FailureIncreaseFactor: 3.0,
	}
}

// Limiter is an adaptive delay shared by every worker talking to one
// origin. All state is guarded by a single mutex so concurrent workers
// observe one global delay.
type Limiter struct {
	mu           sync.Mutex
	profile      Profile
	currentDelay time.Duration
	successes    [successWindow]time.Time
	successIdx   int
	successCount int
	logger       *slog.Logger
}

func New(profile Profile, logger *slog.Logger) *Limiter {
	start := profile.MinDelay
	return &Limiter{
		profile:      profile,
		currentDelay: start,
		logger:       logger,
	}
}

// Wait sleeps for the current delay before the caller issues its request.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	delay := l.currentDelay
	l.mu.Unlock()

	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	}
}

// RecordSuccess notes one successful request. After a full window of
// successes the delay decays toward the floor.
func (l *Limiter) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.successes[l.successIdx] = time.Now()
	l.successIdx = (l.successIdx + 1) % successWindow
	l.successCount++

	if l.successCount >= successWindow {
		l.successCount = 0
		old := l.currentDelay
		l.currentDelay = time.Duration(float64(l.currentDelay) * l.profile.SuccessReduction)
		if l.currentDelay < l.profile.MinDelay {
			l.currentDelay = l.profile.MinDelay
		}
		if l.currentDelay != old {
			l.logger.Debug("rate limit delay reduced",
				"old_delay", old, "new_delay", l.currentDelay)
		}
	}
}

// RecordRateLimited reacts to a 429/436. A Retry-After hint is adopted
// directly; otherwise the delay grows by the profile factor plus half a
// second so a zero delay still backs off.
func (l *Limiter) RecordRateLimited(retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.successCount = 0
	old := l.currentDelay

	if retryAfter > 0 {
		l.currentDelay = retryAfter
	} else {
		l.currentDelay = time.Duration(float64(l.currentDelay)*l.profile.FailureIncreaseFactor) + 500*time.Millisecond
	}
	if l.currentDelay > l.profile.MaxDelay {
		l.currentDelay = l.profile.MaxDelay
	}
	if l.currentDelay < l.profile.MinDelay {
		l.currentDelay = l.profile.MinDelay
	}

	l.logger.Warn("rate limit delay increased",
		"old_delay", old,
		"new_delay", l.currentDelay,
		"retry_after", retryAfter)
}

// CurrentDelay returns the delay applied to the next request.
func (l *Limiter) CurrentDelay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentDelay
}
