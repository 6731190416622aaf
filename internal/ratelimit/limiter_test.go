package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLimiterStartsAtFloor(t *testing.T) {
	l := New(LegislationProfile(), testLogger())
	assert.Equal(t, 200*time.Millisecond, l.CurrentDelay())

	l = New(CaselawProfile(), testLogger())
	assert.Equal(t, time.Duration(0), l.CurrentDelay())
}

func TestRetryAfterHintAdoptedDirectly(t *testing.T) {
	l := New(LegislationProfile(), testLogger())

	l.RecordRateLimited(12 * time.Second)

	assert.Equal(t, 12*time.Second, l.CurrentDelay())
}

func TestRateLimitWithoutHintGrowsByFactor(t *testing.T) {
	l := New(CaselawProfile(), testLogger())

	// Zero delay still backs off thanks to the additive half second.
	l.RecordRateLimited(0)
	first := l.CurrentDelay()
	assert.Equal(t, 500*time.Millisecond, first)

	l.RecordRateLimited(0)
	assert.Equal(t, 2*time.Second, l.CurrentDelay())
}

func TestDelayNeverLeavesProfileBounds(t *testing.T) {
	profile := LegislationProfile()
	l := New(profile, testLogger())

	for range 20 {
		l.RecordRateLimited(0)
		assert.LessOrEqual(t, l.CurrentDelay(), profile.MaxDelay)
		assert.GreaterOrEqual(t, l.CurrentDelay(), profile.MinDelay)
	}

	for range 5000 {
		l.RecordSuccess()
		assert.GreaterOrEqual(t, l.CurrentDelay(), profile.MinDelay)
	}
}

func TestDelayDecaysAfterFullSuccessWindow(t *testing.T) {
	l := New(LegislationProfile(), testLogger())
	l.RecordRateLimited(10 * time.Second)

	for range successWindow - 1 {
		l.RecordSuccess()
	}
	assert.Equal(t, 10*time.Second, l.CurrentDelay(), "decay only after a full window")

	l.RecordSuccess()
	assert.Equal(t, 9500*time.Millisecond, l.CurrentDelay())
}

func TestRateLimitResetsSuccessWindow(t *testing.T) {
	l := New(LegislationProfile(), testLogger())
	l.RecordRateLimited(10 * time.Second)

	for range successWindow - 1 {
		l.RecordSuccess()
	}
	l.RecordRateLimited(10 * time.Second)

	// The interrupted window must not count toward decay.
	for range successWindow - 1 {
		l.RecordSuccess()
	}
	assert.Equal(t, 10*time.Second, l.CurrentDelay())
}

func TestWaitHonoursCancellation(t *testing.T) {
	l := New(LegislationProfile(), testLogger())
	l.RecordRateLimited(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
