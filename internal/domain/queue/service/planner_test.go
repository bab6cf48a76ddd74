package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlanTimeInsideWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		got := PlanTime(now, 8, 22, rng)

		windowStart := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
		windowEnd := time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)

		require.False(t, got.Before(windowStart), "got %v before window start", got)
		require.False(t, got.After(windowEnd), "got %v after window end", got)
	}
}

func TestPlanTimeClampsToNow(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	// Mid-window: earlier slots in the window are already gone.
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		got := PlanTime(now, 8, 22, rng)

		require.False(t, got.Before(now), "got %v before now %v", got, now)
		require.False(t, got.After(time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)))
	}
}

func TestPlanTimeRollsToNextDay(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	// Past the window: nothing left today.
	now := time.Date(2025, 6, 10, 22, 45, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		got := PlanTime(now, 8, 22, rng)

		require.Equal(t, 11, got.Day(), "expected next-day slot, got %v", got)
		require.GreaterOrEqual(t, got.Hour(), 8)
		require.False(t, got.After(time.Date(2025, 6, 11, 22, 0, 0, 0, time.UTC)))
	}
}

func TestPlanTimeMidnightWindowStart(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		got := PlanTime(now, 0, 5, rng)

		require.Equal(t, 10, got.Day())
		require.False(t, got.Before(now))
		require.False(t, got.After(time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC)))
	}
}

func TestPlanTimeLateNightWindowEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		got := PlanTime(now, 10, 23, rng)

		// The window closes at 23:00 sharp, never spilling past it.
		require.False(t, got.After(time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)))
		require.False(t, got.Before(now))
	}
}

func TestPlanTimeDegenerateWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		got := PlanTime(now, 9, 9, rng)

		// A zero-width window falls back to tomorrow at its opening hour.
		require.Equal(t, 11, got.Day())
		require.Equal(t, 9, got.Hour())
		require.GreaterOrEqual(t, got.Minute(), 0)
		require.LessOrEqual(t, got.Minute(), 59)
	}
}

func TestPlanTimeNeverInPast(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	times := []time.Time{
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 7, 59, 59, 0, time.UTC),
		time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 21, 59, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC),
	}

	for _, now := range times {
		for i := 0; i < 100; i++ {
			got := PlanTime(now, 8, 22, rng)
			require.False(t, got.Before(now), "now=%v got=%v", now, got)
		}
	}
}
