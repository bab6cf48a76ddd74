package service

import (
	"math/rand"
	"time"
)

// PlanTime picks a random posting time inside a platform's allowed hour
// window, for today if any of the window remains, otherwise for
// tomorrow.
//
// The window is [minHour:00, maxHour:00] in now's location. If the
// window start has already passed, the start is clamped to now so the
// post can fire as soon as it is due. A window that has fully elapsed
// rolls to the next day. A degenerate window (zero or negative width)
// falls back to tomorrow at minHour with a random minute.
func PlanTime(now time.Time, minHour, maxHour int, rng *rand.Rand) time.Time {
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), minHour, 0, 0, 0, now.Location())
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), maxHour, 0, 0, 0, now.Location())

	if windowStart.Before(now) {
		windowStart = now
	}

	// Entire window already elapsed today: roll both bounds to tomorrow.
	if !windowStart.Before(windowEnd) {
		next := windowStart.AddDate(0, 0, 1)
		windowStart = time.Date(next.Year(), next.Month(), next.Day(), minHour, 0, 0, 0, now.Location())
		windowEnd = time.Date(next.Year(), next.Month(), next.Day(), maxHour, 0, 0, 0, now.Location())
	}

	totalMinutes := int(windowEnd.Sub(windowStart).Minutes())
	if totalMinutes <= 0 {
		// Degenerate window (min_hour == max_hour): tomorrow at minHour
		// with a random minute.
		next := now.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), minHour, rng.Intn(60), 0, 0, now.Location())
	}

	return windowStart.Add(time.Duration(rng.Intn(totalMinutes+1)) * time.Minute)
}
