package entity

// PlatformWindow is the per-platform policy for when posts may fire:
// an allowed hour-of-day range plus inter-post pacing bounds.
//
// MinHour <= MaxHour is not enforced; the schedule planner handles
// windows that have already elapsed for the day by rolling to the next
// day.
type PlatformWindow struct {
	Platform        Platform `json:"platform"`
	MinHour         int      `json:"min_hour"` // 0-23, inclusive
	MaxHour         int      `json:"max_hour"` // 0-23
	MinDelayMinutes int      `json:"min_delay_minutes"`
	MaxDelayMinutes int      `json:"max_delay_minutes"`
	Enabled         bool     `json:"enabled"`
}

// Validate checks the window bounds.
func (w *PlatformWindow) Validate() error {
	if !w.Platform.IsValid() {
		return ErrInvalidPlatform
	}
	if w.MinHour < 0 || w.MinHour > 23 || w.MaxHour < 0 || w.MaxHour > 23 {
		return ErrHourOutOfRange
	}
	return nil
}

// DefaultWindows returns the stock posting windows for every platform,
// used to seed a fresh installation.
func DefaultWindows() []PlatformWindow {
	return []PlatformWindow{
		{Platform: PlatformYouTube, MinHour: 8, MaxHour: 22, MinDelayMinutes: 30, MaxDelayMinutes: 240, Enabled: true},
		{Platform: PlatformLinkedIn, MinHour: 9, MaxHour: 17, MinDelayMinutes: 45, MaxDelayMinutes: 180, Enabled: true},
		{Platform: PlatformTikTok, MinHour: 10, MaxHour: 23, MinDelayMinutes: 30, MaxDelayMinutes: 200, Enabled: true},
		{Platform: PlatformPinterest, MinHour: 11, MaxHour: 21, MinDelayMinutes: 60, MaxDelayMinutes: 240, Enabled: true},
		{Platform: PlatformTwitter, MinHour: 9, MaxHour: 22, MinDelayMinutes: 30, MaxDelayMinutes: 180, Enabled: true},
	}
}
