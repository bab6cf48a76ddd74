package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContentItemValidate(t *testing.T) {
	item := ContentItem{
		ID:        "id-1",
		MediaPath: "/videos/clip.mp4",
		Title:     "Clip",
	}
	require.NoError(t, item.Validate())

	missingPath := item
	missingPath.MediaPath = ""
	require.ErrorIs(t, missingPath.Validate(), ErrEmptyMediaPath)

	missingTitle := item
	missingTitle.Title = ""
	require.ErrorIs(t, missingTitle.Validate(), ErrEmptyTitle)
}

func TestContentItemIsRemote(t *testing.T) {
	cases := []struct {
		path   string
		remote bool
	}{
		{"https://cdn.example.com/a.mp4", true},
		{"http://cdn.example.com/a.mp4", true},
		{"/videos/a.mp4", false},
		{"relative/a.mp4", false},
	}

	for _, tc := range cases {
		item := ContentItem{MediaPath: tc.path}
		require.Equal(t, tc.remote, item.IsRemote(), "path %s", tc.path)
	}
}

func TestAccountValidate(t *testing.T) {
	acc := Account{
		ID:        "id-1",
		Platform:  PlatformTikTok,
		Name:      "creator",
		ProfileID: "profile-9",
	}
	require.NoError(t, acc.Validate())

	badPlatform := acc
	badPlatform.Platform = "Friendster"
	require.ErrorIs(t, badPlatform.Validate(), ErrInvalidPlatform)

	noName := acc
	noName.Name = ""
	require.ErrorIs(t, noName.Validate(), ErrEmptyAccountName)

	noProfile := acc
	noProfile.ProfileID = ""
	require.ErrorIs(t, noProfile.Validate(), ErrEmptyProfileID)
}

func TestPlatformWindowValidate(t *testing.T) {
	w := PlatformWindow{
		Platform:        PlatformYouTube,
		MinHour:         8,
		MaxHour:         22,
		MinDelayMinutes: 30,
		MaxDelayMinutes: 240,
	}
	require.NoError(t, w.Validate())

	// Full-day window is legal.
	fullDay := w
	fullDay.MinHour = 0
	fullDay.MaxHour = 23
	require.NoError(t, fullDay.Validate())

	tooLow := w
	tooLow.MinHour = -1
	require.ErrorIs(t, tooLow.Validate(), ErrHourOutOfRange)

	tooHigh := w
	tooHigh.MaxHour = 24
	require.ErrorIs(t, tooHigh.Validate(), ErrHourOutOfRange)
}

func TestDefaultWindowsCoverAllPlatforms(t *testing.T) {
	windows := DefaultWindows()
	require.Len(t, windows, len(Platforms()))

	seen := make(map[Platform]bool)
	for _, w := range windows {
		require.NoError(t, w.Validate())
		require.True(t, w.Enabled)
		seen[w.Platform] = true
	}
	for _, p := range Platforms() {
		require.True(t, seen[p], "missing default window for %s", p)
	}
}

func TestPlatformIsValid(t *testing.T) {
	for _, p := range Platforms() {
		require.True(t, p.IsValid())
	}
	require.False(t, Platform("MySpace").IsValid())
	require.False(t, Platform("").IsValid())
}

func TestScheduleEntryDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	entry := ScheduleEntry{
		Status:      ScheduleStatusPending,
		ScheduledAt: now.Add(-time.Minute),
		RetryCount:  0,
	}
	require.True(t, entry.Due(now, 3))

	future := entry
	future.ScheduledAt = now.Add(time.Minute)
	require.False(t, future.Due(now, 3))

	posted := entry
	posted.Status = ScheduleStatusPosted
	require.False(t, posted.Due(now, 3))

	exhausted := entry
	exhausted.Status = ScheduleStatusExhausted
	require.False(t, exhausted.Due(now, 3))

	atCeiling := entry
	atCeiling.RetryCount = 3
	require.False(t, atCeiling.Due(now, 3))

	underCeiling := entry
	underCeiling.RetryCount = 2
	require.True(t, underCeiling.Due(now, 3))
}
