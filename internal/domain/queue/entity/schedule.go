package entity

import (
	"time"
)

// ScheduleStatus represents the lifecycle state of a schedule entry.
type ScheduleStatus string

const (
	// ScheduleStatusPending means the entry is waiting to be posted
	// (including entries that failed and still have retries left).
	ScheduleStatusPending ScheduleStatus = "pending"
	// ScheduleStatusPosted means the poster completed successfully.
	ScheduleStatusPosted ScheduleStatus = "posted"
	// ScheduleStatusExhausted means the entry hit the retry ceiling and
	// will never be dispatched again.
	ScheduleStatusExhausted ScheduleStatus = "exhausted"
)

// ScheduleEntry is the execution unit: post one ContentItem via one
// Account at a target time. At most one entry exists per
// (ContentItem, Account) pair.
type ScheduleEntry struct {
	ID           string         `json:"id"`
	ContentID    string         `json:"content_id"`
	AccountID    string         `json:"account_id"`
	Platform     Platform       `json:"platform"` // denormalized from the account
	ScheduledAt  time.Time      `json:"scheduled_at"`
	Status       ScheduleStatus `json:"status"`
	PostedAt     *time.Time     `json:"posted_at,omitempty"`
	RetryCount   int            `json:"retry_count"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// Posted reports whether the entry completed successfully.
func (e *ScheduleEntry) Posted() bool {
	return e.Status == ScheduleStatusPosted
}

// Due reports whether the entry is eligible for dispatch at the given
// instant, for the given retry ceiling.
func (e *ScheduleEntry) Due(now time.Time, maxRetries int) bool {
	return e.Status == ScheduleStatusPending &&
		!e.ScheduledAt.After(now) &&
		e.RetryCount < maxRetries
}

// DueEntry is a schedule entry joined with the content and account
// details a poster needs. It mirrors the pending_posts read view.
type DueEntry struct {
	ScheduleEntry
	MediaPath   string `json:"media_path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	AccountName string `json:"account_name"`
	ProfileID   string `json:"profile_id"`
}
