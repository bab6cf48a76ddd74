package dao

import (
	"context"
	"time"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// ListOptions contains pagination options for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// PostableAccount is an enabled account joined with its platform's
// enabled posting window, the unit the schedule generator fans out to.
type PostableAccount struct {
	Account entity.Account
	Window  entity.PlatformWindow
}

// ContentRepository defines data access for content items.
type ContentRepository interface {
	// Create inserts a new content item
	Create(ctx context.Context, item *entity.ContentItem) error

	// GetByID retrieves a content item, nil if absent
	GetByID(ctx context.Context, id string) (*entity.ContentItem, error)

	// List retrieves content items newest first
	List(ctx context.Context, opts ListOptions) ([]entity.ContentItem, error)

	// ListUnscheduled retrieves items that have no schedule entries yet
	ListUnscheduled(ctx context.Context) ([]entity.ContentItem, error)

	// SetCompleted stamps the completion time once an item is posted everywhere
	SetCompleted(ctx context.Context, id string, at time.Time) error
}

// AccountRepository defines data access for social accounts.
type AccountRepository interface {
	// Upsert inserts the account or, on a (platform, name) conflict,
	// updates the bound browser profile. Returns the row ID.
	Upsert(ctx context.Context, acc *entity.Account) (string, error)

	// GetByID retrieves an account, nil if absent
	GetByID(ctx context.Context, id string) (*entity.Account, error)

	// List retrieves all accounts ordered by platform then name
	List(ctx context.Context) ([]entity.Account, error)

	// ListPostable retrieves enabled accounts whose platform window is enabled
	ListPostable(ctx context.Context) ([]PostableAccount, error)

	// SetEnabled flips the enabled flag; reports whether the row existed
	SetEnabled(ctx context.Context, id string, enabled bool) (bool, error)

	// Delete removes an account; reports whether the row existed
	Delete(ctx context.Context, id string) (bool, error)
}

// WindowRepository defines data access for platform posting windows.
type WindowRepository interface {
	// EnsureDefaults seeds the stock windows, skipping platforms already configured
	EnsureDefaults(ctx context.Context) error

	// List retrieves every configured window
	List(ctx context.Context) ([]entity.PlatformWindow, error)

	// Get retrieves the window for one platform, nil if absent
	Get(ctx context.Context, platform entity.Platform) (*entity.PlatformWindow, error)

	// Update replaces the window policy for a platform
	Update(ctx context.Context, w *entity.PlatformWindow) error
}

// ScheduleRepository defines data access for schedule entries.
type ScheduleRepository interface {
	// Insert adds a schedule entry. A (content, account) conflict is
	// skipped; the return value reports whether a row was written.
	Insert(ctx context.Context, e *entity.ScheduleEntry) (bool, error)

	// GetByID retrieves a schedule entry, nil if absent
	GetByID(ctx context.Context, id string) (*entity.ScheduleEntry, error)

	// NextDue retrieves the earliest due entry (pending, scheduled_at <= now,
	// retry_count < maxRetries, account enabled), nil if none
	NextDue(ctx context.Context, now time.Time, maxRetries int) (*entity.DueEntry, error)

	// ListUpcoming retrieves not-yet-posted entries for enabled accounts,
	// earliest first
	ListUpcoming(ctx context.Context, limit int) ([]entity.DueEntry, error)

	// ListByContent retrieves all entries for one content item
	ListByContent(ctx context.Context, contentID string) ([]entity.ScheduleEntry, error)

	// MarkPosted records a successful post as a single atomic update
	MarkPosted(ctx context.Context, id string, at time.Time) error

	// MarkFailed increments the retry count, records the error message and,
	// if the ceiling is reached, flips the entry to exhausted - all in one
	// atomic update
	MarkFailed(ctx context.Context, id string, errMsg string, maxRetries int) error

	// CountIncomplete counts entries for a content item not yet posted
	CountIncomplete(ctx context.Context, contentID string) (int, error)
}

// StatsRepository defines read-only aggregate queries.
type StatsRepository interface {
	// GetStatistics retrieves queue-wide counters
	GetStatistics(ctx context.Context) (*entity.QueueStatistics, error)

	// ListProgress retrieves per-item completion, newest first
	ListProgress(ctx context.Context, opts ListOptions) ([]entity.ItemProgress, error)
}
