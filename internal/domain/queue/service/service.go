package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/sharmayn/autoposter/internal/domain/queue/dao"
	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// Service handles business logic for the posting queue: content
// submission, schedule generation, due-entry selection, and outcome
// recording.
type Service struct {
	content   dao.ContentRepository
	accounts  dao.AccountRepository
	windows   dao.WindowRepository
	schedules dao.ScheduleRepository
	stats     dao.StatsRepository

	maxRetries int

	// now and rng are injectable for deterministic tests.
	now func() time.Time
	rng *rand.Rand
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the random source used for schedule jitter.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithMaxRetries overrides the retry ceiling.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// New creates a new queue service
func New(
	content dao.ContentRepository,
	accounts dao.AccountRepository,
	windows dao.WindowRepository,
	schedules dao.ScheduleRepository,
	stats dao.StatsRepository,
	opts ...Option,
) *Service {
	s := &Service{
		content:    content,
		accounts:   accounts,
		windows:    windows,
		schedules:  schedules,
		stats:      stats,
		maxRetries: 3,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxRetries returns the configured retry ceiling.
func (s *Service) MaxRetries() int {
	return s.maxRetries
}

// SubmitInput represents input for submitting a content item.
type SubmitInput struct {
	MediaPath   string
	Title       string
	Description string
	Link        string
}

// SubmitContent adds a content item to the queue. Schedules are created
// later by the dispatch loop, on its first cycle that observes the item
// with no schedule entries.
func (s *Service) SubmitContent(ctx context.Context, in SubmitInput) (*entity.ContentItem, error) {
	item := &entity.ContentItem{
		ID:          uuid.New().String(),
		MediaPath:   in.MediaPath,
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
		CreatedAt:   s.now(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.content.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetContent retrieves a content item with its schedule entries.
func (s *Service) GetContent(ctx context.Context, id string) (*entity.ContentItem, []entity.ScheduleEntry, error) {
	item, err := s.content.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, entity.ErrContentNotFound
	}

	entries, err := s.schedules.ListByContent(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return item, entries, nil
}

// ListContent retrieves content items newest first.
func (s *Service) ListContent(ctx context.Context, opts dao.ListOptions) ([]entity.ContentItem, error) {
	return s.content.List(ctx, opts)
}

// CreateSchedulesForItem fans one content item out to every enabled
// account whose platform window is enabled, picking a randomized time
// inside each window. Inserts are idempotent per (content, account):
// conflicts are counted as already satisfied and skipped.
func (s *Service) CreateSchedulesForItem(ctx context.Context, contentID string) (int, error) {
	postable, err := s.accounts.ListPostable(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, pa := range postable {
		entry := &entity.ScheduleEntry{
			ID:          uuid.New().String(),
			ContentID:   contentID,
			AccountID:   pa.Account.ID,
			Platform:    pa.Account.Platform,
			ScheduledAt: PlanTime(s.now(), pa.Window.MinHour, pa.Window.MaxHour, s.rng),
			Status:      entity.ScheduleStatusPending,
		}

		inserted, err := s.schedules.Insert(ctx, entry)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	return created, nil
}

// CheckNewItems finds content items with no schedule entries and
// generates their schedules. Returns the number of entries created.
func (s *Service) CheckNewItems(ctx context.Context) (int, error) {
	items, err := s.content.ListUnscheduled(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, item := range items {
		n, err := s.CreateSchedulesForItem(ctx, item.ID)
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}

// NextDue retrieves the earliest-due schedule entry, nil if none.
func (s *Service) NextDue(ctx context.Context) (*entity.DueEntry, error) {
	return s.schedules.NextDue(ctx, s.now(), s.maxRetries)
}

// RecordSuccess marks an entry posted and, if that completed the last
// outstanding entry for the content item, stamps the item's completion
// time.
func (s *Service) RecordSuccess(ctx context.Context, entry *entity.DueEntry) error {
	if err := s.schedules.MarkPosted(ctx, entry.ID, s.now()); err != nil {
		return err
	}

	remaining, err := s.schedules.CountIncomplete(ctx, entry.ContentID)
	if err != nil {
		// The post itself is recorded; completion stamping is derived
		// state and will be retried on the item's next success.
		return nil
	}
	if remaining == 0 {
		_ = s.content.SetCompleted(ctx, entry.ContentID, s.now())
	}

	return nil
}

// RecordFailure increments the entry's retry count and stores the error
// message. Reaching the ceiling flips the entry to exhausted.
func (s *Service) RecordFailure(ctx context.Context, entryID string, errMsg string) error {
	return s.schedules.MarkFailed(ctx, entryID, errMsg, s.maxRetries)
}

// UpsertAccount registers an account, or rebinds its browser profile if
// the (platform, name) pair already exists.
func (s *Service) UpsertAccount(ctx context.Context, acc *entity.Account) (*entity.Account, error) {
	acc.ID = uuid.New().String()
	acc.CreatedAt = s.now()
	acc.Enabled = true

	if err := acc.Validate(); err != nil {
		return nil, err
	}

	id, err := s.accounts.Upsert(ctx, acc)
	if err != nil {
		return nil, err
	}

	return s.accounts.GetByID(ctx, id)
}

// ListAccounts retrieves all accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return s.accounts.List(ctx)
}

// SetAccountEnabled flips an account's enabled flag.
func (s *Service) SetAccountEnabled(ctx context.Context, id string, enabled bool) error {
	found, err := s.accounts.SetEnabled(ctx, id, enabled)
	if err != nil {
		return err
	}
	if !found {
		return entity.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes an account. Its schedule entries cascade.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	found, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return entity.ErrAccountNotFound
	}
	return nil
}

// ListWindows retrieves every platform window.
func (s *Service) ListWindows(ctx context.Context) ([]entity.PlatformWindow, error) {
	return s.windows.List(ctx)
}

// UpdateWindow replaces a platform's posting window policy.
func (s *Service) UpdateWindow(ctx context.Context, w *entity.PlatformWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return s.windows.Update(ctx, w)
}

// Upcoming retrieves pending entries for enabled accounts, earliest
// first.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]entity.DueEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.schedules.ListUpcoming(ctx, limit)
}

// Statistics retrieves queue-wide counters.
func (s *Service) Statistics(ctx context.Context) (*entity.QueueStatistics, error) {
	return s.stats.GetStatistics(ctx)
}

// Progress retrieves per-item completion, newest first.
func (s *Service) Progress(ctx context.Context, opts dao.ListOptions) ([]entity.ItemProgress, error) {
	return s.stats.ListProgress(ctx, opts)
}
