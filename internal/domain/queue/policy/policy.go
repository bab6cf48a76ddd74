package policy

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sharmayn/autoposter/internal/domain/queue/dao"
	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/domain/queue/service"
	"github.com/sharmayn/autoposter/internal/poster"
)

// PosterResolver resolves the poster bound to a platform.
// This interface is defined here (consumer) not in the poster package (provider)
type PosterResolver interface {
	Resolve(platform entity.Platform) (poster.Poster, error)
}

// ProfileResetter restarts the browser profile a poster will drive.
type ProfileResetter interface {
	Reset(ctx context.Context, profileID string) error
}

// MediaSpooler makes a media reference usable as a local file path.
type MediaSpooler interface {
	Ensure(ctx context.Context, mediaPath string) (string, error)
}

// Outcome classifies one dispatch attempt.
type Outcome int

const (
	// OutcomeIdle means no entry was due.
	OutcomeIdle Outcome = iota
	// OutcomePosted means an entry was published and recorded.
	OutcomePosted
	// OutcomeFailed means the attempt failed and the failure was recorded.
	OutcomeFailed
	// OutcomeSkipped means the entry could not be attempted.
	OutcomeSkipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomePosted:
		return "posted"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result reports what one dispatch attempt did.
type Result struct {
	Outcome Outcome
	Entry   *entity.DueEntry
}

// Policy orchestrates queue use-cases and the post dispatch cycle
type Policy struct {
	svc     *service.Service
	posters PosterResolver
	browser ProfileResetter
	spool   MediaSpooler
	logger  *slog.Logger

	delayMin time.Duration
	delayMax time.Duration
	rng      *rand.Rand
}

// Option configures the Policy.
type Option func(*Policy)

// WithPrePostDelay sets the randomized pause taken before each post.
func WithPrePostDelay(min, max time.Duration) Option {
	return func(p *Policy) {
		if min > 0 && max >= min {
			p.delayMin = min
			p.delayMax = max
		}
	}
}

// WithRand overrides the random source used for the pre-post delay.
func WithRand(rng *rand.Rand) Option {
	return func(p *Policy) { p.rng = rng }
}

// New creates a new queue policy
func New(svc *service.Service, posters PosterResolver, browser ProfileResetter, spool MediaSpooler, logger *slog.Logger, opts ...Option) *Policy {
	p := &Policy{
		svc:      svc,
		posters:  posters,
		browser:  browser,
		spool:    spool,
		logger:   logger,
		delayMin: 10 * time.Second,
		delayMax: 30 * time.Second,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CheckNewItems generates schedule entries for content items that have
// none yet. This should be called at the top of every dispatch cycle.
func (p *Policy) CheckNewItems(ctx context.Context) (int, error) {
	return p.svc.CheckNewItems(ctx)
}

// DispatchNext publishes the earliest due schedule entry, if any.
// Failures of the attempt itself are recorded against the entry and
// reported through the Result, not the error: the error return is
// reserved for store problems that should back the caller off.
func (p *Policy) DispatchNext(ctx context.Context) (*Result, error) {
	entry, err := p.svc.NextDue(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &Result{Outcome: OutcomeIdle}, nil
	}

	pst, err := p.posters.Resolve(entry.Platform)
	if err != nil {
		// A platform without a poster is a deployment problem. Burn a
		// retry so the entry exhausts instead of blocking the queue.
		p.logger.Error("no poster for due entry",
			"schedule_id", entry.ID,
			"platform", entry.Platform,
		)
		if recErr := p.svc.RecordFailure(ctx, entry.ID, err.Error()); recErr != nil {
			return nil, recErr
		}
		return &Result{Outcome: OutcomeSkipped, Entry: entry}, nil
	}

	// Restart the browser profile so the poster gets a clean session.
	// Best effort: posting proceeds even if the reset fails.
	if err := p.browser.Reset(ctx, entry.ProfileID); err != nil {
		p.logger.Warn("browser profile reset failed",
			"profile_id", entry.ProfileID,
			"error", err,
		)
	}

	if err := p.prePostDelay(ctx); err != nil {
		// Shutdown during the pause. The entry stays pending and is
		// picked up on the next run.
		return &Result{Outcome: OutcomeSkipped, Entry: entry}, nil
	}

	mediaPath, err := p.spool.Ensure(ctx, entry.MediaPath)
	if err != nil {
		if recErr := p.svc.RecordFailure(ctx, entry.ID, err.Error()); recErr != nil {
			return nil, recErr
		}
		return &Result{Outcome: OutcomeFailed, Entry: entry}, nil
	}

	job := poster.Job{
		ScheduleID:  entry.ID,
		ContentID:   entry.ContentID,
		Platform:    entry.Platform,
		Title:       entry.Title,
		Description: entry.Description,
		Link:        entry.Link,
		MediaPath:   mediaPath,
		AccountName: entry.AccountName,
		ProfileID:   entry.ProfileID,
	}

	if err := pst.Post(ctx, job); err != nil {
		p.logger.Error("post attempt failed",
			"schedule_id", entry.ID,
			"platform", entry.Platform,
			"account", entry.AccountName,
			"error", err,
		)
		if recErr := p.svc.RecordFailure(ctx, entry.ID, err.Error()); recErr != nil {
			return nil, recErr
		}
		return &Result{Outcome: OutcomeFailed, Entry: entry}, nil
	}

	if err := p.svc.RecordSuccess(ctx, entry); err != nil {
		return nil, err
	}

	return &Result{Outcome: OutcomePosted, Entry: entry}, nil
}

// prePostDelay pauses a random interval before posting so attempts do
// not fire at the exact scheduled second.
func (p *Policy) prePostDelay(ctx context.Context) error {
	span := p.delayMax - p.delayMin
	d := p.delayMin
	if span > 0 {
		d += time.Duration(p.rng.Int63n(int64(span) + 1))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitContentInput represents input for submitting a content item
type SubmitContentInput struct {
	MediaPath   string
	Title       string
	Description string
	Link        string
}

// SubmitContent adds a content item to the queue.
func (p *Policy) SubmitContent(ctx context.Context, in SubmitContentInput) (*entity.ContentItem, error) {
	return p.svc.SubmitContent(ctx, service.SubmitInput{
		MediaPath:   in.MediaPath,
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
	})
}

// GetContent retrieves a content item with its schedule entries.
func (p *Policy) GetContent(ctx context.Context, id string) (*entity.ContentItem, []entity.ScheduleEntry, error) {
	return p.svc.GetContent(ctx, id)
}

// ListContent retrieves content items newest first.
func (p *Policy) ListContent(ctx context.Context, limit, offset int) ([]entity.ContentItem, error) {
	return p.svc.ListContent(ctx, dao.ListOptions{Limit: limit, Offset: offset})
}

// RegisterAccountInput represents input for registering an account
type RegisterAccountInput struct {
	Platform  entity.Platform
	Name      string
	ProfileID string
}

// RegisterAccount creates an account, or rebinds its browser profile if
// the (platform, name) pair already exists.
func (p *Policy) RegisterAccount(ctx context.Context, in RegisterAccountInput) (*entity.Account, error) {
	return p.svc.UpsertAccount(ctx, &entity.Account{
		Platform:  in.Platform,
		Name:      in.Name,
		ProfileID: in.ProfileID,
	})
}

// ListAccounts retrieves all accounts.
func (p *Policy) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return p.svc.ListAccounts(ctx)
}

// SetAccountEnabled flips an account's enabled flag.
func (p *Policy) SetAccountEnabled(ctx context.Context, id string, enabled bool) error {
	return p.svc.SetAccountEnabled(ctx, id, enabled)
}

// DeleteAccount removes an account and its schedule entries.
func (p *Policy) DeleteAccount(ctx context.Context, id string) error {
	return p.svc.DeleteAccount(ctx, id)
}

// ListWindows retrieves every platform window.
func (p *Policy) ListWindows(ctx context.Context) ([]entity.PlatformWindow, error) {
	return p.svc.ListWindows(ctx)
}

// UpdateWindow replaces a platform's posting window policy.
func (p *Policy) UpdateWindow(ctx context.Context, w *entity.PlatformWindow) error {
	return p.svc.UpdateWindow(ctx, w)
}

// Upcoming retrieves pending entries for enabled accounts, earliest first.
func (p *Policy) Upcoming(ctx context.Context, limit int) ([]entity.DueEntry, error) {
	return p.svc.Upcoming(ctx, limit)
}

// GetStatistics retrieves queue-wide counters.
func (p *Policy) GetStatistics(ctx context.Context) (*entity.QueueStatistics, error) {
	return p.svc.Statistics(ctx)
}

// GetProgress retrieves per-item completion, newest first.
func (p *Policy) GetProgress(ctx context.Context, limit, offset int) ([]entity.ItemProgress, error) {
	return p.svc.Progress(ctx, dao.ListOptions{Limit: limit, Offset: offset})
}
