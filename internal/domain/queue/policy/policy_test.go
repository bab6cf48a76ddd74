package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sharmayn/autoposter/internal/domain/queue/dao"
	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/domain/queue/service"
	"github.com/sharmayn/autoposter/internal/poster"
)

// stubStore backs the service with a single due entry.
type stubStore struct {
	due       *entity.DueEntry
	completed bool

	markedPosted []string
	failures     []string
	failMsgs     []string
	maxRetries   int
}

// ContentRepository

func (s *stubStore) Create(ctx context.Context, item *entity.ContentItem) error { return nil }
func (s *stubStore) GetByID(ctx context.Context, id string) (*entity.ContentItem, error) {
	return nil, nil
}
func (s *stubStore) List(ctx context.Context, opts dao.ListOptions) ([]entity.ContentItem, error) {
	return nil, nil
}
func (s *stubStore) ListUnscheduled(ctx context.Context) ([]entity.ContentItem, error) {
	return nil, nil
}
func (s *stubStore) SetCompleted(ctx context.Context, id string, at time.Time) error {
	s.completed = true
	return nil
}

// AccountRepository

type stubAccounts struct{}

func (stubAccounts) Upsert(ctx context.Context, acc *entity.Account) (string, error) { return "", nil }
func (stubAccounts) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return nil, nil
}
func (stubAccounts) List(ctx context.Context) ([]entity.Account, error) { return nil, nil }
func (stubAccounts) ListPostable(ctx context.Context) ([]dao.PostableAccount, error) {
	return nil, nil
}
func (stubAccounts) SetEnabled(ctx context.Context, id string, enabled bool) (bool, error) {
	return false, nil
}
func (stubAccounts) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

// WindowRepository

type stubWindows struct{}

func (stubWindows) EnsureDefaults(ctx context.Context) error { return nil }
func (stubWindows) List(ctx context.Context) ([]entity.PlatformWindow, error) {
	return nil, nil
}
func (stubWindows) Get(ctx context.Context, platform entity.Platform) (*entity.PlatformWindow, error) {
	return nil, nil
}
func (stubWindows) Update(ctx context.Context, w *entity.PlatformWindow) error { return nil }

// ScheduleRepository

type stubSchedules struct{ *stubStore }

func (s stubSchedules) Insert(ctx context.Context, e *entity.ScheduleEntry) (bool, error) {
	return false, nil
}
func (s stubSchedules) GetByID(ctx context.Context, id string) (*entity.ScheduleEntry, error) {
	return nil, nil
}
func (s stubSchedules) NextDue(ctx context.Context, now time.Time, maxRetries int) (*entity.DueEntry, error) {
	if s.due == nil {
		return nil, nil
	}
	if s.due.RetryCount >= maxRetries || s.due.Status != entity.ScheduleStatusPending {
		return nil, nil
	}
	cp := *s.due
	return &cp, nil
}
func (s stubSchedules) ListUpcoming(ctx context.Context, limit int) ([]entity.DueEntry, error) {
	return nil, nil
}
func (s stubSchedules) ListByContent(ctx context.Context, contentID string) ([]entity.ScheduleEntry, error) {
	return nil, nil
}
func (s stubSchedules) MarkPosted(ctx context.Context, id string, at time.Time) error {
	s.stubStore.markedPosted = append(s.stubStore.markedPosted, id)
	s.due.Status = entity.ScheduleStatusPosted
	return nil
}
func (s stubSchedules) MarkFailed(ctx context.Context, id string, errMsg string, maxRetries int) error {
	s.stubStore.failures = append(s.stubStore.failures, id)
	s.stubStore.failMsgs = append(s.stubStore.failMsgs, errMsg)
	s.due.RetryCount++
	if s.due.RetryCount >= maxRetries {
		s.due.Status = entity.ScheduleStatusExhausted
	}
	return nil
}
func (s stubSchedules) CountIncomplete(ctx context.Context, contentID string) (int, error) {
	return 0, nil
}

// StatsRepository

type stubStats struct{}

func (stubStats) GetStatistics(ctx context.Context) (*entity.QueueStatistics, error) {
	return nil, nil
}
func (stubStats) ListProgress(ctx context.Context, opts dao.ListOptions) ([]entity.ItemProgress, error) {
	return nil, nil
}

// collaborator fakes

type fakeBrowser struct {
	resets []string
	err    error
}

func (f *fakeBrowser) Reset(ctx context.Context, profileID string) error {
	f.resets = append(f.resets, profileID)
	return f.err
}

type fakeSpool struct {
	path string
	err  error
}

func (f *fakeSpool) Ensure(ctx context.Context, mediaPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.path != "" {
		return f.path, nil
	}
	return mediaPath, nil
}

func dueEntry() *entity.DueEntry {
	return &entity.DueEntry{
		ScheduleEntry: entity.ScheduleEntry{
			ID:          "entry-1",
			ContentID:   "content-1",
			AccountID:   "acc-1",
			Platform:    entity.PlatformTikTok,
			ScheduledAt: time.Now().Add(-time.Minute),
			Status:      entity.ScheduleStatusPending,
		},
		MediaPath:   "/videos/clip.mp4",
		Title:       "Clip",
		AccountName: "creator",
		ProfileID:   "profile-7",
	}
}

func newTestPolicy(store *stubStore, registry *Registry, browser *fakeBrowser, spool *fakeSpool) *Policy {
	svc := service.New(store, stubAccounts{}, stubWindows{}, stubSchedules{store}, stubStats{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(svc, registry, browser, spool, logger,
		WithPrePostDelay(time.Millisecond, 2*time.Millisecond),
	)
}

// Registry aliases the poster registry so tests read naturally.
type Registry = poster.Registry

func registryWith(p entity.Platform, fn poster.Func) *Registry {
	r := poster.NewRegistry()
	r.Register(p, fn)
	return r
}

func TestDispatchNextIdle(t *testing.T) {
	store := &stubStore{}
	pol := newTestPolicy(store, poster.NewRegistry(), &fakeBrowser{}, &fakeSpool{})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeIdle, res.Outcome)
	require.Nil(t, res.Entry)
}

func TestDispatchNextPosts(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	browser := &fakeBrowser{}

	var posted []poster.Job
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		posted = append(posted, job)
		return nil
	})

	pol := newTestPolicy(store, registry, browser, &fakeSpool{path: "/spool/clip.mp4"})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePosted, res.Outcome)
	require.Equal(t, "entry-1", res.Entry.ID)

	require.Len(t, posted, 1)
	require.Equal(t, "entry-1", posted[0].ScheduleID)
	require.Equal(t, "/spool/clip.mp4", posted[0].MediaPath, "poster gets the spooled path")
	require.Equal(t, "profile-7", posted[0].ProfileID)

	require.Equal(t, []string{"profile-7"}, browser.resets)
	require.Equal(t, []string{"entry-1"}, store.markedPosted)
	require.True(t, store.completed, "single-entry item completes on success")
}

func TestDispatchNextRecordsFailure(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		return errors.New("upload button not found")
	})

	pol := newTestPolicy(store, registry, &fakeBrowser{}, &fakeSpool{})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, []string{"entry-1"}, store.failures)
	require.Equal(t, []string{"upload button not found"}, store.failMsgs)
	require.Empty(t, store.markedPosted)
}

func TestDispatchNextExhaustsAfterRepeatedFailures(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		return errors.New("boom")
	})

	pol := newTestPolicy(store, registry, &fakeBrowser{}, &fakeSpool{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := pol.DispatchNext(ctx)
		require.NoError(t, err)
		require.Equal(t, OutcomeFailed, res.Outcome)
	}
	require.Equal(t, entity.ScheduleStatusExhausted, store.due.Status)

	// The exhausted entry never comes back.
	res, err := pol.DispatchNext(ctx)
	require.NoError(t, err)
	require.Equal(t, OutcomeIdle, res.Outcome)
	require.Len(t, store.failures, 3)
}

func TestDispatchNextSkipsUnknownPlatform(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	// Nothing registered for TikTok.
	pol := newTestPolicy(store, poster.NewRegistry(), &fakeBrowser{}, &fakeSpool{})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, res.Outcome)
	// Skips burn a retry so the entry exhausts instead of looping.
	require.Equal(t, []string{"entry-1"}, store.failures)
}

func TestDispatchNextSpoolFailureRecorded(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		t.Fatal("poster must not run when spooling fails")
		return nil
	})

	pol := newTestPolicy(store, registry, &fakeBrowser{}, &fakeSpool{err: errors.New("download failed")})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, []string{"download failed"}, store.failMsgs)
}

func TestDispatchNextBrowserResetBestEffort(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	browser := &fakeBrowser{err: errors.New("browser api down")}
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		return nil
	})

	pol := newTestPolicy(store, registry, browser, &fakeSpool{})

	res, err := pol.DispatchNext(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePosted, res.Outcome, "reset failure does not block the post")
}

func TestDispatchNextCancelledDuringDelay(t *testing.T) {
	store := &stubStore{due: dueEntry()}
	registry := registryWith(entity.PlatformTikTok, func(ctx context.Context, job poster.Job) error {
		t.Fatal("poster must not run after cancellation")
		return nil
	})

	svc := service.New(store, stubAccounts{}, stubWindows{}, stubSchedules{store}, stubStats{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pol := New(svc, registry, &fakeBrowser{}, &fakeSpool{}, logger,
		WithPrePostDelay(time.Second, time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	res, err := pol.DispatchNext(ctx)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, res.Outcome)
	// Nothing recorded: the entry stays pending for the next run.
	require.Empty(t, store.failures)
	require.Empty(t, store.markedPosted)
}
