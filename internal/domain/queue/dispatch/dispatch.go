package dispatch

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/sharmayn/autoposter/internal/domain/queue/policy"
)

// QueueProcessor defines the interface for one dispatch cycle's work
type QueueProcessor interface {
	CheckNewItems(ctx context.Context) (int, error)
	DispatchNext(ctx context.Context) (*policy.Result, error)
}

// Intervals controls the dispatcher's pacing between cycles.
type Intervals struct {
	// Idle is slept when no entry was due.
	Idle time.Duration
	// Recovery is slept after a store error before retrying.
	Recovery time.Duration
	// CycleMin and CycleMax bound the randomized sleep after an
	// attempted post.
	CycleMin time.Duration
	CycleMax time.Duration
}

// DefaultIntervals returns the stock pacing.
func DefaultIntervals() Intervals {
	return Intervals{
		Idle:     5 * time.Minute,
		Recovery: 60 * time.Second,
		CycleMin: 2 * time.Minute,
		CycleMax: 8 * time.Minute,
	}
}

// Dispatcher runs the posting loop: generate schedules for new content,
// publish the earliest due entry, sleep, repeat.
type Dispatcher struct {
	processor QueueProcessor
	intervals Intervals
	logger    *slog.Logger
	rng       *rand.Rand
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithRand overrides the random source used for cycle sleeps.
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) { d.rng = rng }
}

// New creates a new dispatcher
func New(processor QueueProcessor, intervals Intervals, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		processor: processor,
		intervals: intervals,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start starts the dispatcher
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("queue dispatcher started",
		"idle_interval", d.intervals.Idle,
		"recovery_interval", d.intervals.Recovery,
	)

	d.wg.Add(1)
	go d.run(ctx)
}

// Stop stops the dispatcher and waits for the current cycle to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	d.logger.Info("queue dispatcher stopped")
}

// run is the main dispatch loop
func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		pause := d.cycle(ctx)
		if !d.sleep(ctx, pause) {
			return
		}
	}
}

// cycle performs one pass and returns how long to sleep before the next.
func (d *Dispatcher) cycle(ctx context.Context) time.Duration {
	if created, err := d.processor.CheckNewItems(ctx); err != nil {
		d.logger.Error("failed to schedule new content", "error", err)
		return d.intervals.Recovery
	} else if created > 0 {
		d.logger.Info("scheduled new content", "entries", created)
	}

	res, err := d.processor.DispatchNext(ctx)
	if err != nil {
		d.logger.Error("dispatch failed", "error", err)
		return d.intervals.Recovery
	}

	switch res.Outcome {
	case policy.OutcomeIdle:
		d.logger.Debug("no entries due")
		return d.intervals.Idle
	case policy.OutcomePosted:
		d.logger.Info("entry posted",
			"schedule_id", res.Entry.ID,
			"platform", res.Entry.Platform,
			"account", res.Entry.AccountName,
		)
	case policy.OutcomeFailed:
		d.logger.Warn("entry failed",
			"schedule_id", res.Entry.ID,
			"platform", res.Entry.Platform,
			"retry_count", res.Entry.RetryCount+1,
		)
	case policy.OutcomeSkipped:
		d.logger.Warn("entry skipped", "schedule_id", res.Entry.ID)
	}

	return d.cycleSleep()
}

// cycleSleep picks a randomized pause between post attempts so the
// account's activity does not tick at a fixed rate.
func (d *Dispatcher) cycleSleep() time.Duration {
	span := d.intervals.CycleMax - d.intervals.CycleMin
	if span <= 0 {
		return d.intervals.CycleMin
	}
	return d.intervals.CycleMin + time.Duration(d.rng.Int63n(int64(span)+1))
}

// sleep pauses for the given duration, returning false if the
// dispatcher was stopped or the context cancelled in the meantime.
func (d *Dispatcher) sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-d.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}
