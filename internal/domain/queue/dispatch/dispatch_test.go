package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sharmayn/autoposter/internal/domain/queue/policy"
)

type fakeProcessor struct {
	checkCalls    atomic.Int64
	dispatchCalls atomic.Int64

	checkErr    error
	dispatchErr error
	result      *policy.Result
}

func (f *fakeProcessor) CheckNewItems(ctx context.Context) (int, error) {
	f.checkCalls.Add(1)
	return 0, f.checkErr
}

func (f *fakeProcessor) DispatchNext(ctx context.Context) (*policy.Result, error) {
	f.dispatchCalls.Add(1)
	if f.dispatchErr != nil {
		return nil, f.dispatchErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &policy.Result{Outcome: policy.OutcomeIdle}, nil
}

func testIntervals() Intervals {
	return Intervals{
		Idle:     5 * time.Millisecond,
		Recovery: 5 * time.Millisecond,
		CycleMin: 5 * time.Millisecond,
		CycleMax: 10 * time.Millisecond,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherRunsCycles(t *testing.T) {
	proc := &fakeProcessor{}
	d := New(proc, testIntervals(), testLogger())

	d.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	d.Stop()

	require.Greater(t, proc.checkCalls.Load(), int64(1), "expected repeated cycles")
	require.Equal(t, proc.checkCalls.Load(), proc.dispatchCalls.Load())
}

func TestDispatcherKeepsGoingAfterStoreError(t *testing.T) {
	proc := &fakeProcessor{dispatchErr: errors.New("connection refused")}
	d := New(proc, testIntervals(), testLogger())

	d.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	d.Stop()

	require.Greater(t, proc.dispatchCalls.Load(), int64(1), "errors must not kill the loop")
}

func TestDispatcherSkipsDispatchWhenCheckFails(t *testing.T) {
	proc := &fakeProcessor{checkErr: errors.New("connection refused")}
	d := New(proc, testIntervals(), testLogger())

	d.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	d.Stop()

	require.Greater(t, proc.checkCalls.Load(), int64(1))
	require.Zero(t, proc.dispatchCalls.Load(), "cycle backs off before dispatching")
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	proc := &fakeProcessor{}
	d := New(proc, testIntervals(), testLogger())

	d.Start(context.Background())
	d.Start(context.Background()) // second start is a no-op
	time.Sleep(20 * time.Millisecond)
	d.Stop()
	d.Stop() // second stop is a no-op
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	proc := &fakeProcessor{}
	d := New(proc, testIntervals(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	calls := proc.checkCalls.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, proc.checkCalls.Load(), "loop must stop after cancellation")

	d.Stop()
}

func TestCycleSleepWithinBounds(t *testing.T) {
	d := New(&fakeProcessor{}, Intervals{
		Idle:     time.Minute,
		Recovery: time.Minute,
		CycleMin: 2 * time.Minute,
		CycleMax: 8 * time.Minute,
	}, testLogger())

	for i := 0; i < 200; i++ {
		got := d.cycleSleep()
		require.GreaterOrEqual(t, got, 2*time.Minute)
		require.LessOrEqual(t, got, 8*time.Minute)
	}
}
