package scan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu     sync.Mutex
	inputs []ScanTransactionsInput
	calls  chan ScanTransactionsInput
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{calls: make(chan ScanTransactionsInput, 16)}
}

func (r *fakeRunner) Execute(_ context.Context, input ScanTransactionsInput) (*ScanTransactionsOutput, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, input)
	r.mu.Unlock()
	r.calls <- input
	return &ScanTransactionsOutput{}, nil
}

func (r *fakeRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inputs)
}

func TestScheduler_CoalescesBursts(t *testing.T) {
	runner := newFakeRunner()
	scheduler := NewScheduler(runner, 50*time.Millisecond)
	t.Cleanup(scheduler.Stop)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		scheduler.Trigger(userID)
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, scheduler.Pending())

	select {
	case input := <-runner.calls:
		require.Equal(t, userID, input.UserID)
		require.Equal(t, ModeAutomatic, input.Mode)
	case <-time.After(time.Second):
		t.Fatal("scheduled scan never ran")
	}

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, runner.count())
	require.Zero(t, scheduler.Pending())
}

func TestScheduler_ReplacedTimerDoesNotClearNewerPass(t *testing.T) {
	runner := newFakeRunner()
	scheduler := NewScheduler(runner, 50*time.Millisecond)
	t.Cleanup(scheduler.Stop)
	userID := uuid.New()

	scheduler.Trigger(userID)
	scheduler.mu.Lock()
	stale := scheduler.timers[userID]
	scheduler.mu.Unlock()
	scheduler.Trigger(userID)

	// The replaced timer already fired and was waiting on the lock.
	scheduler.fire(userID, stale)
	require.Equal(t, 1, scheduler.Pending())
	require.Zero(t, runner.count())

	select {
	case <-runner.calls:
	case <-time.After(time.Second):
		t.Fatal("scheduled scan never ran")
	}
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, runner.count())
	require.Zero(t, scheduler.Pending())
}

func TestScheduler_UsersAreIndependent(t *testing.T) {
	runner := newFakeRunner()
	scheduler := NewScheduler(runner, 20*time.Millisecond)
	t.Cleanup(scheduler.Stop)

	scheduler.Trigger(uuid.New())
	scheduler.Trigger(uuid.New())
	require.Equal(t, 2, scheduler.Pending())

	for i := 0; i < 2; i++ {
		select {
		case <-runner.calls:
		case <-time.After(time.Second):
			t.Fatal("scheduled scan never ran")
		}
	}
}

func TestScheduler_StopCancelsPendingPasses(t *testing.T) {
	runner := newFakeRunner()
	scheduler := NewScheduler(runner, 30*time.Millisecond)

	scheduler.Trigger(uuid.New())
	scheduler.Stop()
	require.Zero(t, scheduler.Pending())

	time.Sleep(80 * time.Millisecond)
	require.Zero(t, runner.count())

	// Triggers after Stop are ignored.
	scheduler.Trigger(uuid.New())
	require.Zero(t, scheduler.Pending())
}

func TestScheduler_StartReturnsWhenContextEnds(t *testing.T) {
	scheduler := NewScheduler(newFakeRunner(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		scheduler.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return")
	}
}

func TestScheduler_ScanNowForcesManualMode(t *testing.T) {
	runner := newFakeRunner()
	scheduler := NewScheduler(runner, time.Second)
	t.Cleanup(scheduler.Stop)

	_, err := scheduler.ScanNow(context.Background(), ScanTransactionsInput{UserID: uuid.New(), Mode: ModeAutomatic, Limit: 5})
	require.NoError(t, err)

	input := <-runner.calls
	require.Equal(t, ModeManual, input.Mode)
	require.Equal(t, 5, input.Limit)
	require.Zero(t, scheduler.Pending())
}

func TestNewScheduler_DefaultDebounce(t *testing.T) {
	scheduler := NewScheduler(newFakeRunner(), 0)
	t.Cleanup(scheduler.Stop)
	require.Equal(t, DefaultDebounce, scheduler.debounce)
}
