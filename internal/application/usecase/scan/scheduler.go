package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDebounce is how long the scheduler waits after the last data change before scanning.
const DefaultDebounce = 2 * time.Second

// Runner runs a single scan pass.
type Runner interface {
	Execute(ctx context.Context, input ScanTransactionsInput) (*ScanTransactionsOutput, error)
}

// Scheduler runs automatic scans a short while after a user's data changes.
// Every Trigger restarts the user's timer, so a burst of imports results in one pass.
type Scheduler struct {
	runner   Runner
	debounce time.Duration

	mu     sync.Mutex
	timers map[uuid.UUID]*pendingScan
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// pendingScan is a user's waiting pass. A timer that fires after being
// replaced finds a different entry in the map and does nothing.
type pendingScan struct {
	timer *time.Timer
}

// NewScheduler creates a new Scheduler.
func NewScheduler(runner Runner, debounce time.Duration) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:   runner,
		debounce: debounce,
		timers:   make(map[uuid.UUID]*pendingScan),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start blocks until ctx is cancelled, then stops the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Debt scan scheduler started", "debounce", s.debounce)

	select {
	case <-ctx.Done():
	case <-s.ctx.Done():
	}

	slog.Info("Debt scan scheduler shutting down")
	s.Stop()
}

// Stop cancels every waiting timer and waits for running passes to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for userID, pending := range s.timers {
		pending.timer.Stop()
		delete(s.timers, userID)
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
}

// Trigger schedules an automatic pass for the user after the debounce window,
// replacing any pass already waiting for that user.
func (s *Scheduler) Trigger(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	if pending, ok := s.timers[userID]; ok {
		pending.timer.Stop()
	}
	pending := &pendingScan{}
	pending.timer = time.AfterFunc(s.debounce, func() {
		s.fire(userID, pending)
	})
	s.timers[userID] = pending
}

// Pending returns the number of users with a pass waiting to run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// ScanNow runs a manual pass immediately. Manual passes ignore the watermark
// and may overlap automatic ones.
func (s *Scheduler) ScanNow(ctx context.Context, input ScanTransactionsInput) (*ScanTransactionsOutput, error) {
	input.Mode = ModeManual
	return s.runner.Execute(ctx, input)
}

func (s *Scheduler) fire(userID uuid.UUID, pending *pendingScan) {
	s.mu.Lock()
	if s.ctx.Err() != nil || s.timers[userID] != pending {
		s.mu.Unlock()
		return
	}
	delete(s.timers, userID)
	s.wg.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	defer s.wg.Done()

	if _, err := s.runner.Execute(ctx, ScanTransactionsInput{UserID: userID, Mode: ModeAutomatic}); err != nil {
		slog.Error("Automatic debt scan failed",
			"user_id", userID,
			"error", err,
		)
	}
}
