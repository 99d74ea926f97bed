package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner runs one reconcile. *Reconciler satisfies it.
type Runner interface {
	Run(ctx context.Context, trigger string) (*Result, error)
}

// Scheduler runs reconciles on a cron schedule.
type Scheduler struct {
	runner   Runner
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler. An empty schedule makes Start a no-op.
func NewScheduler(runner Runner, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "reconcile.scheduler"),
	}
}

// Start schedules runs using the standard five-field cron syntax or a
// descriptor such as "@hourly". The scheduler stops when ctx is done.
//
// Common cron expressions:
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 3 * * *"    - Daily at 3 AM
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("reconcile schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.runner.Run(ctx, TriggerSchedule); err != nil {
			s.logger.Error("scheduled reconcile failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconcile: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("reconcile scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running reconcile to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("reconcile scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
