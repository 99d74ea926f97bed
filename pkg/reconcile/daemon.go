package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/gcpolicy/pkg/history"
	"mercator-hq/gcpolicy/pkg/telemetry/health"
)

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, trigger string) (*Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, trigger string) (*Result, error) {
	return f(ctx, trigger)
}

// DaemonOptions configures a Daemon.
type DaemonOptions struct {
	// Schedule is a cron expression; empty disables periodic runs.
	Schedule string

	// WatchPath is the schema file to watch; empty disables watching.
	WatchPath string
	Debounce  time.Duration

	// History is pruned to Retention after each successful run when both
	// are set.
	History   history.Store
	Retention time.Duration

	Logger *slog.Logger
}

// Daemon keeps a table reconciled: once at startup, then on schedule and
// on schema file changes.
type Daemon struct {
	reconciler *Reconciler
	opts       DaemonOptions
	logger     *slog.Logger

	mu      sync.RWMutex
	lastErr error
	lastRun time.Time
	runs    int
}

// NewDaemon creates a daemon around r.
func NewDaemon(r *Reconciler, opts DaemonOptions) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		reconciler: r,
		opts:       opts,
		logger:     logger.With("component", "reconcile.daemon"),
	}
}

// Run blocks until ctx is done. A failed run is logged and reported by
// the readiness check; it does not stop the daemon.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("reconcile daemon starting",
		"table", d.reconciler.Table().Name(),
		"schedule", d.opts.Schedule,
		"watch", d.opts.WatchPath,
	)

	_, _ = d.reconcile(ctx, TriggerStartup)

	scheduler := NewScheduler(RunnerFunc(d.reconcile), d.opts.Schedule, d.logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	var watchErr chan error
	if d.opts.WatchPath != "" {
		watcher, err := NewWatcher(d.opts.WatchPath, d.opts.Debounce, d.logger)
		if err != nil {
			return err
		}
		defer watcher.Stop()

		watchErr = make(chan error, 1)
		go func() {
			watchErr <- watcher.Watch(ctx, func() {
				_, _ = d.reconcile(ctx, TriggerWatch)
			})
		}()
	}

	select {
	case <-ctx.Done():
		d.logger.Info("reconcile daemon stopping")
		return nil
	case err := <-watchErr:
		if err == nil {
			return nil
		}
		return fmt.Errorf("schema watcher stopped: %w", err)
	}
}

func (d *Daemon) reconcile(ctx context.Context, trigger string) (*Result, error) {
	res, err := d.reconciler.Run(ctx, trigger)

	d.mu.Lock()
	d.lastErr = err
	d.lastRun = time.Now()
	d.runs++
	d.mu.Unlock()

	if err == nil {
		d.prune(ctx)
	}
	return res, err
}

func (d *Daemon) prune(ctx context.Context) {
	if d.opts.History == nil || d.opts.Retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-d.opts.Retention)
	n, err := d.opts.History.Prune(ctx, cutoff)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to prune history", "error", err)
		return
	}
	if n > 0 {
		d.logger.InfoContext(ctx, "pruned history", "entries", n, "cutoff", cutoff)
	}
}

// RunStatus summarizes the daemon's runs so far.
type RunStatus struct {
	Last time.Time
	Err  error
	Runs int
}

// Status returns the outcome of the most recent run.
func (d *Daemon) Status() RunStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return RunStatus{Last: d.lastRun, Err: d.lastErr, Runs: d.runs}
}

// RegisterChecks adds readiness checks for the last run, the schema file
// and the history store.
func (d *Daemon) RegisterChecks(c *health.Checker) {
	c.RegisterCheck("reconcile", func(context.Context) error {
		st := d.Status()
		if st.Runs == 0 {
			return fmt.Errorf("no reconcile has run yet")
		}
		return st.Err
	})
	c.RegisterCheck("schema", func(context.Context) error {
		_, err := d.reconciler.source.Load()
		return err
	})
	if d.opts.History != nil {
		c.RegisterCheck("history", func(ctx context.Context) error {
			_, err := d.opts.History.Count(ctx, &history.Query{})
			return err
		})
	}
}
