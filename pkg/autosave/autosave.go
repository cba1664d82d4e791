// Package autosave runs the periodic checkpoint loop so callers don't
// hand-roll a ticker. Save already swallows its own failures, so the loop
// has nothing to retry or report; it just keeps ticking until the context
// is done.
package autosave

import (
	"context"
	"errors"
	"time"

	"savepoint/pkg/logger"
)

// Saver is the periodic save operation. checkpoint.Store satisfies it.
type Saver interface {
	Save()
}

// Runner calls Save at a fixed interval until its context is cancelled
type Runner struct {
	saver    Saver
	interval time.Duration
	logger   logger.Logger
}

// New creates a Runner. Interval must be positive.
func New(saver Saver, interval time.Duration, log logger.Logger) (*Runner, error) {
	if saver == nil {
		return nil, errors.New("saver is required")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		saver:    saver,
		interval: interval,
		logger:   log,
	}, nil
}

// Run blocks, saving once per interval, until ctx is done. A final save
// is NOT performed on cancellation; that is the shutdown coordinator's
// job, and doing it here too would race with it on the same file.
func (r *Runner) Run(ctx context.Context) {
	r.logger.InfoWithFields("periodic checkpointing started", map[string]interface{}{
		"interval": r.interval,
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.saver.Save()
		case <-ctx.Done():
			r.logger.Debug("periodic checkpointing stopped")
			return
		}
	}
}

// Start launches Run in a goroutine and returns immediately
func (r *Runner) Start(ctx context.Context) {
	go r.Run(ctx)
}
