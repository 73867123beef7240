package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// refresher reloads the catalog on a fixed interval until shut down.
type refresher struct {
	interval time.Duration
	load     func(ctx context.Context) error

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

func newRefresher(interval time.Duration, load func(ctx context.Context) error, log logger.Logger) *refresher {
	return &refresher{
		interval: interval,
		load:     load,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   log.Named("refresher"),
	}
}

// Run ticks until ctx is cancelled or Shutdown is called. Failed loads are
// logged; the previous snapshot stays current.
func (r *refresher) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case <-ticker.C:
			if err := r.load(ctx); err != nil {
				r.logger.Warn(ctx, "scheduled refresh failed", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the loop and waits for an in-flight load to finish.
func (r *refresher) Shutdown(ctx context.Context) error {
	close(r.shutdown)

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
