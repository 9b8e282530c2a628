package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/segmentor/pkg/utils/errutil"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
)

// Sweeper removes editor sessions idle for longer than ttl
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// SessionSweeperWorker periodically expires idle editor sessions held by the
// HTTP server.
//
// Sessions live in process memory, so a single instance owns all of them and
// no locking across instances is needed.
type SessionSweeperWorker struct {
	sweeper  Sweeper
	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionSweeperWorker creates a worker that sweeps every interval
func NewSessionSweeperWorker(sweeper Sweeper, ttl, interval time.Duration) *SessionSweeperWorker {
	return &SessionSweeperWorker{
		sweeper:  sweeper,
		ttl:      ttl,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop in the background
func (w *SessionSweeperWorker) Start(ctx context.Context) error {
	logging.From(ctx).Info("Session sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweeperWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

func (w *SessionSweeperWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Debug("Session sweeper context cancelled")
			return
		}
	}
}

func (w *SessionSweeperWorker) sweep(ctx context.Context) {
	removed, err := w.sweeper.Sweep(ctx, w.ttl)
	if err != nil {
		// keep going, the next tick retries
		errutil.Log(ctx, err, "Session sweep failed")
		return
	}
	if removed > 0 {
		logging.From(ctx).Info("Expired idle editor sessions", "count", removed)
	}
}
