// Package worker holds background jobs of the auth server.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Pruner removes revocations whose tokens have expired.
type Pruner interface {
	PruneRevoked(ctx context.Context) (int64, error)
}

// RevocationPruner calls PruneRevoked on a fixed interval.
type RevocationPruner struct {
	pruner   Pruner
	interval time.Duration
	logger   logging.Logger

	removedTotal uint64
}

func NewRevocationPruner(p Pruner, interval time.Duration, l logging.Logger) *RevocationPruner {
	return &RevocationPruner{
		pruner:   p,
		interval: interval,
		logger:   l.With("module", "revocation_pruner"),
	}
}

// Start blocks until ctx is done. A non-positive interval returns at once.
func (w *RevocationPruner) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Debug(ctx, "Revocation pruning disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info(ctx, "Started pruning expired revocations", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Stopping revocation pruner...")
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *RevocationPruner) prune(ctx context.Context) {
	n, err := w.pruner.PruneRevoked(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error(ctx, "Failed to prune revocations", "error", err)
		}
		return
	}
	if n > 0 {
		atomic.AddUint64(&w.removedTotal, uint64(n))
		w.logger.Info(ctx, "Pruned expired revocations", "count", n)
	}
}

// Removed returns the number of rows pruned since start.
func (w *RevocationPruner) Removed() uint64 {
	return atomic.LoadUint64(&w.removedTotal)
}
