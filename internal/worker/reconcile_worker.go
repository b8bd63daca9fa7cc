package worker

import (
	"context"
	"log/slog"
	"time"
)

type Reconciler interface {
	ReconcilePlaced(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ReconcileWorker periodically settles placed orders whose payment
// confirmation webhook never arrived.
type ReconcileWorker struct {
	orders    Reconciler
	interval  time.Duration
	olderThan time.Duration
	batchSize int
}

func NewReconcileWorker(orders Reconciler, interval, olderThan time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		orders:    orders,
		interval:  interval,
		olderThan: olderThan,
		batchSize: 20,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		slog.Info("reconcile worker disabled")
		return
	}

	slog.Info("starting reconcile worker", "interval", w.interval, "older_than", w.olderThan)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReconcileWorker) runOnce(ctx context.Context) {
	n, err := w.orders.ReconcilePlaced(ctx, w.olderThan, w.batchSize)
	if err != nil {
		slog.Error("reconcile batch failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("reconciled orders", "count", n)
	}
}
