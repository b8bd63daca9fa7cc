package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (c *countingReconciler) ReconcilePlaced(context.Context, time.Duration, int) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestReconcileWorkerRunsUntilCancelled(t *testing.T) {
	rec := &countingReconciler{err: errors.New("db down")}
	w := NewReconcileWorker(rec, 5*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rec.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestReconcileWorkerDisabled(t *testing.T) {
	rec := &countingReconciler{}
	w := NewReconcileWorker(rec, 0, time.Minute)

	w.Start(context.Background())
	assert.Zero(t, rec.calls.Load())
}
