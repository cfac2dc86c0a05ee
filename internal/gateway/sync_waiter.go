package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// SyncWaiter is a one-shot completion signal for queries whose result arrives
// on another goroutine. The first Done or Fail wins.
type SyncWaiter struct {
	done chan struct{}
	once sync.Once
	err  error
}

func NewSyncWaiter() *SyncWaiter {
	return &SyncWaiter{done: make(chan struct{})}
}

func (w *SyncWaiter) Done() {
	w.once.Do(func() { close(w.done) })
}

func (w *SyncWaiter) Fail(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}

// Wait blocks until completion, ctx cancellation, or timeout. A non-positive
// timeout waits on ctx alone.
func (w *SyncWaiter) Wait(ctx context.Context, timeout time.Duration) error {
	var timer <-chan time.Time

	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()

		timer = t.C
	}

	select {
	case <-w.done:
		return w.err
	case <-timer:
		return errors.Newf(errors.ErrCodeQueryTimeout, "no response within %s", timeout)
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeCanceled, "wait canceled", ctx.Err())
	}
}
