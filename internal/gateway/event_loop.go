package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// EventLoop runs venue events on a single goroutine. Adapters post callbacks
// to it so that none is ever invoked on the caller's goroutine, where the
// engine may hold its lock.
type EventLoop struct {
	size int

	mu      sync.Mutex
	running bool
	events  chan func()
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewEventLoop(size int) *EventLoop {
	if size <= 0 {
		size = 1024
	}

	return &EventLoop{size: size}
}

// Start launches the loop with an empty queue. Events left queued by a
// stopped session are never run. It returns false when the loop is already
// running.
func (l *EventLoop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return false
	}

	l.events = make(chan func(), l.size)
	l.stop = make(chan struct{})
	l.running = true

	l.wg.Add(1)

	go l.run(l.events, l.stop)

	return true
}

// Go runs a worker for the lifetime of the current session. stop is closed
// when the loop stops.
func (l *EventLoop) Go(worker func(stop <-chan struct{})) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	stop := l.stop

	l.wg.Add(1)

	go func() {
		defer l.wg.Done()

		worker(stop)
	}()
}

func (l *EventLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.running
}

// Stop closes the session and waits for the loop and its workers to exit.
func (l *EventLoop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()

		return nil
	}

	close(l.stop)
	l.running = false
	l.mu.Unlock()

	stopped := make(chan struct{})

	go func() {
		l.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeCanceled, "event loop stop interrupted", ctx.Err())
	}
}

// Post queues fn. It fails when the loop is not running or ctx ends first.
func (l *EventLoop) Post(ctx context.Context, fn func()) error {
	_, err := l.post(ctx, fn)

	return err
}

func (l *EventLoop) post(ctx context.Context, fn func()) (<-chan struct{}, error) {
	l.mu.Lock()
	running, events, stop := l.running, l.events, l.stop
	l.mu.Unlock()

	if !running {
		return nil, errors.New(errors.ErrCodeNotLoggedIn, "gateway is not logged in")
	}

	select {
	case events <- fn:
		return stop, nil
	case <-stop:
		return nil, errors.New(errors.ErrCodeNotLoggedIn, "gateway is shutting down")
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrCodeCanceled, "event queue is full", ctx.Err())
	}
}

// Call runs fn on the loop and waits for it to finish. It fails with
// ErrCodeNotLoggedIn when the loop stops before fn runs.
func (l *EventLoop) Call(ctx context.Context, timeout time.Duration, fn func()) error {
	waiter := NewSyncWaiter()

	stop, err := l.post(ctx, func() {
		fn()
		waiter.Done()
	})
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-stop:
			waiter.Fail(errors.New(errors.ErrCodeNotLoggedIn, "gateway stopped before the call ran"))
		case <-waiter.done:
		}
	}()

	return waiter.Wait(ctx, timeout)
}

func (l *EventLoop) run(events <-chan func(), stop <-chan struct{}) {
	defer l.wg.Done()

	for {
		select {
		case <-stop:
			return
		default:
		}

		select {
		case <-stop:
			return
		case fn := <-events:
			fn()
		}
	}
}
