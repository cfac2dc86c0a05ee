package bus

import (
	"context"
	"iter"
	"sync"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

const defaultBuffer = 1024

type memorySubscriber struct {
	ch   chan []byte
	done chan struct{}
	once sync.Once
}

func (s *memorySubscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// MemoryBus is an in-process bus. Publish blocks while a subscriber queue is full.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string]map[*memorySubscriber]struct{}
	buffer int
	closed chan struct{}
	once   sync.Once
}

func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &MemoryBus{
		subs:   make(map[string]map[*memorySubscriber]struct{}),
		buffer: buffer,
		closed: make(chan struct{}),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload []byte) error {
	select {
	case <-b.closed:
		return errors.New(errors.ErrCodePublishFailed, "bus is closed")
	default:
	}

	b.mu.RLock()
	targets := make([]*memorySubscriber, 0, len(b.subs[topic]))
	for sub := range b.subs[topic] {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	msg := append([]byte(nil), payload...)

	for _, sub := range targets {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodePublishFailed, "publish canceled", ctx.Err())
		}
	}

	return nil
}

// Subscribe registers immediately, so messages published after the call
// returns are delivered even if iteration starts later.
func (b *MemoryBus) Subscribe(ctx context.Context, topics ...string) iter.Seq2[[]byte, error] {
	sub := &memorySubscriber{
		ch:   make(chan []byte, b.buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	for _, topic := range topics {
		if b.subs[topic] == nil {
			b.subs[topic] = make(map[*memorySubscriber]struct{})
		}

		b.subs[topic][sub] = struct{}{}
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.closed:
		case <-sub.done:
		}

		b.unsubscribe(sub, topics)
	}()

	return func(yield func([]byte, error) bool) {
		defer sub.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.closed:
				return
			case msg := <-sub.ch:
				if !yield(msg, nil) {
					return
				}
			}
		}
	}
}

func (b *MemoryBus) unsubscribe(sub *memorySubscriber, topics []string) {
	sub.stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, topic := range topics {
		delete(b.subs[topic], sub)

		if len(b.subs[topic]) == 0 {
			delete(b.subs, topic)
		}
	}
}

func (b *MemoryBus) Close() error {
	b.once.Do(func() { close(b.closed) })

	return nil
}
