package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/countdown-go/countdown/pkg/timer"
)

// ErrBusStopped is returned by Flush when the bus is not delivering.
var ErrBusStopped = errors.New("bus stopped")

// Handler receives delivered signals.
type Handler func(sig timer.Signal)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an ordered, asynchronous signal dispatcher.
type Bus struct {
	mu sync.Mutex

	queue  []timer.Signal
	subs   []subscription
	nextID uint64

	// Delivery accounting
	published uint64
	delivered uint64
	dropped   uint64
	progress  chan struct{}
	closed    bool

	// Background delivery
	wake    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates a bus. Signals published before Start are queued.
func New() *Bus {
	return &Bus{
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish queues sig for delivery. It never blocks.
func (b *Bus) Publish(sig timer.Signal) {
	b.mu.Lock()
	if b.closed {
		b.dropped++
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, sig)
	b.published++
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Start begins background delivery.
func (b *Bus) Start() {
	if b.running.Swap(true) {
		return // Already running
	}

	b.mu.Lock()
	b.closed = false
	b.mu.Unlock()

	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.wg.Add(1)
	go b.deliverLoop()
}

// Stop delivers all queued signals and stops background delivery.
func (b *Bus) Stop() {
	if !b.running.Swap(false) {
		return // Not running
	}

	b.cancel()
	b.wg.Wait()

	b.mu.Lock()
	b.closed = true
	close(b.progress)
	b.progress = make(chan struct{})
	b.mu.Unlock()
}

// Flush waits until every signal published before the call has been
// delivered.
func (b *Bus) Flush(ctx context.Context) error {
	b.mu.Lock()
	target := b.published
	for b.delivered < target {
		if b.closed || !b.running.Load() {
			b.mu.Unlock()
			return ErrBusStopped
		}
		ch := b.progress
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		b.mu.Lock()
	}
	b.mu.Unlock()
	return nil
}

// Pending returns the number of queued signals not yet delivered.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Dropped returns the number of signals published after Stop.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// deliverLoop runs the background delivery.
func (b *Bus) deliverLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			b.drain()
			return
		case <-b.wake:
			b.drain()
		}
	}
}

// drain delivers queued signals until the queue is empty.
func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}
		sig := b.queue[0]
		b.queue[0] = timer.Signal{}
		b.queue = b.queue[1:]
		subs := make([]subscription, len(b.subs))
		copy(subs, b.subs)
		b.mu.Unlock()

		// Call handlers outside lock
		for _, s := range subs {
			s.handler(sig)
		}

		b.mu.Lock()
		b.delivered++
		close(b.progress)
		b.progress = make(chan struct{})
		b.mu.Unlock()
	}
}

// Compile-time interface satisfaction check.
var _ timer.Publisher = (*Bus)(nil)
