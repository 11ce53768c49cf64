package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countdown-go/countdown/pkg/timer"
	"github.com/countdown-go/countdown/pkg/timer/timertest"
)

func flush(t *testing.T, b *Bus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, b.Flush(ctx))
}

func TestBusDeliversInOrder(t *testing.T) {
	b := New()
	b.Start()
	defer b.Stop()

	var mu sync.Mutex
	var got []int
	b.Subscribe(func(sig timer.Signal) {
		mu.Lock()
		got = append(got, sig.State.Value)
		mu.Unlock()
	})

	for i := 0; i < 100; i++ {
		b.Publish(timer.Signal{Type: timer.SignalDecrement, State: timer.State{Value: i}})
	}
	flush(t, b)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		if v != i {
			t.Fatalf("signal %d delivered with value %d", i, v)
		}
	}
}

func TestBusQueuesBeforeStart(t *testing.T) {
	b := New()

	var count int
	b.Subscribe(func(timer.Signal) { count++ })

	b.Publish(timer.Signal{Type: timer.SignalStart})
	b.Publish(timer.Signal{Type: timer.SignalCancel})
	assert.Equal(t, 2, b.Pending())

	err := b.Flush(context.Background())
	assert.ErrorIs(t, err, ErrBusStopped)

	b.Start()
	flush(t, b)
	b.Stop()

	assert.Equal(t, 2, count)
	assert.Equal(t, 0, b.Pending())
}

func TestBusHandlersInSubscriptionOrder(t *testing.T) {
	b := New()
	b.Start()
	defer b.Stop()

	var order []string
	b.Subscribe(func(timer.Signal) { order = append(order, "first") })
	b.Subscribe(func(timer.Signal) { order = append(order, "second") })

	b.Publish(timer.Signal{Type: timer.SignalStart})
	flush(t, b)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBusUnsubscribe(t *testing.T) {
	b := New()
	b.Start()
	defer b.Stop()

	var a, c int
	unsubA := b.Subscribe(func(timer.Signal) { a++ })
	b.Subscribe(func(timer.Signal) { c++ })

	b.Publish(timer.Signal{Type: timer.SignalStart})
	flush(t, b)

	unsubA()
	unsubA() // second call is a no-op

	b.Publish(timer.Signal{Type: timer.SignalCancel})
	flush(t, b)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, c)
}

func TestBusStopDrainsAndDrops(t *testing.T) {
	b := New()

	release := make(chan struct{})
	var delivered int
	b.Subscribe(func(timer.Signal) {
		<-release
		delivered++
	})
	b.Start()

	for rep := 0; rep < 5; rep++ {
		b.Publish(timer.Signal{Type: timer.SignalDecrement})
	}
	close(release)
	b.Stop()

	assert.Equal(t, 5, delivered, "Stop must deliver queued signals")

	b.Publish(timer.Signal{Type: timer.SignalTimerEnd})
	assert.Equal(t, uint64(1), b.Dropped())
	assert.Equal(t, 0, b.Pending())
}

func TestBusFlushHonorsContext(t *testing.T) {
	b := New()
	block := make(chan struct{})
	b.Subscribe(func(timer.Signal) { <-block })
	b.Start()
	defer b.Stop()
	defer close(block)

	b.Publish(timer.Signal{Type: timer.SignalStart})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Flush(ctx), context.DeadlineExceeded)
}

// Handlers run outside the controller lock, so they may drive the controller.
func TestBusHandlerCanCallController(t *testing.T) {
	b := New()
	b.Start()
	defer b.Stop()

	store, err := timer.NewStore(0)
	require.NoError(t, err)

	factory := timertest.NewFactory()
	ctrl := timer.NewController(store, b, timer.WithTicker(factory.New))
	defer ctrl.Close()

	var mu sync.Mutex
	var seen []timer.SignalType
	b.Subscribe(func(sig timer.Signal) {
		mu.Lock()
		seen = append(seen, sig.Type)
		mu.Unlock()

		// Recover from a rejected start by resetting and starting again.
		if sig.Type == timer.SignalStartError {
			_ = ctrl.Reset(2)
			_ = ctrl.Start()
		}
	})

	require.Error(t, ctrl.Start())
	flush(t, b)
	flush(t, b)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []timer.SignalType{
		timer.SignalStartError,
		timer.SignalReset,
		timer.SignalStart,
	}, seen)
	assert.Equal(t, timer.StatusStarted, store.Status())
}
