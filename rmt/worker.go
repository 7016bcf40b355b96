package rmt

import (
	"context"
	"log"
	"sync/atomic"
)

// Worker delivers events to channel callbacks, in the order they were
// posted, outside of interrupt context.
type Worker struct {
	Verbose bool // If set, logs dropped events.

	registry *Registry
	events   <-chan Event

	delivered atomic.Uint64
	stale     atomic.Uint64
	failed    atomic.Uint64
}

// NewWorker creates a worker consuming events.
func NewWorker(registry *Registry, events <-chan Event) *Worker {
	return &Worker{
		registry: registry,
		events:   events,
	}
}

// Run delivers events until the context is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.events:
			w.deliver(ev)
		}
	}
}

// Drain delivers every event currently queued, and returns how many were
// taken from the queue.
func (w *Worker) Drain() (count int) {
	for {
		select {
		case ev := <-w.events:
			w.deliver(ev)
			count++
		default:
			return
		}
	}
}

func (w *Worker) deliver(ev Event) {
	// The channel may have been unregistered, or replaced, since the
	// event was posted.
	ch := w.registry.Lookup(ev.Channel)
	if ch == nil || ch.generation != ev.generation {
		w.stale.Add(1)
		if w.Verbose {
			log.Printf("rmt: channel %d: dropped stale %v event", ev.Channel, ev.Kind)
		}
		return
	}

	if ev.Kind == EVENT_COMPLETE {
		ch.finished()
	}

	if ch.callback == nil {
		return
	}

	err := call(ch.callback, ev)
	w.delivered.Add(1)
	if err != nil {
		w.failed.Add(1)
		log.Printf("rmt: channel %d: %v callback: %v", ev.Channel, ev.Kind, err)
	}
}

func call(cb Callback, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrCallbackPanic{Value: r}
		}
	}()

	err = cb(ev)
	return
}

// Delivered is the number of callback invocations.
func (w *Worker) Delivered() uint64 {
	return w.delivered.Load()
}

// Stale is the number of events dropped because their channel was gone.
func (w *Worker) Stale() uint64 {
	return w.stale.Load()
}

// Failed is the number of callbacks that returned an error or panicked.
func (w *Worker) Failed() uint64 {
	return w.failed.Load()
}
