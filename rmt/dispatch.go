package rmt

import (
	"log"
	"math/bits"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/ezrec/rmttx/peripheral"
)

const (
	ERROR_LOG_RATE  = 10 // Hardware error log lines per second.
	ERROR_LOG_BURST = 8
)

// Dispatcher is the interrupt handler of the transmitter.
//
// Handle runs in interrupt context: it never blocks, never calls
// application code and only posts fixed size tokens to the event queue.
type Dispatcher struct {
	status   peripheral.StatusRegister
	registry *Registry
	events   chan<- Event
	limiter  *rate.Limiter

	posted  atomic.Uint64
	dropped atomic.Uint64
	ignored atomic.Uint64
	faults  atomic.Uint64
}

// NewDispatcher creates a dispatcher posting to events. Hardware error logs
// are limited to logRate lines per second.
func NewDispatcher(status peripheral.StatusRegister, registry *Registry, events chan<- Event, logRate rate.Limit) *Dispatcher {
	return &Dispatcher{
		status:   status,
		registry: registry,
		events:   events,
		limiter:  rate.NewLimiter(logRate, ERROR_LOG_BURST),
	}
}

// Handle services every asserted interrupt bit.
func (d *Dispatcher) Handle() {
	status := d.status.Status()

	for pending := status; pending != 0; pending &= pending - 1 {
		bit := bits.TrailingZeros32(pending)
		mask := uint32(1) << bit

		d.status.Clear(mask)

		channel, code := peripheral.DecodeBit(bit)
		ch := d.registry.Lookup(channel)
		if ch == nil {
			// Shared interrupt; not one of ours, or already unregistered.
			d.ignored.Add(1)
			continue
		}

		switch code {
		case peripheral.INTR_TX_END:
			d.post(Event{Channel: channel, Kind: EVENT_COMPLETE, generation: ch.generation})
		case peripheral.INTR_ERR:
			d.status.Disable(mask)
			d.faults.Add(1)
			if d.limiter.Allow() {
				log.Printf("rmt: channel %d: hardware error, status 0x%08x", channel, status)
			}
			d.post(Event{Channel: channel, Kind: EVENT_ERROR, generation: ch.generation})
		case peripheral.INTR_THRESHOLD:
			d.post(Event{
				Channel:    channel,
				Kind:       EVENT_THRESHOLD,
				Count:      int(ch.thresholdCount.Load()),
				generation: ch.generation,
			})
		}
	}
}

func (d *Dispatcher) post(ev Event) {
	select {
	case d.events <- ev:
		d.posted.Add(1)
	default:
		d.dropped.Add(1)
	}
}

// Posted is the number of events queued.
func (d *Dispatcher) Posted() uint64 {
	return d.posted.Load()
}

// Dropped is the number of events lost to a full queue.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Ignored is the number of interrupts for channels without a live Channel.
func (d *Dispatcher) Ignored() uint64 {
	return d.ignored.Load()
}

// Faults is the number of hardware error interrupts.
func (d *Dispatcher) Faults() uint64 {
	return d.faults.Load()
}
