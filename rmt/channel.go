// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package rmt

import (
	"log"
	"sync/atomic"

	"github.com/ezrec/rmttx/peripheral"
	"github.com/ezrec/rmttx/pulse"
)

// State is the transmission state of a channel.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_CONFIGURED    = State(0) // configured
	STATE_ONESHOT       = State(1) // one-shot
	STATE_RAW_STREAMING = State(2) // raw-streaming
	STATE_UNREGISTERED  = State(3) // unregistered
)

// Channel is a configured transmit channel.
//
// A Channel must only be used from one goroutine at a time. Event
// callbacks run on the worker, so a channel written from its own callback
// must not also be written from elsewhere.
type Channel struct {
	ctl        *Controller
	index      int
	generation uint32
	config     Config
	tickNs     float64
	callback   Callback

	state           atomic.Int32 // State. The worker moves it back to STATE_CONFIGURED.
	armed           State        // What Start runs: one-shot or raw streaming.
	driverInstalled bool
	buffer          pulse.Train // Owned. Replaced on each write.
	duration        float64     // Length of buffer, in nanoseconds.
	streamOffset    int         // Raw streaming write cursor into channel memory.
	thresholdCount  atomic.Int32
}

// Index is the channel number.
func (ch *Channel) Index() int {
	return ch.index
}

// Pin is the output pin.
func (ch *Channel) Pin() int {
	return ch.config.Pin
}

// Config returns the creation configuration.
func (ch *Channel) Config() Config {
	return ch.config
}

// Capacity is the number of pulse items in the channel's memory.
func (ch *Channel) Capacity() int {
	return ch.config.Capacity()
}

// TickDuration is the length of one tick, in nanoseconds.
func (ch *Channel) TickDuration() float64 {
	return ch.tickNs
}

// State is the current transmission state.
func (ch *Channel) State() State {
	return State(ch.state.Load())
}

func (ch *Channel) setState(state State) {
	ch.state.Store(int32(state))
}

// finished moves a transmitting channel back to STATE_CONFIGURED.
func (ch *Channel) finished() {
	for _, from := range []State{STATE_ONESHOT, STATE_RAW_STREAMING} {
		if ch.state.CompareAndSwap(int32(from), int32(STATE_CONFIGURED)) {
			ch.logf("%v finished", from)
			return
		}
	}
}

// DriverInstalled reports whether the one-shot driver is held.
func (ch *Channel) DriverInstalled() bool {
	return ch.driverInstalled
}

// StreamOffset is the memory offset the next raw fill writes to.
func (ch *Channel) StreamOffset() int {
	return ch.streamOffset
}

// ThresholdCount is the item count that raises threshold events.
func (ch *Channel) ThresholdCount() int {
	return int(ch.thresholdCount.Load())
}

// Items is the number of pulse items in the owned buffer.
func (ch *Channel) Items() int {
	return len(ch.buffer)
}

// Duration is the length of the last written train, in nanoseconds.
func (ch *Channel) Duration() float64 {
	return ch.duration
}

func (ch *Channel) logf(format string, args ...any) {
	if ch.config.Debug || ch.ctl.Verbose {
		log.Printf("rmt: channel %d: "+format, append([]any{ch.index}, args...)...)
	}
}

func (ch *Channel) check(op string) (err error) {
	if ch.State() == STATE_UNREGISTERED {
		err = &ResourceError{Op: op, Err: ErrUnregistered}
	}
	return
}

// replace swaps in a new owned buffer, releasing the old one.
func (ch *Channel) replace(train pulse.Train) {
	if ch.buffer != nil {
		ch.logf("releasing %d items of the previous write", len(ch.buffer))
	}
	ch.buffer = train
	ch.duration = train.Duration(ch.tickNs)
	ch.logf("%d items, %.1f ns (%.3f ms)", len(train), ch.duration, ch.duration/1e6)
}

// WriteSync transmits a train of {duration0, level0, duration1, level1}
// rows and returns when it has been sent.
func (ch *Channel) WriteSync(values []int) error {
	return ch.write("write_sync", values, true)
}

// WriteAsync starts transmitting a train and returns immediately.
func (ch *Channel) WriteAsync(values []int) error {
	return ch.write("write_async", values, false)
}

func (ch *Channel) write(op string, values []int, wait bool) (err error) {
	err = ch.check(op)
	if err != nil {
		return
	}

	train, err := pulse.Decode(values)
	if err != nil {
		err = &ValidationError{Op: op, Err: err}
		return
	}

	// A looped train is replayed from memory, with no chance to refill.
	if ch.config.Loop && len(train) > ch.Capacity() {
		err = &ValidationError{Op: op, Err: ErrCapacity{
			Items:     len(train),
			MemBlocks: ch.config.MemBlocks,
			Capacity:  ch.Capacity(),
		}}
		return
	}

	ch.replace(train)

	hw := ch.ctl.peripheral
	if !ch.driverInstalled {
		err = hw.InstallDriver(ch.index)
		if err != nil {
			err = &ResourceError{Op: op, Err: err}
			return
		}
		ch.driverInstalled = true
		ch.logf("driver installed")
	}

	hw.Disable(peripheral.IntrMask(ch.index, peripheral.INTR_THRESHOLD))
	if ch.callback != nil {
		hw.Enable(peripheral.IntrMask(ch.index, peripheral.INTR_TX_END) |
			peripheral.IntrMask(ch.index, peripheral.INTR_ERR))
	}

	ch.armed = STATE_ONESHOT
	ch.setState(STATE_ONESHOT)
	err = hw.WriteItems(ch.index, ch.buffer, wait)
	if err != nil {
		err = &ResourceError{Op: op, Err: err}
		return
	}
	ch.logf("sent on pin %d", ch.config.Pin)

	if ch.config.Loop {
		// Leaving the driver installed while looping duplicates output.
		err = hw.UninstallDriver(ch.index)
		if err != nil {
			err = &ResourceError{Op: op, Err: err}
			return
		}
		ch.driverInstalled = false
		ch.logf("driver uninstalled, looping")
		return
	}

	if wait {
		ch.setState(STATE_CONFIGURED)
	}

	return
}

// Start starts transmitting from channel memory. With resetIndex the
// transmitter begins at the first item, otherwise where it left off.
func (ch *Channel) Start(resetIndex bool) (err error) {
	err = ch.check("start")
	if err != nil {
		return
	}

	err = ch.ctl.peripheral.Start(ch.index, resetIndex)
	if err != nil {
		err = &ResourceError{Op: "start", Err: err}
		return
	}
	ch.setState(ch.armed)
	ch.logf("start %v, reset index %v", ch.armed, resetIndex)

	return
}

// Stop halts transmission. Interrupts stay armed, the buffer is kept, and
// events already posted are still delivered.
func (ch *Channel) Stop() (err error) {
	err = ch.check("stop")
	if err != nil {
		return
	}

	err = ch.ctl.peripheral.Stop(ch.index)
	if err != nil {
		err = &ResourceError{Op: "stop", Err: err}
		return
	}
	ch.setState(STATE_CONFIGURED)

	return
}

// SetLoopMode sets the hardware loop flag of the live channel. The
// creation configuration, which governs write validation, is unchanged.
func (ch *Channel) SetLoopMode(loop bool) (err error) {
	err = ch.check("set_loop")
	if err != nil {
		return
	}

	err = ch.ctl.peripheral.SetLoop(ch.index, loop)
	if err != nil {
		err = &ResourceError{Op: "set_loop", Err: err}
		return
	}
	ch.logf("loop %v", loop)

	return
}

// Unregister stops the channel, masks its interrupts, releases the driver
// and the buffer, and removes the channel from the registry. Calling it
// again does nothing.
func (ch *Channel) Unregister() (err error) {
	if ch.State() == STATE_UNREGISTERED {
		return
	}

	hw := ch.ctl.peripheral
	mask := peripheral.ChannelMask(ch.index)
	hw.Disable(mask)
	hw.Clear(mask)

	// The transmitter must not read memory that is about to be reused.
	if stopErr := hw.Stop(ch.index); stopErr != nil {
		ch.logf("stop: %v", stopErr)
	}

	if ch.driverInstalled {
		err = hw.UninstallDriver(ch.index)
		if err != nil {
			err = &ResourceError{Op: "unregister", Err: err}
		}
		ch.driverInstalled = false
	}

	if ch.buffer != nil {
		ch.buffer = nil
		ch.logf("released items memory")
	}

	ch.ctl.registry.remove(ch)
	ch.setState(STATE_UNREGISTERED)
	ch.logf("unregistered")

	return
}
