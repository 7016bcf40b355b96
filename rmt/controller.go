// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package rmt

import (
	"context"
	"errors"
	"iter"
	"log"
	"maps"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/ezrec/rmttx/internal"
	"github.com/ezrec/rmttx/peripheral"
)

const (
	EVENT_QUEUE_DEPTH = 32 // Default depth of the interrupt to worker queue.
)

var _rmt_defines = map[string]int{
	"EVENT_COMPLETE":     int(EVENT_COMPLETE),
	"EVENT_THRESHOLD":    int(EVENT_THRESHOLD),
	"EVENT_ERROR":        int(EVENT_ERROR),
	"MEM_BLOCKS_MAX":     MEM_BLOCKS_MAX,
	"DIVIDER_MAX":        DIVIDER_MAX,
	"CARRIER_HZ_MIN":     CARRIER_HZ_MIN,
	"CARRIER_HZ_MAX":     CARRIER_HZ_MAX,
	"EVENT_QUEUE_DEPTH":  EVENT_QUEUE_DEPTH,
	"DEFAULT_DUTY":       DEFAULT_DUTY,
	"DEFAULT_CARRIER_HZ": DEFAULT_CARRIER_HZ,
}

// Defines returns the driver constants exported to scripts.
func Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_rmt_defines), peripheral.Defines())
}

// ControllerConfig tunes a Controller.
type ControllerConfig struct {
	QueueDepth   int     // Event queue depth, EVENT_QUEUE_DEPTH if zero.
	ErrorLogRate float64 // Hardware error log lines per second, ERROR_LOG_RATE if zero.
	Verbose      bool    // If set, enables verbose logging.
}

// Controller owns the transmitter: its channel registry, the interrupt
// dispatcher and the event worker.
type Controller struct {
	Verbose bool // If set, enables verbose logging.

	Dispatcher *Dispatcher
	Worker     *Worker

	peripheral peripheral.Peripheral
	registry   Registry
	events     chan Event
	generation atomic.Uint32

	mu sync.Mutex // Serialises Create and Close.
}

// NewController takes ownership of a peripheral and installs the interrupt
// dispatcher as its handler.
func NewController(hw peripheral.Peripheral, cfg ControllerConfig) (ctl *Controller) {
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = EVENT_QUEUE_DEPTH
	}
	logRate := rate.Limit(cfg.ErrorLogRate)
	if logRate <= 0 {
		logRate = ERROR_LOG_RATE
	}

	ctl = &Controller{
		Verbose:    cfg.Verbose,
		peripheral: hw,
		events:     make(chan Event, depth),
	}
	ctl.Dispatcher = NewDispatcher(hw, &ctl.registry, ctl.events, logRate)
	ctl.Worker = NewWorker(&ctl.registry, ctl.events)
	ctl.Worker.Verbose = cfg.Verbose

	hw.SetHandler(ctl.Dispatcher.Handle)

	return
}

// Registry returns the table of live channels.
func (ctl *Controller) Registry() *Registry {
	return &ctl.registry
}

// Channel returns the live channel at index, or nil.
func (ctl *Controller) Channel(index int) *Channel {
	return ctl.registry.Lookup(index)
}

// Pending is the number of events waiting for the worker.
func (ctl *Controller) Pending() int {
	return len(ctl.events)
}

// Run runs the event worker until the context is done.
func (ctl *Controller) Run(ctx context.Context) error {
	return ctl.Worker.Run(ctx)
}

// Create configures a channel and registers it. A channel already live at
// the same index is unregistered first.
func (ctl *Controller) Create(cfg Config) (ch *Channel, err error) {
	const op = "create"

	cfg = cfg.withDefaults()
	err = cfg.Validate()
	if err != nil {
		err = &ValidationError{Op: op, Err: err}
		return
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	if old := ctl.registry.Lookup(cfg.Channel); old != nil {
		if ctl.Verbose {
			log.Printf("rmt: channel %d: replacing live channel", cfg.Channel)
		}
		err = old.Unregister()
		if err != nil {
			return
		}
	}

	err = ctl.peripheral.Configure(cfg.hardware())
	if err != nil {
		err = &ResourceError{Op: op, Err: err}
		return
	}

	ch = &Channel{
		ctl:        ctl,
		index:      cfg.Channel,
		generation: ctl.generation.Add(1),
		config:     cfg,
		tickNs:     TickDuration(cfg.ClockDivider),
		callback:   cfg.OnEvent,
		armed:      STATE_ONESHOT,
	}

	ctl.registry.insert(ch)

	ch.logf("pin %d, %d blocks, divider %d (%.1f ns/tick), loop %v, carrier %v, callback %v",
		cfg.Pin, cfg.MemBlocks, cfg.ClockDivider, ch.tickNs, cfg.Loop, cfg.Carrier, cfg.OnEvent != nil)

	return
}

// Close unregisters every live channel and detaches the interrupt handler.
func (ctl *Controller) Close() (err error) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	var errs []error
	for _, ch := range ctl.registry.All() {
		errs = append(errs, ch.Unregister())
	}

	ctl.peripheral.SetHandler(nil)

	err = errors.Join(errs...)
	return
}
