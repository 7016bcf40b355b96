// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"fmt"
	"io"
	"log"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/ezrec/rmttx/peripheral"
	"github.com/ezrec/rmttx/rmt"
)

const (
	MODULE_NAME     = "rmttx"
	WAIT_IDLE_LIMIT = 1_000_000 // Default tick limit of wait_idle().
)

// Clock advances the transmitter.
type Clock interface {
	// Tick advances every running channel by one pulse item, and returns
	// the number of channels that advanced.
	Tick() int
	// Idle is true when no channel is transmitting.
	Idle() bool
}

// Script runs Starlark scripts against a controller.
type Script struct {
	Verbose bool      // If set, enables verbose logging.
	Stdout  io.Writer // Destination of print(), os.Stdout if nil.

	ctl    *rmt.Controller
	clock  Clock
	thread *starlark.Thread // Runs event callbacks.
}

// NewScript creates a script environment. The clock drives rmttx.wait();
// it may be nil when some other goroutine clocks the transmitter.
func NewScript(ctl *rmt.Controller, clock Clock) (s *Script) {
	s = &Script{
		ctl:   ctl,
		clock: clock,
	}
	s.thread = &starlark.Thread{Name: "rmttx callbacks", Print: s.print}
	return
}

func (s *Script) print(_ *starlark.Thread, msg string) {
	out := s.Stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, msg)
}

// Module returns the rmttx module.
func (s *Script) Module() *starlarkstruct.Module {
	members := starlark.StringDict{
		"create":                  starlark.NewBuiltin("create", s.create),
		"ns_per_tick":             starlark.NewBuiltin("ns_per_tick", nsPerTick),
		"clk_div_for_ns_per_tick": starlark.NewBuiltin("clk_div_for_ns_per_tick", clkDivForNsPerTick),
		"wait":                    starlark.NewBuiltin("wait", s.wait),
		"wait_idle":               starlark.NewBuiltin("wait_idle", s.waitIdle),
	}
	for name, value := range rmt.Defines() {
		members[name] = starlark.MakeInt(value)
	}

	return &starlarkstruct.Module{Name: MODULE_NAME, Members: members}
}

// Predeclared returns the names visible to every script: the rmttx module
// and the driver constants.
func (s *Script) Predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{
		MODULE_NAME: s.Module(),
	}
	for name, value := range rmt.Defines() {
		pred[name] = starlark.MakeInt(value)
	}
	return
}

// Exec runs a script to completion and returns its globals.
func (s *Script) Exec(filename string, src any) (globals starlark.StringDict, err error) {
	if s.Verbose {
		log.Printf("script: exec %v", filename)
	}

	thread := &starlark.Thread{Name: filename, Print: s.print}
	opts := syntax.FileOptions{}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, s.Predeclared())
	if err != nil {
		err = &ErrRuntime{Script: filename, Err: err}
		return
	}

	return
}

// callback adapts a Starlark callable to channel events. It is called
// as fn(channel, event, threshold), threshold being None except for
// threshold events.
func (s *Script) callback(fn starlark.Callable, c *Channel) rmt.Callback {
	return func(ev rmt.Event) (err error) {
		var threshold starlark.Value = starlark.None
		if count, ok := ev.Threshold(); ok {
			threshold = starlark.MakeInt(count)
		}

		args := starlark.Tuple{c, starlark.MakeInt(int(ev.Kind)), threshold}
		_, err = starlark.Call(s.thread, fn, args, nil)
		return
	}
}

func (s *Script) create(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	cfg := rmt.DefaultConfig(0)
	var carrierLevel, idleLevel int
	var cb starlark.Value = starlark.None

	err = starlark.UnpackArgs(b.Name(), args, kwargs,
		"channel?", &cfg.Channel,
		"gpio?", &cfg.Pin,
		"mem_blocks?", &cfg.MemBlocks,
		"clk_div?", &cfg.ClockDivider,
		"loop?", &cfg.Loop,
		"carrier?", &cfg.Carrier,
		"carrier_duty_pct?", &cfg.CarrierDutyPercent,
		"carrier_freq_hz?", &cfg.CarrierFrequencyHz,
		"carrier_level?", &carrierLevel,
		"idle_output?", &cfg.IdleOutput,
		"idle_level?", &idleLevel,
		"cb?", &cb,
		"debug?", &cfg.Debug,
	)
	if err != nil {
		return
	}
	cfg.CarrierLevel = peripheral.Level(carrierLevel)
	cfg.IdleLevel = peripheral.Level(idleLevel)

	c := &Channel{}
	switch fn := cb.(type) {
	case starlark.NoneType:
	case starlark.Callable:
		cfg.OnEvent = s.callback(fn, c)
	default:
		err = fmt.Errorf("%s: %w", b.Name(), ErrNotCallable)
		return
	}

	c.ch, err = s.ctl.Create(cfg)
	if err != nil {
		return
	}

	if s.Verbose {
		log.Printf("script: created %v", c)
	}

	value = c
	return
}

func nsPerTick(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var divider int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &divider)
	if err != nil {
		return
	}

	value = starlark.Float(rmt.TickDuration(divider))
	return
}

func clkDivForNsPerTick(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var arg starlark.Value
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &arg)
	if err != nil {
		return
	}
	ns, ok := starlark.AsFloat(arg)
	if !ok {
		err = fmt.Errorf("%s: %w, got %s", b.Name(), ErrNotNumber, arg.Type())
		return
	}

	divider, actual := rmt.DividerForTickDuration(ns)
	value = starlark.Tuple{starlark.MakeInt(divider), starlark.Float(actual)}
	return
}

// wait(ticks) advances the clock, delivering events after every tick.
func (s *Script) wait(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var ticks int
	err = starlark.UnpackArgs(b.Name(), args, kwargs, "ticks", &ticks)
	if err != nil {
		return
	}

	if s.clock != nil {
		for range ticks {
			s.clock.Tick()
			s.ctl.Worker.Drain()
		}
	}
	s.ctl.Worker.Drain()

	value = starlark.None
	return
}

// wait_idle(limit) advances the clock until no channel is transmitting,
// and returns whether that happened within limit ticks.
func (s *Script) waitIdle(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	limit := WAIT_IDLE_LIMIT
	err = starlark.UnpackArgs(b.Name(), args, kwargs, "limit?", &limit)
	if err != nil {
		return
	}

	if s.clock == nil {
		value = starlark.False
		return
	}

	for n := 0; n < limit && !s.clock.Idle(); n++ {
		s.clock.Tick()
		s.ctl.Worker.Drain()
	}
	s.ctl.Worker.Drain()

	value = starlark.Bool(s.clock.Idle())
	return
}
