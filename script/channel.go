package script

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"

	"github.com/ezrec/rmttx/rmt"
)

// Channel is the Starlark value of a transmit channel.
type Channel struct {
	ch *rmt.Channel
}

var (
	_ starlark.Value    = (*Channel)(nil)
	_ starlark.HasAttrs = (*Channel)(nil)
)

type method func(c *Channel, name string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var channelMethods = map[string]method{
	"write_sync":      (*Channel).writeSync,
	"write_async":     (*Channel).writeAsync,
	"write_raw_start": (*Channel).writeRawStart,
	"write_raw_fill":  (*Channel).writeRawFill,
	"start":           (*Channel).start,
	"stop":            (*Channel).stop,
	"set_loop":        (*Channel).setLoop,
	"unregister":      (*Channel).unregister,
}

var channelAttrs = map[string]func(ch *rmt.Channel) starlark.Value{
	"channel":          func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.Index()) },
	"gpio":             func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.Pin()) },
	"capacity":         func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.Capacity()) },
	"offset":           func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.StreamOffset()) },
	"threshold":        func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.ThresholdCount()) },
	"driver_installed": func(ch *rmt.Channel) starlark.Value { return starlark.Bool(ch.DriverInstalled()) },
	"ns_per_tick":      func(ch *rmt.Channel) starlark.Value { return starlark.Float(ch.TickDuration()) },
	"items":            func(ch *rmt.Channel) starlark.Value { return starlark.MakeInt(ch.Items()) },
	"duration_ns":      func(ch *rmt.Channel) starlark.Value { return starlark.Float(ch.Duration()) },
	"state":            func(ch *rmt.Channel) starlark.Value { return starlark.String(ch.State().String()) },
}

// Rmt returns the channel behind the value.
func (c *Channel) Rmt() *rmt.Channel {
	return c.ch
}

func (c *Channel) String() string {
	return fmt.Sprintf("<rmttx.channel %d gpio %d %v>", c.ch.Index(), c.ch.Pin(), c.ch.State())
}

func (c *Channel) Type() string {
	return "rmttx.channel"
}

func (c *Channel) Freeze() {}

func (c *Channel) Truth() starlark.Bool {
	return starlark.Bool(c.ch.State() != rmt.STATE_UNREGISTERED)
}

func (c *Channel) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", c.Type())
}

func (c *Channel) Attr(name string) (value starlark.Value, err error) {
	if fn, ok := channelMethods[name]; ok {
		value = starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return fn(b.Receiver().(*Channel), b.Name(), args, kwargs)
		}).BindReceiver(c)
		return
	}

	if get, ok := channelAttrs[name]; ok {
		value = get(c.ch)
		return
	}

	// Not found.
	return
}

func (c *Channel) AttrNames() (names []string) {
	for name := range channelMethods {
		names = append(names, name)
	}
	for name := range channelAttrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}

// pulseValues flattens a Starlark iterable of integers.
func pulseValues(name string, args starlark.Tuple, kwargs []starlark.Tuple) (values []int, err error) {
	var items starlark.Iterable
	err = starlark.UnpackPositionalArgs(name, args, kwargs, 1, &items)
	if err != nil {
		return
	}

	iter := items.Iterate()
	defer iter.Done()

	var item starlark.Value
	for n := 0; iter.Next(&item); n++ {
		var value int
		value, err = starlark.AsInt32(item)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, ErrValue{Index: n, Err: err})
			return
		}
		values = append(values, value)
	}

	return
}

func (c *Channel) writeSync(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	values, err := pulseValues(name, args, kwargs)
	if err != nil {
		return
	}

	err = c.ch.WriteSync(values)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (c *Channel) writeAsync(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	values, err := pulseValues(name, args, kwargs)
	if err != nil {
		return
	}

	err = c.ch.WriteAsync(values)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (c *Channel) writeRawStart(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	values, err := pulseValues(name, args, kwargs)
	if err != nil {
		return
	}

	err = c.ch.WriteRawStart(values)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

// write_raw_fill returns the number of items written.
func (c *Channel) writeRawFill(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	values, err := pulseValues(name, args, kwargs)
	if err != nil {
		return
	}

	written, err := c.ch.WriteRawFill(values)
	if err != nil {
		return
	}

	value = starlark.MakeInt(written)
	return
}

func (c *Channel) start(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var reset bool
	err = starlark.UnpackArgs(name, args, kwargs, "reset?", &reset)
	if err != nil {
		return
	}

	err = c.ch.Start(reset)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (c *Channel) stop(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(name, args, kwargs, 0)
	if err != nil {
		return
	}

	err = c.ch.Stop()
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (c *Channel) setLoop(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var loop bool
	err = starlark.UnpackArgs(name, args, kwargs, "loop", &loop)
	if err != nil {
		return
	}

	err = c.ch.SetLoopMode(loop)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (c *Channel) unregister(name string, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(name, args, kwargs, 0)
	if err != nil {
		return
	}

	err = c.ch.Unregister()
	if err != nil {
		return
	}

	value = starlark.None
	return
}
