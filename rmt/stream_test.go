package rmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rmttx/peripheral"
	"github.com/ezrec/rmttx/pulse"
)

func TestWriteRawStart(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	rec := &recorder{}
	ch := newChannel(t, ctl, 0, 1, rec.callback)

	err := ch.WriteRawStart(pulses(65, 10))
	assert.ErrorIs(err, ErrValidation)
	var ec ErrCapacity
	if assert.True(errors.As(err, &ec)) {
		assert.Equal(64, ec.Capacity)
		assert.Equal(1, ec.MemBlocks)
	}
	assert.False(sim.Running(0))

	assert.NoError(ch.WriteRawStart(pulses(64, 10)))
	assert.Equal(STATE_RAW_STREAMING, ch.State())
	assert.Equal(0, ch.StreamOffset())
	assert.Equal(32, ch.ThresholdCount())
	assert.Equal(32, sim.Threshold(0))
	assert.True(sim.Running(0))
	assert.False(ch.DriverInstalled())

	mask := peripheral.IntrMask(0, peripheral.INTR_TX_END) |
		peripheral.IntrMask(0, peripheral.INTR_ERR) |
		peripheral.IntrMask(0, peripheral.INTR_THRESHOLD)
	assert.Equal(mask, sim.Enabled())

	mem := sim.Memory(0)
	assert.Equal(pulse.Item{Duration0: 10, Level0: 1, Duration1: 10}, mem[63])
}

func TestWriteRawStart_Blocks(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	rec := &recorder{}
	ch := newChannel(t, ctl, 4, 3, rec.callback)

	assert.NoError(ch.WriteRawStart(pulses(10, 10)))
	assert.Equal(192, ch.Capacity())
	assert.Equal(96, ch.ThresholdCount())
	assert.Equal(96, sim.Threshold(4))
}

func TestWriteRawStart_NoCallback(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	ch := newChannel(t, ctl, 0, 1, nil)

	err := ch.WriteRawStart(pulses(4, 10))
	assert.ErrorIs(err, ErrValidation)
	assert.ErrorIs(err, ErrNoCallback)
	assert.Equal(STATE_CONFIGURED, ch.State())
	assert.False(sim.Running(0))
	assert.Zero(sim.Enabled())
}

func TestWriteRawStart_DriverInstalled(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	rec := &recorder{}
	ch := newChannel(t, ctl, 0, 1, rec.callback)

	assert.NoError(ch.WriteSync(pulses(2, 10)))
	assert.True(ch.DriverInstalled())

	err := ch.WriteRawStart(pulses(4, 10))
	assert.ErrorIs(err, ErrResource)
	assert.ErrorIs(err, ErrDriverInstalled)
	assert.Equal(2, ch.Items())
	assert.False(sim.Running(0))
}

func TestWriteRawFill(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	rec := &recorder{}
	ch := newChannel(t, ctl, 0, 1, rec.callback)

	assert.NoError(ch.WriteRawStart(pulses(64, 10)))

	table := [](struct {
		count  int
		offset int
	}){
		{10, 10},
		{0, 10},
		{54, 0},
		{60, 60},
		{32, 28},
	}

	for n, entry := range table {
		written, err := ch.WriteRawFill(pulses(entry.count, 20))
		assert.NoError(err, n)
		assert.Equal(entry.count, written, n)
		assert.Equal(entry.offset, ch.StreamOffset(), n)
	}

	assert.Equal(pulse.Item{Duration0: 20, Level0: 1, Duration1: 20}, sim.Memory(0)[27])
}

func TestWriteRawFill_Invalid(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)
	rec := &recorder{}
	ch := newChannel(t, ctl, 0, 1, rec.callback)

	assert.NoError(ch.WriteRawStart(pulses(64, 10)))

	// A trailing partial row is ignored.
	written, err := ch.WriteRawFill(append(pulses(2, 20), 20, 1))
	assert.NoError(err)
	assert.Equal(2, written)
	assert.Equal(2, ch.StreamOffset())

	// Items before the bad one stay written.
	values := append(pulses(3, 30), 30, 2, 30, 0)
	written, err = ch.WriteRawFill(values)
	assert.ErrorIs(err, ErrValidation)
	assert.ErrorIs(err, pulse.ErrInvalid)
	var el pulse.ErrLevel
	if assert.True(errors.As(err, &el)) {
		assert.Equal(3, el.Item)
		assert.Equal(13, el.Index)
	}
	assert.Equal(3, written)
	assert.Equal(5, ch.StreamOffset())

	mem := sim.Memory(0)
	assert.Equal(uint16(30), mem[4].Duration0)
	assert.Equal(uint16(10), mem[5].Duration0)
}

func TestWriteRaw_Stream(t *testing.T) {
	assert := assert.New(t)

	ctl, sim := newController(t)

	var ch *Channel
	var thresholds []int
	chunks := 2
	done := false
	callback := func(ev Event) (err error) {
		count, ok := ev.Threshold()
		if !ok {
			return
		}
		thresholds = append(thresholds, count)
		switch {
		case chunks > 0:
			chunks--
			_, err = ch.WriteRawFill(pulses(count, 5))
		case !done:
			done = true
			_, err = ch.WriteRawFill([]int{0, 0, 0, 0})
		}
		return
	}
	rec := &recorder{}
	ch = newChannel(t, ctl, 1, 1, func(ev Event) error {
		rec.callback(ev)
		return callback(ev)
	})

	assert.NoError(ch.WriteRawStart(pulses(64, 5)))

	for range 1000 {
		if sim.Tick() == 0 {
			break
		}
		ctl.Worker.Drain()
	}

	assert.False(sim.Running(1))
	assert.Equal([]int{32, 32, 32, 32}, thresholds)
	assert.Equal([]Kind{EVENT_THRESHOLD, EVENT_THRESHOLD, EVENT_THRESHOLD, EVENT_THRESHOLD, EVENT_COMPLETE}, rec.kinds())

	wave := sim.Waveform(1)
	assert.Equal(129, wave.Items)
	assert.Equal(128*10, wave.Ticks())
	assert.Zero(ctl.Worker.Failed())
	assert.Zero(ctl.Dispatcher.Dropped())
}
