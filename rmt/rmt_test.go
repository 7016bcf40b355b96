package rmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezrec/rmttx/peripheral"
)

// newController returns a controller over a fresh simulated peripheral.
func newController(t *testing.T) (*Controller, *peripheral.Sim) {
	sim := peripheral.NewSim()
	ctl := NewController(sim, ControllerConfig{})
	t.Cleanup(func() {
		ctl.Close()
	})
	return ctl, sim
}

// newChannel creates a channel with the given number of memory blocks.
func newChannel(t *testing.T, ctl *Controller, index int, blocks int, cb Callback) *Channel {
	cfg := DefaultConfig(index)
	cfg.MemBlocks = blocks
	cfg.OnEvent = cb
	ch, err := ctl.Create(cfg)
	require.NoError(t, err)
	return ch
}

// pulses returns count items of {ticks, 1, ticks, 0}.
func pulses(count int, ticks int) (values []int) {
	for range count {
		values = append(values, ticks, 1, ticks, 0)
	}
	return
}

// recorder collects events from a callback.
type recorder struct {
	events []Event
}

func (rec *recorder) callback(ev Event) error {
	rec.events = append(rec.events, ev)
	return nil
}

func (rec *recorder) kinds() (kinds []Kind) {
	for _, ev := range rec.events {
		kinds = append(kinds, ev.Kind)
	}
	return
}
