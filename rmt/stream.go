package rmt

import (
	"github.com/ezrec/rmttx/peripheral"
	"github.com/ezrec/rmttx/pulse"
)

// WriteRawStart starts double buffered streaming.
//
// The train is written into channel memory from offset 0 and transmission
// starts from the first item. A threshold event is raised each time half of
// the memory has been sent; the callback then supplies the next half with
// WriteRawFill. An end marker (a zero duration) finishes the stream.
func (ch *Channel) WriteRawStart(values []int) (err error) {
	const op = "write_raw_start"

	err = ch.check(op)
	if err != nil {
		return
	}

	train, err := pulse.Decode(values)
	if err != nil {
		err = &ValidationError{Op: op, Err: err}
		return
	}

	capacity := ch.Capacity()
	if len(train) > capacity {
		err = &ValidationError{Op: op, Err: ErrCapacity{
			Items:     len(train),
			MemBlocks: ch.config.MemBlocks,
			Capacity:  capacity,
		}}
		return
	}

	// Threshold events are the only way to refill.
	if ch.callback == nil {
		err = &ValidationError{Op: op, Err: ErrNoCallback}
		return
	}

	if ch.driverInstalled {
		err = &ResourceError{Op: op, Err: ErrDriverInstalled}
		return
	}

	ch.replace(train)

	hw := ch.ctl.peripheral
	for offset, item := range ch.buffer {
		err = hw.FillItem(ch.index, offset, item)
		if err != nil {
			err = &ResourceError{Op: op, Err: err}
			return
		}
	}

	threshold := capacity / 2
	err = hw.SetThreshold(ch.index, threshold)
	if err != nil {
		err = &ResourceError{Op: op, Err: err}
		return
	}
	ch.thresholdCount.Store(int32(threshold))
	ch.logf("threshold event at %d items", threshold)

	mask := peripheral.IntrMask(ch.index, peripheral.INTR_TX_END) |
		peripheral.IntrMask(ch.index, peripheral.INTR_ERR) |
		peripheral.IntrMask(ch.index, peripheral.INTR_THRESHOLD)
	hw.Clear(mask)
	hw.Enable(mask)

	ch.streamOffset = 0
	ch.armed = STATE_RAW_STREAMING
	ch.setState(STATE_RAW_STREAMING)

	err = hw.Start(ch.index, true)
	if err != nil {
		err = &ResourceError{Op: op, Err: err}
		return
	}

	return
}

// WriteRawFill writes the next chunk of a raw stream straight into channel
// memory at the stream offset, wrapping at the end of memory. It is meant
// to be called from the threshold event with at most half of the memory's
// worth of items, and must finish before the next threshold event.
//
// Items are validated as they are written; on error the items before the
// bad one are already in memory. A trailing partial row is ignored.
func (ch *Channel) WriteRawFill(values []int) (written int, err error) {
	const op = "write_raw_fill"

	err = ch.check(op)
	if err != nil {
		return
	}

	hw := ch.ctl.peripheral
	capacity := ch.Capacity()

	for n := range len(values) / pulse.VALUES {
		var item pulse.Item
		item, err = pulse.At(values, n)
		if err != nil {
			err = &ValidationError{Op: op, Err: err}
			return
		}

		if written == 0 {
			ch.logf("fill from offset %d", ch.streamOffset)
		}

		err = hw.FillItem(ch.index, ch.streamOffset, item)
		if err != nil {
			err = &ResourceError{Op: op, Err: err}
			return
		}

		ch.streamOffset++
		if ch.streamOffset == capacity {
			ch.streamOffset = 0
		}
		written++
	}

	return
}
