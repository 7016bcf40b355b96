// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package pulse

import (
	"fmt"
)

const (
	MAX_DURATION = (1 << 15) - 1 // Largest duration of a half-pulse, in ticks.
	VALUES       = 4             // Integers per item: dur0, lvl0, dur1, lvl1.
)

// Item is a pair of half-pulses.
type Item struct {
	Duration0 uint16
	Level0    uint8
	Duration1 uint16
	Level1    uint8
}

// Word packs the item into the 32-bit layout of transmitter memory:
// duration0 in bits 0-14, level0 in bit 15, duration1 in bits 16-30 and
// level1 in bit 31.
func (it Item) Word() (word uint32) {
	word = uint32(it.Duration0) & MAX_DURATION
	word |= uint32(it.Level0&1) << 15
	word |= (uint32(it.Duration1) & MAX_DURATION) << 16
	word |= uint32(it.Level1&1) << 31
	return
}

// FromWord unpacks a transmitter memory word.
func FromWord(word uint32) (it Item) {
	it.Duration0 = uint16(word & MAX_DURATION)
	it.Level0 = uint8((word >> 15) & 1)
	it.Duration1 = uint16((word >> 16) & MAX_DURATION)
	it.Level1 = uint8(word >> 31)
	return
}

// End is true if either half of the item is an end marker.
func (it Item) End() bool {
	return it.Duration0 == 0 || it.Duration1 == 0
}

func (it Item) String() string {
	return fmt.Sprintf("{%d, %d, %d, %d}", it.Duration0, it.Level0, it.Duration1, it.Level1)
}

// Train is an ordered sequence of items.
type Train []Item

// Ticks is the sum of all durations in the train.
func (train Train) Ticks() (ticks int) {
	for _, it := range train {
		ticks += int(it.Duration0) + int(it.Duration1)
	}
	return
}

// Duration is the total time of the train, in nanoseconds, at the given
// tick duration.
func (train Train) Duration(tickNs float64) float64 {
	return float64(train.Ticks()) * tickNs
}
