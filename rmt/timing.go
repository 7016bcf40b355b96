package rmt

import (
	"math"

	"github.com/ezrec/rmttx/peripheral"
)

const (
	NS_PER_SECOND = 1e9
	DIVIDER_MIN   = 1
	DIVIDER_MAX   = peripheral.DIVIDER_MAX
)

// TickDuration is the length of one tick, in nanoseconds, at a clock divider.
func TickDuration(divider int) float64 {
	return NS_PER_SECOND / (peripheral.APB_CLOCK_HZ / float64(divider))
}

// DividerForTickDuration finds the divider nearest to a tick length.
// The divider is clamped to [DIVIDER_MIN, DIVIDER_MAX]; actual is the tick
// length that divider really produces.
func DividerForTickDuration(ns float64) (divider int, actual float64) {
	div := math.Round(ns / NS_PER_SECOND * peripheral.APB_CLOCK_HZ)
	switch {
	case !(div >= DIVIDER_MIN): // Also catches NaN.
		div = DIVIDER_MIN
	case div > DIVIDER_MAX:
		div = DIVIDER_MAX
	}

	divider = int(div)
	actual = TickDuration(divider)
	return
}
