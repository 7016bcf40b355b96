// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package peripheral

import (
	"iter"

	"github.com/ezrec/rmttx/internal"
	"github.com/ezrec/rmttx/pulse"
)

const (
	CHANNEL_COUNT   = 8                             // Transmit channels.
	BLOCK_COUNT     = 8                             // Memory blocks shared by all channels.
	ITEMS_PER_BLOCK = 64                            // Pulse items per memory block.
	MEMORY_ITEMS    = BLOCK_COUNT * ITEMS_PER_BLOCK // Total pulse memory.
	PIN_MAX         = 39                            // Highest routable pin.
	APB_CLOCK_HZ    = 80_000_000                    // Source clock of the channel dividers.
	DIVIDER_MAX     = 255                           // Largest clock divider.

	INTR_PER_CHANNEL    = 3  // Status bits per channel in bits 0-23.
	INTR_THRESHOLD_BASE = 24 // First threshold status bit.
)

var _peripheral_defines = map[string]int{
	"CHANNEL_COUNT":   CHANNEL_COUNT,
	"BLOCK_COUNT":     BLOCK_COUNT,
	"ITEMS_PER_BLOCK": ITEMS_PER_BLOCK,
	"MEMORY_ITEMS":    MEMORY_ITEMS,
	"PIN_MAX":         PIN_MAX,
	"APB_CLOCK_HZ":    APB_CLOCK_HZ,
	"MAX_DURATION":    pulse.MAX_DURATION,
	"LEVEL_LOW":       int(LEVEL_LOW),
	"LEVEL_HIGH":      int(LEVEL_HIGH),
}

// Defines returns the hardware constants exported to scripts.
func Defines() iter.Seq2[string, int] {
	return internal.Defines(_peripheral_defines)
}

// IntrCode identifies the meaning of an interrupt status bit.
type IntrCode int

//go:generate go tool stringer -linecomment -type=IntrCode
const (
	INTR_TX_END    = IntrCode(0) // tx-end
	INTR_RX_END    = IntrCode(1) // rx-end
	INTR_ERR       = IntrCode(2) // error
	INTR_THRESHOLD = IntrCode(3) // threshold
)

// DecodeBit maps an interrupt status bit to its channel and meaning.
func DecodeBit(bit int) (channel int, code IntrCode) {
	if bit >= INTR_THRESHOLD_BASE {
		channel = bit - INTR_THRESHOLD_BASE
		code = INTR_THRESHOLD
		return
	}

	channel = bit / INTR_PER_CHANNEL
	code = IntrCode(bit % INTR_PER_CHANNEL)
	return
}

// IntrMask returns the status bit for a channel's interrupt.
func IntrMask(channel int, code IntrCode) uint32 {
	if code == INTR_THRESHOLD {
		return 1 << (INTR_THRESHOLD_BASE + channel)
	}
	return 1 << (channel*INTR_PER_CHANNEL + int(code))
}

// ChannelMask returns every status bit belonging to a channel.
func ChannelMask(channel int) uint32 {
	return IntrMask(channel, INTR_TX_END) |
		IntrMask(channel, INTR_RX_END) |
		IntrMask(channel, INTR_ERR) |
		IntrMask(channel, INTR_THRESHOLD)
}

// Level is an output signal level.
type Level uint8

const (
	LEVEL_LOW  = Level(0)
	LEVEL_HIGH = Level(1)
)

// ChannelConfig is the hardware configuration of a transmit channel.
type ChannelConfig struct {
	Channel      int
	Pin          int
	MemBlocks    int // Memory blocks, starting at block Channel.
	ClockDivider int // APB clock divider, 1..255.

	Loop               bool
	Carrier            bool
	CarrierDutyPercent int
	CarrierFrequencyHz int
	CarrierLevel       Level
	IdleOutput         bool
	IdleLevel          Level
}

// Capacity is the number of pulse items the channel's memory holds.
func (cfg ChannelConfig) Capacity() int {
	return cfg.MemBlocks * ITEMS_PER_BLOCK
}

// StatusRegister is the shared interrupt status of the transmitter.
type StatusRegister interface {
	// Status returns the asserted and enabled interrupt bits.
	Status() uint32
	// Clear acknowledges interrupt bits.
	Clear(mask uint32)
	// Enable unmasks interrupt sources.
	Enable(mask uint32)
	// Disable masks interrupt sources.
	Disable(mask uint32)
}

// Peripheral is the transmitter hardware as seen by the driver.
type Peripheral interface {
	StatusRegister

	// SetHandler installs the interrupt handler. It is called in
	// interrupt context whenever Status() is non-zero.
	SetHandler(isr func())

	// Configure applies a channel configuration.
	Configure(cfg ChannelConfig) error
	// InstallDriver acquires the one-shot driver for a channel.
	InstallDriver(channel int) error
	// UninstallDriver releases the one-shot driver. Transmission in
	// progress is not stopped.
	UninstallDriver(channel int) error
	// WriteItems transmits items through the driver, optionally waiting
	// for the pass to complete.
	WriteItems(channel int, items pulse.Train, wait bool) error

	// FillItem writes one item directly into channel memory.
	FillItem(channel int, offset int, item pulse.Item) error
	// SetThreshold sets the item count that raises the threshold interrupt.
	SetThreshold(channel int, count int) error
	// Start starts transmitting from channel memory, optionally from its
	// first item.
	Start(channel int, resetIndex bool) error
	// Stop halts transmission.
	Stop(channel int) error
	// SetLoop sets the loop mode flag.
	SetLoop(channel int, loop bool) error
}
