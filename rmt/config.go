package rmt

import (
	"github.com/ezrec/rmttx/peripheral"
)

const (
	MEM_BLOCKS_MIN     = 1
	MEM_BLOCKS_MAX     = peripheral.BLOCK_COUNT
	DUTY_PERCENT_MAX   = 100
	CARRIER_HZ_MIN     = 611 // Lowest carrier the clock tree can produce.
	CARRIER_HZ_MAX     = 1_000_000
	DEFAULT_DUTY       = 50
	DEFAULT_CARRIER_HZ = CARRIER_HZ_MIN
)

// Config is the creation time configuration of a channel.
//
// Controller.Create replaces a zero MemBlocks, ClockDivider or
// CarrierFrequencyHz with its DefaultConfig value.
type Config struct {
	Channel      int // Channel index, 0..7.
	Pin          int // Output pin.
	MemBlocks    int // Memory blocks, 1..8. Capacity is 64 items per block.
	ClockDivider int // APB clock divider, 1..255.

	Loop               bool
	Carrier            bool
	CarrierDutyPercent int
	CarrierFrequencyHz int
	CarrierLevel       peripheral.Level
	IdleOutput         bool
	IdleLevel          peripheral.Level

	// OnEvent receives the channel's events. Without it no interrupt
	// of the channel is ever enabled.
	OnEvent Callback

	Debug bool // If set, logs the channel's activity.
}

// DefaultConfig returns the default configuration for a channel.
func DefaultConfig(channel int) Config {
	return Config{
		Channel:            channel,
		MemBlocks:          MEM_BLOCKS_MIN,
		ClockDivider:       DIVIDER_MIN,
		CarrierDutyPercent: DEFAULT_DUTY,
		CarrierFrequencyHz: DEFAULT_CARRIER_HZ,
		CarrierLevel:       peripheral.LEVEL_LOW,
		IdleLevel:          peripheral.LEVEL_LOW,
	}
}

// withDefaults fills the fields whose zero value is out of range.
func (cfg Config) withDefaults() Config {
	if cfg.MemBlocks == 0 {
		cfg.MemBlocks = MEM_BLOCKS_MIN
	}
	if cfg.ClockDivider == 0 {
		cfg.ClockDivider = DIVIDER_MIN
	}
	if cfg.CarrierFrequencyHz == 0 {
		cfg.CarrierFrequencyHz = DEFAULT_CARRIER_HZ
	}
	return cfg
}

// Validate checks every field against its range.
func (cfg Config) Validate() (err error) {
	checks := [](struct {
		field    string
		value    int
		min, max int
	}){
		{"Channel", cfg.Channel, 0, peripheral.CHANNEL_COUNT - 1},
		{"Pin", cfg.Pin, 0, peripheral.PIN_MAX},
		{"MemBlocks", cfg.MemBlocks, MEM_BLOCKS_MIN, MEM_BLOCKS_MAX},
		{"ClockDivider", cfg.ClockDivider, DIVIDER_MIN, DIVIDER_MAX},
		{"CarrierDutyPercent", cfg.CarrierDutyPercent, 0, DUTY_PERCENT_MAX},
		{"CarrierFrequencyHz", cfg.CarrierFrequencyHz, CARRIER_HZ_MIN, CARRIER_HZ_MAX},
		{"CarrierLevel", int(cfg.CarrierLevel), int(peripheral.LEVEL_LOW), int(peripheral.LEVEL_HIGH)},
		{"IdleLevel", int(cfg.IdleLevel), int(peripheral.LEVEL_LOW), int(peripheral.LEVEL_HIGH)},
	}

	for _, check := range checks {
		if check.value < check.min || check.value > check.max {
			err = ErrRange{Field: check.field, Value: check.value, Min: check.min, Max: check.max}
			return
		}
	}

	return
}

// Capacity is the number of pulse items that fit in the channel's memory.
func (cfg Config) Capacity() int {
	return cfg.MemBlocks * peripheral.ITEMS_PER_BLOCK
}

func (cfg Config) hardware() peripheral.ChannelConfig {
	hw := peripheral.ChannelConfig{
		Channel:      cfg.Channel,
		Pin:          cfg.Pin,
		MemBlocks:    cfg.MemBlocks,
		ClockDivider: cfg.ClockDivider,
		Loop:         cfg.Loop,
		Carrier:      cfg.Carrier,
		IdleOutput:   cfg.IdleOutput,
		IdleLevel:    cfg.IdleLevel,
	}

	if cfg.Carrier {
		hw.CarrierDutyPercent = cfg.CarrierDutyPercent
		hw.CarrierFrequencyHz = cfg.CarrierFrequencyHz
		hw.CarrierLevel = cfg.CarrierLevel
	}

	return hw
}
