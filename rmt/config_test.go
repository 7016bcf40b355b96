package rmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rmttx/peripheral"
)

func TestConfig_Validate(t *testing.T) {
	assert := assert.New(t)

	for index := range peripheral.CHANNEL_COUNT {
		assert.NoError(DefaultConfig(index).Validate())
	}

	table := [](struct {
		field  string
		modify func(cfg *Config)
	}){
		{"Channel", func(cfg *Config) { cfg.Channel = 8 }},
		{"Channel", func(cfg *Config) { cfg.Channel = -1 }},
		{"Pin", func(cfg *Config) { cfg.Pin = 40 }},
		{"MemBlocks", func(cfg *Config) { cfg.MemBlocks = 0 }},
		{"MemBlocks", func(cfg *Config) { cfg.MemBlocks = 9 }},
		{"ClockDivider", func(cfg *Config) { cfg.ClockDivider = 0 }},
		{"ClockDivider", func(cfg *Config) { cfg.ClockDivider = 256 }},
		{"CarrierDutyPercent", func(cfg *Config) { cfg.CarrierDutyPercent = 101 }},
		{"CarrierFrequencyHz", func(cfg *Config) { cfg.CarrierFrequencyHz = 610 }},
		{"CarrierFrequencyHz", func(cfg *Config) { cfg.CarrierFrequencyHz = 1_000_001 }},
		{"CarrierLevel", func(cfg *Config) { cfg.CarrierLevel = 2 }},
		{"IdleLevel", func(cfg *Config) { cfg.IdleLevel = 2 }},
	}

	for _, entry := range table {
		cfg := DefaultConfig(0)
		entry.modify(&cfg)
		err := cfg.Validate()
		var er ErrRange
		if assert.True(errors.As(err, &er), entry.field) {
			assert.Equal(entry.field, er.Field)
		}
	}
}

func TestConfig_Hardware(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig(3)
	cfg.Pin = 18
	cfg.MemBlocks = 2
	cfg.ClockDivider = 80
	cfg.IdleOutput = true
	cfg.IdleLevel = peripheral.LEVEL_HIGH
	cfg.CarrierFrequencyHz = 38_000

	hw := cfg.hardware()
	assert.Equal(3, hw.Channel)
	assert.Equal(18, hw.Pin)
	assert.Equal(128, hw.Capacity())
	assert.Equal(128, cfg.Capacity())
	assert.True(hw.IdleOutput)
	assert.Equal(peripheral.LEVEL_HIGH, hw.IdleLevel)

	// Carrier settings only pass through with the carrier enabled.
	assert.Zero(hw.CarrierFrequencyHz)
	cfg.Carrier = true
	hw = cfg.hardware()
	assert.Equal(38_000, hw.CarrierFrequencyHz)
	assert.Equal(DEFAULT_DUTY, hw.CarrierDutyPercent)
}
