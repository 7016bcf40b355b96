package peripheral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBit(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		bit     int
		channel int
		code    IntrCode
	}){
		{0, 0, INTR_TX_END},
		{1, 0, INTR_RX_END},
		{2, 0, INTR_ERR},
		{3, 1, INTR_TX_END},
		{22, 7, INTR_RX_END},
		{23, 7, INTR_ERR},
		{24, 0, INTR_THRESHOLD},
		{31, 7, INTR_THRESHOLD},
	}

	for _, entry := range table {
		channel, code := DecodeBit(entry.bit)
		assert.Equal(entry.channel, channel, entry.bit)
		assert.Equal(entry.code, code, entry.bit)
		assert.Equal(uint32(1)<<entry.bit, IntrMask(channel, code), entry.bit)
	}
}

func TestChannelMask(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x0100_0007), ChannelMask(0))
	assert.Equal(uint32(0x8000_0000|0x7<<21), ChannelMask(7))

	var all uint32
	for ch := range CHANNEL_COUNT {
		assert.Zero(all&ChannelMask(ch), ch)
		all |= ChannelMask(ch)
	}
	assert.Equal(^uint32(0), all)
}

func TestIntrCode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("tx-end", INTR_TX_END.String())
	assert.Equal("threshold", INTR_THRESHOLD.String())
	assert.Equal("IntrCode(9)", IntrCode(9).String())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]int{}
	for name, value := range Defines() {
		defines[name] = value
	}
	assert.Equal(64, defines["ITEMS_PER_BLOCK"])
	assert.Equal(8, defines["CHANNEL_COUNT"])
}
