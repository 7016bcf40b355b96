package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_Word(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		item Item
		word uint32
	}){
		{Item{}, 0},
		{Item{Duration0: 1}, 0x0000_0001},
		{Item{Level0: 1}, 0x0000_8000},
		{Item{Duration1: 1}, 0x0001_0000},
		{Item{Level1: 1}, 0x8000_0000},
		{Item{MAX_DURATION, 1, MAX_DURATION, 1}, 0xffff_ffff},
		{Item{Duration0: 32767, Level0: 1, Duration1: 15000}, 0x3a98_ffff},
	}

	for _, entry := range table {
		assert.Equal(entry.word, entry.item.Word(), entry.item.String())
		assert.Equal(entry.item, FromWord(entry.word), entry.item.String())
	}
}

func TestItem_End(t *testing.T) {
	assert := assert.New(t)

	assert.True(Item{}.End())
	assert.True(Item{Duration0: 5}.End())
	assert.True(Item{Duration1: 5}.End())
	assert.False(Item{Duration0: 5, Duration1: 5}.End())
}
