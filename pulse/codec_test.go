package pulse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	train, err := Decode([]int{
		100, 1, 50, 0,
		MAX_DURATION, 0, 0, 1,
	})
	assert.NoError(err)
	assert.Equal(Train{
		{Duration0: 100, Level0: 1, Duration1: 50, Level1: 0},
		{Duration0: MAX_DURATION, Level0: 0, Duration1: 0, Level1: 1},
	}, train)

	train, err = Decode(nil)
	assert.NoError(err)
	assert.Len(train, 0)
}

func TestDecode_Grouping(t *testing.T) {
	assert := assert.New(t)

	for _, size := range []int{1, 2, 3, 5, 7, 9} {
		values := make([]int, size)
		train, err := Decode(values)
		assert.Nil(train, size)
		assert.ErrorIs(err, ErrGrouping, size)
		assert.ErrorIs(err, ErrInvalid, size)
	}
}

func TestDecode_Range(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		values []int
		index  int
		item   int
		value  int
		level  bool
	}){
		{"dur0_neg", []int{-1, 0, 1, 0}, 0, 0, -1, false},
		{"dur1_big", []int{1, 0, MAX_DURATION + 1, 0}, 2, 0, MAX_DURATION + 1, false},
		{"lvl0_two", []int{1, 2, 1, 0}, 1, 0, 2, true},
		{"lvl1_neg", []int{1, 0, 1, 0, 1, 0, 1, -1}, 7, 1, -1, true},
	}

	for _, entry := range table {
		_, err := Decode(entry.values)
		assert.ErrorIs(err, ErrInvalid, entry.name)
		if entry.level {
			var el ErrLevel
			if assert.True(errors.As(err, &el), entry.name) {
				assert.Equal(entry.index, el.Index, entry.name)
				assert.Equal(entry.item, el.Item, entry.name)
				assert.Equal(entry.value, el.Value, entry.name)
			}
		} else {
			var ed ErrDuration
			if assert.True(errors.As(err, &ed), entry.name) {
				assert.Equal(entry.index, ed.Index, entry.name)
				assert.Equal(entry.item, ed.Item, entry.name)
				assert.Equal(entry.value, ed.Value, entry.name)
			}
		}
		assert.Contains(err.Error(), "index", entry.name)
	}
}

func TestItems_Streaming(t *testing.T) {
	assert := assert.New(t)

	values := []int{
		10, 1, 10, 0,
		20, 1, 20, 0,
		30, 5, 30, 0,
		40, 1, 40, 0,
	}

	var got []Item
	var last error
	for it, err := range Items(values) {
		if err != nil {
			last = err
			break
		}
		got = append(got, it)
	}

	assert.Len(got, 2)
	var el ErrLevel
	assert.True(errors.As(last, &el))
	assert.Equal(9, el.Index)
	assert.Equal(2, el.Item)

	// Partial trailing rows are ignored.
	count := 0
	for _, err := range Items([]int{1, 1, 1, 1, 2, 2}) {
		assert.NoError(err)
		count++
	}
	assert.Equal(1, count)
}

func TestTrain_Duration(t *testing.T) {
	assert := assert.New(t)

	train, err := Decode([]int{100, 1, 50, 0, 25, 1, 25, 0})
	assert.NoError(err)
	assert.Equal(200, train.Ticks())
	assert.Equal(2500.0, train.Duration(12.5))
	assert.Equal([]int{100, 1, 50, 0, 25, 1, 25, 0}, train.Values())
}
