package pulse

import (
	"iter"
)

// Decode parses rows of {duration0, level0, duration1, level1} into a train.
// The whole sequence is validated before anything is returned.
func Decode(values []int) (train Train, err error) {
	if len(values)%VALUES != 0 {
		err = ErrGrouping
		return
	}

	decoded := make(Train, 0, len(values)/VALUES)
	for it, err := range Items(values) {
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, it)
	}

	train = decoded
	return
}

// Items decodes one item at a time. A trailing partial row is ignored.
// Iteration stops after the first error.
func Items(values []int) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for n := range len(values) / VALUES {
			it, err := At(values, n)
			if !yield(it, err) || err != nil {
				return
			}
		}
	}
}

// At decodes item n of the sequence.
func At(values []int, item int) (it Item, err error) {
	index := item * VALUES
	row := values[index : index+VALUES]

	for n, val := range row {
		switch n {
		case 0, 2:
			if val < 0 || val > MAX_DURATION {
				err = ErrDuration{Index: index + n, Item: item, Value: val}
				return
			}
		case 1, 3:
			if val != 0 && val != 1 {
				err = ErrLevel{Index: index + n, Item: item, Value: val}
				return
			}
		}
	}

	it = Item{
		Duration0: uint16(row[0]),
		Level0:    uint8(row[1]),
		Duration1: uint16(row[2]),
		Level1:    uint8(row[3]),
	}

	return
}

// Values flattens a train back into rows of four integers.
func (train Train) Values() (values []int) {
	values = make([]int, 0, len(train)*VALUES)
	for _, it := range train {
		values = append(values, int(it.Duration0), int(it.Level0), int(it.Duration1), int(it.Level1))
	}
	return
}
