package pulse

import (
	"errors"

	"github.com/ezrec/rmttx/translate"
)

var f = translate.From

var (
	// ErrInvalid is matched by every decoding error.
	ErrInvalid = errors.New(f("invalid pulse data"))

	// ErrGrouping indicates a sequence length that is not a multiple of four.
	ErrGrouping error = errGrouping{}
)

type errGrouping struct{}

func (errGrouping) Error() string {
	return f("number of values is not divisible by four, provide {dur0, lvl0, dur1, lvl1} per pulse item")
}

func (errGrouping) Is(target error) bool {
	return target == ErrInvalid
}

// ErrDuration reports a duration outside of [0, MAX_DURATION].
type ErrDuration struct {
	Index int // Offset of the value in the flat sequence.
	Item  int // Pulse item number.
	Value int
}

func (err ErrDuration) Error() string {
	return f("index %d (item %d): duration must be >= 0 and <= %d, duration was %d", err.Index, err.Item, MAX_DURATION, err.Value)
}

func (err ErrDuration) Is(target error) bool {
	return target == ErrInvalid
}

// ErrLevel reports a level that is neither 0 nor 1.
type ErrLevel struct {
	Index int // Offset of the value in the flat sequence.
	Item  int // Pulse item number.
	Value int
}

func (err ErrLevel) Error() string {
	return f("index %d (item %d): level must be 0 or 1, level was %d", err.Index, err.Item, err.Value)
}

func (err ErrLevel) Is(target error) bool {
	return target == ErrInvalid
}
