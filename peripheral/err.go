package peripheral

import (
	"errors"

	"github.com/ezrec/rmttx/translate"
)

var f = translate.From

var (
	ErrInvalidArg   = errors.New(f("invalid argument"))
	ErrInvalidState = errors.New(f("invalid state"))
)

// ErrChannel reports a failure on a specific channel.
type ErrChannel struct {
	Channel int
	Err     error
}

func (err ErrChannel) Error() string {
	return f("channel %d: %v", err.Channel, err.Err)
}

func (err ErrChannel) Unwrap() error {
	return err.Err
}
