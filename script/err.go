package script

import (
	"errors"

	"github.com/ezrec/rmttx/translate"
)

var f = translate.From

var (
	ErrNotCallable = errors.New(f("cb must be callable or None"))
	ErrNotNumber   = errors.New(f("want a number"))
)

// ErrRuntime indicates the script a runtime error occurred in.
type ErrRuntime struct {
	Script string
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("%v: %v", err.Script, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrValue reports an element of a pulse list that is not an integer.
type ErrValue struct {
	Index int
	Err   error
}

func (err ErrValue) Error() string {
	return f("index %d: %v", err.Index, err.Err)
}

func (err ErrValue) Unwrap() error {
	return err.Err
}
