package rmt

import (
	"errors"

	"github.com/ezrec/rmttx/translate"
)

var f = translate.From

var (
	// Error classes.
	ErrValidation = errors.New(f("validation error"))
	ErrResource   = errors.New(f("resource error"))

	// Channel errors
	ErrNoCallback      = errors.New(f("raw streaming needs a callback set at creation"))
	ErrDriverInstalled = errors.New(f("raw streaming cannot start while the one-shot driver is installed"))
	ErrUnregistered    = errors.New(f("channel unregistered"))
)

// ValidationError is malformed or out of range caller input. It is always
// detected before the hardware or the channel is touched.
type ValidationError struct {
	Op  string
	Err error
}

func (err *ValidationError) Error() string {
	return f("%v: %v", err.Op, err.Err)
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ResourceError is a failure to acquire or drive the hardware.
type ResourceError struct {
	Op  string
	Err error
}

func (err *ResourceError) Error() string {
	return f("%v: %v", err.Op, err.Err)
}

func (err *ResourceError) Unwrap() error {
	return err.Err
}

func (err *ResourceError) Is(target error) bool {
	return target == ErrResource
}

// ErrRange reports a configuration field outside of its range.
type ErrRange struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (err ErrRange) Error() string {
	return f("%v must be >= %d and <= %d, was %d", err.Field, err.Min, err.Max, err.Value)
}

// ErrCapacity reports a pulse train that does not fit in channel memory.
type ErrCapacity struct {
	Items     int
	MemBlocks int
	Capacity  int
}

func (err ErrCapacity) Error() string {
	return f("%d items is too large for %d memory blocks (capacity %d items)", err.Items, err.MemBlocks, err.Capacity)
}

// ErrCallbackPanic is a recovered panic from an event callback.
type ErrCallbackPanic struct {
	Value any
}

func (err ErrCallbackPanic) Error() string {
	return f("callback panic: %v", err.Value)
}
