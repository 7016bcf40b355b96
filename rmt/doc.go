// Package rmt drives the transmit channels of a pulse-train peripheral.
//
// A Controller owns the fixed table of live channels (the Registry), the
// interrupt Dispatcher and the deferred event Worker. Channels are created
// from a Config and transmit either one-shot trains (WriteSync, WriteAsync)
// or a continuous stream (WriteRawStart followed by WriteRawFill from the
// threshold event callback).
//
// The Dispatcher runs in interrupt context. It only touches the status
// register and posts fixed size Event tokens to a bounded queue. The Worker
// drains that queue at normal priority and calls each channel's Callback.
package rmt
