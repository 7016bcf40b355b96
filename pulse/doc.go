// Package pulse decodes flat integer sequences into pulse items.
//
// A pulse item is the native transfer unit of the transmitter: two
// half-pulses, each a duration in ticks and an output level. Callers supply
// items as rows of four integers, {duration0, level0, duration1, level1}.
//
// A half-pulse with a zero duration is the end marker; the transmitter stops
// when it reaches one.
package pulse
