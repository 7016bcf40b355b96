// Package peripheral describes the pulse transmitter hardware to the rest of
// rmttx.
//
// The transmitter has eight channels sharing a 512 item pulse memory, carved
// into eight blocks of 64 items. Channel n owns the blocks starting at block
// n. All channels share one 32-bit interrupt status register: bits 0-23 hold
// three flags per channel (tx end, rx end, error) and bits 24-31 hold one
// threshold flag per channel.
//
// Peripheral is the capability interface the driver is written against. Sim
// implements it in software, register by register, for hosts and tests.
package peripheral
