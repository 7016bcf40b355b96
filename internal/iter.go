// Package internal holds helpers shared between the rmttx packages.
package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// Defines renders a table of integer constants as the name/value pairs
// handed to script environments.
func Defines[T ~int | ~uint32](table map[string]T) iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for name, value := range table {
			if !yield(name, int(value)) {
				return
			}
		}
	}
}
