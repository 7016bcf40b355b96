package rmt

import (
	"iter"
	"sync/atomic"

	"github.com/ezrec/rmttx/peripheral"
)

// Registry maps channel indexes to their live Channel.
//
// Lookups are lock free, so the interrupt dispatcher may use them. Only
// the Controller and Channel.Unregister change the table.
type Registry struct {
	slot [peripheral.CHANNEL_COUNT]atomic.Pointer[Channel]
}

// Lookup returns the live channel at index, or nil.
func (reg *Registry) Lookup(index int) *Channel {
	if index < 0 || index >= len(reg.slot) {
		return nil
	}
	return reg.slot[index].Load()
}

// All iterates over the live channels, in index order.
func (reg *Registry) All() iter.Seq2[int, *Channel] {
	return func(yield func(int, *Channel) bool) {
		for index := range reg.slot {
			ch := reg.slot[index].Load()
			if ch == nil {
				continue
			}
			if !yield(index, ch) {
				return
			}
		}
	}
}

// Len is the number of live channels.
func (reg *Registry) Len() (count int) {
	for range reg.All() {
		count++
	}
	return
}

// insert places ch in its slot, returning the previous occupant.
func (reg *Registry) insert(ch *Channel) (old *Channel) {
	return reg.slot[ch.index].Swap(ch)
}

// remove empties the slot of ch, if ch still occupies it.
func (reg *Registry) remove(ch *Channel) bool {
	return reg.slot[ch.index].CompareAndSwap(ch, nil)
}
