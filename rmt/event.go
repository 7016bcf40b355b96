package rmt

// Kind is the type of a channel event.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	EVENT_COMPLETE  = Kind(1) // complete
	EVENT_THRESHOLD = Kind(2) // threshold
	EVENT_ERROR     = Kind(3) // error
)

// Event is the token passed from the interrupt dispatcher to the worker.
type Event struct {
	Channel int  // Channel index.
	Kind    Kind // What happened.
	Count   int  // Threshold count of EVENT_THRESHOLD, otherwise zero.

	generation uint32 // Channel instance the event was raised for.
}

// Threshold returns the threshold count carried by a threshold event.
func (ev Event) Threshold() (count int, ok bool) {
	if ev.Kind != EVENT_THRESHOLD {
		return
	}
	return ev.Count, true
}

// Callback receives a channel's events on the worker. A returned error is
// logged.
type Callback func(ev Event) error
