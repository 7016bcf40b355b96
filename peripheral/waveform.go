package peripheral

import (
	"fmt"
	"strings"
)

// Segment is a run of constant output level.
type Segment struct {
	Level Level
	Ticks int
}

// Waveform is the captured output of a channel.
type Waveform struct {
	Items    int       // Pulse items consumed by the transmitter.
	Segments []Segment // Output, with adjacent equal levels merged.
}

func (wave *Waveform) add(level Level, ticks int) {
	if n := len(wave.Segments); n > 0 && wave.Segments[n-1].Level == level {
		wave.Segments[n-1].Ticks += ticks
		return
	}
	wave.Segments = append(wave.Segments, Segment{Level: level, Ticks: ticks})
}

// Ticks is the total length of the waveform.
func (wave Waveform) Ticks() (ticks int) {
	for _, seg := range wave.Segments {
		ticks += seg.Ticks
	}
	return
}

// String renders the waveform as level:ticks pairs, for example "H100 L50".
func (wave Waveform) String() string {
	var sb strings.Builder
	for n, seg := range wave.Segments {
		if n > 0 {
			sb.WriteByte(' ')
		}
		if seg.Level == LEVEL_HIGH {
			sb.WriteByte('H')
		} else {
			sb.WriteByte('L')
		}
		fmt.Fprintf(&sb, "%d", seg.Ticks)
	}
	return sb.String()
}
