package pipeline

import "fmt"

// Signal is an out-of-band control event.
type Signal int

const (
	// EndOfStream follows the last row of the input.
	EndOfStream Signal = iota
	// Cancel aborts the execution; sinks close what they opened.
	Cancel
	// Stop asks nodes to stop producing.
	Stop
)

// Signals returns every defined signal.
func Signals() []Signal {
	return []Signal{EndOfStream, Cancel, Stop}
}

func (s Signal) String() string {
	switch s {
	case EndOfStream:
		return "END_OF_STREAM"
	case Cancel:
		return "CANCEL"
	case Stop:
		return "STOP"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// terminates reports whether the signal ends the stream.
func (s Signal) terminates() bool {
	return s == EndOfStream || s == Cancel
}
