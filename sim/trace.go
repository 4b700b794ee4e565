package sim

import (
	"fmt"
	"io"

	"github.com/panyam/qsim/core"
)

// TraceEventKind defines the type of a trace event. The engine itself
// attaches no meaning to kinds; processes declare their own vocabulary.
type TraceEventKind string

// TraceEvent represents a single step in an execution trace.
type TraceEvent struct {
	Kind      TraceEventKind `json:"kind"`
	ID        string         `json:"id"`
	Timestamp core.Duration  `json:"ts"`            // Virtual time in simulation
	Duration  core.Duration  `json:"dur,omitempty"` // Span the step covers (wait, service), when meaningful
	Note      string         `json:"note,omitempty"`
}

// Tracer accumulates the trace of one run in emission order, optionally
// echoing each event to a writer as it arrives. A nil *Tracer is valid
// and records nothing, so emitters never need to guard.
type Tracer struct {
	events []TraceEvent
	echo   io.Writer
}

func NewTracer() *Tracer {
	return &Tracer{}
}

// Echo makes the tracer print every event to w as a
// "t=<ts>: <id> <kind>" line. Returns the tracer for chaining.
func (t *Tracer) Echo(w io.Writer) *Tracer {
	t.echo = w
	return t
}

// Emit appends one event to the trace.
func (t *Tracer) Emit(ev TraceEvent) {
	if t == nil {
		return
	}
	t.events = append(t.events, ev)
	if t.echo != nil {
		if ev.Note != "" {
			fmt.Fprintf(t.echo, "t=%.4Es: %s %s (%s)\n", ev.Timestamp, ev.ID, ev.Kind, ev.Note)
		} else {
			fmt.Fprintf(t.echo, "t=%.4Es: %s %s\n", ev.Timestamp, ev.ID, ev.Kind)
		}
	}
}

// Events returns the recorded trace in emission order.
func (t *Tracer) Events() []TraceEvent {
	if t == nil {
		return nil
	}
	return t.events
}

// Count returns the number of recorded events of the given kind.
func (t *Tracer) Count(kind TraceEventKind) int {
	n := 0
	for _, ev := range t.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
