package sim

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestTracerRecordsInOrder(t *testing.T) {
	tr := NewTracer()
	tr.Emit(TraceEvent{Kind: "arrive", ID: "Customer-0", Timestamp: 0})
	tr.Emit(TraceEvent{Kind: "grant", ID: "Customer-0", Timestamp: 0})
	tr.Emit(TraceEvent{Kind: "arrive", ID: "Customer-1", Timestamp: 0.5})

	events := tr.Events()
	assert.Equal(t, len(events), 3)
	assert.Equal(t, events[0].ID, "Customer-0")
	assert.Equal(t, events[2].Timestamp, 0.5)
	assert.Equal(t, tr.Count("arrive"), 2)
	assert.Equal(t, tr.Count("depart"), 0)
}

func TestTracerNilIsSilent(t *testing.T) {
	var tr *Tracer
	tr.Emit(TraceEvent{Kind: "arrive", ID: "Customer-0"})
	assert.Assert(t, tr.Events() == nil)
	assert.Equal(t, tr.Count("arrive"), 0)
}

func TestTracerEcho(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer().Echo(&buf)
	tr.Emit(TraceEvent{Kind: "drop", ID: "Customer-7", Timestamp: 1.25, Note: "occupancy 11"})
	tr.Emit(TraceEvent{Kind: "depart", ID: "Customer-6", Timestamp: 1.5})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Assert(t, strings.Contains(lines[0], "Customer-7 drop (occupancy 11)"), "got %q", lines[0])
	assert.Assert(t, strings.HasPrefix(lines[0], "t=1.2500E+00s:"), "got %q", lines[0])
	assert.Assert(t, strings.Contains(lines[1], "Customer-6 depart"), "got %q", lines[1])
}
