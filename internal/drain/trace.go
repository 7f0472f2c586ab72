package drain

import (
	"fmt"
	"strings"

	"github.com/okra-platform/tagstream/internal/tagstream"
)

// TraceWriter renders raw events one per line, indenting the content of
// every open scope. Unlike Walk it accepts any event sequence, so it is the
// tool of choice for looking at malformed streams.
type TraceWriter struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
	linePrefix   string
	numbered     bool
	count        int
}

// NewTraceWriter creates a trace writer with the given indentation string.
// Numbered traces prefix every line with the event position.
func NewTraceWriter(indentString string, numbered bool) *TraceWriter {
	return &TraceWriter{
		indentString: indentString,
		numbered:     numbered,
	}
}

// Event writes one event line.
func (w *TraceWriter) Event(ev tagstream.Event) {
	if ev.Tag == tagstream.Close {
		w.dedent()
	}
	if w.numbered {
		fmt.Fprintf(&w.sb, "%4d ", w.count)
	}
	w.sb.WriteString(w.linePrefix)
	w.sb.WriteString(ev.String())
	w.sb.WriteString("\n")
	w.count++
	if ev.Tag == tagstream.Open {
		w.indent()
	}
}

// Skip writes a marker for a scope left with Skip and dedents.
func (w *TraceWriter) Skip() {
	w.dedent()
	if w.numbered {
		w.sb.WriteString("     ")
	}
	w.sb.WriteString(w.linePrefix)
	w.sb.WriteString("skip\n")
}

// IndentLevel returns the current scope depth relative to the top level
func (w *TraceWriter) IndentLevel() int {
	return w.indentLevel
}

// String returns the trace
func (w *TraceWriter) String() string {
	return w.sb.String()
}

// Bytes returns the trace as a byte slice
func (w *TraceWriter) Bytes() []byte {
	return []byte(w.sb.String())
}

// Reset clears the trace and its indentation
func (w *TraceWriter) Reset() {
	w.sb.Reset()
	w.indentLevel = 0
	w.linePrefix = ""
	w.count = 0
}

func (w *TraceWriter) indent() {
	w.indentLevel++
	w.updatePrefix()
}

func (w *TraceWriter) dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

func (w *TraceWriter) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// Trace renders the stream of it up to and including the final Close.
// limit bounds the number of events; non-positive means no bound.
func Trace(it tagstream.Iterator, limit int) string {
	w := NewTraceWriter("  ", false)
	for _, ev := range tagstream.Collect(it, limit) {
		w.Event(ev)
	}
	return w.String()
}
