package tagstream

import (
	"github.com/okra-platform/tagstream/internal/value"
)

// Iterator is the shape independent view of a cursor that consumers drive.
type Iterator interface {
	// Next returns the due event and advances past it.
	Next() (Tag, value.Value)
	// Skip moves past the rest of the currently open scope.
	Skip()
	// Fork returns an independent iterator at the same position.
	Fork() Iterator
}

// Event is one drained stream element.
type Event struct {
	Tag   Tag
	Value value.Value
}

// Ev builds an Event, mostly for test expectations.
func Ev(tag Tag, v value.Value) Event { return Event{Tag: tag, Value: v} }

func (e Event) String() string {
	if e.Value.IsNull() {
		return e.Tag.String()
	}
	return e.Tag.String() + "(" + e.Value.String() + ")"
}

// Collect drains it until the scope open at its current position closes and
// returns all events including that Close. From a fresh cursor this is the
// whole stream. limit bounds the number of events
// read; a non-positive limit means no bound.
func Collect(it Iterator, limit int) []Event {
	var out []Event
	depth := 0
	for limit <= 0 || len(out) < limit {
		tag, v := it.Next()
		out = append(out, Event{Tag: tag, Value: v})
		switch tag {
		case Open:
			depth++
		case Close:
			depth--
		}
		if depth < 0 {
			break
		}
	}
	return out
}
