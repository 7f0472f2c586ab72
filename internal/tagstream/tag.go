// Package tagstream implements the table-driven cursor that flattens nested
// records and arrays into a stream of Open, Index, Value and Close events.
//
// A shape is compiled once into an immutable Table (see package layout) and
// paired with a pure Accessor and Counter. Every Cursor of that shape shares
// the table and only carries its state number and one array counter per
// nesting level, so advancing, skipping a whole scope and cloning a cursor
// are all constant-time operations.
package tagstream

import "strconv"

// Tag is the kind of an event in the stream.
type Tag uint8

const (
	// Open starts a scope. Named when it wraps a record member.
	Open Tag = iota
	// Index starts the next element of the enclosing array scope.
	Index
	// Value carries a scalar payload.
	Value
	// Close ends the innermost open scope.
	Close
)

var tagNames = [...]string{
	Open:  "open",
	Index: "index",
	Value: "value",
	Close: "close",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}
