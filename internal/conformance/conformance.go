// Package conformance replays cursors to verify the stream properties every
// transition table must satisfy: a single well-formed bracket sequence,
// skip equivalence, clone independence and null safety.
//
// The checks are exhaustive over every position reached by a sample source,
// so they are meant for tests and the check command, not the hot path.
package conformance

import (
	"fmt"

	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// DefaultLimit bounds the number of events read from one stream.
const DefaultLimit = 1 << 16

// tailChecks is how many extra calls verify that a drained stream stays closed.
const tailChecks = 3

// Property names a checked stream property.
type Property string

const (
	WellFormed        Property = "well-formed"
	Termination       Property = "termination"
	SkipEquivalence   Property = "skip-equivalence"
	CloneIndependence Property = "clone-independence"
	NullSafety        Property = "null-safety"
)

// Violation describes a failed property.
type Violation struct {
	Shape    string
	Property Property
	// Step is the number of events consumed before the failing operation.
	Step    int
	Message string
}

// Error implements the error interface
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s at step %d: %s", v.Shape, v.Property, v.Step, v.Message)
}

// Drain reads it until the implicit top-level scope closes and checks the
// bracket balance along the way.
func Drain(shape string, it tagstream.Iterator, limit int) ([]tagstream.Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []tagstream.Event
	depth := 0
	for len(out) < limit {
		tag, v := it.Next()
		ev := tagstream.Event{Tag: tag, Value: v}
		out = append(out, ev)

		switch tag {
		case tagstream.Open:
			depth++
		case tagstream.Close:
			if !v.IsNull() {
				return out, violation(shape, WellFormed, len(out)-1, "close carries payload %s", v)
			}
			depth--
		case tagstream.Index:
			if !v.IsNull() {
				return out, violation(shape, WellFormed, len(out)-1, "index carries payload %s", v)
			}
		}
		if depth < 0 {
			return out, nil
		}
	}
	return out, violation(shape, Termination, len(out), "no final close within %d events", limit)
}

// Check verifies well-formedness, skip equivalence and clone independence
// for every position of the stream produced by newIter.
func Check(shape string, newIter func() tagstream.Iterator) error {
	events, err := Drain(shape, newIter(), DefaultLimit)
	if err != nil {
		return err
	}
	last := len(events) - 1

	main := newIter()
	for step := range events {
		if err := checkSkip(shape, main.Fork(), events, step); err != nil {
			return err
		}
		if err := checkFork(shape, main.Fork(), events, step); err != nil {
			return err
		}

		tag, v := main.Next()
		if !equal(events[step], tag, v) {
			return violation(shape, CloneIndependence, step,
				"original yields %s after forks were advanced, want %s", tagstream.Ev(tag, v), events[step])
		}
	}

	return checkTail(shape, main, last+1, WellFormed)
}

// CheckNull verifies that it behaves like a cursor without a source.
func CheckNull(shape string, it tagstream.Iterator) error {
	for step := 0; step < tailChecks; step++ {
		it.Skip()
		tag, v := it.Next()
		if tag != tagstream.Close || !v.IsNull() {
			return violation(shape, NullSafety, step, "got %s, want close", tagstream.Ev(tag, v))
		}
	}
	return nil
}

// checkSkip compares the stream after Skip at step with the recorded stream
// after the Close that ends the scope open at step.
func checkSkip(shape string, it tagstream.Iterator, events []tagstream.Event, step int) error {
	end := scopeEnd(events, step)
	it.Skip()
	for i := end + 1; i < len(events); i++ {
		tag, v := it.Next()
		if !equal(events[i], tag, v) {
			return violation(shape, SkipEquivalence, step,
				"after skip event %d is %s, want %s", i, tagstream.Ev(tag, v), events[i])
		}
	}
	return checkTail(shape, it, step, SkipEquivalence)
}

// checkFork drains a fork taken at step and compares it with the recording.
func checkFork(shape string, it tagstream.Iterator, events []tagstream.Event, step int) error {
	for i := step; i < len(events); i++ {
		tag, v := it.Next()
		if !equal(events[i], tag, v) {
			return violation(shape, CloneIndependence, step,
				"fork event %d is %s, want %s", i, tagstream.Ev(tag, v), events[i])
		}
	}
	return checkTail(shape, it, step, CloneIndependence)
}

func checkTail(shape string, it tagstream.Iterator, step int, p Property) error {
	for i := 0; i < tailChecks; i++ {
		tag, v := it.Next()
		if tag != tagstream.Close || !v.IsNull() {
			return violation(shape, p, step, "drained stream yields %s, want close", tagstream.Ev(tag, v))
		}
	}
	return nil
}

// scopeEnd returns the index of the Close that ends the scope open before
// events[from] is consumed.
func scopeEnd(events []tagstream.Event, from int) int {
	depth := 0
	for i := from; i < len(events); i++ {
		switch events[i].Tag {
		case tagstream.Open:
			depth++
		case tagstream.Close:
			depth--
			if depth < 0 {
				return i
			}
		}
	}
	return len(events) - 1
}

// CountIndex counts the Index events that occur directly inside the scope
// at the given depth, where 0 is the implicit top-level scope.
func CountIndex(events []tagstream.Event, depth int) int {
	n := 0
	d := 0
	for _, ev := range events {
		switch ev.Tag {
		case tagstream.Open:
			d++
		case tagstream.Close:
			d--
		case tagstream.Index:
			if d == depth {
				n++
			}
		}
	}
	return n
}

func equal(want tagstream.Event, tag tagstream.Tag, v value.Value) bool {
	return want.Tag == tag && want.Value.Equal(v)
}

func violation(shape string, p Property, step int, format string, args ...any) *Violation {
	return &Violation{
		Shape:    shape,
		Property: p,
		Step:     step,
		Message:  fmt.Sprintf(format, args...),
	}
}
