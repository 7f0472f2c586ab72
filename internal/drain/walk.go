// Package drain turns tag streams into host objects. Walk maps the events of
// an Iterator onto a Builder; the builders in this package produce plain Go
// trees, order preserving YAML documents and protobuf Struct values.
package drain

import (
	"errors"
	"fmt"

	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

const (
	// MaxNesting bounds the object and array nesting Walk accepts.
	MaxNesting = 64
	// MaxEvents bounds the number of events Walk reads from one stream.
	MaxEvents = 1 << 22
)

var (
	ErrMalformed = errors.New("malformed tag stream")
	ErrTooDeep   = errors.New("tag stream nests too deep")
	ErrTooLong   = errors.New("tag stream exceeds the event limit")
)

// Builder receives the structure of a drained stream.
type Builder interface {
	BeginObject()
	BeginArray()
	// Key names the next value of the innermost object.
	Key(name string)
	Scalar(v value.Value)
	// End closes the innermost object or array.
	End()
}

// Walk drains it into b. A stream whose top-level scope starts with Index
// becomes an array, any other non-empty stream an object. A stream that
// closes immediately produces a single null scalar.
//
// Nested kinds are decided by peeking on a fork: a member whose first event
// is Index is an array, an unnamed Open inside an array is a nested array,
// and a member that closes immediately is an empty array.
func Walk(it tagstream.Iterator, b Builder) error {
	w := &walker{it: it, b: b}

	tag, _ := w.peek()
	switch tag {
	case tagstream.Close:
		w.next()
		b.Scalar(value.Null())
		return nil
	case tagstream.Index:
		b.BeginArray()
		if err := w.elements(); err != nil {
			return err
		}
		b.End()
		return nil
	case tagstream.Open:
		b.BeginObject()
		if err := w.members(); err != nil {
			return err
		}
		return w.closeScope()
	}
	return fmt.Errorf("%w: stream starts with %s", ErrMalformed, tag)
}

type walker struct {
	it     tagstream.Iterator
	b      Builder
	depth  int
	events int
}

func (w *walker) next() (tagstream.Tag, value.Value) {
	w.events++
	return w.it.Next()
}

func (w *walker) peek() (tagstream.Tag, value.Value) {
	return w.it.Fork().Next()
}

func (w *walker) enter() error {
	w.depth++
	if w.depth > MaxNesting {
		return ErrTooDeep
	}
	return nil
}

// members reads named members until the next event is not a named Open.
// The caller has begun the object; members ends it.
func (w *walker) members() error {
	if err := w.enter(); err != nil {
		return err
	}
	for {
		tag, v := w.peek()
		if tag != tagstream.Open || v.IsNull() {
			break
		}
		if w.events >= MaxEvents {
			return ErrTooLong
		}
		w.next()
		name, ok := v.AsString()
		if !ok {
			return fmt.Errorf("%w: member name %s", ErrMalformed, v)
		}
		w.b.Key(name)
		if err := w.content(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := w.closeScope(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	w.depth--
	w.b.End()
	return nil
}

// content reads the body of a named member, up to but excluding its Close.
func (w *walker) content() error {
	tag, v := w.peek()
	switch tag {
	case tagstream.Value:
		w.next()
		w.b.Scalar(v)
		return nil
	case tagstream.Close:
		w.b.BeginArray()
		w.b.End()
		return nil
	case tagstream.Index:
		w.b.BeginArray()
		if err := w.enter(); err != nil {
			return err
		}
		err := w.arrayBody()
		w.depth--
		w.b.End()
		return err
	case tagstream.Open:
		w.b.BeginObject()
		return w.members()
	}
	return fmt.Errorf("%w: unexpected %s", ErrMalformed, tag)
}

// elements reads (Index, element)* until the array's Close and consumes it.
func (w *walker) elements() error {
	if err := w.enter(); err != nil {
		return err
	}
	if err := w.arrayBody(); err != nil {
		return err
	}
	w.depth--
	return w.closeScope()
}

// arrayBody reads (Index, element)* up to but excluding the array's Close.
func (w *walker) arrayBody() error {
	for {
		tag, _ := w.peek()
		switch tag {
		case tagstream.Close:
			return nil
		case tagstream.Index:
			if w.events >= MaxEvents {
				return ErrTooLong
			}
			w.next()
			if err := w.element(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s between array elements", ErrMalformed, tag)
		}
	}
}

func (w *walker) element() error {
	tag, v := w.peek()
	switch tag {
	case tagstream.Value:
		w.next()
		w.b.Scalar(v)
		return nil
	case tagstream.Open:
		if v.IsNull() {
			w.next()
			w.b.BeginArray()
			return w.elementsEnd()
		}
		w.b.BeginObject()
		return w.members()
	case tagstream.Index, tagstream.Close:
		// An element without content.
		w.b.Scalar(value.Null())
		return nil
	}
	return fmt.Errorf("%w: unexpected %s", ErrMalformed, tag)
}

// elementsEnd reads a nested array wrapped in an unnamed Open and ends it.
func (w *walker) elementsEnd() error {
	if err := w.elements(); err != nil {
		return err
	}
	w.b.End()
	return nil
}

func (w *walker) closeScope() error {
	tag, v := w.next()
	if tag != tagstream.Close {
		return fmt.Errorf("%w: expected close, got %s", ErrMalformed, tagstream.Ev(tag, v))
	}
	return nil
}
