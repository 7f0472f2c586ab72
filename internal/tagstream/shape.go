package tagstream

import (
	"fmt"

	"github.com/okra-platform/tagstream/internal/value"
)

// Indices exposes the array positions of a cursor to accessors.
type Indices struct {
	counters *[MaxDepth]int
}

// At returns the 0-based position of the element currently entered at the
// given array level. Level 0 is the outermost array. Outside that array the
// result is -1.
func (ix Indices) At(level int) int {
	return ix.counters[level] - 1
}

// Accessor maps a value selector to the scalar it denotes in src. It must
// not modify src and must be safe to call from independent cursors at once.
type Accessor[T any] func(src *T, valueIndex int, ix Indices) value.Value

// Counter returns the length of the array selected by arrayIndex in src,
// resolving enclosing arrays through ix.
type Counter[T any] func(src *T, arrayIndex int, ix Indices) int

// Shape binds a compiled table to the accessors of one source type.
type Shape[T any] struct {
	name  string
	table *Table
	value Accessor[T]
	count Counter[T]
}

// NewShape validates the table and binds it to the accessors.
func NewShape[T any](name string, table *Table, value Accessor[T], count Counter[T]) (*Shape[T], error) {
	if table == nil {
		return nil, fmt.Errorf("shape %s: %w", name, ErrEmptyTable)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("shape %s: %w", name, err)
	}
	if table.Values > 0 && value == nil {
		return nil, fmt.Errorf("shape %s: %w", name, ErrMissingAccessor)
	}
	if table.Arrays > 0 && count == nil {
		return nil, fmt.Errorf("shape %s: %w", name, ErrMissingCounter)
	}

	return &Shape[T]{
		name:  name,
		table: table,
		value: value,
		count: count,
	}, nil
}

// MustShape is like NewShape but panics on error. It is meant for package
// level shape declarations.
func MustShape[T any](name string, table *Table, value Accessor[T], count Counter[T]) *Shape[T] {
	s, err := NewShape(name, table, value, count)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the shape name.
func (s *Shape[T]) Name() string { return s.name }

// Table returns the compiled table of the shape.
func (s *Shape[T]) Table() *Table { return s.table }

// Borrow returns a cursor over src. The caller keeps src alive and
// unchanged while the cursor is in use. A nil src yields a cursor that only
// ever emits Close.
func (s *Shape[T]) Borrow(src *T) Cursor[T] {
	c := Cursor[T]{shape: s, src: src}
	if src != nil {
		c.state = s.table.Start
	}
	return c
}

// Own returns a cursor that takes over src. release is called once when
// the cursor is released.
func (s *Shape[T]) Own(src *T, release func(*T)) Cursor[T] {
	c := s.Borrow(src)
	if src != nil {
		c.release = release
	}
	return c
}

// Iterator returns a borrowing cursor over src as an Iterator.
func (s *Shape[T]) Iterator(src *T) Iterator {
	c := s.Borrow(src)
	return &c
}
