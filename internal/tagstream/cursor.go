package tagstream

import "github.com/okra-platform/tagstream/internal/value"

// Cursor walks one source value of a shape. It is a small value type:
// copying it (see Clone) forks the iteration. A Cursor is used by one
// goroutine at a time; independent cursors over the same source need no
// synchronization.
type Cursor[T any] struct {
	shape   *Shape[T]
	src     *T
	state   int
	indices [MaxDepth]int
	release func(*T)
}

// Next returns the due event and advances past it. Once the top-level scope
// is closed every further call returns Close.
func (c *Cursor[T]) Next() (Tag, value.Value) {
	if c.src == nil {
		return Close, value.Null()
	}

	rows := c.shape.table.Rows
	row := &rows[c.state]

	switch row.Tag {
	case Index:
		n := c.indices[row.Level]
		if n >= c.shape.count(c.src, row.Value, Indices{&c.indices}) {
			c.indices[row.Level] = 0
			row = &rows[row.Exit]
		} else {
			c.indices[row.Level] = n + 1
		}
	case Open:
		if row.Level != NoLevel {
			c.indices[row.Level] = 0
		}
	}

	var v value.Value
	switch row.Kind {
	case KindName:
		v = value.String(c.shape.table.Names[row.Name])
	case KindComputed:
		v = c.shape.value(c.src, row.Value, Indices{&c.indices})
	}

	c.state = row.Next
	return row.Tag, v
}

// Skip moves past the remainder of the currently open scope, including its
// Close, without producing events. Counters of the arrays it leaves are
// reset as if their elements had been consumed.
func (c *Cursor[T]) Skip() {
	if c.src == nil {
		return
	}
	row := &c.shape.table.Rows[c.state]
	if row.Clear != NoLevel {
		clear(c.indices[row.Clear:])
	}
	c.state = row.Skip
}

// Clone returns an independent copy positioned at the same event. The copy
// borrows the source even when c owns it.
func (c *Cursor[T]) Clone() Cursor[T] {
	cp := *c
	cp.release = nil
	return cp
}

// Fork is Clone behind the Iterator interface.
func (c *Cursor[T]) Fork() Iterator {
	cp := c.Clone()
	return &cp
}

// State returns the current transition table state.
func (c *Cursor[T]) State() int {
	if c.src == nil {
		return 0
	}
	return c.state
}

// Done reports whether the top-level scope has been closed.
func (c *Cursor[T]) Done() bool {
	return c.src == nil || c.state == 0
}

// Release detaches the cursor from its source and hands an owned source
// back to its release function. The cursor then behaves like a nil cursor.
func (c *Cursor[T]) Release() {
	if c.release != nil && c.src != nil {
		c.release(c.src)
	}
	c.release = nil
	c.src = nil
	c.state = 0
}
