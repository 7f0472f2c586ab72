package layout

import (
	"fmt"

	"github.com/okra-platform/tagstream/internal/tagstream"
)

type compiler struct {
	rows   []tagstream.Row
	names  tagstream.NameTable
	nameIx map[string]int
	depth  int
	values int
	arrays int
}

// Compile turns a description into a validated transition table.
//
// Row 0 is the terminal Close. A record root starts at row 1 with its first
// member and its last row flows into row 0. An array root starts with its
// Index row, whose exit is row 0.
func Compile(root Node) (*tagstream.Table, error) {
	c := &compiler{nameIx: make(map[string]int)}
	c.emit(tagstream.Close, tagstream.KindNone)
	c.rows[0].Next = 0

	switch root.Kind {
	case KindRecord:
		if err := c.members(root.Fields, 0); err != nil {
			return nil, err
		}
		c.rows[len(c.rows)-1].Next = 0
	case KindArray:
		index, err := c.array(root, 0)
		if err != nil {
			return nil, err
		}
		c.rows[index].Exit = 0
	default:
		return nil, ErrScalarRoot
	}

	if err := c.resolveSkips(); err != nil {
		return nil, err
	}

	start := 1
	if len(c.rows) == 1 {
		start = 0
	}
	t := &tagstream.Table{
		Rows:   c.rows,
		Names:  c.names,
		Start:  start,
		Depth:  c.depth,
		Values: c.values,
		Arrays: c.arrays,
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("compiled table: %w", err)
	}
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(root Node) *tagstream.Table {
	t, err := Compile(root)
	if err != nil {
		panic(err)
	}
	return t
}

// emit appends a row that flows into the row emitted after it.
func (c *compiler) emit(tag tagstream.Tag, kind tagstream.ValueKind) int {
	idx := len(c.rows)
	c.rows = append(c.rows, tagstream.Row{
		Tag:   tag,
		Next:  idx + 1,
		Kind:  kind,
		Level: tagstream.NoLevel,
		Clear: tagstream.NoLevel,
	})
	return idx
}

func (c *compiler) name(s string) int {
	if idx, ok := c.nameIx[s]; ok {
		return idx
	}
	idx := len(c.names)
	c.names = append(c.names, s)
	c.nameIx[s] = idx
	return idx
}

func (c *compiler) scalar(n Node) error {
	if n.Selector < 0 {
		return fmt.Errorf("scalar %d: %w", n.Selector, ErrNegativeSelector)
	}
	row := c.emit(tagstream.Value, tagstream.KindComputed)
	c.rows[row].Value = n.Selector
	if n.Selector >= c.values {
		c.values = n.Selector + 1
	}
	return nil
}

// members emits Open(name), content, Close for every field.
func (c *compiler) members(fields []Field, level int) error {
	for _, f := range fields {
		if f.Name == "" {
			return ErrEmptyName
		}
		open := c.emit(tagstream.Open, tagstream.KindName)
		c.rows[open].Name = c.name(f.Name)

		switch f.Node.Kind {
		case KindScalar:
			if err := c.scalar(f.Node); err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
		case KindRecord:
			if err := c.members(f.Node.Fields, level); err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
		case KindArray:
			c.rows[open].Level = level
			if _, err := c.array(f.Node, level); err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
		}

		c.emit(tagstream.Close, tagstream.KindNone)
	}
	return nil
}

// array emits the Index row and one element body. The last element row
// loops back to the Index row; the Index row exits to the row emitted next,
// which the caller makes the array's Close.
func (c *compiler) array(n Node, level int) (int, error) {
	if level >= tagstream.MaxDepth {
		return 0, ErrMaxDepth
	}
	if n.Elem == nil {
		return 0, ErrMissingElement
	}
	if n.Selector < 0 {
		return 0, fmt.Errorf("array %d: %w", n.Selector, ErrNegativeSelector)
	}
	if level+1 > c.depth {
		c.depth = level + 1
	}
	if n.Selector >= c.arrays {
		c.arrays = n.Selector + 1
	}

	index := c.emit(tagstream.Index, tagstream.KindNone)
	c.rows[index].Value = n.Selector
	c.rows[index].Level = level

	elem := *n.Elem
	switch elem.Kind {
	case KindScalar:
		if err := c.scalar(elem); err != nil {
			return 0, err
		}
	case KindRecord:
		if err := c.members(elem.Fields, level+1); err != nil {
			return 0, err
		}
	case KindArray:
		open := c.emit(tagstream.Open, tagstream.KindNone)
		c.rows[open].Level = level + 1
		if _, err := c.array(elem, level+1); err != nil {
			return 0, err
		}
		c.emit(tagstream.Close, tagstream.KindNone)
	}

	c.rows[len(c.rows)-1].Next = index
	c.rows[index].Exit = len(c.rows)
	return index, nil
}

// resolveSkips sets every row's skip target to the state reached after the
// Close that ends the scope open while the row is due. Index rows are
// followed through their exit, so the walk visits each row at most once.
// The outermost array exited on the way is the row's Clear level.
func (c *compiler) resolveSkips() error {
	for i := range c.rows {
		target, reset, err := c.scopeExit(i)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		c.rows[i].Skip = target
		c.rows[i].Clear = reset
	}
	return nil
}

func (c *compiler) scopeExit(state int) (int, int, error) {
	depth := 0
	reset := tagstream.NoLevel
	for steps := 0; steps <= 2*len(c.rows); steps++ {
		r := c.rows[state]
		if r.Tag == tagstream.Index {
			if reset == tagstream.NoLevel || r.Level < reset {
				reset = r.Level
			}
			r = c.rows[r.Exit]
		}
		switch r.Tag {
		case tagstream.Open:
			depth++
		case tagstream.Close:
			depth--
		}
		state = r.Next
		if depth < 0 {
			return state, reset, nil
		}
	}
	return 0, tagstream.NoLevel, ErrUnbalanced
}
