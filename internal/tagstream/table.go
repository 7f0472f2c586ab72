package tagstream

import (
	"fmt"
)

// MaxDepth bounds the number of nested arrays a shape may have.
const MaxDepth = 8

// NoLevel marks rows that neither advance nor reset an array counter.
const NoLevel = -1

// ValueKind selects the payload a row emits.
type ValueKind uint8

const (
	// KindNone emits no payload.
	KindNone ValueKind = iota
	// KindName emits Names[Row.Name].
	KindName
	// KindComputed emits Accessor(source, Row.Value, indices).
	KindComputed
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindName:
		return "name"
	case KindComputed:
		return "computed"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Row is one state of a transition table.
type Row struct {
	Tag Tag
	// Next is the state after this row's event is consumed.
	Next int
	// Skip is the state reached by consuming the rest of the scope that is
	// open while this row is due, including its Close.
	Skip int
	// Exit is the Close row an Index row continues with once its array is
	// exhausted. Unused on other rows.
	Exit int
	Kind ValueKind
	// Name indexes the name table when Kind is KindName.
	Name int
	// Value is the accessor selector for KindComputed rows and the array
	// selector passed to the Counter for Index rows.
	Value int
	// Level is the counter an Index row advances, or the counter an array
	// opening Open row resets. NoLevel otherwise.
	Level int
	// Clear is the outermost counter Skip resets, since the skipped rest of
	// the scope exhausts that array. NoLevel when Skip leaves no array.
	Clear int
}

// NameTable is the ordered list of member names of a shape.
type NameTable []string

// Name returns the name stored at idx.
func (n NameTable) Name(idx int) string { return n[idx] }

// Table is the compiled, immutable automaton of one shape.
type Table struct {
	Rows  []Row
	Names NameTable
	// Start is the initial state of a cursor with a source.
	Start int
	// Depth is the number of array levels the shape nests.
	Depth int
	// Values is the number of accessor selectors the table references.
	Values int
	// Arrays is the number of counter selectors the table references.
	Arrays int
}

// Validate checks the structural integrity of the table. It does not
// replay the automaton; behavioural properties are covered by package
// conformance.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return ErrEmptyTable
	}
	if r := t.Rows[0]; r.Tag != Close || r.Next != 0 || r.Skip != 0 {
		return ErrTerminalRow
	}
	if t.Start < 0 || t.Start >= len(t.Rows) {
		return fmt.Errorf("start %d: %w", t.Start, ErrStateRange)
	}
	if t.Depth < 0 || t.Depth > MaxDepth {
		return fmt.Errorf("depth %d: %w", t.Depth, ErrLevelRange)
	}

	for i, r := range t.Rows {
		if err := t.validateRow(r); err != nil {
			return fmt.Errorf("row %d (%s): %w", i, r.Tag, err)
		}
	}
	return nil
}

func (t *Table) validateRow(r Row) error {
	n := len(t.Rows)
	if r.Next < 0 || r.Next >= n {
		return fmt.Errorf("next %d: %w", r.Next, ErrStateRange)
	}
	if r.Skip < 0 || r.Skip >= n {
		return fmt.Errorf("skip %d: %w", r.Skip, ErrStateRange)
	}
	if r.Level != NoLevel && (r.Level < 0 || r.Level >= t.Depth) {
		return fmt.Errorf("level %d: %w", r.Level, ErrLevelRange)
	}
	if r.Clear != NoLevel && (r.Clear < 0 || r.Clear >= t.Depth) {
		return fmt.Errorf("clear %d: %w", r.Clear, ErrLevelRange)
	}

	switch r.Kind {
	case KindName:
		if r.Tag != Open {
			return ErrKindMismatch
		}
		if r.Name < 0 || r.Name >= len(t.Names) {
			return fmt.Errorf("name %d: %w", r.Name, ErrNameRange)
		}
	case KindComputed:
		if r.Tag != Value {
			return ErrKindMismatch
		}
		if r.Value < 0 || r.Value >= t.Values {
			return fmt.Errorf("value %d: %w", r.Value, ErrValueRange)
		}
	case KindNone:
		if r.Tag == Value {
			return ErrKindMismatch
		}
	default:
		return ErrKindMismatch
	}

	if r.Tag == Index {
		if r.Level == NoLevel {
			return fmt.Errorf("index without counter: %w", ErrLevelRange)
		}
		if r.Exit < 0 || r.Exit >= n {
			return fmt.Errorf("exit %d: %w", r.Exit, ErrStateRange)
		}
		if t.Rows[r.Exit].Tag != Close {
			return fmt.Errorf("exit %d is not a close: %w", r.Exit, ErrStateRange)
		}
		if r.Value < 0 || r.Value >= t.Arrays {
			return fmt.Errorf("array %d: %w", r.Value, ErrValueRange)
		}
	}
	return nil
}
