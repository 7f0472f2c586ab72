// Package layout describes record and array shapes declaratively and
// compiles them into tagstream transition tables.
//
// A description only fixes structure and selectors. Selector numbers are
// chosen by the author of the matching accessor: Scalar(n) makes the engine
// call Accessor(src, n, ix), Array(n, ...) makes it call Counter(src, n, ix).
package layout

import "errors"

// NodeKind enumerates node kinds.
type NodeKind uint8

const (
	KindScalar NodeKind = iota
	KindRecord
	KindArray
)

func (k NodeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	}
	return "unknown"
}

var (
	ErrScalarRoot       = errors.New("root must be a record or an array")
	ErrEmptyName        = errors.New("record member needs a name")
	ErrMissingElement   = errors.New("array needs an element node")
	ErrMaxDepth         = errors.New("array nesting exceeds the maximum depth")
	ErrNegativeSelector = errors.New("selector must not be negative")
	ErrUnbalanced       = errors.New("compiled rows do not close their scopes")
)

// Node is one level of a shape description.
type Node struct {
	Kind NodeKind
	// Selector is the accessor selector of a scalar or the counter selector
	// of an array.
	Selector int
	Fields   []Field
	Elem     *Node
}

// Field is a named record member.
type Field struct {
	Name string
	Node Node
}

// Scalar describes a value read through accessor selector sel.
func Scalar(sel int) Node {
	return Node{Kind: KindScalar, Selector: sel}
}

// Record describes an ordered set of named members.
func Record(fields ...Field) Node {
	return Node{Kind: KindRecord, Fields: fields}
}

// Array describes a sequence whose length is read through counter
// selector sel.
func Array(sel int, elem Node) Node {
	return Node{Kind: KindArray, Selector: sel, Elem: &elem}
}

// Member names a node inside a record.
func Member(name string, n Node) Field {
	return Field{Name: name, Node: n}
}
