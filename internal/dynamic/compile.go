// Package dynamic compiles shapes declared in the GraphQL IDL into cursors
// over decoded JSON or YAML trees.
package dynamic

import (
	"errors"
	"fmt"
	"os"

	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/schema"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

var (
	ErrUnknownType   = errors.New("unknown type")
	ErrRecursiveType = errors.New("recursive type")
	ErrNoRoot        = errors.New("no root type")
)

// ScalarKind is the type a value selector converts its data to.
type ScalarKind uint8

const (
	KindString ScalarKind = iota
	KindID
	KindInt
	KindFloat
	KindBool
	// KindEnum values are strings restricted to the names of an enum.
	KindEnum
)

var builtinScalars = map[string]ScalarKind{
	"String":  KindString,
	"ID":      KindID,
	"Int":     KindInt,
	"Float":   KindFloat,
	"Boolean": KindBool,
}

// KindOf returns the scalar kind of a named field type. Object types and
// unknown names yield KindString; a Plan never routes a value to them.
func KindOf(s *schema.Schema, name string) ScalarKind {
	if kind, ok := builtinScalars[name]; ok {
		return kind
	}
	if _, ok := s.Enum(name); ok {
		return KindEnum
	}
	return KindString
}

// Step is one hop of a Route: the member Field of the enclosing record, or
// the current element of the array at Level when Field is nil.
type Step struct {
	Field *schema.Field
	Level int
}

// Route locates a value or array selector from the root of a shape.
type Route []Step

func (r Route) field(f *schema.Field) Route {
	return append(r[:len(r):len(r)], Step{Field: f, Level: tagstream.NoLevel})
}

func (r Route) index(level int) Route {
	return append(r[:len(r):len(r)], Step{Level: level})
}

// Leaf returns the field that ends the route, nil for an empty route.
func (r Route) Leaf() *schema.Field {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Field != nil {
			return r[i].Field
		}
	}
	return nil
}

// Plan is the layout of a schema shape with the route of every selector.
// Values[n] is read by Scalar(n), Arrays[n] is counted by Array(n, ...).
type Plan struct {
	Name   string
	Node   layout.Node
	Values []Route
	Arrays []Route
}

type compiler struct {
	schema   *schema.Schema
	values   []Route
	arrays   []Route
	visiting map[string]bool
}

// NewPlan walks the object type root. An empty root falls back to the
// @tagstream root of the schema, then to its only shape.
func NewPlan(s *schema.Schema, root string) (*Plan, error) {
	root, err := resolveRoot(s, root)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Type(root); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, root)
	}

	c := &compiler{schema: s, visiting: make(map[string]bool)}
	node, err := c.object(root, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", root, err)
	}
	return &Plan{Name: root, Node: node, Values: c.values, Arrays: c.arrays}, nil
}

// Compile builds the shape of the object type root over decoded JSON or
// YAML trees.
func Compile(s *schema.Schema, root string) (*tagstream.Shape[any], error) {
	plan, err := NewPlan(s, root)
	if err != nil {
		return nil, err
	}
	table, err := layout.Compile(plan.Node)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", plan.Name, err)
	}

	leaves := make([]leaf, len(plan.Values))
	for i, r := range plan.Values {
		elem, _ := r.Leaf().Elem()
		leaves[i] = leaf{at: pathOf(r), kind: KindOf(s, elem)}
	}
	arrays := make([]path, len(plan.Arrays))
	for i, r := range plan.Arrays {
		arrays[i] = pathOf(r)
	}

	return tagstream.NewShape(plan.Name, table,
		func(src *any, sel int, ix tagstream.Indices) value.Value {
			v, ok := leaves[sel].at.resolve(*src, ix)
			if !ok {
				return value.Null()
			}
			return convert(v, leaves[sel].kind)
		},
		func(src *any, sel int, ix tagstream.Indices) int {
			v, _ := arrays[sel].resolve(*src, ix)
			list, _ := v.([]any)
			return len(list)
		})
}

// leaf is the data location and type of one value selector.
type leaf struct {
	at   path
	kind ScalarKind
}

// LoadShape parses the schema file at path and compiles the shape of root.
func LoadShape(path, root string) (*tagstream.Shape[any], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	s, err := schema.ParseSchema(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return Compile(s, root)
}

func resolveRoot(s *schema.Schema, root string) (string, error) {
	if root != "" {
		return root, nil
	}
	if s.Meta.Root != "" {
		return s.Meta.Root, nil
	}
	if shapes := s.Shapes(); len(shapes) == 1 {
		return shapes[0], nil
	}
	return "", ErrNoRoot
}

func (c *compiler) object(name string, at Route, depth int) (layout.Node, error) {
	if c.visiting[name] {
		return layout.Node{}, fmt.Errorf("%w: %s", ErrRecursiveType, name)
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	typ, _ := c.schema.Type(name)
	members := make([]layout.Field, 0, len(typ.Fields))
	for i := range typ.Fields {
		f := &typ.Fields[i]
		elem, lists := f.Elem()
		node, err := c.list(elem, lists, at.field(f), depth)
		if err != nil {
			return layout.Node{}, fmt.Errorf("%s.%s: %w", name, f.Name, err)
		}
		members = append(members, layout.Member(f.Name, node))
	}
	return layout.Record(members...), nil
}

// list wraps the named type in one array per list bracket. Every array
// level adds an index step to the data path of its elements.
func (c *compiler) list(elem string, lists int, at Route, depth int) (layout.Node, error) {
	if lists == 0 {
		return c.named(elem, at, depth)
	}
	if depth >= tagstream.MaxDepth {
		return layout.Node{}, layout.ErrMaxDepth
	}
	sel := len(c.arrays)
	c.arrays = append(c.arrays, at)
	inner, err := c.list(elem, lists-1, at.index(depth), depth+1)
	if err != nil {
		return layout.Node{}, err
	}
	return layout.Array(sel, inner), nil
}

func (c *compiler) named(name string, at Route, depth int) (layout.Node, error) {
	if _, ok := builtinScalars[name]; ok {
		return c.scalar(at), nil
	}
	if _, ok := c.schema.Enum(name); ok {
		return c.scalar(at), nil
	}
	if _, ok := c.schema.Type(name); ok {
		return c.object(name, at, depth)
	}
	return layout.Node{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
}

func (c *compiler) scalar(at Route) layout.Node {
	sel := len(c.values)
	c.values = append(c.values, at)
	return layout.Scalar(sel)
}
