package shapes

import (
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// record builds the shape of a flat record. get reads the scalar of a
// selector relative to the record's own selector range.
func record[T any](name string, node layout.Node, get func(src *T, sel int) value.Value) *tagstream.Shape[T] {
	return tagstream.MustShape(name, layout.MustCompile(node),
		func(src *T, sel int, _ tagstream.Indices) value.Value {
			return get(src, sel)
		}, nil)
}

// array builds the shape of a slice of flat records or scalars.
func array[T any](name string, elem layout.Node, get func(src *T, sel int) value.Value) *tagstream.Shape[[]T] {
	return tagstream.MustShape(name, layout.MustCompile(layout.Array(0, elem)),
		func(src *[]T, sel int, ix tagstream.Indices) value.Value {
			return get(&(*src)[ix.At(0)], sel)
		},
		func(src *[]T, _ int, _ tagstream.Indices) int {
			return len(*src)
		})
}

// fields builds a record node whose members read consecutive selectors
// starting at base.
func fields(base int, names ...string) layout.Node {
	members := make([]layout.Field, len(names))
	for i, name := range names {
		members[i] = layout.Member(name, layout.Scalar(base+i))
	}
	return layout.Record(members...)
}
