package drain

import (
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// TreeBuilder builds map[string]any, []any and scalar Go values, the shape
// encoding/json produces when decoding into any.
type TreeBuilder struct {
	stack []treeFrame
	root  any
}

type treeFrame struct {
	obj map[string]any
	arr []any
	key string
}

// Result returns the built value.
func (b *TreeBuilder) Result() any { return b.root }

func (b *TreeBuilder) BeginObject() {
	b.stack = append(b.stack, treeFrame{obj: make(map[string]any)})
}

func (b *TreeBuilder) BeginArray() {
	b.stack = append(b.stack, treeFrame{arr: []any{}})
}

func (b *TreeBuilder) Key(name string) {
	b.stack[len(b.stack)-1].key = name
}

func (b *TreeBuilder) Scalar(v value.Value) {
	b.add(v.Any())
}

func (b *TreeBuilder) End() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.obj != nil {
		b.add(top.obj)
		return
	}
	b.add(top.arr)
}

func (b *TreeBuilder) add(v any) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.obj != nil {
		top.obj[top.key] = v
		return
	}
	top.arr = append(top.arr, v)
}

// Tree drains it into a TreeBuilder.
func Tree(it tagstream.Iterator) (any, error) {
	var b TreeBuilder
	if err := Walk(it, &b); err != nil {
		return nil, err
	}
	return b.Result(), nil
}
