package drain

import (
	"github.com/goccy/go-yaml"

	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// YAMLBuilder builds a document of yaml.MapSlice objects that keep member
// order, []any arrays and scalars.
type YAMLBuilder struct {
	stack []yamlFrame
	root  any
}

type yamlFrame struct {
	object bool
	items  yaml.MapSlice
	arr    []any
	key    string
}

// Result returns the built document.
func (b *YAMLBuilder) Result() any { return b.root }

func (b *YAMLBuilder) BeginObject() {
	b.stack = append(b.stack, yamlFrame{object: true, items: yaml.MapSlice{}})
}

func (b *YAMLBuilder) BeginArray() {
	b.stack = append(b.stack, yamlFrame{arr: []any{}})
}

func (b *YAMLBuilder) Key(name string) {
	b.stack[len(b.stack)-1].key = name
}

func (b *YAMLBuilder) Scalar(v value.Value) {
	b.add(v.Any())
}

func (b *YAMLBuilder) End() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.object {
		b.add(top.items)
		return
	}
	b.add(top.arr)
}

func (b *YAMLBuilder) add(v any) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.object {
		top.items = append(top.items, yaml.MapItem{Key: top.key, Value: v})
		return
	}
	top.arr = append(top.arr, v)
}

// YAML drains it and encodes the result as a YAML document.
func YAML(it tagstream.Iterator) ([]byte, error) {
	var b YAMLBuilder
	if err := Walk(it, &b); err != nil {
		return nil, err
	}
	return yaml.Marshal(b.Result())
}
