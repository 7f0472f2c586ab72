package drain

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// StructpbBuilder builds a google.protobuf.Value. Integers become numbers,
// so values beyond 2^53 lose precision.
type StructpbBuilder struct {
	stack []pbFrame
	root  *structpb.Value
}

type pbFrame struct {
	fields map[string]*structpb.Value
	list   []*structpb.Value
	key    string
}

// Result returns the built value.
func (b *StructpbBuilder) Result() *structpb.Value { return b.root }

func (b *StructpbBuilder) BeginObject() {
	b.stack = append(b.stack, pbFrame{fields: make(map[string]*structpb.Value)})
}

func (b *StructpbBuilder) BeginArray() {
	b.stack = append(b.stack, pbFrame{list: []*structpb.Value{}})
}

func (b *StructpbBuilder) Key(name string) {
	b.stack[len(b.stack)-1].key = name
}

func (b *StructpbBuilder) Scalar(v value.Value) {
	b.add(scalarValue(v))
}

func (b *StructpbBuilder) End() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.fields != nil {
		b.add(structpb.NewStructValue(&structpb.Struct{Fields: top.fields}))
		return
	}
	b.add(structpb.NewListValue(&structpb.ListValue{Values: top.list}))
}

func (b *StructpbBuilder) add(v *structpb.Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.fields != nil {
		top.fields[top.key] = v
		return
	}
	top.list = append(top.list, v)
}

func scalarValue(v value.Value) *structpb.Value {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return structpb.NewStringValue(s)
	case value.KindBool:
		b, _ := v.AsBool()
		return structpb.NewBoolValue(b)
	case value.KindInt, value.KindUInt, value.KindFloat:
		f, _ := v.Float64()
		return structpb.NewNumberValue(f)
	}
	return structpb.NewNullValue()
}

// Struct drains it into a protobuf Value.
func Struct(it tagstream.Iterator) (*structpb.Value, error) {
	var b StructpbBuilder
	if err := Walk(it, &b); err != nil {
		return nil, err
	}
	return b.Result(), nil
}
