package drain

import (
	"encoding/json"
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/okra-platform/tagstream/internal/tagstream"
)

// Encoder drains a stream into its output representation.
type Encoder interface {
	Encode(it tagstream.Iterator) ([]byte, error)
	// Format returns the registered format name.
	Format() string
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc struct {
	Name string
	Fn   func(it tagstream.Iterator) ([]byte, error)
}

func (e EncoderFunc) Encode(it tagstream.Iterator) ([]byte, error) { return e.Fn(it) }

func (e EncoderFunc) Format() string { return e.Name }

// Registry manages available output formats
type Registry struct {
	encoders map[string]func() Encoder
}

// NewRegistry creates a registry with the built-in formats: json, yaml,
// protojson, protobuf and trace.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]func() Encoder),
	}
	r.Register("json", func() Encoder { return EncoderFunc{Name: "json", Fn: encodeJSON} })
	r.Register("yaml", func() Encoder { return EncoderFunc{Name: "yaml", Fn: YAML} })
	r.Register("protojson", func() Encoder { return EncoderFunc{Name: "protojson", Fn: encodeProtoJSON} })
	r.Register("protobuf", func() Encoder { return EncoderFunc{Name: "protobuf", Fn: encodeProtobuf} })
	r.Register("trace", func() Encoder { return EncoderFunc{Name: "trace", Fn: encodeTrace} })
	return r
}

// Register adds a new encoder factory to the registry
func (r *Registry) Register(format string, factory func() Encoder) {
	r.encoders[format] = factory
}

// Get returns an encoder for the specified format
func (r *Registry) Get(format string) (Encoder, error) {
	factory, exists := r.encoders[format]
	if !exists {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return factory(), nil
}

// Formats returns the supported formats in sorted order
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.encoders))
	for f := range r.encoders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

func encodeJSON(it tagstream.Iterator) ([]byte, error) {
	tree, err := Tree(it)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}

func encodeProtoJSON(it tagstream.Iterator) ([]byte, error) {
	v, err := Struct(it)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
}

func encodeProtobuf(it tagstream.Iterator) ([]byte, error) {
	v, err := Struct(it)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(v)
}

func encodeTrace(it tagstream.Iterator) ([]byte, error) {
	return []byte(Trace(it, MaxEvents)), nil
}
