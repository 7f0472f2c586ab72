// Package protobuf generates proto3 messages whose JSON mapping matches the
// documents drained from a schema's shapes, so protojson output decodes into
// typed messages.
package protobuf

import (
	"fmt"
	"strings"

	"github.com/okra-platform/tagstream/internal/codegen/writer"
	"github.com/okra-platform/tagstream/internal/schema"
)

// Generator generates protobuf definitions from tagstream schemas
type Generator struct {
	packageName string
}

// NewGenerator creates a new protobuf generator
func NewGenerator(packageName string) *Generator {
	return &Generator{
		packageName: packageName,
	}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "proto"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".proto"
}

// Generate creates protobuf definitions from the schema
func (g *Generator) Generate(s *schema.Schema) ([]byte, error) {
	pkg := g.packageName
	if pkg == "" {
		pkg = "tagstream.shapes"
	}

	w := writer.NewWriter("  ")
	w.WriteLine(`syntax = "proto3";`)
	w.BlankLine()
	w.WriteLinef("package %s;", pkg)
	w.BlankLine()

	// Nested lists have no proto equivalent; ListValue keeps their JSON form.
	if hasNestedList(s) {
		w.WriteLine(`import "google/protobuf/struct.proto";`)
		w.BlankLine()
	}

	for _, enum := range s.Enums {
		g.generateEnum(w, enum)
		w.BlankLine()
	}

	for _, typ := range s.Types {
		if err := g.generateMessage(w, s, typ); err != nil {
			return nil, err
		}
		w.BlankLine()
	}

	return w.Bytes(), nil
}

// generateEnum generates a protobuf enum definition
func (g *Generator) generateEnum(w *writer.Writer, enum schema.EnumType) {
	w.WriteDocComment("//", enum.Doc)
	w.WriteBlock(fmt.Sprintf("enum %s {", enum.Name), "}", func() {
		// Protobuf requires first enum value to be 0
		w.WriteLinef("%s_UNSPECIFIED = 0;", strings.ToUpper(enum.Name))
		for i, v := range enum.Values {
			w.WriteDocComment("//", v.Doc)
			w.WriteLinef("%s = %d;", v.Name, i+1)
		}
	})
}

// generateMessage generates a protobuf message definition. Field numbers
// follow declaration order.
func (g *Generator) generateMessage(w *writer.Writer, s *schema.Schema, typ schema.ObjectType) error {
	var err error
	w.WriteDocComment("//", typ.Doc)
	w.WriteBlock(fmt.Sprintf("message %s {", typ.Name), "}", func() {
		for i, f := range typ.Fields {
			elem, lists := f.Elem()
			protoType, ok := g.mapToProtoType(s, elem)
			if !ok {
				err = fmt.Errorf("%s.%s: unknown type %s", typ.Name, f.Name, elem)
				return
			}

			w.WriteDocComment("//", f.Doc)
			switch {
			case lists > 1:
				w.WriteLinef("repeated google.protobuf.ListValue %s = %d;", f.Name, i+1)
			case lists == 1:
				w.WriteLinef("repeated %s %s = %d;", protoType, f.Name, i+1)
			case !f.Required && isScalar(s, elem):
				w.WriteLinef("optional %s %s = %d;", protoType, f.Name, i+1)
			default:
				w.WriteLinef("%s %s = %d;", protoType, f.Name, i+1)
			}
		}
	})
	return err
}

// mapToProtoType maps schema types to protobuf types
func (g *Generator) mapToProtoType(s *schema.Schema, name string) (string, bool) {
	switch name {
	case "String", "ID":
		return "string", true
	case "Int":
		return "int64", true
	case "Float":
		return "double", true
	case "Boolean":
		return "bool", true
	}
	if _, ok := s.Enum(name); ok {
		return name, true
	}
	if _, ok := s.Type(name); ok {
		return name, true
	}
	return "", false
}

func isScalar(s *schema.Schema, name string) bool {
	_, ok := s.Type(name)
	return !ok
}

func hasNestedList(s *schema.Schema) bool {
	for _, typ := range s.Types {
		for _, f := range typ.Fields {
			if _, lists := f.Elem(); lists > 1 {
				return true
			}
		}
	}
	return false
}
