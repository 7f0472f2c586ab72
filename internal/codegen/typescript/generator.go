// Package typescript generates TypeScript declarations for the JSON
// documents drained from a schema's shapes.
package typescript

import (
	"fmt"
	"strings"

	"github.com/okra-platform/tagstream/internal/codegen/writer"
	"github.com/okra-platform/tagstream/internal/schema"
)

// Generator generates TypeScript code from a tagstream schema
type Generator struct {
	namespace string
}

// NewGenerator creates a new TypeScript code generator. A non-empty
// namespace wraps the declarations.
func NewGenerator(namespace string) *Generator {
	return &Generator{namespace: namespace}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate writes one union type per enum and one interface per object
// type. Drained documents always carry every member: scalars are null when
// the data is missing or mistyped, lists are empty.
func (g *Generator) Generate(s *schema.Schema) ([]byte, error) {
	w := writer.NewWriter("  ")

	if g.namespace != "" {
		w.WriteLinef("export namespace %s {", g.namespace)
		w.Indent()
	}

	for i, enum := range s.Enums {
		g.generateEnum(w, enum)
		if i < len(s.Enums)-1 || len(s.Types) > 0 {
			w.BlankLine()
		}
	}

	for i, typ := range s.Types {
		if err := g.generateType(w, s, typ); err != nil {
			return nil, err
		}
		if i < len(s.Types)-1 {
			w.BlankLine()
		}
	}

	if g.namespace != "" {
		w.Dedent()
		w.WriteLine("}")
	}

	return w.Bytes(), nil
}

// generateEnum generates a string union with its values and a type guard
func (g *Generator) generateEnum(w *writer.Writer, enum schema.EnumType) {
	g.writeJSDoc(w, enum.Doc)

	quoted := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		quoted[i] = fmt.Sprintf("%q", v.Name)
	}
	w.WriteLinef("export const %sValues = [%s] as const;", enum.Name, strings.Join(quoted, ", "))
	w.WriteLinef("export type %s = (typeof %sValues)[number];", enum.Name, enum.Name)
	w.BlankLine()

	w.WriteBlock(fmt.Sprintf("export function is%s(value: unknown): value is %s {", enum.Name, enum.Name), "}", func() {
		w.WriteLinef("return (%sValues as readonly unknown[]).includes(value);", enum.Name)
	})
}

// generateType generates the interface of an object type
func (g *Generator) generateType(w *writer.Writer, s *schema.Schema, typ schema.ObjectType) error {
	var err error
	g.writeJSDoc(w, typ.Doc)
	w.WriteBlock(fmt.Sprintf("export interface %s {", typ.Name), "}", func() {
		for _, f := range typ.Fields {
			tsType, ok := g.mapToTSType(s, f)
			if !ok {
				err = fmt.Errorf("%s.%s: unknown type %s", typ.Name, f.Name, f.Type)
				return
			}
			g.writeJSDoc(w, f.Doc)
			w.WriteLinef("%s: %s;", f.Name, tsType)
		}
	})
	return err
}

// mapToTSType maps a field onto its drained JSON type
func (g *Generator) mapToTSType(s *schema.Schema, f schema.Field) (string, bool) {
	elem, lists := f.Elem()

	var base string
	switch elem {
	case "String", "ID":
		base = "string"
	case "Int", "Float":
		base = "number"
	case "Boolean":
		base = "boolean"
	default:
		if _, ok := s.Enum(elem); ok {
			base = elem
		} else if _, ok := s.Type(elem); ok {
			// Records are never null, missing data nulls their members
			return elem + strings.Repeat("[]", lists), true
		} else {
			return "", false
		}
	}

	if lists == 0 {
		return base + " | null", true
	}
	return "(" + base + " | null)" + strings.Repeat("[]", lists), true
}

// writeJSDoc writes JSDoc style comments
func (g *Generator) writeJSDoc(w *writer.Writer, doc string) {
	if doc == "" {
		return
	}

	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if len(lines) == 1 {
		w.WriteLinef("/** %s */", lines[0])
		return
	}
	w.WriteLine("/**")
	for _, line := range lines {
		w.WriteLinef(" * %s", strings.TrimSpace(line))
	}
	w.WriteLine(" */")
}
