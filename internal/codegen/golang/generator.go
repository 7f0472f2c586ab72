// Package golang generates Go structs for the types of a schema and a
// static tagstream shape for each of its shapes.
package golang

import (
	"fmt"
	"strings"

	"github.com/okra-platform/tagstream/internal/codegen/writer"
	"github.com/okra-platform/tagstream/internal/dynamic"
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/schema"
)

const modulePath = "github.com/okra-platform/tagstream/internal/"

// Generator generates Go code from a tagstream schema
type Generator struct {
	packageName string
}

// NewGenerator creates a new Go code generator
func NewGenerator(packageName string) *Generator {
	return &Generator{packageName: packageName}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".go"
}

// Generate writes the enums and structs of the schema followed by one
// <Name>Shape variable per shape. Without shape blocks the @tagstream
// root is used.
func (g *Generator) Generate(s *schema.Schema) ([]byte, error) {
	pkg := g.packageName
	if pkg == "" {
		pkg = "shapes"
	}

	plans, err := plan(s)
	if err != nil {
		return nil, err
	}
	for _, typ := range s.Types {
		for _, f := range typ.Fields {
			if _, err := g.fieldType(s, f); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", typ.Name, f.Name, err)
			}
		}
	}

	w := writer.NewWriter("\t")
	w.WriteLine("// Code generated by tagstream gen. DO NOT EDIT.")
	w.BlankLine()
	w.WriteLinef("package %s", pkg)
	w.BlankLine()

	if len(plans) > 0 {
		w.WriteBlock("import (", ")", func() {
			for _, imp := range []string{"layout", "tagstream", "value"} {
				w.WriteLinef(`"%s%s"`, modulePath, imp)
			}
		})
		w.BlankLine()
	}

	for _, enum := range s.Enums {
		g.generateEnum(w, enum)
		w.BlankLine()
	}

	for _, typ := range s.Types {
		g.generateType(w, s, typ)
		w.BlankLine()
	}

	for _, p := range plans {
		g.generateShape(w, s, p)
	}

	return w.Bytes(), nil
}

// plan walks every shape of the schema and checks that it compiles
func plan(s *schema.Schema) ([]*dynamic.Plan, error) {
	roots := s.Shapes()
	if len(roots) == 0 && s.Meta.Root != "" {
		roots = []string{s.Meta.Root}
	}

	plans := make([]*dynamic.Plan, 0, len(roots))
	for _, root := range roots {
		p, err := dynamic.NewPlan(s, root)
		if err != nil {
			return nil, err
		}
		if _, err := layout.Compile(p.Node); err != nil {
			return nil, fmt.Errorf("shape %s: %w", root, err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// generateEnum generates Go code for an enum type
func (g *Generator) generateEnum(w *writer.Writer, enum schema.EnumType) {
	w.WriteDocComment("//", enum.Doc)
	w.WriteLinef("type %s string", enum.Name)
	w.BlankLine()

	w.WriteBlock("const (", ")", func() {
		for _, v := range enum.Values {
			w.WriteDocComment("//", v.Doc)
			w.WriteLinef("%s%s %s = %q", enum.Name, exportedName(v.Name), enum.Name, v.Name)
		}
	})
	w.BlankLine()

	names := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		names[i] = enum.Name + exportedName(v.Name)
	}

	w.WriteLinef("// Valid returns true if the %s is a valid value", enum.Name)
	w.WriteBlock(fmt.Sprintf("func (e %s) Valid() bool {", enum.Name), "}", func() {
		if len(names) == 0 {
			w.WriteLine("return false")
			return
		}
		w.WriteBlock("switch e {", "}", func() {
			w.WriteLinef("case %s:", strings.Join(names, ", "))
			w.Indent()
			w.WriteLine("return true")
			w.Dedent()
		})
		w.WriteLine("return false")
	})
}

// generateType generates the Go struct of an object type. The json tags
// use the data keys so documents decode straight into the struct.
func (g *Generator) generateType(w *writer.Writer, s *schema.Schema, typ schema.ObjectType) {
	w.WriteDocComment("//", typ.Doc)
	w.WriteBlock(fmt.Sprintf("type %s struct {", typ.Name), "}", func() {
		for _, f := range typ.Fields {
			w.WriteDocComment("//", f.Doc)
			goType, _ := g.fieldType(s, f)
			tag := f.Key()
			if !f.Required {
				tag += ",omitempty"
			}
			w.WriteLinef("%s %s `json:\"%s\"`", exportedName(f.Name), goType, tag)
		}
	})
}

// fieldType maps a field onto a Go type. Lists are slices of element
// values, other optional fields are pointers.
func (g *Generator) fieldType(s *schema.Schema, f schema.Field) (string, error) {
	elem, lists := f.Elem()
	base, err := g.elemType(s, elem)
	if err != nil {
		return "", err
	}
	if lists > 0 {
		return strings.Repeat("[]", lists) + base, nil
	}
	if !f.Required {
		return "*" + base, nil
	}
	return base, nil
}

func (g *Generator) elemType(s *schema.Schema, name string) (string, error) {
	switch name {
	case "String", "ID":
		return "string", nil
	case "Int":
		return "int64", nil
	case "Float":
		return "float64", nil
	case "Boolean":
		return "bool", nil
	}
	if _, ok := s.Enum(name); ok {
		return name, nil
	}
	if _, ok := s.Type(name); ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %s", dynamic.ErrUnknownType, name)
}

// generateShape writes the shape variable of a plan with its layout,
// accessor and counter functions.
func (g *Generator) generateShape(w *writer.Writer, s *schema.Schema, p *dynamic.Plan) {
	base := lowerName(p.Name)
	counter := "nil"
	if len(p.Arrays) > 0 {
		counter = base + "Count"
	}

	w.WriteLinef("// %sShape iterates %s values.", p.Name, p.Name)
	w.WriteLinef("var %sShape = tagstream.MustShape(%q, layout.MustCompile(%sLayout()), %sValue, %s)",
		p.Name, p.Name, base, base, counter)
	w.BlankLine()

	w.WriteBlock(fmt.Sprintf("func %sLayout() layout.Node {", base), "}", func() {
		w.Write("return ")
		writeNode(w, p.Node)
		w.Newline()
	})
	w.BlankLine()

	w.WriteBlock(fmt.Sprintf("func %sValue(src *%s, sel int, ix tagstream.Indices) value.Value {", base, p.Name), "}", func() {
		if len(p.Values) > 0 {
			w.WriteBlock("switch sel {", "}", func() {
				for sel, r := range p.Values {
					w.WriteLinef("case %d:", sel)
					w.Indent()
					writeValue(w, s, r)
					w.Dedent()
				}
			})
		}
		w.WriteLine("return value.Null()")
	})
	w.BlankLine()

	if len(p.Arrays) == 0 {
		return
	}
	w.WriteBlock(fmt.Sprintf("func %sCount(src *%s, sel int, ix tagstream.Indices) int {", base, p.Name), "}", func() {
		w.WriteBlock("switch sel {", "}", func() {
			for sel, r := range p.Arrays {
				w.WriteLinef("case %d:", sel)
				w.Indent()
				expr, _ := walk(w, r, "0")
				w.WriteLinef("return len(%s)", expr)
				w.Dedent()
			}
		})
		w.WriteLine("return 0")
	})
	w.BlankLine()
}

// writeNode renders a layout description as the constructor calls that
// build it.
func writeNode(w *writer.Writer, n layout.Node) {
	switch n.Kind {
	case layout.KindScalar:
		w.Writef("layout.Scalar(%d)", n.Selector)
	case layout.KindArray:
		w.Writef("layout.Array(%d, ", n.Selector)
		writeNode(w, *n.Elem)
		w.Write(")")
	case layout.KindRecord:
		if len(n.Fields) == 0 {
			w.Write("layout.Record()")
			return
		}
		w.WriteLine("layout.Record(")
		w.Indent()
		for _, f := range n.Fields {
			w.Writef("layout.Member(%q, ", f.Name)
			writeNode(w, f.Node)
			w.WriteLine("),")
		}
		w.Dedent()
		w.Write(")")
	}
}

// walk writes the nil checks along a route and returns the Go expression
// it ends at. A nil optional record on the way returns zero.
func walk(w *writer.Writer, r dynamic.Route, zero string) (string, bool) {
	expr := "src"
	pointer := false
	for i, step := range r {
		if step.Field == nil {
			expr = fmt.Sprintf("%s[ix.At(%d)]", expr, step.Level)
			pointer = false
			continue
		}
		expr += "." + exportedName(step.Field.Name)
		_, lists := step.Field.Elem()
		pointer = lists == 0 && !step.Field.Required
		if pointer && i < len(r)-1 {
			w.WriteBlock(fmt.Sprintf("if %s == nil {", expr), "}", func() {
				w.WriteLinef("return %s", zero)
			})
		}
	}
	return expr, pointer
}

func writeValue(w *writer.Writer, s *schema.Schema, r dynamic.Route) {
	expr, pointer := walk(w, r, "value.Null()")
	if pointer {
		w.WriteBlock(fmt.Sprintf("if %s == nil {", expr), "}", func() {
			w.WriteLine("return value.Null()")
		})
		expr = "*" + expr
	}

	elem, _ := r.Leaf().Elem()
	switch dynamic.KindOf(s, elem) {
	case dynamic.KindInt:
		w.WriteLinef("return value.Int(%s)", expr)
	case dynamic.KindFloat:
		w.WriteLinef("return value.Float(%s)", expr)
	case dynamic.KindBool:
		w.WriteLinef("return value.Bool(%s)", expr)
	case dynamic.KindEnum:
		w.WriteLinef("return value.String(string(%s))", expr)
	default:
		w.WriteLinef("return value.String(%s)", expr)
	}
}

// exportedName converts a schema name to an exported Go name: the first
// letter of every underscore separated part is capitalized.
func exportedName(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	if sb.Len() == 0 {
		return "X"
	}
	return sb.String()
}

func lowerName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}
