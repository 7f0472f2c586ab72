package schema

import "strings"

// Schema is the root of a parsed .shapes.graphql file
type Schema struct {
	Types []ObjectType `json:"types"`
	Enums []EnumType   `json:"enums"`
	Meta  Metadata     `json:"meta"`
}

// Metadata represents the file level @tagstream directive
type Metadata struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

// ObjectType represents a "type" or "shape" block
type ObjectType struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
	// Shape marks types declared with the shape keyword, the ones meant to
	// be iterated as a root.
	Shape  bool    `json:"shape"`
	Fields []Field `json:"fields"`
}

// Field represents a field inside a type
type Field struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Required   bool        `json:"required"`
	Directives []Directive `json:"directives"`
	Doc        string      `json:"doc"`
}

// EnumType represents an enum definition
type EnumType struct {
	Name   string      `json:"name"`
	Doc    string      `json:"doc"`
	Values []EnumValue `json:"values"`
}

// EnumValue represents a single value inside an enum
type EnumValue struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
}

// Directive represents an attached directive (e.g. @key)
type Directive struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args"`
	Doc  string            `json:"doc"`
}

// Type returns the object type with the given name
func (s *Schema) Type(name string) (*ObjectType, bool) {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i], true
		}
	}
	return nil, false
}

// Enum returns the enum type with the given name
func (s *Schema) Enum(name string) (*EnumType, bool) {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i], true
		}
	}
	return nil, false
}

// Shapes returns the names of all types declared with the shape keyword
func (s *Schema) Shapes() []string {
	var names []string
	for _, t := range s.Types {
		if t.Shape {
			names = append(names, t.Name)
		}
	}
	return names
}

// Elem strips the list brackets of the field type. "[[Int]]" yields
// ("Int", 2).
func (f Field) Elem() (string, int) {
	name := f.Type
	lists := 0
	for strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		name = name[1 : len(name)-1]
		lists++
	}
	return name, lists
}

// Key returns the data key the field reads: the name argument of an @key
// directive, or the field name.
func (f Field) Key() string {
	for _, d := range f.Directives {
		if d.Name == "key" && d.Args["name"] != "" {
			return d.Args["name"]
		}
	}
	return f.Name
}
