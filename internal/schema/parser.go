package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

var ErrDuplicateType = errors.New("duplicate type")

// ParseSchema parses a GraphQL schema (after preprocessing) into our Schema model
func ParseSchema(input string) (*Schema, error) {
	// First preprocess the input
	preprocessed := PreprocessGraphQL(input)

	// Parse the GraphQL document
	doc, report := astparser.ParseGraphqlDocumentString(preprocessed)
	if report.HasErrors() {
		return nil, fmt.Errorf("failed to parse GraphQL: %v", report)
	}

	schema := &Schema{
		Types: []ObjectType{},
		Enums: []EnumType{},
		Meta:  Metadata{},
	}

	seen := make(map[string]bool)
	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		var name string
		switch node.Kind {
		case ast.NodeKindObjectTypeDefinition:
			var err error
			if name, err = parseObjectType(&doc, node.Ref, schema); err != nil {
				return nil, err
			}
		case ast.NodeKindEnumTypeDefinition:
			name = parseEnumType(&doc, node.Ref, schema)
		default:
			continue
		}
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
		}
		seen[name] = true
	}

	return schema, nil
}

// parseObjectType adds the type to schema and returns its name, or "" for
// the metadata carrier.
func parseObjectType(doc *ast.Document, ref int, schema *Schema) (string, error) {
	typeDef := doc.ObjectTypeDefinitions[ref]
	typeName := doc.Input.ByteSliceString(typeDef.Name)

	// The _Schema type carries the @tagstream metadata
	if typeName == "_Schema" {
		parseMetadata(doc, typeDef, schema)
		return "", nil
	}

	objType := ObjectType{
		Name:   typeName,
		Doc:    getDescription(doc, typeDef.Description),
		Fields: []Field{},
	}
	if strings.HasPrefix(typeName, shapePrefix) {
		objType.Name = strings.TrimPrefix(typeName, shapePrefix)
		objType.Shape = true
	}

	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		objType.Fields = append(objType.Fields, parseField(doc, fieldRef))
	}

	schema.Types = append(schema.Types, objType)
	return objType.Name, nil
}

func parseEnumType(doc *ast.Document, ref int, schema *Schema) string {
	enumDef := doc.EnumTypeDefinitions[ref]

	enumType := EnumType{
		Name:   doc.Input.ByteSliceString(enumDef.Name),
		Doc:    getDescription(doc, enumDef.Description),
		Values: []EnumValue{},
	}

	for _, valueRef := range enumDef.EnumValuesDefinition.Refs {
		valueDef := doc.EnumValueDefinitions[valueRef]
		enumType.Values = append(enumType.Values, EnumValue{
			Name: doc.Input.ByteSliceString(valueDef.EnumValue),
			Doc:  getDescription(doc, valueDef.Description),
		})
	}

	schema.Enums = append(schema.Enums, enumType)
	return enumType.Name
}

func parseMetadata(doc *ast.Document, typeDef ast.ObjectTypeDefinition, schema *Schema) {
	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		fieldDef := doc.FieldDefinitions[fieldRef]
		for _, directiveRef := range fieldDef.Directives.Refs {
			directive := doc.Directives[directiveRef]
			if doc.Input.ByteSliceString(directive.Name) != "tagstream" {
				continue
			}
			args := parseDirectiveArgs(doc, directive)
			schema.Meta.Name = args["name"]
			schema.Meta.Root = args["root"]
			return
		}
	}
}

func parseField(doc *ast.Document, fieldRef int) Field {
	fieldDef := doc.FieldDefinitions[fieldRef]

	field := Field{
		Name:       doc.Input.ByteSliceString(fieldDef.Name),
		Doc:        getDescription(doc, fieldDef.Description),
		Directives: parseDirectives(doc, fieldDef.Directives),
	}
	field.Type, field.Required = parseType(doc, fieldDef.Type)
	return field
}

func parseType(doc *ast.Document, typeRef int) (string, bool) {
	required := false
	currentRef := typeRef

	// Handle NonNull wrapper
	if doc.Types[currentRef].TypeKind == ast.TypeKindNonNull {
		required = true
		currentRef = doc.Types[currentRef].OfType
	}

	// Handle List wrapper
	if doc.Types[currentRef].TypeKind == ast.TypeKindList {
		innerType, _ := parseType(doc, doc.Types[currentRef].OfType)
		return "[" + innerType + "]", required
	}

	// Named type
	if doc.Types[currentRef].TypeKind == ast.TypeKindNamed {
		return doc.Input.ByteSliceString(doc.Types[currentRef].Name), required
	}

	return "Unknown", required
}

func parseDirectives(doc *ast.Document, directives ast.DirectiveList) []Directive {
	result := []Directive{}
	for _, directiveRef := range directives.Refs {
		directive := doc.Directives[directiveRef]
		result = append(result, Directive{
			Name: doc.Input.ByteSliceString(directive.Name),
			Args: parseDirectiveArgs(doc, directive),
		})
	}
	return result
}

func parseDirectiveArgs(doc *ast.Document, directive ast.Directive) map[string]string {
	args := make(map[string]string)
	for _, argRef := range directive.Arguments.Refs {
		arg := doc.Arguments[argRef]
		args[doc.Input.ByteSliceString(arg.Name)] = parseValue(doc, doc.ArgumentValue(argRef))
	}
	return args
}

func parseValue(doc *ast.Document, value ast.Value) string {
	switch value.Kind {
	case ast.ValueKindString:
		return doc.StringValueContentString(value.Ref)
	case ast.ValueKindEnum:
		if value.Ref >= 0 && value.Ref < len(doc.EnumValues) {
			return doc.Input.ByteSliceString(doc.EnumValues[value.Ref].Name)
		}
	case ast.ValueKindBoolean:
		// The Ref is either 0 (false) or 1 (true)
		if value.Ref >= 0 && value.Ref < len(doc.BooleanValues) {
			if doc.BooleanValues[value.Ref] {
				return "true"
			}
			return "false"
		}
	case ast.ValueKindInteger:
		return fmt.Sprintf("%d", doc.IntValueAsInt(value.Ref))
	case ast.ValueKindFloat:
		return fmt.Sprintf("%f", doc.FloatValueAsFloat32(value.Ref))
	}
	return ""
}

func getDescription(doc *ast.Document, desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}
	return doc.Input.ByteSliceString(desc.Content)
}
