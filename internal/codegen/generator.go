// Package codegen renders the shapes of a tagstream schema as source code
// for other languages and tools.
package codegen

import "github.com/okra-platform/tagstream/internal/schema"

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Generate generates code from the schema and returns the generated code as bytes
	Generate(schema *schema.Schema) ([]byte, error)

	// Language returns the name of the target language (e.g., "go", "proto")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".go", ".proto")
	FileExtension() string
}
