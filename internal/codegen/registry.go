package codegen

import (
	"fmt"
	"sort"
)

// Factory creates a generator writing into the named package or module
type Factory func(packageName string) Generator

// Registry manages available code generators
type Registry struct {
	generators map[string]Factory
}

// NewRegistry creates an empty generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Factory),
	}
}

// Register adds a generator factory, replacing one of the same language
func (r *Registry) Register(language string, factory Factory) {
	r.generators[language] = factory
}

// Get returns a generator for the specified language
func (r *Registry) Get(language, packageName string) (Generator, error) {
	factory, exists := r.generators[language]
	if !exists {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	return factory(packageName), nil
}

// Languages returns the registered languages in sorted order
func (r *Registry) Languages() []string {
	languages := make([]string, 0, len(r.generators))
	for lang := range r.generators {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
