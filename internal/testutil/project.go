// Package testutil provides on-disk tagstream projects for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okra-platform/tagstream/internal/config"
)

// PairSchema declares a shape with one scalar and one list member.
const PairSchema = `@tagstream(root: "Pair")

shape Pair {
  left: Int
  right: [String]
}
`

// PairData is a document for PairSchema.
const PairData = `{"left": 1, "right": ["a", "b"]}`

// Project is a temporary project directory with a loaded config.
type Project struct {
	Root   string
	Config *config.Config
}

// NewProject writes files into a temporary directory, saves cfg as its
// tagstream.json and loads it back with defaults applied.
func NewProject(t *testing.T, cfg config.Config, files map[string]string) *Project {
	t.Helper()

	p := &Project{Root: t.TempDir()}
	for name, content := range files {
		p.Write(t, name, content)
	}

	path := filepath.Join(p.Root, config.FileName)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save project config: %v", err)
	}
	loaded, err := config.LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("failed to load project config: %v", err)
	}
	p.Config = loaded
	return p
}

// PairProject is a project with PairSchema in shapes.graphql and PairData
// in data.json.
func PairProject(t *testing.T, format string) *Project {
	t.Helper()
	return NewProject(t,
		config.Config{Name: "pair", Data: "./data.json", Format: format},
		map[string]string{
			"shapes.graphql": PairSchema,
			"data.json":      PairData,
		})
}

// Path returns the absolute path of a project file.
func (p *Project) Path(name string) string {
	return filepath.Join(p.Root, name)
}

// Write creates or replaces a project file, creating parent directories.
func (p *Project) Write(t *testing.T, name, content string) {
	t.Helper()
	path := p.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
