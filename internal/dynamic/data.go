package dynamic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrUnsupportedData = errors.New("unsupported data file")

// LoadData decodes a JSON or YAML file, chosen by extension, into a tree
// of map[string]any, []any and scalars.
func LoadData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(raw)
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedData, path)
}

// DecodeJSON keeps numbers as json.Number so integers survive unchanged.
func DecodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return tree, nil
}

func DecodeYAML(raw []byte) (any, error) {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse YAML data: %w", err)
	}
	return tree, nil
}
