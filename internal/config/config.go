package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project file searched for by LoadConfig
const FileName = "tagstream.json"

// Config represents the tagstream.json project file
type Config struct {
	Name   string      `json:"name"`
	Schema string      `json:"schema"`
	Root   string      `json:"root,omitempty"`
	Data   string      `json:"data,omitempty"`
	Format string      `json:"format"`
	Watch  WatchConfig `json:"watch"`
}

// WatchConfig contains the file patterns of the watch command
type WatchConfig struct {
	Patterns []string `json:"patterns"`
	Exclude  []string `json:"exclude"`
}

// LoadConfig loads tagstream.json from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads tagstream.json from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// Encode returns the config as indented JSON
func (c *Config) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the config as indented JSON
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path resolves a config relative path against the project root
func (c *Config) Path(projectRoot, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(projectRoot, rel)
}

// ApplyDefaults fills in unset fields
func (c *Config) ApplyDefaults() {
	if c.Schema == "" {
		c.Schema = "./shapes.graphql"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.graphql", "**/*.graphql", "*.json", "**/*.json", "*.yaml", "**/*.yaml", "*.yml", "**/*.yml"}
		if c.Data == "" {
			c.Watch.Patterns = []string{"*.graphql", "**/*.graphql"}
		}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{FileName, "node_modules", ".git"}
	}
}

// loadConfigFromDir searches for tagstream.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory", FileName, startDir)
}
