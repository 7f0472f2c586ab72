// Package commands contains the CLI commands for the application
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/okra-platform/tagstream/internal/config"
	"github.com/okra-platform/tagstream/internal/dynamic"
	"github.com/okra-platform/tagstream/internal/shapes"
)

// Flags holds the global and per-command flag values. Set values override
// the project config.
type Flags struct {
	LogLevel string
	Shape    string
	Sample   string
	Schema   string
	Root     string
	Data     string
	Format   string
	Select   string
	Lang     string
	Package  string
	Out      string
}

type Controller struct {
	Flags *Flags
	// Out receives command output. Defaults to stdout.
	Out io.Writer

	loader ConfigLoader
}

// ConfigLoader finds the project config
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

func (c *Controller) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Controller) flags() *Flags {
	if c.Flags == nil {
		return &Flags{}
	}
	return c.Flags
}

func (c *Controller) configLoader() ConfigLoader {
	if c.loader == nil {
		return &defaultConfigLoader{}
	}
	return c.loader
}

// target is a shape table with the sample streams a command iterates
type target struct {
	entry  shapes.Entry
	format string
}

// loadTarget resolves the built-in shape named by --shape, or else the IDL
// shape of --schema or the project config.
func (c *Controller) loadTarget() (*target, error) {
	f := c.flags()
	if f.Shape != "" {
		entry, err := shapes.Default().Get(f.Shape)
		if err != nil {
			return nil, err
		}
		if entry, err = filterSample(entry, f.Sample); err != nil {
			return nil, err
		}
		format := f.Format
		if format == "" {
			format = "json"
		}
		return &target{entry: entry, format: format}, nil
	}

	cfg, root, err := c.project()
	if err != nil {
		return nil, err
	}
	entry, err := loadIDLEntry(cfg, root)
	if err != nil {
		return nil, err
	}
	return &target{entry: entry, format: cfg.Format}, nil
}

// project returns the config of --schema, or the project config with the
// flags applied on top.
func (c *Controller) project() (*config.Config, string, error) {
	f := c.flags()
	if f.Schema != "" {
		cfg := &config.Config{Schema: f.Schema, Root: f.Root, Data: f.Data, Format: f.Format}
		cfg.ApplyDefaults()
		return cfg, "", nil
	}

	cfg, root, err := c.configLoader().LoadConfig()
	if err != nil {
		return nil, "", fmt.Errorf("no --shape or --schema given: %w", err)
	}
	if f.Root != "" {
		cfg.Root = f.Root
	}
	if f.Data != "" {
		cfg.Data = f.Data
	}
	if f.Format != "" {
		cfg.Format = f.Format
	}
	log.Debug().Str("root", root).Str("schema", cfg.Schema).Msg("loaded project config")
	return cfg, root, nil
}

// loadIDLEntry compiles the configured shape with the data file as its only
// sample. Without data the sample is an absent document.
func loadIDLEntry(cfg *config.Config, root string) (shapes.Entry, error) {
	shape, err := dynamic.LoadShape(cfg.Path(root, cfg.Schema), cfg.Root)
	if err != nil {
		return shapes.Entry{}, err
	}

	var data any
	sample := "absent"
	if cfg.Data != "" {
		path := cfg.Path(root, cfg.Data)
		if data, err = dynamic.LoadData(path); err != nil {
			return shapes.Entry{}, err
		}
		sample = filepath.Base(path)
	}
	return shapes.NewEntry(shape, shapes.Src(sample, &data)), nil
}

func filterSample(e shapes.Entry, name string) (shapes.Entry, error) {
	if name == "" {
		return e, nil
	}
	for _, s := range e.Samples {
		if s.Name == name {
			e.Samples = []shapes.Sample{s}
			return e, nil
		}
	}
	return e, fmt.Errorf("shape %s has no sample %s", e.Name, name)
}
