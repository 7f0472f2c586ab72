package dev

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/okra-platform/tagstream/internal/config"
	"github.com/okra-platform/tagstream/internal/conformance"
	"github.com/okra-platform/tagstream/internal/drain"
	"github.com/okra-platform/tagstream/internal/dynamic"
	"github.com/okra-platform/tagstream/internal/tagstream"
)

// Session checks and drains the IDL shape of a project, again on every
// change to its schema or data files.
type Session struct {
	config      *config.Config
	projectRoot string
	watcher     *FileWatcher
	logger      zerolog.Logger
	out         io.Writer
	encoders    *drain.Registry

	// Mutex to prevent concurrent runs
	runMutex sync.Mutex
	running  bool
	runs     int
}

// NewSession creates a session writing drained output to out
func NewSession(cfg *config.Config, projectRoot string, out io.Writer) *Session {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Str("component", "watch").
		Logger()

	return &Session{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger,
		out:         out,
		encoders:    drain.NewRegistry(),
	}
}

// WithLogger replaces the session logger
func (s *Session) WithLogger(logger zerolog.Logger) *Session {
	s.logger = logger
	return s
}

// Start runs once, then watches the project until ctx is done
func (s *Session) Start(ctx context.Context) error {
	if err := s.validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// A failing first run is reported; the watcher keeps going so the
	// files can be fixed.
	if err := s.Run(); err != nil {
		s.logger.Error().Err(err).Msg("initial run failed")
	}

	watcher, err := NewFileWatcher(
		s.config.Watch.Patterns,
		s.config.Watch.Exclude,
		s.handleFileChange,
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = watcher
	defer s.watcher.Close()

	if err := s.watcher.AddDirectory(s.projectRoot); err != nil {
		return fmt.Errorf("failed to watch project directory: %w", err)
	}

	s.logger.Info().Str("root", s.projectRoot).Msg("watching for changes")
	return s.watcher.Start(ctx)
}

// Stop closes the watcher of a started session
func (s *Session) Stop(ctx context.Context) error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Runs returns the number of completed runs
func (s *Session) Runs() int {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	return s.runs
}

// validateConfig checks that the referenced files exist and the format is
// known before anything is watched.
func (s *Session) validateConfig() error {
	schemaPath := s.config.Path(s.projectRoot, s.config.Schema)
	if _, err := os.Stat(schemaPath); err != nil {
		return fmt.Errorf("schema file not found: %s", schemaPath)
	}
	if s.config.Data != "" {
		dataPath := s.config.Path(s.projectRoot, s.config.Data)
		if _, err := os.Stat(dataPath); err != nil {
			return fmt.Errorf("data file not found: %s", dataPath)
		}
	}
	if _, err := s.encoders.Get(s.config.Format); err != nil {
		return err
	}
	return nil
}

// Run compiles the shape, checks the stream properties over the data and
// writes the drained output.
func (s *Session) Run() error {
	start := time.Now()

	shape, err := dynamic.LoadShape(s.config.Path(s.projectRoot, s.config.Schema), s.config.Root)
	if err != nil {
		return err
	}

	var data any
	if s.config.Data != "" {
		if data, err = dynamic.LoadData(s.config.Path(s.projectRoot, s.config.Data)); err != nil {
			return err
		}
	}
	newIter := func() tagstream.Iterator { return shape.Iterator(&data) }

	if err := conformance.Check(shape.Name(), newIter); err != nil {
		return fmt.Errorf("conformance check failed: %w", err)
	}

	enc, err := s.encoders.Get(s.config.Format)
	if err != nil {
		return err
	}
	out, err := enc.Encode(newIter())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", enc.Format(), err)
	}
	if _, err := s.out.Write(out); err != nil {
		return err
	}

	s.runMutex.Lock()
	s.runs++
	s.runMutex.Unlock()

	s.logger.Info().
		Str("shape", shape.Name()).
		Str("format", enc.Format()).
		Dur("elapsed", time.Since(start)).
		Msg("shape checked and drained")
	return nil
}

// handleFileChange is called when a watched file changes
func (s *Session) handleFileChange(path string, op fsnotify.Op) {
	// Ignore editor temporaries
	if strings.Contains(path, ".tmp") || strings.HasSuffix(path, "~") {
		return
	}

	var action string
	switch {
	case op.Has(fsnotify.Create):
		action = "created"
	case op.Has(fsnotify.Write):
		action = "modified"
	case op.Has(fsnotify.Remove):
		action = "deleted"
	case op.Has(fsnotify.Rename):
		action = "renamed"
	default:
		return
	}

	if !s.isInput(path) {
		return
	}

	relPath, _ := filepath.Rel(s.projectRoot, path)
	s.logger.Info().Str("file", relPath).Str("action", action).Msg("input changed")

	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		s.logger.Debug().Msg("run already in progress, skipping")
		return
	}
	s.running = true
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	if err := s.Run(); err != nil {
		s.logger.Error().Err(err).Msg("run failed")
	}
}

// isInput reports whether path is the schema, the data file or another
// GraphQL file of the project.
func (s *Session) isInput(path string) bool {
	clean := filepath.Clean(path)
	if clean == filepath.Clean(s.config.Path(s.projectRoot, s.config.Schema)) {
		return true
	}
	if s.config.Data != "" && clean == filepath.Clean(s.config.Path(s.projectRoot, s.config.Data)) {
		return true
	}
	return strings.HasSuffix(path, ".graphql")
}
