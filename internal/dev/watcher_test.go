package dev

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match graphql file",
			patterns: []string{"*.graphql"},
			path:     "/project/shapes.graphql",
			want:     true,
		},
		{
			name:     "match nested file with ** pattern",
			patterns: []string{"**/*.graphql"},
			path:     "/project/schema/search/shapes.graphql",
			want:     true,
		},
		{
			name:     "exclude project file",
			patterns: []string{"*.json"},
			exclude:  []string{"tagstream.json"},
			path:     "/project/tagstream.json",
			want:     false,
		},
		{
			name:     "match data file",
			patterns: []string{"*.json", "*.yaml"},
			exclude:  []string{"tagstream.json"},
			path:     "/project/data.yaml",
			want:     true,
		},
		{
			name:     "no match",
			patterns: []string{"*.graphql", "*.json"},
			path:     "/project/readme.md",
			want:     false,
		},
		{
			name:     "exclude with trailing slash",
			patterns: []string{"*"},
			exclude:  []string{"build/"},
			path:     "/project/build",
			want:     false,
		},
		{
			name:     "nested pattern with prefix",
			patterns: []string{"**/data.*"},
			path:     "/project/fixtures/data.yml",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, err := NewFileWatcher(tt.patterns, tt.exclude, func(string, fsnotify.Op) {})
			require.NoError(t, err)
			defer fw.Close()

			assert.Equal(t, tt.want, fw.shouldWatch(tt.path))
		})
	}
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()

	srcDir := filepath.Join(tmpDir, "schema")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	var (
		events   = map[string]bool{}
		eventsMu sync.Mutex
	)
	onChange := func(path string, op fsnotify.Op) {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		events[filepath.Base(path)] = true
	}

	fw, err := NewFileWatcher(
		[]string{"*.graphql", "**/*.graphql", "*.json"},
		[]string{"tagstream.json", "vendor/"},
		onChange,
	)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Start(ctx)

	// Give watcher time to start
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "shapes.graphql"), []byte("shape A { b: Int }"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "tagstream.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "data.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "nested.graphql"), []byte("type B { c: Int }"), 0644))

	vendorDir := filepath.Join(tmpDir, "vendor")
	require.NoError(t, os.MkdirAll(vendorDir, 0755))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "lib.graphql"), []byte("type C { d: Int }"), 0644))

	assert.Eventually(t, func() bool {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		return events["shapes.graphql"] && events["data.json"] && events["nested.graphql"]
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	eventsMu.Lock()
	defer eventsMu.Unlock()
	assert.False(t, events["tagstream.json"], "Should not have event for tagstream.json")
	assert.False(t, events["lib.graphql"], "Should not have event for vendor/lib.graphql")
}

func TestFileWatcher_StartCancelled(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.graphql"}, nil, func(string, fsnotify.Op) {})
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fw.Start(ctx), context.Canceled)
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher(
		[]string{"*.graphql"},
		[]string{},
		func(string, fsnotify.Op) {},
	)
	require.NoError(t, err)

	// Close should not error
	err = fw.Close()
	assert.NoError(t, err)

	// Double close should also be safe
	err = fw.Close()
	assert.NoError(t, err)
}
