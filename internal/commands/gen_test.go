package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Gen(t *testing.T) {
	// Test plan:
	// - Go output is formatted and declares the shape
	// - proto and typescript output go through the registry
	// - --out writes a file instead of the command output
	cfg, dir := writeProject(t)
	schemaPath := filepath.Join(dir, cfg.Schema)

	c, out := newTestController(&Flags{Schema: schemaPath, Package: "pairs"})
	require.NoError(t, c.Gen(context.Background()))
	assert.Contains(t, out.String(), "package pairs\n")
	assert.Contains(t, out.String(), "type Pair struct {")
	assert.Contains(t, out.String(), "var PairShape = tagstream.MustShape(")

	c, out = newTestController(&Flags{Schema: schemaPath, Lang: "proto"})
	require.NoError(t, c.Gen(context.Background()))
	assert.Contains(t, out.String(), "message Pair {")
	assert.Contains(t, out.String(), "repeated string right = 2;")

	c, out = newTestController(&Flags{Schema: schemaPath, Lang: "ts"})
	require.NoError(t, c.Gen(context.Background()))
	assert.Contains(t, out.String(), "export interface Pair {")

	target := filepath.Join(dir, "pair_gen.go")
	c, out = newTestController(&Flags{Schema: schemaPath, Out: target})
	require.NoError(t, c.Gen(context.Background()))
	assert.Empty(t, out.String())
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "package shapes\n")
}

func TestController_Gen_Errors(t *testing.T) {
	cfg, dir := writeProject(t)
	schemaPath := filepath.Join(dir, cfg.Schema)

	c, _ := newTestController(&Flags{Schema: schemaPath, Lang: "cobol"})
	assert.EqualError(t, c.Gen(context.Background()), "unsupported language: cobol")

	c, _ = newTestController(&Flags{Schema: filepath.Join(dir, "missing.graphql")})
	assert.ErrorContains(t, c.Gen(context.Background()), "failed to read schema")

	recursive := filepath.Join(dir, "recursive.graphql")
	require.NoError(t, os.WriteFile(recursive, []byte("shape Node {\n  next: Node\n}\n"), 0644))
	c, _ = newTestController(&Flags{Schema: recursive})
	assert.ErrorContains(t, c.Gen(context.Background()), "failed to generate go code")

	c, _ = newTestController(&Flags{Schema: schemaPath, Out: filepath.Join(dir, "missing", "x.go")})
	assert.ErrorContains(t, c.Gen(context.Background()), "failed to write")
}
