package typescript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/tagstream/internal/schema"
)

func TestGenerator_EmptySchema(t *testing.T) {
	// Test: Empty schema generates no declarations
	code, err := NewGenerator("").Generate(&schema.Schema{})
	require.NoError(t, err)
	assert.Equal(t, "", strings.TrimSpace(string(code)))
}

func TestGenerator_Interfaces(t *testing.T) {
	// Test plan:
	// - Scalars are nullable, records are not
	// - Lists keep nullable scalar elements
	// - Enums become string unions with a type guard
	s, err := schema.ParseSchema(`enum Kind {
  WORD
  NUMBER
}

"""
A ranked document
"""
type Rank {
  docno: ID!
  weight: Float
}

shape Result {
  ranks: [Rank]
  grid: [[Float]]
  kind: Kind
  exact: Boolean!
  words: [String]
}
`)
	require.NoError(t, err)

	code, err := NewGenerator("").Generate(s)
	require.NoError(t, err)
	result := string(code)

	assert.Contains(t, result, `export const KindValues = ["WORD", "NUMBER"] as const;`)
	assert.Contains(t, result, "export type Kind = (typeof KindValues)[number];")
	assert.Contains(t, result, "export function isKind(value: unknown): value is Kind {")

	assert.Contains(t, result, "/** A ranked document */\nexport interface Rank {")
	assert.Contains(t, result, "  docno: string | null;")
	assert.Contains(t, result, "  weight: number | null;")

	assert.Contains(t, result, "  ranks: Rank[];")
	assert.Contains(t, result, "  grid: (number | null)[][];")
	assert.Contains(t, result, "  kind: Kind | null;")
	assert.Contains(t, result, "  exact: boolean | null;")
	assert.Contains(t, result, "  words: (string | null)[];")
}

func TestGenerator_Namespace(t *testing.T) {
	s := &schema.Schema{Types: []schema.ObjectType{{
		Name:   "Point",
		Fields: []schema.Field{{Name: "x", Type: "Int"}},
	}}}

	code, err := NewGenerator("Search").Generate(s)
	require.NoError(t, err)

	assert.Equal(t, "export namespace Search {\n  export interface Point {\n    x: number | null;\n  }\n}\n", string(code))
}

func TestGenerator_UnknownType(t *testing.T) {
	s := &schema.Schema{Types: []schema.ObjectType{{
		Name:   "A",
		Fields: []schema.Field{{Name: "b", Type: "[Missing]"}},
	}}}

	_, err := NewGenerator("").Generate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A.b: unknown type [Missing]")
}
