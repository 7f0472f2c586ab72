package dynamic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/tagstream/internal/conformance"
	"github.com/okra-platform/tagstream/internal/drain"
	"github.com/okra-platform/tagstream/internal/schema"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

const resultSchema = `@tagstream(name: "search", root: "Result")

enum Kind {
  WORD
  NUMBER
}

type Summary {
  name: String!
  value: String
}

type Rank {
  docno: ID @key(name: "doc_no")
  weight: Float
  summary: [Summary]
}

shape Result {
  pass: Int!
  ranks: [Rank]
  grid: [[Float]]
  kind: Kind
}
`

const resultJSON = `{
  "pass": 1,
  "ranks": [
    {"doc_no": 7, "weight": 0.5, "summary": [{"name": "title", "value": "x"}]},
    {"doc_no": "d9", "weight": "heavy"}
  ],
  "grid": [[1, 2], [], [3.5]],
  "kind": "WORD"
}`

func mustSchema(t *testing.T, input string) *schema.Schema {
	t.Helper()
	s, err := schema.ParseSchema(input)
	require.NoError(t, err)
	return s
}

func mustShape(t *testing.T, input string, root string) *tagstream.Shape[any] {
	t.Helper()
	shape, err := Compile(mustSchema(t, input), root)
	require.NoError(t, err)
	return shape
}

func TestCompile_Tree(t *testing.T) {
	// Test plan:
	// - Drain a compiled shape over JSON data into a tree
	// - @key renames the data key, not the member
	// - Mistyped data yields null, missing arrays are empty
	// - Nested lists become nested arrays

	shape := mustShape(t, resultSchema, "")
	assert.Equal(t, "Result", shape.Name())

	data, err := DecodeJSON([]byte(resultJSON))
	require.NoError(t, err)

	tree, err := drain.Tree(shape.Iterator(&data))
	require.NoError(t, err)

	want := map[string]any{
		"pass": int64(1),
		"ranks": []any{
			map[string]any{
				"docno":   "7",
				"weight":  0.5,
				"summary": []any{map[string]any{"name": "title", "value": "x"}},
			},
			map[string]any{
				"docno":   "d9",
				"weight":  nil,
				"summary": []any{},
			},
		},
		"grid": []any{[]any{1.0, 2.0}, []any{}, []any{3.5}},
		"kind": "WORD",
	}
	assert.Equal(t, want, tree)
}

func TestCompile_Events(t *testing.T) {
	shape := mustShape(t, "shape P {\n  a: Int\n  b: [String]\n}", "")

	data, err := DecodeJSON([]byte(`{"a": 1, "b": ["x"]}`))
	require.NoError(t, err)

	want := []tagstream.Event{
		tagstream.Ev(tagstream.Open, value.String("a")),
		tagstream.Ev(tagstream.Value, value.Int(1)),
		tagstream.Ev(tagstream.Close, value.Null()),
		tagstream.Ev(tagstream.Open, value.String("b")),
		tagstream.Ev(tagstream.Index, value.Null()),
		tagstream.Ev(tagstream.Value, value.String("x")),
		tagstream.Ev(tagstream.Close, value.Null()),
		tagstream.Ev(tagstream.Close, value.Null()),
	}
	assert.Equal(t, want, tagstream.Collect(shape.Iterator(&data), 100))
}

func TestCompile_YAML(t *testing.T) {
	shape := mustShape(t, resultSchema, "Result")

	data, err := DecodeYAML([]byte(`
pass: 2
ranks:
  - doc_no: r1
    weight: 1
grid:
  - [0.25]
kind: NUMBER
`))
	require.NoError(t, err)

	tree, err := drain.Tree(shape.Iterator(&data))
	require.NoError(t, err)

	want := map[string]any{
		"pass": int64(2),
		"ranks": []any{
			map[string]any{"docno": "r1", "weight": 1.0, "summary": []any{}},
		},
		"grid": []any{[]any{0.25}},
		"kind": "NUMBER",
	}
	assert.Equal(t, want, tree)
}

func TestCompile_MissingData(t *testing.T) {
	shape := mustShape(t, resultSchema, "")

	var data any
	tree, err := drain.Tree(shape.Iterator(&data))
	require.NoError(t, err)

	want := map[string]any{
		"pass":  nil,
		"ranks": []any{},
		"grid":  []any{},
		"kind":  nil,
	}
	assert.Equal(t, want, tree)
}

func TestCompile_Conformance(t *testing.T) {
	// Test plan:
	// - All stream properties hold over full, partial and absent data
	// - A cursor without a source is null safe

	shape := mustShape(t, resultSchema, "")

	full, err := DecodeJSON([]byte(resultJSON))
	require.NoError(t, err)
	partial, err := DecodeJSON([]byte(`{"ranks": [{}, {"summary": [{}, {}]}], "grid": [[], [[1]]]}`))
	require.NoError(t, err)
	var absent any
	scalar := any("not an object")

	sources := map[string]*any{
		"full":    &full,
		"partial": &partial,
		"absent":  &absent,
		"scalar":  &scalar,
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, conformance.Check("Result", func() tagstream.Iterator {
				return shape.Iterator(src)
			}))
		})
	}

	assert.NoError(t, conformance.CheckNull("Result", shape.Iterator(nil)))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		root   string
		target error
	}{
		{
			name:   "recursive type",
			input:  "shape Node {\n  next: Node\n}",
			target: ErrRecursiveType,
		},
		{
			name:   "recursive through a list",
			input:  "shape Tree {\n  children: [Child]\n}\n\ntype Child {\n  tree: Tree\n}",
			target: ErrRecursiveType,
		},
		{
			name:   "unknown field type",
			input:  "shape A {\n  b: Missing\n}",
			target: ErrUnknownType,
		},
		{
			name:   "unknown root",
			input:  "shape A {\n  b: Int\n}",
			root:   "B",
			target: ErrUnknownType,
		},
		{
			name:   "enum root",
			input:  "enum E {\n  X\n}",
			root:   "E",
			target: ErrUnknownType,
		},
		{
			name:   "no root",
			input:  "shape A {\n  b: Int\n}\n\nshape B {\n  c: Int\n}",
			target: ErrNoRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(mustSchema(t, tt.input), tt.root)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestCompile_SharedType(t *testing.T) {
	// A type used twice side by side is not recursive
	shape := mustShape(t, "shape Pair {\n  left: Point\n  right: Point\n}\n\ntype Point {\n  x: Int\n}", "")

	data, err := DecodeJSON([]byte(`{"left": {"x": 1}, "right": {"x": 2}}`))
	require.NoError(t, err)

	tree, err := drain.Tree(shape.Iterator(&data))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"left":  map[string]any{"x": int64(1)},
		"right": map[string]any{"x": int64(2)},
	}, tree)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind ScalarKind
		want value.Value
	}{
		{"string", "a", KindString, value.String("a")},
		{"string from number", 1.0, KindString, value.Null()},
		{"id from integer", int64(42), KindID, value.String("42")},
		{"int from float", 3.0, KindInt, value.Int(3)},
		{"int from fraction", 3.5, KindInt, value.Null()},
		{"int from uint", uint64(5), KindInt, value.Int(5)},
		{"float from int", int64(-2), KindFloat, value.Float(-2)},
		{"bool", true, KindBool, value.Bool(true)},
		{"bool from string", "true", KindBool, value.Null()},
		{"nil", nil, KindInt, value.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert(tt.in, tt.kind))
		})
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"a": [1, "b"]}`), 0644))
	tree, err := LoadData(jsonPath)
	require.NoError(t, err)
	m, ok := tree.(map[string]any)
	require.True(t, ok)
	assert.Len(t, m["a"], 2)

	yamlPath := filepath.Join(dir, "data.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("a:\n  - 1\n  - b\n"), 0644))
	tree, err = LoadData(yamlPath)
	require.NoError(t, err)
	m, ok = tree.(map[string]any)
	require.True(t, ok)
	assert.Len(t, m["a"], 2)

	txtPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("a"), 0644))
	_, err = LoadData(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedData)

	_, err = LoadData(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0644))
	_, err = LoadData(badPath)
	assert.Error(t, err)
}

func TestLoadShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.graphql")
	require.NoError(t, os.WriteFile(path, []byte(resultSchema), 0644))

	shape, err := LoadShape(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Result", shape.Name())

	_, err = LoadShape(filepath.Join(dir, "missing.graphql"), "")
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.graphql")
	require.NoError(t, os.WriteFile(bad, []byte("type {"), 0644))
	_, err = LoadShape(bad, "")
	assert.Error(t, err)
}

func TestNewPlan(t *testing.T) {
	// Test plan:
	// - Every selector has a route, in selector order
	// - Index steps carry the array level, field steps the schema field
	// - KindOf maps scalars and enums

	s := mustSchema(t, resultSchema)
	plan, err := NewPlan(s, "")
	require.NoError(t, err)
	assert.Equal(t, "Result", plan.Name)
	require.Len(t, plan.Values, 7)
	require.Len(t, plan.Arrays, 4)

	leaves := make([]string, len(plan.Values))
	for i, r := range plan.Values {
		leaves[i] = r.Leaf().Name
	}
	assert.Equal(t, []string{"pass", "docno", "weight", "name", "value", "grid", "kind"}, leaves)

	summaryName := plan.Values[3]
	require.Len(t, summaryName, 5)
	assert.Equal(t, "ranks", summaryName[0].Field.Name)
	assert.Nil(t, summaryName[1].Field)
	assert.Equal(t, 0, summaryName[1].Level)
	assert.Equal(t, "summary", summaryName[2].Field.Name)
	assert.Equal(t, 1, summaryName[3].Level)
	assert.Equal(t, "name", summaryName[4].Field.Name)

	gridRow := plan.Arrays[3]
	require.Len(t, gridRow, 2)
	assert.Equal(t, "grid", gridRow[0].Field.Name)
	assert.Equal(t, 0, gridRow[1].Level)

	assert.Equal(t, KindID, KindOf(s, "ID"))
	assert.Equal(t, KindEnum, KindOf(s, "Kind"))
	assert.Equal(t, KindString, KindOf(s, "Rank"))
	assert.Nil(t, Route(nil).Leaf())
}
