package drain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/shapes"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// events replays a fixed event list, then closes forever.
type events struct {
	list []tagstream.Event
	pos  int
}

func (e *events) Next() (tagstream.Tag, value.Value) {
	if e.pos >= len(e.list) {
		return tagstream.Close, value.Null()
	}
	ev := e.list[e.pos]
	e.pos++
	return ev.Tag, ev.Value
}

func (e *events) Skip() {}

func (e *events) Fork() tagstream.Iterator {
	cp := *e
	return &cp
}

func term() *shapes.Term {
	return &shapes.Term{Type: "word", Value: "hello", Pos: 3, Len: 5}
}

func TestTree_Record(t *testing.T) {
	tree, err := Tree(shapes.TermShape.Iterator(term()))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":  "word",
		"value": "hello",
		"pos":   uint64(3),
		"len":   uint64(5),
	}, tree)
}

func TestTree_Array(t *testing.T) {
	src := []shapes.Term{*term(), {Type: "word", Value: "world", Pos: 9, Len: 5}}
	tree, err := Tree(shapes.TermArrayShape.Iterator(&src))
	require.NoError(t, err)

	list, ok := tree.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "world", list[1].(map[string]any)["value"])
}

func TestTree_QueryResult(t *testing.T) {
	// Test plan:
	// - Array members become slices, including empty ones
	// - Records inside arrays become maps

	src := &shapes.QueryResult{
		EvaluationPass: 1,
		NofRanked:      2,
		NofVisited:     5,
		Ranks: []shapes.ResultDocument{
			{Docno: 3, Weight: 1.5, SummaryElements: []shapes.SummaryElement{{Name: "title", Value: "Hi", Weight: 1, Index: -1}}},
			{Docno: 4, Weight: 0.5},
		},
	}
	tree, err := Tree(shapes.QueryResultShape.Iterator(src))
	require.NoError(t, err)

	want := map[string]any{
		"evaluationPass": uint64(1),
		"nofRanked":      uint64(2),
		"nofVisited":     uint64(5),
		"ranks": []any{
			map[string]any{
				"docno":  int64(3),
				"weight": 1.5,
				"summaryElements": []any{
					map[string]any{"name": "title", "value": "Hi", "weight": 1.0, "index": int64(-1)},
				},
			},
			map[string]any{
				"docno":           int64(4),
				"weight":          0.5,
				"summaryElements": []any{},
			},
		},
	}
	assert.Equal(t, want, tree)
}

func TestTree_NestedArrays(t *testing.T) {
	type grid struct{ Rows [][]int64 }
	shape := tagstream.MustShape("grid", layout.MustCompile(layout.Record(
		layout.Member("rows", layout.Array(0, layout.Array(1, layout.Scalar(0)))),
	)),
		func(g *grid, _ int, ix tagstream.Indices) value.Value {
			return value.Int(g.Rows[ix.At(0)][ix.At(1)])
		},
		func(g *grid, sel int, ix tagstream.Indices) int {
			if sel == 0 {
				return len(g.Rows)
			}
			return len(g.Rows[ix.At(0)])
		})

	tree, err := Tree(shape.Iterator(&grid{Rows: [][]int64{{1, 2}, {}, {3}}}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"rows": []any{[]any{int64(1), int64(2)}, []any{}, []any{int64(3)}},
	}, tree)
}

func TestTree_Empty(t *testing.T) {
	tree, err := Tree(shapes.TermShape.Iterator(nil))
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestWalk_Malformed(t *testing.T) {
	open := func(name string) tagstream.Event { return tagstream.Ev(tagstream.Open, value.String(name)) }
	val := tagstream.Ev(tagstream.Value, value.Int(1))
	closed := tagstream.Ev(tagstream.Close, value.Null())

	tests := []struct {
		name   string
		events []tagstream.Event
		err    error
	}{
		{"value at top", []tagstream.Event{val, closed}, ErrMalformed},
		{"two values in a member", []tagstream.Event{open("a"), val, val, closed, closed}, ErrMalformed},
		{"value between elements", []tagstream.Event{open("a"), tagstream.Ev(tagstream.Index, value.Null()), val, val, closed, closed}, ErrMalformed},
		{"numeric member name", []tagstream.Event{tagstream.Ev(tagstream.Open, value.Int(1)), val, closed, closed}, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b TreeBuilder
			err := Walk(&events{list: tt.events}, &b)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWalk_TooDeep(t *testing.T) {
	var list []tagstream.Event
	for i := 0; i <= MaxNesting; i++ {
		list = append(list, tagstream.Ev(tagstream.Open, value.String("a")))
	}
	var b TreeBuilder
	err := Walk(&events{list: list}, &b)
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestYAML_KeepsOrder(t *testing.T) {
	out, err := YAML(shapes.TermShape.Iterator(term()))
	require.NoError(t, err)
	assert.Equal(t, "type: word\nvalue: hello\npos: 3\nlen: 5\n", string(out))
}

func TestStruct_QueryResult(t *testing.T) {
	src := &shapes.QueryResult{
		EvaluationPass: 2,
		Ranks:          []shapes.ResultDocument{{Docno: 9, Weight: 0.5}},
	}
	v, err := Struct(shapes.QueryResultShape.Iterator(src))
	require.NoError(t, err)

	fields := v.GetStructValue().GetFields()
	assert.Equal(t, 2.0, fields["evaluationPass"].GetNumberValue())
	ranks := fields["ranks"].GetListValue().GetValues()
	require.Len(t, ranks, 1)
	assert.Equal(t, 9.0, ranks[0].GetStructValue().GetFields()["docno"].GetNumberValue())
}

func TestTrace(t *testing.T) {
	got := Trace(shapes.TermShape.Iterator(term()), 0)
	want := strings.Join([]string{
		`open("type")`,
		`  value("word")`,
		`close`,
		`open("value")`,
		`  value("hello")`,
		`close`,
		`open("pos")`,
		`  value(3)`,
		`close`,
		`open("len")`,
		`  value(5)`,
		`close`,
		`close`,
		``,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestTraceWriter_Numbered(t *testing.T) {
	w := NewTraceWriter("\t", true)
	w.Event(tagstream.Ev(tagstream.Open, value.String("a")))
	assert.Equal(t, 1, w.IndentLevel())
	w.Event(tagstream.Ev(tagstream.Close, value.Null()))
	w.Event(tagstream.Ev(tagstream.Close, value.Null()))
	assert.Equal(t, 0, w.IndentLevel())
	assert.Equal(t, "   0 open(\"a\")\n   1 close\n   2 close\n", w.String())

	w.Reset()
	assert.Empty(t, w.String())
}

func TestTraceWriter_Skip(t *testing.T) {
	w := NewTraceWriter("  ", true)
	w.Event(tagstream.Ev(tagstream.Open, value.String("a")))
	w.Event(tagstream.Ev(tagstream.Index, value.Null()))
	w.Skip()
	w.Event(tagstream.Ev(tagstream.Close, value.Null()))
	assert.Equal(t, "   0 open(\"a\")\n   1   index\n     skip\n   2 close\n", w.String())
}

func TestSelect(t *testing.T) {
	tree, err := Tree(shapes.QueryResultShape.Iterator(&shapes.QueryResult{
		Ranks: []shapes.ResultDocument{{Docno: 3}, {Docno: 11}},
	}))
	require.NoError(t, err)

	nodes, err := Select(tree, "$.ranks[*].docno")
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 11.0}, nodes)

	_, err = Select(tree, "")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = Select(tree, "$.[")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestRegistry_Formats(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"json", "protobuf", "protojson", "trace", "yaml"}, r.Formats())

	_, err := r.Get("xml")
	assert.Error(t, err)

	enc, err := r.Get("json")
	require.NoError(t, err)
	assert.Equal(t, "json", enc.Format())
	out, err := enc.Encode(shapes.TermShape.Iterator(term()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"word","value":"hello","pos":3,"len":5}`, string(out))
}

func TestRegistry_Protobuf(t *testing.T) {
	enc, err := NewRegistry().Get("protobuf")
	require.NoError(t, err)
	out, err := enc.Encode(shapes.TermShape.Iterator(term()))
	require.NoError(t, err)

	var decoded structpb.Value
	require.NoError(t, proto.Unmarshal(out, &decoded))
	assert.Equal(t, "hello", decoded.GetStructValue().GetFields()["value"].GetStringValue())

	enc, err = NewRegistry().Get("protojson")
	require.NoError(t, err)
	out, err = enc.Encode(shapes.TermShape.Iterator(term()))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type"`)
	assert.Contains(t, string(out), `"word"`)
}
