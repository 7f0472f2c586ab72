package conformance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// replay plays back a recorded stream. The flags make it misbehave in
// specific ways.
type replay struct {
	events []tagstream.Event
	pos    int
	shared *int // when set, forks share the position

	brokenSkip bool
}

func (r *replay) cur() *int {
	if r.shared != nil {
		return r.shared
	}
	return &r.pos
}

func (r *replay) Next() (tagstream.Tag, value.Value) {
	p := r.cur()
	if *p >= len(r.events) {
		return tagstream.Close, value.Null()
	}
	ev := r.events[*p]
	*p++
	return ev.Tag, ev.Value
}

func (r *replay) Skip() {
	if r.brokenSkip {
		return
	}
	p := r.cur()
	if *p >= len(r.events) {
		return
	}
	*p = scopeEnd(r.events, *p) + 1
}

func (r *replay) Fork() tagstream.Iterator {
	cp := *r
	return &cp
}

var (
	openA  = tagstream.Ev(tagstream.Open, value.String("a"))
	one    = tagstream.Ev(tagstream.Value, value.Int(1))
	closed = tagstream.Ev(tagstream.Close, value.Null())
)

func recorded() []tagstream.Event {
	return []tagstream.Event{openA, one, closed, openA, one, closed, closed}
}

func TestCheck_Replay(t *testing.T) {
	err := Check("replay", func() tagstream.Iterator { return &replay{events: recorded()} })
	require.NoError(t, err)
}

func TestCheck_Violations(t *testing.T) {
	// Test plan:
	// - A skip that does nothing breaks skip equivalence
	// - Forks sharing state break clone independence
	// - Close or Index events with payloads are not well formed
	// - Events after the final close are caught by the skip replay

	tests := []struct {
		name    string
		newIter func() tagstream.Iterator
		want    Property
	}{
		{
			name: "skip is a no-op",
			newIter: func() tagstream.Iterator {
				return &replay{events: recorded(), brokenSkip: true}
			},
			want: SkipEquivalence,
		},
		{
			name: "forks share position",
			newIter: func() tagstream.Iterator {
				return &replay{events: recorded(), shared: new(int)}
			},
			want: CloneIndependence,
		},
		{
			name: "close with payload",
			newIter: func() tagstream.Iterator {
				return &replay{events: []tagstream.Event{
					openA, tagstream.Ev(tagstream.Close, value.Int(3)), closed,
				}}
			},
			want: WellFormed,
		},
		{
			name: "index with payload",
			newIter: func() tagstream.Iterator {
				return &replay{events: []tagstream.Event{
					tagstream.Ev(tagstream.Index, value.Int(0)), one, closed,
				}}
			},
			want: WellFormed,
		},
		{
			name: "events after the final close",
			newIter: func() tagstream.Iterator {
				return &replay{events: []tagstream.Event{closed, one}}
			},
			want: SkipEquivalence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check("broken", tt.newIter)
			var v *Violation
			require.True(t, errors.As(err, &v), "got %v", err)
			assert.Equal(t, tt.want, v.Property)
			assert.Equal(t, "broken", v.Shape)
			assert.Contains(t, err.Error(), string(tt.want))
		})
	}
}

type endless struct{}

func (endless) Next() (tagstream.Tag, value.Value) { return tagstream.Index, value.Null() }
func (endless) Skip() {}
func (e endless) Fork() tagstream.Iterator { return e }

func TestDrain_Termination(t *testing.T) {
	events, err := Drain("endless", endless{}, 10)
	assert.Len(t, events, 10)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, Termination, v.Property)
}

func TestCheckNull(t *testing.T) {
	require.NoError(t, CheckNull("empty", &replay{}))

	err := CheckNull("not empty", &replay{events: recorded(), brokenSkip: true})
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, NullSafety, v.Property)
}

func TestCheck_CompiledShape(t *testing.T) {
	// Test plan:
	// - Every position of a compiled nested shape passes all properties

	type doc struct {
		ID   string
		Tags [][]string
	}
	shape := tagstream.MustShape("doc", layout.MustCompile(layout.Record(
		layout.Member("id", layout.Scalar(0)),
		layout.Member("tags", layout.Array(0, layout.Array(1, layout.Scalar(1)))),
	)),
		func(src *doc, sel int, ix tagstream.Indices) value.Value {
			if sel == 0 {
				return value.String(src.ID)
			}
			return value.String(src.Tags[ix.At(0)][ix.At(1)])
		},
		func(src *doc, sel int, ix tagstream.Indices) int {
			if sel == 0 {
				return len(src.Tags)
			}
			return len(src.Tags[ix.At(0)])
		})

	docs := []doc{
		{},
		{ID: "a", Tags: [][]string{{}}},
		{ID: "b", Tags: [][]string{{"x", "y"}, {}, {"z"}}},
	}
	for i := range docs {
		err := Check("doc", func() tagstream.Iterator { return shape.Iterator(&docs[i]) })
		require.NoError(t, err)
	}
}

func TestCountIndex(t *testing.T) {
	idx := tagstream.Ev(tagstream.Index, value.Null())
	events := []tagstream.Event{idx, openA, idx, one, idx, one, closed, idx, closed}
	assert.Equal(t, 2, CountIndex(events, 0))
	assert.Equal(t, 2, CountIndex(events, 1))
}
