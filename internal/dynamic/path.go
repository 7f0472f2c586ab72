package dynamic

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/okra-platform/tagstream/internal/tagstream"
	"github.com/okra-platform/tagstream/internal/value"
)

// step is a map key, or the current element of the array at level when
// level is not negative.
type step struct {
	key   string
	level int
}

// path locates a node of a decoded tree relative to the cursor indices.
type path []step

// pathOf maps the fields of a route onto their data keys.
func pathOf(r Route) path {
	p := make(path, len(r))
	for i, s := range r {
		if s.Field != nil {
			p[i] = step{key: s.Field.Key(), level: tagstream.NoLevel}
			continue
		}
		p[i] = step{level: s.Level}
	}
	return p
}

func (p path) resolve(root any, ix tagstream.Indices) (any, bool) {
	cur := root
	for _, s := range p {
		if s.level < 0 {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = m[s.key]; !ok {
				return nil, false
			}
			continue
		}
		list, ok := cur.([]any)
		i := ix.At(s.level)
		if !ok || i < 0 || i >= len(list) {
			return nil, false
		}
		cur = list[i]
	}
	return cur, true
}

// convert maps decoded data onto the declared scalar type. Data of another
// type yields null.
func convert(v any, kind ScalarKind) value.Value {
	switch kind {
	case KindString, KindEnum:
		if s, ok := v.(string); ok {
			return value.String(s)
		}
	case KindID:
		switch t := v.(type) {
		case string:
			return value.String(t)
		case json.Number:
			return value.String(t.String())
		}
		if n, ok := toInt(v); ok {
			return value.String(strconv.FormatInt(n, 10))
		}
	case KindInt:
		if n, ok := toInt(v); ok {
			return value.Int(n)
		}
	case KindFloat:
		if f, ok := toFloat(v); ok {
			return value.Float(f)
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return value.Bool(b)
		}
	}
	return value.Null()
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		return int64(t), t <= math.MaxInt64
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > 1<<53 {
			return 0, false
		}
		return int64(t), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	}
	if n, ok := toInt(v); ok {
		return float64(n), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return 0, false
}
