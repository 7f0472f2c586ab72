package drain

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
)

var ErrInvalidPath = errors.New("invalid JSONPath")

// Select evaluates a JSONPath query such as "$.ranks[*].docno" against a
// tree built by TreeBuilder and returns the matching nodes in document order.
func Select(tree any, expr string) ([]any, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidPath)
	}
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidPath, expr, err)
	}
	return path.Select(normalize(tree)), nil
}

// normalize converts the integer leaves of a tree to float64, the number
// type JSONPath filter comparisons expect.
func normalize(tree any) any {
	switch t := tree.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalize(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = normalize(v)
		}
		return out
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return tree
}
