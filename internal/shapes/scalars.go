package shapes

import (
	"github.com/okra-platform/tagstream/internal/layout"
	"github.com/okra-platform/tagstream/internal/value"
)

var (
	IntArrayShape = array("int[]", layout.Scalar(0), func(v *int64, _ int) value.Value {
		return value.Int(*v)
	})
	FloatArrayShape = array("float[]", layout.Scalar(0), func(v *float64, _ int) value.Value {
		return value.Float(*v)
	})
	StringArrayShape = array("string[]", layout.Scalar(0), func(v *string, _ int) value.Value {
		return value.String(*v)
	})
)
