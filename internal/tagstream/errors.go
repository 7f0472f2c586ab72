package tagstream

import "errors"

var (
	// Table validation errors
	ErrEmptyTable      = errors.New("table has no rows")
	ErrTerminalRow     = errors.New("row 0 must be a self-looping close")
	ErrStateRange      = errors.New("transition target out of range")
	ErrNameRange       = errors.New("name index out of range")
	ErrValueRange      = errors.New("value index out of range")
	ErrLevelRange      = errors.New("level out of range")
	ErrKindMismatch    = errors.New("value kind does not match tag")
	ErrMissingAccessor = errors.New("shape needs an accessor")
	ErrMissingCounter  = errors.New("shape with arrays needs a counter")
)
