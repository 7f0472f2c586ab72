// Package value holds the scalar payload carried by Value events.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind enumerates the scalar kinds a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindUInt
	KindFloat
	KindBool
	KindString
)

var kindNames = [...]string{
	KindNull:   "null",
	KindInt:    "int",
	KindUInt:   "uint",
	KindFloat:  "float",
	KindBool:   "bool",
	KindString: "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union of the scalars an accessor can produce.
// The zero Value is null.
type Value struct {
	kind Kind
	bits uint64
	str  string
}

// Null returns the empty payload.
func Null() Value { return Value{} }

// Int returns a signed integer payload.
func Int(v int64) Value { return Value{kind: KindInt, bits: uint64(v)} }

// UInt returns an unsigned integer payload.
func UInt(v uint64) Value { return Value{kind: KindUInt, bits: v} }

// Float returns a floating point payload.
func Float(v float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(v)} }

// Bool returns a boolean payload.
func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// String returns a string payload. The string is shared, not copied.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Bytes returns a string payload holding a copy of b.
func Bytes(b []byte) Value { return Value{kind: KindString, str: string(b)} }

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no payload.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the signed integer payload.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return int64(v.bits), true
}

// AsUInt returns the unsigned integer payload.
func (v Value) AsUInt() (uint64, bool) {
	if v.kind != KindUInt {
		return 0, false
	}
	return v.bits, true
}

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bits != 0, true
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Any converts v into the matching Go type: nil, int64, uint64, float64,
// bool or string.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return int64(v.bits)
	case KindUInt:
		return v.bits
	case KindFloat:
		return math.Float64frombits(v.bits)
	case KindBool:
		return v.bits != 0
	case KindString:
		return v.str
	}
	return nil
}

// Float64 converts any numeric payload to float64.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(int64(v.bits)), true
	case KindUInt:
		return float64(v.bits), true
	case KindFloat:
		return math.Float64frombits(v.bits), true
	}
	return 0, false
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.bits == o.bits && v.str == o.str
}

// String renders the payload for traces and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindUInt:
		return strconv.FormatUint(v.bits, 10)
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.bits != 0)
	case KindString:
		return strconv.Quote(v.str)
	}
	return fmt.Sprintf("<%s>", v.kind)
}

// Of converts a Go scalar into a Value. Unsupported types yield null.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return UInt(uint64(t))
	case uint8:
		return UInt(uint64(t))
	case uint16:
		return UInt(uint64(t))
	case uint32:
		return UInt(uint64(t))
	case uint64:
		return UInt(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case []byte:
		return Bytes(t)
	}
	return Null()
}
