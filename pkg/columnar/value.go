package columnar

import (
	"fmt"
	"math"

	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	// KindNull marks an absent value
	KindNull Kind = iota
	// KindString marks a string value
	KindString
	// KindUint64 marks an unsigned integer value
	KindUint64
	// KindFloat64 marks a floating point value
	KindFloat64
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindUint64:
		return "uint64"
	case KindFloat64:
		return "float64"
	default:
		return "invalid"
	}
}

// Value is a dynamically typed cell used while staging data before it is
// committed to a typed column. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	u    uint64
	f    float64
}

// Null is the absent value
var Null = Value{}

// StringValue returns a string cell
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// OptionalString returns a string cell, or Null when s is nil
func OptionalString(s *string) Value {
	if s == nil {
		return Null
	}
	return Value{kind: KindString, s: *s}
}

// Uint64Value returns an unsigned integer cell
func Uint64Value(u uint64) Value { return Value{kind: KindUint64, u: u} }

// Float64Value returns a floating point cell
func Float64Value(f float64) Value { return Value{kind: KindFloat64, f: f} }

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the absent value
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v. Only string cells qualify.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", mismatch(String, v)
	}
	return v.s, nil
}

// AsUint64 returns the unsigned integer held by v. Floats are never
// truncated into integers.
func (v Value) AsUint64() (uint64, error) {
	if v.kind != KindUint64 {
		return 0, mismatch(Uint64, v)
	}
	return v.u, nil
}

// AsFloat64 returns the float held by v. Integers are never widened into
// floats.
func (v Value) AsFloat64() (float64, error) {
	if v.kind != KindFloat64 {
		return 0, mismatch(Float64, v)
	}
	return v.f, nil
}

// Interface returns v as a plain Go value: string, uint64, float64 or nil
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindUint64:
		return v.u
	case KindFloat64:
		return v.f
	default:
		return nil
	}
}

// Equal compares kind and payload. NaN floats compare equal to each other
// so that tables holding NaN still compare equal to their copies.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindUint64:
		return v.u == o.u
	case KindFloat64:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	default:
		return true
	}
}

// Less orders values of the same kind; nulls sort first and NaN sorts
// before every other float
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		return v.kind < o.kind
	}
	switch v.kind {
	case KindString:
		return v.s < o.s
	case KindUint64:
		return v.u < o.u
	case KindFloat64:
		if math.IsNaN(v.f) {
			return !math.IsNaN(o.f)
		}
		if math.IsNaN(o.f) {
			return false
		}
		return v.f < o.f
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindUint64:
		return fmt.Sprintf("%d", v.u)
	case KindFloat64:
		return fmt.Sprintf("%g", v.f)
	default:
		return "null"
	}
}

func mismatch(want DataType, got Value) *errors.Error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "cannot coerce %s to %s", got.kind, want).
		WithDetail("expected", want.String()).
		WithDetail("actual", got.kind.String())
}
