package canframe

import (
	"math"
	"strconv"
)

// Kind tags which member of a Value is set.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindInt
	KindUint
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindNamed:
		return "named"
	default:
		return "invalid"
	}
}

// Value is a signal value: a number or a choice name.
// Use Float, Int, Uint or Named to build one; exactly one member is meaningful
// for a given Kind. The struct tags make Values serializable by the codec package.
type Value struct {
	Kind  Kind    `json:"kind" cbor:"1,keyasint" msgpack:"kind"`
	Float float64 `json:"float,omitempty" cbor:"2,keyasint,omitempty" msgpack:"float,omitempty"`
	Int   int64   `json:"int,omitempty" cbor:"3,keyasint,omitempty" msgpack:"int,omitempty"`
	Uint  uint64  `json:"uint,omitempty" cbor:"4,keyasint,omitempty" msgpack:"uint,omitempty"`
	Name  string  `json:"name,omitempty" cbor:"5,keyasint,omitempty" msgpack:"name,omitempty"`
}

// Values maps signal names to values.
type Values map[string]Value

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func Int(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func Uint(u uint64) Value   { return Value{Kind: KindUint, Uint: u} }
func Named(s string) Value  { return Value{Kind: KindNamed, Name: s} }

func (v Value) IsNamed() bool { return v.Kind == KindNamed }

// Number returns the numeric value as float64. ok is false for names.
func (v Value) Number() (f float64, ok bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	case KindUint:
		return float64(v.Uint), true
	default:
		return 0, false
	}
}

// integer returns v as an int64 when it is an exact integer in range.
func (v Value) integer() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindUint:
		if v.Uint > math.MaxInt64 {
			return 0, false
		}
		return int64(v.Uint), true
	case KindFloat:
		if v.Float != math.Trunc(v.Float) || math.Abs(v.Float) >= 1<<63 {
			return 0, false
		}
		return int64(v.Float), true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindUint:
		return strconv.FormatUint(v.Uint, 10)
	case KindNamed:
		return strconv.Quote(v.Name)
	default:
		return "<invalid>"
	}
}
