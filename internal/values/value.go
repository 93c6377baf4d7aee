// Package values defines the closed, type-erased value model shared by
// every cooperative thread and its subgroup scheduler: scalar values,
// operation tags, thread state, and the Command/Result pair exchanged at
// each suspension point.
package values

import "math"

// ValueType tags the scalar type carried by a RawValue. The set is closed:
// bool, i32, u32, f32, f64.
type ValueType uint8

const (
	Bool ValueType = iota
	I32
	U32
	F32
	F64
)

// String returns a human-readable name for the value type.
func (vt ValueType) String() string {
	switch vt {
	case Bool:
		return "bool"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// RawValue is 64 bits of type-erased scalar storage. It is always paired
// with a ValueType tag that says how to interpret the bits.
type RawValue uint64

// RawValueFromBool packs a bool into a RawValue.
func RawValueFromBool(b bool) RawValue {
	if b {
		return 1
	}
	return 0
}

// RawValueFromI32 packs an int32 into a RawValue.
func RawValueFromI32(v int32) RawValue { return RawValue(uint32(v)) }

// RawValueFromU32 packs a uint32 into a RawValue.
func RawValueFromU32(v uint32) RawValue { return RawValue(v) }

// RawValueFromF32 packs a float32 into a RawValue.
func RawValueFromF32(v float32) RawValue { return RawValue(math.Float32bits(v)) }

// RawValueFromF64 packs a float64 into a RawValue.
func RawValueFromF64(v float64) RawValue { return RawValue(math.Float64bits(v)) }

// Bool unpacks the RawValue as a bool.
func (v RawValue) Bool() bool { return v != 0 }

// I32 unpacks the RawValue as an int32.
func (v RawValue) I32() int32 { return int32(uint32(v)) }

// U32 unpacks the RawValue as a uint32.
func (v RawValue) U32() uint32 { return uint32(v) }

// F32 unpacks the RawValue as a float32.
func (v RawValue) F32() float32 { return math.Float32frombits(uint32(v)) }

// F64 unpacks the RawValue as a float64.
func (v RawValue) F64() float64 { return math.Float64frombits(uint64(v)) }

// AsF64 widens the RawValue to float64 according to typ, for use by
// collective kernels that need a common arithmetic type.
func (v RawValue) AsF64(typ ValueType) float64 {
	switch typ {
	case I32:
		return float64(v.I32())
	case U32:
		return float64(v.U32())
	case F32:
		return float64(v.F32())
	case F64:
		return v.F64()
	case Bool:
		if v.Bool() {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// FromF64 narrows a float64 arithmetic result back into typ's RawValue
// representation.
func FromF64(typ ValueType, f float64) RawValue {
	switch typ {
	case I32:
		return RawValueFromI32(int32(f))
	case U32:
		return RawValueFromU32(uint32(f))
	case F32:
		return RawValueFromF32(float32(f))
	case F64:
		return RawValueFromF64(f)
	case Bool:
		return RawValueFromBool(f != 0)
	default:
		return 0
	}
}
