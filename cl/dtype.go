package cl

import "github.com/cwbudde/algo-bitonic/internal/btypes"

// DType identifies the element type of a device buffer.
type DType uint8

const (
	InvalidDType DType = iota
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// DTypeOf maps a Go element type to its DType.
func DTypeOf[T btypes.Element]() DType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return InvalidDType
}

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

func (d DType) String() string {
	switch d {
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "invalid"
}

// CName returns the kernel-source spelling of the type, used when the
// element type is baked into generated kernel text.
func (d DType) CName() string {
	switch d {
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Int64:
		return "long"
	case Uint64:
		return "ulong"
	case Float32:
		return "float"
	case Float64:
		return "double"
	}
	return ""
}
