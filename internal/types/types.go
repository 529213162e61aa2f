package types

// Type is a handle into a Table. The zero value is NoType.
type Type int32

// NoType is the invalid handle.
const NoType Type = 0

// Kind tags the variant of a type record.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindError
	KindPrimitive
	KindFunction
	KindTuple
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindPrimitive:
		return "primitive"
	case KindFunction:
		return "function"
	case KindTuple:
		return "tuple"
	case KindVar:
		return "variable"
	default:
		return "invalid"
	}
}

// PrimKind enumerates the built-in primitive types.
type PrimKind uint8

const (
	Void PrimKind = iota
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float
	Float32
	Float64
	String

	numPrims
)

var primNames = [numPrims]string{
	Void:    "void",
	Bool:    "bool",
	Int:     "int",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float:   "float",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
}

func (p PrimKind) String() string {
	if p < numPrims {
		return primNames[p]
	}
	return "invalid"
}

// IsInteger reports whether p is one of the integer kinds.
func (p PrimKind) IsInteger() bool {
	return p >= Int && p <= Uint64
}

// IsFloat reports whether p is one of the floating point kinds.
func (p PrimKind) IsFloat() bool {
	return p >= Float && p <= Float64
}

// LookupPrimitive resolves a primitive type name.
func LookupPrimitive(name string) (PrimKind, bool) {
	for k, n := range primNames {
		if n == name {
			return PrimKind(k), true
		}
	}
	return 0, false
}
