package vertexformat

import "fmt"

// AttributeKind tags the variant held by an AttributeType.
type AttributeKind int

const (
	// AttributePoison marks a field whose derivation failed. It is the zero
	// value so a zero AttributeType is never mistaken for a valid one.
	AttributePoison AttributeKind = iota

	// AttributeFloat is a floating-point component.
	AttributeFloat

	// AttributeInt is an integer component.
	AttributeInt
)

// FloatPrecision selects the runtime precision a float component is consumed at.
type FloatPrecision int

const (
	// PrecisionDefault consumes the component at single precision.
	PrecisionDefault FloatPrecision = iota

	// PrecisionPrecise consumes the component at double precision.
	PrecisionPrecise
)

// IntMode selects how an integer component is interpreted at draw time.
type IntMode int

const (
	// IntRaw passes the integer value through unchanged.
	IntRaw IntMode = iota

	// IntNormalized maps the integer range onto [0, 1] (unsigned) or [-1, 1] (signed).
	IntNormalized

	// IntAsFloat casts the integer to single-precision float without normalizing.
	IntAsFloat
)

// AttributeType describes the numeric interpretation of one vertex attribute
// component. It is a tagged value: Kind selects which of the remaining fields
// are meaningful. Precision applies to AttributeFloat only; Mode and Signed to
// AttributeInt only. Width is the component width in bits for both.
type AttributeType struct {
	Kind      AttributeKind
	Precision FloatPrecision
	Mode      IntMode
	Width     int
	Signed    bool
}

// PoisonType is the sentinel substituted when classification fails for a
// field, letting the rest of the record still be processed.
var PoisonType = AttributeType{Kind: AttributePoison}

// FloatType builds a float attribute type.
func FloatType(precision FloatPrecision, width int) AttributeType {
	return AttributeType{Kind: AttributeFloat, Precision: precision, Width: width}
}

// IntType builds an integer attribute type.
func IntType(mode IntMode, width int, signed bool) AttributeType {
	return AttributeType{Kind: AttributeInt, Mode: mode, Width: width, Signed: signed}
}

// IsPoison reports whether derivation failed for the field this type belongs to.
func (t AttributeType) IsPoison() bool {
	return t.Kind == AttributePoison
}

func (t AttributeType) String() string {
	switch t.Kind {
	case AttributeFloat:
		if t.Precision == PrecisionPrecise {
			return fmt.Sprintf("f%d (precise)", t.Width)
		}
		return fmt.Sprintf("f%d", t.Width)
	case AttributeInt:
		prefix := "u"
		if t.Signed {
			prefix = "i"
		}
		switch t.Mode {
		case IntNormalized:
			return fmt.Sprintf("%s%d (normalized)", prefix, t.Width)
		case IntAsFloat:
			return fmt.Sprintf("%s%d (as float)", prefix, t.Width)
		default:
			return fmt.Sprintf("%s%d", prefix, t.Width)
		}
	default:
		return "poison"
	}
}
