// classify.go maps scalar component type names plus an optional modifier to a
// typed AttributeType, validating modifier/type-family compatibility. The
// recognized scalar name tables double as the size/alignment source for the
// explicit layout calculator.
package vertexformat

import (
	"fmt"
	"strconv"
	"strings"
)

// floatWidths maps recognized float component type names to their width in bits.
var floatWidths = map[string]int{
	"f32": 32,
	"f64": 64,
}

// intWidths maps recognized integer component type names to their width in
// bits. "int" and "uint" take the platform-native width. Signedness is read
// from the leading "i" versus "u" of the name.
var intWidths = map[string]int{
	"u8":   8,
	"u16":  16,
	"u32":  32,
	"u64":  64,
	"uint": strconv.IntSize,
	"i8":   8,
	"i16":  16,
	"i32":  32,
	"i64":  64,
	"int":  strconv.IntSize,
}

// classifyScalar resolves a scalar component type name and a resolved modifier
// into an AttributeType. Incompatible combinations (normalized floats, double
// casts of integers) and unrecognized names report an error and poison the field.
func classifyScalar(name string, mod Modifier, loc Location, dv *derivation) AttributeType {
	if width, ok := floatWidths[name]; ok {
		switch mod {
		case ModifierNone, ModifierAsFloat:
			return FloatType(PrecisionDefault, width)
		case ModifierAsDouble:
			return FloatType(PrecisionPrecise, width)
		default:
			dv.report(SeverityError, loc, fmt.Sprintf("incompatible float modifier %q", mod))
			return PoisonType
		}
	}
	if width, ok := intWidths[name]; ok {
		signed := strings.HasPrefix(name, "i")
		switch mod {
		case ModifierNone:
			return IntType(IntRaw, width, signed)
		case ModifierNormalized:
			return IntType(IntNormalized, width, signed)
		case ModifierAsFloat:
			return IntType(IntAsFloat, width, signed)
		default:
			dv.report(SeverityError, loc, fmt.Sprintf("incompatible int modifier %q", mod))
			return PoisonType
		}
	}
	dv.report(SeverityError, loc, fmt.Sprintf("unrecognized component type %q", name))
	return PoisonType
}

// scalarSize returns the byte size and natural alignment of a recognized
// scalar component type name. ok is false for unrecognized names.
func scalarSize(name string) (size, align uint64, ok bool) {
	if width, found := floatWidths[name]; found {
		b := uint64(width / 8)
		return b, b, true
	}
	if width, found := intWidths[name]; found {
		b := uint64(width / 8)
		return b, b, true
	}
	return 0, 0, false
}
