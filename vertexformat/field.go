// field.go defines the caller-supplied input model of the derivation engine:
// field shapes, field specs, and record schemas. The count/type decoder that
// turns a declared shape into an element count plus a classified element type
// also lives here.
package vertexformat

// ShapeKind tags the declared shape of a field.
type ShapeKind int

const (
	// ShapeScalar is a single scalar component.
	ShapeScalar ShapeKind = iota

	// ShapeFixedArray is a fixed-size array of scalar components.
	ShapeFixedArray

	// ShapeUnsupported covers everything else: nested records, slices,
	// pointers, and any other shape the engine cannot derive an attribute from.
	ShapeUnsupported
)

// Shape is the declared shape of one field: a scalar component type, a
// fixed-size array of one, or an unsupported shape.
type Shape struct {
	// Kind selects the variant.
	Kind ShapeKind

	// Scalar is the component type name for ShapeScalar and ShapeFixedArray.
	Scalar string

	// Len is the element count for ShapeFixedArray.
	Len int
}

// ScalarShape builds the shape of a single scalar field.
//
// Parameters:
//   - name: the scalar component type name, e.g. "f32"
//
// Returns:
//   - Shape: the scalar shape
func ScalarShape(name string) Shape {
	return Shape{Kind: ShapeScalar, Scalar: name}
}

// FixedArrayShape builds the shape of a fixed-size array field.
//
// Parameters:
//   - name: the element component type name, e.g. "f32"
//   - n: the compile-time element count
//
// Returns:
//   - Shape: the fixed array shape
func FixedArrayShape(name string, n int) Shape {
	return Shape{Kind: ShapeFixedArray, Scalar: name, Len: n}
}

// UnsupportedShape builds the shape used for fields the engine cannot derive
// an attribute from. Deriving such a field poisons its descriptor without
// aborting the call.
func UnsupportedShape() Shape {
	return Shape{Kind: ShapeUnsupported}
}

// FieldSpec describes one named field of a record. It is caller-owned and
// immutable from the derivation's perspective; the deriver never retains it.
type FieldSpec struct {
	// Name is the field's declared name, copied verbatim into the descriptor.
	Name string

	// Shape is the field's declared shape.
	Shape Shape

	// Modifiers is the field's annotation keyword list. Recognized modifier
	// keywords select the field's interpretation; anything else is ignored.
	Modifiers []string

	// Line is the 1-based source line of the field declaration when the schema
	// came from parsed source, 0 otherwise. Used only for diagnostics.
	Line int
}

// RecordSchema describes one record type: its name and its fields in
// declaration order. A RecordSchema is a record with named fields by
// construction; the non-record fatal path lives on the reflection entry
// points, which can be handed arbitrary types.
type RecordSchema struct {
	Name   string
	Fields []FieldSpec
}

// decodeCountAndType determines a field's element count and classifies its
// element type. Scalars have count 1; fixed arrays take their declared length.
// Anything else reports an error and yields a poisoned count and type.
func decodeCountAndType(shape Shape, mod Modifier, loc Location, dv *derivation) (uint32, AttributeType) {
	switch shape.Kind {
	case ShapeScalar:
		return 1, classifyScalar(shape.Scalar, mod, loc, dv)
	case ShapeFixedArray:
		if shape.Len < 0 {
			break
		}
		return uint32(shape.Len), classifyScalar(shape.Scalar, mod, loc, dv)
	}
	dv.report(SeverityError, loc, "unsupported attribute type")
	return 0, PoisonType
}
