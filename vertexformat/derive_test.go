package vertexformat

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// testVertex mirrors the static mesh vertex the engine uploads.
type testVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]uint8 `vertex:"normalized"`
}

func TestDeriveValueDescriptorPerField(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.DeriveValue(testVertex{}, "vbo-0")
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
	assert.Len(t, descs, 4)

	// Declaration order is preserved and names are carried verbatim.
	assert.Equal(t, "Position", descs[0].Name)
	assert.Equal(t, "Normal", descs[1].Name)
	assert.Equal(t, "TexCoord", descs[2].Name)
	assert.Equal(t, "Color", descs[3].Name)

	// One shared stride equal to the record's total size.
	size := uint64(unsafe.Sizeof(testVertex{}))
	for _, desc := range descs {
		assert.Equal(t, size, desc.Stride)
		assert.Equal(t, "vbo-0", desc.Buffer)
	}

	// Offsets are the applied layout's, distinct per field.
	var v testVertex
	assert.Equal(t, uint64(unsafe.Offsetof(v.Position)), descs[0].Offset)
	assert.Equal(t, uint64(unsafe.Offsetof(v.Normal)), descs[1].Offset)
	assert.Equal(t, uint64(unsafe.Offsetof(v.TexCoord)), descs[2].Offset)
	assert.Equal(t, uint64(unsafe.Offsetof(v.Color)), descs[3].Offset)

	assert.Equal(t, uint32(3), descs[0].Count)
	assert.Equal(t, FloatType(PrecisionDefault, 32), descs[0].Type)
	assert.Equal(t, uint32(4), descs[3].Count)
	assert.Equal(t, IntType(IntNormalized, 8, false), descs[3].Type)
}

func TestDeriveScalarField(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name:   "Point",
		Fields: []FieldSpec{{Name: "X", Shape: ScalarShape("f32")}},
	}, nil)
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
	assert.Len(t, descs, 1)
	assert.Equal(t, uint32(1), descs[0].Count)
	assert.Equal(t, FloatType(PrecisionDefault, 32), descs[0].Type)
	assert.Equal(t, uint64(0), descs[0].Offset)
	assert.Equal(t, uint64(4), descs[0].Stride)
}

func TestDeriveAsDouble(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name:   "Precise",
		Fields: []FieldSpec{{Name: "Depth", Shape: ScalarShape("f32"), Modifiers: []string{"as_double"}}},
	}, nil)
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
	assert.Equal(t, FloatType(PrecisionPrecise, 32), descs[0].Type)
}

func TestDeriveFixedArrayWithAsFloat(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name:   "V",
		Fields: []FieldSpec{{Name: "Pos", Shape: FixedArrayShape("f32", 3), Modifiers: []string{"as_float"}}},
	}, nil)
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
	assert.Equal(t, uint32(3), descs[0].Count)
	assert.Equal(t, FloatType(PrecisionDefault, 32), descs[0].Type)
}

func TestDeriveNormalizedFloatPoisonsField(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name:   "V",
		Fields: []FieldSpec{{Name: "Pos", Shape: ScalarShape("f32"), Modifiers: []string{"normalized"}}},
	}, nil)
	assert.False(t, ok)
	assert.Len(t, descs, 1)
	assert.True(t, descs[0].Type.IsPoison())
	assert.Equal(t, 1, sink.Errors())
}

func TestDeriveConflictingModifiers(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name:   "V",
		Fields: []FieldSpec{{Name: "Color", Shape: FixedArrayShape("u8", 4), Modifiers: []string{"normalized", "as_float"}}},
	}, nil)
	// Warning only: the call still succeeds and the field classifies as if it
	// carried no modifier at all.
	assert.True(t, ok)
	assert.Equal(t, 1, sink.Warnings())
	assert.Equal(t, 0, sink.Errors())
	assert.Equal(t, IntType(IntRaw, 8, false), descs[0].Type)
}

// A failed field never prevents later fields from deriving, so one call
// surfaces every problem in the schema at once.
func TestDeriveContinuesPastPoisonedFields(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.Derive(RecordSchema{
		Name: "Broken",
		Fields: []FieldSpec{
			{Name: "A", Shape: ScalarShape("vec3")},
			{Name: "B", Shape: UnsupportedShape()},
			{Name: "C", Shape: ScalarShape("f32")},
		},
	}, nil)
	assert.False(t, ok)
	assert.Len(t, descs, 3)
	assert.True(t, descs[0].Type.IsPoison())
	assert.True(t, descs[1].Type.IsPoison())
	assert.Equal(t, uint32(0), descs[1].Count)
	assert.Equal(t, FloatType(PrecisionDefault, 32), descs[2].Type)
	assert.Equal(t, 2, sink.Errors())
}

func TestDeriveTypeUnsupportedFieldShapes(t *testing.T) {
	type inner struct{ X float32 }
	type record struct {
		Nested inner
		Slice  []float32
		Ptr    *float32
		OK     float32
	}

	sink := &Collector{}
	d := NewDeriver(WithSink(sink))
	descs, ok := d.DeriveValue(record{}, nil)
	assert.False(t, ok)
	assert.Len(t, descs, 4)
	for _, desc := range descs[:3] {
		assert.True(t, desc.Type.IsPoison(), desc.Name)
		assert.Equal(t, uint32(0), desc.Count, desc.Name)
	}
	assert.Equal(t, FloatType(PrecisionDefault, 32), descs[3].Type)
	assert.Equal(t, 3, sink.Errors())
	for _, diag := range sink.Diagnostics() {
		assert.Contains(t, diag.Message, "unsupported attribute type")
	}
}

func TestDeriveNonRecordIsFatal(t *testing.T) {
	sink := &Collector{}
	d := NewDeriver(WithSink(sink))

	descs, ok := d.DeriveValue(42, nil)
	assert.False(t, ok)
	assert.Empty(t, descs)
	assert.Equal(t, 1, sink.Errors())

	sink.Reset()
	descs, ok = d.DeriveType(reflect.TypeOf([]float32{}), nil)
	assert.False(t, ok)
	assert.Empty(t, descs)
	assert.Equal(t, 1, sink.Errors())

	sink.Reset()
	descs, ok = d.DeriveType(nil, nil)
	assert.False(t, ok)
	assert.Empty(t, descs)
	assert.Equal(t, 1, sink.Errors())
}

// Identical inputs always yield identical descriptor lists.
func TestDeriveDeterministic(t *testing.T) {
	d := NewDeriver()
	first, ok1 := d.DeriveValue(testVertex{}, "vbo")
	second, ok2 := d.DeriveValue(testVertex{}, "vbo")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestDeriveSchemaMatchesDeriveValue(t *testing.T) {
	schema, err := SchemaOf(testVertex{})
	assert.NoError(t, err)

	d := NewDeriver()
	fromSchema, ok := d.Derive(schema, "vbo")
	assert.True(t, ok)
	fromReflect, ok := d.DeriveValue(testVertex{}, "vbo")
	assert.True(t, ok)
	assert.Equal(t, fromReflect, fromSchema)
}

func TestDeriveCustomTagKey(t *testing.T) {
	type record struct {
		Color [4]uint8 `attrib:"normalized"`
	}
	d := NewDeriver(WithTagKey("attrib"))
	descs, ok := d.DeriveValue(record{}, nil)
	assert.True(t, ok)
	assert.Equal(t, IntType(IntNormalized, 8, false), descs[0].Type)
}

func TestSchemaOfRejectsNonStruct(t *testing.T) {
	_, err := SchemaOf(3.14)
	assert.Error(t, err)
	_, err = SchemaOf(nil)
	assert.Error(t, err)
}
