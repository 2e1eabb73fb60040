package vertexformat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndDescriptors(t *testing.T) {
	r := NewFormatRegistry()
	assert.NoError(t, r.RegisterType(testVertex{}))

	descs, ok := r.Descriptors("testVertex", "vbo-1")
	assert.True(t, ok)
	assert.Len(t, descs, 4)
	for _, desc := range descs {
		assert.Equal(t, "vbo-1", desc.Buffer)
	}

	// A second lookup hits the cache but still stamps the new buffer handle
	// into a fresh copy.
	again, ok := r.Descriptors("testVertex", "vbo-2")
	assert.True(t, ok)
	assert.Equal(t, "vbo-2", again[0].Buffer)
	assert.Equal(t, descs[0].Offset, again[0].Offset)
	assert.Equal(t, descs[0].Type, again[0].Type)
}

func TestRegistryDuplicateAndUnknown(t *testing.T) {
	r := NewFormatRegistry()
	assert.NoError(t, r.Register(RecordSchema{Name: "V", Fields: []FieldSpec{{Name: "X", Shape: ScalarShape("f32")}}}))
	assert.Error(t, r.Register(RecordSchema{Name: "V"}))
	assert.Error(t, r.Register(RecordSchema{}))

	descs, ok := r.Descriptors("missing", nil)
	assert.False(t, ok)
	assert.Nil(t, descs)
}

func TestRegistryFailedDerivation(t *testing.T) {
	sink := &Collector{}
	r := NewFormatRegistry(WithRegistryDeriver(NewDeriver(WithSink(sink))))
	assert.NoError(t, r.Register(RecordSchema{
		Name:   "Broken",
		Fields: []FieldSpec{{Name: "A", Shape: ScalarShape("quaternion")}},
	}))

	descs, ok := r.Descriptors("Broken", nil)
	assert.False(t, ok)
	assert.Nil(t, descs)
	assert.Equal(t, 1, sink.Errors())

	assert.False(t, r.DeriveAll())
}

func TestRegistryDeriveAll(t *testing.T) {
	r := NewFormatRegistry(WithRegistryWorkers(4))
	for i := 0; i < 16; i++ {
		assert.NoError(t, r.Register(RecordSchema{
			Name: fmt.Sprintf("Record%02d", i),
			Fields: []FieldSpec{
				{Name: "Position", Shape: FixedArrayShape("f32", 3)},
				{Name: "Color", Shape: FixedArrayShape("u8", 4), Modifiers: []string{"normalized"}},
			},
		}))
	}

	assert.True(t, r.DeriveAll())
	assert.Len(t, r.Records(), 16)
	for _, name := range r.Records() {
		descs, ok := r.Descriptors(name, name)
		assert.True(t, ok, name)
		assert.Len(t, descs, 2, name)
		assert.Equal(t, uint64(16), descs[0].Stride, name)
	}
}

func TestRegistryRecordsOrder(t *testing.T) {
	r := NewFormatRegistry()
	names := []string{"C", "A", "B"}
	for _, name := range names {
		assert.NoError(t, r.Register(RecordSchema{Name: name, Fields: []FieldSpec{{Name: "X", Shape: ScalarShape("f32")}}}))
	}
	assert.Equal(t, names, r.Records())
}
