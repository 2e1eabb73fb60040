// reflect.go is the runtime hosting of the derivation engine: it reads field
// shapes from Go's reflection metadata and modifier keywords from struct tags,
// e.g. `vertex:"normalized"`. The same record can instead be described by hand
// as a RecordSchema, or scanned at build time by cmd/vertexgen; all three
// hosts feed the identical derivation logic.
package vertexformat

import (
	"fmt"
	"reflect"
	"strings"
)

// scalarNamesByKind maps Go scalar kinds to the engine's component type names.
var scalarNamesByKind = map[reflect.Kind]string{
	reflect.Float32: "f32",
	reflect.Float64: "f64",
	reflect.Uint8:   "u8",
	reflect.Uint16:  "u16",
	reflect.Uint32:  "u32",
	reflect.Uint64:  "u64",
	reflect.Uint:    "uint",
	reflect.Int8:    "i8",
	reflect.Int16:   "i16",
	reflect.Int32:   "i32",
	reflect.Int64:   "i64",
	reflect.Int:     "int",
}

// shapeOfType classifies a struct field's Go type into a Shape. Scalars and
// fixed-size arrays of scalars are supported; everything else (nested structs,
// slices, pointers, maps) is ShapeUnsupported.
func shapeOfType(t reflect.Type) Shape {
	if name, ok := scalarNamesByKind[t.Kind()]; ok {
		return ScalarShape(name)
	}
	if t.Kind() == reflect.Array {
		if name, ok := scalarNamesByKind[t.Elem().Kind()]; ok {
			return FixedArrayShape(name, t.Len())
		}
	}
	return UnsupportedShape()
}

// tagKeywords splits the field's tag value for the given key into annotation
// keywords. Keywords are comma-separated; surrounding whitespace is trimmed
// and empty entries are dropped.
func tagKeywords(sf reflect.StructField, key string) []string {
	tag, ok := sf.Tag.Lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(tag, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// SchemaOf builds a RecordSchema from the dynamic type of v, reading modifier
// keywords from the DefaultTagKey struct tag. The resulting schema derives
// identically to DeriveValue on the same value: for the supported field shapes
// the explicit layout calculator and the Go compiler place fields the same way.
//
// Parameters:
//   - v: a value of the record type (only its type is inspected)
//
// Returns:
//   - RecordSchema: the record's schema, fields in declaration order
//   - error: non-nil if v's type is not a struct
func SchemaOf(v any) (RecordSchema, error) {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Struct {
		return RecordSchema{}, fmt.Errorf("vertexformat: cannot build a record schema from non-struct type %T", v)
	}
	fields := make([]FieldSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fields = append(fields, FieldSpec{
			Name:      sf.Name,
			Shape:     shapeOfType(sf.Type),
			Modifiers: tagKeywords(sf, DefaultTagKey),
		})
	}
	return RecordSchema{Name: t.Name(), Fields: fields}, nil
}
