// derive.go assembles attribute descriptor lists. The Deriver is the package's
// entry point: configure it once with functional options, then call Derive on
// a RecordSchema, or DeriveType/DeriveValue to go straight from a Go struct
// type using reflection. Derivation is a pure transformation over its inputs;
// the only side channel is the configured DiagnosticSink.
package vertexformat

import (
	"fmt"
	"reflect"
)

// DefaultTagKey is the struct tag key the reflection entry points read
// modifier keywords from.
const DefaultTagKey = "vertex"

// AttributeDescriptor describes how one field of a record is read from a
// buffer of such records. Descriptors are freshly allocated per call, owned by
// the caller, and never alias the input schema.
type AttributeDescriptor struct {
	// Buffer is the opaque buffer handle supplied to the Derive call, threaded
	// through unchanged into every descriptor of that call.
	Buffer any

	// Count is the number of components in the attribute: 1 for scalars, the
	// array length for fixed arrays, 0 when derivation failed for the field.
	Count uint32

	// Type is the classified component type. PoisonType when derivation failed.
	Type AttributeType

	// Offset is the field's byte offset within one record instance.
	Offset uint64

	// Stride is the record's total byte size. Identical across every
	// descriptor produced by one call.
	Stride uint64

	// Name is the field's declared name.
	Name string
}

// DeriverOption is a functional option for configuring a Deriver.
// Use the With* functions to create options.
type DeriverOption func(d *Deriver)

// WithSink sets the diagnostic sink derivation reports are written to.
// Without this option diagnostics are discarded; the aggregate success flag
// returned by each call is unaffected either way.
//
// Parameters:
//   - sink: the caller-owned diagnostic sink
//
// Returns:
//   - DeriverOption: option function to apply
func WithSink(sink DiagnosticSink) DeriverOption {
	return func(d *Deriver) {
		if sink != nil {
			d.sink = sink
		}
	}
}

// WithTagKey sets the struct tag key the reflection entry points read
// modifier keywords from. Defaults to DefaultTagKey.
//
// Parameters:
//   - key: the struct tag key, e.g. "vertex"
//
// Returns:
//   - DeriverOption: option function to apply
func WithTagKey(key string) DeriverOption {
	return func(d *Deriver) {
		if key != "" {
			d.tagKey = key
		}
	}
}

// Deriver derives vertex attribute descriptor lists from record schemas or Go
// struct types. A Deriver is stateless apart from its configuration; the same
// inputs always produce the same descriptor list, and concurrent calls on one
// Deriver are safe as long as the configured sink is.
type Deriver struct {
	sink   DiagnosticSink
	tagKey string
}

// NewDeriver creates a Deriver.
//
// Parameters:
//   - options: functional options to configure the deriver
//
// Returns:
//   - *Deriver: the configured deriver
func NewDeriver(options ...DeriverOption) *Deriver {
	d := &Deriver{
		sink:   discardSink{},
		tagKey: DefaultTagKey,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Derive produces one AttributeDescriptor per field of the schema, in
// declaration order. A failure on one field poisons that field's descriptor
// and processing continues, so a single call surfaces every problem in the
// schema at once.
//
// Parameters:
//   - schema: the record schema to derive from (not retained)
//   - buffer: an opaque buffer handle copied into every descriptor
//
// Returns:
//   - []AttributeDescriptor: one descriptor per field, in declaration order
//   - bool: false iff any error-severity diagnostic was emitted
func (d *Deriver) Derive(schema RecordSchema, buffer any) ([]AttributeDescriptor, bool) {
	dv := &derivation{sink: d.sink}
	offsets, stride := schemaLayout(schema)
	out := make([]AttributeDescriptor, 0, len(schema.Fields))
	for i, f := range schema.Fields {
		loc := Location{Record: schema.Name, Field: f.Name, Line: f.Line}
		mod := resolveModifier(f.Modifiers, loc, dv)
		count, typ := decodeCountAndType(f.Shape, mod, loc, dv)
		out = append(out, AttributeDescriptor{
			Buffer: buffer,
			Count:  count,
			Type:   typ,
			Offset: offsets[i],
			Stride: stride,
			Name:   f.Name,
		})
	}
	return out, !dv.failed
}

// DeriveType derives a descriptor list directly from a Go struct type. Field
// shapes come from the type system, modifier keywords from the configured
// struct tag key, and offsets and stride from the reflected layout, so the
// result always matches what the host platform actually stores. Handing it
// anything that is not a struct is the one fatal condition: a single error
// diagnostic, a nil result, and a false flag.
//
// Parameters:
//   - t: the record's Go type
//   - buffer: an opaque buffer handle copied into every descriptor
//
// Returns:
//   - []AttributeDescriptor: one descriptor per field, in declaration order
//   - bool: false iff any error-severity diagnostic was emitted
func (d *Deriver) DeriveType(t reflect.Type, buffer any) ([]AttributeDescriptor, bool) {
	dv := &derivation{sink: d.sink}
	if t == nil || t.Kind() != reflect.Struct {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		dv.report(SeverityError, Location{Record: name},
			fmt.Sprintf("cannot derive a vertex format for non-struct type %s", name))
		return nil, false
	}
	stride := uint64(t.Size())
	out := make([]AttributeDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		loc := Location{Record: t.Name(), Field: sf.Name}
		mod := resolveModifier(tagKeywords(sf, d.tagKey), loc, dv)
		count, typ := decodeCountAndType(shapeOfType(sf.Type), mod, loc, dv)
		out = append(out, AttributeDescriptor{
			Buffer: buffer,
			Count:  count,
			Type:   typ,
			Offset: uint64(sf.Offset),
			Stride: stride,
			Name:   sf.Name,
		})
	}
	return out, !dv.failed
}

// DeriveValue is DeriveType on the dynamic type of v.
//
// Parameters:
//   - v: a value of the record type (only its type is inspected)
//   - buffer: an opaque buffer handle copied into every descriptor
//
// Returns:
//   - []AttributeDescriptor: one descriptor per field, in declaration order
//   - bool: false iff any error-severity diagnostic was emitted
func (d *Deriver) DeriveValue(v any, buffer any) ([]AttributeDescriptor, bool) {
	return d.DeriveType(reflect.TypeOf(v), buffer)
}
