// layout.go is the explicit layout calculator for schema-driven derivation.
// It applies a fixed, documented strategy: fields are placed sequentially in
// declaration order, each aligned to its natural alignment (the component
// byte size; arrays take their element's alignment), with no reordering. The
// record stride is the end offset rounded up to the largest field alignment.
// This matches what the Go compiler does for structs built purely from these
// scalar and fixed-array field types, so schema-driven and reflection-driven
// derivations of the same record agree byte for byte.
package vertexformat

// shapeSize returns the byte size and alignment of a field shape under the
// fixed layout strategy. Unsupported shapes and unrecognized component types
// occupy zero bytes with alignment 1: the call that encounters them already
// fails, so their placement is not load-bearing.
func shapeSize(s Shape) (size, align uint64) {
	switch s.Kind {
	case ShapeScalar:
		if sz, al, ok := scalarSize(s.Scalar); ok {
			return sz, al
		}
	case ShapeFixedArray:
		if sz, al, ok := scalarSize(s.Scalar); ok && s.Len >= 0 {
			return sz * uint64(s.Len), al
		}
	}
	return 0, 1
}

// schemaLayout computes the byte offset of every field and the record's total
// stride under the fixed layout strategy.
//
// Parameters:
//   - schema: the record schema to lay out
//
// Returns:
//   - []uint64: per-field byte offsets, in declaration order
//   - uint64: the record's byte stride (total size of one record instance)
func schemaLayout(schema RecordSchema) ([]uint64, uint64) {
	offsets := make([]uint64, len(schema.Fields))
	var offset uint64
	var maxAlign uint64 = 1
	for i, f := range schema.Fields {
		size, align := shapeSize(f.Shape)
		offset = alignUp(offset, align)
		offsets[i] = offset
		offset += size
		if align > maxAlign {
			maxAlign = align
		}
	}
	return offsets, alignUp(offset, maxAlign)
}

// alignUp rounds v up to the next multiple of align. align must be a power of
// two, which every natural scalar alignment is.
func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
