// wgpu.go bridges derived attribute descriptors to WebGPU pipeline creation.
// WebGPU's vertex format enum is narrower than the engine's type model: 8- and
// 16-bit components only exist in x2/x4 groupings, there are no double
// formats, no 64-bit integer formats, and no unnormalized int-to-float cast.
// Conversions report ok=false for anything the backend cannot express rather
// than guessing a lossy substitute.
package vertexformat

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// formatKey identifies one convertible (type, count) combination.
type formatKey struct {
	kind   AttributeKind
	mode   IntMode
	signed bool
	width  int
	count  uint32
}

// vertexFormats maps convertible attribute type/count combinations to their
// wgpu vertex format.
var vertexFormats = map[formatKey]wgpu.VertexFormat{
	{kind: AttributeFloat, width: 32, count: 1}: wgpu.VertexFormatFloat32,
	{kind: AttributeFloat, width: 32, count: 2}: wgpu.VertexFormatFloat32x2,
	{kind: AttributeFloat, width: 32, count: 3}: wgpu.VertexFormatFloat32x3,
	{kind: AttributeFloat, width: 32, count: 4}: wgpu.VertexFormatFloat32x4,

	{kind: AttributeInt, mode: IntRaw, signed: true, width: 32, count: 1}: wgpu.VertexFormatSint32,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 32, count: 2}: wgpu.VertexFormatSint32x2,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 32, count: 3}: wgpu.VertexFormatSint32x3,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 32, count: 4}: wgpu.VertexFormatSint32x4,
	{kind: AttributeInt, mode: IntRaw, width: 32, count: 1}:               wgpu.VertexFormatUint32,
	{kind: AttributeInt, mode: IntRaw, width: 32, count: 2}:               wgpu.VertexFormatUint32x2,
	{kind: AttributeInt, mode: IntRaw, width: 32, count: 3}:               wgpu.VertexFormatUint32x3,
	{kind: AttributeInt, mode: IntRaw, width: 32, count: 4}:               wgpu.VertexFormatUint32x4,

	{kind: AttributeInt, mode: IntRaw, signed: true, width: 16, count: 2}: wgpu.VertexFormatSint16x2,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 16, count: 4}: wgpu.VertexFormatSint16x4,
	{kind: AttributeInt, mode: IntRaw, width: 16, count: 2}:               wgpu.VertexFormatUint16x2,
	{kind: AttributeInt, mode: IntRaw, width: 16, count: 4}:               wgpu.VertexFormatUint16x4,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 8, count: 2}:  wgpu.VertexFormatSint8x2,
	{kind: AttributeInt, mode: IntRaw, signed: true, width: 8, count: 4}:  wgpu.VertexFormatSint8x4,
	{kind: AttributeInt, mode: IntRaw, width: 8, count: 2}:                wgpu.VertexFormatUint8x2,
	{kind: AttributeInt, mode: IntRaw, width: 8, count: 4}:                wgpu.VertexFormatUint8x4,

	{kind: AttributeInt, mode: IntNormalized, signed: true, width: 16, count: 2}: wgpu.VertexFormatSnorm16x2,
	{kind: AttributeInt, mode: IntNormalized, signed: true, width: 16, count: 4}: wgpu.VertexFormatSnorm16x4,
	{kind: AttributeInt, mode: IntNormalized, width: 16, count: 2}:               wgpu.VertexFormatUnorm16x2,
	{kind: AttributeInt, mode: IntNormalized, width: 16, count: 4}:               wgpu.VertexFormatUnorm16x4,
	{kind: AttributeInt, mode: IntNormalized, signed: true, width: 8, count: 2}:  wgpu.VertexFormatSnorm8x2,
	{kind: AttributeInt, mode: IntNormalized, signed: true, width: 8, count: 4}:  wgpu.VertexFormatSnorm8x4,
	{kind: AttributeInt, mode: IntNormalized, width: 8, count: 2}:                wgpu.VertexFormatUnorm8x2,
	{kind: AttributeInt, mode: IntNormalized, width: 8, count: 4}:                wgpu.VertexFormatUnorm8x4,
}

// VertexFormat maps an attribute's element type and count to the matching
// wgpu.VertexFormat.
//
// Parameters:
//   - t: the classified element type
//   - count: the attribute's element count
//
// Returns:
//   - wgpu.VertexFormat: the matching format, or VertexFormatUndefined
//   - bool: false when WebGPU has no format for the combination (poisoned
//     types, doubles, 64-bit integers, int-as-float casts, or a count/width
//     grouping the enum does not provide)
func VertexFormat(t AttributeType, count uint32) (wgpu.VertexFormat, bool) {
	key := formatKey{kind: t.Kind, width: t.Width, count: count}
	if t.Kind == AttributeFloat && t.Precision == PrecisionPrecise {
		return wgpu.VertexFormatUndefined, false
	}
	if t.Kind == AttributeInt {
		key.mode = t.Mode
		key.signed = t.Signed
	}
	format, ok := vertexFormats[key]
	if !ok {
		return wgpu.VertexFormatUndefined, false
	}
	return format, true
}

// BufferLayout converts a derivation result into a wgpu.VertexBufferLayout,
// assigning shader locations sequentially in declaration order. All
// descriptors must come from the same Derive call so they share one stride.
//
// Parameters:
//   - descs: the derived descriptor list
//   - stepMode: the vertex step mode for the layout (per-vertex or per-instance)
//
// Returns:
//   - wgpu.VertexBufferLayout: the constructed layout
//   - bool: false if any descriptor's type/count has no wgpu vertex format
func BufferLayout(descs []AttributeDescriptor, stepMode wgpu.VertexStepMode) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(descs))
	var stride uint64
	for i, d := range descs {
		format, ok := VertexFormat(d.Type, d.Count)
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         d.Offset,
			ShaderLocation: uint32(i),
		})
		stride = d.Stride
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    stepMode,
		Attributes:  attrs,
	}, true
}
