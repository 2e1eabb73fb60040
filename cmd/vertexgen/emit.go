// emit.go renders the generated source file. Element counts and component
// types are baked in as literals from the validated derivation; offsets and
// stride are emitted as unsafe.Offsetof/unsafe.Sizeof expressions so the
// compiled values always match the layout the target platform applies.
package main

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/Carmen-Shannon/oxy-vertex/vertexformat"
)

const generatedHeader = "// Code generated by vertexgen. DO NOT EDIT.\n\n"

const modulePath = "github.com/Carmen-Shannon/oxy-vertex/vertexformat"

// emit renders one generated file holding a descriptor method per record and
// gofmt-formats it.
//
// Parameters:
//   - pkgName: the package the generated file belongs to
//   - records: the validated records, in deterministic order
//
// Returns:
//   - []byte: the formatted source
//   - error: non-nil if the rendered source fails to format
func emit(pkgName string, records []genRecord) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(generatedHeader)
	fmt.Fprintf(&sb, "package %s\n\n", pkgName)
	fmt.Fprintf(&sb, "import (\n\t\"unsafe\"\n\n\t%q\n)\n\n", modulePath)

	for _, rec := range records {
		fmt.Fprintf(&sb, "// %s returns the derived vertex attribute descriptors for %s.\n", rec.Method, rec.TypeName)
		sb.WriteString("// The supplied buffer handle is threaded unchanged into every descriptor.\n")
		fmt.Fprintf(&sb, "func (%s) %s(buffer any) []vertexformat.AttributeDescriptor {\n", rec.TypeName, rec.Method)
		sb.WriteString("\treturn []vertexformat.AttributeDescriptor{\n")
		for i, d := range rec.Descs {
			field := rec.Schema.Fields[i].Name
			fmt.Fprintf(&sb,
				"\t\t{Buffer: buffer, Count: %d, Type: %s, Offset: uint64(unsafe.Offsetof(%s{}.%s)), Stride: uint64(unsafe.Sizeof(%s{})), Name: %q},\n",
				d.Count, typeExpr(d.Type), rec.TypeName, field, rec.TypeName, field)
		}
		sb.WriteString("\t}\n}\n\n")
	}

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

// typeExpr renders an AttributeType as the constructor expression the
// generated file uses. Poison never reaches here in a successful run; the
// default branch keeps the output compilable regardless.
func typeExpr(t vertexformat.AttributeType) string {
	switch t.Kind {
	case vertexformat.AttributeFloat:
		precision := "PrecisionDefault"
		if t.Precision == vertexformat.PrecisionPrecise {
			precision = "PrecisionPrecise"
		}
		return fmt.Sprintf("vertexformat.FloatType(vertexformat.%s, %d)", precision, t.Width)
	case vertexformat.AttributeInt:
		mode := "IntRaw"
		switch t.Mode {
		case vertexformat.IntNormalized:
			mode = "IntNormalized"
		case vertexformat.IntAsFloat:
			mode = "IntAsFloat"
		}
		return fmt.Sprintf("vertexformat.IntType(vertexformat.%s, %d, %t)", mode, t.Width, t.Signed)
	default:
		return "vertexformat.PoisonType"
	}
}
