// schema.go turns marked struct declarations into record schemas. The scanner
// walks a package's AST, finds type declarations carrying the //oxy:vertex
// directive, and builds a vertexformat.RecordSchema per struct: field shapes
// from the declared Go types, modifier keywords from the struct tag, source
// lines for diagnostics. Each schema is then derived once to validate it and
// to fix the element counts and component types the emitter writes out.
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-vertex/vertexformat"
)

// directivePrefix marks a struct type for generation. It follows the Go
// directive comment convention: the comment must read exactly
// "//oxy:vertex", optionally followed by a method name override.
const directivePrefix = "oxy:vertex"

// defaultMethod is the generated method name when the directive does not
// override it.
const defaultMethod = "VertexAttributes"

// genRecord is one struct selected for generation.
type genRecord struct {
	TypeName string
	Method   string
	File     string
	Schema   vertexformat.RecordSchema
	Descs    []vertexformat.AttributeDescriptor
}

// goScalarNames maps Go source type names to the engine's component type
// names. Aliases (byte, rune) resolve to their underlying width.
var goScalarNames = map[string]string{
	"float32": "f32",
	"float64": "f64",
	"uint8":   "u8",
	"byte":    "u8",
	"uint16":  "u16",
	"uint32":  "u32",
	"uint64":  "u64",
	"uint":    "uint",
	"int8":    "i8",
	"int16":   "i16",
	"int32":   "i32",
	"rune":    "i32",
	"int64":   "i64",
	"int":     "int",
}

// vertexDirective scans a declaration's doc comment for the //oxy:vertex
// directive.
//
// Parameters:
//   - doc: the declaration's doc comment group (may be nil)
//
// Returns:
//   - string: the method name to generate (defaultMethod unless overridden)
//   - bool: true if the directive is present
//   - error: non-nil for a directive with too many arguments
func vertexDirective(doc *ast.CommentGroup) (string, bool, error) {
	if doc == nil {
		return "", false, nil
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, "//"+directivePrefix)
		if !ok {
			continue
		}
		args := strings.Fields(rest)
		switch len(args) {
		case 0:
			return defaultMethod, true, nil
		case 1:
			return args[0], true, nil
		default:
			return "", false, fmt.Errorf("//%s directive takes at most one argument (method name), got %d", directivePrefix, len(args))
		}
	}
	return "", false, nil
}

// fieldShape classifies a field's declared type expression. Scalars and
// fixed-length arrays of scalars with literal lengths are supported;
// everything else becomes an unsupported shape, which the deriver reports.
func fieldShape(expr ast.Expr) vertexformat.Shape {
	switch t := expr.(type) {
	case *ast.Ident:
		if name, ok := goScalarNames[t.Name]; ok {
			return vertexformat.ScalarShape(name)
		}
	case *ast.ArrayType:
		lit, ok := t.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			break
		}
		elem, ok := t.Elt.(*ast.Ident)
		if !ok {
			break
		}
		name, ok := goScalarNames[elem.Name]
		if !ok {
			break
		}
		n, err := strconv.Atoi(lit.Value)
		if err != nil || n < 0 {
			break
		}
		return vertexformat.FixedArrayShape(name, n)
	}
	return vertexformat.UnsupportedShape()
}

// fieldModifiers extracts the modifier keyword list from a field's tag.
func fieldModifiers(tag *ast.BasicLit, key string) []string {
	if tag == nil {
		return nil
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return nil
	}
	value, ok := reflect.StructTag(raw).Lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(value, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// structSchema builds a RecordSchema from a struct type declaration.
func structSchema(fset *token.FileSet, name string, st *ast.StructType, tagKey string) vertexformat.RecordSchema {
	schema := vertexformat.RecordSchema{Name: name}
	for _, field := range st.Fields.List {
		shape := fieldShape(field.Type)
		modifiers := fieldModifiers(field.Tag, tagKey)
		line := fset.Position(field.Pos()).Line
		if len(field.Names) == 0 {
			// Embedded field: no attribute can be derived from it, but it
			// still occupies a slot so the field count invariant holds.
			schema.Fields = append(schema.Fields, vertexformat.FieldSpec{
				Name:  embeddedName(field.Type),
				Shape: vertexformat.UnsupportedShape(),
				Line:  line,
			})
			continue
		}
		for _, ident := range field.Names {
			schema.Fields = append(schema.Fields, vertexformat.FieldSpec{
				Name:      ident.Name,
				Shape:     shape,
				Modifiers: modifiers,
				Line:      line,
			})
		}
	}
	return schema
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	default:
		return "<embedded>"
	}
}

// fileSink reports derivation diagnostics to stderr in file:line form and
// counts error-severity reports so the run can fail.
type fileSink struct {
	file   string
	errors int
}

func (s *fileSink) Report(sev vertexformat.Severity, loc vertexformat.Location, msg string) {
	if loc.Line > 0 {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s: %s\n", s.file, loc.Line, sev, loc, msg)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %s: %s: %s\n", s.file, sev, loc, msg)
	}
	if sev == vertexformat.SeverityError {
		s.errors++
	}
}

// scanDir parses a package directory and collects every //oxy:vertex struct,
// deriving each schema to validate it. All problems across all structs are
// reported before the scan fails.
//
// Parameters:
//   - dir: the package directory to scan
//   - tagKey: the struct tag key holding modifier keywords
//
// Returns:
//   - []genRecord: the validated records, in file/declaration order
//   - string: the scanned package's name
//   - error: non-nil on parse failure or any derivation error
func scanDir(dir, tagKey string) ([]genRecord, string, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, nil, parser.ParseComments)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", dir, err)
	}

	var records []genRecord
	var pkgName string
	totalErrors := 0
	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.Name, "_test") {
			continue
		}
		pkgName = pkg.Name
		// Map iteration order is random; sort so repeated runs generate
		// identical output.
		files := make([]string, 0, len(pkg.Files))
		for file := range pkg.Files {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			f := pkg.Files[file]
			for _, decl := range f.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil {
						doc = gd.Doc
					}
					method, marked, err := vertexDirective(doc)
					if err != nil {
						return nil, "", fmt.Errorf("%s: type %s: %w", file, ts.Name.Name, err)
					}
					if !marked {
						continue
					}
					st, ok := ts.Type.(*ast.StructType)
					if !ok {
						return nil, "", fmt.Errorf("%s: //%s on %s: directive requires a struct type", file, directivePrefix, ts.Name.Name)
					}

					schema := structSchema(fset, ts.Name.Name, st, tagKey)
					sink := &fileSink{file: file}
					deriver := vertexformat.NewDeriver(vertexformat.WithSink(sink), vertexformat.WithTagKey(tagKey))
					descs, _ := deriver.Derive(schema, nil)
					totalErrors += sink.errors

					records = append(records, genRecord{
						TypeName: ts.Name.Name,
						Method:   method,
						File:     file,
						Schema:   schema,
						Descs:    descs,
					})
				}
			}
		}
	}

	if totalErrors > 0 {
		return nil, "", fmt.Errorf("%d derivation error(s); no output written", totalErrors)
	}
	return records, pkgName, nil
}
