// vertexgen scans a Go package for struct types marked with an //oxy:vertex
// directive and generates vertex attribute descriptor methods for them. The
// generated offsets and stride use unsafe.Offsetof and unsafe.Sizeof on the
// real struct type, so they always reflect the host platform's applied layout;
// element counts and component types are derived at generation time by the
// same engine the runtime reflection path uses.
//
// Usage:
//
//	vertexgen [-dir path] [-o vertex_gen.go] [-tag vertex]
//
// Field modifier keywords are read from the struct tag key given by -tag,
// e.g. `vertex:"normalized"`. Derivation problems are reported with file and
// line; any error-severity diagnostic fails the run and nothing is written.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	dir := flag.String("dir", ".", "package directory to scan")
	out := flag.String("o", "vertex_gen.go", "output file name, written into the scanned directory")
	tag := flag.String("tag", "vertex", "struct tag key holding modifier keywords")
	flag.Parse()

	if err := run(*dir, *out, *tag); err != nil {
		fmt.Fprintf(os.Stderr, "vertexgen: %v\n", err)
		os.Exit(1)
	}
}

func run(dir, out, tag string) error {
	records, pkgName, err := scanDir(dir, tag)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no //oxy:vertex structs found in %s", dir)
	}

	src, err := emit(pkgName, records)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, out)
	if err := os.WriteFile(target, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
