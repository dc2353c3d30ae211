// md6obj converts MD6 mesh containers to Wavefront OBJ, one file per
// marker-delimited part.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"wolf2-tools/internal/batch"
	"wolf2-tools/internal/md6"
	"wolf2-tools/internal/obj"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: md6obj <model file>...")
		os.Exit(2)
	}

	inputs := os.Args[1:]
	if len(inputs) == 1 {
		if err := convert(inputs[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	results := batch.Run(runtime.NumCPU(), inputs, convert)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", r.Input, r.Err)
		}
	}
	fmt.Printf("Converted %d/%d files\n", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func convert(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(filepath.Dir(path), stem)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	parts := 0
	search := md6.HeaderSize
	for {
		part, next, err := md6.ExtractPart(data, search)
		if errors.Is(err, md6.ErrNoMarker) {
			break
		}
		if err != nil {
			// Parts already written stay on disk; without a clean end
			// offset there is nowhere sane to resume the scan.
			return fmt.Errorf("%s part %d: %w", path, parts+1, err)
		}

		md6.DefaultTransforms.Apply(&part)

		parts++
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_part%d.obj", stem, parts))
		if err := obj.WriteFile(outPath, part); err != nil {
			return err
		}
		fmt.Printf("%s: part %d (%d vertices, %d faces) -> %s\n",
			path, parts, len(part.Verts), len(part.Faces), outPath)

		search = next
	}

	if parts == 0 {
		fmt.Printf("%s: no mesh parts found\n", path)
	}
	return nil
}
