// resunpack extracts IDCL .resources/.pack archives into a directory
// named after the archive, resolving record names through the archive's
// string table and decompressing payloads through the Oodle library
// when one can be found near the archive.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wolf2-tools/internal/oodle"
	"wolf2-tools/internal/resources"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: resunpack <archive file>...")
		os.Exit(2)
	}

	failed := 0
	for _, path := range os.Args[1:] {
		if err := unpack(path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func unpack(path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".texdb" {
		return errors.New(".texdb archives are not supported")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ar, err := resources.Open(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s: version %d, %d files\n", path, ar.Header.Version, ar.Header.FileCount)

	var decomp resources.Decompressor
	if d, err := oodle.Load(path); err == nil {
		decomp = d
		fmt.Printf("Loaded Oodle library: %s\n", d.Path())
	} else {
		fmt.Fprintln(os.Stderr, "Warning: Oodle library not found; compressed files will be saved with a .compressed extension")
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.MkdirAll(stem, 0o755); err != nil {
		return err
	}

	stats, err := ar.Extract(stem, resources.Options{Decomp: decomp})
	if err != nil {
		return err
	}

	fmt.Printf("Extraction complete: %d files extracted, %d skipped", stats.Extracted, stats.Skipped)
	if stats.Fallback > 0 {
		fmt.Printf(", %d kept compressed", stats.Fallback)
	}
	fmt.Printf("\nOutput folder: %s\n", stem)
	return nil
}
