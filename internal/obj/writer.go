// Package obj emits Wavefront OBJ text for decoded mesh parts.
//
// OBJ cannot index position, UV and normal independently here: a face
// vertex reference uses the same 1-based index for all three channels,
// which holds by construction since the part's arrays are index-aligned.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"wolf2-tools/internal/md6"
)

// Write serializes one part: comment header, positions, normals when
// present, UVs, then faces.
func Write(w io.Writer, p md6.Part) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# Extracted from MD6 mesh container")
	fmt.Fprintf(bw, "# Vertices: %d\n", len(p.Verts))
	fmt.Fprintf(bw, "# Faces: %d\n", len(p.Faces))
	if p.Normals != nil {
		fmt.Fprintln(bw, "# Smooth shading: ON")
	}
	fmt.Fprintln(bw)

	for _, v := range p.Verts {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v[0], v[1], v[2])
	}

	if p.Normals != nil {
		fmt.Fprintln(bw)
		for _, n := range p.Normals {
			fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n[0], n[1], n[2])
		}
	}

	fmt.Fprintln(bw)
	for _, uv := range p.UVs {
		fmt.Fprintf(bw, "vt %.6f %.6f\n", uv[0], uv[1])
	}

	fmt.Fprintln(bw)
	for _, f := range p.Faces {
		a, b, c := f[0]+1, f[1]+1, f[2]+1
		if p.Normals != nil {
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		} else {
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		}
	}

	return bw.Flush()
}

// WriteFile writes one part to path.
func WriteFile(path string, p md6.Part) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("obj: create %s: %w", path, err)
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return fmt.Errorf("obj: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("obj: close %s: %w", path, err)
	}
	return nil
}
