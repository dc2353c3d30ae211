package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options controls one extraction run.
type Options struct {
	// ExtractGarbage disables the small-extensionless-root-file filter.
	ExtractGarbage bool

	// Decomp is the decompression capability for compressed payloads.
	// When nil the extractor runs degraded: every compressed record is
	// written raw with a .compressed suffix.
	Decomp Decompressor
}

// Stats summarizes an extraction run.
type Stats struct {
	Extracted int
	Skipped   int
	Fallback  int // compressed records preserved raw
}

// Compression flag bits. A set embedded-header bit with the stream bit
// clear means the compressed span starts with a 12-byte header that
// must be skipped before decompression.
const (
	flagStream         = 1 << 0
	flagEmbeddedHeader = 1 << 2

	embeddedHeaderSize = 12
)

// Extract walks the full record table and writes every entry under
// outDir, preserving the path structure encoded in resolved names.
// A record whose metadata or payload runs out of bounds is skipped with
// a warning; the loop itself never aborts on a single bad record.
func (ar *Archive) Extract(outDir string, opts Options) (Stats, error) {
	var st Stats

	total := int(ar.Header.FileCount)
	for i := 0; i < total; i++ {
		rec, err := ar.readRecord(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping record %d: %v\n", i, err)
			st.Skipped++
			continue
		}

		name := ar.resolveName(rec)
		if name == "" {
			name = fmt.Sprintf("file_%08d.dat", i)
		}
		name = strings.ReplaceAll(name, "\\", "/")

		if !opts.ExtractGarbage && IsGarbage(name, rec.Size) {
			st.Skipped++
			continue
		}

		outPath := filepath.Join(outDir, filepath.FromSlash(name))
		if info, err := os.Stat(outPath); err == nil && info.IsDir() {
			outPath += ".file"
		}
		if leaf := name[strings.LastIndex(name, "/")+1:]; !strings.Contains(leaf, ".") {
			outPath += ".file"
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return st, fmt.Errorf("resources: create %s: %w", filepath.Dir(outPath), err)
		}

		fellBack, err := ar.writePayload(outPath, rec, opts.Decomp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping record %d (%s): %v\n", i, name, err)
			st.Skipped++
			continue
		}
		if fellBack {
			st.Fallback++
		}
		st.Extracted++

		if st.Extracted%100 == 0 {
			fmt.Printf("Extracted %d/%d files...\n", st.Extracted, total)
		}
	}

	return st, nil
}

// writePayload emits one record's payload. Stored payloads are copied
// byte-for-byte; compressed ones go through the capability, and on any
// failure (or with no capability at all) the original unadjusted
// compressed span is preserved under a .compressed suffix so nothing is
// lost. Reports whether the fallback path was taken.
func (ar *Archive) writePayload(outPath string, rec FileRecord, decomp Decompressor) (bool, error) {
	if rec.Stored() {
		data, err := ar.buf.Bytes(int(rec.Offset), int(rec.Size))
		if err != nil {
			return false, err
		}
		return false, writeFile(outPath, data)
	}

	off, zsize := int(rec.Offset), int(rec.ZSize)
	if rec.Flags&flagEmbeddedHeader != 0 && rec.Flags&flagStream == 0 {
		off += embeddedHeaderSize
		zsize -= embeddedHeaderSize
	}

	compressed, err := ar.buf.Bytes(off, zsize)
	if err != nil {
		return false, err
	}

	if decomp != nil {
		data, derr := decomp.Decompress(compressed, int(rec.Size))
		if derr == nil {
			return false, writeFile(outPath, data)
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to decompress %s: %v\n", outPath, derr)
	}

	raw, err := ar.buf.Bytes(int(rec.Offset), int(rec.ZSize))
	if err != nil {
		return false, err
	}
	return true, writeFile(outPath+".compressed", raw)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("resources: write %s: %w", path, err)
	}
	return nil
}
