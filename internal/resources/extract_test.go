package resources

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zstdDecomp adapts a zstd decoder to the Decompressor capability.
type zstdDecomp struct {
	dec *zstd.Decoder
}

func newZstdDecomp(t *testing.T) zstdDecomp {
	t.Helper()
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	t.Cleanup(dec.Close)
	return zstdDecomp{dec: dec}
}

func (z zstdDecomp) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	out, err := z.dec.DecodeAll(src, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDecompression, len(out), uncompressedSize)
	}
	return out, nil
}

// flateDecomp adapts DEFLATE to the Decompressor capability.
type flateDecomp struct{}

func (flateDecomp) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDecompression, len(out), uncompressedSize)
	}
	return out, nil
}

// spyDecomp counts calls and always fails.
type spyDecomp struct {
	calls int
}

func (s *spyDecomp) Decompress([]byte, int) ([]byte, error) {
	s.calls++
	return nil, errors.New("spy: always fails")
}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	out := enc.EncodeAll(data, nil)
	require.NoError(t, enc.Close())
	return out
}

func flateCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func samplePayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 7)
	}
	return data
}

// singleRecord builds an archive holding one record under name.
func singleRecord(t *testing.T, name string, rec testRecord) *Archive {
	t.Helper()
	data := buildArchive(t, []string{name}, []uint64{0, 0}, 2, []testRecord{rec})
	ar, err := Open(data)
	require.NoError(t, err)
	return ar
}

func TestExtractStored(t *testing.T) {
	t.Parallel()

	payload := []byte("stored bytes, copied verbatim")
	ar := singleRecord(t, "docs/note.txt", testRecord{
		payload: payload,
		size:    uint64(len(payload)),
	})

	// A stored record must never touch the capability, even when one
	// is available.
	spy := &spyDecomp{}
	out := t.TempDir()
	stats, err := ar.Extract(out, Options{Decomp: spy})
	require.NoError(t, err)

	assert.Equal(t, Stats{Extracted: 1}, stats)
	assert.Zero(t, spy.calls)

	got, err := os.ReadFile(filepath.Join(out, "docs", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestExtractCompressed(t *testing.T) {
	t.Parallel()

	orig := samplePayload(600)

	t.Run("zstd capability", func(t *testing.T) {
		t.Parallel()
		ar := singleRecord(t, "gfx/a.img", testRecord{
			payload: zstdCompress(t, orig),
			size:    uint64(len(orig)),
		})
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{Decomp: newZstdDecomp(t)})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "gfx", "a.img"))
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("flate capability", func(t *testing.T) {
		t.Parallel()
		ar := singleRecord(t, "gfx/b.img", testRecord{
			payload: flateCompress(t, orig),
			size:    uint64(len(orig)),
		})
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{Decomp: flateDecomp{}})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "gfx", "b.img"))
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("embedded header skipped by flags", func(t *testing.T) {
		t.Parallel()
		payload := append(bytes.Repeat([]byte{0xCC}, embeddedHeaderSize), zstdCompress(t, orig)...)
		ar := singleRecord(t, "gfx/c.img", testRecord{
			payload: payload,
			size:    uint64(len(orig)),
			flags:   flagEmbeddedHeader,
		})
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{Decomp: newZstdDecomp(t)})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "gfx", "c.img"))
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("stream bit suppresses header skip", func(t *testing.T) {
		t.Parallel()
		ar := singleRecord(t, "gfx/d.img", testRecord{
			payload: zstdCompress(t, orig),
			size:    uint64(len(orig)),
			flags:   flagEmbeddedHeader | flagStream,
		})
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{Decomp: newZstdDecomp(t)})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "gfx", "d.img"))
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})
}

func TestExtractFallback(t *testing.T) {
	t.Parallel()

	t.Run("failing capability preserves original span and continues", func(t *testing.T) {
		t.Parallel()
		orig := samplePayload(200)
		// Embedded header present, so the adjusted span differs from
		// the original one; the fallback must keep the full span.
		payload := append(bytes.Repeat([]byte{0xCC}, embeddedHeaderSize), zstdCompress(t, orig)...)
		stored := []byte("second record")

		data := buildArchive(t,
			[]string{"a/broken.bin", "a/fine.bin"},
			[]uint64{0, 0, 1},
			0,
			[]testRecord{
				{nameID: 0, payload: payload, size: uint64(len(orig)), flags: flagEmbeddedHeader},
				{nameID: 1, payload: stored, size: uint64(len(stored))},
			})
		ar, err := Open(data)
		require.NoError(t, err)

		spy := &spyDecomp{}
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{Decomp: spy})
		require.NoError(t, err)

		assert.Equal(t, Stats{Extracted: 2, Fallback: 1}, stats)
		assert.Equal(t, 1, spy.calls)

		raw, err := os.ReadFile(filepath.Join(out, "a", "broken.bin.compressed"))
		require.NoError(t, err)
		assert.Equal(t, payload, raw, "fallback must keep the unadjusted span")

		fine, err := os.ReadFile(filepath.Join(out, "a", "fine.bin"))
		require.NoError(t, err)
		assert.Equal(t, stored, fine)
	})

	t.Run("no capability at all", func(t *testing.T) {
		t.Parallel()
		comp := zstdCompress(t, samplePayload(150))
		ar := singleRecord(t, "a/locked.bin", testRecord{
			payload: comp,
			size:    150,
		})
		out := t.TempDir()
		stats, err := ar.Extract(out, Options{})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1, Fallback: 1}, stats)

		raw, err := os.ReadFile(filepath.Join(out, "a", "locked.bin.compressed"))
		require.NoError(t, err)
		assert.Equal(t, comp, raw)
	})
}

func TestExtractGarbageFilter(t *testing.T) {
	t.Parallel()

	newArchive := func(t *testing.T) *Archive {
		payload := samplePayload(50)
		return singleRecord(t, "stray", testRecord{
			payload: payload,
			size:    uint64(len(payload)),
		})
	}

	t.Run("filtered by default", func(t *testing.T) {
		t.Parallel()
		out := t.TempDir()
		stats, err := newArchive(t).Extract(out, Options{})
		require.NoError(t, err)
		assert.Equal(t, Stats{Skipped: 1}, stats)

		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("extracted when disabled", func(t *testing.T) {
		t.Parallel()
		out := t.TempDir()
		stats, err := newArchive(t).Extract(out, Options{ExtractGarbage: true})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		// Extensionless leaf gets the disambiguating suffix.
		_, err = os.Stat(filepath.Join(out, "stray.file"))
		assert.NoError(t, err)
	})
}

func TestExtractNaming(t *testing.T) {
	t.Parallel()

	t.Run("unresolvable name is synthesized", func(t *testing.T) {
		t.Parallel()
		payload := []byte("anonymous payload bytes")
		data := buildArchive(t,
			[]string{"only.bin"},
			[]uint64{0, 42}, // string index out of range
			0,
			[]testRecord{{nameID: 0, payload: payload, size: uint64(len(payload))}})
		ar, err := Open(data)
		require.NoError(t, err)

		out := t.TempDir()
		stats, err := ar.Extract(out, Options{})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "file_00000000.dat"))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("directory collision gets suffix", func(t *testing.T) {
		t.Parallel()
		payload := []byte("collides with a directory")
		ar := singleRecord(t, "maps/e1m1.map", testRecord{
			payload: payload,
			size:    uint64(len(payload)),
		})

		out := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(out, "maps", "e1m1.map"), 0o755))

		stats, err := ar.Extract(out, Options{})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "maps", "e1m1.map.file"))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("backslashes normalized", func(t *testing.T) {
		t.Parallel()
		payload := []byte("windows-style path")
		ar := singleRecord(t, `art\props\crate.mdl`, testRecord{
			payload: payload,
			size:    uint64(len(payload)),
		})

		out := t.TempDir()
		stats, err := ar.Extract(out, Options{})
		require.NoError(t, err)
		assert.Equal(t, Stats{Extracted: 1}, stats)

		got, err := os.ReadFile(filepath.Join(out, "art", "props", "crate.mdl"))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestExtractBadRecordSkipped(t *testing.T) {
	t.Parallel()

	good := []byte("good payload")
	data := buildArchive(t,
		[]string{"bad.bin", "good.bin"},
		[]uint64{0, 0, 1},
		0,
		[]testRecord{
			{nameID: 0, payload: []byte("x"), size: 1},
			{nameID: 1, payload: good, size: uint64(len(good))},
		})

	ar, err := Open(data)
	require.NoError(t, err)

	// Point the first record's payload past the end of the file; the
	// Archive reads through the same backing slice.
	binary.LittleEndian.PutUint64(data[int(ar.Header.InfoOff)+recOffset:], uint64(len(data))+100)

	out := t.TempDir()
	stats, err := ar.Extract(out, Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Extracted: 1, Skipped: 1}, stats)

	got, err := os.ReadFile(filepath.Join(out, "good.bin"))
	require.NoError(t, err)
	assert.Equal(t, good, got)
}
