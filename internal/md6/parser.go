package md6

import (
	"bytes"
	"errors"
	"fmt"

	"wolf2-tools/internal/binread"
)

// ErrNoMarker signals that no part marker exists at or after the search
// offset. It terminates the part-discovery loop and is not a failure.
var ErrNoMarker = errors.New("md6: no part marker found")

// HeaderSize is the fixed container header; the first marker search
// starts past it.
const HeaderSize = 64

const (
	markerLen = 8

	// Field offsets relative to the marker start. Each vertex record is
	// 48 bytes: position (3 × f32) then UV (2 × f32), the remaining 28
	// bytes reserved. Faces follow the last vertex as bare u16 triples.
	offVertexCount = 21
	offFaceCount   = 25
	offFirstVertex = 53
	vertexStride   = 48
	faceSize       = 6
)

// Two marker variants occur in the wild; both open a part.
var markers = [][]byte{
	{0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x01, 0x01, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00},
}

// FindMarker scans byte-for-byte from offset from for either marker
// variant and returns its offset, or -1 when none remains. The window
// comparison allocates nothing.
func FindMarker(data []byte, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+markerLen <= len(data); i++ {
		if data[i] != 0x01 || data[i+1] != 0x01 {
			continue
		}
		for _, m := range markers {
			if bytes.Equal(data[i:i+markerLen], m) {
				return i
			}
		}
	}
	return -1
}

// ExtractPart decodes the first part at or after offset from. It returns
// the part and the offset immediately past its face data, which is the
// resume point for the next search. ErrNoMarker means no parts remain.
// A marker whose declared counts overrun the buffer is an error for this
// part, never a silent truncation.
func ExtractPart(data []byte, from int) (Part, int, error) {
	mark := FindMarker(data, from)
	if mark < 0 {
		return Part{}, -1, fmt.Errorf("%w (searched from %#x)", ErrNoMarker, from)
	}

	buf := binread.NewBuffer(data)

	vertexCount, err := buf.Uint16(mark + offVertexCount)
	if err != nil {
		return Part{}, -1, fmt.Errorf("md6: vertex count at %#x: %w", mark+offVertexCount, err)
	}
	faceCount, err := buf.Uint16(mark + offFaceCount)
	if err != nil {
		return Part{}, -1, fmt.Errorf("md6: face count at %#x: %w", mark+offFaceCount, err)
	}

	off := mark + offFirstVertex
	verts := make([][3]float32, 0, vertexCount)
	uvs := make([][2]float32, 0, vertexCount)
	for i := 0; i < int(vertexCount); i++ {
		rec, err := buf.Bytes(off, vertexStride)
		if err != nil {
			return Part{}, -1, fmt.Errorf("md6: vertex %d at %#x: %w", i, off, err)
		}
		vbuf := binread.NewBuffer(rec)
		var v [3]float32
		var uv [2]float32
		v[0], _ = vbuf.Float32(0)
		v[1], _ = vbuf.Float32(4)
		v[2], _ = vbuf.Float32(8)
		uv[0], _ = vbuf.Float32(12)
		uv[1], _ = vbuf.Float32(16)
		verts = append(verts, v)
		uvs = append(uvs, uv)
		off += vertexStride
	}

	faces := make([][3]uint16, 0, faceCount)
	for i := 0; i < int(faceCount); i++ {
		rec, err := buf.Bytes(off, faceSize)
		if err != nil {
			return Part{}, -1, fmt.Errorf("md6: face %d at %#x: %w", i, off, err)
		}
		fbuf := binread.NewBuffer(rec)
		a, _ := fbuf.Uint16(0)
		b, _ := fbuf.Uint16(2)
		c, _ := fbuf.Uint16(4)
		for _, idx := range [3]uint16{a, b, c} {
			if int(idx) >= len(verts) {
				return Part{}, -1, fmt.Errorf("md6: face %d references vertex %d of %d", i, idx, len(verts))
			}
		}
		faces = append(faces, [3]uint16{a, b, c})
		off += faceSize
	}

	return Part{Verts: verts, UVs: uvs, Faces: faces}, off, nil
}
