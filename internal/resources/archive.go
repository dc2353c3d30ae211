package resources

import (
	"fmt"

	"wolf2-tools/internal/binread"
)

// Magic is the 4-byte archive signature.
const Magic = "IDCL"

const recordSize = 144

// Archive is a fully indexed in-memory .resources/.pack container:
// header decoded, name table resolved and sanitized, ID-indirection
// base computed.
type Archive struct {
	Header Header
	Names  []string

	buf *binread.Buffer

	// Position immediately after the 4-byte-per-entry skip region at
	// the indirection offset. ID lookups use this recomputed base, not
	// the header's declared offset.
	indirBase int
}

// Open decodes the header, name table and indirection base. The header
// walk is strictly order-dependent: reserved fields are skipped with
// their exact widths so every later read stays aligned.
func Open(data []byte) (*Archive, error) {
	buf := binread.NewBuffer(data)

	magic, err := buf.Bytes(0, 4)
	if err != nil || string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic (want %q)", ErrInvalidFormat, Magic)
	}

	cur := binread.NewCursor(buf)
	cur.Seek(4)

	var h Header
	if h.Version, err = cur.ReadUint32(); err != nil {
		return nil, fmt.Errorf("resources: header version: %w", err)
	}

	cur.Skip(8 + 4 + 4 + 4 + 4 + 8)

	if h.FileCount, err = cur.ReadUint32(); err != nil {
		return nil, fmt.Errorf("resources: file count: %w", err)
	}
	cur.Skip(4)
	if h.AuxCount, err = cur.ReadUint32(); err != nil {
		return nil, fmt.Errorf("resources: aux count: %w", err)
	}
	cur.Skip(4)

	cur.Skip(8 + 8)

	offs := [6]*uint64{&h.NamesOff, &h.Aux1Off, &h.InfoOff, &h.Aux2Off, &h.IndirectionOff, &h.DataOff}
	for i, p := range offs {
		if *p, err = cur.ReadUint64(); err != nil {
			return nil, fmt.Errorf("resources: header offset %d: %w", i, err)
		}
	}

	ar := &Archive{Header: h, buf: buf}
	if err := ar.readNames(cur); err != nil {
		return nil, err
	}

	// Walk past the fixed-size skip region to find the working
	// indirection base; the header's declared offset is only where the
	// skip region starts.
	cur.Seek(int(h.IndirectionOff))
	cur.Skip(4 * int(h.AuxCount))
	ar.indirBase = cur.Tell()

	return ar, nil
}

func (ar *Archive) readNames(cur *binread.Cursor) error {
	cur.Seek(int(ar.Header.NamesOff))

	count, err := cur.ReadUint64()
	if err != nil {
		return fmt.Errorf("resources: name count: %w", err)
	}
	if count > uint64(ar.buf.Len())/8 {
		return fmt.Errorf("%w: name count %d exceeds archive size", ErrInvalidFormat, count)
	}

	rel := make([]uint64, count)
	for i := range rel {
		if rel[i], err = cur.ReadUint64(); err != nil {
			return fmt.Errorf("resources: name offset %d: %w", i, err)
		}
	}

	// Offsets are relative to the position right after the offset list,
	// not to the table's start.
	base := cur.Tell()

	ar.Names = make([]string, count)
	for i, off := range rel {
		raw, _, err := ar.buf.CString(base + int(off))
		if err != nil {
			return fmt.Errorf("resources: name %d: %w", i, err)
		}
		ar.Names[i] = SanitizeName(raw)
	}
	return nil
}

// readRecord decodes the 144-byte record at index i of the info table.
func (ar *Archive) readRecord(i int) (FileRecord, error) {
	cur := binread.NewCursor(ar.buf)
	cur.Seek(int(ar.Header.InfoOff) + i*recordSize)

	var rec FileRecord
	var err error

	cur.Skip(8 + 8 + 8)
	if rec.TypeID, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	if rec.NameID, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	cur.Skip(8 + 8)
	if rec.Offset, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	if rec.ZSize, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	if rec.Size, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	cur.Skip(8 + 4 + 4 + 8 + 4 + 4)
	if rec.Flags, err = cur.ReadUint64(); err != nil {
		return rec, err
	}
	cur.Skip(8 + 4 + 4 + 8)

	return rec, nil
}

// resolveName follows the double indirection for a record's NameID: the
// indirection table entry at NameID+1 holds a string-table index, which
// selects the sanitized name. It returns "" when either hop lands out
// of range.
func (ar *Archive) resolveName(rec FileRecord) string {
	strID, err := ar.buf.Uint64(ar.indirBase + int(rec.NameID+1)*8)
	if err != nil {
		return ""
	}
	if strID >= uint64(len(ar.Names)) {
		return ""
	}
	return ar.Names[strID]
}
