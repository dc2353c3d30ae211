package resources

import "errors"

var (
	// ErrInvalidFormat is returned when the archive magic or layout
	// cannot be read. Fatal for the whole run.
	ErrInvalidFormat = errors.New("resources: invalid archive format")

	// ErrDecompression is returned by Decompressor implementations that
	// ran but failed. The extractor recovers by writing the raw
	// compressed bytes and moving on.
	ErrDecompression = errors.New("resources: decompression failed")
)

// Header is the fixed-layout IDCL archive header. The six offsets are
// absolute file positions.
type Header struct {
	Version   uint32
	FileCount uint32
	AuxCount  uint32

	NamesOff       uint64
	Aux1Off        uint64
	InfoOff        uint64
	Aux2Off        uint64
	IndirectionOff uint64
	DataOff        uint64
}

// FileRecord is one entry of the record-info table. TypeID and NameID
// are indices into the ID-indirection table, never string-table indices
// themselves.
type FileRecord struct {
	TypeID uint64
	NameID uint64
	Offset uint64
	ZSize  uint64
	Size   uint64
	Flags  uint64
}

// Stored reports whether the payload is written uncompressed.
func (r FileRecord) Stored() bool {
	return r.Size == r.ZSize
}

// Decompressor is the injected decompression capability. Decompress
// returns exactly uncompressedSize bytes on success.
type Decompressor interface {
	Decompress(src []byte, uncompressedSize int) ([]byte, error)
}
