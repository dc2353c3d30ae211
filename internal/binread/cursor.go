package binread

// Cursor walks a Buffer sequentially. The archive layouts read here are
// strictly order-dependent; reserved fields must still be skipped with
// the exact width they occupy or every later read desynchronizes.
type Cursor struct {
	buf *Buffer
	pos int
}

func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Tell() int {
	return c.pos
}

func (c *Cursor) Seek(off int) {
	c.pos = off
}

func (c *Cursor) Skip(n int) {
	c.pos += n
}

func (c *Cursor) ReadUint16() (uint16, error) {
	v, err := c.buf.Uint16(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	v, err := c.buf.Uint32(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

func (c *Cursor) ReadUint64() (uint64, error) {
	v, err := c.buf.Uint64(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 8
	return v, nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.buf.Float32(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// ReadCString reads a null-terminated string at the current position and
// advances past the terminator.
func (c *Cursor) ReadCString() (string, error) {
	s, n, err := c.buf.CString(c.pos)
	if err != nil {
		return "", err
	}
	c.pos += n
	return s, nil
}
