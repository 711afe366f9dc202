// endian.go - Bounds-checked little/big-endian byte reading utilities
package format

import (
	"encoding/binary"
)

func Le16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, ErrShortRead
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), nil
}

func Le32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrShortRead
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

func Le64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, ErrShortRead
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), nil
}

// Be32 is only needed for table numbers, record numbers and the header's last issued row.
func Be32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint32(b[off : off+4]), nil
}

// Cursor walks a byte slice left to right. The first failed read sticks in Err and
// every later read returns zero values.
type Cursor struct {
	Buf []byte
	Pos int
	Err error
}

func NewCursor(b []byte) *Cursor { return &Cursor{Buf: b} }

func (c *Cursor) Remaining() int { return len(c.Buf) - c.Pos }

func (c *Cursor) fail(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

func (c *Cursor) U8() uint8 {
	if c.Err != nil {
		return 0
	}
	if c.Pos+1 > len(c.Buf) {
		c.fail(ErrShortRead)
		return 0
	}
	v := c.Buf[c.Pos]
	c.Pos++
	return v
}

func (c *Cursor) U16() uint16 {
	if c.Err != nil {
		return 0
	}
	v, err := Le16(c.Buf, c.Pos)
	if err != nil {
		c.fail(err)
		return 0
	}
	c.Pos += 2
	return v
}

func (c *Cursor) U32() uint32 {
	if c.Err != nil {
		return 0
	}
	v, err := Le32(c.Buf, c.Pos)
	if err != nil {
		c.fail(err)
		return 0
	}
	c.Pos += 4
	return v
}

func (c *Cursor) BeU32() uint32 {
	if c.Err != nil {
		return 0
	}
	v, err := Be32(c.Buf, c.Pos)
	if err != nil {
		c.fail(err)
		return 0
	}
	c.Pos += 4
	return v
}

func (c *Cursor) Bytes(n int) []byte {
	if c.Err != nil {
		return nil
	}
	if n < 0 || c.Pos+n > len(c.Buf) {
		c.fail(ErrShortRead)
		return nil
	}
	v := c.Buf[c.Pos : c.Pos+n]
	c.Pos += n
	return v
}

// CString reads up to and including the next NUL and returns the bytes before it.
func (c *Cursor) CString() []byte {
	if c.Err != nil {
		return nil
	}
	for i := c.Pos; i < len(c.Buf); i++ {
		if c.Buf[i] == 0 {
			v := c.Buf[c.Pos:i]
			c.Pos = i + 1
			return v
		}
	}
	c.fail(ErrShortRead)
	return nil
}
