// header.go - File header and block-range table parsing
package page

import (
	"bytes"
	"fmt"

	"github.com/wilhasse/go-tps/format"
)

// FileHeader is the fixed 0x200-byte structure at the start of every TPS file.
type FileHeader struct {
	Offset            uint32
	Size              uint16
	FileSize          uint32
	AllocatedFileSize uint32
	LastIssuedRow     uint32 // stored big-endian
	ChangeCount       uint32
	PageRootRef       uint32
	BlockStartRef     []uint32
	BlockEndRef       []uint32
}

// ParseFileHeader decodes the header from the first bytes of the (decrypted) file.
// A magic mismatch almost always means the file was opened with the wrong key.
func ParseFileHeader(p []byte) (*FileHeader, error) {
	if len(p) < format.HeaderFixed {
		return nil, &format.FormatError{What: fmt.Sprintf("short header: %d bytes", len(p)), Err: format.ErrShortRead}
	}
	if !bytes.Equal(p[14:20], format.Magic) {
		return nil, &format.FormatError{What: fmt.Sprintf("magic %q", p[14:20]), Offset: 14, Err: format.ErrBadMagic}
	}
	c := format.NewCursor(p)
	h := &FileHeader{}
	h.Offset = c.U32()
	h.Size = c.U16()
	h.FileSize = c.U32()
	h.AllocatedFileSize = c.U32()
	c.Bytes(len(format.Magic))
	h.LastIssuedRow = c.BeU32()
	h.ChangeCount = c.U32()
	h.PageRootRef = c.U32()

	if h.Size < format.HeaderFixed {
		return nil, &format.FormatError{What: fmt.Sprintf("header size %#x", h.Size), Offset: 4}
	}
	n := int(h.Size-format.HeaderFixed) / 8
	h.BlockStartRef = make([]uint32, n)
	h.BlockEndRef = make([]uint32, n)
	for i := range h.BlockStartRef {
		h.BlockStartRef[i] = c.U32()
	}
	for i := range h.BlockEndRef {
		h.BlockEndRef[i] = c.U32()
	}
	if c.Err != nil {
		return nil, &format.FormatError{What: "block table", Offset: int64(c.Pos), Err: c.Err}
	}
	return h, nil
}

// BlockContains reports whether [start, end) lies inside one of the declared blocks.
func (h *FileHeader) BlockContains(start, end uint32) bool {
	for i := range h.BlockStartRef {
		if h.BlockStartRef[i] <= start && end <= h.BlockEndRef[i] {
			return true
		}
	}
	return false
}

// PageOffset is the absolute byte offset of the page header for ref.
func (h *FileHeader) PageOffset(ref uint32) int64 {
	return int64(ref)*format.PageRefUnit + int64(h.Size)
}
