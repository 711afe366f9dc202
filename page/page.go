// page.go - Page header parsing and page body loading
package page

import (
	"fmt"

	"github.com/wilhasse/go-tps/format"
)

// Reader is the byte source pages are read from. Reads are absolute and already decrypted.
type Reader interface {
	Read(size int, off int64) ([]byte, error)
}

// Header is the 13-byte header in front of every page.
type Header struct {
	Ref                        uint32
	Offset                     uint32
	Size                       uint16 // stored size, header included
	UncompressedSize           uint16
	UncompressedUnabridgedSize uint16
	RecordCount                uint16
	HierarchyLevel             uint8
}

func ParseHeader(ref uint32, p []byte) (Header, error) {
	if len(p) < format.PageHeaderSize {
		return Header{}, fmt.Errorf("short page header for %#x: %d bytes", ref, len(p))
	}
	c := format.NewCursor(p)
	h := Header{Ref: ref}
	h.Offset = c.U32()
	h.Size = c.U16()
	h.UncompressedSize = c.U16()
	h.UncompressedUnabridgedSize = c.U16()
	h.RecordCount = c.U16()
	h.HierarchyLevel = c.U8()
	return h, c.Err
}

func (h Header) IsLeaf() bool { return h.HierarchyLevel == 0 }

// IsCompressed is true when the stored body is smaller than the logical body.
func (h Header) IsCompressed() bool { return h.UncompressedSize > h.Size }

func (h Header) BodySize() int { return int(h.Size) - format.PageHeaderSize }

// Slots is the number of 256-byte ref units the page occupies on disk.
func (h Header) Slots() uint32 {
	return (uint32(h.Size) + format.PageRefUnit - 1) / format.PageRefUnit
}

// Loader reads page headers and bodies relative to a file header.
type Loader struct {
	Src  Reader
	File *FileHeader
	// Check enables the size sanity checks; failures go to Warn.
	Check bool
	// Warn receives validation advisories. Returning non-nil makes them fatal.
	Warn func(*format.ValidationWarning) error
}

func (l *Loader) warn(w *format.ValidationWarning) error {
	if l.Warn == nil {
		return nil
	}
	return l.Warn(w)
}

// Header reads the page header stored at ref.
func (l *Loader) Header(ref uint32) (Header, error) {
	buf, err := l.Src.Read(format.PageHeaderSize, l.File.PageOffset(ref))
	if err != nil {
		return Header{}, fmt.Errorf("read page header %#x: %w", ref, err)
	}
	h, err := ParseHeader(ref, buf)
	if err != nil {
		return Header{}, err
	}
	if h.Size < format.PageHeaderSize {
		return Header{}, &format.CorruptPageError{Ref: ref, Reason: fmt.Sprintf("page size %d smaller than header", h.Size)}
	}
	if l.Check && len(l.File.BlockStartRef) > 0 && !l.File.BlockContains(ref, ref+h.Slots()) {
		if err := l.warn(&format.ValidationWarning{Check: "page outside block table", Ref: ref, Got: int64(ref), Want: -1}); err != nil {
			return Header{}, err
		}
	}
	return h, nil
}

// Body reads the page body and undoes the page-level run-length compression.
func (l *Loader) Body(h Header) ([]byte, error) {
	raw, err := l.Src.Read(h.BodySize(), l.File.PageOffset(h.Ref)+format.PageHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("read page body %#x: %w", h.Ref, err)
	}
	if !h.IsCompressed() {
		return raw, nil
	}
	body, err := Decompress(raw)
	if err != nil {
		return nil, withRef(err, h.Ref)
	}
	if l.Check && len(body)+format.PageHeaderSize != int(h.UncompressedSize) {
		w := &format.ValidationWarning{Check: "decompressed size", Ref: h.Ref,
			Got: int64(len(body) + format.PageHeaderSize), Want: int64(h.UncompressedSize)}
		if err := l.warn(w); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Records loads the body and reconstructs its delta-encoded records.
func (l *Loader) Records(h Header) ([]Raw, error) {
	body, err := l.Body(h)
	if err != nil {
		return nil, err
	}
	raws, err := Reconstruct(body)
	if err != nil {
		return nil, withRef(err, h.Ref)
	}
	return raws, nil
}

func withRef(err error, ref uint32) error {
	if cp, ok := err.(*format.CorruptPageError); ok {
		cp.Ref = ref
	}
	return err
}
