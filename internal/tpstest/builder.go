// Package tpstest synthesizes TPS files for tests.
package tpstest

import (
	"encoding/binary"

	"github.com/wilhasse/go-tps/format"
)

type pageSpec struct {
	level    uint8
	records  [][]byte
	compress bool
	children []uint32
}

// Builder lays pages out one after another behind a 0x200-byte header.
// Refs are assigned in the order pages are added.
type Builder struct {
	pages   []pageSpec
	root    int // index into pages, -1 for automatic
	nextRef uint32

	refs []uint32

	// LastIssuedRow and ChangeCount are copied into the header.
	LastIssuedRow uint32
	ChangeCount   uint32
}

func New() *Builder { return &Builder{root: -1} }

// AddLeaf appends a leaf page and returns its index. Compressed pages fall back
// to plain storage when run-length encoding does not shrink the body.
func (b *Builder) AddLeaf(compress bool, records ...[]byte) int {
	b.pages = append(b.pages, pageSpec{records: records, compress: compress})
	return len(b.pages) - 1
}

// AddInterior appends an interior page whose children are page indexes.
func (b *Builder) AddInterior(level uint8, children ...int) int {
	cs := make([]uint32, len(children))
	for i, c := range children {
		cs[i] = uint32(c)
	}
	b.pages = append(b.pages, pageSpec{level: level, children: cs})
	return len(b.pages) - 1
}

// SetRoot makes page index i the root. Without it a single page is its own
// root and several pages get an interior root over all leaves.
func (b *Builder) SetRoot(i int) { b.root = i }

// Ref returns the page ref assigned to page index i by the last Bytes call.
func (b *Builder) Ref(i int) uint32 { return b.refs[i] }

func (b *Builder) body(p pageSpec) (stored []byte, uncompressed int) {
	recs := p.records
	if p.level > 0 {
		recs = make([][]byte, len(p.children))
		for i, c := range p.children {
			recs[i] = ChildRecord([]byte{0, 0, 0, byte(i)}, b.refs[c])
		}
	}
	raw := Delta(recs)
	if p.compress {
		if c := Compress(raw); len(c) < len(raw) {
			return c, len(raw)
		}
	}
	return raw, len(raw)
}

// Bytes renders the file. Its length is a multiple of 64.
func (b *Builder) Bytes() []byte {
	pages := b.pages
	root := b.root
	if root < 0 && len(pages) > 1 {
		var leaves []int
		for i, p := range pages {
			if p.level == 0 {
				leaves = append(leaves, i)
			}
		}
		tmp := *b
		tmp.pages = append([]pageSpec(nil), pages...)
		root = tmp.AddInterior(1, leaves...)
		pages = tmp.pages
	}
	if root < 0 {
		root = 0
	}

	// Two passes: refs first, so interior pages can point at any page.
	type rendered struct {
		stored []byte
		usize  int
	}
	b.refs = make([]uint32, len(pages))
	ref := uint32(0)
	sizes := make([]int, len(pages))
	for i, p := range pages {
		b.refs[i] = ref
		// interior bodies depend on refs only through fixed-width fields
		if p.level == 0 {
			s, _ := b.body(p)
			sizes[i] = len(s)
		} else {
			sizes[i] = len(Delta(make4(len(p.children))))
		}
		ref += slots(format.PageHeaderSize + sizes[i])
	}
	out := make([]rendered, len(pages))
	for i, p := range pages {
		s, u := b.body(p)
		out[i] = rendered{stored: s, usize: u}
	}

	end := int(ref)*format.PageRefUnit + format.FileHeaderSize
	if r := end % format.FileSizeAlign; r != 0 {
		end += format.FileSizeAlign - r
	}
	file := make([]byte, end)

	h := file[:format.FileHeaderSize]
	binary.LittleEndian.PutUint32(h[0:], 0)
	binary.LittleEndian.PutUint16(h[4:], format.FileHeaderSize)
	binary.LittleEndian.PutUint32(h[6:], uint32(end))
	binary.LittleEndian.PutUint32(h[10:], uint32(end))
	copy(h[14:], format.Magic)
	binary.BigEndian.PutUint32(h[20:], b.LastIssuedRow)
	binary.LittleEndian.PutUint32(h[24:], b.ChangeCount)
	binary.LittleEndian.PutUint32(h[28:], b.refs[root])
	// one block covering every page
	blocks := (format.FileHeaderSize - format.HeaderFixed) / 8
	binary.LittleEndian.PutUint32(h[format.HeaderFixed:], 0)
	binary.LittleEndian.PutUint32(h[format.HeaderFixed+4*blocks:], ref)

	for i, p := range pages {
		r := out[i]
		off := int(b.refs[i])*format.PageRefUnit + format.FileHeaderSize
		ph := file[off : off+format.PageHeaderSize]
		size := format.PageHeaderSize + len(r.stored)
		binary.LittleEndian.PutUint32(ph[0:], uint32(off))
		binary.LittleEndian.PutUint16(ph[4:], uint16(size))
		binary.LittleEndian.PutUint16(ph[6:], uint16(format.PageHeaderSize+r.usize))
		binary.LittleEndian.PutUint16(ph[8:], uint16(format.PageHeaderSize+r.usize))
		binary.LittleEndian.PutUint16(ph[10:], uint16(len(p.records)+len(p.children)))
		ph[12] = p.level
		copy(file[off+format.PageHeaderSize:], r.stored)
	}
	return file
}

func slots(size int) uint32 {
	return uint32((size + format.PageRefUnit - 1) / format.PageRefUnit)
}

func make4(n int) [][]byte {
	recs := make([][]byte, n)
	for i := range recs {
		recs[i] = ChildRecord([]byte{0, 0, 0, byte(i)}, 0)
	}
	return recs
}
