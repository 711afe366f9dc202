// memo_index.go - Memo/BLOB and index (key) definitions
package schema

import (
	"github.com/wilhasse/go-tps/format"
)

// MemoDefinition describes a MEMO or BLOB column. Contents live outside the row
// and are not decoded.
type MemoDefinition struct {
	ExternalFile string
	Mark         uint8 // present only when ExternalFile is empty
	Name         string
	Size         uint16
	Blob         bool
	Binary       bool
	Flag         bool
}

type IndexType uint8

const (
	IndexKey IndexType = iota
	IndexIndex
	IndexDynamic
)

func (t IndexType) String() string {
	switch t {
	case IndexKey:
		return "KEY"
	case IndexIndex:
		return "INDEX"
	case IndexDynamic:
		return "DYNAMIC_INDEX"
	default:
		return "UNKNOWN"
	}
}

type IndexField struct {
	FieldNumber uint16
	Descending  bool
}

// IndexDefinition describes a KEY or INDEX over a list of field numbers.
type IndexDefinition struct {
	ExternalFile string
	Mark         uint8
	Name         string
	Type         IndexType
	NoCase       bool
	Opt          bool
	Dup          bool
	Fields       []IndexField
}

func parseMemo(c *format.Cursor) MemoDefinition {
	m := MemoDefinition{}
	m.ExternalFile = string(c.CString())
	if m.ExternalFile == "" {
		m.Mark = c.U8()
	}
	m.Name = string(c.CString())
	m.Size = c.U16()
	// flags: 5 padding bits, blob, binary, flag; then a padding byte
	flags := c.U8()
	c.U8()
	m.Blob = flags&0x04 != 0
	m.Binary = flags&0x02 != 0
	m.Flag = flags&0x01 != 0
	return m
}

func parseIndex(c *format.Cursor) IndexDefinition {
	ix := IndexDefinition{}
	ix.ExternalFile = string(c.CString())
	if ix.ExternalFile == "" {
		ix.Mark = c.U8()
	}
	ix.Name = string(c.CString())
	// flags: pad(1) type(2) pad(2) nocase opt dup
	flags := c.U8()
	ix.Type = IndexType((flags >> 5) & 0x03)
	ix.NoCase = flags&0x04 != 0
	ix.Opt = flags&0x02 != 0
	ix.Dup = flags&0x01 != 0
	n := int(c.U16())
	for i := 0; i < n && c.Err == nil; i++ {
		f := IndexField{FieldNumber: c.U16()}
		f.Descending = c.U16() != 0
		ix.Fields = append(ix.Fields, f)
	}
	return ix
}
