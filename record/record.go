// record.go - Tagged record variants decoded from reconstructed page records
package record

import (
	"bytes"
	"fmt"

	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/page"
	"golang.org/x/text/encoding"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindData
	KindMetadata
	KindTableDefinition
	KindTableName
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindData:
		return "DATA"
	case KindMetadata:
		return "METADATA"
	case KindTableDefinition:
		return "TABLE_DEFINITION"
	case KindTableName:
		return "TABLE_NAME"
	case KindIndex:
		return "INDEX"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Data is one table row. Payload is decoded later against the table definition.
type Data struct {
	RecordNumber uint32
	Payload      []byte
}

// Metadata holds table statistics; the catalog keeps the newest per Type.
type Metadata struct {
	Type        uint8
	RecordCount uint32
	LastAccess  uint32
}

// DefinitionPortion is one fragment of a table definition blob.
type DefinitionPortion struct {
	Number uint16
	Bytes  []byte
}

// Index entries are kept opaque; Tag is the index number within the table.
type Index struct {
	Tag          uint8
	Bytes        []byte
	RecordNumber uint32
}

// Record is a discriminated union: exactly one payload pointer is set for its Kind
// (TableName uses Name, Null uses none).
type Record struct {
	Kind        Kind
	TableNumber uint32
	HeaderSize  uint16

	Data       *Data
	Metadata   *Metadata
	Definition *DefinitionPortion
	Name       string
	Index      *Index
}

// Parse classifies one length-prefixed record. enc decodes table names; nil keeps raw bytes.
func Parse(raw []byte, headerSize uint16, enc encoding.Encoding) (Record, error) {
	if len(raw) < 2 {
		return Record{}, &format.FormatError{What: "record without length prefix", Err: format.ErrShortRead}
	}
	size := int(raw[0]) | int(raw[1])<<8
	p := raw[2:]
	if len(p) != size {
		return Record{}, &format.FormatError{What: fmt.Sprintf("record size %d, have %d bytes", size, len(p))}
	}
	rec := Record{HeaderSize: headerSize}
	if size == 0 {
		rec.Kind = KindNull
		return rec, nil
	}
	if p[0] == byte(format.TagTableName) {
		return parseTableName(rec, p, enc)
	}

	c := format.NewCursor(p)
	rec.TableNumber = c.BeU32()
	tag := c.U8()
	if c.Err != nil {
		return Record{}, &format.FormatError{What: "record header", Offset: int64(c.Pos), Err: c.Err}
	}

	switch format.RecordTag(tag) {
	case format.TagData:
		rec.Kind = KindData
		d := &Data{RecordNumber: c.BeU32()}
		d.Payload = c.Bytes(c.Remaining())
		rec.Data = d
	case format.TagMetadata:
		rec.Kind = KindMetadata
		rec.Metadata = &Metadata{Type: c.U8(), RecordCount: c.U32(), LastAccess: c.U32()}
	case format.TagTableDefinition:
		rec.Kind = KindTableDefinition
		rec.Definition = &DefinitionPortion{Number: c.U16()}
		rec.Definition.Bytes = c.Bytes(c.Remaining())
	default:
		// Everything else is an index entry; the tag is the index number.
		rec.Kind = KindIndex
		ix := &Index{Tag: tag}
		ix.Bytes = c.Bytes(c.Remaining() - 4)
		ix.RecordNumber = c.U32()
		rec.Index = ix
	}
	if c.Err != nil {
		return Record{}, &format.FormatError{What: fmt.Sprintf("%s record of table %d", rec.Kind, rec.TableNumber),
			Offset: int64(c.Pos), Err: c.Err}
	}
	return rec, nil
}

func parseTableName(rec Record, p []byte, enc encoding.Encoding) (Record, error) {
	if len(p) < 5 {
		return Record{}, &format.FormatError{What: "table name record", Err: format.ErrShortRead}
	}
	nameBytes := bytes.TrimRight(p[1:len(p)-4], "\x00 ")
	num, _ := format.Be32(p, len(p)-4)
	name, err := DecodeText(nameBytes, enc)
	if err != nil {
		return Record{}, &format.FormatError{What: "table name encoding", Offset: 1, Err: err}
	}
	rec.Kind = KindTableName
	rec.TableNumber = num
	rec.Name = name
	return rec, nil
}

// DecodeText converts bytes in the file's code page to a Go string.
func DecodeText(b []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseAll decodes every reconstructed record of a page.
func ParseAll(raws []page.Raw, enc encoding.Encoding) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, r := range raws {
		rec, err := Parse(r.Bytes, r.HeaderSize, enc)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
