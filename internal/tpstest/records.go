// records.go - Encoders for the record variants and table definitions
package tpstest

import (
	"encoding/binary"

	"github.com/wilhasse/go-tps/format"
)

// DataRecord encodes a row: table number (BE), 0xF3, record number (BE), payload.
func DataRecord(table, recno uint32, payload []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, table)
	b = append(b, byte(format.TagData))
	b = binary.BigEndian.AppendUint32(b, recno)
	return append(b, payload...)
}

// MetadataRecord encodes table statistics; the counters are little endian.
func MetadataRecord(table uint32, typ uint8, count, lastAccess uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, table)
	b = append(b, byte(format.TagMetadata), typ)
	b = binary.LittleEndian.AppendUint32(b, count)
	return binary.LittleEndian.AppendUint32(b, lastAccess)
}

// DefinitionRecord encodes one definition portion.
func DefinitionRecord(table uint32, portion uint16, chunk []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, table)
	b = append(b, byte(format.TagTableDefinition))
	b = binary.LittleEndian.AppendUint16(b, portion)
	return append(b, chunk...)
}

// TableNameRecord encodes 0xFE, the name, then the table number (BE).
func TableNameRecord(name string, table uint32) []byte {
	b := append([]byte{byte(format.TagTableName)}, name...)
	return binary.BigEndian.AppendUint32(b, table)
}

// IndexRecord encodes an index entry with its trailing record number (LE).
func IndexRecord(table uint32, tag uint8, key []byte, recno uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, table)
	b = append(b, tag)
	b = append(b, key...)
	return binary.LittleEndian.AppendUint32(b, recno)
}

// Field describes one column for Definition. Offsets and numbers are assigned in order.
type Field struct {
	Type         format.FieldType
	Name         string
	Size         uint16 // total width, all elements
	Elements     uint16 // 0 or 1 for scalars
	DecimalCount uint8
	DecimalSize  uint8
}

type Memo struct {
	Name   string
	Size   uint16
	Binary bool
}

type Index struct {
	Name   string
	Type   uint8 // 0 KEY, 1 INDEX, 2 DYNAMIC_INDEX
	Dup    bool
	NoCase bool
	Fields []uint16 // field numbers, 1-based
}

// Definition encodes a table definition blob and returns it with the record size.
func Definition(fields []Field, memos []Memo, indexes []Index) ([]byte, uint16) {
	var size uint16
	for _, f := range fields {
		size += f.Size
	}
	b := binary.LittleEndian.AppendUint16(nil, 1)
	b = binary.LittleEndian.AppendUint16(b, size)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(fields)))
	b = binary.LittleEndian.AppendUint16(b, uint16(len(memos)))
	b = binary.LittleEndian.AppendUint16(b, uint16(len(indexes)))

	var off uint16
	for i, f := range fields {
		elems := f.Elements
		if elems == 0 {
			elems = 1
		}
		b = append(b, byte(f.Type))
		b = binary.LittleEndian.AppendUint16(b, off)
		b = append(append(b, f.Name...), 0)
		b = binary.LittleEndian.AppendUint16(b, elems)
		b = binary.LittleEndian.AppendUint16(b, f.Size)
		b = binary.LittleEndian.AppendUint16(b, 0)
		b = binary.LittleEndian.AppendUint16(b, uint16(i+1))
		switch {
		case f.Type.IsString():
			b = binary.LittleEndian.AppendUint16(b, f.Size/elems)
			b = binary.LittleEndian.AppendUint16(b, 0)
		case f.Type == format.FieldDecimal:
			b = append(b, f.DecimalCount, f.DecimalSize)
		}
		off += f.Size
	}
	for _, m := range memos {
		b = append(b, 0, 1) // no external file, mark
		b = append(append(b, m.Name...), 0)
		b = binary.LittleEndian.AppendUint16(b, m.Size)
		var flags byte
		if m.Binary {
			flags = 0x06
		}
		b = append(b, flags, 0)
	}
	for _, ix := range indexes {
		b = append(b, 0, 1)
		b = append(append(b, ix.Name...), 0)
		flags := ix.Type << 5
		if ix.NoCase {
			flags |= 0x04
		}
		if ix.Dup {
			flags |= 0x01
		}
		b = append(b, flags)
		b = binary.LittleEndian.AppendUint16(b, uint16(len(ix.Fields)))
		for _, n := range ix.Fields {
			b = binary.LittleEndian.AppendUint16(b, n)
			b = binary.LittleEndian.AppendUint16(b, 0)
		}
	}
	return b, size
}
