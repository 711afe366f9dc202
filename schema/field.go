// field.go - Field definitions of a TPS table
package schema

import (
	"strings"

	"github.com/wilhasse/go-tps/format"
)

type FieldType = format.FieldType

const (
	FieldByte    = format.FieldByte
	FieldShort   = format.FieldShort
	FieldUShort  = format.FieldUShort
	FieldDate    = format.FieldDate
	FieldTime    = format.FieldTime
	FieldLong    = format.FieldLong
	FieldULong   = format.FieldULong
	FieldFloat   = format.FieldFloat
	FieldDouble  = format.FieldDouble
	FieldDecimal = format.FieldDecimal
	FieldString  = format.FieldString
	FieldCString = format.FieldCString
	FieldPString = format.FieldPString
	FieldGroup   = format.FieldGroup
)

// FieldDefinition describes one field of a row. Names carry the table prefix
// ("CUS:NAME").
type FieldDefinition struct {
	Type              FieldType
	Offset            uint16 // byte offset within the row
	Name              string
	ArrayElementCount uint16
	Size              uint16 // total byte width, all array elements included
	Overlaps          uint16 // 1 when declared OVER another field
	Number            uint16

	// string kinds only
	ArrayElementSize uint16
	Template         uint16

	// DECIMAL only
	DecimalCount uint8
	DecimalSize  uint8
}

// ShortName drops the "PREFIX:" part of the name.
func (f *FieldDefinition) ShortName() string {
	if i := strings.IndexByte(f.Name, ':'); i >= 0 {
		return f.Name[i+1:]
	}
	return f.Name
}

// IsArray is true for DIM'ed fields.
func (f *FieldDefinition) IsArray() bool { return f.ArrayElementCount > 1 }

// ElementSize is the width of one array element.
func (f *FieldDefinition) ElementSize() int {
	if f.ArrayElementCount <= 1 {
		return int(f.Size)
	}
	return int(f.Size) / int(f.ArrayElementCount)
}

func parseField(c *format.Cursor) FieldDefinition {
	f := FieldDefinition{}
	f.Type = FieldType(c.U8())
	f.Offset = c.U16()
	f.Name = string(c.CString())
	f.ArrayElementCount = c.U16()
	f.Size = c.U16()
	f.Overlaps = c.U16()
	f.Number = c.U16()
	switch {
	case f.Type.IsString():
		f.ArrayElementSize = c.U16()
		f.Template = c.U16()
	case f.Type == format.FieldDecimal:
		f.DecimalCount = c.U8()
		f.DecimalSize = c.U8()
	}
	return f
}
