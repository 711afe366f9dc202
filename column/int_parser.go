// int_parser.go - Parser for fixed-width numeric field types
package column

import (
	"github.com/wilhasse/go-tps/schema"
)

// IntParser handles BYTE, SHORT, USHORT, LONG and ULONG fields
type IntParser struct {
	BaseParser
}

// Parse parses integer value based on field type
func (p *IntParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	switch f.Type {
	case schema.FieldByte:
		return p.readUint8(input, offset)
	case schema.FieldShort:
		return p.readInt16(input, offset)
	case schema.FieldUShort:
		return p.readUint16(input, offset)
	case schema.FieldLong:
		return p.readInt32(input, offset)
	case schema.FieldULong:
		return p.readUint32(input, offset)
	default:
		return nil, ErrUnsupportedType
	}
}

// FloatParser handles FLOAT and DOUBLE fields
type FloatParser struct {
	BaseParser
}

func (p *FloatParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	switch f.Type {
	case schema.FieldFloat:
		return p.readFloat32(input, offset)
	case schema.FieldDouble:
		return p.readFloat64(input, offset)
	default:
		return nil, ErrUnsupportedType
	}
}
