// string_parser.go - Parser for string field types
package column

import (
	"bytes"
	"fmt"

	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/record"
	"github.com/wilhasse/go-tps/schema"
)

// StringParser handles STRING, CSTRING and PSTRING fields
type StringParser struct {
	BaseParser
}

// Parse parses string value based on field type
func (p *StringParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	data, err := p.readBytes(input, offset, width)
	if err != nil {
		return nil, err
	}

	switch f.Type {
	case schema.FieldString:
		// Fixed width, space padded
		data = bytes.TrimRight(data, " \x00")

	case schema.FieldCString:
		if i := bytes.IndexByte(data, 0); i >= 0 {
			data = data[:i]
		}
		data = bytes.TrimRight(data, " ")

	case schema.FieldPString:
		if len(data) == 0 {
			return "", nil
		}
		n := int(data[0])
		if 1+n > len(data) {
			return nil, fmt.Errorf("pstring length %d exceeds field width %d: %w", n, len(data), format.ErrShortRead)
		}
		data = bytes.TrimRight(data[1:1+n], " ")

	default:
		return nil, ErrUnsupportedType
	}

	var enc = opts.encoding()
	return record.DecodeText(data, enc)
}
