// raw_parser.go - Passthrough parser for GROUP and unknown field types
package column

import (
	"github.com/wilhasse/go-tps/schema"
)

// RawParser copies the field bytes out unchanged
type RawParser struct {
	BaseParser
}

func (p *RawParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	b, err := p.readBytes(input, offset, width)
	if err != nil {
		return nil, err
	}
	return Raw(append([]byte(nil), b...)), nil
}
