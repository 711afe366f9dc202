// parser.go - Field parser interface and base implementation
package column

import (
	"errors"
	"math"

	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/schema"
	"golang.org/x/text/encoding"
)

// Common errors
var (
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrBadDecimal      = errors.New("invalid packed decimal digit")
)

// Options carries the per-file decoding configuration into every parser.
type Options struct {
	Encoding  encoding.Encoding // nil keeps bytes as-is
	Overrides schema.Overrides
}

// Parser decodes one element of a field from raw row bytes
type Parser interface {
	// Parse reads width bytes at offset and returns the decoded value
	Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (value any, err error)
}

// BaseParser provides common functionality for field parsers
type BaseParser struct{}

// readBytes reads specified number of bytes from input
func (p *BaseParser) readBytes(input []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(input) {
		return nil, format.ErrShortRead
	}
	return input[offset : offset+length], nil
}

func (p *BaseParser) readUint8(input []byte, offset int) (uint8, error) {
	if offset < 0 || offset+1 > len(input) {
		return 0, format.ErrShortRead
	}
	return input[offset], nil
}

// readUint16 reads an unsigned 16-bit integer (little-endian)
func (p *BaseParser) readUint16(input []byte, offset int) (uint16, error) {
	return format.Le16(input, offset)
}

// readUint32 reads an unsigned 32-bit integer (little-endian)
func (p *BaseParser) readUint32(input []byte, offset int) (uint32, error) {
	return format.Le32(input, offset)
}

func (p *BaseParser) readInt16(input []byte, offset int) (int16, error) {
	v, err := p.readUint16(input, offset)
	return int16(v), err
}

func (p *BaseParser) readInt32(input []byte, offset int) (int32, error) {
	v, err := p.readUint32(input, offset)
	return int32(v), err
}

func (p *BaseParser) readFloat32(input []byte, offset int) (float32, error) {
	v, err := p.readUint32(input, offset)
	return math.Float32frombits(v), err
}

func (p *BaseParser) readFloat64(input []byte, offset int) (float64, error) {
	v, err := format.Le64(input, offset)
	return math.Float64frombits(v), err
}

func (o *Options) encoding() encoding.Encoding {
	if o == nil {
		return nil
	}
	return o.Encoding
}
