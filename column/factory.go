// factory.go - Factory for getting appropriate field parser
package column

import (
	"fmt"

	"github.com/wilhasse/go-tps/schema"
)

var (
	intParser      = &IntParser{}
	floatParser    = &FloatParser{}
	decimalParser  = &DecimalParser{}
	stringParser   = &StringParser{}
	dateTimeParser = &DateTimeParser{}
	rawParser      = &RawParser{}
)

// GetParser returns the appropriate parser for the field type
func GetParser(f *schema.FieldDefinition, opts *Options) Parser {
	switch f.Type {
	case schema.FieldLong:
		if opts != nil && (opts.Overrides.IsDate(f) || opts.Overrides.IsTime(f)) {
			return dateTimeParser
		}
		return intParser

	case schema.FieldByte, schema.FieldShort, schema.FieldUShort, schema.FieldULong:
		return intParser

	case schema.FieldFloat, schema.FieldDouble:
		return floatParser

	case schema.FieldDecimal:
		return decimalParser

	case schema.FieldString, schema.FieldCString, schema.FieldPString:
		return stringParser

	case schema.FieldDate, schema.FieldTime:
		return dateTimeParser

	default:
		// GROUP and anything unrecognised stay raw
		return rawParser
	}
}

// DecodeField decodes one field from a row payload. DIM'ed fields decode to a
// []any with one value per element.
func DecodeField(payload []byte, f *schema.FieldDefinition, opts *Options) (any, error) {
	parser := GetParser(f, opts)
	off := int(f.Offset)
	if !f.IsArray() || f.Type == schema.FieldGroup {
		v, err := parser.Parse(payload, off, int(f.Size), f, opts)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		return v, nil
	}

	width := f.ElementSize()
	out := make([]any, int(f.ArrayElementCount))
	for i := range out {
		v, err := parser.Parse(payload, off+i*width, width, f, opts)
		if err != nil {
			return nil, fmt.Errorf("field %s[%d]: %w", f.Name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// DecodeRow decodes every field of td from payload, in definition order.
func DecodeRow(td *schema.TableDefinition, payload []byte, opts *Options) ([]any, error) {
	values := make([]any, len(td.Fields))
	for i := range td.Fields {
		v, err := DecodeField(payload, &td.Fields[i], opts)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
