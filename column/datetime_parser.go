// datetime_parser.go - Parser for date and time field types
package column

import (
	"fmt"
	"time"

	"github.com/wilhasse/go-tps/schema"
)

// clarionEpoch is day 0 of a Clarion standard date (proleptic ordinal 657433).
var clarionEpoch = time.Date(1800, time.December, 28, 0, 0, 0, 0, time.UTC)

// DateTimeParser handles DATE and TIME fields, and LONG fields declared as dates or times
type DateTimeParser struct {
	BaseParser
}

// Parse parses date/time value based on field type
func (p *DateTimeParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	switch f.Type {
	case schema.FieldDate:
		// day:u8 month:u8 year:u16
		b, err := p.readBytes(input, offset, 4)
		if err != nil {
			return nil, err
		}
		year := int(b[2]) | int(b[3])<<8
		if year == 0 {
			return nil, nil
		}
		return Date{Year: year, Month: time.Month(b[1]), Day: int(b[0])}, nil

	case schema.FieldTime:
		// centisecond:u8 second:u8 minute:u8 hour:u8
		b, err := p.readBytes(input, offset, 4)
		if err != nil {
			return nil, err
		}
		return TimeOfDay{Hour: int(b[3]), Minute: int(b[2]), Second: int(b[1]), Millisecond: int(b[0]) * 10}, nil

	case schema.FieldLong:
		v, err := p.readInt32(input, offset)
		if err != nil {
			return nil, err
		}
		if opts != nil && opts.Overrides.IsDate(f) {
			return ClarionDate(v), nil
		}
		if opts != nil && opts.Overrides.IsTime(f) {
			return ClarionTimestamp(v), nil
		}
		return v, nil

	default:
		return nil, ErrUnsupportedType
	}
}

// ClarionDate converts a day count to a date; 0 means no date.
func ClarionDate(days int32) any {
	if days == 0 {
		return nil
	}
	t := clarionEpoch.AddDate(0, 0, int(days))
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ClarionTimestamp formats centiseconds since the Unix epoch as
// "YYYY-MM-DD HH:MM:SS.mmm" in UTC.
func ClarionTimestamp(v int32) string {
	secs, cs := int64(v)/100, int64(v)%100
	if cs < 0 {
		secs--
		cs += 100
	}
	t := time.Unix(secs, 0).UTC()
	return fmt.Sprintf("%s.%03d", t.Format("2006-01-02 15:04:05"), cs*10)
}
