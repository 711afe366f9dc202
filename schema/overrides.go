// overrides.go - Caller-declared LONG fields holding dates or timestamps
package schema

import "strings"

// Overrides names LONG fields that hold Clarion dates or centisecond timestamps.
// Names are matched against the short field name, case-insensitively.
type Overrides struct {
	DateFields []string
	TimeFields []string
}

func matchName(list []string, f *FieldDefinition) bool {
	short := f.ShortName()
	for _, n := range list {
		if strings.EqualFold(n, short) || strings.EqualFold(n, f.Name) {
			return true
		}
	}
	return false
}

// IsDate reports whether a LONG field should decode as a date.
func (o Overrides) IsDate(f *FieldDefinition) bool {
	return f.Type == FieldLong && matchName(o.DateFields, f)
}

// IsTime reports whether a LONG field should decode as a timestamp.
func (o Overrides) IsTime(f *FieldDefinition) bool {
	return f.Type == FieldLong && !o.IsDate(f) && matchName(o.TimeFields, f)
}
