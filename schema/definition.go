// definition.go - Table definition blob parsing
package schema

import (
	"fmt"
	"strings"

	"github.com/wilhasse/go-tps/format"
)

// TableDefinition is the schema assembled from a table's definition portions.
type TableDefinition struct {
	MinVersionDriver uint16
	RecordSize       uint16 // sum of all field widths
	Fields           []FieldDefinition
	Memos            []MemoDefinition
	Indexes          []IndexDefinition
}

// Parse decodes a complete definition blob. Trailing bytes are tolerated.
func Parse(blob []byte) (*TableDefinition, error) {
	c := format.NewCursor(blob)
	td := &TableDefinition{}
	td.MinVersionDriver = c.U16()
	td.RecordSize = c.U16()
	fieldCount := int(c.U16())
	memoCount := int(c.U16())
	indexCount := int(c.U16())
	if c.Err != nil {
		return nil, fmt.Errorf("definition header: %w", c.Err)
	}

	td.Fields = make([]FieldDefinition, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		f := parseField(c)
		if c.Err != nil {
			return nil, fmt.Errorf("field %d of %d at %d: %w", i, fieldCount, c.Pos, c.Err)
		}
		td.Fields = append(td.Fields, f)
	}
	for i := 0; i < memoCount; i++ {
		m := parseMemo(c)
		if c.Err != nil {
			return nil, fmt.Errorf("memo %d of %d at %d: %w", i, memoCount, c.Pos, c.Err)
		}
		td.Memos = append(td.Memos, m)
	}
	for i := 0; i < indexCount; i++ {
		ix := parseIndex(c)
		if c.Err != nil {
			return nil, fmt.Errorf("index %d of %d at %d: %w", i, indexCount, c.Pos, c.Err)
		}
		td.Indexes = append(td.Indexes, ix)
	}
	return td, nil
}

// FieldCount returns the number of fields per row.
func (td *TableDefinition) FieldCount() int { return len(td.Fields) }

// Field looks a field up by full or short name, case-insensitively.
func (td *TableDefinition) Field(name string) (*FieldDefinition, bool) {
	for i := range td.Fields {
		f := &td.Fields[i]
		if strings.EqualFold(f.Name, name) || strings.EqualFold(f.ShortName(), name) {
			return f, true
		}
	}
	return nil, false
}

// FieldByNumber resolves index field references.
func (td *TableDefinition) FieldByNumber(n uint16) (*FieldDefinition, bool) {
	for i := range td.Fields {
		if td.Fields[i].Number == n {
			return &td.Fields[i], true
		}
	}
	return nil, false
}

// String returns a string representation of the table definition
func (td *TableDefinition) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Record size: %d (driver %d)\n", td.RecordSize, td.MinVersionDriver))
	sb.WriteString("Fields:\n")
	for _, f := range td.Fields {
		extra := ""
		switch {
		case f.Type == format.FieldDecimal:
			extra = fmt.Sprintf(" decimals=%d", f.DecimalCount)
		case f.Type.IsString():
			extra = fmt.Sprintf(" template=%d", f.Template)
		}
		if f.IsArray() {
			extra += fmt.Sprintf(" dim=%d", f.ArrayElementCount)
		}
		sb.WriteString(fmt.Sprintf("  %d. %s %s @%d (%d)%s\n", f.Number, f.Name, f.Type, f.Offset, f.Size, extra))
	}
	for _, m := range td.Memos {
		kind := "MEMO"
		if m.Blob {
			kind = "BLOB"
		}
		sb.WriteString(fmt.Sprintf("  %s %s (%d)\n", kind, m.Name, m.Size))
	}
	for _, ix := range td.Indexes {
		sb.WriteString(fmt.Sprintf("  %s %s %d fields\n", ix.Type, ix.Name, len(ix.Fields)))
	}
	return sb.String()
}
