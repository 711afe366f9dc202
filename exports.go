// exports.go - Re-exports for main package API
package tps

import (
	"github.com/wilhasse/go-tps/catalog"
	"github.com/wilhasse/go-tps/column"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/page"
	"github.com/wilhasse/go-tps/schema"
)

// Re-export error types from format package
type (
	FormatError          = format.FormatError
	CorruptPageError     = format.CorruptPageError
	RowSizeMismatchError = format.RowSizeMismatchError
	RowDecodeError       = format.RowDecodeError
	UnknownTableError    = format.UnknownTableError
	ValidationWarning    = format.ValidationWarning
	FieldType            = format.FieldType
)

// Re-export sentinel errors
var (
	ErrShortRead = format.ErrShortRead
	ErrBadMagic  = format.ErrBadMagic
)

// Re-export page walk selection
type Walk = page.Walk

const (
	TreeWalk  = page.TreeWalk
	BlockWalk = page.BlockWalk
)

var ParseWalk = page.ParseWalk

// Re-export table and schema types
type (
	FileHeader      = page.FileHeader
	Table           = catalog.Table
	TableDefinition = schema.TableDefinition
	FieldDefinition = schema.FieldDefinition
	MemoDefinition  = schema.MemoDefinition
	IndexDefinition = schema.IndexDefinition
)

// Re-export decoded value types from column package
type (
	Date      = column.Date
	TimeOfDay = column.TimeOfDay
	Decimal   = column.Decimal
	Raw       = column.Raw
)

// DDL renders a CREATE TABLE statement for the named table.
func (f *File) DDL(name string) (string, error) {
	t, err := f.cat.ByName(name)
	if err != nil {
		return "", err
	}
	td, err := t.Definition()
	if err != nil {
		return "", err
	}
	ov := schema.Overrides{DateFields: f.cfg.dateFields, TimeFields: f.cfg.timeFields}
	return schema.DDL(t.Name(), td, ov), nil
}
