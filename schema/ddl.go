// ddl.go - Render a table definition as a MySQL CREATE TABLE statement
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// DDL renders td as CREATE TABLE for loading exported rows into another database.
// GROUP fields are skipped; their members are separate overlapping fields.
func DDL(tableName string, td *TableDefinition, ov Overrides) string {
	spec := &sqlparser.TableSpec{}
	names := make(map[uint16]string, len(td.Fields))
	used := make(map[string]int, len(td.Fields))

	for i := range td.Fields {
		f := &td.Fields[i]
		ct, ok := sqlColumnType(f, ov)
		if !ok {
			continue
		}
		name := strings.ToLower(f.ShortName())
		if n := used[name]; n > 0 {
			used[name]++
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			used[name] = 1
		}
		names[f.Number] = name
		spec.AddColumn(&sqlparser.ColumnDefinition{Name: sqlparser.NewColIdent(name), Type: ct})
	}

	for _, ix := range td.Indexes {
		def := &sqlparser.IndexDefinition{
			Info: &sqlparser.IndexInfo{Type: "key", Name: sqlparser.NewColIdent(strings.ToLower(shortIndexName(ix.Name)))},
		}
		if !ix.Dup {
			def.Info.Type = "unique key"
			def.Info.Unique = true
		}
		for _, col := range ix.Fields {
			if name, ok := names[col.FieldNumber]; ok {
				def.Columns = append(def.Columns, &sqlparser.IndexColumn{Column: sqlparser.NewColIdent(name)})
			}
		}
		if len(def.Columns) > 0 {
			spec.AddIndex(def)
		}
	}

	ddl := &sqlparser.DDL{
		Action:    sqlparser.CreateStr,
		Table:     sqlparser.TableName{Name: sqlparser.NewTableIdent(tableName)},
		NewName:   sqlparser.TableName{Name: sqlparser.NewTableIdent(tableName)},
		TableSpec: spec,
	}
	return sqlparser.String(ddl)
}

func shortIndexName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func intVal(n int) *sqlparser.SQLVal {
	return sqlparser.NewIntVal([]byte(strconv.Itoa(n)))
}

func sqlColumnType(f *FieldDefinition, ov Overrides) (sqlparser.ColumnType, bool) {
	ct := sqlparser.ColumnType{}
	if f.IsArray() && f.Type != FieldGroup {
		ct.Type = "json"
		return ct, true
	}
	switch f.Type {
	case FieldByte:
		ct.Type = "tinyint"
		ct.Unsigned = true
	case FieldShort:
		ct.Type = "smallint"
	case FieldUShort:
		ct.Type = "smallint"
		ct.Unsigned = true
	case FieldDate:
		ct.Type = "date"
	case FieldTime:
		ct.Type = "time"
	case FieldLong:
		switch {
		case ov.IsDate(f):
			ct.Type = "date"
		case ov.IsTime(f):
			ct.Type = "datetime"
		default:
			ct.Type = "int"
		}
	case FieldULong:
		ct.Type = "int"
		ct.Unsigned = true
	case FieldFloat:
		ct.Type = "float"
	case FieldDouble:
		ct.Type = "double"
	case FieldDecimal:
		ct.Type = "decimal"
		digits := int(f.DecimalSize)
		if digits == 0 {
			digits = int(f.Size)*2 - 1
		}
		if digits < int(f.DecimalCount) {
			digits = int(f.DecimalCount)
		}
		ct.Length = intVal(digits)
		ct.Scale = intVal(int(f.DecimalCount))
	case FieldString:
		ct.Type = "char"
		ct.Length = intVal(int(f.Size))
	case FieldCString, FieldPString:
		ct.Type = "varchar"
		ct.Length = intVal(int(f.Size))
	default:
		return ct, false
	}
	return ct, true
}
