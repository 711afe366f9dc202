// rows.go - Row iteration over the leaf pages of the current table
package tps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/wilhasse/go-tps/catalog"
	"github.com/wilhasse/go-tps/column"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/record"
	"github.com/wilhasse/go-tps/schema"
	"golang.org/x/sync/errgroup"
)

// RecNoField is the synthetic first column holding the record number.
const RecNoField = "RecNo"

// Row is one decoded row: RecNo first, then the schema fields in order.
type Row struct {
	names  []string
	values []any
}

// Len is the number of values, RecNo included.
func (r Row) Len() int { return len(r.values) }

func (r Row) Names() []string { return r.names }

func (r Row) Values() []any { return r.values }

// RecNo returns the record number of the row.
func (r Row) RecNo() uint32 {
	if len(r.values) == 0 {
		return 0
	}
	n, _ := r.values[0].(uint32)
	return n
}

// Get looks a value up by full ("CUS:NAME") or short ("NAME") field name.
func (r Row) Get(name string) (any, bool) {
	for i, n := range r.names {
		if strings.EqualFold(n, name) {
			return r.values[i], true
		}
	}
	for i, n := range r.names {
		if j := strings.IndexByte(n, ':'); j >= 0 && strings.EqualFold(n[j+1:], name) {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the row as an unordered map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

// MarshalJSON writes an object with keys in field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", n, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FieldNames returns the column names of td's rows, RecNo first.
func FieldNames(td *schema.TableDefinition) []string {
	names := make([]string, 0, len(td.Fields)+1)
	names = append(names, RecNoField)
	for i := range td.Fields {
		names = append(names, td.Fields[i].Name)
	}
	return names
}

func (f *File) columnOptions() *column.Options {
	return &column.Options{
		Encoding:  f.cfg.encoding,
		Overrides: schema.Overrides{DateFields: f.cfg.dateFields, TimeFields: f.cfg.timeFields},
	}
}

// Rows scans the current table in forward leaf order. The sequence can be
// ranged over again. Row errors (RowSizeMismatchError, RowDecodeError) are
// yielded with an empty row and the scan goes on; a page error ends it.
func (f *File) Rows() iter.Seq2[Row, error] {
	t, td := f.CurrentTable()
	return func(yield func(Row, error) bool) {
		if t == nil {
			yield(Row{}, ErrNoTable)
			return
		}
		names := FieldNames(td)
		opts := f.columnOptions()
		for _, ref := range f.tree.Leaves() {
			recs, err := f.pages.PageRecords(ref)
			if err != nil {
				yield(Row{}, err)
				return
			}
			for _, rec := range recs {
				if rec.Kind != record.KindData || rec.TableNumber != t.Number {
					continue
				}
				row, err := f.decodeRow(t, td, rec.Data, names, opts)
				if !yield(row, err) {
					return
				}
			}
		}
	}
}

func (f *File) decodeRow(t *catalog.Table, td *schema.TableDefinition, d *record.Data, names []string, opts *column.Options) (Row, error) {
	if f.cfg.validate && len(d.Payload) != int(td.RecordSize) {
		return Row{}, &format.RowSizeMismatchError{Table: t.Number, RecNo: d.RecordNumber, Got: len(d.Payload), Want: int(td.RecordSize)}
	}
	vals, err := column.DecodeRow(td, d.Payload, opts)
	if err != nil {
		return Row{}, &format.RowDecodeError{Table: t.Number, RecNo: d.RecordNumber, Err: err}
	}
	values := make([]any, 0, len(vals)+1)
	values = append(values, d.RecordNumber)
	values = append(values, vals...)
	return Row{names: names, values: values}, nil
}

// Count returns the number of data records of the current table without
// decoding their fields.
func (f *File) Count() (int, error) {
	t, _ := f.CurrentTable()
	if t == nil {
		return 0, ErrNoTable
	}
	n := 0
	for _, ref := range f.tree.Leaves() {
		recs, err := f.pages.PageRecords(ref)
		if err != nil {
			return n, err
		}
		for _, rec := range recs {
			if rec.Kind == record.KindData && rec.TableNumber == t.Number {
				n++
			}
		}
	}
	return n, nil
}

// Prefetch decodes every leaf page into the cache using up to workers goroutines.
func (f *File) Prefetch(ctx context.Context, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ref := range f.tree.Leaves() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := f.pages.PageRecords(ref)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	f.pages.wait()
	return ctx.Err()
}
