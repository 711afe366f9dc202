// writer.go - CSV and JSON-lines row writers
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tps "github.com/wilhasse/go-tps"
	"github.com/wilhasse/go-tps/column"
)

// Format is the row encoding of an export.
type Format uint8

const (
	FormatCSV Format = iota
	FormatJSONL
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSONL:
		return "jsonl"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// Writer emits rows one at a time. Flush must be called before the
// underlying stream is closed.
type Writer interface {
	Write(row tps.Row) error
	Flush() error
}

// NewWriter returns a writer for format. CSV writes names as the header line.
func NewWriter(w io.Writer, f Format, names []string) (Writer, error) {
	switch f {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(names); err != nil {
			return nil, err
		}
		return &csvWriter{w: cw, record: make([]string, len(names))}, nil
	case FormatJSONL:
		return &jsonlWriter{enc: json.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("unsupported export format %s", f)
}

type csvWriter struct {
	w      *csv.Writer
	record []string
}

func (c *csvWriter) Write(row tps.Row) error {
	vals := row.Values()
	if len(vals) != len(c.record) {
		return fmt.Errorf("row %d has %d values, header has %d", row.RecNo(), len(vals), len(c.record))
	}
	for i, v := range vals {
		c.record[i] = column.Format(v)
	}
	return c.w.Write(c.record)
}

func (c *csvWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (j *jsonlWriter) Write(row tps.Row) error { return j.enc.Encode(row) }

func (j *jsonlWriter) Flush() error { return nil }

// Table streams every row of the file's current table to w and returns the
// number written. Row errors abort the export unless skipBad is set, in which
// case rows failing to decode are counted in skipped. Page errors always abort.
func Table(f *tps.File, w Writer, skipBad bool) (written, skipped int, err error) {
	for row, rerr := range f.Rows() {
		if rerr != nil {
			if skipBad && isRowError(rerr) {
				skipped++
				continue
			}
			return written, skipped, rerr
		}
		if err := w.Write(row); err != nil {
			return written, skipped, err
		}
		written++
	}
	return written, skipped, w.Flush()
}
