package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	tps "github.com/wilhasse/go-tps"
	"github.com/wilhasse/go-tps/column"
	"github.com/wilhasse/go-tps/export"
	"github.com/wilhasse/go-tps/schema"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func run(cfg cliConfig, w io.Writer, logger *slog.Logger) error {
	walk, err := tps.ParseWalk(cfg.walk)
	if err != nil {
		return err
	}
	opts := []tps.Option{
		tps.WithEncoding(cfg.encoding),
		tps.WithDateFields(splitList(cfg.dateFields)...),
		tps.WithTimeFields(splitList(cfg.timeFields)...),
		tps.WithValidation(cfg.check),
		tps.WithFatalValidation(cfg.strict),
		tps.WithPageWalk(walk),
		tps.WithLogger(logger),
	}
	f, err := tps.Open(cfg.file, opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	if cfg.prefetch > 0 {
		if err := f.Prefetch(context.Background(), cfg.prefetch); err != nil {
			return err
		}
	}

	switch cfg.cmd {
	case "info":
		return outputInfo(w, f, cfg.format)
	case "tables":
		return outputTables(w, f, cfg.format)
	case "schema":
		return outputSchema(w, f, cfg.table, cfg.format)
	case "ddl":
		if cfg.table == "" {
			for _, name := range f.Tables() {
				ddl, err := f.DDL(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s;\n", ddl)
			}
			return nil
		}
		ddl, err := f.DDL(cfg.table)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s;\n", ddl)
		return nil
	case "rows":
		if err := f.SetCurrentTable(cfg.table); err != nil {
			return err
		}
		return outputRows(w, f, cfg.format, cfg.maxRecs)
	case "export":
		if err := f.SetCurrentTable(cfg.table); err != nil {
			return err
		}
		return runExport(w, f, cfg, logger)
	default:
		return fmt.Errorf("unknown command %q", cfg.cmd)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputInfo(w io.Writer, f *tps.File, format string) error {
	h := f.Header()
	cat := f.Catalog()
	tree := f.Tree()
	if format == "json" {
		return writeJSON(w, map[string]any{
			"file_size":       h.FileSize,
			"allocated_size":  h.AllocatedFileSize,
			"header_size":     h.Size,
			"last_issued_row": h.LastIssuedRow,
			"change_count":    h.ChangeCount,
			"root_ref":        h.PageRootRef,
			"pages":           tree.Len(),
			"leaf_pages":      len(tree.Leaves()),
			"tables":          cat.Len(),
			"catalog_pages":   cat.PagesScanned,
			"stopped_early":   cat.StoppedEarly,
			"encrypted":       f.IsEncrypted(),
			"warnings":        len(f.Warnings()),
		})
	}

	fmt.Fprintln(w, titleStyle.Render("=== TPS File ==="))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  File Size:\t%d\n", h.FileSize)
	fmt.Fprintf(tw, "  Allocated:\t%d\n", h.AllocatedFileSize)
	fmt.Fprintf(tw, "  Header Size:\t%#x\n", h.Size)
	fmt.Fprintf(tw, "  Last Row:\t%d\n", h.LastIssuedRow)
	fmt.Fprintf(tw, "  Changes:\t%d\n", h.ChangeCount)
	fmt.Fprintf(tw, "  Root Page:\t%#x\n", h.PageRootRef)
	fmt.Fprintf(tw, "  Pages:\t%d (%d leaves)\n", tree.Len(), len(tree.Leaves()))
	fmt.Fprintf(tw, "  Tables:\t%d\n", cat.Len())
	fmt.Fprintf(tw, "  Catalog Scan:\t%d pages (early stop: %v)\n", cat.PagesScanned, cat.StoppedEarly)
	fmt.Fprintf(tw, "  Encrypted:\t%v\n", f.IsEncrypted())
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warn := range f.Warnings() {
		fmt.Fprintf(w, "  warning: %v\n", warn)
	}
	return nil
}

func outputTables(w io.Writer, f *tps.File, format string) error {
	tables := f.Catalog().Tables()
	if format == "json" {
		out := make([]map[string]any, 0, len(tables))
		for _, t := range tables {
			entry := map[string]any{"number": t.Number, "name": t.Name(), "complete": t.IsComplete()}
			if td, err := t.Definition(); err == nil {
				entry["fields"] = td.FieldCount()
				entry["record_size"] = td.RecordSize
			}
			out = append(out, entry)
		}
		return writeJSON(w, out)
	}

	tbl := newTable("Number", "Name", "Fields", "Record Size", "Statistics")
	for _, t := range tables {
		fields, size := "-", "-"
		if td, err := t.Definition(); err == nil {
			fields = strconv.Itoa(td.FieldCount())
			size = strconv.Itoa(int(td.RecordSize))
		}
		tbl.Row(strconv.FormatUint(uint64(t.Number), 10), t.Name(), fields, size, strconv.Itoa(len(t.Statistics)))
	}
	fmt.Fprintln(w, tbl.Render())
	return nil
}

func outputSchema(w io.Writer, f *tps.File, name, format string) error {
	t, err := f.Table(name)
	if err != nil {
		return err
	}
	td, err := t.Definition()
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, td)
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== %s (table %d, %d bytes per row) ===", t.Name(), t.Number, td.RecordSize)))
	fields := newTable("#", "Name", "Type", "Offset", "Size", "Elements", "Decimals")
	for _, fd := range td.Fields {
		decimals := ""
		if fd.Type == schema.FieldDecimal {
			decimals = strconv.Itoa(int(fd.DecimalCount))
		}
		fields.Row(strconv.Itoa(int(fd.Number)), fd.Name, fd.Type.String(),
			strconv.Itoa(int(fd.Offset)), strconv.Itoa(int(fd.Size)), strconv.Itoa(int(fd.ArrayElementCount)), decimals)
	}
	fmt.Fprintln(w, fields.Render())

	if len(td.Memos) > 0 {
		memos := newTable("Name", "Size", "Blob", "Binary")
		for _, m := range td.Memos {
			memos.Row(m.Name, strconv.Itoa(int(m.Size)), strconv.FormatBool(m.Blob), strconv.FormatBool(m.Binary))
		}
		fmt.Fprintln(w, memos.Render())
	}
	if len(td.Indexes) > 0 {
		indexes := newTable("Name", "Type", "Unique", "Fields")
		for _, ix := range td.Indexes {
			var names []string
			for _, ixf := range ix.Fields {
				if fd, ok := td.FieldByNumber(ixf.FieldNumber); ok {
					names = append(names, fd.ShortName())
				}
			}
			indexes.Row(ix.Name, ix.Type.String(), strconv.FormatBool(!ix.Dup), fmt.Sprint(names))
		}
		fmt.Fprintln(w, indexes.Render())
	}
	return nil
}

func outputRows(w io.Writer, f *tps.File, format string, maxRecs int) error {
	_, td := f.CurrentTable()
	names := tps.FieldNames(td)

	switch format {
	case "json", "jsonl", "csv":
		fmtKind := export.FormatCSV
		if format != "csv" {
			fmtKind = export.FormatJSONL
		}
		ew, err := export.NewWriter(w, fmtKind, names)
		if err != nil {
			return err
		}
		n := 0
		for row, err := range f.Rows() {
			if err != nil {
				return err
			}
			if maxRecs > 0 && n >= maxRecs {
				break
			}
			if err := ew.Write(row); err != nil {
				return err
			}
			n++
		}
		return ew.Flush()
	}

	tbl := newTable(names...)
	n := 0
	for row, err := range f.Rows() {
		if err != nil {
			return err
		}
		if maxRecs > 0 && n >= maxRecs {
			break
		}
		cells := make([]string, row.Len())
		for i, v := range row.Values() {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = column.Format(v)
			}
		}
		tbl.Row(cells...)
		n++
	}
	fmt.Fprintln(w, tbl.Render())
	if maxRecs > 0 && n == maxRecs {
		fmt.Fprintf(w, "  ... (showing first %d records)\n", maxRecs)
	}
	return nil
}

func runExport(w io.Writer, f *tps.File, cfg cliConfig, logger *slog.Logger) error {
	kind, err := export.ParseCompression(cfg.compress)
	if err != nil {
		return err
	}
	fmtName := cfg.format
	if fmtName == "text" {
		fmtName = "csv"
	}
	format, err := export.ParseFormat(fmtName)
	if err != nil {
		return err
	}

	dst := w
	if cfg.out != "" {
		file, err := os.Create(cfg.out)
		if err != nil {
			return err
		}
		defer file.Close()
		dst = file
	}
	zw, err := export.Compress(dst, kind)
	if err != nil {
		return err
	}
	_, td := f.CurrentTable()
	ew, err := export.NewWriter(zw, format, tps.FieldNames(td))
	if err != nil {
		return err
	}
	written, skipped, err := export.Table(f, ew, !cfg.strict)
	if err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	logger.Info("export done", "table", cfg.table, "rows", written, "skipped", skipped, "format", format, "compression", kind)
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
