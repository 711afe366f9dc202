// Package tps reads TopSpeed (.tps) table files without the original engine.
//
// The library is organized into logical groups of functionality:
//
// Layout and Errors:
//   - format: file layout constants, bounds-checked endian readers, error types
//
// Pages and Records:
//   - page: file header, page headers, page tree and block walks, run-length
//     decompression and delta record reconstruction
//   - record: tagged record variants (data, metadata, table definition, table name, index)
//
// Tables:
//   - catalog: per-table name, definition portions and statistics from a reverse leaf scan
//   - schema: table definition parsing (fields, memos, indexes) and SQL DDL rendering
//   - column: per-type field decoding (integers, floats, packed decimals, dates, strings)
//
// File Access:
//   - source.go: byte sources (memory-mapped file, io.ReaderAt) and the decryption hook
//   - file.go: Open, catalog build, table selection
//   - rows.go: row iteration, counting and parallel page prefetch
//   - cache.go: decoded page record cache
//
// Basic usage:
//
//	f, err := tps.Open("customer.tps", tps.WithDateFields("BIRTHDATE"))
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	if err := f.SetCurrentTable("CUSTOMER"); err != nil {
//	    return err
//	}
//	for row, err := range f.Rows() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(row.RecNo(), row.Values())
//	}
package tps
