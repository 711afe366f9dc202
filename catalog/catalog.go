// catalog.go - Table registry built from a reverse scan of the leaf pages
package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/record"
)

var errNoDefinition = errors.New("no table definition portions")

// PageRecords yields the decoded records of one page.
type PageRecords interface {
	PageRecords(ref uint32) ([]record.Record, error)
}

// Catalog owns every table found in the file.
type Catalog struct {
	tables map[uint32]*Table

	// PagesScanned counts leaf pages decoded before the scan stopped.
	PagesScanned int
	// StoppedEarly is set when every table was complete before the last page.
	StoppedEarly bool
}

// Build scans refs in the order given (newest page first) and stops after the
// first page at which every discovered table is complete.
func Build(src PageRecords, refs []uint32, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Catalog{tables: make(map[uint32]*Table)}
	seenTags := make(map[uint8]bool)

	for i, ref := range refs {
		recs, err := src.PageRecords(ref)
		if err != nil {
			return nil, fmt.Errorf("catalog scan page %#x: %w", ref, err)
		}
		c.PagesScanned++
		for _, rec := range recs {
			c.route(rec, seenTags, logger)
		}
		if c.complete() {
			c.StoppedEarly = i < len(refs)-1
			logger.Debug("catalog complete", "tables", len(c.tables), "pages", c.PagesScanned, "of", len(refs))
			break
		}
	}
	return c, nil
}

func (c *Catalog) table(n uint32) *Table {
	t, ok := c.tables[n]
	if !ok {
		t = NewTable(n)
		c.tables[n] = t
	}
	return t
}

func (c *Catalog) route(rec record.Record, seenTags map[uint8]bool, logger *slog.Logger) {
	switch rec.Kind {
	case record.KindNull:
		return
	case record.KindTableName:
		if c.table(rec.TableNumber).SetName(rec.Name) {
			logger.Debug("table name", "table", rec.TableNumber, "name", rec.Name)
		}
	case record.KindTableDefinition:
		c.table(rec.TableNumber).AddPortion(rec.Definition.Number, rec.Definition.Bytes)
	case record.KindMetadata:
		c.table(rec.TableNumber).AddStatistics(*rec.Metadata)
	case record.KindIndex:
		c.table(rec.TableNumber)
		if !seenTags[rec.Index.Tag] {
			seenTags[rec.Index.Tag] = true
			logger.Debug("record tag routed to index", "tag", rec.Index.Tag, "table", rec.TableNumber)
		}
	case record.KindData:
		c.table(rec.TableNumber)
	}
}

func (c *Catalog) complete() bool {
	if len(c.tables) == 0 {
		return false
	}
	for _, t := range c.tables {
		if !t.IsComplete() {
			return false
		}
	}
	return true
}

// Len is the number of tables discovered.
func (c *Catalog) Len() int { return len(c.tables) }

// Tables returns all tables sorted by number.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Table) int {
		switch {
		case a.Number < b.Number:
			return -1
		case a.Number > b.Number:
			return 1
		}
		return 0
	})
	return out
}

// ByNumber looks a table up by its number.
func (c *Catalog) ByNumber(n uint32) (*Table, bool) {
	t, ok := c.tables[n]
	return t, ok
}

// ByName finds a table by name, case-insensitively.
func (c *Catalog) ByName(name string) (*Table, error) {
	for _, t := range c.Tables() {
		if t.name != "" && strings.EqualFold(t.name, name) {
			return t, nil
		}
	}
	return nil, &format.UnknownTableError{Name: name}
}

// Names lists the named tables in table-number order.
func (c *Catalog) Names() []string {
	var out []string
	for _, t := range c.Tables() {
		if t.name != "" {
			out = append(out, t.name)
		}
	}
	return out
}
