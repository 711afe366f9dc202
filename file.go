// file.go - Opening a TPS file and selecting the current table
package tps

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/wilhasse/go-tps/catalog"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/options"
	"github.com/wilhasse/go-tps/page"
	"github.com/wilhasse/go-tps/schema"
)

// ErrNoTable is returned by scans before SetCurrentTable succeeded.
var ErrNoTable = errors.New("no current table selected")

// File is an open TPS file. It owns the header, page tree, catalog and page
// cache until Close. Concurrent Rows scans are safe.
type File struct {
	src    ByteSource
	cfg    *config
	header *page.FileHeader
	loader *page.Loader
	tree   *page.Tree
	pages  *pageRecords
	cat    *catalog.Catalog

	mu       sync.Mutex
	warnings []*format.ValidationWarning
	current  *catalog.Table
	def      *schema.TableDefinition
}

// Open maps path and builds the table catalog.
func Open(path string, opts ...Option) (*File, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	src, err := OpenMapped(path, cfg.decryptor)
	if err != nil {
		return nil, err
	}
	f, err := open(src, cfg)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// OpenReader reads a TPS file from r. Close does not close r unless it is an io.Closer.
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return open(NewReaderSource(r, size, cfg.decryptor), cfg)
}

// OpenSource builds a File over an existing ByteSource.
func OpenSource(src ByteSource, opts ...Option) (*File, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return open(src, cfg)
}

func buildConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func open(src ByteSource, cfg *config) (*File, error) {
	f := &File{src: src, cfg: cfg}

	buf, err := src.Read(format.FileHeaderSize, 0)
	if err != nil {
		return nil, &format.FormatError{What: "file header", Err: err}
	}
	f.header, err = page.ParseFileHeader(buf)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("file header", "size", src.Size(), "root", f.header.PageRootRef,
		"blocks", len(f.header.BlockStartRef), "encrypted", src.IsEncrypted())

	if cfg.validate && src.Size()%format.FileSizeAlign != 0 {
		w := &format.ValidationWarning{Check: "file size alignment", Got: src.Size() % format.FileSizeAlign, Want: 0}
		if err := f.warn(w); err != nil {
			return nil, err
		}
	}

	f.loader = &page.Loader{Src: src, File: f.header, Check: cfg.validate, Warn: f.warn}
	f.tree, err = page.LoadTree(f.loader, f.header.PageRootRef, cfg.walk)
	if err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	cfg.logger.Debug("page tree", "walk", cfg.walk, "pages", f.tree.Len(), "leaves", len(f.tree.Leaves()))

	f.pages, err = newPageRecords(f.loader, f.tree, cfg.encoding, cfg)
	if err != nil {
		return nil, err
	}
	f.cat, err = catalog.Build(f.pages, f.tree.ReverseLeaves(), cfg.logger)
	if err != nil {
		f.pages.close()
		return nil, err
	}

	if cfg.table != "" {
		if err := f.SetCurrentTable(cfg.table); err != nil {
			f.pages.close()
			return nil, err
		}
	}
	return f, nil
}

func (f *File) warn(w *format.ValidationWarning) error {
	f.mu.Lock()
	f.warnings = append(f.warnings, w)
	f.mu.Unlock()
	f.cfg.logger.Warn("validation", "check", w.Check, "page", w.Ref, "got", w.Got, "want", w.Want)
	if f.cfg.fatal {
		return w
	}
	return nil
}

// Warnings returns the validation advisories collected so far.
func (f *File) Warnings() []*format.ValidationWarning {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*format.ValidationWarning(nil), f.warnings...)
}

func (f *File) Header() *page.FileHeader { return f.header }

func (f *File) Tree() *page.Tree { return f.tree }

func (f *File) Catalog() *catalog.Catalog { return f.cat }

func (f *File) IsEncrypted() bool { return f.src.IsEncrypted() }

// Tables lists the named tables.
func (f *File) Tables() []string { return f.cat.Names() }

// Table looks a table up by name.
func (f *File) Table(name string) (*catalog.Table, error) { return f.cat.ByName(name) }

// SetCurrentTable selects the table Rows and Count scan.
func (f *File) SetCurrentTable(name string) error {
	t, err := f.cat.ByName(name)
	if err != nil {
		return err
	}
	def, err := t.Definition()
	if err != nil {
		return fmt.Errorf("table %s definition: %w", t.Name(), err)
	}
	f.mu.Lock()
	f.current, f.def = t, def
	f.mu.Unlock()
	f.cfg.logger.Debug("current table", "name", t.Name(), "number", t.Number, "fields", def.FieldCount())
	return nil
}

// CurrentTable returns the selected table and its schema, or nil.
func (f *File) CurrentTable() (*catalog.Table, *schema.TableDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.def
}

// Close releases the page cache and the byte source.
func (f *File) Close() error {
	if f.pages != nil {
		f.pages.close()
	}
	return f.src.Close()
}
