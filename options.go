// options.go - Functional options for opening a TPS file
package tps

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wilhasse/go-tps/internal/options"
	"github.com/wilhasse/go-tps/page"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCacheSize bounds the decoded page cache, in reconstructed record bytes.
const DefaultCacheSize = 64 << 20

type config struct {
	encoding   encoding.Encoding
	dateFields []string
	timeFields []string
	validate   bool
	fatal      bool
	cache      bool
	cacheSize  int64
	logger     *slog.Logger
	decryptor  Decryptor
	walk       page.Walk
	table      string
}

func defaultConfig() *config {
	return &config{
		encoding:  charmap.Windows1252,
		validate:  true,
		cache:     true,
		cacheSize: DefaultCacheSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		decryptor: Plaintext{},
		walk:      page.TreeWalk,
	}
}

// Option configures Open and OpenReader.
type Option = options.Option[*config]

// LookupEncoding resolves an IANA charset name. "raw" keeps string bytes unchanged.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "raw", "none":
		return nil, nil
	case "", "cp1252":
		return charmap.Windows1252, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}

// WithEncoding sets the code page for string fields and table names (default windows-1252).
func WithEncoding(name string) Option {
	return options.New(func(c *config) error {
		enc, err := LookupEncoding(name)
		if err != nil {
			return err
		}
		c.encoding = enc
		return nil
	})
}

// WithDateFields names LONG fields holding Clarion dates.
func WithDateFields(names ...string) Option {
	return options.NoError(func(c *config) { c.dateFields = append(c.dateFields, names...) })
}

// WithTimeFields names LONG fields holding centisecond timestamps.
func WithTimeFields(names ...string) Option {
	return options.NoError(func(c *config) { c.timeFields = append(c.timeFields, names...) })
}

// WithValidation toggles the size sanity checks. Disabled checks are skipped, not warned.
func WithValidation(on bool) Option {
	return options.NoError(func(c *config) { c.validate = on })
}

// WithFatalValidation turns validation warnings into errors.
func WithFatalValidation(on bool) Option {
	return options.NoError(func(c *config) { c.fatal = on })
}

func WithCache(on bool) Option {
	return options.NoError(func(c *config) { c.cache = on })
}

func WithCacheSize(bytes int64) Option {
	return options.New(func(c *config) error {
		if bytes <= 0 {
			return fmt.Errorf("cache size must be positive, got %d", bytes)
		}
		c.cacheSize = bytes
		return nil
	})
}

func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

func WithDecryptor(d Decryptor) Option {
	return options.NoError(func(c *config) {
		if d != nil {
			c.decryptor = d
		}
	})
}

// WithPageWalk selects tree or block-table page enumeration.
func WithPageWalk(w page.Walk) Option {
	return options.NoError(func(c *config) { c.walk = w })
}

// WithTable selects the current table right after opening.
func WithTable(name string) Option {
	return options.NoError(func(c *config) { c.table = name })
}
