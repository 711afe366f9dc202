// cache.go - Decoded page record cache shared by the catalog and row scans
package tps

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/wilhasse/go-tps/page"
	"github.com/wilhasse/go-tps/record"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding"
)

// pageRecords decodes pages into records, memoized by page ref.
type pageRecords struct {
	loader *page.Loader
	tree   *page.Tree
	enc    encoding.Encoding
	logger *slog.Logger

	cache *ristretto.Cache[uint32, []record.Record] // nil when disabled
	group singleflight.Group
}

func newPageRecords(l *page.Loader, tree *page.Tree, enc encoding.Encoding, cfg *config) (*pageRecords, error) {
	pr := &pageRecords{loader: l, tree: tree, enc: enc, logger: cfg.logger}
	if !cfg.cache {
		return pr, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint32, []record.Record]{
		NumCounters: 10 * int64(max(tree.Len(), 100)),
		MaxCost:     cfg.cacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("page cache: %w", err)
	}
	pr.cache = c
	return pr, nil
}

// PageRecords returns the records of one page, decoding at most once per
// concurrent burst of callers.
func (pr *pageRecords) PageRecords(ref uint32) ([]record.Record, error) {
	if pr.cache != nil {
		if recs, ok := pr.cache.Get(ref); ok {
			return recs, nil
		}
	}
	v, err, _ := pr.group.Do(strconv.FormatUint(uint64(ref), 16), func() (any, error) {
		return pr.decode(ref)
	})
	if err != nil {
		return nil, err
	}
	return v.([]record.Record), nil
}

func (pr *pageRecords) decode(ref uint32) ([]record.Record, error) {
	h, ok := pr.tree.Header(ref)
	if !ok {
		var err error
		if h, err = pr.loader.Header(ref); err != nil {
			return nil, err
		}
	}
	raws, err := pr.loader.Records(h)
	if err != nil {
		return nil, err
	}
	recs, err := record.ParseAll(raws, pr.enc)
	if err != nil {
		return nil, fmt.Errorf("page %#x: %w", ref, err)
	}
	if pr.cache != nil {
		var cost int64
		for _, r := range raws {
			cost += int64(len(r.Bytes))
		}
		pr.cache.Set(ref, recs, max(cost, 1))
		pr.logger.Debug("page cache fill", "ref", ref, "records", len(recs), "cost", cost)
	}
	return recs, nil
}

func (pr *pageRecords) close() {
	if pr.cache != nil {
		pr.cache.Close()
		pr.cache = nil
	}
}

// wait blocks until buffered cache writes are applied.
func (pr *pageRecords) wait() {
	if pr.cache != nil {
		pr.cache.Wait()
	}
}
