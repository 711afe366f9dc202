// table.go - Per-table metadata assembled during the catalog scan
package catalog

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
	"github.com/wilhasse/go-tps/record"
	"github.com/wilhasse/go-tps/schema"
)

type portion struct {
	number uint16
	bytes  []byte
}

func portionLess(a, b portion) bool { return a.number < b.number }

// Table is one table of the file, keyed by its number.
type Table struct {
	Number uint32
	name   string

	portions *btree.BTreeG[portion]

	// Statistics keeps the first-seen metadata per type; the scan runs newest first.
	Statistics map[uint8]record.Metadata

	mu      sync.Mutex
	defHash uint64
	defDone bool
	def     *schema.TableDefinition
	defErr  error
}

func NewTable(number uint32) *Table {
	return &Table{
		Number:     number,
		portions:   btree.NewG(8, portionLess),
		Statistics: make(map[uint8]record.Metadata),
	}
}

// Name is empty until a table name record has been seen.
func (t *Table) Name() string { return t.name }

// SetName sets the name once; later calls are ignored. It reports whether the name was taken.
func (t *Table) SetName(name string) bool {
	if t.name != "" || name == "" {
		return false
	}
	t.name = name
	return true
}

// AddPortion stores a definition fragment. A portion number already present is kept.
func (t *Table) AddPortion(number uint16, b []byte) bool {
	if t.portions.Has(portion{number: number}) {
		return false
	}
	t.portions.ReplaceOrInsert(portion{number: number, bytes: b})
	return true
}

// AddStatistics records metadata for its type unless that type was already seen.
func (t *Table) AddStatistics(m record.Metadata) bool {
	if _, ok := t.Statistics[m.Type]; ok {
		return false
	}
	t.Statistics[m.Type] = m
	return true
}

// PortionCount is the number of distinct definition portions collected.
func (t *Table) PortionCount() int { return t.portions.Len() }

// Blob concatenates the definition portions in ascending portion order.
func (t *Table) Blob() []byte {
	var out []byte
	t.portions.Ascend(func(p portion) bool {
		out = append(out, p.bytes...)
		return true
	})
	return out
}

// Definition parses the assembled blob. The result is memoized until the
// portion set changes.
func (t *Table) Definition() (*schema.TableDefinition, error) {
	blob := t.Blob()
	h := xxhash.Sum64(blob)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.defDone && t.defHash == h {
		return t.def, t.defErr
	}
	if len(blob) == 0 {
		t.def, t.defErr = nil, errNoDefinition
	} else {
		t.def, t.defErr = schema.Parse(blob)
	}
	t.defHash, t.defDone = h, true
	return t.def, t.defErr
}

// contiguous reports whether the portions run 0, 1, 2, ... without a gap.
func (t *Table) contiguous() bool {
	next, ok := uint16(0), true
	t.portions.Ascend(func(p portion) bool {
		if p.number != next {
			ok = false
			return false
		}
		next++
		return true
	})
	return ok && next > 0
}

// IsComplete is true once the table has a name and gap-free definition portions
// from 0 that parse. A later portion alone can parse by accident.
func (t *Table) IsComplete() bool {
	if t.name == "" || !t.contiguous() {
		return false
	}
	_, err := t.Definition()
	return err == nil
}
