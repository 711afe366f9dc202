// tree.go - Page enumeration from the root ref or from the block table
package page

import (
	"fmt"
	"slices"

	"github.com/wilhasse/go-tps/format"
)

// Walk selects how pages are enumerated.
type Walk int

const (
	// TreeWalk follows child refs from the header's root page.
	TreeWalk Walk = iota
	// BlockWalk visits every page laid out inside the header's block ranges.
	BlockWalk
)

func (w Walk) String() string {
	switch w {
	case TreeWalk:
		return "tree"
	case BlockWalk:
		return "blocks"
	default:
		return fmt.Sprintf("Walk(%d)", int(w))
	}
}

// ParseWalk maps "tree"/"blocks" to a Walk.
func ParseWalk(s string) (Walk, error) {
	switch s {
	case "", "tree":
		return TreeWalk, nil
	case "blocks", "block":
		return BlockWalk, nil
	}
	return 0, fmt.Errorf("unknown page walk %q", s)
}

// Tree is the materialized, stably ordered page list of one file.
type Tree struct {
	order   []uint32
	headers map[uint32]Header
}

// LoadTree enumerates all pages reachable from root.
func LoadTree(l *Loader, root uint32, walk Walk) (*Tree, error) {
	t := &Tree{headers: make(map[uint32]Header)}
	var err error
	switch walk {
	case BlockWalk:
		err = t.walkBlocks(l)
	default:
		err = t.walkFrom(l, root)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// walkFrom is a depth-first preorder walk. Interior records end with the child ref.
func (t *Tree) walkFrom(l *Loader, root uint32) error {
	stack := []uint32{root}
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := t.headers[ref]; seen {
			continue
		}
		h, err := l.Header(ref)
		if err != nil {
			return err
		}
		t.add(h)
		if h.IsLeaf() {
			continue
		}
		raws, err := l.Records(h)
		if err != nil {
			return err
		}
		children := make([]uint32, 0, len(raws))
		for i, r := range raws {
			child, err := format.Le32(r.Bytes, len(r.Bytes)-4)
			if err != nil || len(r.Bytes) < 6 {
				return &format.CorruptPageError{Ref: ref, Offset: i, Reason: "interior record without child ref"}
			}
			children = append(children, child)
		}
		// push in reverse so the first child is visited first
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

func (t *Tree) walkBlocks(l *Loader) error {
	for i := range l.File.BlockStartRef {
		start, end := l.File.BlockStartRef[i], l.File.BlockEndRef[i]
		for ref := start; ref < end; {
			h, err := l.Header(ref)
			if err != nil {
				return err
			}
			if _, seen := t.headers[ref]; !seen {
				t.add(h)
			}
			ref += h.Slots()
		}
	}
	return nil
}

func (t *Tree) add(h Header) {
	t.headers[h.Ref] = h
	t.order = append(t.order, h.Ref)
}

// Len is the number of pages known to the tree.
func (t *Tree) Len() int { return len(t.order) }

// Refs returns every page ref in forward order.
func (t *Tree) Refs() []uint32 { return slices.Clone(t.order) }

// Header returns the parsed header of a known page.
func (t *Tree) Header(ref uint32) (Header, bool) {
	h, ok := t.headers[ref]
	return h, ok
}

// Leaves returns the level-0 page refs in forward order.
func (t *Tree) Leaves() []uint32 {
	out := make([]uint32, 0, len(t.order))
	for _, ref := range t.order {
		if t.headers[ref].IsLeaf() {
			out = append(out, ref)
		}
	}
	return out
}

// ReverseLeaves returns the level-0 page refs, most recently written first.
func (t *Tree) ReverseLeaves() []uint32 {
	out := t.Leaves()
	slices.Reverse(out)
	return out
}
