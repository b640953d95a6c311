package markdocx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// RelIDAllocator hands out unique relationship identifiers for the
// main document part. Every dynamic relationship (image, hyperlink,
// header, footer, footnotes part, numbering part, embedded font) draws
// from the same allocator, so collisions are impossible by
// construction. rId1 through rId5 are claimed by the fixed
// document-level parts (styles, settings, fontTable, webSettings,
// theme) and reserved at construction.
type RelIDAllocator struct {
	next     int
	handed   int
	reserved map[ooxml.RelationshipID]bool
	mapped   map[string]ooxml.RelationshipID
}

// NewRelIDAllocator returns an allocator whose first NextID call
// yields the ID after the reserved block.
func NewRelIDAllocator() *RelIDAllocator {
	a := &RelIDAllocator{
		next:     1,
		reserved: make(map[ooxml.RelationshipID]bool),
		mapped:   make(map[string]ooxml.RelationshipID),
	}
	for i := 1; i <= 5; i++ {
		a.Reserve(ooxml.RelationshipID(fmt.Sprintf("rId%d", i)))
	}
	return a
}

// Reserve marks a token permanently unavailable to NextID. A token
// with a numeric rIdN suffix also advances the counter past N, so the
// sequence never backtracks into a reserved range.
func (a *RelIDAllocator) Reserve(id ooxml.RelationshipID) {
	a.reserved[id] = true
	if suffix, ok := strings.CutPrefix(string(id), "rId"); ok {
		if n, err := strconv.Atoi(suffix); err == nil && n >= a.next {
			a.next = n + 1
		}
	}
}

// NextID allocates a fresh relationship ID, skipping reserved tokens.
func (a *RelIDAllocator) NextID() ooxml.RelationshipID {
	for {
		id := ooxml.RelationshipID(fmt.Sprintf("rId%d", a.next))
		a.next++
		if !a.reserved[id] {
			a.handed++
			return id
		}
	}
}

// MappedID returns the remapped ID for an identifier imported from
// another scope (a template's header part, for instance). The first
// call for a (scope, original) pair allocates a fresh ID; later calls
// return the same one.
func (a *RelIDAllocator) MappedID(scope, original string) ooxml.RelationshipID {
	key := scope + "\x00" + original
	if id, ok := a.mapped[key]; ok {
		return id
	}
	id := a.NextID()
	a.mapped[key] = id
	return id
}

// Allocated reports how many dynamic IDs have been handed out.
func (a *RelIDAllocator) Allocated() int {
	return a.handed
}
