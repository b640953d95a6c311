package markdocx

import (
	"strings"
	"testing"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

func serializeElements(elems []ooxml.DocElement) string {
	doc := &ooxml.DocumentXML{}
	for _, el := range elems {
		doc.AddElement(el)
	}
	return string(doc.ToXML())
}

func TestTocBookmarkSynthesis(t *testing.T) {
	c := NewTocCollector()

	bm1 := c.AddHeading(1, "Introduction", "")
	if bm1 != "_Toc1_Introduction" {
		t.Errorf("bookmark = %q, want _Toc1_Introduction", bm1)
	}

	// Explicit anchor wins over the heading text.
	bm2 := c.AddHeading(2, "System Design", "design")
	if bm2 != "_Toc2_design" {
		t.Errorf("bookmark = %q, want _Toc2_design", bm2)
	}

	// Unsafe characters drop, spaces become underscores.
	bm3 := c.AddHeading(2, "Q&A: Setup (v2)", "")
	if strings.ContainsAny(bm3, "&:()") {
		t.Errorf("bookmark %q contains unsafe characters", bm3)
	}

	// Long titles truncate to 40 characters after the prefix.
	long := strings.Repeat("VeryLongTitle", 10)
	bm4 := c.AddHeading(1, long, "")
	suffix := strings.TrimPrefix(bm4, "_Toc4_")
	if len(suffix) > 40 {
		t.Errorf("bookmark suffix is %d characters, want at most 40", len(suffix))
	}
}

func TestTocCollectionOrder(t *testing.T) {
	c := NewTocCollector()
	c.AddHeading(1, "One", "")
	c.AddHeading(2, "Two", "")
	c.AddHeading(1, "Three", "")

	entries := c.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	want := []string{"One", "Two", "Three"}
	for i, e := range entries {
		if e.Text != want[i] {
			t.Errorf("entry %d text = %q, want %q", i, e.Text, want[i])
		}
	}
}

func TestGenerateEntriesFieldStructure(t *testing.T) {
	c := NewTocCollector()
	c.AddHeading(1, "Alpha", "")
	c.AddHeading(2, "Beta", "")
	c.AddHeading(4, "TooDeep", "")

	cfg := TocConfig{Enabled: true, MaxLevel: 3, Title: "Contents"}
	xmlStr := serializeElements(c.GenerateEntries(cfg))

	// Instruction text is XML-escaped on serialization.
	if !strings.Contains(xmlStr, `TOC \o &quot;1-3&quot;`) {
		t.Error("missing TOC field instruction")
	}
	if !strings.Contains(xmlStr, "Alpha") || !strings.Contains(xmlStr, "Beta") {
		t.Error("missing cached entry text")
	}
	if strings.Contains(xmlStr, "TooDeep") {
		t.Error("entry above max_level leaked into the TOC")
	}
	if !strings.Contains(xmlStr, "PAGEREF _Toc1_Alpha") {
		t.Error("missing PAGEREF to the entry bookmark")
	}
	if !strings.Contains(xmlStr, `<w:br w:type="page"/>`) {
		t.Error("missing trailing page break")
	}
}

func TestMarkBoundaryExcludesEarlierEntries(t *testing.T) {
	c := NewTocCollector()
	c.AddHeading(1, "Cover", "")
	c.MarkBoundary()
	c.AddHeading(1, "Body", "")

	cfg := TocConfig{Enabled: true, MaxLevel: 3, Title: "Contents"}
	xmlStr := serializeElements(c.GenerateEntries(cfg))

	if strings.Contains(xmlStr, "PAGEREF _Toc1_Cover") {
		t.Error("pre-boundary entry rendered into the TOC")
	}
	if !strings.Contains(xmlStr, "PAGEREF _Toc2_Body") {
		t.Error("post-boundary entry missing from the TOC")
	}
	if len(c.Entries()) != 2 {
		t.Errorf("collection should keep both entries, got %d", len(c.Entries()))
	}
	if !c.Entries()[0].PreBoundary {
		t.Error("first entry not flagged as pre-boundary")
	}
}

func TestGenerateEntriesDoesNotPerturbCollector(t *testing.T) {
	c := NewTocCollector()
	c.AddHeading(1, "Only", "")

	cfg := TocConfig{Enabled: true, MaxLevel: 3, Title: "Contents"}
	first := serializeElements(c.GenerateEntries(cfg))
	second := serializeElements(c.GenerateEntries(cfg))
	if first != second {
		t.Error("repeated generation produced different output")
	}
	if len(c.Entries()) != 1 {
		t.Errorf("generation changed collected entries: %d", len(c.Entries()))
	}
}
