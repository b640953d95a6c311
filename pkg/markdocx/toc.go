package markdocx

import (
	"fmt"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// TocEntry is one collected heading.
type TocEntry struct {
	Level    int
	Text     string
	Bookmark string
	// PreBoundary marks headings collected before the cover section
	// boundary. They keep their bookmarks but never render in the TOC.
	PreBoundary bool
}

// TocCollector gathers headings during assembly and produces the
// table-of-contents field block afterwards. Collection is independent
// of whether a TOC is actually generated, so body bookmarks are stable
// either way.
type TocCollector struct {
	entries []TocEntry
	seq     int
}

// NewTocCollector creates an empty collector.
func NewTocCollector() *TocCollector {
	return &TocCollector{}
}

// sanitizeBookmark reduces heading text to bookmark-safe characters
// and caps the length. Word rejects bookmark names over 40 characters.
func sanitizeBookmark(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	s := b.String()
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// AddHeading records a heading and returns the bookmark name to place
// on its paragraph. An explicit anchor id wins over the synthesized
// name for the bookmark suffix.
func (c *TocCollector) AddHeading(level int, text, explicitID string) string {
	c.seq++
	suffix := explicitID
	if suffix == "" {
		suffix = text
	}
	bookmark := fmt.Sprintf("_Toc%d_%s", c.seq, sanitizeBookmark(suffix))
	c.entries = append(c.entries, TocEntry{Level: level, Text: text, Bookmark: bookmark})
	return bookmark
}

// MarkBoundary flags every heading collected so far as preceding the
// cover section boundary. The orchestrator calls it when the boundary
// is emitted; cover-page headings stay addressable but are excluded
// from the rendered TOC.
func (c *TocCollector) MarkBoundary() {
	for i := range c.entries {
		c.entries[i].PreBoundary = true
	}
}

// Entries returns the collected headings in document order.
func (c *TocCollector) Entries() []TocEntry {
	return c.entries
}

// tocStyleForLevel maps a heading level to its TOC entry style.
func tocStyleForLevel(level int) string {
	switch {
	case level <= 1:
		return "TOC1"
	case level == 2:
		return "TOC2"
	default:
		return "TOC3"
	}
}

// GenerateEntries builds the TOC block: title paragraph, the TOC field
// with cached entries (hyperlink-free PAGEREF form), and a trailing
// page break. It reads only collected state, so generating a TOC never
// perturbs body numbering or bookmarks. Entries deeper than
// cfg.MaxLevel and entries before the cover boundary are skipped.
func (c *TocCollector) GenerateEntries(cfg TocConfig) []ooxml.DocElement {
	var out []ooxml.DocElement

	title := ooxml.WithStyle("TOCHeading")
	title.AddText(cfg.Title)
	out = append(out, title)

	var kept []TocEntry
	for _, e := range c.entries {
		if e.Level <= cfg.MaxLevel && !e.PreBoundary {
			kept = append(kept, e)
		}
	}

	instr := fmt.Sprintf(` TOC \o "1-%d" \h \z \u `, cfg.MaxLevel)

	if len(kept) == 0 {
		p := ooxml.NewParagraph()
		p.AddRun(ooxml.Run{FieldChar: "begin"})
		p.AddRun(ooxml.Run{Text: instr, InstrText: true})
		p.AddRun(ooxml.Run{FieldChar: "separate"})
		p.AddRun(ooxml.Run{FieldChar: "end"})
		out = append(out, p)
	} else {
		for i, e := range kept {
			p := ooxml.WithStyle(tocStyleForLevel(e.Level))
			if i == 0 {
				p.AddRun(ooxml.Run{FieldChar: "begin"})
				p.AddRun(ooxml.Run{Text: instr, InstrText: true})
				p.AddRun(ooxml.Run{FieldChar: "separate"})
			}
			p.AddText(e.Text)
			p.AddRun(ooxml.Run{Tab: true})
			p.AddRun(ooxml.Run{FieldChar: "begin"})
			p.AddRun(ooxml.Run{Text: fmt.Sprintf(` PAGEREF %s \h `, e.Bookmark), InstrText: true})
			p.AddRun(ooxml.Run{FieldChar: "separate"})
			p.AddText("1")
			p.AddRun(ooxml.Run{FieldChar: "end"})
			if i == len(kept)-1 {
				p.AddRun(ooxml.Run{FieldChar: "end"})
			}
			out = append(out, p)
		}
	}

	brk := ooxml.NewParagraph()
	brk.AddRun(ooxml.Run{Break: true, BreakType: "page"})
	out = append(out, brk)
	return out
}
