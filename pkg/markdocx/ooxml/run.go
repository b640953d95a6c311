package ooxml

import (
	"fmt"
	"strings"
)

// Run is a contiguous span of text with uniform formatting. Runs are the
// atomic formatting unit of WordprocessingML.
type Run struct {
	Text          string
	Bold          bool
	Italic        bool
	Strike        bool
	Underline     bool
	Color         string // hex without '#', e.g. "0563C1"
	Style         string // character style id, e.g. "CodeChar"
	Font          string // explicit ascii/hAnsi font family
	Size          int    // half-points; 0 means inherit
	PreserveSpace bool

	// Special content. At most one of these is set; Text is ignored for
	// field chars, tabs and breaks.
	FieldChar   string // "begin", "separate", "end"
	InstrText   bool   // Text is a field instruction
	Tab         bool
	Break       bool
	BreakType   string // "page" for page breaks; empty for line breaks
	FootnoteID  int  // >0: reference to a footnote in word/footnotes.xml
	FootnoteRef bool // the in-footnote reference mark itself
	RawOMML     string
}

// NewRun creates a plain text run.
func NewRun(text string) Run {
	return Run{Text: text}
}

func (r Run) isParagraphChild() {}

func (r Run) hasProperties() bool {
	return r.Bold || r.Italic || r.Strike || r.Underline ||
		r.Color != "" || r.Style != "" || r.Font != "" || r.Size > 0 ||
		r.FootnoteID > 0 || r.FootnoteRef
}

func (r Run) writeProperties(b *strings.Builder) {
	if !r.hasProperties() {
		return
	}
	b.WriteString("<w:rPr>")
	if r.Style != "" {
		fmt.Fprintf(b, `<w:rStyle w:val="%s"/>`, esc(r.Style))
	}
	if r.Font != "" {
		f := esc(r.Font)
		fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, f, f, f)
	}
	if r.Bold {
		b.WriteString("<w:b/><w:bCs/>")
	}
	if r.Italic {
		b.WriteString("<w:i/><w:iCs/>")
	}
	if r.Strike {
		b.WriteString("<w:strike/>")
	}
	if r.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if r.Color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, esc(r.Color))
	}
	if r.Size > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, r.Size, r.Size)
	}
	if r.FootnoteID > 0 || r.FootnoteRef {
		fmt.Fprintf(b, `<w:rStyle w:val="FootnoteReference"/>`)
	}
	b.WriteString("</w:rPr>")
}

func (r Run) writeXML(b *strings.Builder) {
	if r.RawOMML != "" {
		b.WriteString(r.RawOMML)
		return
	}
	b.WriteString("<w:r>")
	r.writeProperties(b)
	switch {
	case r.FieldChar != "":
		fmt.Fprintf(b, `<w:fldChar w:fldCharType="%s"/>`, esc(r.FieldChar))
	case r.InstrText:
		fmt.Fprintf(b, `<w:instrText xml:space="preserve">%s</w:instrText>`, esc(r.Text))
	case r.Tab:
		b.WriteString("<w:tab/>")
	case r.Break:
		if r.BreakType != "" {
			fmt.Fprintf(b, `<w:br w:type="%s"/>`, esc(r.BreakType))
		} else {
			b.WriteString("<w:br/>")
		}
	case r.FootnoteID > 0:
		fmt.Fprintf(b, `<w:footnoteReference w:id="%d"/>`, r.FootnoteID)
	case r.FootnoteRef:
		b.WriteString("<w:footnoteRef/>")
	default:
		if r.PreserveSpace {
			fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, esc(r.Text))
		} else {
			fmt.Fprintf(b, "<w:t>%s</w:t>", esc(r.Text))
		}
	}
	b.WriteString("</w:r>")
}

// Hyperlink wraps runs in an external or internal link.
type Hyperlink struct {
	RelID  RelationshipID // external target; empty for internal links
	Anchor string         // bookmark name for internal links
	Runs   []Run
}

func (h Hyperlink) isParagraphChild() {}

func (h Hyperlink) writeXML(b *strings.Builder) {
	b.WriteString("<w:hyperlink")
	if h.RelID != "" {
		fmt.Fprintf(b, ` r:id="%s"`, esc(string(h.RelID)))
	}
	if h.Anchor != "" {
		fmt.Fprintf(b, ` w:anchor="%s"`, esc(h.Anchor))
	}
	b.WriteString(">")
	for _, r := range h.Runs {
		r.writeXML(b)
	}
	b.WriteString("</w:hyperlink>")
}
