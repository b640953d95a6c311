package ooxml

import (
	"fmt"
	"strings"
)

// Bookmark marks a named anchor target spanning a paragraph's content.
type Bookmark struct {
	ID   int
	Name string
}

// Paragraph is a block-level text element.
type Paragraph struct {
	StyleID       string
	Children      []ParagraphChild
	Bookmarks     []Bookmark
	SpacingBefore int
	SpacingAfter  int
	hasSpacing    bool
	LineSpacing   int    // twentieths of a point; 240 = single
	LineRule      string // "auto", "exact"
	IndentLeft    int    // twips
	Alignment     string // "left", "center", "right"
	Shading       string // hex fill color
	NumberingID   int    // >0: list numbering instance
	NumberingLvl  int
	isNumbered    bool

	// Section properties. A paragraph carrying a SectionBreak closes a
	// section; header/footer references live on the sectPr.
	SectionBreak  string // "nextPage", "continuous"
	PageNumStart  int    // >0: restart page numbering in the new section
	SuppressRefs  bool   // reference the empty (slot 3) header/footer
	HeaderRefs    []HeaderFooterRef
	FooterRefs    []HeaderFooterRef
	TitlePage     bool
	PageGeometry  *PageGeometry
}

// HeaderFooterRef links a section to a header or footer part.
type HeaderFooterRef struct {
	Type  string // "default", "first", "even"
	RelID RelationshipID
}

// PageGeometry holds page size and margins in twips.
type PageGeometry struct {
	Width          int
	Height         int
	MarginTop      int
	MarginBottom   int
	MarginLeft     int
	MarginRight    int
	HeaderDistance int
	FooterDistance int
}

// A4Geometry returns the default A4 page geometry with 1-inch margins.
func A4Geometry() *PageGeometry {
	return &PageGeometry{
		Width:          11906,
		Height:         16838,
		MarginTop:      1440,
		MarginBottom:   1440,
		MarginLeft:     1440,
		MarginRight:    1440,
		HeaderDistance: 720,
		FooterDistance: 720,
	}
}

// NewParagraph creates an empty paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{}
}

// WithStyle creates a paragraph with the given paragraph style.
func WithStyle(styleID string) *Paragraph {
	return &Paragraph{StyleID: styleID}
}

// AddRun appends a run.
func (p *Paragraph) AddRun(r Run) *Paragraph {
	p.Children = append(p.Children, r)
	return p
}

// AddText appends a plain text run with preserved spaces.
func (p *Paragraph) AddText(text string) *Paragraph {
	return p.AddRun(Run{Text: text, PreserveSpace: true})
}

// AddHyperlink appends a hyperlink.
func (p *Paragraph) AddHyperlink(h Hyperlink) *Paragraph {
	p.Children = append(p.Children, h)
	return p
}

// Spacing sets before/after spacing in twentieths of a point.
func (p *Paragraph) Spacing(before, after int) *Paragraph {
	p.SpacingBefore = before
	p.SpacingAfter = after
	p.hasSpacing = true
	return p
}

// WithLineSpacing sets line spacing; 240/"auto" is single spacing.
func (p *Paragraph) WithLineSpacing(line int, rule string) *Paragraph {
	p.LineSpacing = line
	p.LineRule = rule
	return p
}

// Numbered attaches the paragraph to a list numbering instance.
func (p *Paragraph) Numbered(numID, level int) *Paragraph {
	p.NumberingID = numID
	p.NumberingLvl = level
	p.isNumbered = true
	return p
}

// WithBookmark wraps the paragraph content in a bookmark. Repeated
// calls stack additional bookmarks over the same span.
func (p *Paragraph) WithBookmark(id int, name string) *Paragraph {
	p.Bookmarks = append(p.Bookmarks, Bookmark{ID: id, Name: name})
	return p
}

// SectionBreakOf marks the paragraph as a section break of the given type.
func (p *Paragraph) SectionBreakOf(kind string) *Paragraph {
	p.SectionBreak = kind
	return p
}

// IterRuns returns all runs, including runs nested in hyperlinks.
func (p *Paragraph) IterRuns() []Run {
	var runs []Run
	for _, c := range p.Children {
		switch v := c.(type) {
		case Run:
			runs = append(runs, v)
		case Hyperlink:
			runs = append(runs, v.Runs...)
		}
	}
	return runs
}

// PlainText concatenates the text of all runs.
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	for _, r := range p.IterRuns() {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsEmpty reports whether the paragraph has no visible content.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.PlainText()) == "" && len(p.IterRuns()) == len(p.Children)
}

func (p *Paragraph) isDocElement() {}

func (p *Paragraph) writeProperties(b *strings.Builder) {
	hasProps := p.StyleID != "" || p.hasSpacing || p.LineSpacing > 0 ||
		p.IndentLeft > 0 || p.Alignment != "" || p.Shading != "" ||
		p.isNumbered || p.SectionBreak != ""
	if !hasProps {
		return
	}
	b.WriteString("<w:pPr>")
	if p.StyleID != "" {
		fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, esc(p.StyleID))
	}
	if p.isNumbered {
		fmt.Fprintf(b, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`,
			p.NumberingLvl, p.NumberingID)
	}
	if p.Shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, esc(p.Shading))
	}
	if p.hasSpacing || p.LineSpacing > 0 {
		b.WriteString("<w:spacing")
		if p.hasSpacing {
			fmt.Fprintf(b, ` w:before="%d" w:after="%d"`, p.SpacingBefore, p.SpacingAfter)
		}
		if p.LineSpacing > 0 {
			rule := p.LineRule
			if rule == "" {
				rule = "auto"
			}
			fmt.Fprintf(b, ` w:line="%d" w:lineRule="%s"`, p.LineSpacing, esc(rule))
		}
		b.WriteString("/>")
	}
	if p.IndentLeft > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, p.IndentLeft)
	}
	if p.Alignment != "" {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, esc(p.Alignment))
	}
	if p.SectionBreak != "" {
		p.writeSectPr(b)
	}
	b.WriteString("</w:pPr>")
}

func (p *Paragraph) writeSectPr(b *strings.Builder) {
	b.WriteString("<w:sectPr>")
	for _, ref := range p.HeaderRefs {
		fmt.Fprintf(b, `<w:headerReference w:type="%s" r:id="%s"/>`,
			esc(ref.Type), esc(string(ref.RelID)))
	}
	for _, ref := range p.FooterRefs {
		fmt.Fprintf(b, `<w:footerReference w:type="%s" r:id="%s"/>`,
			esc(ref.Type), esc(string(ref.RelID)))
	}
	fmt.Fprintf(b, `<w:type w:val="%s"/>`, esc(p.SectionBreak))
	geom := p.PageGeometry
	if geom == nil {
		geom = A4Geometry()
	}
	writePageGeometry(b, geom)
	if p.PageNumStart > 0 {
		fmt.Fprintf(b, `<w:pgNumType w:start="%d"/>`, p.PageNumStart)
	}
	if p.TitlePage {
		b.WriteString("<w:titlePg/>")
	}
	b.WriteString("</w:sectPr>")
}

func writePageGeometry(b *strings.Builder, g *PageGeometry) {
	fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"/>`, g.Width, g.Height)
	header, footer := g.HeaderDistance, g.FooterDistance
	if header == 0 {
		header = 720
	}
	if footer == 0 {
		footer = 720
	}
	fmt.Fprintf(b,
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`,
		g.MarginTop, g.MarginRight, g.MarginBottom, g.MarginLeft, header, footer)
}

func (p *Paragraph) writeXML(b *strings.Builder) {
	b.WriteString("<w:p>")
	p.writeProperties(b)
	for _, bm := range p.Bookmarks {
		fmt.Fprintf(b, `<w:bookmarkStart w:id="%d" w:name="%s"/>`, bm.ID, esc(bm.Name))
	}
	for _, c := range p.Children {
		c.writeXML(b)
	}
	for i := len(p.Bookmarks) - 1; i >= 0; i-- {
		fmt.Fprintf(b, `<w:bookmarkEnd w:id="%d"/>`, p.Bookmarks[i].ID)
	}
	b.WriteString("</w:p>")
}
