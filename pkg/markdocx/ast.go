package markdocx

import "strings"

// Block is a top-level element of the parsed document tree.
type Block interface {
	isBlock()
}

// Inline is a span-level element inside a paragraph, heading, list
// item or table cell.
type Inline interface {
	isInline()
}

// --- Block variants ---

// Heading is a section heading, levels 1 through 6. Level 1 headings
// start a chapter for numbering purposes. Appendix marks a level-1
// heading as an appendix chapter.
type Heading struct {
	Level    int
	Content  []Inline
	Anchor   string // explicit {#id}, empty when absent
	Appendix bool
}

// ParagraphBlock is a plain run of inline content.
type ParagraphBlock struct {
	Content []Inline
}

// CodeBlock is a fenced code block. Filename comes from the info
// string ("go:main.go") and renders as a caption line above the block.
type CodeBlock struct {
	Language string
	Filename string
	Text     string
}

// BlockQuote holds nested blocks. Nesting depth is derived during
// assembly from recursive BlockQuote structure.
type BlockQuote struct {
	Blocks []Block
}

// List is an ordered or bulleted list. Items may nest further lists.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one list entry: leading inline content plus any nested
// blocks (sub-lists, paragraphs).
type ListItem struct {
	Content []Inline
	Blocks  []Block
}

// TableBlock is a pipe table. A caption with an anchor registers the
// table for cross-referencing.
type TableBlock struct {
	Headers    []TableCellContent
	Rows       [][]TableCellContent
	Caption    []Inline
	Anchor     string
	Alignments []string // "left", "center", "right", "" per column
}

// TableCellContent is the inline content of a single cell.
type TableCellContent struct {
	Content []Inline
}

// ImageBlock is a standalone image paragraph. Width is the raw width
// attribute ("50%", "300px", "4in"), empty for intrinsic sizing.
type ImageBlock struct {
	Path    string
	Alt     string
	Caption []Inline
	Anchor  string
	Width   string
}

// ThematicBreak is a horizontal rule. The first one in a document
// marks the cover page boundary.
type ThematicBreak struct{}

// MathBlock is display math. Label registers the equation for
// cross-referencing and forces numbering.
type MathBlock struct {
	TeX   string
	Label string
}

// DiagramBlock is a fenced block handed to an external renderer
// (mermaid). Source is the diagram text.
type DiagramBlock struct {
	Kind   string
	Source string
}

// FontGroup overrides the run font for the blocks it wraps.
type FontGroup struct {
	Font   string
	Blocks []Block
}

// RawBlock passes WordprocessingML through untouched.
type RawBlock struct {
	XML string
}

func (*Heading) isBlock()        {}
func (*ParagraphBlock) isBlock() {}
func (*CodeBlock) isBlock()      {}
func (*BlockQuote) isBlock()     {}
func (*List) isBlock()           {}
func (*TableBlock) isBlock()     {}
func (*ImageBlock) isBlock()     {}
func (*ThematicBreak) isBlock()  {}
func (*MathBlock) isBlock()      {}
func (*DiagramBlock) isBlock()   {}
func (*FontGroup) isBlock()      {}
func (*RawBlock) isBlock()       {}

// --- Inline variants ---

// TextSpan is literal text.
type TextSpan struct {
	Text string
}

// StrongSpan is bold content.
type StrongSpan struct {
	Content []Inline
}

// EmphSpan is italic content.
type EmphSpan struct {
	Content []Inline
}

// StrikeSpan is struck-through content.
type StrikeSpan struct {
	Content []Inline
}

// CodeSpan is inline code.
type CodeSpan struct {
	Text string
}

// LinkSpan is an external hyperlink.
type LinkSpan struct {
	Content []Inline
	URL     string
}

// FootnoteRefSpan references a footnote definition by identifier.
type FootnoteRefSpan struct {
	ID string
}

// MathSpan is inline math.
type MathSpan struct {
	TeX string
}

// CrossRefSpan references a registered figure, table, equation or
// chapter anchor ("{ref:fig-arch}").
type CrossRefSpan struct {
	Target string
}

// BreakSpan is a hard line break.
type BreakSpan struct{}

func (*TextSpan) isInline()        {}
func (*StrongSpan) isInline()      {}
func (*EmphSpan) isInline()        {}
func (*StrikeSpan) isInline()      {}
func (*CodeSpan) isInline()        {}
func (*LinkSpan) isInline()        {}
func (*FootnoteRefSpan) isInline() {}
func (*MathSpan) isInline()        {}
func (*CrossRefSpan) isInline()    {}
func (*BreakSpan) isInline()       {}

// ParsedDocument is the full parse result: frontmatter-derived config
// overrides, the block sequence, and footnote definitions keyed by
// identifier.
type ParsedDocument struct {
	Config    *DocumentConfig
	Blocks    []Block
	Footnotes map[string][]Block
}

// InlineText flattens inline content to plain text, dropping markup.
func InlineText(content []Inline) string {
	var b strings.Builder
	writeInlineText(&b, content)
	return b.String()
}

func writeInlineText(b *strings.Builder, content []Inline) {
	for _, in := range content {
		switch v := in.(type) {
		case *TextSpan:
			b.WriteString(v.Text)
		case *StrongSpan:
			writeInlineText(b, v.Content)
		case *EmphSpan:
			writeInlineText(b, v.Content)
		case *StrikeSpan:
			writeInlineText(b, v.Content)
		case *CodeSpan:
			b.WriteString(v.Text)
		case *LinkSpan:
			writeInlineText(b, v.Content)
		case *BreakSpan:
			b.WriteString(" ")
		}
	}
}

// PlainText flattens the whole document to text for language
// detection.
func (d *ParsedDocument) PlainText() string {
	var b strings.Builder
	var walk func(blocks []Block)
	walk = func(blocks []Block) {
		for _, blk := range blocks {
			switch v := blk.(type) {
			case *Heading:
				b.WriteString(InlineText(v.Content))
				b.WriteString("\n")
			case *ParagraphBlock:
				b.WriteString(InlineText(v.Content))
				b.WriteString("\n")
			case *BlockQuote:
				walk(v.Blocks)
			case *List:
				for _, item := range v.Items {
					b.WriteString(InlineText(item.Content))
					b.WriteString("\n")
					walk(item.Blocks)
				}
			case *TableBlock:
				for _, h := range v.Headers {
					b.WriteString(InlineText(h.Content))
					b.WriteString(" ")
				}
				for _, row := range v.Rows {
					for _, c := range row {
						b.WriteString(InlineText(c.Content))
						b.WriteString(" ")
					}
				}
				b.WriteString("\n")
			case *FontGroup:
				walk(v.Blocks)
			}
		}
	}
	walk(d.Blocks)
	for _, def := range d.Footnotes {
		walk(def)
	}
	return b.String()
}
