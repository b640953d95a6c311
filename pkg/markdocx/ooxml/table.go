package ooxml

import (
	"fmt"
	"strings"
)

// TableWidth describes a table or cell width: auto sizing or a
// percentage expressed in fiftieths of a percent (5000 = 100%).
type TableWidth struct {
	Auto bool
	Pct  int
}

// AutoWidth sizes to content.
func AutoWidth() TableWidth { return TableWidth{Auto: true} }

// PctWidth sizes to a fixed share of the page (5000 = 100%).
func PctWidth(pct int) TableWidth { return TableWidth{Pct: pct} }

func (w TableWidth) write(b *strings.Builder, tag string) {
	if w.Auto {
		fmt.Fprintf(b, `<%s w:w="0" w:type="auto"/>`, tag)
	} else {
		fmt.Fprintf(b, `<%s w:w="%d" w:type="pct"/>`, tag, w.Pct)
	}
}

// Table is a block-level table element.
type Table struct {
	Rows         []TableRow
	Width        TableWidth
	ColumnWidths []int // twips, for w:tblGrid
	HeaderRow    bool
}

// NewTable creates an auto-width table.
func NewTable() *Table {
	return &Table{Width: AutoWidth()}
}

// AddRow appends a row.
func (t *Table) AddRow(r TableRow) *Table {
	t.Rows = append(t.Rows, r)
	return t
}

func (t *Table) isDocElement() {}

func (t *Table) writeXML(b *strings.Builder) {
	b.WriteString("<w:tbl>")
	b.WriteString("<w:tblPr>")
	b.WriteString(`<w:tblStyle w:val="TableGrid"/>`)
	t.Width.write(b, "w:tblW")
	b.WriteString(`<w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders>`)
	b.WriteString("</w:tblPr>")
	if len(t.ColumnWidths) > 0 {
		b.WriteString("<w:tblGrid>")
		for _, w := range t.ColumnWidths {
			fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, w)
		}
		b.WriteString("</w:tblGrid>")
	}
	for _, row := range t.Rows {
		row.writeXML(b)
	}
	b.WriteString("</w:tbl>")
}

// TableRow is one row of a table.
type TableRow struct {
	Cells    []TableCell
	IsHeader bool
}

// NewTableRow creates an empty row.
func NewTableRow() TableRow { return TableRow{} }

// Header marks the row as a repeating header row.
func (r TableRow) Header() TableRow {
	r.IsHeader = true
	return r
}

// AddCell appends a cell.
func (r TableRow) AddCell(c TableCell) TableRow {
	r.Cells = append(r.Cells, c)
	return r
}

func (r TableRow) writeXML(b *strings.Builder) {
	b.WriteString("<w:tr>")
	if r.IsHeader {
		b.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
	}
	for _, c := range r.Cells {
		c.writeXML(b)
	}
	b.WriteString("</w:tr>")
}

// TableCell is one cell of a table row.
type TableCell struct {
	Paragraphs []*Paragraph
	Width      TableWidth
	Shading    string // hex fill for header cells
}

// NewTableCell creates an auto-width cell.
func NewTableCell() TableCell {
	return TableCell{Width: AutoWidth()}
}

// WithWidth sets the cell width.
func (c TableCell) WithWidth(w TableWidth) TableCell {
	c.Width = w
	return c
}

// AddParagraph appends a paragraph to the cell.
func (c TableCell) AddParagraph(p *Paragraph) TableCell {
	c.Paragraphs = append(c.Paragraphs, p)
	return c
}

func (c TableCell) writeXML(b *strings.Builder) {
	b.WriteString("<w:tc><w:tcPr>")
	c.Width.write(b, "w:tcW")
	if c.Shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, esc(c.Shading))
	}
	b.WriteString("</w:tcPr>")
	if len(c.Paragraphs) == 0 {
		// A cell must contain at least one paragraph.
		b.WriteString("<w:p/>")
	}
	for _, p := range c.Paragraphs {
		p.writeXML(b)
	}
	b.WriteString("</w:tc>")
}
