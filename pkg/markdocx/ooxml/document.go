package ooxml

import (
	"strconv"
	"strings"
)

func itoa(n int) string { return strconv.Itoa(n) }

// DocumentXML is the word/document.xml part: an ordered element list plus
// the body-level section properties.
type DocumentXML struct {
	Elements []DocElement

	// Body section properties, applied to the final section.
	HeaderRefs   []HeaderFooterRef
	FooterRefs   []HeaderFooterRef
	TitlePage    bool
	PageNumStart int // >0: restart page numbering for the final section
	PageGeometry *PageGeometry
}

// NewDocumentXML creates an empty document.
func NewDocumentXML() *DocumentXML {
	return &DocumentXML{}
}

// AddElement appends a body element.
func (d *DocumentXML) AddElement(e DocElement) {
	d.Elements = append(d.Elements, e)
}

// AddParagraph appends a paragraph.
func (d *DocumentXML) AddParagraph(p *Paragraph) {
	d.Elements = append(d.Elements, p)
}

// Paragraphs returns the body's paragraphs in order, skipping tables
// and images.
func (d *DocumentXML) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, e := range d.Elements {
		if p, ok := e.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// ToXML serializes the complete document part.
func (d *DocumentXML) ToXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + NSMain + `" xmlns:r="` + NSRelationships +
		`" xmlns:m="` + NSMath + `" xmlns:wp="` + NSWPDrawing + `">`)
	b.WriteString("<w:body>")
	for _, e := range d.Elements {
		e.writeXML(&b)
	}
	d.writeBodySectPr(&b)
	b.WriteString("</w:body></w:document>")
	return []byte(b.String())
}

func (d *DocumentXML) writeBodySectPr(b *strings.Builder) {
	b.WriteString("<w:sectPr>")
	for _, ref := range d.HeaderRefs {
		b.WriteString(`<w:headerReference w:type="` + esc(ref.Type) +
			`" r:id="` + esc(string(ref.RelID)) + `"/>`)
	}
	for _, ref := range d.FooterRefs {
		b.WriteString(`<w:footerReference w:type="` + esc(ref.Type) +
			`" r:id="` + esc(string(ref.RelID)) + `"/>`)
	}
	geom := d.PageGeometry
	if geom == nil {
		geom = A4Geometry()
	}
	writePageGeometry(b, geom)
	if d.PageNumStart > 0 {
		b.WriteString(`<w:pgNumType w:start="` + itoa(d.PageNumStart) + `"/>`)
	}
	if d.TitlePage {
		b.WriteString("<w:titlePg/>")
	}
	b.WriteString("</w:sectPr>")
}
