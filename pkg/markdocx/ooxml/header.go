package ooxml

import (
	"fmt"
	"strings"
)

// HeaderFooterField is one piece of flat header/footer content.
type HeaderFooterField int

const (
	// FieldText renders static text (carried alongside in FieldSpec).
	FieldText HeaderFooterField = iota
	// FieldPageNumber renders a live PAGE field.
	FieldPageNumber
	// FieldTotalPages renders a live NUMPAGES field.
	FieldTotalPages
	// FieldChapterName renders a STYLEREF "Heading 1" field.
	FieldChapterName
	// FieldDocumentTitle renders the document title as static text.
	FieldDocumentTitle
)

// FieldSpec pairs a field kind with its static text, when applicable.
type FieldSpec struct {
	Kind HeaderFooterField
	Text string
}

// Text creates a static text field.
func Text(s string) FieldSpec { return FieldSpec{Kind: FieldText, Text: s} }

// PageNumber creates a live page-number field.
func PageNumber() FieldSpec { return FieldSpec{Kind: FieldPageNumber} }

// TotalPages creates a live total-pages field.
func TotalPages() FieldSpec { return FieldSpec{Kind: FieldTotalPages} }

// ChapterName creates a live chapter-name field.
func ChapterName() FieldSpec { return FieldSpec{Kind: FieldChapterName} }

// DocumentTitle creates a document-title field.
func DocumentTitle() FieldSpec { return FieldSpec{Kind: FieldDocumentTitle} }

// HeaderFooterConfig is the flat three-column header/footer layout.
type HeaderFooterConfig struct {
	Left   []FieldSpec
	Center []FieldSpec
	Right  []FieldSpec
}

// EmptyHeaderFooter returns a configuration with no content.
func EmptyHeaderFooter() HeaderFooterConfig { return HeaderFooterConfig{} }

// IsEmpty reports whether the configuration has any content.
func (c HeaderFooterConfig) IsEmpty() bool {
	return len(c.Left) == 0 && len(c.Center) == 0 && len(c.Right) == 0
}

// HeaderConfig is the flat header layout. Default: title left, chapter right.
type HeaderConfig = HeaderFooterConfig

// FooterConfig is the flat footer layout. Default: centered page number.
type FooterConfig = HeaderFooterConfig

// DefaultHeaderConfig returns the standard header layout.
func DefaultHeaderConfig() HeaderConfig {
	return HeaderConfig{
		Left:  []FieldSpec{DocumentTitle()},
		Right: []FieldSpec{ChapterName()},
	}
}

// DefaultFooterConfig returns the standard footer layout.
func DefaultFooterConfig() FooterConfig {
	return FooterConfig{
		Center: []FieldSpec{PageNumber()},
	}
}

// HeaderXML generates a word/headerN.xml part from a flat configuration.
func HeaderXML(cfg HeaderFooterConfig, documentTitle string) []byte {
	return headerFooterXML("w:hdr", cfg, documentTitle)
}

// FooterXML generates a word/footerN.xml part from a flat configuration.
func FooterXML(cfg HeaderFooterConfig, documentTitle string) []byte {
	return headerFooterXML("w:ftr", cfg, documentTitle)
}

func headerFooterXML(root string, cfg HeaderFooterConfig, title string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<%s xmlns:w="%s" xmlns:r="%s">`, root, NSMain, NSRelationships)
	if cfg.IsEmpty() {
		// An empty part still needs a paragraph for Word to accept it.
		b.WriteString("<w:p/>")
	} else {
		writeHeaderFooterParagraph(&b, cfg, title)
	}
	fmt.Fprintf(&b, "</%s>", root)
	return []byte(b.String())
}

// writeHeaderFooterParagraph writes a single paragraph with center and
// right tab stops so the three columns align to page edges.
func writeHeaderFooterParagraph(b *strings.Builder, cfg HeaderFooterConfig, title string) {
	b.WriteString("<w:p><w:pPr>")
	b.WriteString(`<w:tabs><w:tab w:val="center" w:pos="4513"/><w:tab w:val="right" w:pos="9026"/></w:tabs>`)
	b.WriteString("</w:pPr>")
	for _, f := range cfg.Left {
		writeField(b, f, title)
	}
	if len(cfg.Center) > 0 || len(cfg.Right) > 0 {
		b.WriteString("<w:r><w:tab/></w:r>")
	}
	for _, f := range cfg.Center {
		writeField(b, f, title)
	}
	if len(cfg.Right) > 0 {
		b.WriteString("<w:r><w:tab/></w:r>")
	}
	for _, f := range cfg.Right {
		writeField(b, f, title)
	}
	b.WriteString("</w:p>")
}

func writeField(b *strings.Builder, f FieldSpec, title string) {
	switch f.Kind {
	case FieldText:
		fmt.Fprintf(b, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, esc(f.Text))
	case FieldDocumentTitle:
		fmt.Fprintf(b, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, esc(title))
	case FieldPageNumber:
		b.WriteString(`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple>`)
	case FieldTotalPages:
		b.WriteString(`<w:fldSimple w:instr=" NUMPAGES "><w:r><w:t>1</w:t></w:r></w:fldSimple>`)
	case FieldChapterName:
		b.WriteString(`<w:fldSimple w:instr="STYLEREF &quot;Heading 1&quot; \* MERGEFORMAT">` +
			`<w:r><w:rPr><w:noProof/></w:rPr><w:t>Chapter</w:t></w:r></w:fldSimple>`)
	}
}
