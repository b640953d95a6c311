package ooxml

import (
	"fmt"
	"strings"
)

// Language selects default fonts and sizes for the style sheet.
type Language int

const (
	English Language = iota
	Thai
)

// DefaultASCIIFont returns the default Latin font for the language.
func (l Language) DefaultASCIIFont() string {
	if l == Thai {
		return "TH Sarabun New"
	}
	return "Calibri"
}

// DefaultCSFont returns the complex-script font. TH Sarabun New is used
// in both modes so mixed Thai text renders correctly in English documents.
func (l Language) DefaultCSFont() string {
	return "TH Sarabun New"
}

// DefaultFontSize returns the body size in half-points.
func (l Language) DefaultFontSize() int {
	if l == Thai {
		return 28 // 14pt
	}
	return 22 // 11pt
}

// FigureCaptionPrefix returns the localized figure caption word.
func (l Language) FigureCaptionPrefix() string {
	if l == Thai {
		return "รูปที่"
	}
	return "Figure"
}

// TableCaptionPrefix returns the localized table caption word.
func (l Language) TableCaptionPrefix() string {
	if l == Thai {
		return "ตารางที่"
	}
	return "Table"
}

// ChapterPrefix returns the localized chapter reference word.
func (l Language) ChapterPrefix() string {
	if l == Thai {
		return "บทที่"
	}
	return "Chapter"
}

// AppendixPrefix returns the localized appendix reference word.
func (l Language) AppendixPrefix() string {
	if l == Thai {
		return "ภาคผนวก"
	}
	return "Appendix"
}

// StyleParams parameterizes the generated style sheet.
type StyleParams struct {
	Lang          Language
	DefaultFont   string // empty: language default
	CodeFont      string // empty: "Consolas"
	BodySize      int    // half-points; 0: language default
	BodyColor     string // empty: "000000"
	HeadingColor  string // empty: "2E74B5"
	CaptionSize   int    // half-points; 0: BodySize - 2
	CaptionColor  string
	CodeSize      int // half-points; 0: BodySize - 4
	EmbeddedFonts []string
}

func (p *StyleParams) applyDefaults() {
	if p.DefaultFont == "" {
		p.DefaultFont = p.Lang.DefaultASCIIFont()
	}
	if p.CodeFont == "" {
		p.CodeFont = "Consolas"
	}
	if p.BodySize == 0 {
		p.BodySize = p.Lang.DefaultFontSize()
	}
	if p.BodyColor == "" {
		p.BodyColor = "000000"
	}
	if p.HeadingColor == "" {
		p.HeadingColor = "2E74B5"
	}
	if p.CaptionSize == 0 {
		p.CaptionSize = p.BodySize - 2
	}
	if p.CaptionColor == "" {
		p.CaptionColor = "44546A"
	}
	if p.CodeSize == 0 {
		p.CodeSize = p.BodySize - 4
	}
}

// StylesXML generates the word/styles.xml part.
func StylesXML(params StyleParams) []byte {
	params.applyDefaults()
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s" xmlns:r="%s">`, NSMain, NSRelationships)

	// Document defaults.
	b.WriteString("<w:docDefaults><w:rPrDefault><w:rPr>")
	writeFonts(&b, params.DefaultFont, params.Lang.DefaultCSFont())
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, params.BodySize, params.BodySize)
	b.WriteString("</w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults>")

	writeParagraphStyle(&b, styleDef{id: "Normal", name: "Normal", isDefault: true,
		color: params.BodyColor})
	writeParagraphStyle(&b, styleDef{id: "BodyText", name: "Body Text", basedOn: "Normal",
		color: params.BodyColor})
	writeParagraphStyle(&b, styleDef{id: "Title", name: "Title", basedOn: "Normal",
		size: params.BodySize + 14, bold: true, color: params.HeadingColor, align: "center"})

	headingSizes := []int{params.BodySize + 10, params.BodySize + 6, params.BodySize + 4, params.BodySize + 2}
	for i, size := range headingSizes {
		writeParagraphStyle(&b, styleDef{
			id: fmt.Sprintf("Heading%d", i+1), name: fmt.Sprintf("heading %d", i+1),
			basedOn: "Normal", next: "BodyText", size: size, bold: true,
			color: params.HeadingColor, outlineLevel: i + 1, keepNext: true,
		})
	}

	writeParagraphStyle(&b, styleDef{id: "Code", name: "Code", basedOn: "Normal",
		font: params.CodeFont, size: params.CodeSize, shading: "F2F2F2"})
	writeParagraphStyle(&b, styleDef{id: "CodeFilename", name: "Code Filename", basedOn: "Code",
		font: params.CodeFont, size: params.CodeSize, bold: true, shading: "D9D9D9"})
	writeParagraphStyle(&b, styleDef{id: "Quote", name: "Quote", basedOn: "Normal",
		italic: true, color: "595959", indentLeft: 720})
	writeParagraphStyle(&b, styleDef{id: "ListParagraph", name: "List Paragraph",
		basedOn: "Normal", indentLeft: 720})
	writeParagraphStyle(&b, styleDef{id: "Caption", name: "caption", basedOn: "Normal",
		size: params.CaptionSize, italic: true, color: params.CaptionColor, align: "center"})
	writeParagraphStyle(&b, styleDef{id: "FootnoteText", name: "footnote text",
		basedOn: "Normal", size: params.CaptionSize})
	writeParagraphStyle(&b, styleDef{id: "TOCHeading", name: "TOC Heading", basedOn: "Heading1",
		size: params.BodySize + 6, bold: true, color: params.HeadingColor})
	for i := 1; i <= 3; i++ {
		writeParagraphStyle(&b, styleDef{id: fmt.Sprintf("TOC%d", i),
			name: fmt.Sprintf("toc %d", i), basedOn: "Normal",
			indentLeft: 220 * (i - 1)})
	}

	writeCharacterStyle(&b, "CodeChar", "Code Char", params.CodeFont, params.CodeSize, "", false)
	writeCharacterStyle(&b, "Hyperlink", "Hyperlink", "", 0, "0563C1", true)
	writeCharacterStyle(&b, "FootnoteReference", "footnote reference", "", 0, "", false)

	b.WriteString("</w:styles>")
	return []byte(b.String())
}

type styleDef struct {
	id, name, basedOn, next string
	isDefault               bool
	font                    string
	size                    int
	bold, italic, keepNext  bool
	color, shading, align   string
	indentLeft              int
	outlineLevel            int // 1-based; 0 = none
}

func writeParagraphStyle(b *strings.Builder, d styleDef) {
	fmt.Fprintf(b, `<w:style w:type="paragraph" w:styleId="%s"`, d.id)
	if d.isDefault {
		b.WriteString(` w:default="1"`)
	}
	b.WriteString(">")
	fmt.Fprintf(b, `<w:name w:val="%s"/>`, esc(d.name))
	if d.basedOn != "" {
		fmt.Fprintf(b, `<w:basedOn w:val="%s"/>`, d.basedOn)
	}
	if d.next != "" {
		fmt.Fprintf(b, `<w:next w:val="%s"/>`, d.next)
	}
	b.WriteString("<w:pPr>")
	if d.keepNext {
		b.WriteString("<w:keepNext/>")
	}
	if d.outlineLevel > 0 {
		fmt.Fprintf(b, `<w:outlineLvl w:val="%d"/>`, d.outlineLevel-1)
	}
	if d.indentLeft > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, d.indentLeft)
	}
	if d.shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, d.shading)
	}
	if d.align != "" {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, d.align)
	}
	b.WriteString("</w:pPr><w:rPr>")
	if d.font != "" {
		writeFonts(b, d.font, d.font)
	}
	if d.bold {
		b.WriteString("<w:b/><w:bCs/>")
	}
	if d.italic {
		b.WriteString("<w:i/><w:iCs/>")
	}
	if d.color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, d.color)
	}
	if d.size > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, d.size, d.size)
	}
	b.WriteString("</w:rPr></w:style>")
}

func writeCharacterStyle(b *strings.Builder, id, name, font string, size int, color string, underline bool) {
	fmt.Fprintf(b, `<w:style w:type="character" w:styleId="%s"><w:name w:val="%s"/><w:rPr>`, id, esc(name))
	if font != "" {
		writeFonts(b, font, font)
	}
	if size > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, size, size)
	}
	if color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, color)
	}
	if underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	b.WriteString("</w:rPr></w:style>")
}

func writeFonts(b *strings.Builder, ascii, cs string) {
	fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`,
		esc(ascii), esc(ascii), esc(cs))
}
