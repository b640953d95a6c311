package ooxml

import "strings"

// Namespace URIs used across the generated parts.
const (
	NSMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSWPDrawing     = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NSPicture       = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NSMath          = "http://schemas.openxmlformats.org/officeDocument/2006/math"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// RelationshipID is an opaque relationship token ("rIdN"). Only the
// markdocx allocator produces new values; this package only embeds them.
type RelationshipID string

// DocElement is any element that can appear in a document body:
// a Paragraph, a Table, or an ImageElement.
type DocElement interface {
	isDocElement()
	writeXML(b *strings.Builder)
}

// ParagraphChild is content that can appear inside a paragraph:
// a Run or a Hyperlink.
type ParagraphChild interface {
	isParagraphChild()
	writeXML(b *strings.Builder)
}

// RawXML passes pre-serialized WordprocessingML into the body
// unchanged. The caller is responsible for well-formedness.
type RawXML string

func (RawXML) isDocElement() {}

func (r RawXML) writeXML(b *strings.Builder) {
	b.WriteString(string(r))
}

// HorizontalRule is a thematic-break paragraph: empty content with a
// bottom border.
func HorizontalRule() RawXML {
	return RawXML(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
}

// esc escapes the five XML special characters for element content and
// attribute values.
func esc(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
