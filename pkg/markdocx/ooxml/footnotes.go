package ooxml

import (
	"fmt"
	"strings"
)

// Footnote is one user footnote: an id plus its paragraphs.
type Footnote struct {
	ID      int
	Content []*Paragraph
}

// FootnotesXML accumulates footnotes and generates word/footnotes.xml.
// IDs start at 1; 0 and -1 are reserved for the separator footnotes.
type FootnotesXML struct {
	footnotes []Footnote
	nextID    int
}

// NewFootnotesXML creates an empty footnotes part.
func NewFootnotesXML() *FootnotesXML {
	return &FootnotesXML{nextID: 1}
}

// Add appends a footnote and returns its id.
func (f *FootnotesXML) Add(content []*Paragraph) int {
	id := f.nextID
	f.footnotes = append(f.footnotes, Footnote{ID: id, Content: content})
	f.nextID++
	return id
}

// Len returns the number of user footnotes.
func (f *FootnotesXML) Len() int { return len(f.footnotes) }

// IsEmpty reports whether any user footnotes exist.
func (f *FootnotesXML) IsEmpty() bool { return len(f.footnotes) == 0 }

// Footnotes returns the collected footnotes.
func (f *FootnotesXML) Footnotes() []Footnote { return f.footnotes }

// ToXML serializes the footnotes part, including the separator and
// continuation-separator footnotes Word requires.
func (f *FootnotesXML) ToXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:footnotes xmlns:w="%s" xmlns:r="%s">`, NSMain, NSRelationships)

	writeSeparator(&b, -1, "separator", "<w:separator/>")
	writeSeparator(&b, 0, "continuationSeparator", "<w:continuationSeparator/>")

	for _, fn := range f.footnotes {
		fmt.Fprintf(&b, `<w:footnote w:id="%d">`, fn.ID)
		for _, p := range fn.Content {
			p.writeXML(&b)
		}
		b.WriteString("</w:footnote>")
	}
	b.WriteString("</w:footnotes>")
	return []byte(b.String())
}

func writeSeparator(b *strings.Builder, id int, kind, elem string) {
	fmt.Fprintf(b, `<w:footnote w:type="%s" w:id="%d"><w:p><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr><w:r>%s</w:r></w:p></w:footnote>`,
		kind, id, elem)
}
