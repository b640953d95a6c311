package ooxml

import (
	"fmt"
	"strings"
)

// Relationship types used by the generated parts.
const (
	RelTypeDocument    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeSettings    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelTypeFontTable   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	RelTypeWebSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings"
	RelTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeHeader      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelTypeFooter      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	RelTypeFootnotes   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelTypeNumbering   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeFont        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/font"
	RelTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeAppProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

// Relationship is one entry in a relationships part.
type Relationship struct {
	ID         RelationshipID
	Type       string
	Target     string
	TargetMode string // "External" for hyperlinks
}

// Relationships is an ordered relationship list for one part.
type Relationships struct {
	rels []Relationship
}

// RootRels returns the package-level _rels/.rels part content.
func RootRels() *Relationships {
	r := &Relationships{}
	r.Add(Relationship{ID: "rId1", Type: RelTypeDocument, Target: "word/document.xml"})
	r.Add(Relationship{ID: "rId2", Type: RelTypeCoreProps, Target: "docProps/core.xml"})
	r.Add(Relationship{ID: "rId3", Type: RelTypeAppProps, Target: "docProps/app.xml"})
	return r
}

// DocumentRels returns word/_rels/document.xml.rels pre-populated with
// the five fixed support parts (rId1..rId5). These tokens mirror the
// allocator's unconditional reservations.
func DocumentRels() *Relationships {
	r := &Relationships{}
	r.Add(Relationship{ID: "rId1", Type: RelTypeStyles, Target: "styles.xml"})
	r.Add(Relationship{ID: "rId2", Type: RelTypeSettings, Target: "settings.xml"})
	r.Add(Relationship{ID: "rId3", Type: RelTypeFontTable, Target: "fontTable.xml"})
	r.Add(Relationship{ID: "rId4", Type: RelTypeWebSettings, Target: "webSettings.xml"})
	r.Add(Relationship{ID: "rId5", Type: RelTypeTheme, Target: "theme/theme1.xml"})
	return r
}

// Add appends a relationship.
func (r *Relationships) Add(rel Relationship) {
	r.rels = append(r.rels, rel)
}

// Len returns the number of relationships.
func (r *Relationships) Len() int { return len(r.rels) }

// Has reports whether the given ID is present.
func (r *Relationships) Has(id RelationshipID) bool {
	for _, rel := range r.rels {
		if rel.ID == id {
			return true
		}
	}
	return false
}

// ToXML serializes the relationships part.
func (r *Relationships) ToXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, NSPackageRels)
	for _, rel := range r.rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"`,
			esc(string(rel.ID)), esc(rel.Type), esc(rel.Target))
		if rel.TargetMode != "" {
			fmt.Fprintf(&b, ` TargetMode="%s"`, esc(rel.TargetMode))
		}
		b.WriteString("/>")
	}
	b.WriteString("</Relationships>")
	return []byte(b.String())
}
