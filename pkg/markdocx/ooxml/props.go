package ooxml

import (
	"fmt"
	"strings"
	"time"
)

// CoreProperties holds the docProps/core.xml metadata.
type CoreProperties struct {
	Title   string
	Creator string
	Created time.Time
}

// ToXML serializes docProps/core.xml.
func (c CoreProperties) ToXML() []byte {
	created := c.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	stamp := created.Format("2006-01-02T15:04:05Z")
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties` +
		` xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, esc(c.Title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, esc(c.Creator))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
	fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	b.WriteString("</cp:coreProperties>")
	return []byte(b.String())
}

// AppPropertiesXML returns a minimal docProps/app.xml.
func AppPropertiesXML(application string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">`)
	fmt.Fprintf(&b, `<Application>%s</Application>`, esc(application))
	b.WriteString("</Properties>")
	return []byte(b.String())
}

// SettingsXML returns the word/settings.xml part. Footnote numbering and
// the update-fields-on-open flag (so TOC page numbers refresh) live here.
func SettingsXML(updateFields bool) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:settings xmlns:w="%s">`, NSMain)
	if updateFields {
		b.WriteString(`<w:updateFields w:val="true"/>`)
	}
	b.WriteString(`<w:footnotePr><w:numFmt w:val="decimal"/></w:footnotePr>`)
	b.WriteString("</w:settings>")
	return []byte(b.String())
}

// FontTableXML returns a minimal word/fontTable.xml declaring the fonts
// the style sheet references, with optional embedded-font relationships.
type EmbeddedFontRef struct {
	Family string
	RelID  RelationshipID
}

// FontTableXML serializes word/fontTable.xml.
func FontTableXML(families []string, embedded []EmbeddedFontRef) []byte {
	embedByFamily := make(map[string]RelationshipID, len(embedded))
	for _, e := range embedded {
		embedByFamily[e.Family] = e.RelID
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:fonts xmlns:w="%s" xmlns:r="%s">`, NSMain, NSRelationships)
	for _, fam := range families {
		fmt.Fprintf(&b, `<w:font w:name="%s">`, esc(fam))
		if relID, ok := embedByFamily[fam]; ok {
			fmt.Fprintf(&b, `<w:embedRegular r:id="%s"/>`, esc(string(relID)))
		}
		b.WriteString("</w:font>")
	}
	b.WriteString("</w:fonts>")
	return []byte(b.String())
}

// WebSettingsXML returns an empty word/webSettings.xml part.
func WebSettingsXML() []byte {
	return []byte(xmlHeader + `<w:webSettings xmlns:w="` + NSMain + `"/>`)
}

// ThemeXML returns a minimal word/theme/theme1.xml part.
func ThemeXML() []byte {
	return []byte(xmlHeader +
		`<a:theme xmlns:a="` + NSDrawing + `" name="Office Theme"><a:themeElements>` +
		`<a:clrScheme name="Office"><a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme><a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri Light"/>` +
		`<a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="Calibri"/>` +
		`<a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
		`<a:fmtScheme name="Office"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:fillStyleLst><a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:bgFillStyleLst></a:fmtScheme></a:themeElements></a:theme>`)
}
