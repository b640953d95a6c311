package ooxml

import (
	"fmt"
	"sort"
	"strings"
)

// ContentTypes builds the [Content_Types].xml part.
type ContentTypes struct {
	defaults  map[string]string // extension -> content type
	overrides []ctOverride
}

type ctOverride struct {
	partName    string
	contentType string
}

// NewContentTypes creates a content-types part with the standard
// defaults and the main document override.
func NewContentTypes() *ContentTypes {
	ct := &ContentTypes{defaults: map[string]string{
		"rels": "application/vnd.openxmlformats-package.relationships+xml",
		"xml":  "application/xml",
	}}
	ct.AddOverride("/word/document.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	ct.AddOverride("/word/styles.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	ct.AddOverride("/docProps/core.xml",
		"application/vnd.openxmlformats-package.core-properties+xml")
	ct.AddOverride("/docProps/app.xml",
		"application/vnd.openxmlformats-officedocument.extended-properties+xml")
	return ct
}

var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"ttf":  "application/x-font-ttf",
	"otf":  "application/x-font-otf",
	"odttf": "application/vnd.openxmlformats-officedocument.obfuscatedFont",
}

// AddExtension registers a default content type for a file extension.
// Unknown image extensions fall back to image/<ext>.
func (ct *ContentTypes) AddExtension(ext string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return
	}
	if _, ok := ct.defaults[ext]; ok {
		return
	}
	typ, ok := mediaContentTypes[ext]
	if !ok {
		typ = "image/" + ext
	}
	ct.defaults[ext] = typ
}

// AddOverride registers a part-specific content type.
func (ct *ContentTypes) AddOverride(partName, contentType string) {
	ct.overrides = append(ct.overrides, ctOverride{partName, contentType})
}

// ToXML serializes the content-types part.
func (ct *ContentTypes) ToXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Types xmlns="%s">`, NSContentTypes)

	exts := make([]string, 0, len(ct.defaults))
	for ext := range ct.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, esc(ext), esc(ct.defaults[ext]))
	}
	for _, o := range ct.overrides {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, esc(o.partName), esc(o.contentType))
	}
	b.WriteString("</Types>")
	return []byte(b.String())
}
