package markdocx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// TemplateData is the static substitution context for header/footer
// templates.
type TemplateData struct {
	Title    string
	Subtitle string
	Author   string
	Date     string
}

// TemplateParts is the outcome of loading a header/footer template:
// rewritten parts plus the media they reference.
type TemplateParts struct {
	Headers []HeaderFooterPart
	Footers []HeaderFooterPart
	// Media maps part names under word/ to their bytes.
	Media map[string][]byte
}

// LoadHeaderFooterTemplate opens a DOCX and lifts its header and
// footer parts into the output package. Placeholders are substituted,
// relationship IDs are remapped through the shared allocator so they
// cannot collide with generated relationships, and referenced media
// is carried over.
func LoadHeaderFooterTemplate(docxPath string, data TemplateData, alloc *RelIDAllocator) (*TemplateParts, error) {
	r, err := zip.OpenReader(docxPath)
	if err != nil {
		return nil, NewConfigError("template", "opening template package", err)
	}
	defer r.Close()

	files := make(map[string][]byte)
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "word/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, NewConfigError("template", "reading "+f.Name, err)
		}
		buf, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewConfigError("template", "reading "+f.Name, err)
		}
		files[f.Name] = buf
	}

	out := &TemplateParts{Media: make(map[string][]byte)}

	var names []string
	for name := range files {
		base := path.Base(name)
		if path.Dir(name) == "word" &&
			(strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")) &&
			strings.HasSuffix(base, ".xml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, NewTemplateError(docxPath, "template contains no header or footer parts")
	}

	mediaSeq := 0
	for _, name := range names {
		base := path.Base(name)
		content := string(files[name])

		content = ConsolidatePlaceholders(content)
		content = RenderPlaceholders(content, data)

		// Remap every relationship reference through the allocator and
		// rebuild the part's rels file accordingly.
		relsName := "word/_rels/" + base + ".rels"
		var partRels []byte
		if relsData, ok := files[relsName]; ok {
			content, partRels, err = remapPartRelationships(content, relsData, base, files, out.Media, &mediaSeq, alloc)
			if err != nil {
				return nil, err
			}
		}

		part := HeaderFooterPart{
			Filename: base,
			RelID:    alloc.NextID(),
			Data:     []byte(content),
			Rels:     partRels,
		}
		if strings.HasPrefix(base, "header") {
			out.Headers = append(out.Headers, part)
		} else {
			out.Footers = append(out.Footers, part)
		}
	}

	Info("template %s: %d headers, %d footers, %d media files",
		docxPath, len(out.Headers), len(out.Footers), len(out.Media))
	return out, nil
}

type templateRels struct {
	XMLName xml.Name           `xml:"Relationships"`
	Rels    []templateRelEntry `xml:"Relationship"`
}

type templateRelEntry struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// remapPartRelationships rewrites rId references inside a lifted part.
// Every original ID maps to a fresh allocator ID, stable per (part,
// original) pair. Internal media targets are copied under a template
// prefix so they cannot clash with generated media.
func remapPartRelationships(content string, relsData []byte, partName string,
	files map[string][]byte, media map[string][]byte, mediaSeq *int,
	alloc *RelIDAllocator) (string, []byte, error) {

	var rels templateRels
	if err := xml.Unmarshal(relsData, &rels); err != nil {
		return "", nil, NewTemplateError(partName, "invalid relationships part: "+err.Error())
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="` + ooxml.NSPackageRels + `">`)

	for _, rel := range rels.Rels {
		mapped := alloc.MappedID(partName, rel.ID)
		target := rel.Target

		if rel.TargetMode != "External" {
			src := path.Clean(path.Join("word", rel.Target))
			data, ok := files[src]
			if !ok {
				Warn("template part %s references missing media %s", partName, src)
				continue
			}
			*mediaSeq++
			target = fmt.Sprintf("media/tpl%d_%s", *mediaSeq, path.Base(rel.Target))
			media[target] = data
		}

		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"`,
			mapped, rel.Type, target)
		if rel.TargetMode != "" {
			fmt.Fprintf(&b, ` TargetMode="%s"`, rel.TargetMode)
		}
		b.WriteString("/>")

		// Rewrite references in the part body.
		for _, attr := range []string{"r:embed", "r:id", "r:link"} {
			content = strings.ReplaceAll(content,
				fmt.Sprintf(`%s="%s"`, attr, rel.ID),
				fmt.Sprintf(`%s="%s"`, attr, mapped))
		}
	}
	b.WriteString("</Relationships>")
	return content, []byte(b.String()), nil
}

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// fragmentRe matches a placeholder whose braces were split across run
// boundaries by the editor: "{{", optional intervening run markup,
// the name, more optional markup, then "}}". At most two boundaries
// are bridged; deeper fragmentation stays literal.
var fragmentRe = regexp.MustCompile(`\{\{([^{}<]*)(?:</w:t>.*?<w:t[^>]*>)([^{}<]*)(?:(?:</w:t>.*?<w:t[^>]*>)([^{}<]*))?\}\}`)

// ConsolidatePlaceholders merges placeholders that a word processor
// split across multiple runs back into a single text node. It is a
// best-effort heuristic: placeholders fragmented over more than three
// text nodes are left alone.
func ConsolidatePlaceholders(content string) string {
	for i := 0; i < 4; i++ {
		replaced := fragmentRe.ReplaceAllString(content, "{{$1$2$3}}")
		if replaced == content {
			break
		}
		content = replaced
	}
	return content
}

// RenderPlaceholders substitutes template placeholders. Static fields
// come from the data; page-dependent fields become live Word fields
// spliced into the surrounding run.
func RenderPlaceholders(content string, data TemplateData) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		switch name {
		case "title":
			return xmlEscape(data.Title)
		case "subtitle":
			return xmlEscape(data.Subtitle)
		case "author":
			return xmlEscape(data.Author)
		case "date":
			return xmlEscape(data.Date)
		case "page":
			return spliceField(` PAGE `)
		case "numpages":
			return spliceField(` NUMPAGES `)
		case "chapter":
			return spliceField(`STYLEREF &quot;Heading 1&quot; \* MERGEFORMAT`)
		default:
			Warn("unknown template placeholder {{%s}}", name)
			return m
		}
	})
}

// spliceField closes the current run, inserts a simple field, and
// reopens a run so the remaining text keeps flowing.
func spliceField(instr string) string {
	return `</w:t></w:r><w:fldSimple w:instr="` + instr + `"><w:r><w:t>1</w:t></w:r></w:fldSimple><w:r><w:t xml:space="preserve">`
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
