package markdocx

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

const applicationName = "markdocx"

// WriteDocx writes the assembled document to a .docx file.
func WriteDocx(result *BuildResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return NewDocumentError("create", outputPath, err)
	}
	if err := WritePackage(result, f); err != nil {
		f.Close()
		os.Remove(outputPath)
		return err
	}
	if err := f.Close(); err != nil {
		return NewDocumentError("close", outputPath, err)
	}
	Info("wrote %s", outputPath)
	return nil
}

// WritePackage streams the OPC package to w.
func WritePackage(result *BuildResult, w io.Writer) error {
	z := zip.NewWriter(w)

	write := func(name string, data []byte) error {
		fw, err := z.Create(name)
		if err != nil {
			return NewDocumentError("package", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return NewDocumentError("package", name, err)
		}
		return nil
	}

	ct := contentTypesFor(result)
	if err := write("[Content_Types].xml", ct.ToXML()); err != nil {
		return err
	}
	if err := write("_rels/.rels", ooxml.RootRels().ToXML()); err != nil {
		return err
	}

	core := ooxml.CoreProperties{
		Title:   result.Config.Title,
		Creator: result.Config.Author,
	}
	if err := write("docProps/core.xml", core.ToXML()); err != nil {
		return err
	}
	if err := write("docProps/app.xml", ooxml.AppPropertiesXML(applicationName)); err != nil {
		return err
	}

	if err := write("word/document.xml", result.Document.ToXML()); err != nil {
		return err
	}
	if err := write("word/_rels/document.xml.rels", result.DocRels.ToXML()); err != nil {
		return err
	}
	if err := write("word/styles.xml", ooxml.StylesXML(result.StyleParams)); err != nil {
		return err
	}
	// Fields (TOC page numbers, PAGEREF, STYLEREF) need a repagination
	// on open to show real values.
	updateFields := result.Config.Toc.Enabled || len(result.Headers) > 0 || len(result.Footers) > 0
	if err := write("word/settings.xml", ooxml.SettingsXML(updateFields)); err != nil {
		return err
	}
	if err := write("word/fontTable.xml", ooxml.FontTableXML(fontFamilies(result), embeddedRefs(result.Fonts))); err != nil {
		return err
	}
	if err := write("word/webSettings.xml", ooxml.WebSettingsXML()); err != nil {
		return err
	}
	if err := write("word/theme/theme1.xml", ooxml.ThemeXML()); err != nil {
		return err
	}

	if !result.Footnotes.IsEmpty() {
		if err := write("word/footnotes.xml", result.Footnotes.ToXML()); err != nil {
			return err
		}
	}
	if len(result.Numbering) > 0 {
		if err := write("word/numbering.xml", ooxml.NumberingXML(result.Numbering)); err != nil {
			return err
		}
	}

	for _, h := range result.Headers {
		if err := write("word/"+h.Filename, h.Data); err != nil {
			return err
		}
		if h.Rels != nil {
			if err := write("word/_rels/"+h.Filename+".rels", h.Rels); err != nil {
				return err
			}
		}
	}
	for _, f := range result.Footers {
		if err := write("word/"+f.Filename, f.Data); err != nil {
			return err
		}
		if f.Rels != nil {
			if err := write("word/_rels/"+f.Filename+".rels", f.Rels); err != nil {
				return err
			}
		}
	}

	for _, img := range result.Images {
		if err := write("word/"+img.Target, img.Data); err != nil {
			return err
		}
	}
	for name, data := range result.TemplateMedia {
		if err := write("word/"+name, data); err != nil {
			return err
		}
	}

	if len(result.Fonts) > 0 {
		rels := &ooxml.Relationships{}
		for _, fnt := range result.Fonts {
			if err := write("word/"+fnt.Target, fnt.Data); err != nil {
				return err
			}
			rels.Add(ooxml.Relationship{ID: fnt.RelID, Type: ooxml.RelTypeFont, Target: fnt.Target})
		}
		if err := write("word/_rels/fontTable.xml.rels", rels.ToXML()); err != nil {
			return err
		}
	}

	if err := z.Close(); err != nil {
		return NewDocumentError("package", "finalizing archive", err)
	}
	return nil
}

// contentTypesFor declares every part the package will contain.
func contentTypesFor(result *BuildResult) *ooxml.ContentTypes {
	ct := ooxml.NewContentTypes()
	ct.AddOverride("/word/settings.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml")
	ct.AddOverride("/word/fontTable.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml")
	ct.AddOverride("/word/webSettings.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.webSettings+xml")
	ct.AddOverride("/word/theme/theme1.xml",
		"application/vnd.openxmlformats-officedocument.theme+xml")

	if !result.Footnotes.IsEmpty() {
		ct.AddOverride("/word/footnotes.xml",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml")
	}
	if len(result.Numbering) > 0 {
		ct.AddOverride("/word/numbering.xml",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml")
	}
	for _, h := range result.Headers {
		ct.AddOverride("/word/"+h.Filename,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml")
	}
	for _, f := range result.Footers {
		ct.AddOverride("/word/"+f.Filename,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml")
	}

	for _, img := range result.Images {
		ct.AddExtension(img.Extension)
	}
	for name := range result.TemplateMedia {
		if ext := strings.TrimPrefix(path.Ext(name), "."); ext != "" {
			ct.AddExtension(ext)
		}
	}
	for _, fnt := range result.Fonts {
		ct.AddExtension(fnt.Extension)
	}
	return ct
}

func fontFamilies(result *BuildResult) []string {
	seen := make(map[string]bool)
	var families []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			families = append(families, name)
		}
	}
	add(result.Language.DefaultASCIIFont())
	add(result.Language.DefaultCSFont())
	add(result.Config.BodyFont)
	for _, f := range result.Fonts {
		add(f.Family)
	}
	return families
}

func embeddedRefs(fonts []*EmbeddedFont) []ooxml.EmbeddedFontRef {
	refs := make([]ooxml.EmbeddedFontRef, 0, len(fonts))
	for _, f := range fonts {
		refs = append(refs, ooxml.EmbeddedFontRef{Family: f.Family, RelID: f.RelID})
	}
	return refs
}
