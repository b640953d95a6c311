package markdocx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func packageParts(t *testing.T, result *BuildResult) map[string][]byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WritePackage(result, &buf); err != nil {
		t.Fatalf("WritePackage() error: %v", err)
	}
	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading produced package: %v", err)
	}
	parts := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		var out bytes.Buffer
		if _, err := out.ReadFrom(rc); err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		rc.Close()
		parts[f.Name] = out.Bytes()
	}
	return parts
}

func TestWritePackageMinimalDocument(t *testing.T) {
	result := buildFrom(t, "# Title\n\nHello world.\n", nil)
	parts := packageParts(t, result)

	required := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/settings.xml",
		"word/fontTable.xml",
		"word/webSettings.xml",
		"word/theme/theme1.xml",
	}
	for _, name := range required {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	if _, ok := parts["word/footnotes.xml"]; ok {
		t.Error("footnotes part written for a document without footnotes")
	}
	if _, ok := parts["word/numbering.xml"]; ok {
		t.Error("numbering part written for a document without lists")
	}

	doc := string(parts["word/document.xml"])
	if !strings.Contains(doc, "Hello world.") {
		t.Error("body text missing from document part")
	}
	if !strings.Contains(doc, `w:val="Heading1"`) {
		t.Error("heading style missing from document part")
	}
}

func TestWritePackageConditionalParts(t *testing.T) {
	src := "- item one\n- item two\n\nText.[^n]\n\n[^n]: Note.\n"
	result := buildFrom(t, src, nil)
	parts := packageParts(t, result)

	if _, ok := parts["word/numbering.xml"]; !ok {
		t.Error("numbering part missing despite list content")
	}
	if _, ok := parts["word/footnotes.xml"]; !ok {
		t.Error("footnotes part missing despite footnote content")
	}

	ct := string(parts["[Content_Types].xml"])
	for _, want := range []string{"/word/numbering.xml", "/word/footnotes.xml"} {
		if !strings.Contains(ct, want) {
			t.Errorf("content types missing override for %s", want)
		}
	}

	rels := string(parts["word/_rels/document.xml.rels"])
	if !strings.Contains(rels, `Target="numbering.xml"`) ||
		!strings.Contains(rels, `Target="footnotes.xml"`) {
		t.Error("document relationships incomplete")
	}
}

func TestWritePackageImageMedia(t *testing.T) {
	dir := t.TempDir()
	name := writeTestPNG(t, dir, "img.png", 4, 4)
	cfg := DefaultDocumentConfig()
	cfg.BaseDir = dir

	result := buildFrom(t, "![Alt]("+name+")\n", cfg)
	parts := packageParts(t, result)

	if _, ok := parts["word/media/image1.png"]; !ok {
		t.Error("embedded image missing from package")
	}
	if !strings.Contains(string(parts["[Content_Types].xml"]), `Extension="png"`) {
		t.Error("png content type default missing")
	}
}
