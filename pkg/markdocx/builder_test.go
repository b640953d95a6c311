package markdocx

import (
	"strings"
	"testing"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

func buildFrom(t *testing.T, src string, cfg *DocumentConfig) *BuildResult {
	t.Helper()
	doc, err := ParseMarkdown(src)
	if err != nil {
		t.Fatalf("ParseMarkdown() error: %v", err)
	}
	result, err := BuildDocument(doc, cfg)
	if err != nil {
		t.Fatalf("BuildDocument() error: %v", err)
	}
	return result
}

func bodyParagraphs(result *BuildResult) []*ooxml.Paragraph {
	var out []*ooxml.Paragraph
	for _, el := range result.Document.Elements {
		if p, ok := el.(*ooxml.Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

func paragraphWithText(t *testing.T, result *BuildResult, substr string) *ooxml.Paragraph {
	t.Helper()
	for _, p := range bodyParagraphs(result) {
		if strings.Contains(p.PlainText(), substr) {
			return p
		}
	}
	t.Fatalf("no paragraph containing %q", substr)
	return nil
}

func TestBlankParagraphBeforeHeading(t *testing.T) {
	t.Run("inserted after body content", func(t *testing.T) {
		result := buildFrom(t, "Intro paragraph.\n\n## Details\n\nMore text.\n", nil)
		paras := bodyParagraphs(result)
		if len(paras) != 4 {
			t.Fatalf("got %d paragraphs, want 4", len(paras))
		}
		if paras[0].StyleID != "BodyText" {
			t.Errorf("paras[0] style = %q", paras[0].StyleID)
		}
		if !paras[1].IsEmpty() || paras[1].StyleID != "" {
			t.Errorf("paras[1] should be an empty spacer, got style %q text %q",
				paras[1].StyleID, paras[1].PlainText())
		}
		if paras[2].StyleID != "Heading2" {
			t.Errorf("paras[2] style = %q, want Heading2", paras[2].StyleID)
		}
	})

	t.Run("not inserted between headings", func(t *testing.T) {
		result := buildFrom(t, "# One\n\n## Two\n", nil)
		paras := bodyParagraphs(result)
		if len(paras) != 2 {
			t.Fatalf("got %d paragraphs, want 2", len(paras))
		}
		if paras[0].StyleID != "Heading1" || paras[1].StyleID != "Heading2" {
			t.Errorf("styles = %q, %q", paras[0].StyleID, paras[1].StyleID)
		}
	})

	t.Run("not inserted before first block", func(t *testing.T) {
		result := buildFrom(t, "# Opening\n", nil)
		paras := bodyParagraphs(result)
		if len(paras) != 1 {
			t.Fatalf("got %d paragraphs, want 1", len(paras))
		}
	})
}

func numberedParagraphs(result *BuildResult) []*ooxml.Paragraph {
	var out []*ooxml.Paragraph
	for _, p := range bodyParagraphs(result) {
		if p.NumberingID > 0 {
			out = append(out, p)
		}
	}
	return out
}

func TestListContinuation(t *testing.T) {
	t.Run("continues across a code block", func(t *testing.T) {
		src := strings.Join([]string{
			"1. one",
			"2. two",
			"",
			"```",
			"x := 1",
			"```",
			"",
			"3. three",
			"",
		}, "\n")
		result := buildFrom(t, src, nil)
		items := numberedParagraphs(result)
		if len(items) != 3 {
			t.Fatalf("got %d list paragraphs, want 3", len(items))
		}
		if items[2].NumberingID != items[0].NumberingID {
			t.Errorf("list instance changed across code block: %d vs %d",
				items[2].NumberingID, items[0].NumberingID)
		}
		if len(result.Numbering) != 1 {
			t.Errorf("got %d numbering instances, want 1", len(result.Numbering))
		}
	})

	t.Run("broken by an intervening paragraph", func(t *testing.T) {
		src := "1. one\n\nPlain text between.\n\n1. two\n"
		result := buildFrom(t, src, nil)
		items := numberedParagraphs(result)
		if len(items) != 2 {
			t.Fatalf("got %d list paragraphs, want 2", len(items))
		}
		if items[1].NumberingID == items[0].NumberingID {
			t.Error("list instance should not survive an intervening paragraph")
		}
	})

	t.Run("broken by mismatched orderedness", func(t *testing.T) {
		src := strings.Join([]string{
			"1. one",
			"",
			"```",
			"x",
			"```",
			"",
			"- bullet",
			"",
		}, "\n")
		result := buildFrom(t, src, nil)
		items := numberedParagraphs(result)
		if len(items) != 2 {
			t.Fatalf("got %d list paragraphs, want 2", len(items))
		}
		if items[1].NumberingID == items[0].NumberingID {
			t.Error("ordered instance must not continue into a bullet list")
		}
	})
}

func TestFootnoteAssembly(t *testing.T) {
	result := buildFrom(t, "Body text.[^a]\n\n[^a]: Footnote body.\n", nil)

	if result.Footnotes.Len() != 1 {
		t.Fatalf("got %d footnotes, want 1", result.Footnotes.Len())
	}
	fn := result.Footnotes.Footnotes()[0]
	if fn.ID != 1 {
		t.Errorf("footnote id = %d, want 1", fn.ID)
	}
	if len(fn.Content) == 0 {
		t.Fatal("footnote has no content")
	}
	first := fn.Content[0]
	if first.StyleID != "FootnoteText" {
		t.Errorf("footnote paragraph style = %q, want FootnoteText", first.StyleID)
	}
	runs := first.IterRuns()
	if len(runs) == 0 || !runs[0].FootnoteRef {
		t.Error("footnote must open with its own reference mark")
	}
	if !strings.Contains(first.PlainText(), "Footnote body.") {
		t.Errorf("footnote text = %q", first.PlainText())
	}

	// The body carries the reference run.
	found := false
	for _, p := range bodyParagraphs(result) {
		for _, r := range p.IterRuns() {
			if r.FootnoteID == fn.ID {
				found = true
			}
		}
	}
	if !found {
		t.Error("body has no reference to the footnote")
	}

	// The footnotes part gets a relationship.
	hasRel := false
	for _, rel := range relTargets(result) {
		if rel == "footnotes.xml" {
			hasRel = true
		}
	}
	if !hasRel {
		t.Error("document relationships missing footnotes.xml")
	}
}

func relTargets(result *BuildResult) []string {
	var out []string
	xml := string(result.DocRels.ToXML())
	for _, part := range strings.Split(xml, `Target="`)[1:] {
		out = append(out, part[:strings.IndexByte(part, '"')])
	}
	return out
}

func TestFootnoteReferenceInsideFootnote(t *testing.T) {
	result := buildFrom(t, "Text.[^a]\n\n[^a]: See also[^b].\n\n[^b]: Other.\n", nil)

	var target *ooxml.Paragraph
	for _, fn := range result.Footnotes.Footnotes() {
		for _, p := range fn.Content {
			if strings.Contains(p.PlainText(), "See also") {
				target = p
			}
		}
	}
	if target == nil {
		t.Fatal("footnote a not assembled")
	}
	if !strings.Contains(target.PlainText(), "[^b]") {
		t.Errorf("nested reference should render literally, got %q", target.PlainText())
	}
}

func TestCoverBoundaryAndToc(t *testing.T) {
	cfg := DefaultDocumentConfig()
	cfg.Toc.Enabled = true
	cfg.Toc.Title = "Contents"

	src := "Cover line.\n\n---\n\n# Chapter One\n\nBody.\n"
	result := buildFrom(t, src, cfg)

	breakIdx, tocIdx := -1, -1
	for i, el := range result.Document.Elements {
		p, ok := el.(*ooxml.Paragraph)
		if !ok {
			continue
		}
		if p.SectionBreak == "nextPage" && p.SuppressRefs {
			breakIdx = i
		}
		if p.StyleID == "TOCHeading" {
			tocIdx = i
		}
	}
	if breakIdx < 0 {
		t.Fatal("cover boundary section break missing")
	}
	if tocIdx < 0 {
		t.Fatal("TOC heading missing")
	}
	if tocIdx <= breakIdx {
		t.Errorf("TOC at %d should follow the cover boundary at %d", tocIdx, breakIdx)
	}
	if result.Document.PageNumStart != 1 {
		t.Errorf("body page numbering should restart at 1, got %d", result.Document.PageNumStart)
	}
}

func TestTocWithoutCoverLeads(t *testing.T) {
	cfg := DefaultDocumentConfig()
	cfg.Toc.Enabled = true
	cfg.Toc.Title = "Contents"

	result := buildFrom(t, "# Chapter One\n\nBody.\n", cfg)
	p, ok := result.Document.Elements[0].(*ooxml.Paragraph)
	if !ok || p.StyleID != "TOCHeading" {
		t.Errorf("document should open with the TOC heading")
	}
}

func TestRepeatedThematicBreakIsRule(t *testing.T) {
	result := buildFrom(t, "Cover.\n\n---\n\nBody.\n\n---\n\nMore.\n", nil)

	breaks, rules := 0, 0
	for _, el := range result.Document.Elements {
		switch v := el.(type) {
		case *ooxml.Paragraph:
			if v.SectionBreak != "" {
				breaks++
			}
		case ooxml.RawXML:
			rules++
		}
	}
	if breaks != 1 {
		t.Errorf("got %d section breaks, want 1 (cover only)", breaks)
	}
	if rules != 1 {
		t.Errorf("got %d horizontal rules, want 1", rules)
	}
}

func TestCrossReferences(t *testing.T) {
	dir := t.TempDir()
	name := "img.png"
	writeTestPNG(t, dir, name, 4, 4)
	cfg := DefaultDocumentConfig()
	cfg.BaseDir = dir

	src := strings.Join([]string{
		"# Intro {#intro}",
		"",
		"![A diagram](" + name + "){#fig-a}",
		"",
		"See {ref:intro}, {ref:fig-a} and {ref:nope}.",
		"",
	}, "\n")
	result := buildFrom(t, src, cfg)

	p := paragraphWithText(t, result, "See ")

	var links []ooxml.Hyperlink
	for _, c := range p.Children {
		if h, ok := c.(ooxml.Hyperlink); ok {
			links = append(links, h)
		}
	}
	if len(links) != 2 {
		t.Fatalf("got %d internal links, want 2", len(links))
	}
	if links[0].Anchor != "_Ref_intro" {
		t.Errorf("chapter anchor = %q", links[0].Anchor)
	}
	if got := links[0].Runs[0].Text; got != "Chapter 1" {
		t.Errorf("chapter display = %q, want Chapter 1", got)
	}
	if got := links[1].Runs[0].Text; got != "Figure 1.1" {
		t.Errorf("figure display = %q, want Figure 1.1", got)
	}
	if !strings.Contains(p.PlainText(), "[nope]") {
		t.Errorf("unresolved target should degrade to [nope]: %q", p.PlainText())
	}
}

func TestImageFallbackAltText(t *testing.T) {
	result := buildFrom(t, "![Alt text](does-not-exist.png)\n", nil)
	p := paragraphWithText(t, result, "[Alt text]")
	if p.StyleID != "BodyText" {
		t.Errorf("fallback style = %q", p.StyleID)
	}
	if len(result.Images) != 0 {
		t.Errorf("missing image must not be tracked, got %d", len(result.Images))
	}
}

func TestMathLiteralMode(t *testing.T) {
	cfg := DefaultDocumentConfig()
	cfg.MathMode = MathModeLiteral

	result := buildFrom(t, "$$\nE = mc^2\n$$\n", cfg)
	p := paragraphWithText(t, result, "E = mc^2")
	if p.StyleID != "Code" {
		t.Errorf("literal math style = %q, want Code", p.StyleID)
	}
}

func TestQuoteIndentation(t *testing.T) {
	result := buildFrom(t, "> quoted words\n", nil)
	p := paragraphWithText(t, result, "quoted words")
	if p.StyleID != "Quote" {
		t.Errorf("style = %q, want Quote", p.StyleID)
	}
	if p.IndentLeft != 720 {
		t.Errorf("indent = %d, want 720", p.IndentLeft)
	}
}

func TestFontGroupOverride(t *testing.T) {
	result := buildFrom(t, "{font:TH Sarabun New}\nThai passage.\n{/font}\n", nil)
	p := paragraphWithText(t, result, "Thai passage.")
	runs := p.IterRuns()
	if len(runs) == 0 || runs[0].Font != "TH Sarabun New" {
		t.Errorf("font override not applied: %+v", runs)
	}
}

func TestHeaderFooterConfigParts(t *testing.T) {
	cfg := DefaultDocumentConfig()
	cfg.Title = "Manual"
	cfg.Footer = &HeaderFooterSection{Center: &HeaderFooterSpec{Field: "page"}}

	t.Run("flat config yields one footer", func(t *testing.T) {
		result := buildFrom(t, "Body.\n", cfg)
		if len(result.Footers) != 1 {
			t.Fatalf("got %d footers, want 1", len(result.Footers))
		}
		if len(result.Document.FooterRefs) != 1 {
			t.Errorf("got %d footer refs, want 1", len(result.Document.FooterRefs))
		}
	})

	t.Run("cover adds a suppression footer", func(t *testing.T) {
		result := buildFrom(t, "Cover.\n\n---\n\nBody.\n", cfg)
		if len(result.Footers) != 2 {
			t.Fatalf("got %d footers, want default plus suppression", len(result.Footers))
		}
		var boundary *ooxml.Paragraph
		for _, el := range result.Document.Elements {
			if p, ok := el.(*ooxml.Paragraph); ok && p.SectionBreak != "" {
				boundary = p
			}
		}
		if boundary == nil {
			t.Fatal("no cover boundary")
		}
		if len(boundary.FooterRefs) != 1 {
			t.Errorf("boundary should reference the suppression footer")
		}
		if boundary.FooterRefs[0].RelID != result.Footers[1].RelID {
			t.Errorf("boundary references %s, suppression part is %s",
				boundary.FooterRefs[0].RelID, result.Footers[1].RelID)
		}
	})
}

func TestHyperlinkRelationships(t *testing.T) {
	src := "See [docs](https://example.com/docs) and [again](https://example.com/docs).\n"
	result := buildFrom(t, src, nil)

	external := 0
	xml := string(result.DocRels.ToXML())
	external = strings.Count(xml, `TargetMode="External"`)
	if external != 1 {
		t.Errorf("got %d external relationships, want 1 (deduplicated)", external)
	}
}

func TestLanguageDetectionThai(t *testing.T) {
	src := "# บทนำ\n\nเนื้อหาภาษาไทยทั้งหมดในเอกสารนี้\n"
	result := buildFrom(t, src, nil)
	if result.Language != Thai {
		t.Error("document should detect as Thai")
	}
	if result.StyleParams.Lang != Thai {
		t.Error("style params should carry the detected language")
	}
}

func TestStrictModeFailsOnContentErrors(t *testing.T) {
	old := GetGlobalConfig()
	strict := *old
	strict.StrictMode = true
	SetGlobalConfig(&strict)
	defer SetGlobalConfig(old)

	doc, err := ParseMarkdown("See {ref:nowhere}.\n")
	if err != nil {
		t.Fatalf("ParseMarkdown() error: %v", err)
	}
	if _, err := BuildDocument(doc, nil); err == nil {
		t.Fatal("strict mode should turn an unresolved reference into a build failure")
	}
}

func TestAppendixCrossRefRendering(t *testing.T) {
	dir := t.TempDir()
	name := "img.png"
	writeTestPNG(t, dir, name, 4, 4)
	cfg := DefaultDocumentConfig()
	cfg.BaseDir = dir

	src := strings.Join([]string{
		"# Setup {#setup}",
		"",
		"# Reference {#ref .appendix}",
		"",
		"![Appendix figure](" + name + "){#fig-x}",
		"",
		"See {ref:ref} and {ref:fig-x}.",
		"",
	}, "\n")
	result := buildFrom(t, src, cfg)

	p := paragraphWithText(t, result, "See ")
	var texts []string
	for _, c := range p.Children {
		if h, ok := c.(ooxml.Hyperlink); ok && len(h.Runs) > 0 {
			texts = append(texts, h.Runs[0].Text)
		}
	}
	if len(texts) != 2 {
		t.Fatalf("got %d links, want 2", len(texts))
	}
	if texts[0] != "Appendix A" {
		t.Errorf("appendix display = %q, want Appendix A", texts[0])
	}
	if texts[1] != "Figure A.1" {
		t.Errorf("appendix figure display = %q, want Figure A.1", texts[1])
	}
}

func TestFootnoteListLeavesBodyNumberingAlone(t *testing.T) {
	body := strings.Join([]string{
		"- alpha",
		"- beta",
		"",
		"Some text.",
		"",
	}, "\n")
	withNote := body + strings.Join([]string{
		"Read this[^n].",
		"",
		"[^n]: note text",
		"",
		"    1. first",
		"    2. second",
		"",
	}, "\n")

	plain := buildFrom(t, body, nil)
	noted := buildFrom(t, withNote, nil)

	if len(noted.Numbering) != len(plain.Numbering) {
		t.Errorf("footnote list advanced body numbering: %d instances with footnote, %d without",
			len(noted.Numbering), len(plain.Numbering))
	}

	// The footnote's own list still renders numbered, from its
	// disposable registry.
	fns := noted.Footnotes.Footnotes()
	if len(fns) != 1 {
		t.Fatalf("got %d footnotes, want 1", len(fns))
	}
	numbered := 0
	for _, p := range fns[0].Content {
		if p.NumberingID > 0 {
			numbered++
		}
	}
	if numbered != 2 {
		t.Errorf("got %d numbered footnote paragraphs, want 2", numbered)
	}
}

func TestCoverHeadingsExcludedFromToc(t *testing.T) {
	cfg := DefaultDocumentConfig()
	cfg.Toc.Enabled = true

	src := strings.Join([]string{
		"# Cover Title",
		"",
		"---",
		"",
		"# Real Chapter",
		"",
		"Body.",
		"",
	}, "\n")
	result := buildFrom(t, src, cfg)

	xmlStr := string(result.Document.ToXML())
	if strings.Contains(xmlStr, "PAGEREF _Toc1_Cover_Title") {
		t.Error("cover heading rendered into the TOC")
	}
	if !strings.Contains(xmlStr, "PAGEREF _Toc2_Real_Chapter") {
		t.Error("body heading missing from the TOC")
	}

	// The collector still records the cover heading, flagged as
	// pre-boundary, so its bookmark stays stable.
	if len(result.TocEntries) != 2 {
		t.Fatalf("got %d collected entries, want 2", len(result.TocEntries))
	}
	if !result.TocEntries[0].PreBoundary {
		t.Error("cover entry not flagged as pre-boundary")
	}
	if result.TocEntries[1].PreBoundary {
		t.Error("body entry wrongly flagged as pre-boundary")
	}
}

func TestTemplatePartsFirstPageAndSuppression(t *testing.T) {
	header1 := `<w:hdr><w:p><w:r><w:t>{{title}}</w:t></w:r></w:p></w:hdr>`
	header2 := `<w:hdr><w:p><w:r><w:t>first page</w:t></w:r></w:p></w:hdr>`
	footer1 := `<w:ftr><w:p><w:r><w:t>{{page}}</w:t></w:r></w:p></w:ftr>`
	tplPath := writeTemplateDocx(t, map[string][]byte{
		"word/header1.xml": []byte(header1),
		"word/header2.xml": []byte(header2),
		"word/footer1.xml": []byte(footer1),
	})

	cfg := DefaultDocumentConfig()
	cfg.Title = "Manual"
	cfg.TemplatePath = tplPath

	result := buildFrom(t, "Cover.\n\n---\n\n# Body\n\nText.\n", cfg)

	// Two template headers plus one synthesized suppression part; one
	// template footer plus its suppression part.
	if len(result.Headers) != 3 {
		t.Fatalf("got %d headers, want 3", len(result.Headers))
	}
	if len(result.Footers) != 2 {
		t.Fatalf("got %d footers, want 2", len(result.Footers))
	}
	if result.Headers[2].Filename != "header3.xml" {
		t.Errorf("suppression header named %q, want header3.xml", result.Headers[2].Filename)
	}

	refTypes := make(map[string]bool)
	for _, r := range result.Document.HeaderRefs {
		refTypes[r.Type] = true
	}
	if !refTypes["default"] || !refTypes["first"] {
		t.Errorf("header refs = %v, want default and first", result.Document.HeaderRefs)
	}
	if !result.Document.TitlePage {
		t.Error("second template header should enable the title page flag")
	}

	var boundary *ooxml.Paragraph
	for _, el := range result.Document.Elements {
		if p, ok := el.(*ooxml.Paragraph); ok && p.SectionBreak != "" {
			boundary = p
		}
	}
	if boundary == nil {
		t.Fatal("no cover boundary")
	}
	if len(boundary.HeaderRefs) != 1 || boundary.HeaderRefs[0].RelID != result.Headers[2].RelID {
		t.Error("boundary should reference the suppression header")
	}
	if len(boundary.FooterRefs) != 1 || boundary.FooterRefs[0].RelID != result.Footers[1].RelID {
		t.Error("boundary should reference the suppression footer")
	}
}
