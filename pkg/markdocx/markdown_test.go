package markdocx

import (
	"testing"
)

func mustParse(t *testing.T, src string) *ParsedDocument {
	t.Helper()
	doc, err := ParseMarkdown(src)
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	return doc
}

func TestParseHeadings(t *testing.T) {
	doc := mustParse(t, "# Intro\n\n## Detail {#detail}\n\n# Data {#data .appendix}\n")
	if len(doc.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(doc.Blocks))
	}

	h1 := doc.Blocks[0].(*Heading)
	if h1.Level != 1 || InlineText(h1.Content) != "Intro" || h1.Anchor != "" {
		t.Errorf("unexpected heading %+v", h1)
	}

	h2 := doc.Blocks[1].(*Heading)
	if h2.Level != 2 || h2.Anchor != "detail" {
		t.Errorf("unexpected heading %+v", h2)
	}

	h3 := doc.Blocks[2].(*Heading)
	if !h3.Appendix || h3.Anchor != "data" || InlineText(h3.Content) != "Data" {
		t.Errorf("unexpected appendix heading %+v", h3)
	}
}

func TestParseCodeFence(t *testing.T) {
	doc := mustParse(t, "```go:main.go\nfunc main() {}\n```\n")
	cb := doc.Blocks[0].(*CodeBlock)
	if cb.Language != "go" || cb.Filename != "main.go" {
		t.Errorf("info = %q/%q, want go/main.go", cb.Language, cb.Filename)
	}
	if cb.Text != "func main() {}" {
		t.Errorf("text = %q", cb.Text)
	}
}

func TestParseMermaidFence(t *testing.T) {
	doc := mustParse(t, "```mermaid\ngraph TD; A-->B\n```\n")
	d := doc.Blocks[0].(*DiagramBlock)
	if d.Kind != "mermaid" || d.Source != "graph TD; A-->B" {
		t.Errorf("unexpected diagram %+v", d)
	}
}

func TestParseUnclosedFence(t *testing.T) {
	_, err := ParseMarkdown("```go\nno close\n")
	if err == nil {
		t.Fatal("expected error for unclosed fence")
	}
	if !IsParseError(err) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestParseMathBlockWithLabel(t *testing.T) {
	doc := mustParse(t, "$$\nE = mc^2 \\label{eq-energy}\n$$\n")
	m := doc.Blocks[0].(*MathBlock)
	if m.Label != "eq-energy" {
		t.Errorf("label = %q, want eq-energy", m.Label)
	}
	if m.TeX != "E = mc^2" {
		t.Errorf("tex = %q, want label stripped", m.TeX)
	}
}

func TestParseNestedBlockQuote(t *testing.T) {
	doc := mustParse(t, "> outer\n> > inner\n")
	q := doc.Blocks[0].(*BlockQuote)
	if len(q.Blocks) != 2 {
		t.Fatalf("outer quote has %d blocks, want 2", len(q.Blocks))
	}
	if _, ok := q.Blocks[1].(*BlockQuote); !ok {
		t.Errorf("second block is %T, want nested *BlockQuote", q.Blocks[1])
	}
}

func TestParseNestedList(t *testing.T) {
	doc := mustParse(t, "1. first\n2. second\n    - sub a\n    - sub b\n3. third\n")
	list := doc.Blocks[0].(*List)
	if !list.Ordered {
		t.Fatal("list not ordered")
	}
	if len(list.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(list.Items))
	}
	nested, ok := list.Items[1].Blocks[0].(*List)
	if !ok {
		t.Fatalf("second item has no nested list")
	}
	if nested.Ordered || len(nested.Items) != 2 {
		t.Errorf("nested list = %+v", nested)
	}
}

func TestParseTableWithCaption(t *testing.T) {
	src := "| Name | Value |\n|:-----|------:|\n| a | 1 |\n| b | 2 |\n: Results {#tbl-results}\n"
	doc := mustParse(t, src)
	tbl := doc.Blocks[0].(*TableBlock)

	if len(tbl.Headers) != 2 {
		t.Fatalf("got %d header cells, want 2", len(tbl.Headers))
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows))
	}
	if tbl.Anchor != "tbl-results" || InlineText(tbl.Caption) != "Results" {
		t.Errorf("caption = %q anchor = %q", InlineText(tbl.Caption), tbl.Anchor)
	}
	if tbl.Alignments[0] != "left" || tbl.Alignments[1] != "right" {
		t.Errorf("alignments = %v", tbl.Alignments)
	}
}

func TestParseStandaloneImage(t *testing.T) {
	doc := mustParse(t, "![System architecture](img/arch.png){#fig-arch width=50%}\n")
	img := doc.Blocks[0].(*ImageBlock)
	if img.Path != "img/arch.png" || img.Anchor != "fig-arch" || img.Width != "50%" {
		t.Errorf("unexpected image %+v", img)
	}
	if InlineText(img.Caption) != "System architecture" {
		t.Errorf("caption = %q", InlineText(img.Caption))
	}
}

func TestParseFootnoteDefinition(t *testing.T) {
	doc := mustParse(t, "Text with a note.[^n1]\n\n[^n1]: The note body.\n")
	if len(doc.Footnotes) != 1 {
		t.Fatalf("got %d footnotes, want 1", len(doc.Footnotes))
	}
	blocks, ok := doc.Footnotes["n1"]
	if !ok {
		t.Fatal("footnote n1 missing")
	}
	para := blocks[0].(*ParagraphBlock)
	if InlineText(para.Content) != "The note body." {
		t.Errorf("footnote text = %q", InlineText(para.Content))
	}

	// Body paragraph carries the reference span.
	body := doc.Blocks[0].(*ParagraphBlock)
	found := false
	for _, in := range body.Content {
		if ref, ok := in.(*FootnoteRefSpan); ok && ref.ID == "n1" {
			found = true
		}
	}
	if !found {
		t.Error("footnote reference span missing from body")
	}
}

func TestParseFontGroup(t *testing.T) {
	doc := mustParse(t, "{font:TH Sarabun New}\nThai content here.\n{/font}\n")
	fg := doc.Blocks[0].(*FontGroup)
	if fg.Font != "TH Sarabun New" {
		t.Errorf("font = %q", fg.Font)
	}
	if len(fg.Blocks) != 1 {
		t.Errorf("group has %d blocks, want 1", len(fg.Blocks))
	}
}

func TestParseThematicBreak(t *testing.T) {
	doc := mustParse(t, "cover line\n\n---\n\nbody\n")
	if _, ok := doc.Blocks[1].(*ThematicBreak); !ok {
		t.Errorf("block 1 is %T, want *ThematicBreak", doc.Blocks[1])
	}
}

func TestParseInlineSpans(t *testing.T) {
	doc := mustParse(t, "Mix **bold** and *italic* and `code` and [a link](https://x.org) and {ref:fig-a} and $x^2$.\n")
	para := doc.Blocks[0].(*ParagraphBlock)

	var (
		strong, emph, code, link, xref, math bool
	)
	for _, in := range para.Content {
		switch v := in.(type) {
		case *StrongSpan:
			strong = InlineText(v.Content) == "bold"
		case *EmphSpan:
			emph = InlineText(v.Content) == "italic"
		case *CodeSpan:
			code = v.Text == "code"
		case *LinkSpan:
			link = v.URL == "https://x.org"
		case *CrossRefSpan:
			xref = v.Target == "fig-a"
		case *MathSpan:
			math = v.TeX == "x^2"
		}
	}
	for name, ok := range map[string]bool{
		"strong": strong, "emph": emph, "code": code,
		"link": link, "xref": xref, "math": math,
	} {
		if !ok {
			t.Errorf("inline %s not parsed", name)
		}
	}
}

func TestParseUnmatchedDelimiterIsLiteral(t *testing.T) {
	doc := mustParse(t, "a ** b\n")
	para := doc.Blocks[0].(*ParagraphBlock)
	if got := InlineText(para.Content); got != "a ** b" {
		t.Errorf("text = %q, want literal delimiters", got)
	}
}
