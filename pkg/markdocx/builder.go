package markdocx

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// HeaderFooterPart is one generated header or footer part.
type HeaderFooterPart struct {
	Filename string // "header1.xml"
	RelID    ooxml.RelationshipID
	Data     []byte
	Rels     []byte // part-level relationships, nil when none
}

// BuildResult carries everything the packager needs to write the
// final package.
type BuildResult struct {
	Config      *DocumentConfig
	Language    Language
	Document    *ooxml.DocumentXML
	StyleParams ooxml.StyleParams
	Footnotes   *ooxml.FootnotesXML
	Numbering   []ooxml.NumInstance
	Headers     []HeaderFooterPart
	Footers     []HeaderFooterPart
	DocRels     *ooxml.Relationships
	Images      []*TrackedImage
	Fonts       []*EmbeddedFont
	TocEntries  []TocEntry
	// TemplateMedia holds media files carried over from a header/footer
	// template, keyed by part name under word/.
	TemplateMedia map[string][]byte
}

// Builder assembles a parsed document into OOXML parts in a single
// forward pass. Content errors (missing images, failed renders,
// unresolved references) degrade visibly and never abort the build;
// configuration errors abort before any part is produced.
type Builder struct {
	cfg   *DocumentConfig
	lang  Language
	alloc *RelIDAllocator

	images    *ImageTracker
	links     *HyperlinkTracker
	footnotes *ooxml.FootnotesXML
	numbering *NumberingRegistry

	math     MathRenderer
	diagrams DiagramRenderer

	footnoteDefs map[string][]Block
	docPrSeq     int
	issues       []string
}

// contentIssue records a degraded block. Outside strict mode these are
// warnings; in strict mode the build fails after the full pass so every
// problem is reported at once.
func (b *Builder) contentIssue(format string, args ...interface{}) {
	Warn(format, args...)
	b.issues = append(b.issues, fmt.Sprintf(format, args...))
}

// NewBuilder creates a builder for the given (already merged and
// validated) document configuration.
func NewBuilder(cfg *DocumentConfig) *Builder {
	alloc := NewRelIDAllocator()
	b := &Builder{
		cfg:       cfg,
		alloc:     alloc,
		images:    NewImageTracker(alloc),
		links:     NewHyperlinkTracker(alloc),
		footnotes: ooxml.NewFootnotesXML(),
		numbering: NewNumberingRegistry(),
		math:      OMMLRenderer{},
	}
	if cfg.MermaidCommand != "" {
		b.diagrams = NewMermaidCLI(cfg.MermaidCommand)
	}
	return b
}

// WithMathRenderer replaces the math renderer.
func (b *Builder) WithMathRenderer(r MathRenderer) *Builder {
	b.math = r
	return b
}

// WithDiagramRenderer replaces the diagram renderer.
func (b *Builder) WithDiagramRenderer(r DiagramRenderer) *Builder {
	b.diagrams = r
	return b
}

// BuildDocument merges the frontmatter config over base, validates,
// and assembles the document.
func BuildDocument(doc *ParsedDocument, base *DocumentConfig) (*BuildResult, error) {
	cfg := MergeConfig(base, doc.Config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewBuilder(cfg).Build(doc)
}

// Build runs the assembly pass.
func (b *Builder) Build(doc *ParsedDocument) (*BuildResult, error) {
	b.lang = resolveLanguage(b.cfg.Language, doc)
	b.footnoteDefs = doc.Footnotes
	Debug("assembling document: language=%s blocks=%d", languageName(b.lang), len(doc.Blocks))

	body := b.newScope(false)
	body.convertBlocks(doc.Blocks)

	elements := body.elements

	// The table of contents goes after the cover boundary (the first
	// thematic break), or at the very front when there is no cover.
	if b.cfg.Toc.Enabled {
		tocElems := body.toc.GenerateEntries(b.cfg.Toc)
		at := 0
		if body.coverIdx >= 0 {
			at = body.coverIdx
		}
		elements = append(elements[:at:at], append(tocElems, elements[at:]...)...)
	}

	result := &BuildResult{
		Config:    b.cfg,
		Language:  b.lang,
		Footnotes: b.footnotes,
		Numbering: b.numbering.Instances(),
		Images:    b.images.Images(),
		DocRels:   ooxml.DocumentRels(),
		StyleParams: ooxml.StyleParams{
			Lang:        b.lang,
			DefaultFont: b.cfg.BodyFont,
			BodySize:    b.cfg.BodyFontSize,
		},
		TocEntries: body.toc.Entries(),
	}

	docXML := ooxml.NewDocumentXML()
	docXML.Elements = elements
	docXML.PageGeometry = b.cfg.PageGeometry()
	if body.coverIdx >= 0 {
		// Page numbering restarts after the front matter section.
		docXML.PageNumStart = 1
	}

	if err := b.attachHeadersFooters(result, docXML, body.coverIdx >= 0); err != nil {
		return nil, err
	}

	if b.cfg.FontDir != "" {
		fonts, err := LoadFonts(b.cfg.resolvePath(b.cfg.FontDir), b.alloc)
		if err != nil {
			return nil, err
		}
		result.Fonts = fonts
		for _, f := range fonts {
			result.StyleParams.EmbeddedFonts = append(result.StyleParams.EmbeddedFonts, f.Family)
		}
	}

	b.collectRelationships(result)

	if GetGlobalConfig().StrictMode && len(b.issues) > 0 {
		return nil, NewDocumentError("build", "",
			fmt.Errorf("%d content error(s) in strict mode; first: %s", len(b.issues), b.issues[0]))
	}

	result.Document = docXML
	return result, nil
}

func languageName(l Language) string {
	if l == Thai {
		return "th"
	}
	return "en"
}

// attachHeadersFooters synthesizes header/footer parts and wires the
// section references: slot 1 is the default part, slot 2 the
// first-page part, slot 3 the suppression part used by the front
// matter section.
func (b *Builder) attachHeadersFooters(result *BuildResult, doc *ooxml.DocumentXML, hasCover bool) error {
	title := b.cfg.Title
	addHeader := func(cfg ooxml.HeaderFooterConfig) HeaderFooterPart {
		part := HeaderFooterPart{
			Filename: nextPartName(result.Headers, "header"),
			RelID:    b.alloc.NextID(),
			Data:     ooxml.HeaderXML(cfg, title),
		}
		result.Headers = append(result.Headers, part)
		return part
	}
	addFooter := func(cfg ooxml.HeaderFooterConfig) HeaderFooterPart {
		part := HeaderFooterPart{
			Filename: nextPartName(result.Footers, "footer"),
			RelID:    b.alloc.NextID(),
			Data:     ooxml.FooterXML(cfg, title),
		}
		result.Footers = append(result.Footers, part)
		return part
	}

	switch {
	case b.cfg.TemplatePath != "":
		tpl, err := LoadHeaderFooterTemplate(b.cfg.resolvePath(b.cfg.TemplatePath), b.templateData(), b.alloc)
		if err != nil {
			return err
		}
		result.Headers = tpl.Headers
		result.Footers = tpl.Footers
		result.TemplateMedia = tpl.Media

		// Part 1 is the default; part 2, when the template carries one,
		// is the first-page variant.
		if len(tpl.Headers) > 0 {
			doc.HeaderRefs = append(doc.HeaderRefs, ooxml.HeaderFooterRef{Type: "default", RelID: tpl.Headers[0].RelID})
		}
		if len(tpl.Footers) > 0 {
			doc.FooterRefs = append(doc.FooterRefs, ooxml.HeaderFooterRef{Type: "default", RelID: tpl.Footers[0].RelID})
		}
		if len(tpl.Headers) > 1 {
			doc.HeaderRefs = append(doc.HeaderRefs, ooxml.HeaderFooterRef{Type: "first", RelID: tpl.Headers[1].RelID})
			doc.TitlePage = true
		}
		if len(tpl.Footers) > 1 {
			doc.FooterRefs = append(doc.FooterRefs, ooxml.HeaderFooterRef{Type: "first", RelID: tpl.Footers[1].RelID})
			doc.TitlePage = true
		}

	case b.cfg.Header != nil || b.cfg.Footer != nil:
		if b.cfg.Header != nil {
			def := addHeader(b.cfg.Header.headerConfig())
			doc.HeaderRefs = append(doc.HeaderRefs, ooxml.HeaderFooterRef{Type: "default", RelID: def.RelID})
			if b.cfg.DifferentFirstPage {
				first := addHeader(ooxml.EmptyHeaderFooter())
				doc.HeaderRefs = append(doc.HeaderRefs, ooxml.HeaderFooterRef{Type: "first", RelID: first.RelID})
				doc.TitlePage = true
			}
		}
		if b.cfg.Footer != nil {
			def := addFooter(b.cfg.Footer.headerConfig())
			doc.FooterRefs = append(doc.FooterRefs, ooxml.HeaderFooterRef{Type: "default", RelID: def.RelID})
			if b.cfg.DifferentFirstPage {
				first := addFooter(ooxml.EmptyHeaderFooter())
				doc.FooterRefs = append(doc.FooterRefs, ooxml.HeaderFooterRef{Type: "first", RelID: first.RelID})
				doc.TitlePage = true
			}
		}

	default:
		return nil
	}

	// Front matter before the cover boundary gets empty suppression
	// parts so the cover and TOC pages stay chrome-free, on both the
	// template path and the flat path.
	if hasCover {
		var supHeader, supFooter *HeaderFooterPart
		if len(result.Headers) > 0 {
			p := addHeader(ooxml.EmptyHeaderFooter())
			supHeader = &p
		}
		if len(result.Footers) > 0 {
			p := addFooter(ooxml.EmptyHeaderFooter())
			supFooter = &p
		}
		for _, el := range doc.Elements {
			p, ok := el.(*ooxml.Paragraph)
			if !ok || p.SectionBreak == "" || !p.SuppressRefs {
				continue
			}
			if supHeader != nil {
				p.HeaderRefs = append(p.HeaderRefs, ooxml.HeaderFooterRef{Type: "default", RelID: supHeader.RelID})
			}
			if supFooter != nil {
				p.FooterRefs = append(p.FooterRefs, ooxml.HeaderFooterRef{Type: "default", RelID: supFooter.RelID})
			}
			p.PageGeometry = b.cfg.PageGeometry()
		}
	}
	return nil
}

// nextPartName picks the first headerN.xml/footerN.xml name not already
// taken, so synthesized parts never shadow parts lifted from a template.
func nextPartName(parts []HeaderFooterPart, prefix string) string {
	used := make(map[string]bool, len(parts))
	for _, p := range parts {
		used[p.Filename] = true
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d.xml", prefix, i)
		if !used[name] {
			return name
		}
	}
}

// collectRelationships fills the document relationships part from
// every dynamic consumer.
func (b *Builder) collectRelationships(result *BuildResult) {
	rels := result.DocRels

	for _, img := range result.Images {
		rels.Add(ooxml.Relationship{ID: img.RelID, Type: ooxml.RelTypeImage, Target: img.Target})
	}
	for _, rel := range b.links.Relationships() {
		rels.Add(rel)
	}
	for _, h := range result.Headers {
		rels.Add(ooxml.Relationship{ID: h.RelID, Type: ooxml.RelTypeHeader, Target: h.Filename})
	}
	for _, f := range result.Footers {
		rels.Add(ooxml.Relationship{ID: f.RelID, Type: ooxml.RelTypeFooter, Target: f.Filename})
	}
	if !b.footnotes.IsEmpty() {
		rels.Add(ooxml.Relationship{ID: b.alloc.NextID(), Type: ooxml.RelTypeFootnotes, Target: "footnotes.xml"})
	}
	if len(result.Numbering) > 0 {
		rels.Add(ooxml.Relationship{ID: b.alloc.NextID(), Type: ooxml.RelTypeNumbering, Target: "numbering.xml"})
	}
}

func (b *Builder) templateData() TemplateData {
	return TemplateData{
		Title:    b.cfg.Title,
		Subtitle: b.cfg.Subtitle,
		Author:   b.cfg.Author,
		Date:     b.cfg.Date,
	}
}

// listContinuation remembers the last emitted list for the
// continuation rule.
type listContinuation struct {
	valid   bool
	numID   int
	ordered bool
	index   int
}

// scope is the per-part assembly state. The body and each footnote
// get their own scope; the relationship allocator, image tracker and
// hyperlink tracker are shared through the Builder so package-wide
// uniqueness holds everywhere. Numbering, TOC, cross-reference and
// bookmark state is scope-local: a footnote scope gets a fresh,
// disposable copy of each, so footnote content never consumes the
// body's numbering instances or bookmark identifiers.
type scope struct {
	b          *Builder
	xref       *CrossRefRegistry
	toc        *TocCollector
	numbering  *NumberingRegistry
	inFootnote bool
	fontStack  []string

	elements    []ooxml.DocElement
	coverIdx    int // element index just past the cover boundary, -1 if none
	lastList    listContinuation
	sawBreak    bool
	bookmarkSeq int
	prevBlock   Block
}

func (b *Builder) newScope(inFootnote bool) *scope {
	numbering := b.numbering
	if inFootnote {
		numbering = NewNumberingRegistry()
	}
	return &scope{
		b:          b,
		xref:       NewCrossRefRegistry(b.lang),
		toc:        NewTocCollector(),
		numbering:  numbering,
		inFootnote: inFootnote,
		coverIdx:   -1,
	}
}

func (s *scope) emit(el ooxml.DocElement) {
	s.elements = append(s.elements, el)
}

func (s *scope) nextBookmarkID() int {
	s.bookmarkSeq++
	return s.bookmarkSeq
}

func (s *scope) currentFont() string {
	if len(s.fontStack) == 0 {
		return ""
	}
	return s.fontStack[len(s.fontStack)-1]
}

// convertBlocks walks a block sequence in order, applying the
// inter-block rules (blank line before headings, list continuation,
// cover boundary detection).
func (s *scope) convertBlocks(blocks []Block) {
	for i, blk := range blocks {
		if h, ok := blk.(*Heading); ok {
			if _, prevHeading := s.prevBlock.(*Heading); s.prevBlock != nil && !prevHeading {
				s.emit(ooxml.NewParagraph())
			}
			s.convertHeading(h)
			s.prevBlock = blk
			continue
		}

		switch v := blk.(type) {
		case *ParagraphBlock:
			s.convertParagraph(v)
		case *CodeBlock:
			s.convertCode(v)
		case *BlockQuote:
			s.convertQuote(v, 1)
		case *List:
			s.convertList(v, blocks, i)
		case *TableBlock:
			s.convertTable(v)
		case *ImageBlock:
			s.convertImage(v)
		case *ThematicBreak:
			s.convertThematicBreak()
		case *MathBlock:
			s.convertMath(v)
		case *DiagramBlock:
			s.convertDiagram(v)
		case *FontGroup:
			s.fontStack = append(s.fontStack, v.Font)
			s.convertBlocks(v.Blocks)
			s.fontStack = s.fontStack[:len(s.fontStack)-1]
		case *RawBlock:
			s.emit(ooxml.RawXML(v.XML))
		}
		s.prevBlock = blk
	}
}

func headingStyle(level int) string {
	if level > 4 {
		level = 4
	}
	return fmt.Sprintf("Heading%d", level)
}

func (s *scope) convertHeading(h *Heading) {
	text := InlineText(h.Content)
	tocBookmark := s.toc.AddHeading(h.Level, text, h.Anchor)

	p := ooxml.WithStyle(headingStyle(h.Level))
	p.WithBookmark(s.nextBookmarkID(), tocBookmark)

	if h.Level == 1 {
		a := s.xref.RegisterChapter(h.Anchor, text, h.Appendix)
		if h.Anchor != "" {
			p.WithBookmark(s.nextBookmarkID(), a.Bookmark)
		}
	} else if h.Anchor != "" {
		p.WithBookmark(s.nextBookmarkID(), bookmarkName(h.Anchor))
	}

	p.Children = append(p.Children, s.inlineChildren(h.Content, runFormat{})...)
	s.emit(p)
}

func (s *scope) convertParagraph(pb *ParagraphBlock) {
	p := ooxml.WithStyle("BodyText")
	p.Children = append(p.Children, s.inlineChildren(pb.Content, runFormat{})...)
	s.emit(p)
}

func (s *scope) convertCode(cb *CodeBlock) {
	if cb.Filename != "" {
		fp := ooxml.WithStyle("CodeFilename")
		fp.AddText(cb.Filename)
		s.emit(fp)
	}
	lines := strings.Split(cb.Text, "\n")
	for _, line := range lines {
		p := ooxml.WithStyle("Code")
		if line != "" {
			p.AddRun(ooxml.Run{Text: line, PreserveSpace: true})
		}
		s.emit(p)
	}
}

func (s *scope) convertQuote(q *BlockQuote, depth int) {
	for _, blk := range q.Blocks {
		switch v := blk.(type) {
		case *BlockQuote:
			s.convertQuote(v, depth+1)
		case *ParagraphBlock:
			p := ooxml.WithStyle("Quote")
			p.IndentLeft = depth * 720
			p.Children = append(p.Children, s.inlineChildren(v.Content, runFormat{})...)
			s.emit(p)
		default:
			// Non-paragraph content inside a quote renders at quote
			// indentation where the element supports it; otherwise
			// it renders as-is.
			before := len(s.elements)
			s.convertBlocks([]Block{blk})
			for _, el := range s.elements[before:] {
				if p, ok := el.(*ooxml.Paragraph); ok {
					p.IndentLeft += depth * 720
				}
			}
		}
	}
}

// intervening reports whether every block in blocks[from+1:to] is a
// kind the list continuation rule tolerates.
func interveningContinuable(blocks []Block, from, to int) bool {
	for i := from + 1; i < to; i++ {
		switch blocks[i].(type) {
		case *CodeBlock, *BlockQuote, *TableBlock:
		default:
			return false
		}
	}
	return true
}

func (s *scope) convertList(list *List, siblings []Block, index int) {
	numID := 0
	cont := s.lastList
	if cont.valid && cont.ordered == list.Ordered &&
		index-cont.index <= 2 &&
		interveningContinuable(siblings, cont.index, index) {
		numID = cont.numID
	} else {
		numID = s.numbering.AddList(list.Ordered)
	}
	s.lastList = listContinuation{valid: true, numID: numID, ordered: list.Ordered, index: index}

	s.convertListItems(list, numID, 0)
}

func (s *scope) convertListItems(list *List, numID, level int) {
	for _, item := range list.Items {
		p := ooxml.WithStyle("ListParagraph")
		p.Numbered(numID, level)
		p.Children = append(p.Children, s.inlineChildren(item.Content, runFormat{})...)
		s.emit(p)

		for _, blk := range item.Blocks {
			if nested, ok := blk.(*List); ok {
				// Nested lists share the instance so deeper levels
				// pick up the level formats of the same definition.
				s.convertListItems(nested, numID, level+1)
			} else {
				s.convertBlocks([]Block{blk})
			}
		}
	}
}

func (s *scope) convertTable(t *TableBlock) {
	if len(t.Caption) > 0 || t.Anchor != "" {
		a := s.xref.RegisterTable(t.Anchor)
		caption := ooxml.WithStyle("Caption")
		if t.Anchor != "" {
			caption.WithBookmark(s.nextBookmarkID(), a.Bookmark)
		}
		capText := s.xref.CaptionPrefix(a)
		if len(t.Caption) > 0 {
			capText += ": " + InlineText(t.Caption)
		}
		caption.AddText(capText)
		s.emit(caption)
	}

	tbl := ooxml.NewTable()
	tbl.Width = ooxml.PctWidth(5000)
	tbl.HeaderRow = len(t.Headers) > 0

	if len(t.Headers) > 0 {
		row := ooxml.NewTableRow().Header()
		for col, cell := range t.Headers {
			row = row.AddCell(s.tableCell(cell, t.alignment(col), true))
		}
		tbl.AddRow(row)
	}
	for _, r := range t.Rows {
		row := ooxml.NewTableRow()
		for col, cell := range r {
			row = row.AddCell(s.tableCell(cell, t.alignment(col), false))
		}
		tbl.AddRow(row)
	}
	s.emit(tbl)
}

func (t *TableBlock) alignment(col int) string {
	if col < len(t.Alignments) {
		return t.Alignments[col]
	}
	return ""
}

func (s *scope) tableCell(c TableCellContent, align string, header bool) ooxml.TableCell {
	p := ooxml.NewParagraph()
	if align != "" {
		p.Alignment = align
	}
	fmtFlags := runFormat{}
	if header {
		fmtFlags.bold = true
	}
	p.Children = append(p.Children, s.inlineChildren(c.Content, fmtFlags)...)

	cell := ooxml.NewTableCell().AddParagraph(p)
	if header {
		cell.Shading = "D9D9D9"
	}
	return cell
}

func (s *scope) convertImage(ib *ImageBlock) {
	img, err := s.b.images.AddImage(s.b.cfg.resolvePath(ib.Path), ib.Width)
	if err != nil {
		s.b.contentIssue("image %s failed, rendering alt text: %v", ib.Path, err)
		p := ooxml.WithStyle("BodyText")
		alt := ib.Alt
		if alt == "" {
			alt = ib.Path
		}
		p.AddText("[" + alt + "]")
		s.emit(p)
		return
	}

	s.docPrNext()
	el := ooxml.NewImage(img.RelID, img.WidthEMU, img.HeightEMU)
	el.AltText = ib.Alt
	el.Name = fmt.Sprintf("Picture %d", s.b.docPrSeq)
	el.DocPrID = s.b.docPrSeq
	s.emit(el)

	if len(ib.Caption) > 0 || ib.Anchor != "" {
		a := s.xref.RegisterFigure(ib.Anchor)
		caption := ooxml.WithStyle("Caption")
		caption.Alignment = "center"
		if ib.Anchor != "" {
			caption.WithBookmark(s.nextBookmarkID(), a.Bookmark)
		}
		capText := s.xref.CaptionPrefix(a)
		if len(ib.Caption) > 0 {
			capText += ": " + InlineText(ib.Caption)
		}
		caption.AddText(capText)
		s.emit(caption)
	}
}

func (s *scope) docPrNext() {
	s.b.docPrSeq++
}

// convertThematicBreak renders the cover boundary as a page-ending
// section break the first time, and a horizontal rule afterwards.
func (s *scope) convertThematicBreak() {
	if !s.inFootnote && !s.sawBreak {
		s.sawBreak = true
		s.toc.MarkBoundary()
		p := ooxml.NewParagraph()
		p.SectionBreak = "nextPage"
		p.SuppressRefs = true
		p.PageGeometry = s.b.cfg.PageGeometry()
		s.emit(p)
		s.coverIdx = len(s.elements)
		return
	}
	s.emit(ooxml.HorizontalRule())
}

func (s *scope) convertMath(m *MathBlock) {
	numbered := m.Label != "" || s.b.cfg.NumberAllEquations
	var a Anchor
	if numbered {
		a = s.xref.RegisterEquation(m.Label)
	}

	mode := s.b.cfg.MathMode
	if mode == MathModeImage {
		// No rasterizer is wired; structural conversion is the
		// fallback chain's next step.
		Debug("math mode image unavailable, using structural conversion")
		mode = MathModeOMML
	}

	if mode == MathModeOMML {
		omml, err := s.b.math.RenderOMML(m.TeX)
		if err == nil {
			p := ooxml.NewParagraph()
			p.Alignment = "center"
			if numbered && m.Label != "" {
				p.WithBookmark(s.nextBookmarkID(), a.Bookmark)
			}
			p.AddRun(ooxml.Run{RawOMML: omml})
			if numbered {
				p.AddRun(ooxml.Run{Tab: true})
				p.AddRun(ooxml.Run{Text: "(" + a.Number + ")"})
			}
			s.emit(p)
			return
		}
		s.b.contentIssue("math block failed, rendering literal: %v", err)
	}

	p := ooxml.WithStyle("Code")
	p.AddRun(ooxml.Run{Text: LiteralMathText(m.TeX), PreserveSpace: true})
	s.emit(p)
}

func (s *scope) convertDiagram(d *DiagramBlock) {
	if s.b.diagrams != nil {
		data, err := s.b.diagrams.Render(context.Background(), d.Kind, d.Source)
		if err == nil {
			img, aerr := s.b.images.AddImageData(data, "png", s.b.cfg.DiagramScale)
			if aerr == nil {
				s.docPrNext()
				el := ooxml.NewImage(img.RelID, img.WidthEMU, img.HeightEMU)
				el.Name = fmt.Sprintf("Diagram %d", s.b.docPrSeq)
				el.DocPrID = s.b.docPrSeq
				s.emit(el)
				return
			}
			err = aerr
		}
		s.b.contentIssue("diagram render failed, falling back to code block: %v", err)
	}
	s.convertCode(&CodeBlock{Language: d.Kind, Text: d.Source})
}

// runFormat carries inherited inline formatting.
type runFormat struct {
	bold   bool
	italic bool
	strike bool
}

// inlineChildren converts inline nodes to paragraph children, applying
// inherited formatting and the active font override.
func (s *scope) inlineChildren(content []Inline, f runFormat) []ooxml.ParagraphChild {
	var out []ooxml.ParagraphChild
	for _, in := range content {
		switch v := in.(type) {
		case *TextSpan:
			out = append(out, s.styledRun(v.Text, f))
		case *StrongSpan:
			nf := f
			nf.bold = true
			out = append(out, s.inlineChildren(v.Content, nf)...)
		case *EmphSpan:
			nf := f
			nf.italic = true
			out = append(out, s.inlineChildren(v.Content, nf)...)
		case *StrikeSpan:
			nf := f
			nf.strike = true
			out = append(out, s.inlineChildren(v.Content, nf)...)
		case *CodeSpan:
			r := s.styledRun(v.Text, f)
			r.Style = "CodeChar"
			r.PreserveSpace = true
			out = append(out, r)
		case *BreakSpan:
			out = append(out, ooxml.Run{Break: true})
		case *LinkSpan:
			relID := s.b.links.Add(v.URL)
			var runs []ooxml.Run
			for _, child := range s.inlineChildren(v.Content, f) {
				if r, ok := child.(ooxml.Run); ok {
					r.Style = "Hyperlink"
					runs = append(runs, r)
				}
			}
			out = append(out, ooxml.Hyperlink{RelID: relID, Runs: runs})
		case *MathSpan:
			omml, err := s.b.math.RenderOMML(v.TeX)
			if err != nil {
				s.b.contentIssue("inline math failed, rendering literal: %v", err)
				r := s.styledRun(v.TeX, f)
				r.Style = "CodeChar"
				out = append(out, r)
			} else {
				out = append(out, ooxml.Run{RawOMML: omml})
			}
		case *CrossRefSpan:
			out = append(out, s.crossRef(v, f))
		case *FootnoteRefSpan:
			out = append(out, s.footnoteRef(v)...)
		}
	}
	return out
}

func (s *scope) styledRun(text string, f runFormat) ooxml.Run {
	r := ooxml.Run{Text: text, Bold: f.bold, Italic: f.italic, Strike: f.strike}
	if font := s.currentFont(); font != "" {
		r.Font = font
	}
	if strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") {
		r.PreserveSpace = true
	}
	return r
}

// crossRef resolves {ref:target}: a registered target becomes an
// internal hyperlink with localized display text; an unknown target
// renders as a bracketed placeholder.
func (s *scope) crossRef(x *CrossRefSpan, f runFormat) ooxml.ParagraphChild {
	a, ok := s.xref.Resolve(x.Target)
	if !ok {
		s.b.contentIssue("unresolved cross-reference %q", x.Target)
		return s.styledRun(FallbackText(x.Target), f)
	}
	r := s.styledRun(s.xref.DisplayText(a), f)
	return ooxml.Hyperlink{Anchor: a.Bookmark, Runs: []ooxml.Run{r}}
}

// footnoteRef assembles a footnote definition in an isolated scope and
// emits the reference marker. Footnote scopes get a fresh, disposable
// copy of the numbering, TOC, cross-reference and bookmark state, so a
// list inside a footnote never advances the body's numbering instance
// counter; only the relationship allocator, image tracker and
// hyperlink tracker are shared.
func (s *scope) footnoteRef(ref *FootnoteRefSpan) []ooxml.ParagraphChild {
	def, ok := s.b.footnoteDefs[ref.ID]
	if !ok || s.inFootnote {
		if s.inFootnote {
			Warn("footnote reference %q inside a footnote, rendering literally", ref.ID)
		} else {
			s.b.contentIssue("undefined footnote %q", ref.ID)
		}
		return []ooxml.ParagraphChild{ooxml.Run{Text: "[^" + ref.ID + "]"}}
	}

	fnScope := s.b.newScope(true)
	fnScope.convertBlocks(def)

	var paras []*ooxml.Paragraph
	for _, el := range fnScope.elements {
		if p, ok := el.(*ooxml.Paragraph); ok {
			paras = append(paras, p)
		} else {
			Warn("dropping non-paragraph content from footnote %q", ref.ID)
		}
	}

	// Trim trailing empty paragraphs.
	for len(paras) > 0 && paras[len(paras)-1].IsEmpty() {
		paras = paras[:len(paras)-1]
	}
	if len(paras) == 0 {
		paras = append(paras, ooxml.NewParagraph())
	}

	for _, p := range paras {
		p.StyleID = "FootnoteText"
	}

	// The first paragraph opens with the footnote's own reference mark.
	first := paras[0]
	marker := []ooxml.ParagraphChild{
		ooxml.Run{FootnoteRef: true},
		ooxml.Run{Text: " ", PreserveSpace: true},
	}
	first.Children = append(marker, first.Children...)

	id := s.b.footnotes.Add(paras)
	return []ooxml.ParagraphChild{ooxml.Run{FootnoteID: id}}
}
