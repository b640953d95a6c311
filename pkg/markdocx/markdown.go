package markdocx

import (
	"regexp"
	"strings"
)

// ParseMarkdown parses Markdown source into the document tree. The
// dialect is the practical subset the assembly stage consumes:
// headings with {#id} attributes, paragraphs, fenced code blocks with
// language:filename info strings, block quotes, nested lists, pipe
// tables with captions, standalone images, thematic breaks, display
// math, mermaid fences, footnote definitions and font group
// directives. Full CommonMark compliance is out of scope.
func ParseMarkdown(src string) (*ParsedDocument, error) {
	cfg, body, err := ExtractFrontmatter(src)
	if err != nil {
		return nil, err
	}

	p := &mdParser{
		lines:     strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n"),
		footnotes: make(map[string][]Block),
	}
	blocks, err := p.parseBlocks(func(string) bool { return false })
	if err != nil {
		return nil, err
	}

	return &ParsedDocument{
		Config:    cfg,
		Blocks:    blocks,
		Footnotes: p.footnotes,
	}, nil
}

type mdParser struct {
	lines     []string
	pos       int
	footnotes map[string][]Block
}

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	attrRe        = regexp.MustCompile(`\s*\{([^{}]*)\}\s*$`)
	fenceRe       = regexp.MustCompile("^```\\s*(\\S*)\\s*$")
	thematicRe    = regexp.MustCompile(`^\s{0,3}((\*\s*){3,}|(-\s*){3,}|(_\s*){3,})$`)
	orderedItemRe = regexp.MustCompile(`^(\s*)(\d{1,9})[.)]\s+(.*)$`)
	bulletItemRe  = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	imageLineRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]+)\)\s*(\{[^{}]*\})?\s*$`)
	footnoteDefRe = regexp.MustCompile(`^\[\^([^\]]+)\]:\s*(.*)$`)
	fontOpenRe    = regexp.MustCompile(`^\{font:([^{}]+)\}\s*$`)
	captionRe     = regexp.MustCompile(`^(?:Table)?:\s+(.*?)\s*$`)
)

func (p *mdParser) peek() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	return p.lines[p.pos], true
}

// parseBlocks consumes blocks until EOF or a line matching stop. The
// stop line itself is not consumed.
func (p *mdParser) parseBlocks(stop func(string) bool) ([]Block, error) {
	var blocks []Block
	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		if stop(line) {
			break
		}
		if strings.TrimSpace(line) == "" {
			p.pos++
			continue
		}

		var (
			blk Block
			err error
		)
		switch {
		case thematicRe.MatchString(line):
			p.pos++
			blk = &ThematicBreak{}
		case headingRe.MatchString(line):
			blk = p.parseHeading()
		case fenceRe.MatchString(line):
			blk, err = p.parseFence()
		case strings.TrimSpace(line) == "$$":
			blk, err = p.parseMathBlock()
		case strings.HasPrefix(line, ">"):
			blk, err = p.parseBlockQuote()
		case imageLineRe.MatchString(line):
			blk = p.parseImage()
		case footnoteDefRe.MatchString(line):
			err = p.parseFootnoteDef()
		case fontOpenRe.MatchString(line):
			blk, err = p.parseFontGroup()
		case orderedItemRe.MatchString(line) || bulletItemRe.MatchString(line):
			blk, err = p.parseList(0)
		case strings.HasPrefix(strings.TrimSpace(line), "|"):
			blk = p.parseTable()
		default:
			blk = p.parseParagraph()
		}
		if err != nil {
			return nil, err
		}
		if blk != nil {
			blocks = append(blocks, blk)
		}
	}
	return blocks, nil
}

// splitAttrs removes a trailing {...} attribute block and returns the
// remaining text, the #id and whether the .appendix class is present.
func splitAttrs(text string) (rest, id string, appendix bool) {
	m := attrRe.FindStringSubmatch(text)
	if m == nil {
		return text, "", false
	}
	rest = strings.TrimSpace(text[:len(text)-len(m[0])])
	for _, tok := range strings.Fields(m[1]) {
		switch {
		case strings.HasPrefix(tok, "#"):
			id = tok[1:]
		case tok == ".appendix":
			appendix = true
		}
	}
	return rest, id, appendix
}

func (p *mdParser) parseHeading() Block {
	m := headingRe.FindStringSubmatch(p.lines[p.pos])
	p.pos++
	text, id, appendix := splitAttrs(m[2])
	return &Heading{
		Level:    len(m[1]),
		Content:  parseInlines(text),
		Anchor:   id,
		Appendix: appendix,
	}
}

// parseFence handles ``` blocks: code (with optional lang:filename
// info), mermaid diagrams, and raw WordprocessingML passthrough.
func (p *mdParser) parseFence() (Block, error) {
	m := fenceRe.FindStringSubmatch(p.lines[p.pos])
	info := m[1]
	start := p.pos
	p.pos++

	var body []string
	for {
		line, ok := p.peek()
		if !ok {
			return nil, NewParseError(start+1, "unclosed code fence")
		}
		p.pos++
		if strings.TrimSpace(line) == "```" {
			break
		}
		body = append(body, line)
	}
	text := strings.Join(body, "\n")

	switch {
	case info == "mermaid":
		return &DiagramBlock{Kind: "mermaid", Source: text}, nil
	case info == "raw-ooxml":
		return &RawBlock{XML: text}, nil
	default:
		lang, filename := info, ""
		if i := strings.IndexByte(info, ':'); i >= 0 {
			lang, filename = info[:i], info[i+1:]
		}
		return &CodeBlock{Language: lang, Filename: filename, Text: text}, nil
	}
}

// parseMathBlock reads a $$ ... $$ display block. A \label{id} inside
// the TeX registers the equation for cross-referencing.
var mathLabelRe = regexp.MustCompile(`\\label\{([^{}]+)\}`)

func (p *mdParser) parseMathBlock() (Block, error) {
	start := p.pos
	p.pos++
	var body []string
	for {
		line, ok := p.peek()
		if !ok {
			return nil, NewParseError(start+1, "unclosed math block")
		}
		p.pos++
		if strings.TrimSpace(line) == "$$" {
			break
		}
		body = append(body, line)
	}

	tex := strings.Join(body, "\n")
	label := ""
	if m := mathLabelRe.FindStringSubmatch(tex); m != nil {
		label = m[1]
		tex = mathLabelRe.ReplaceAllString(tex, "")
	}
	return &MathBlock{TeX: strings.TrimSpace(tex), Label: label}, nil
}

func (p *mdParser) parseBlockQuote() (Block, error) {
	var inner []string
	for {
		line, ok := p.peek()
		if !ok || !strings.HasPrefix(line, ">") {
			break
		}
		p.pos++
		s := strings.TrimPrefix(line, ">")
		s = strings.TrimPrefix(s, " ")
		inner = append(inner, s)
	}

	sub := &mdParser{lines: inner, footnotes: p.footnotes}
	blocks, err := sub.parseBlocks(func(string) bool { return false })
	if err != nil {
		return nil, err
	}
	return &BlockQuote{Blocks: blocks}, nil
}

func (p *mdParser) parseImage() Block {
	m := imageLineRe.FindStringSubmatch(p.lines[p.pos])
	p.pos++

	img := &ImageBlock{Alt: m[1], Path: m[2]}
	if m[3] != "" {
		for _, tok := range strings.Fields(strings.Trim(m[3], "{}")) {
			switch {
			case strings.HasPrefix(tok, "#"):
				img.Anchor = tok[1:]
			case strings.HasPrefix(tok, "width="):
				img.Width = strings.TrimPrefix(tok, "width=")
			}
		}
	}
	if img.Alt != "" {
		img.Caption = parseInlines(img.Alt)
	}
	return img
}

// parseFootnoteDef reads a [^id]: definition plus its indented
// continuation lines and stores it on the parser.
func (p *mdParser) parseFootnoteDef() error {
	m := footnoteDefRe.FindStringSubmatch(p.lines[p.pos])
	p.pos++
	id := m[1]

	inner := []string{m[2]}
	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			// A blank line ends the definition unless the next line is
			// still indented.
			next := p.pos + 1
			if next < len(p.lines) && strings.HasPrefix(p.lines[next], "    ") {
				inner = append(inner, "")
				p.pos++
				continue
			}
			break
		}
		if !strings.HasPrefix(line, "    ") {
			break
		}
		inner = append(inner, strings.TrimPrefix(line, "    "))
		p.pos++
	}

	sub := &mdParser{lines: inner, footnotes: p.footnotes}
	blocks, err := sub.parseBlocks(func(string) bool { return false })
	if err != nil {
		return err
	}
	p.footnotes[id] = blocks
	return nil
}

func (p *mdParser) parseFontGroup() (Block, error) {
	m := fontOpenRe.FindStringSubmatch(p.lines[p.pos])
	start := p.pos
	p.pos++

	blocks, err := p.parseBlocks(func(line string) bool {
		return strings.TrimSpace(line) == "{/font}"
	})
	if err != nil {
		return nil, err
	}
	if _, ok := p.peek(); !ok {
		return nil, NewParseError(start+1, "unclosed font group")
	}
	p.pos++ // consume {/font}
	return &FontGroup{Font: strings.TrimSpace(m[1]), Blocks: blocks}, nil
}

// listItemLine matches either marker form and reports indent, ordered
// and content.
func listItemLine(line string) (indent int, ordered bool, content string, ok bool) {
	if m := orderedItemRe.FindStringSubmatch(line); m != nil {
		return len(m[1]), true, m[3], true
	}
	if m := bulletItemRe.FindStringSubmatch(line); m != nil {
		return len(m[1]), false, m[2], true
	}
	return 0, false, "", false
}

// parseList reads a list whose items are indented at the given level.
// Deeper items become nested lists inside the previous item.
func (p *mdParser) parseList(indent int) (Block, error) {
	line, _ := p.peek()
	_, ordered, _, _ := listItemLine(line)
	list := &List{Ordered: ordered}

	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			// Blank line inside a list only ends it when the next
			// non-blank line is not a list item.
			next := p.pos + 1
			for next < len(p.lines) && strings.TrimSpace(p.lines[next]) == "" {
				next++
			}
			if next < len(p.lines) {
				if _, _, _, isItem := listItemLine(p.lines[next]); isItem {
					p.pos = next
					continue
				}
			}
			break
		}

		ind, ord, content, isItem := listItemLine(line)
		if !isItem {
			break
		}
		if ind < indent {
			break
		}
		if ind > indent {
			// Nested list attaches to the last item.
			if len(list.Items) == 0 {
				// Malformed leading indent: treat as this level.
				ind = indent
			} else {
				nested, err := p.parseList(ind)
				if err != nil {
					return nil, err
				}
				last := &list.Items[len(list.Items)-1]
				last.Blocks = append(last.Blocks, nested)
				continue
			}
		}
		if ord != list.Ordered {
			// Marker kind switch at the same level starts a new list.
			break
		}

		p.pos++
		list.Items = append(list.Items, ListItem{Content: parseInlines(content)})
	}
	return list, nil
}

// parseTable reads a pipe table plus an optional caption line
// (": caption {#tbl:id}" or "Table: caption {#tbl:id}").
func (p *mdParser) parseTable() Block {
	var rows [][]TableCellContent
	var alignments []string

	for {
		line, ok := p.peek()
		if !ok || !strings.HasPrefix(strings.TrimSpace(line), "|") {
			break
		}
		p.pos++
		trimmed := strings.TrimSpace(line)

		if isTableSeparator(trimmed) {
			alignments = parseAlignments(trimmed)
			continue
		}
		rows = append(rows, splitTableRow(trimmed))
	}

	tbl := &TableBlock{Alignments: alignments}
	if len(rows) > 0 {
		tbl.Headers = rows[0]
		tbl.Rows = rows[1:]
	}

	// Optional caption directly after the table.
	if line, ok := p.peek(); ok {
		if m := captionRe.FindStringSubmatch(line); m != nil {
			p.pos++
			text, id, _ := splitAttrs(m[1])
			tbl.Caption = parseInlines(text)
			tbl.Anchor = id
		}
	}
	return tbl
}

func isTableSeparator(line string) bool {
	s := strings.Trim(line, "| ")
	if s == "" {
		return false
	}
	for _, cell := range strings.Split(s, "|") {
		c := strings.TrimSpace(cell)
		if c == "" {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' && r != ' ' {
				return false
			}
		}
	}
	return true
}

func parseAlignments(line string) []string {
	var out []string
	for _, cell := range splitPipes(line) {
		c := strings.TrimSpace(cell)
		switch {
		case strings.HasPrefix(c, ":") && strings.HasSuffix(c, ":"):
			out = append(out, "center")
		case strings.HasSuffix(c, ":"):
			out = append(out, "right")
		case strings.HasPrefix(c, ":"):
			out = append(out, "left")
		default:
			out = append(out, "")
		}
	}
	return out
}

func splitTableRow(line string) []TableCellContent {
	var out []TableCellContent
	for _, cell := range splitPipes(line) {
		out = append(out, TableCellContent{Content: parseInlines(strings.TrimSpace(cell))})
	}
	return out
}

// splitPipes splits on unescaped pipes, dropping the outer empties
// produced by leading/trailing delimiters.
func splitPipes(line string) []string {
	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			if r != '|' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, cur.String())

	// Leading and trailing pipes produce empty boundary cells.
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// paragraph terminators: lines that start a different block kind.
func isStructuralLine(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t == "$$" ||
		headingRe.MatchString(line) ||
		fenceRe.MatchString(line) ||
		thematicRe.MatchString(line) ||
		strings.HasPrefix(line, ">") ||
		imageLineRe.MatchString(line) ||
		footnoteDefRe.MatchString(line) ||
		fontOpenRe.MatchString(line) ||
		strings.HasPrefix(t, "|")
}

func (p *mdParser) parseParagraph() Block {
	var lines []string
	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		if len(lines) > 0 && isStructuralLine(line) {
			break
		}
		if _, _, _, isItem := listItemLine(line); isItem && len(lines) > 0 {
			break
		}
		p.pos++
		lines = append(lines, line)
		if strings.TrimSpace(line) == "" {
			break
		}
	}

	var content []Inline
	for i, line := range lines {
		if i > 0 {
			// Trailing double space forces a hard break; otherwise
			// lines join with a space.
			if strings.HasSuffix(lines[i-1], "  ") {
				content = append(content, &BreakSpan{})
			} else {
				content = append(content, &TextSpan{Text: " "})
			}
		}
		content = append(content, parseInlines(strings.TrimRight(line, " "))...)
	}
	return &ParagraphBlock{Content: content}
}
