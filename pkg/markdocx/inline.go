package markdocx

import "strings"

// parseInlines converts span-level Markdown to inline nodes: strong,
// emphasis, strikethrough, inline code, links, footnote references,
// inline math and {ref:...} cross-references. Delimiters without a
// closing partner fall through as literal text.
func parseInlines(text string) []Inline {
	var out []Inline
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, &TextSpan{Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		rest := text[i:]
		switch {
		case text[i] == '\\' && i+1 < len(text):
			plain.WriteByte(text[i+1])
			i += 2

		case strings.HasPrefix(rest, "**"):
			if end := findCloser(rest[2:], "**"); end >= 0 {
				flush()
				out = append(out, &StrongSpan{Content: parseInlines(rest[2 : 2+end])})
				i += 2 + end + 2
			} else {
				plain.WriteString("**")
				i += 2
			}

		case strings.HasPrefix(rest, "~~"):
			if end := findCloser(rest[2:], "~~"); end >= 0 {
				flush()
				out = append(out, &StrikeSpan{Content: parseInlines(rest[2 : 2+end])})
				i += 2 + end + 2
			} else {
				plain.WriteString("~~")
				i += 2
			}

		case text[i] == '*':
			if end := findCloser(rest[1:], "*"); end >= 0 {
				flush()
				out = append(out, &EmphSpan{Content: parseInlines(rest[1 : 1+end])})
				i += 1 + end + 1
			} else {
				plain.WriteByte('*')
				i++
			}

		case text[i] == '`':
			if end := strings.IndexByte(rest[1:], '`'); end >= 0 {
				flush()
				out = append(out, &CodeSpan{Text: rest[1 : 1+end]})
				i += 1 + end + 1
			} else {
				plain.WriteByte('`')
				i++
			}

		case text[i] == '$':
			if end := strings.IndexByte(rest[1:], '$'); end > 0 {
				flush()
				out = append(out, &MathSpan{TeX: rest[1 : 1+end]})
				i += 1 + end + 1
			} else {
				plain.WriteByte('$')
				i++
			}

		case strings.HasPrefix(rest, "[^"):
			if end := strings.IndexByte(rest, ']'); end > 2 {
				flush()
				out = append(out, &FootnoteRefSpan{ID: rest[2:end]})
				i += end + 1
			} else {
				plain.WriteByte('[')
				i++
			}

		case strings.HasPrefix(rest, "{ref:"):
			if end := strings.IndexByte(rest, '}'); end > 5 {
				flush()
				out = append(out, &CrossRefSpan{Target: rest[5:end]})
				i += end + 1
			} else {
				plain.WriteByte('{')
				i++
			}

		case text[i] == '[':
			if content, url, consumed, ok := parseLink(rest); ok {
				flush()
				out = append(out, &LinkSpan{Content: parseInlines(content), URL: url})
				i += consumed
			} else {
				plain.WriteByte('[')
				i++
			}

		default:
			plain.WriteByte(text[i])
			i++
		}
	}
	flush()
	return out
}

// findCloser locates a closing delimiter that has content before it.
func findCloser(s, delim string) int {
	idx := strings.Index(s, delim)
	if idx <= 0 {
		return -1
	}
	return idx
}

// parseLink matches [text](url) at the start of s.
func parseLink(s string) (content, url string, consumed int, ok bool) {
	depth := 0
	closeBracket := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				closeBracket = i
			}
		}
		if closeBracket >= 0 {
			break
		}
	}
	if closeBracket < 0 || closeBracket+1 >= len(s) || s[closeBracket+1] != '(' {
		return "", "", 0, false
	}
	closeParen := strings.IndexByte(s[closeBracket+2:], ')')
	if closeParen < 0 {
		return "", "", 0, false
	}
	content = s[1:closeBracket]
	url = s[closeBracket+2 : closeBracket+2+closeParen]
	return content, url, closeBracket + 2 + closeParen + 1, true
}
