package markdocx

import (
	"fmt"
	"strings"
)

// RefKind classifies a cross-referenceable anchor.
type RefKind int

const (
	RefFigure RefKind = iota
	RefTable
	RefEquation
	RefChapter
)

func (k RefKind) String() string {
	switch k {
	case RefFigure:
		return "figure"
	case RefTable:
		return "table"
	case RefEquation:
		return "equation"
	case RefChapter:
		return "chapter"
	default:
		return "unknown"
	}
}

// Anchor is one registered cross-reference target.
type Anchor struct {
	Kind     RefKind
	Bookmark string
	Number   string // "1.2" for captioned elements, "3" or "A" for chapters
	Title    string // chapter title, empty otherwise
}

// CrossRefRegistry assigns chapter-relative numbers to figures, tables
// and equations, and resolves reference targets to bookmarks and
// localized display text.
//
// Resolution is single-pass and appearance-order-sensitive: a target
// must be registered before it is referenced, otherwise the reference
// renders as a bracketed placeholder.
type CrossRefRegistry struct {
	lang Language

	chapter     int
	appendixIdx int // 0 means not in appendices yet
	figCount    int
	tblCount    int
	eqCount     int

	anchors map[string]Anchor
}

// NewCrossRefRegistry creates an empty registry for the given
// language.
func NewCrossRefRegistry(lang Language) *CrossRefRegistry {
	return &CrossRefRegistry{
		lang:    lang,
		anchors: make(map[string]Anchor),
	}
}

// bookmarkName derives the hidden bookmark for an anchor identifier.
func bookmarkName(id string) string {
	var b strings.Builder
	b.WriteString("_Ref_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// chapterLabel renders the current chapter component of a
// chapter-relative number ("3" or "A"). Empty before any chapter.
func (r *CrossRefRegistry) chapterLabel() string {
	if r.appendixIdx > 0 {
		return string(rune('A' + r.appendixIdx - 1))
	}
	if r.chapter > 0 {
		return fmt.Sprintf("%d", r.chapter)
	}
	return ""
}

func (r *CrossRefRegistry) relativeNumber(seq int) string {
	if label := r.chapterLabel(); label != "" {
		return fmt.Sprintf("%s.%d", label, seq)
	}
	return fmt.Sprintf("%d", seq)
}

// RegisterChapter records a level-1 heading. Per-chapter counters for
// figures, tables and equations reset. The returned anchor carries the
// chapter number or appendix letter.
func (r *CrossRefRegistry) RegisterChapter(id, title string, appendix bool) Anchor {
	if appendix {
		r.appendixIdx++
	} else {
		r.chapter++
	}
	r.figCount = 0
	r.tblCount = 0
	r.eqCount = 0

	a := Anchor{
		Kind:     RefChapter,
		Number:   r.chapterLabel(),
		Title:    title,
		Bookmark: bookmarkName(id),
	}
	if id != "" {
		r.anchors[id] = a
	}
	return a
}

// RegisterFigure assigns the next chapter-relative figure number.
func (r *CrossRefRegistry) RegisterFigure(id string) Anchor {
	r.figCount++
	return r.register(id, RefFigure, r.relativeNumber(r.figCount))
}

// RegisterTable assigns the next chapter-relative table number.
func (r *CrossRefRegistry) RegisterTable(id string) Anchor {
	r.tblCount++
	return r.register(id, RefTable, r.relativeNumber(r.tblCount))
}

// RegisterEquation assigns the next chapter-relative equation number.
func (r *CrossRefRegistry) RegisterEquation(id string) Anchor {
	r.eqCount++
	return r.register(id, RefEquation, r.relativeNumber(r.eqCount))
}

func (r *CrossRefRegistry) register(id string, kind RefKind, number string) Anchor {
	a := Anchor{
		Kind:     kind,
		Number:   number,
		Bookmark: bookmarkName(id),
	}
	if id != "" {
		r.anchors[id] = a
	}
	return a
}

// Resolve looks up a reference target. ok is false when the target has
// not been registered yet; callers render FallbackText instead.
func (r *CrossRefRegistry) Resolve(id string) (Anchor, bool) {
	a, ok := r.anchors[id]
	return a, ok
}

// DisplayText renders the localized reference text for an anchor:
// "Figure 1.2", "ตารางที่ 3.1", "Chapter 4", "(2.3)" for equations.
func (r *CrossRefRegistry) DisplayText(a Anchor) string {
	switch a.Kind {
	case RefFigure:
		return fmt.Sprintf("%s %s", r.lang.FigureCaptionPrefix(), a.Number)
	case RefTable:
		return fmt.Sprintf("%s %s", r.lang.TableCaptionPrefix(), a.Number)
	case RefEquation:
		return fmt.Sprintf("(%s)", a.Number)
	case RefChapter:
		if len(a.Number) > 0 && a.Number[0] >= 'A' && a.Number[0] <= 'Z' {
			return fmt.Sprintf("%s %s", r.lang.AppendixPrefix(), a.Number)
		}
		return fmt.Sprintf("%s %s", r.lang.ChapterPrefix(), a.Number)
	default:
		return a.Number
	}
}

// FallbackText is the visible degradation for an unresolved target.
func FallbackText(id string) string {
	return "[" + id + "]"
}

// CaptionPrefix renders the caption line prefix for a captioned
// element ("Table 2.1: " without the trailing text).
func (r *CrossRefRegistry) CaptionPrefix(a Anchor) string {
	switch a.Kind {
	case RefFigure:
		return fmt.Sprintf("%s %s", r.lang.FigureCaptionPrefix(), a.Number)
	case RefTable:
		return fmt.Sprintf("%s %s", r.lang.TableCaptionPrefix(), a.Number)
	default:
		return a.Number
	}
}
