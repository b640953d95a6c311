package markdocx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// MathMode selects how display math blocks are rendered.
type MathMode string

const (
	// MathModeOMML converts LaTeX to native Office Math Markup.
	MathModeOMML MathMode = "omml"
	// MathModeImage rasterizes math to an embedded image.
	MathModeImage MathMode = "image"
	// MathModeLiteral emits the LaTeX source as code-styled text.
	MathModeLiteral MathMode = "literal"
)

// TocConfig controls table of contents generation.
type TocConfig struct {
	Enabled  bool   `yaml:"enabled"`
	MaxLevel int    `yaml:"max_level"`
	Title    string `yaml:"title"`
}

// HeaderFooterSpec describes one slot (left, center, right) of a header
// or footer in the flat configuration path. The field name selects a
// dynamic field; Text carries static content.
type HeaderFooterSpec struct {
	Field string `yaml:"field"` // "text", "page", "numpages", "chapter", "title"
	Text  string `yaml:"text"`
}

// HeaderFooterSection is the flat three-slot header/footer layout.
type HeaderFooterSection struct {
	Left   *HeaderFooterSpec `yaml:"left"`
	Center *HeaderFooterSpec `yaml:"center"`
	Right  *HeaderFooterSpec `yaml:"right"`
}

// DocumentConfig describes a single document build: metadata, layout,
// and rendering choices. Zero values select sensible defaults via
// ApplyDefaults.
type DocumentConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`

	// Language is "auto", "en" or "th". Auto detection inspects the
	// parsed document text.
	Language string `yaml:"language"`

	Toc TocConfig `yaml:"toc"`

	// TemplatePath points at a DOCX whose headers, footers and styles
	// are reused. Mutually exclusive with Header/Footer sections.
	TemplatePath string `yaml:"template"`

	Header *HeaderFooterSection `yaml:"header"`
	Footer *HeaderFooterSection `yaml:"footer"`

	// DifferentFirstPage suppresses the header and footer on the first
	// page of the body section.
	DifferentFirstPage bool `yaml:"different_first_page"`

	// FontDir holds TTF/OTF files to embed. Empty disables embedding.
	FontDir string `yaml:"font_dir"`

	BodyFont     string `yaml:"body_font"`
	BodyFontSize int    `yaml:"body_font_size"` // half-points

	MathMode MathMode `yaml:"math_mode"`
	// NumberAllEquations assigns an equation number to every display
	// math block, not just labeled ones.
	NumberAllEquations bool `yaml:"number_all_equations"`

	// MermaidCommand is the external renderer invoked for diagram
	// blocks. Empty disables diagram rendering.
	MermaidCommand string `yaml:"mermaid_command"`
	// DiagramScale multiplies rendered diagram dimensions (percent).
	DiagramScale int `yaml:"diagram_scale"`

	// PageWidth/PageHeight/margins in twips. Zero selects A4 with
	// one-inch margins.
	PageWidth    int `yaml:"page_width"`
	PageHeight   int `yaml:"page_height"`
	PageMargin   int `yaml:"page_margin"`
	HeaderMargin int `yaml:"header_margin"`
	FooterMargin int `yaml:"footer_margin"`

	// BaseDir is the directory relative paths in the document (images,
	// template, font dir) resolve against. Set by the loader, never
	// from frontmatter.
	BaseDir string `yaml:"-"`
}

// resolvePath joins a relative path with the config's base directory.
func (c *DocumentConfig) resolvePath(p string) string {
	if p == "" || c.BaseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// DefaultDocumentConfig returns a config with every default applied.
func DefaultDocumentConfig() *DocumentConfig {
	c := &DocumentConfig{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields in place.
func (c *DocumentConfig) ApplyDefaults() {
	if c.Language == "" {
		c.Language = "auto"
	}
	if c.Toc.MaxLevel == 0 {
		c.Toc.MaxLevel = 3
	}
	if c.Toc.Title == "" {
		c.Toc.Title = "Table of Contents"
	}
	if c.MathMode == "" {
		c.MathMode = MathModeOMML
	}
	if c.DiagramScale == 0 {
		c.DiagramScale = 100
	}
	if c.PageWidth == 0 {
		c.PageWidth = 11906
	}
	if c.PageHeight == 0 {
		c.PageHeight = 16838
	}
	if c.PageMargin == 0 {
		c.PageMargin = 1440
	}
	if c.HeaderMargin == 0 {
		c.HeaderMargin = 720
	}
	if c.FooterMargin == 0 {
		c.FooterMargin = 720
	}
}

// Validate reports fatal configuration problems. Content-level issues
// are not checked here; they degrade at build time instead.
func (c *DocumentConfig) Validate() error {
	switch c.Language {
	case "", "auto", "en", "th":
	default:
		return NewConfigError("language", fmt.Sprintf("unsupported language %q", c.Language), nil)
	}

	switch c.MathMode {
	case "", MathModeOMML, MathModeImage, MathModeLiteral:
	default:
		return NewConfigError("math", fmt.Sprintf("unsupported math mode %q", c.MathMode), nil)
	}

	if c.TemplatePath != "" && (c.Header != nil || c.Footer != nil) {
		return NewConfigError("template", "template and flat header/footer sections are mutually exclusive", nil)
	}

	if c.TemplatePath != "" {
		if _, err := os.Stat(c.resolvePath(c.TemplatePath)); err != nil {
			return NewConfigError("template", "template file not accessible", err)
		}
	}

	if c.FontDir != "" {
		info, err := os.Stat(c.resolvePath(c.FontDir))
		if err != nil {
			return NewConfigError("fonts", "font directory not accessible", err)
		}
		if !info.IsDir() {
			return NewConfigError("fonts", "font path is not a directory", nil)
		}
	}

	if c.Toc.MaxLevel < 0 || c.Toc.MaxLevel > 4 {
		return NewConfigError("toc", "toc max_level must be between 1 and 4", nil)
	}

	return nil
}

// PageGeometry converts the configured page dimensions to the OOXML
// section geometry.
func (c *DocumentConfig) PageGeometry() *ooxml.PageGeometry {
	g := ooxml.A4Geometry()
	if c.PageWidth > 0 {
		g.Width = c.PageWidth
	}
	if c.PageHeight > 0 {
		g.Height = c.PageHeight
	}
	if c.PageMargin > 0 {
		g.MarginTop = c.PageMargin
		g.MarginBottom = c.PageMargin
		g.MarginLeft = c.PageMargin
		g.MarginRight = c.PageMargin
	}
	if c.HeaderMargin > 0 {
		g.HeaderDistance = c.HeaderMargin
	}
	if c.FooterMargin > 0 {
		g.FooterDistance = c.FooterMargin
	}
	return g
}

// fieldSpec converts a flat-config slot to the OOXML field spec.
// Unknown field names degrade to static text.
func (s *HeaderFooterSpec) fieldSpec() ooxml.FieldSpec {
	if s == nil {
		return ooxml.FieldSpec{}
	}
	switch s.Field {
	case "page":
		return ooxml.PageNumber()
	case "numpages":
		return ooxml.TotalPages()
	case "chapter":
		return ooxml.ChapterName()
	case "title":
		return ooxml.DocumentTitle()
	case "", "text":
		return ooxml.Text(s.Text)
	default:
		Warn("unknown header/footer field %q, treating as text", s.Field)
		return ooxml.Text(s.Text)
	}
}

// headerConfig converts the flat section to the OOXML layout, or the
// zero layout when the section is absent.
func (s *HeaderFooterSection) headerConfig() ooxml.HeaderFooterConfig {
	if s == nil {
		return ooxml.EmptyHeaderFooter()
	}
	cfg := ooxml.HeaderFooterConfig{}
	if s.Left != nil {
		cfg.Left = []ooxml.FieldSpec{s.Left.fieldSpec()}
	}
	if s.Center != nil {
		cfg.Center = []ooxml.FieldSpec{s.Center.fieldSpec()}
	}
	if s.Right != nil {
		cfg.Right = []ooxml.FieldSpec{s.Right.fieldSpec()}
	}
	return cfg
}
