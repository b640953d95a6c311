package markdocx

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ExtractFrontmatter splits a leading YAML block delimited by --- lines
// from the Markdown source. When no frontmatter is present the source
// is returned untouched with a nil config.
func ExtractFrontmatter(src string) (*DocumentConfig, string, error) {
	if !strings.HasPrefix(src, "---\n") && !strings.HasPrefix(src, "---\r\n") {
		return nil, src, nil
	}

	rest := src[strings.IndexByte(src, '\n')+1:]
	end := -1
	offset := 0
	for {
		idx := strings.Index(rest[offset:], "\n---")
		if idx < 0 {
			break
		}
		lineEnd := offset + idx + len("\n---")
		tail := rest[lineEnd:]
		if tail == "" || strings.HasPrefix(tail, "\n") || strings.HasPrefix(tail, "\r\n") {
			end = offset + idx
			break
		}
		offset = lineEnd
	}
	if end < 0 {
		return nil, "", NewParseError(1, "unterminated frontmatter block")
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")

	cfg := &DocumentConfig{}
	if err := yaml.Unmarshal([]byte(block), cfg); err != nil {
		return nil, "", NewParseError(1, "invalid frontmatter: "+err.Error())
	}
	return cfg, body, nil
}

// MergeConfig layers frontmatter overrides on top of a base config.
// Only fields the frontmatter actually set replace base values.
func MergeConfig(base, override *DocumentConfig) *DocumentConfig {
	if base == nil {
		base = &DocumentConfig{}
	}
	merged := *base
	if override == nil {
		merged.ApplyDefaults()
		return &merged
	}

	if override.Title != "" {
		merged.Title = override.Title
	}
	if override.Subtitle != "" {
		merged.Subtitle = override.Subtitle
	}
	if override.Author != "" {
		merged.Author = override.Author
	}
	if override.Date != "" {
		merged.Date = override.Date
	}
	if override.Language != "" {
		merged.Language = override.Language
	}
	if override.Toc.Enabled {
		merged.Toc.Enabled = true
	}
	if override.Toc.MaxLevel != 0 {
		merged.Toc.MaxLevel = override.Toc.MaxLevel
	}
	if override.Toc.Title != "" {
		merged.Toc.Title = override.Toc.Title
	}
	if override.TemplatePath != "" {
		merged.TemplatePath = override.TemplatePath
	}
	if override.Header != nil {
		merged.Header = override.Header
	}
	if override.Footer != nil {
		merged.Footer = override.Footer
	}
	if override.DifferentFirstPage {
		merged.DifferentFirstPage = true
	}
	if override.FontDir != "" {
		merged.FontDir = override.FontDir
	}
	if override.BodyFont != "" {
		merged.BodyFont = override.BodyFont
	}
	if override.BodyFontSize != 0 {
		merged.BodyFontSize = override.BodyFontSize
	}
	if override.MathMode != "" {
		merged.MathMode = override.MathMode
	}
	if override.NumberAllEquations {
		merged.NumberAllEquations = true
	}
	if override.MermaidCommand != "" {
		merged.MermaidCommand = override.MermaidCommand
	}
	if override.DiagramScale != 0 {
		merged.DiagramScale = override.DiagramScale
	}
	if override.PageWidth != 0 {
		merged.PageWidth = override.PageWidth
	}
	if override.PageHeight != 0 {
		merged.PageHeight = override.PageHeight
	}
	if override.PageMargin != 0 {
		merged.PageMargin = override.PageMargin
	}
	if override.HeaderMargin != 0 {
		merged.HeaderMargin = override.HeaderMargin
	}
	if override.FooterMargin != 0 {
		merged.FooterMargin = override.FooterMargin
	}

	merged.ApplyDefaults()
	return &merged
}
