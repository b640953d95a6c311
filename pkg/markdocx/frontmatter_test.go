package markdocx

import (
	"strings"
	"testing"
)

func TestExtractFrontmatter(t *testing.T) {
	src := `---
title: My Report
author: Somchai
language: th
toc:
  enabled: true
  max_level: 2
---
# Hello
`
	cfg, body, err := ExtractFrontmatter(src)
	if err != nil {
		t.Fatalf("ExtractFrontmatter: %v", err)
	}
	if cfg.Title != "My Report" || cfg.Author != "Somchai" {
		t.Errorf("metadata = %q / %q", cfg.Title, cfg.Author)
	}
	if cfg.Language != "th" {
		t.Errorf("language = %q, want th", cfg.Language)
	}
	if !cfg.Toc.Enabled || cfg.Toc.MaxLevel != 2 {
		t.Errorf("toc = %+v", cfg.Toc)
	}
	if !strings.HasPrefix(body, "# Hello") {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFrontmatterAbsent(t *testing.T) {
	src := "# Just a document\n"
	cfg, body, err := ExtractFrontmatter(src)
	if err != nil {
		t.Fatalf("ExtractFrontmatter: %v", err)
	}
	if cfg != nil {
		t.Errorf("config = %+v, want nil", cfg)
	}
	if body != src {
		t.Errorf("body altered: %q", body)
	}
}

func TestExtractFrontmatterUnterminated(t *testing.T) {
	_, _, err := ExtractFrontmatter("---\ntitle: X\n")
	if err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
	if !IsParseError(err) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestExtractFrontmatterInvalidYAML(t *testing.T) {
	_, _, err := ExtractFrontmatter("---\ntitle: [unclosed\n---\nbody\n")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !IsParseError(err) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestMergeConfig(t *testing.T) {
	base := &DocumentConfig{Title: "Base", Author: "A", BodyFontSize: 24}
	override := &DocumentConfig{Title: "Override", Language: "en"}

	merged := MergeConfig(base, override)
	if merged.Title != "Override" {
		t.Errorf("title = %q, want Override", merged.Title)
	}
	if merged.Author != "A" {
		t.Errorf("author = %q, want A (from base)", merged.Author)
	}
	if merged.BodyFontSize != 24 {
		t.Errorf("font size = %d, want 24 (from base)", merged.BodyFontSize)
	}
	if merged.Language != "en" {
		t.Errorf("language = %q, want en", merged.Language)
	}
	// Defaults applied to untouched fields.
	if merged.Toc.MaxLevel != 3 {
		t.Errorf("toc max level = %d, want default 3", merged.Toc.MaxLevel)
	}
	if merged.MathMode != MathModeOMML {
		t.Errorf("math mode = %q, want default omml", merged.MathMode)
	}
}
