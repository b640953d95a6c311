package markdocx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentConfigValidate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		if err := DefaultDocumentConfig().Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("template and flat sections are exclusive", func(t *testing.T) {
		cfg := DefaultDocumentConfig()
		cfg.TemplatePath = "x.docx"
		cfg.Header = &HeaderFooterSection{Center: &HeaderFooterSpec{Field: "page"}}
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("missing template rejected", func(t *testing.T) {
		cfg := DefaultDocumentConfig()
		cfg.TemplatePath = "/nonexistent/template.docx"
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("font dir must be a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := DefaultDocumentConfig()
		cfg.FontDir = file
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("toc level range", func(t *testing.T) {
		cfg := DefaultDocumentConfig()
		cfg.Toc.MaxLevel = 9
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("unknown math mode rejected", func(t *testing.T) {
		cfg := DefaultDocumentConfig()
		cfg.MathMode = "mathml"
		if err := cfg.Validate(); !IsConfigError(err) {
			t.Errorf("expected config error, got %v", err)
		}
	})
}

func TestDocumentConfigPaths(t *testing.T) {
	cfg := &DocumentConfig{BaseDir: "/docs/manual"}

	if got := cfg.resolvePath("images/a.png"); got != filepath.Join("/docs/manual", "images/a.png") {
		t.Errorf("relative path not anchored: %q", got)
	}
	if got := cfg.resolvePath("/abs/b.png"); got != "/abs/b.png" {
		t.Errorf("absolute path rewritten: %q", got)
	}
	if got := cfg.resolvePath(""); got != "" {
		t.Errorf("empty path rewritten: %q", got)
	}
}

func TestDocumentConfigPageGeometry(t *testing.T) {
	t.Run("defaults to A4", func(t *testing.T) {
		g := DefaultDocumentConfig().PageGeometry()
		if g.Width != 11906 || g.Height != 16838 {
			t.Errorf("geometry = %dx%d, want A4", g.Width, g.Height)
		}
	})

	t.Run("overrides applied", func(t *testing.T) {
		cfg := DefaultDocumentConfig()
		cfg.PageWidth = 12240 // US letter
		cfg.PageHeight = 15840
		cfg.PageMargin = 720
		g := cfg.PageGeometry()
		if g.Width != 12240 || g.Height != 15840 {
			t.Errorf("geometry = %dx%d", g.Width, g.Height)
		}
		if g.MarginTop != 720 || g.MarginLeft != 720 {
			t.Errorf("margins = %d/%d, want 720", g.MarginTop, g.MarginLeft)
		}
	})
}
