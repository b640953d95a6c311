package markdocx

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir string, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing test png: %v", err)
	}
	return path
}

func TestAddImageIntrinsicSize(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "small.png", 96, 48)

	tr := NewImageTracker(NewRelIDAllocator())
	img, err := tr.AddImage(path, "")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if img.WidthEMU != 96*emuPerPx {
		t.Errorf("width = %d EMU, want %d", img.WidthEMU, 96*emuPerPx)
	}
	if img.HeightEMU != 48*emuPerPx {
		t.Errorf("height = %d EMU, want %d", img.HeightEMU, 48*emuPerPx)
	}
	if img.Target != "media/image1.png" {
		t.Errorf("target = %q, want media/image1.png", img.Target)
	}
	if img.RelID != "rId6" {
		t.Errorf("rel ID = %q, want rId6", img.RelID)
	}
}

func TestAddImageFitsToPageWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "wide.png", 2000, 1000)

	tr := NewImageTracker(NewRelIDAllocator())
	img, err := tr.AddImage(path, "")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	max := int64(usableWidthInches * emuPerInch)
	if img.WidthEMU != max {
		t.Errorf("width = %d EMU, want page-fit %d", img.WidthEMU, max)
	}
	// Aspect ratio preserved.
	if want := max / 2; img.HeightEMU != want {
		t.Errorf("height = %d EMU, want %d", img.HeightEMU, want)
	}
}

func TestAddImageMissingFile(t *testing.T) {
	tr := NewImageTracker(NewRelIDAllocator())
	_, err := tr.AddImage("/nonexistent/image.png", "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsRenderError(err) {
		t.Errorf("error type = %T, want *RenderError", err)
	}
}

func TestParseWidthSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    int64
		wantErr bool
	}{
		{"300px", 300 * emuPerPx, false},
		{"96", 96 * emuPerPx, false},
		{"2in", 2 * emuPerInch, false},
		{"50%", int64(0.5 * usableWidthInches * emuPerInch), false},
		{"", 0, true},
		{"-5px", 0, true},
		{"150%", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseWidthSpec(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWidthSpec(%q): expected error", tt.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWidthSpec(%q): %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseWidthSpec(%q) = %d, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestProbeSVG(t *testing.T) {
	tests := []struct {
		name    string
		svg     string
		w, h    int
		wantErr bool
	}{
		{"attributes", `<svg width="120" height="60"></svg>`, 120, 60, false},
		{"viewBox", `<svg viewBox="0 0 800 400"></svg>`, 800, 400, false},
		{"neither", `<svg></svg>`, 0, 0, true},
	}

	for _, tt := range tests {
		w, h, err := probeSVG([]byte(tt.svg))
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("%s: got %dx%d, want %dx%d", tt.name, w, h, tt.w, tt.h)
		}
	}
}

func TestHyperlinkTrackerDeduplicates(t *testing.T) {
	tr := NewHyperlinkTracker(NewRelIDAllocator())

	a := tr.Add("https://example.com")
	b := tr.Add("https://example.org")
	again := tr.Add("https://example.com")

	if a != again {
		t.Errorf("repeated URL got new ID: %q then %q", a, again)
	}
	if a == b {
		t.Errorf("distinct URLs share ID %q", a)
	}

	rels := tr.Relationships()
	if len(rels) != 2 {
		t.Fatalf("got %d relationships, want 2", len(rels))
	}
	if rels[0].Target != "https://example.com" || rels[0].TargetMode != "External" {
		t.Errorf("unexpected first relationship %+v", rels[0])
	}
}
