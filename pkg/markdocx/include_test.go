package markdocx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveIncludes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "part.md"), []byte("included text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := ResolveIncludes("before\n{!include:part.md}\nafter\n", dir)
	if err != nil {
		t.Fatalf("ResolveIncludes: %v", err)
	}
	if !strings.Contains(out, "included text") {
		t.Errorf("output missing included content:\n%s", out)
	}
}

func TestResolveIncludesNested(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("{!include:sub/b.md}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b.md"), []byte("deep content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := ResolveIncludes("{!include:a.md}\n", dir)
	if err != nil {
		t.Fatalf("ResolveIncludes: %v", err)
	}
	if !strings.Contains(out, "deep content") {
		t.Errorf("nested include not resolved:\n%s", out)
	}
}

func TestResolveIncludesCycle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "loop.md"), []byte("{!include:loop.md}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveIncludes("{!include:loop.md}\n", dir)
	if err == nil {
		t.Fatal("expected error for include cycle")
	}
	if !IsConfigError(err) {
		t.Errorf("error type = %T, want *ConfigError", err)
	}
}

func TestResolveCodeInclude(t *testing.T) {
	dir := t.TempDir()
	src := "line one\nline two\nline three\nline four\n"
	if err := os.WriteFile(filepath.Join(dir, "sample.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := ResolveIncludes("{!code:sample.go:2-3}\n", dir)
	if err != nil {
		t.Fatalf("ResolveIncludes: %v", err)
	}
	if !strings.Contains(out, "```go:sample.go\nline two\nline three\n```") {
		t.Errorf("code include output:\n%s", out)
	}
	if strings.Contains(out, "line one") || strings.Contains(out, "line four") {
		t.Error("lines outside the range leaked")
	}
}

func TestResolveIncludeMissingFile(t *testing.T) {
	_, err := ResolveIncludes("{!include:nope.md}\n", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing include")
	}
}
