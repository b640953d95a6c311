package markdocx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DiagramRenderer converts diagram source text to a raster image.
// A nil renderer (or any render error) degrades the block to a code
// block; diagram failures never abort a build.
type DiagramRenderer interface {
	Render(ctx context.Context, kind, source string) ([]byte, error)
}

// MermaidCLI renders mermaid diagrams through the external mmdc
// command.
type MermaidCLI struct {
	// Command is the executable to invoke, "mmdc" by default.
	Command string
	// Timeout bounds a single render, 30s by default.
	Timeout time.Duration
}

// NewMermaidCLI creates a renderer for the given command line.
func NewMermaidCLI(command string) *MermaidCLI {
	if command == "" {
		command = "mmdc"
	}
	return &MermaidCLI{Command: command, Timeout: 30 * time.Second}
}

// Render writes the source to a temp file, invokes the CLI, and reads
// the produced PNG.
func (m *MermaidCLI) Render(ctx context.Context, kind, source string) ([]byte, error) {
	if kind != "mermaid" {
		return nil, NewRenderError("diagram", "unsupported diagram kind "+kind, nil)
	}

	dir, err := os.MkdirTemp("", "markdocx-diagram-")
	if err != nil {
		return nil, NewRenderError("diagram", "creating temp dir", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "diagram.mmd")
	out := filepath.Join(dir, "diagram.png")
	if err := os.WriteFile(in, []byte(source), 0o644); err != nil {
		return nil, NewRenderError("diagram", "writing diagram source", err)
	}

	timeout := m.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parts := strings.Fields(m.Command)
	args := append(parts[1:], "-i", in, "-o", out)
	cmd := exec.CommandContext(ctx, parts[0], args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		Debug("diagram renderer output: %s", strings.TrimSpace(string(output)))
		return nil, NewRenderError("diagram", "running "+parts[0], err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, NewRenderError("diagram", "reading rendered diagram", err)
	}
	return data, nil
}
