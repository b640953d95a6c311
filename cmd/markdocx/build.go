package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/markdocx/markdocx/pkg/markdocx"
)

var (
	outputPath string
	withToc    bool
	watchMode  bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input.md>",
	Short: "Build a DOCX from a Markdown document",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(
		&outputPath, "output", "o", "", "output file (default: input path with .docx extension)",
	)
	buildCmd.Flags().BoolVar(
		&withToc, "toc", false, "generate a table of contents even if frontmatter does not ask for one",
	)
	buildCmd.Flags().BoolVarP(
		&watchMode, "watch", "w", false, "rebuild whenever the input or a sibling Markdown file changes",
	)
}

func runBuild(cmd *cobra.Command, args []string) error {
	input := args[0]
	out := outputPath
	if out == "" {
		out = markdocx.OutputPath(input)
	}

	cfg := baseDocumentConfig()
	if withToc {
		cfg.Toc.Enabled = true
	}

	build := func() error {
		return markdocx.ConvertFile(input, out, cfg)
	}

	if !watchMode {
		return build()
	}
	return watchAndBuild(cmd.Context(), input, build)
}

// watchAndBuild rebuilds on every change to the input file or any
// Markdown file in its directory (includes live there too). Events are
// debounced so editors that write in bursts trigger one rebuild.
func watchAndBuild(ctx context.Context, input string, build func() error) error {
	if err := build(); err != nil {
		markdocx.Error("initial build failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	markdocx.Info("watching %s for changes", dir)

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			if err := build(); err != nil {
				markdocx.Error("rebuild failed: %v", err)
			}
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".md") && ev.Name != input {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			markdocx.Warn("watcher error: %v", werr)
		}
	}
}
