package markdocx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	includeRe     = regexp.MustCompile(`(?m)^\{!include:([^{}]+)\}\s*$`)
	codeIncludeRe = regexp.MustCompile(`(?m)^\{!code:([^{}:]+)(?::(\d+)-(\d+))?\}\s*$`)
)

// ResolveIncludes expands {!include:path.md} and {!code:path:a-b}
// directives in the source text. Paths resolve against rootDir.
// Includes recurse up to the configured depth limit; exceeding it is a
// fatal configuration error since it usually means a cycle.
func ResolveIncludes(src, rootDir string) (string, error) {
	return resolveIncludes(src, rootDir, 0, GetGlobalConfig().MaxIncludeDepth)
}

func resolveIncludes(src, rootDir string, depth, maxDepth int) (string, error) {
	if depth > maxDepth {
		return "", NewConfigError("include", fmt.Sprintf("include depth exceeds %d (cycle?)", maxDepth), nil)
	}

	var firstErr error
	out := includeRe.ReplaceAllStringFunc(src, func(match string) string {
		if firstErr != nil {
			return match
		}
		path := strings.TrimSpace(includeRe.FindStringSubmatch(match)[1])
		full := filepath.Join(rootDir, path)
		data, err := os.ReadFile(full)
		if err != nil {
			firstErr = NewDocumentError("include", full, err)
			return match
		}
		expanded, err := resolveIncludes(string(data), filepath.Dir(full), depth+1, maxDepth)
		if err != nil {
			firstErr = err
			return match
		}
		return expanded
	})
	if firstErr != nil {
		return "", firstErr
	}

	out = codeIncludeRe.ReplaceAllStringFunc(out, func(match string) string {
		if firstErr != nil {
			return match
		}
		m := codeIncludeRe.FindStringSubmatch(match)
		path := strings.TrimSpace(m[1])
		full := filepath.Join(rootDir, path)
		data, err := os.ReadFile(full)
		if err != nil {
			firstErr = NewDocumentError("code include", full, err)
			return match
		}

		text := strings.TrimRight(string(data), "\n")
		if m[2] != "" {
			from, _ := strconv.Atoi(m[2])
			to, _ := strconv.Atoi(m[3])
			lines := strings.Split(text, "\n")
			if from < 1 {
				from = 1
			}
			if to > len(lines) {
				to = len(lines)
			}
			if from > to {
				firstErr = NewDocumentError("code include", full,
					fmt.Errorf("invalid line range %s-%s", m[2], m[3]))
				return match
			}
			text = strings.Join(lines[from-1:to], "\n")
		}

		lang := strings.TrimPrefix(filepath.Ext(path), ".")
		return fmt.Sprintf("```%s:%s\n%s\n```", lang, filepath.Base(path), text)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
