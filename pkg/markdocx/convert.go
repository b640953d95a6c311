package markdocx

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ConvertFile runs the whole pipeline on a Markdown file or a chapter
// directory and writes the resulting package to outputPath. Relative
// paths inside the document resolve against the input directory.
func ConvertFile(inputPath, outputPath string, base *DocumentConfig) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return NewDocumentError("read", inputPath, err)
	}

	var src, rootDir string
	if info.IsDir() {
		src, err = joinChapters(inputPath)
		rootDir = inputPath
	} else {
		var data []byte
		data, err = os.ReadFile(inputPath)
		src, rootDir = string(data), filepath.Dir(inputPath)
	}
	if err != nil {
		return NewDocumentError("read", inputPath, err)
	}

	result, err := ConvertSource(src, rootDir, base)
	if err != nil {
		return WithContext(err, "convert", map[string]interface{}{"input": inputPath})
	}
	return WriteDocx(result, outputPath)
}

// joinChapters concatenates the Markdown files of a chapter directory
// in name order. The first file's frontmatter governs the document;
// frontmatter on later files is stripped so it cannot be mistaken for
// a thematic break.
func joinChapters(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", err
		}
		body := string(data)
		if len(parts) > 0 {
			if _, stripped, err := ExtractFrontmatter(body); err == nil {
				body = stripped
			}
		}
		parts = append(parts, strings.TrimRight(body, "\n"))
	}
	if len(parts) == 0 {
		return "", NewDocumentError("read", dir, os.ErrNotExist)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// ConvertSource assembles Markdown text into a build result. rootDir
// anchors include directives and relative resource paths.
func ConvertSource(src, rootDir string, base *DocumentConfig) (*BuildResult, error) {
	resolved, err := ResolveIncludes(src, rootDir)
	if err != nil {
		return nil, err
	}

	doc, err := ParseMarkdown(resolved)
	if err != nil {
		return nil, err
	}

	if base == nil {
		base = &DocumentConfig{}
	}
	cfg := *base
	if cfg.BaseDir == "" {
		cfg.BaseDir = rootDir
	}
	return BuildDocument(doc, &cfg)
}

// Convert is the io.Reader/io.Writer form of the pipeline, for callers
// that do not work with files.
func Convert(r io.Reader, w io.Writer, rootDir string, base *DocumentConfig) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return NewDocumentError("read", "input", err)
	}
	result, err := ConvertSource(string(src), rootDir, base)
	if err != nil {
		return err
	}
	return WritePackage(result, w)
}

// OutputPath derives the default output file name for an input file:
// the same path with the extension replaced by .docx.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + ".docx"
}
