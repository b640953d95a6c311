package markdocx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// EmbeddedFont is one font file carried inside the package under
// word/fonts/.
type EmbeddedFont struct {
	Family    string
	Target    string // "fonts/font1.ttf"
	Extension string
	Data      []byte
	RelID     ooxml.RelationshipID
}

// familyFromFilename derives a font family name from a file name:
// "TH Sarabun New Bold.ttf" becomes "TH Sarabun New Bold".
func familyFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(strings.ReplaceAll(base, "-", " "))
}

// LoadFonts scans a directory for TTF and OTF files and returns them
// in stable name order. Relationship IDs come from the allocator so
// font parts never collide with other relationships. An unreadable
// directory is a fatal configuration error; an empty directory is not.
func LoadFonts(dir string, allocator *RelIDAllocator) ([]*EmbeddedFont, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewConfigError("fonts", "reading font directory", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".ttf" || ext == ".otf" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	fonts := make([]*EmbeddedFont, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, NewConfigError("fonts", "reading font file "+name, err)
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
		fonts = append(fonts, &EmbeddedFont{
			Family:    familyFromFilename(name),
			Target:    fmt.Sprintf("fonts/font%d.%s", i+1, ext),
			Extension: ext,
			Data:      data,
			RelID:     allocator.NextID(),
		})
	}

	Info("loaded %d embedded fonts from %s", len(fonts), dir)
	return fonts, nil
}
