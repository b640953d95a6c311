package markdocx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

const (
	emuPerInch = 914400
	emuPerPx   = 9525 // 96 DPI
	// usableWidthInches is the content width images are fitted to:
	// A4 minus one-inch margins, rounded down.
	usableWidthInches = 6.0
)

// TrackedImage is one image embedded in the package.
type TrackedImage struct {
	RelID     ooxml.RelationshipID
	Path      string // source path, for logging
	Target    string // part target, "media/image3.png"
	Extension string // lowercase, without dot
	Data      []byte
	WidthEMU  int64
	HeightEMU int64
}

// ImageTracker loads image files, probes their dimensions, and
// registers each one as a media part with a relationship drawn from
// the shared allocator.
type ImageTracker struct {
	allocator *RelIDAllocator
	images    []*TrackedImage
	seq       int
}

// NewImageTracker creates a tracker backed by the given allocator.
func NewImageTracker(allocator *RelIDAllocator) *ImageTracker {
	return &ImageTracker{allocator: allocator}
}

// Images returns every tracked image in registration order.
func (t *ImageTracker) Images() []*TrackedImage {
	return t.images
}

// AddImage loads the file at path, sizes it (widthSpec overrides the
// intrinsic fit), and registers it. The error is a content error;
// callers degrade the block rather than aborting the build.
func (t *ImageTracker) AddImage(path, widthSpec string) (*TrackedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewRenderError("image", "reading image file", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		ext = "jpg"
	}

	pxW, pxH, err := probeDimensions(data, ext)
	if err != nil {
		return nil, NewRenderError("image", "probing image dimensions", err)
	}

	wEMU, hEMU := fitToPage(pxW, pxH)
	if widthSpec != "" {
		if w, err := parseWidthSpec(widthSpec); err == nil {
			hEMU = int64(float64(w) * float64(pxH) / float64(pxW))
			wEMU = w
		} else {
			Warn("ignoring invalid image width %q: %v", widthSpec, err)
		}
	}

	t.seq++
	img := &TrackedImage{
		RelID:     t.allocator.NextID(),
		Path:      path,
		Target:    fmt.Sprintf("media/image%d.%s", t.seq, ext),
		Extension: ext,
		Data:      data,
		WidthEMU:  wEMU,
		HeightEMU: hEMU,
	}
	t.images = append(t.images, img)
	return img, nil
}

// AddImageData registers in-memory image bytes (a rendered diagram)
// the same way AddImage registers a file. scalePercent multiplies the
// intrinsic size before the page-width fit; 0 or 100 leaves it alone.
func (t *ImageTracker) AddImageData(data []byte, ext string, scalePercent int) (*TrackedImage, error) {
	pxW, pxH, err := probeDimensions(data, ext)
	if err != nil {
		return nil, NewRenderError("image", "probing image dimensions", err)
	}
	if scalePercent > 0 && scalePercent != 100 {
		pxW = pxW * scalePercent / 100
		pxH = pxH * scalePercent / 100
	}
	wEMU, hEMU := fitToPage(pxW, pxH)

	t.seq++
	img := &TrackedImage{
		RelID:     t.allocator.NextID(),
		Target:    fmt.Sprintf("media/image%d.%s", t.seq, ext),
		Extension: ext,
		Data:      data,
		WidthEMU:  wEMU,
		HeightEMU: hEMU,
	}
	t.images = append(t.images, img)
	return img, nil
}

// fitToPage converts pixel dimensions to EMU, scaling down to the
// usable page width when the image is wider.
func fitToPage(pxW, pxH int) (w, h int64) {
	w = int64(pxW) * emuPerPx
	h = int64(pxH) * emuPerPx
	max := int64(usableWidthInches * emuPerInch)
	if w > max {
		h = h * max / w
		w = max
	}
	return w, h
}

// parseWidthSpec converts a width attribute to EMU. Supported forms:
// "300px", "4in", "50%" (of the usable page width), and a bare number
// treated as pixels.
func parseWidthSpec(spec string) (int64, error) {
	s := strings.TrimSpace(spec)
	switch {
	case strings.HasSuffix(s, "%"):
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || pct <= 0 || pct > 100 {
			return 0, fmt.Errorf("invalid percentage %q", spec)
		}
		return int64(pct / 100 * usableWidthInches * emuPerInch), nil
	case strings.HasSuffix(s, "in"):
		in, err := strconv.ParseFloat(strings.TrimSuffix(s, "in"), 64)
		if err != nil || in <= 0 {
			return 0, fmt.Errorf("invalid inch width %q", spec)
		}
		return int64(in * emuPerInch), nil
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
		fallthrough
	default:
		px, err := strconv.ParseFloat(s, 64)
		if err != nil || px <= 0 {
			return 0, fmt.Errorf("invalid pixel width %q", spec)
		}
		return int64(px * emuPerPx), nil
	}
}

// probeDimensions returns pixel dimensions for the supported formats.
// Raster formats go through the registered image decoders; SVG falls
// back to attribute scanning.
func probeDimensions(data []byte, ext string) (int, int, error) {
	if ext == "svg" {
		return probeSVG(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

var (
	svgViewBoxRe = regexp.MustCompile(`viewBox\s*=\s*"[\d.+-]+[\s,]+[\d.+-]+[\s,]+([\d.]+)[\s,]+([\d.]+)"`)
	svgDimRe     = regexp.MustCompile(`\s(width|height)\s*=\s*"([\d.]+)(px)?"`)
)

// probeSVG scans the root element for width/height attributes, then
// the viewBox. Dimensions are treated as pixels.
func probeSVG(data []byte) (int, int, error) {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	s := string(head)

	var w, h float64
	for _, m := range svgDimRe.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if m[1] == "width" && w == 0 {
			w = v
		}
		if m[1] == "height" && h == 0 {
			h = v
		}
	}
	if w > 0 && h > 0 {
		return int(w), int(h), nil
	}

	if m := svgViewBoxRe.FindStringSubmatch(s); m != nil {
		vw, err1 := strconv.ParseFloat(m[1], 64)
		vh, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && vw > 0 && vh > 0 {
			return int(vw), int(vh), nil
		}
	}

	return 0, 0, fmt.Errorf("svg has no usable dimensions")
}

// HyperlinkTracker deduplicates external link targets. Every distinct
// URL gets one relationship; repeated links reuse it. The tracker is
// shared between the body and footnotes so both parts can reference
// the same relationships part entries.
type HyperlinkTracker struct {
	allocator *RelIDAllocator
	byURL     map[string]ooxml.RelationshipID
	order     []string
}

// NewHyperlinkTracker creates a tracker backed by the given allocator.
func NewHyperlinkTracker(allocator *RelIDAllocator) *HyperlinkTracker {
	return &HyperlinkTracker{
		allocator: allocator,
		byURL:     make(map[string]ooxml.RelationshipID),
	}
}

// Add returns the relationship ID for a URL, allocating on first use.
func (t *HyperlinkTracker) Add(url string) ooxml.RelationshipID {
	if id, ok := t.byURL[url]; ok {
		return id
	}
	id := t.allocator.NextID()
	t.byURL[url] = id
	t.order = append(t.order, url)
	return id
}

// Relationships returns (url, id) pairs in first-use order.
func (t *HyperlinkTracker) Relationships() []ooxml.Relationship {
	out := make([]ooxml.Relationship, 0, len(t.order))
	for _, url := range t.order {
		out = append(out, ooxml.Relationship{
			ID:         t.byURL[url],
			Type:       ooxml.RelTypeHyperlink,
			Target:     url,
			TargetMode: "External",
		})
	}
	return out
}
