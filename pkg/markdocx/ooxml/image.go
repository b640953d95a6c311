package ooxml

import (
	"fmt"
	"strings"
)

// ImageElement is an inline DrawingML picture referencing an image part
// by relationship ID. Dimensions are in EMUs (914400 per inch).
type ImageElement struct {
	RelID     RelationshipID
	WidthEMU  int64
	HeightEMU int64
	AltText   string
	Name      string
	DocPrID   int // unique drawing object id within the document
}

// NewImage creates an image element.
func NewImage(relID RelationshipID, widthEMU, heightEMU int64) *ImageElement {
	return &ImageElement{RelID: relID, WidthEMU: widthEMU, HeightEMU: heightEMU}
}

func (img *ImageElement) isDocElement() {}

func (img *ImageElement) writeXML(b *strings.Builder) {
	// The image is wrapped in a centered paragraph.
	b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`)
	fmt.Fprintf(b, `<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="%s">`, NSWPDrawing)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, img.WidthEMU, img.HeightEMU)
	fmt.Fprintf(b, `<wp:docPr id="%d" name="%s" descr="%s"/>`,
		img.DocPrID, esc(img.Name), esc(img.AltText))
	fmt.Fprintf(b, `<a:graphic xmlns:a="%s">`, NSDrawing)
	fmt.Fprintf(b, `<a:graphicData uri="%s">`, NSPicture)
	fmt.Fprintf(b, `<pic:pic xmlns:pic="%s">`, NSPicture)
	fmt.Fprintf(b, `<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`,
		img.DocPrID, esc(img.Name))
	fmt.Fprintf(b, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`,
		esc(string(img.RelID)))
	b.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/>`)
	fmt.Fprintf(b, `<a:ext cx="%d" cy="%d"/></a:xfrm>`, img.WidthEMU, img.HeightEMU)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
}
