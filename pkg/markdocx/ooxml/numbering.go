package ooxml

import (
	"fmt"
	"strings"
)

// NumInstance is one list numbering instance: a numId plus its kind.
type NumInstance struct {
	ID      int
	Ordered bool
}

// Two abstract definitions back every instance: decimal for ordered
// lists, bullets for unordered. Each document list gets its own w:num
// referencing the matching abstract definition so numbering restarts
// per list.
const (
	abstractNumOrdered = 1
	abstractNumBullet  = 2
)

// NumberingXML generates the word/numbering.xml part for the given
// instances.
func NumberingXML(instances []NumInstance) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:numbering xmlns:w="%s" xmlns:r="%s">`, NSMain, NSRelationships)

	writeAbstractNum(&b, abstractNumOrdered, true)
	writeAbstractNum(&b, abstractNumBullet, false)

	for _, inst := range instances {
		abstract := abstractNumBullet
		if inst.Ordered {
			abstract = abstractNumOrdered
		}
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`,
			inst.ID, abstract)
	}
	b.WriteString("</w:numbering>")
	return []byte(b.String())
}

func writeAbstractNum(b *strings.Builder, id int, ordered bool) {
	fmt.Fprintf(b, `<w:abstractNum w:abstractNumId="%d">`, id)
	fmt.Fprintf(b, `<w:multiLevelType w:val="multilevel"/>`)
	for lvl := 0; lvl < 9; lvl++ {
		indent := 720 * (lvl + 1)
		fmt.Fprintf(b, `<w:lvl w:ilvl="%d">`, lvl)
		b.WriteString(`<w:start w:val="1"/>`)
		if ordered {
			b.WriteString(`<w:numFmt w:val="decimal"/>`)
			fmt.Fprintf(b, `<w:lvlText w:val="%%%d."/>`, lvl+1)
		} else {
			b.WriteString(`<w:numFmt w:val="bullet"/>`)
			fmt.Fprintf(b, `<w:lvlText w:val="%s"/>`, bulletChar(lvl))
		}
		b.WriteString(`<w:lvlJc w:val="left"/>`)
		fmt.Fprintf(b, `<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr>`, indent)
		if !ordered {
			b.WriteString(`<w:rPr><w:rFonts w:ascii="Symbol" w:hAnsi="Symbol" w:hint="default"/></w:rPr>`)
		}
		b.WriteString("</w:lvl>")
	}
	b.WriteString("</w:abstractNum>")
}

func bulletChar(level int) string {
	switch level % 3 {
	case 0:
		return "" // bullet
	case 1:
		return "o"
	default:
		return "" // square
	}
}
