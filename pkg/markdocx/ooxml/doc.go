// Package ooxml provides the WordprocessingML part types and serializers
// used by markdocx to emit a DOCX package.
//
// The package is organized into logical files based on part and element
// types:
//
//   - types.go: core interfaces (DocElement, ParagraphChild) and shared helpers
//   - run.go: text runs, field characters, breaks
//   - paragraph.go: paragraphs, bookmarks, section properties
//   - table.go: tables, rows, cells
//   - image.go: DrawingML inline images
//   - document.go: the word/document.xml body
//   - header.go, footer.go: flat header/footer part generators
//   - footnotes.go: word/footnotes.xml
//   - numbering.go: word/numbering.xml
//   - styles.go: word/styles.xml and the Language font defaults
//   - rels.go, contenttypes.go, props.go: package plumbing parts
//
// Elements are assembled by the markdocx builder and serialized to bytes
// here; nothing in this package allocates relationship IDs or bookmark
// IDs on its own.
package ooxml
