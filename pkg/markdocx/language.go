package markdocx

import (
	"github.com/markdocx/markdocx/pkg/markdocx/ooxml"
)

// Language re-exports the OOXML language selector so callers do not
// need to import the ooxml package directly.
type Language = ooxml.Language

const (
	English = ooxml.English
	Thai    = ooxml.Thai
)

func isThaiRune(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

// countScripts tallies Thai and Latin letters in s. Digits, punctuation
// and whitespace are ignored so that mixed technical text does not
// swamp the signal.
func countScripts(s string) (thai, latin int) {
	for _, r := range s {
		switch {
		case isThaiRune(r):
			thai++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	return
}

// DetectLanguage inspects document text and returns Thai when Thai
// characters predominate (more than half of all script characters).
// Empty or script-free text is English.
func DetectLanguage(text string) Language {
	thai, latin := countScripts(text)
	if thai == 0 {
		return English
	}
	if thai*2 > thai+latin {
		return Thai
	}
	return English
}

// resolveLanguage maps the configured language name to a Language,
// falling back to detection for "auto".
func resolveLanguage(configured string, doc *ParsedDocument) Language {
	switch configured {
	case "en":
		return English
	case "th":
		return Thai
	default:
		return DetectLanguage(doc.PlainText())
	}
}
