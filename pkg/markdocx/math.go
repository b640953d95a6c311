package markdocx

import (
	"fmt"
	"strings"
)

// MathRenderer converts LaTeX math to an embeddable form. Implementations
// may shell out to external tools; the built-in renderer converts a
// practical subset of LaTeX to Office Math Markup directly.
type MathRenderer interface {
	// RenderOMML returns an m:oMath fragment for the given LaTeX.
	RenderOMML(tex string) (string, error)
}

// OMMLRenderer is the built-in structural converter. It handles the
// constructs that appear in technical documents: superscripts,
// subscripts, fractions, square roots, Greek letters and common
// operator commands. Anything it cannot express structurally is kept
// as literal text inside the math zone rather than failing the block.
type OMMLRenderer struct{}

func (OMMLRenderer) RenderOMML(tex string) (string, error) {
	body, err := convertTeX(tex)
	if err != nil {
		return "", NewRenderError("math", "converting LaTeX", err)
	}
	return "<m:oMath>" + body + "</m:oMath>", nil
}

// texSymbols maps LaTeX commands to their Unicode forms.
var texSymbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ",
	"epsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ",
	"nu": "ν", "xi": "ξ", "pi": "π", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "phi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ",
	"Xi": "Ξ", "Pi": "Π", "Sigma": "Σ", "Phi": "Φ",
	"Psi": "Ψ", "Omega": "Ω",
	"times": "×", "cdot": "⋅", "pm": "±", "mp": "∓",
	"leq": "≤", "geq": "≥", "neq": "≠", "approx": "≈",
	"infty": "∞", "partial": "∂", "nabla": "∇",
	"sum": "∑", "prod": "∏", "int": "∫",
	"rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"in": "∈", "notin": "∉", "subset": "⊂", "cup": "∪", "cap": "∩",
	"forall": "∀", "exists": "∃",
}

type texParser struct {
	input []rune
	pos   int
}

func convertTeX(tex string) (string, error) {
	p := &texParser{input: []rune(strings.TrimSpace(tex))}
	var b strings.Builder
	if err := p.convert(&b, func(r rune) bool { return false }); err != nil {
		return "", err
	}
	return b.String(), nil
}

func mathRun(text string) string {
	var b strings.Builder
	b.WriteString("<m:r><m:t xml:space=\"preserve\">")
	for _, r := range text {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("</m:t></m:r>")
	return b.String()
}

// convert emits elements until EOF or the stop predicate matches.
func (p *texParser) convert(b *strings.Builder, stop func(rune) bool) error {
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			b.WriteString(mathRun(text.String()))
			text.Reset()
		}
	}

	for p.pos < len(p.input) {
		r := p.input[p.pos]
		if stop(r) {
			break
		}
		switch r {
		case '\\':
			flush()
			if err := p.convertCommand(b); err != nil {
				return err
			}
		case '^', '_':
			// The script base is the last pending character, or the
			// whole emitted element when the base was a group or
			// command (e.g. \frac{a}{b}^2).
			var base string
			if text.Len() > 0 {
				runes := []rune(text.String())
				base = mathRun(string(runes[len(runes)-1]))
				if rest := string(runes[:len(runes)-1]); rest != "" {
					b.WriteString(mathRun(rest))
				}
				text.Reset()
			} else {
				base = b.String()
				b.Reset()
			}
			if err := p.convertScript(b, r, base); err != nil {
				return err
			}
		case '{':
			flush()
			p.pos++
			if err := p.convert(b, func(r rune) bool { return r == '}' }); err != nil {
				return err
			}
			if p.pos >= len(p.input) || p.input[p.pos] != '}' {
				return fmt.Errorf("unbalanced brace")
			}
			p.pos++
		default:
			text.WriteRune(r)
			p.pos++
		}
	}
	flush()
	return nil
}

// group reads either a braced group or a single token as OMML.
func (p *texParser) group() (string, error) {
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("unexpected end of input")
	}
	var b strings.Builder
	if p.input[p.pos] == '{' {
		p.pos++
		if err := p.convert(&b, func(r rune) bool { return r == '}' }); err != nil {
			return "", err
		}
		if p.pos >= len(p.input) || p.input[p.pos] != '}' {
			return "", fmt.Errorf("unbalanced brace")
		}
		p.pos++
		return b.String(), nil
	}
	if p.input[p.pos] == '\\' {
		if err := p.convertCommand(&b); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	b.WriteString(mathRun(string(p.input[p.pos])))
	p.pos++
	return b.String(), nil
}

func (p *texParser) readCommandName() string {
	start := p.pos
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			p.pos++
		} else {
			break
		}
	}
	return string(p.input[start:p.pos])
}

func (p *texParser) convertCommand(b *strings.Builder) error {
	p.pos++ // consume backslash
	if p.pos >= len(p.input) {
		return fmt.Errorf("trailing backslash")
	}
	// Escaped single character: \{ \} \\ etc.
	if r := p.input[p.pos]; !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
		b.WriteString(mathRun(string(r)))
		p.pos++
		return nil
	}

	name := p.readCommandName()
	switch name {
	case "frac":
		num, err := p.group()
		if err != nil {
			return err
		}
		den, err := p.group()
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "<m:f><m:num>%s</m:num><m:den>%s</m:den></m:f>", num, den)
	case "sqrt":
		arg, err := p.group()
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "<m:rad><m:radPr><m:degHide m:val=\"1\"/></m:radPr><m:deg/><m:e>%s</m:e></m:rad>", arg)
	case "text", "mathrm":
		arg, err := p.group()
		if err != nil {
			return err
		}
		b.WriteString(arg)
	case "left", "right":
		// Sizing commands: emit the delimiter that follows literally.
		if p.pos < len(p.input) {
			d := p.input[p.pos]
			if d != '.' {
				b.WriteString(mathRun(string(d)))
			}
			p.pos++
		}
	default:
		if sym, ok := texSymbols[name]; ok {
			b.WriteString(mathRun(sym))
		} else {
			// Unknown command degrades to its literal name.
			b.WriteString(mathRun(name))
		}
	}
	return nil
}

func (p *texParser) convertScript(b *strings.Builder, op rune, base string) error {
	p.pos++ // consume ^ or _
	script, err := p.group()
	if err != nil {
		return err
	}

	if op == '^' {
		fmt.Fprintf(b, "<m:sSup><m:e>%s</m:e><m:sup>%s</m:sup></m:sSup>", base, script)
	} else {
		fmt.Fprintf(b, "<m:sSub><m:e>%s</m:e><m:sub>%s</m:sub></m:sSub>", base, script)
	}
	return nil
}

// LiteralMathText renders the fallback form of a math block: the raw
// LaTeX presented as code-styled text.
func LiteralMathText(tex string) string {
	return strings.TrimSpace(tex)
}
