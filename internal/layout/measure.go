package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// PointsToMM converts typographic points to millimetres.
const PointsToMM = 25.4 / 72

// Measurer splits text into lines no wider than maxWidth. Width units are
// those of the page geometry (millimetres for the built-in measurers).
type Measurer interface {
	SplitToSize(text string, maxWidth float64, bold bool) []string
}

// Helvetica measures text with the metrics of the standard Helvetica faces
// at FontSize points.
type Helvetica struct {
	FontSize float64
}

// Width returns the advance width of s in millimetres.
func (h Helvetica) Width(s string, bold bool) float64 {
	units := 0
	for _, r := range s {
		units += helveticaAdvance(r, bold)
	}
	return float64(units) / 1000 * h.FontSize * PointsToMM
}

// SplitToSize wraps text on word boundaries. Existing newlines are kept,
// an empty paragraph yields an empty line, and a word wider than the line
// is broken between characters.
func (h Helvetica) SplitToSize(text string, maxWidth float64, bold bool) []string {
	width := func(s string) float64 { return h.Width(s, bold) }
	var lines []string
	for _, p := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(p, maxWidth, width)...)
	}
	return lines
}

func wrapParagraph(p string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   strings.Builder
		curW  float64
	)
	spaceW := width(" ")
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
	}

	for _, w := range words {
		ww := width(w)
		for ww > maxWidth && utf8.RuneCountInString(w) > 1 {
			flush()
			head, tail := splitAtWidth(w, maxWidth, width)
			lines = append(lines, head)
			w, ww = tail, width(tail)
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
			curW = ww
		case curW+spaceW+ww <= maxWidth:
			cur.WriteByte(' ')
			cur.WriteString(w)
			curW += spaceW + ww
		default:
			flush()
			cur.WriteString(w)
			curW = ww
		}
	}
	flush()
	return lines
}

// splitAtWidth cuts the longest prefix of w that fits, always at least one
// character.
func splitAtWidth(w string, maxWidth float64, width func(string) float64) (string, string) {
	total := 0.0
	for i, r := range w {
		rw := width(string(r))
		if i > 0 && total+rw > maxWidth {
			return w[:i], w[i:]
		}
		total += rw
	}
	return w, ""
}

// Monospace wraps text on a fixed character grid, for plain-text output
// where every glyph has the same advance.
type Monospace struct {
	CharWidth float64
}

// SplitToSize wraps on word boundaries and hard-breaks words longer than a
// full line.
func (m Monospace) SplitToSize(text string, maxWidth float64, _ bool) []string {
	cols := 1
	if m.CharWidth > 0 {
		if n := int(maxWidth / m.CharWidth); n > 1 {
			cols = n
		}
	}
	return strings.Split(wrap.String(wordwrap.String(text, cols), cols), "\n")
}
