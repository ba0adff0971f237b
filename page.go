package convopdf

import (
	"strings"

	"github.com/porticus-lab/convo-pdf/internal/layout"
)

// PageSize represents paper dimensions in millimetres.
type PageSize struct {
	Width  float64 // Width in millimetres.
	Height float64 // Height in millimetres.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 297, Height: 420}
	A4      = PageSize{Width: 210, Height: 297}
	A5      = PageSize{Width: 148, Height: 210}
	Letter  = PageSize{Width: 215.9, Height: 279.4}
	Legal   = PageSize{Width: 215.9, Height: 355.6}
	Tabloid = PageSize{Width: 279.4, Height: 431.8}
)

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape swaps the page width and height.
	Landscape
)

// PageConfig controls the geometry and typography of an exported document.
//
// A nil PageConfig or zero-value fields use the defaults of the export
// kind: A4 portrait, 7 mm lines, Helvetica, with a 20 mm margin and 11 pt
// text for conversations and a 15 mm margin and 12 pt text for source
// guides.
type PageConfig struct {
	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	// The landscape preference of an export overrides a portrait setting.
	Orientation Orientation

	// Margin is the blank border on every side, in millimetres.
	Margin float64

	// LineHeight is the baseline-to-baseline distance in millimetres.
	LineHeight float64

	// FontSize is the text size in points.
	FontSize float64

	// FontFamily is "helvetica" or "courier". Courier text is wrapped on
	// fixed columns.
	FontFamily string
}

// DefaultPageConfig returns the page settings of a conversation export.
func DefaultPageConfig() PageConfig {
	return defaultPageConfig(Conversation)
}

func defaultPageConfig(kind Kind) PageConfig {
	pc := PageConfig{
		Size:        A4,
		Orientation: Portrait,
		Margin:      20,
		LineHeight:  layout.DefaultLineHeight,
		FontSize:    11,
		FontFamily:  "helvetica",
	}
	if kind == Sources {
		pc.Margin = 15
		pc.FontSize = 12
	}
	return pc
}

// resolved returns a PageConfig with all zero values replaced by the
// conversation defaults.
func (p *PageConfig) resolved() PageConfig {
	return p.resolvedFor(Conversation)
}

// resolvedFor returns a PageConfig with all zero values replaced by the
// defaults of kind.
func (p *PageConfig) resolvedFor(kind Kind) PageConfig {
	d := defaultPageConfig(kind)
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Margin <= 0 {
		r.Margin = d.Margin
	}
	if r.LineHeight <= 0 {
		r.LineHeight = d.LineHeight
	}
	if r.FontSize <= 0 {
		r.FontSize = d.FontSize
	}
	r.FontFamily = strings.ToLower(r.FontFamily)
	if r.FontFamily == "" {
		r.FontFamily = d.FontFamily
	}
	return r
}

// mmToInches converts millimetres to inches.
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// paperSize returns the sheet size in millimetres, accounting for
// orientation.
func (p *PageConfig) paperSize() PageSize {
	r := p.resolved()
	if r.Orientation == Landscape {
		return PageSize{Width: r.Size.Height, Height: r.Size.Width}
	}
	return r.Size
}

// layoutPage is the geometry handed to the line fitter.
func (p *PageConfig) layoutPage() layout.Page {
	r := p.resolved()
	size := p.paperSize()
	return layout.Page{
		Width:      size.Width,
		Height:     size.Height,
		Margin:     r.Margin,
		LineHeight: r.LineHeight,
		FontSize:   r.FontSize,
	}
}

// measurer picks the line wrapper matching the font family.
func (p *PageConfig) measurer() layout.Measurer {
	r := p.resolved()
	if r.FontFamily == "courier" {
		// Courier glyphs are 600 units wide.
		return layout.Monospace{CharWidth: 0.6 * r.FontSize * layout.PointsToMM}
	}
	return layout.Helvetica{FontSize: r.FontSize}
}
