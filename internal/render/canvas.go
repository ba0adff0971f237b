// Package render draws a paginated plan onto a page canvas.
package render

import (
	"github.com/porticus-lab/convo-pdf/internal/layout"
)

// Font styles understood by SetFont.
const (
	StyleNormal = "normal"
	StyleBold   = "bold"
)

// Canvas is the drawing surface a plan is replayed onto. Coordinates are
// millimetres from the top-left corner of the current page; y is the
// baseline of the text.
type Canvas interface {
	AddPage()
	SetFont(family, style string)
	SetFontSize(pt float64)
	Text(s string, x, y float64)
}

// Draw replays plan onto c. The canvas is expected to start on its first
// page; a page is added for every page the plan spans after that, including
// pages that end up holding no text.
func Draw(plan layout.Plan, c Canvas, family string) {
	var (
		page    = 1
		style   string
		size    float64
		started bool
	)
	for _, l := range plan.Lines {
		for page < l.Page {
			c.AddPage()
			page++
		}
		if l.Text == "" {
			continue
		}

		want := StyleNormal
		if l.Bold {
			want = StyleBold
		}
		if !started || want != style {
			c.SetFont(family, want)
			style = want
		}
		if !started || l.Size != size {
			c.SetFontSize(l.Size)
			size = l.Size
		}
		started = true
		c.Text(l.Text, l.X, l.Y)
	}
	for page < plan.Pages {
		c.AddPage()
		page++
	}
}
