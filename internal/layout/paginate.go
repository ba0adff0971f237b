// Package layout fits transcript text onto fixed-size pages.
package layout

import (
	"strings"

	"github.com/porticus-lab/convo-pdf/internal/toc"
	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

// TocHeader is the heading printed above the table of contents.
const TocHeader = "Table of Contents"

const (
	// DefaultLineHeight is the fixed baseline-to-baseline distance in
	// millimetres. It does not depend on the font.
	DefaultLineHeight = 7

	tocHeaderAdvance = 10
)

// Page is the geometry of one output page. Lengths are millimetres and
// FontSize is in points.
type Page struct {
	Width      float64
	Height     float64
	Margin     float64
	LineHeight float64
	FontSize   float64
}

// UsableWidth is the page width between the margins.
func (p Page) UsableWidth() float64 {
	return p.Width - 2*p.Margin
}

// Line is a piece of text placed on a page. Y is the baseline.
type Line struct {
	Text string
	Page int
	X    float64
	Y    float64
	Bold bool
	Size float64
}

// Break records that a new page starts before Lines[BeforeLine].
type Break struct {
	BeforeLine int
	Page       int
}

// Plan is the paginated document, ready to be drawn.
type Plan struct {
	Page   Page
	Lines  []Line
	Breaks []Break
	Pages  int
}

// Document is what gets paginated.
type Document struct {
	Blocks []transcript.Block
	// Contents is printed on its own pages ahead of the transcript when
	// WithContents is set, even if it has no entries.
	Contents     []toc.Entry
	WithContents bool
}

// Paginate wraps the document to the usable page width and breaks it into
// pages. A line is moved to a new page when placing it would cross the
// bottom margin.
func Paginate(doc Document, pg Page, m Measurer) Plan {
	if pg.LineHeight <= 0 {
		pg.LineHeight = DefaultLineHeight
	}
	p := &paginator{
		pg:   pg,
		m:    m,
		plan: Plan{Page: pg},
		cur:  cursor{y: pg.Margin, page: 1},
	}

	if doc.WithContents {
		p.place(TocHeader, true, tocHeaderAdvance)
		for _, e := range doc.Contents {
			p.paragraph(e.Line(), false)
		}
		p.newPage()
	}

	for i, b := range doc.Blocks {
		if i > 0 {
			p.paragraph("", false)
		}
		bold := b.Style == transcript.StyleUserMessage
		for _, para := range strings.Split(b.Text, "\n") {
			p.paragraph(para, bold)
		}
	}

	p.plan.Pages = p.cur.page
	return p.plan
}

// cursor is the vertical position on the current page.
type cursor struct {
	y      float64
	page   int
	placed int
}

type paginator struct {
	pg   Page
	m    Measurer
	cur  cursor
	plan Plan
}

func (p *paginator) paragraph(text string, bold bool) {
	lines := p.m.SplitToSize(text, p.pg.UsableWidth(), bold)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, l := range lines {
		p.place(l, bold, p.pg.LineHeight)
	}
}

func (p *paginator) place(text string, bold bool, advance float64) {
	if p.cur.placed > 0 && p.cur.y+p.pg.LineHeight > p.pg.Height-p.pg.Margin {
		p.newPage()
	}
	p.plan.Lines = append(p.plan.Lines, Line{
		Text: text,
		Page: p.cur.page,
		X:    p.pg.Margin,
		Y:    p.cur.y,
		Bold: bold,
		Size: p.pg.FontSize,
	})
	p.cur.placed++
	p.cur.y += advance
}

func (p *paginator) newPage() {
	p.cur.page++
	p.cur.y = p.pg.Margin
	p.cur.placed = 0
	p.plan.Breaks = append(p.plan.Breaks, Break{BeforeLine: len(p.plan.Lines), Page: p.cur.page})
}
