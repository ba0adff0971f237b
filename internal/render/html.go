package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/porticus-lab/convo-pdf/internal/layout"
)

// ascent is the share of the font size above the baseline, used to turn a
// baseline y into the top edge of a positioned run.
const ascent = 0.8

var fontStacks = map[string]string{
	"helvetica": "Helvetica, Arial, sans-serif",
	"courier":   "Courier, 'Courier New', monospace",
	"times":     "'Times New Roman', Times, serif",
}

// HTMLCanvas draws onto an HTML document made of fixed-size page boxes with
// absolutely positioned text runs. Chrome prints it one box per sheet.
type HTMLCanvas struct {
	width, height float64

	doc   *html.Node
	body  *html.Node
	pages []*html.Node

	family string
	style  string
	size   float64
}

// NewHTMLCanvas returns a canvas whose pages are widthMM by heightMM. The
// first page already exists.
func NewHTMLCanvas(widthMM, heightMM float64) *HTMLCanvas {
	c := &HTMLCanvas{
		width:  widthMM,
		height: heightMM,
		family: "helvetica",
		style:  StyleNormal,
		size:   11,
	}
	c.doc, c.body = c.skeleton()
	c.AddPage()
	return c
}

func (c *HTMLCanvas) skeleton() (doc, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	meta := element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"})
	head.AppendChild(meta)
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: c.stylesheet()})
	head.AppendChild(style)
	root.AppendChild(head)

	body = element(atom.Body)
	root.AppendChild(body)
	return doc, body
}

func (c *HTMLCanvas) stylesheet() string {
	return fmt.Sprintf(`@page { size: %[1]smm %[2]smm; margin: 0 }
html, body { margin: 0; padding: 0 }
.page { position: relative; width: %[1]smm; height: %[2]smm; overflow: hidden; break-after: page }
.page:last-child { break-after: auto }
.run { position: absolute; white-space: pre; line-height: 1 }
`, mm(c.width), mm(c.height))
}

// AddPage starts a new page box.
func (c *HTMLCanvas) AddPage() {
	page := element(atom.Div, html.Attribute{Key: "class", Val: "page"})
	c.body.AppendChild(page)
	c.pages = append(c.pages, page)
}

// SetFont selects the family ("helvetica", "courier", "times" or any CSS
// family) and style (StyleNormal or StyleBold) of the next runs.
func (c *HTMLCanvas) SetFont(family, style string) {
	c.family = family
	c.style = style
}

// SetFontSize sets the size in points of the next runs.
func (c *HTMLCanvas) SetFontSize(pt float64) {
	c.size = pt
}

// Text places s with its baseline at y on the current page.
func (c *HTMLCanvas) Text(s string, x, y float64) {
	top := y - c.size*layout.PointsToMM*ascent
	css := fmt.Sprintf("left: %smm; top: %smm; font-family: %s; font-size: %spt",
		mm(x), mm(top), fontStack(c.family), mm(c.size))
	if c.style == StyleBold {
		css += "; font-weight: bold"
	}
	run := element(atom.Div,
		html.Attribute{Key: "class", Val: "run"},
		html.Attribute{Key: "style", Val: css},
	)
	run.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	c.pages[len(c.pages)-1].AppendChild(run)
}

// Pages is the number of page boxes drawn so far.
func (c *HTMLCanvas) Pages() int {
	return len(c.pages)
}

// Size is the page size in millimetres.
func (c *HTMLCanvas) Size() (widthMM, heightMM float64) {
	return c.width, c.height
}

// Render writes the document.
func (c *HTMLCanvas) Render(w io.Writer) error {
	if err := html.Render(w, c.doc); err != nil {
		return fmt.Errorf("render: writing document: %w", err)
	}
	return nil
}

// HTML returns the document as a string.
func (c *HTMLCanvas) HTML() (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func fontStack(family string) string {
	if s, ok := fontStacks[strings.ToLower(family)]; ok {
		return s
	}
	return family
}

// mm formats a length with at most two decimals and no trailing zeros.
func mm(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
