// Package dom reads conversation pages: it finds the message cards and the
// source guide in an HTML document and answers the export request the way
// the in-page routine does.
package dom

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

// ErrSourceGuideNotFound is returned when the page has no source guide.
var ErrSourceGuideNotFound = errors.New("source guide not found on page")

// Selectors locate the parts of a conversation page. Class fields are bare
// class names; the others are CSS selectors.
type Selectors struct {
	Card           string `yaml:"Card" json:"card"`
	UserClass      string `yaml:"UserClass" json:"userClass"`
	AssistantClass string `yaml:"AssistantClass" json:"assistantClass"`
	UserText       string `yaml:"UserText" json:"userText"`
	Paragraph      string `yaml:"Paragraph" json:"paragraph"`
	BulletClass    string `yaml:"BulletClass" json:"bulletClass"`
	Span           string `yaml:"Span" json:"span"`
	CitationClass  string `yaml:"CitationClass" json:"citationClass"`
	SourceGuide    string `yaml:"SourceGuide" json:"sourceGuide"`
}

// DefaultSelectors matches the markup of the notebook chat page.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:           "mat-card",
		UserClass:      "from-user-message-card-content",
		AssistantClass: "to-user-message-card-content",
		UserText:       ".message-text-content",
		Paragraph:      ".paragraph",
		BulletClass:    "bullet",
		Span:           "span",
		CitationClass:  "citation-marker",
		SourceGuide:    ".source-guide-container",
	}
}

// merged fills empty fields from the defaults.
func (s Selectors) merged() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.Card, d.Card)
	fill(&s.UserClass, d.UserClass)
	fill(&s.AssistantClass, d.AssistantClass)
	fill(&s.UserText, d.UserText)
	fill(&s.Paragraph, d.Paragraph)
	fill(&s.BulletClass, d.BulletClass)
	fill(&s.Span, d.Span)
	fill(&s.CitationClass, d.CitationClass)
	fill(&s.SourceGuide, d.SourceGuide)
	return s
}

// Page is a parsed conversation page. It is never modified.
type Page struct {
	doc *goquery.Document
	sel Selectors
}

// Parse reads an HTML document.
func Parse(r io.Reader, sel Selectors) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parsing page: %w", err)
	}
	return &Page{doc: doc, sel: sel.merged()}, nil
}

// ParseString reads an HTML document held in memory.
func ParseString(doc string, sel Selectors) (*Page, error) {
	return Parse(strings.NewReader(doc), sel)
}

// Cards returns every message card in document order.
func (p *Page) Cards() []transcript.Card {
	var cards []transcript.Card
	p.doc.Find(p.sel.Card).Each(func(_ int, s *goquery.Selection) {
		switch {
		case s.HasClass(p.sel.UserClass):
			cards = append(cards, p.userCard(s))
		case s.HasClass(p.sel.AssistantClass):
			cards = append(cards, p.assistantCard(s))
		default:
			class, _ := s.Attr("class")
			cards = append(cards, transcript.OtherCard{Class: class})
		}
	})
	return cards
}

func (p *Page) userCard(s *goquery.Selection) transcript.UserCard {
	payload := s.Find(p.sel.UserText).First()
	return transcript.UserCard{Text: strings.TrimSpace(payload.Text())}
}

func (p *Page) assistantCard(s *goquery.Selection) transcript.AssistantCard {
	var card transcript.AssistantCard
	s.Find(p.sel.Paragraph).Each(func(_ int, para *goquery.Selection) {
		card.Paragraphs = append(card.Paragraphs, transcript.Paragraph{
			Spans:  p.spans(para),
			Bullet: para.HasClass(p.sel.BulletClass),
		})
	})
	return card
}

// spans collects the outermost spans of a paragraph that are not citation
// markers. Text inside a citation marker never reaches the transcript, and
// nested spans are read once through their outermost ancestor.
func (p *Page) spans(para *goquery.Selection) []string {
	citation := "." + p.sel.CitationClass
	var texts []string
	para.Find(p.sel.Span).Each(func(_ int, span *goquery.Selection) {
		if span.HasClass(p.sel.CitationClass) {
			return
		}
		if span.ParentsUntilSelection(para).Filter(p.sel.Span).Length() > 0 {
			return
		}
		text := span.Text()
		if span.Find(citation).Length() > 0 {
			text = span.Clone().Find(citation).Remove().End().Text()
		}
		texts = append(texts, text)
	})
	return texts
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// SourceGuide returns the text of the source guide header and of the
// content block that follows it, one line per block of text.
func (p *Page) SourceGuide() (header, content string, err error) {
	container := p.doc.Find(p.sel.SourceGuide).First()
	body := p.doc.Find(p.sel.SourceGuide + " + div").First()
	if container.Length() == 0 && body.Length() == 0 {
		return "", "", ErrSourceGuideNotFound
	}
	return blockText(container), blockText(body), nil
}

var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true, "code": true,
	"em": true, "i": true, "mark": true, "q": true, "s": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "u": true,
}

func blockText(s *goquery.Selection) string {
	var lines []string
	collectText(s, &lines)
	return excessNewlines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}

// collectText emits the text of every element that holds only inline
// content, descending into elements that contain nested blocks.
func collectText(s *goquery.Selection, lines *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		node := c.Get(0)
		switch node.Type {
		case html.TextNode:
			if t := strings.TrimSpace(node.Data); t != "" {
				*lines = append(*lines, t)
			}
		case html.ElementNode:
			switch node.Data {
			case "script", "style", "template":
				return
			}
			if hasBlockChild(c) {
				collectText(c, lines)
				return
			}
			if t := strings.TrimSpace(c.Text()); t != "" {
				*lines = append(*lines, t)
			}
		}
	})
}

func hasBlockChild(s *goquery.Selection) bool {
	return s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
		return !inline[goquery.NodeName(c)]
	}).Length() > 0
}
