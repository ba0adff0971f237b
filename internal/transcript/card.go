package transcript

import "strings"

// Card is one message card of the conversation page.
//
// The concrete variants are UserCard, AssistantCard and OtherCard; the
// extractor switches on them and skips anything it does not recognise.
type Card interface {
	isCard()
}

// UserCard is a turn written by the user: a single text payload.
type UserCard struct {
	Text string
}

// AssistantCard is a turn written by the assistant.
type AssistantCard struct {
	Paragraphs []Paragraph
}

// Paragraph is one paragraph node of an assistant turn. Spans holds the raw
// text of its inline spans in document order, citation markers already
// removed by the reader.
type Paragraph struct {
	Spans []string
	// Bullet is set when the page marks the paragraph as a list item.
	Bullet bool
}

// OtherCard is a card that matched neither role.
type OtherCard struct {
	Class string
}

func (UserCard) isCard()      {}
func (AssistantCard) isCard() {}
func (OtherCard) isCard()     {}

// Text joins the normalized span texts with single spaces. Spans that
// normalize to nothing (stray citation digits) are dropped.
func (p Paragraph) Text() string {
	parts := make([]string, 0, len(p.Spans))
	for _, s := range p.Spans {
		if n := Normalize(s); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}
