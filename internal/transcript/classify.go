package transcript

import (
	"regexp"
	"strings"
)

// Kind is the formatting role of one assistant paragraph.
type Kind int

const (
	// KindRegular is a plain paragraph separated by a blank line.
	KindRegular Kind = iota
	// KindLead is the first paragraph of an assistant turn. It carries the
	// role label and seeds the turn text.
	KindLead
	// KindBullet is a list item or worked example, rendered with a bullet.
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindLead:
		return "lead"
	case KindBullet:
		return "bullet"
	default:
		return "regular"
	}
}

const (
	// AssistantPrefix labels the first paragraph of every assistant turn.
	AssistantPrefix = "Assistant: "
	// UserPrefix labels every user turn.
	UserPrefix = "User: "

	bulletGlyph   = "•"
	examplePrefix = "Example"
)

var leadingBullet = regexp.MustCompile(`^•\s*`)

// Classified is a paragraph after classification.
type Classified struct {
	Kind Kind
	Text string
}

// Classify decides how a paragraph of an assistant turn is laid out. first
// reports whether this is the turn's opening paragraph, which is always the
// lead regardless of its content.
func Classify(text string, bulletMarked, first bool) Classified {
	if first {
		return Classified{Kind: KindLead, Text: AssistantPrefix + text}
	}
	trimmed := strings.TrimSpace(text)
	if bulletMarked || strings.HasPrefix(trimmed, bulletGlyph) || strings.HasPrefix(trimmed, examplePrefix) {
		return Classified{Kind: KindBullet, Text: leadingBullet.ReplaceAllString(trimmed, "")}
	}
	return Classified{Kind: KindRegular, Text: text}
}

// Separator is what goes between the accumulated turn text and this
// paragraph.
func (c Classified) Separator() string {
	switch c.Kind {
	case KindLead:
		return ""
	case KindBullet:
		return "\n\n" + bulletGlyph + " "
	default:
		return "\n\n"
	}
}

// accumulator collects the paragraphs of one assistant turn.
type accumulator struct {
	buf strings.Builder
}

func (a *accumulator) add(c Classified) {
	a.buf.WriteString(c.Separator())
	a.buf.WriteString(c.Text)
}

func (a *accumulator) String() string {
	return CleanParagraphs(a.buf.String())
}
