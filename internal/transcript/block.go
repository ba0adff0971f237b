package transcript

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Style selects how a block is rendered.
type Style int

const (
	StyleSpacer Style = iota
	StyleUserMessage
	StyleAIMessage
)

var styleNames = map[Style]string{
	StyleSpacer:      "spacer",
	StyleUserMessage: "userMessage",
	StyleAIMessage:   "aiMessage",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// MarshalText encodes the style by its payload name.
func (s Style) MarshalText() ([]byte, error) {
	name, ok := styleNames[s]
	if !ok {
		return nil, fmt.Errorf("transcript: unknown style %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a payload style name.
func (s *Style) UnmarshalText(b []byte) error {
	for style, name := range styleNames {
		if name == string(b) {
			*s = style
			return nil
		}
	}
	return fmt.Errorf("transcript: unknown style %q", b)
}

// SpacerText is the text of every spacer block.
const SpacerText = "\n\n"

// Block is a unit of transcript text tagged with its rendering style.
// Blocks are values and are never modified after extraction.
type Block struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Spacer returns the block placed between two turns.
func Spacer() Block {
	return Block{Text: SpacerText, Style: StyleSpacer}
}

// Len is the length of the block text in characters.
func (b Block) Len() int {
	return utf8.RuneCountInString(b.Text)
}

// Join concatenates block texts the way they are laid out on the page,
// separated by a blank line.
func Join(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n\n")
}
