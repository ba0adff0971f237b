// Package transcript turns the message cards of a chat page into an ordered
// stream of styled text blocks.
package transcript

import "strings"

// Options tunes extraction.
type Options struct {
	// ExcludeUser drops user turns so only assistant replies remain.
	ExcludeUser bool
}

// ExtractTurns converts cards, in document order, into styled blocks. A
// spacer is emitted only between two content blocks: cards that yield no
// text produce neither a block nor a spacer.
func ExtractTurns(cards []Card, opts Options) []Block {
	var blocks []Block
	for _, c := range cards {
		b, ok := turn(c, opts)
		if !ok {
			continue
		}
		if len(blocks) > 0 {
			blocks = append(blocks, Spacer())
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func turn(c Card, opts Options) (Block, bool) {
	switch c := c.(type) {
	case UserCard:
		return userTurn(c, opts)
	case *UserCard:
		return userTurn(*c, opts)
	case AssistantCard:
		return assistantTurn(c)
	case *AssistantCard:
		return assistantTurn(*c)
	}
	return Block{}, false
}

func userTurn(c UserCard, opts Options) (Block, bool) {
	text := strings.TrimSpace(c.Text)
	if text == "" || opts.ExcludeUser {
		return Block{}, false
	}
	return Block{Text: UserPrefix + text, Style: StyleUserMessage}, true
}

func assistantTurn(c AssistantCard) (Block, bool) {
	var acc accumulator
	for i, p := range c.Paragraphs {
		acc.add(Classify(p.Text(), p.Bullet, i == 0))
	}
	text := acc.String()
	if text == "" {
		return Block{}, false
	}
	return Block{Text: text, Style: StyleAIMessage}, true
}
