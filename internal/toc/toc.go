// Package toc builds the table of contents of an exported transcript.
package toc

import (
	"fmt"
	"strings"

	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

const (
	// CharsPerPage is the fixed page-size estimate used to place entries.
	// It is a heuristic and is not measured from the rendered layout.
	CharsPerPage = 3000

	titleWords = 5
	ellipsis   = "..."
	leader     = " ................. "
)

// Entry is one line of the table of contents.
type Entry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Line formats the entry as it is printed.
func (e Entry) Line() string {
	return fmt.Sprintf("%s%s%d", e.Title, leader, e.Page)
}

// Build derives one entry per user turn, in transcript order. Page numbers
// are estimated from a running character cursor, so they never decrease.
// The first turn would estimate page 0; pages are clamped to start at 1.
func Build(blocks []transcript.Block) []Entry {
	var (
		entries []Entry
		cursor  int
	)
	for _, b := range blocks {
		if b.Style == transcript.StyleUserMessage {
			entries = append(entries, Entry{
				Title: Title(b.Text),
				Page:  estimatePage(cursor),
			})
		}
		cursor += b.Len() + 2
	}
	return entries
}

// Title shortens a user turn to its first few words.
func Title(text string) string {
	words := strings.Fields(strings.TrimPrefix(text, transcript.UserPrefix))
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + ellipsis
}

func estimatePage(cursor int) int {
	page := (cursor + CharsPerPage - 1) / CharsPerPage
	if page < 1 {
		return 1
	}
	return page
}
