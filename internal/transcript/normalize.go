package transcript

import (
	"regexp"
	"strings"
)

// Whitespace classes match what strings.TrimSpace treats as space, so the
// regexp passes and the trim passes never disagree about a character.
const (
	space      = `[\s\v\x{85}\p{Z}]`
	horizontal = `[\t\v\f\r \x{85}\p{Z}]`
)

var (
	citationRun     = regexp.MustCompile(`(?:` + space + `*\d+)+` + space + `*$`)
	horizontalRun   = regexp.MustCompile(horizontal + `+`)
	afterNewline    = regexp.MustCompile(`\n` + horizontal + `+`)
	beforeNewline   = regexp.MustCompile(horizontal + `+\n`)
	newlineOverflow = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans a raw text fragment taken from a single span: it trims
// the fragment, strips the trailing citation numbers the page renders next
// to sourced sentences, and collapses every whitespace run (newlines
// included) to one space.
//
// A trailing sequence such as "claim 3 12" is one citation run, which keeps
// Normalize idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = citationRun.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// CleanParagraphs is the paragraph-level pass applied to an assembled
// assistant turn. Order matters: horizontal runs collapse first, then
// whitespace hugging a newline goes, then newline runs are capped at two.
func CleanParagraphs(s string) string {
	s = horizontalRun.ReplaceAllString(s, " ")
	s = afterNewline.ReplaceAllString(s, "\n")
	s = beforeNewline.ReplaceAllString(s, "\n")
	s = newlineOverflow.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
