package convopdf

import (
	"fmt"
	"strings"

	"github.com/porticus-lab/convo-pdf/internal/message"
	"github.com/porticus-lab/convo-pdf/internal/toc"
	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

type (
	// Kind selects what an export reads from the page.
	Kind = message.Kind
	// Options are the export toggles.
	Options = message.Options
	// Request is a message to the page routine.
	Request = message.Request
	// Response is the page routine's answer.
	Response = message.Response
	// Block is one styled block of the transcript.
	Block = transcript.Block
	// TocEntry is one line of the table of contents.
	TocEntry = toc.Entry
)

// Export kinds.
const (
	Conversation = message.Conversation
	Notes        = message.Notes
	Sources      = message.Sources
)

// ParseKind converts a type name as used on the command line and in API
// requests.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Conversation, Notes, Sources:
		return k, nil
	case "source", "source_guide", "sourceguide":
		return Sources, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}
