package dom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/porticus-lab/convo-pdf/internal/message"
	"github.com/porticus-lab/convo-pdf/internal/toc"
	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

// ErrNotesUnavailable is returned for notes exports, which have no reader.
var ErrNotesUnavailable = errors.New("notes extraction is not available")

// Routine answers export requests against a page. It holds no state
// between requests.
type Routine struct {
	sel Selectors
	log logrus.FieldLogger
}

// NewRoutine returns a routine using sel. A nil logger discards output.
func NewRoutine(sel Selectors, log logrus.FieldLogger) *Routine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Routine{sel: sel, log: log}
}

// Handle runs req against the HTML document doc. Every failure is reported
// in the response; Handle itself never fails.
func (r *Routine) Handle(ctx context.Context, doc string, req message.Request) message.Response {
	if err := ctx.Err(); err != nil {
		return message.Failure(err)
	}
	if req.Action != message.ActionDownloadPDF {
		return message.Failure(fmt.Errorf("unsupported action %q", req.Action))
	}

	log := r.log.WithField("type", req.Options.Type)
	page, err := ParseString(doc, r.sel)
	if err != nil {
		log.WithError(err).Error("Error extracting text")
		return message.Failure(err)
	}

	var resp message.Response
	switch req.Options.Type {
	case message.Conversation:
		resp = r.conversation(page, req.Options, log)
	case message.Sources:
		resp = r.sources(page, log)
	case message.Notes:
		resp = message.Failure(ErrNotesUnavailable)
	default:
		resp = message.Failure(fmt.Errorf("unknown download type %q", req.Options.Type))
	}
	if !resp.Success {
		log.WithField("error", resp.Error).Error("Error extracting text")
		return resp
	}
	log.WithField("length", len(resp.Text)).Debug("Extracted text")
	return resp
}

func (r *Routine) conversation(page *Page, opts message.Options, log logrus.FieldLogger) message.Response {
	cards := page.Cards()
	log.WithField("cards", len(cards)).Debug("Found message cards")

	blocks := transcript.ExtractTurns(cards, transcript.Options{ExcludeUser: opts.GptOnly})
	resp := message.Response{
		Success: true,
		Text:    transcript.Join(blocks),
		Blocks:  blocks,
	}
	if opts.AddToc {
		resp.Toc = toc.Build(blocks)
		log.WithField("entries", len(resp.Toc)).Debug("Generated table of contents")
	}
	return resp
}

func (r *Routine) sources(page *Page, log logrus.FieldLogger) message.Response {
	header, content, err := page.SourceGuide()
	if err != nil {
		return message.Failure(err)
	}
	text := strings.TrimSpace(header + "\n\n" + content)
	resp := message.Response{Success: true, Text: text}
	if text != "" {
		resp.Blocks = []transcript.Block{{Text: text, Style: transcript.StyleAIMessage}}
	}
	log.WithField("header", len(header)).WithField("content", len(content)).Debug("Read source guide")
	return resp
}
