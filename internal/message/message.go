// Package message defines the request and response exchanged between the
// control surface that triggers an export and the routine that reads the
// conversation page.
package message

import (
	"github.com/porticus-lab/convo-pdf/internal/toc"
	"github.com/porticus-lab/convo-pdf/internal/transcript"
)

// ActionDownloadPDF asks the page routine for the export payload.
const ActionDownloadPDF = "downloadPdf"

// Kind selects which part of the page is extracted.
type Kind string

const (
	Conversation Kind = "conversation"
	Notes        Kind = "notes"
	Sources      Kind = "sources"
)

// Filename is the name of the file produced for the kind.
func (k Kind) Filename() string {
	switch k {
	case Sources:
		return "source_guide.pdf"
	case Notes:
		return "notes.pdf"
	default:
		return "conversation.pdf"
	}
}

// Options are the export toggles, each independent of the others.
type Options struct {
	// RemoveLogo is accepted and passed along; nothing draws a logo.
	RemoveLogo    bool `json:"removeLogo"`
	LandscapeMode bool `json:"landscapeMode"`
	AddToc        bool `json:"addToc"`
	// GptOnly drops user turns from the transcript.
	GptOnly bool `json:"gptOnly"`
	Type    Kind `json:"type"`
}

// Request is sent to the page routine.
type Request struct {
	Action  string  `json:"action"`
	Options Options `json:"options"`
}

// Response is the page routine's answer. On failure only Error is set.
type Response struct {
	Success bool               `json:"success"`
	Text    string             `json:"text,omitempty"`
	Blocks  []transcript.Block `json:"blocks,omitempty"`
	Toc     []toc.Entry        `json:"toc,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Failure builds an unsuccessful response.
func Failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
