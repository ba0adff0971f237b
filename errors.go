package convopdf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("convopdf: converter is closed")

	// ErrNoActiveTab is returned when an export has no page to read.
	ErrNoActiveTab = errors.New("no active tab found")

	// ErrExtractionFailed is returned when the page could not be read or
	// the page routine reported a failure.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyResult is returned when the page yielded no text.
	ErrEmptyResult = errors.New("no conversation text found to convert to PDF")

	// ErrRenderFailed is returned when drawing or printing the PDF failed.
	ErrRenderFailed = errors.New("error generating PDF")

	// ErrUnsupportedType is returned by [ParseKind] for an unknown export
	// type.
	ErrUnsupportedType = errors.New("unsupported download type")
)

// ExportError is the error returned by a failed export. Kind is one of the
// sentinel errors above and Err, when set, is the underlying cause. Both
// match with [errors.Is].
type ExportError struct {
	Kind error
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ExportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func exportError(kind, cause error) *ExportError {
	return &ExportError{Kind: kind, Err: cause}
}

// UserMessage returns the text shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ee *ExportError
	if !errors.As(err, &ee) {
		return "Error: " + err.Error()
	}
	switch ee.Kind {
	case ErrNoActiveTab:
		return "No active tab found"
	case ErrEmptyResult:
		return "No conversation text found to convert to PDF"
	case ErrRenderFailed:
		if ee.Err != nil {
			return "Error generating PDF: " + ee.Err.Error()
		}
		return "Error generating PDF"
	}
	if ee.Err != nil {
		return "Error: " + ee.Err.Error()
	}
	return "Error: " + ee.Kind.Error()
}
