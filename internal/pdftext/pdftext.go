// Package pdftext reads the text back out of exported PDF files.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// ReadFile returns the plain text of every page of the PDF at path.
func ReadFile(path string) ([]string, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: opening %s: %w", path, err)
	}
	defer f.Close()
	return pages(r)
}

// ReadBytes returns the plain text of every page of an in-memory PDF.
func ReadBytes(data []byte) ([]string, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read returns the plain text of every page of a PDF of the given size.
func Read(ra io.ReaderAt, size int64) ([]string, error) {
	r, err := pdflib.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("pdftext: %w", err)
	}
	return pages(r)
}

// pages extracts each page in order. A page that cannot be decoded reads
// as empty so page numbers stay aligned.
func pages(r *pdflib.Reader) (out []string, err error) {
	// The reader panics on some malformed object graphs.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("pdftext: malformed document: %v", p)
		}
	}()

	n := r.NumPage()
	out = make([]string, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		out[i-1] = text
	}
	return out, nil
}

// IsPDF reports whether path starts with the PDF signature.
func IsPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return string(head) == "%PDF-"
}
