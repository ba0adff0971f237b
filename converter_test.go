package convopdf_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	convopdf "github.com/porticus-lab/convo-pdf"
	"github.com/porticus-lab/convo-pdf/internal/pdftext"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T, opts ...convopdf.Option) *convopdf.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := convopdf.NewConverter(append([]convopdf.Option{convopdf.WithNoSandbox()}, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func TestPrintHTML_Basic(t *testing.T) {
	c := newTestConverter(t)

	data, err := c.PrintHTML(context.Background(), "<h1>Hello World</h1>", convopdf.A4)
	if err != nil {
		t.Fatalf("PrintHTML: %v", err)
	}
	if !isPDF(data) {
		t.Fatal("output is not a valid PDF")
	}
	if len(data) < 100 {
		t.Errorf("PDF unexpectedly small: %d bytes", len(data))
	}
}

func TestAllPageSizes(t *testing.T) {
	c := newTestConverter(t)

	sizes := []struct {
		name string
		size convopdf.PageSize
	}{
		{"A3", convopdf.A3},
		{"A4", convopdf.A4},
		{"A5", convopdf.A5},
		{"Letter", convopdf.Letter},
		{"Legal", convopdf.Legal},
		{"Tabloid", convopdf.Tabloid},
	}

	for _, s := range sizes {
		t.Run(s.name, func(t *testing.T) {
			data, err := c.PrintHTML(context.Background(), "<p>"+s.name+"</p>", s.size)
			if err != nil {
				t.Fatalf("PrintHTML(%s): %v", s.name, err)
			}
			if !isPDF(data) {
				t.Fatalf("%s: output is not a valid PDF", s.name)
			}
		})
	}
}

func TestFetchFile(t *testing.T) {
	c := newTestConverter(t, convopdf.WithWaitFor("mat-card"))

	path := filepath.Join(t.TempDir(), "chat.html")
	page := `<html><body><div id="root"></div><script>
document.getElementById("root").innerHTML =
  '<mat-card class="from-user-message-card-content"><div class="message-text-content">built by script</div></mat-card>';
</script></body></html>`
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := c.FetchFile(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if !strings.Contains(doc, "built by script") {
		t.Error("fetched document does not contain the scripted content")
	}
}

func TestFetchFile_NotFound(t *testing.T) {
	c := newTestConverter(t)

	if _, err := c.FetchFile(context.Background(), "/nonexistent/file.html"); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestFetchHTML_InvalidURL(t *testing.T) {
	c := newTestConverter(t)

	if _, err := c.FetchHTML(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestConverter_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := convopdf.NewConverter(convopdf.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConverter_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := convopdf.NewConverter(convopdf.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	if _, err := c.PrintHTML(context.Background(), "<p>test</p>", convopdf.A4); !errors.Is(err, convopdf.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := c.FetchHTML(context.Background(), "https://example.com"); !errors.Is(err, convopdf.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	c := newTestConverter(t)
	e := convopdf.NewExporter(c)

	res, err := e.ExportWithOptions(context.Background(), convopdf.FileSource("testdata/chat.html"), convopdf.Options{
		Type:   convopdf.Conversation,
		AddToc: true,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}

	pages, err := pdftext.ReadBytes(res.Bytes())
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(pages) != res.Pages() {
		t.Fatalf("PDF has %d pages, layout planned %d", len(pages), res.Pages())
	}
	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
	if !strings.Contains(squash(pages[0]), "TableofContents") {
		t.Errorf("first page does not hold the table of contents: %q", pages[0])
	}
	if !strings.Contains(squash(pages[1]), "Howdotideswork") {
		t.Errorf("second page does not hold the transcript: %q", pages[1])
	}
}

func TestExport_PackageLevel(t *testing.T) {
	skipIfNoChrome(t)

	res, err := convopdf.Export(
		context.Background(),
		convopdf.FileSource("testdata/chat.html"),
		convopdf.Options{Type: convopdf.Sources},
		convopdf.WithNoSandbox(),
	)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if res.Filename() != "source_guide.pdf" {
		t.Errorf("filename = %q", res.Filename())
	}
}
