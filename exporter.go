package convopdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/porticus-lab/convo-pdf/internal/dom"
	"github.com/porticus-lab/convo-pdf/internal/layout"
	"github.com/porticus-lab/convo-pdf/internal/message"
	"github.com/porticus-lab/convo-pdf/internal/prefs"
	"github.com/porticus-lab/convo-pdf/internal/render"
)

// Printer turns a drawn HTML document into PDF bytes on sheets of the given
// size. [*Converter] is a Printer.
type Printer interface {
	PrintHTML(ctx context.Context, doc string, size PageSize) ([]byte, error)
}

// Fetcher reads the rendered document of a live page. [*Converter] is a
// Fetcher.
type Fetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// Source is the page an export reads.
type Source interface {
	HTML(ctx context.Context) (string, error)
}

// StaticSource is a page already held in memory.
type StaticSource string

func (s StaticSource) HTML(ctx context.Context) (string, error) {
	return string(s), ctx.Err()
}

// FileSource is a page saved to disk.
type FileSource string

func (s FileSource) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(string(s))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LiveSource is a page loaded through a browser. When Fetcher is nil the
// exporter's printer is used if it can fetch.
type LiveSource struct {
	URL     string
	Fetcher Fetcher
}

func (s LiveSource) HTML(ctx context.Context) (string, error) {
	if s.Fetcher == nil {
		return "", errors.New("no browser available to load " + s.URL)
	}
	return s.Fetcher.FetchHTML(ctx, s.URL)
}

// Exporter runs the export flow: it reads the stored preferences, asks the
// page routine for the transcript, lays it out, draws it and prints it.
//
// An Exporter holds no per-export state and is safe for concurrent use.
type Exporter struct {
	printer  Printer
	store    prefs.Store
	routine  *dom.Routine
	sel      dom.Selectors
	page     *PageConfig
	measurer layout.Measurer
	log      logrus.FieldLogger
}

// ExporterOption configures an [Exporter].
type ExporterOption func(*Exporter)

// WithPreferences sets the store the export toggles are read from.
// Defaults to an in-memory store holding the defaults.
func WithPreferences(s prefs.Store) ExporterOption {
	return func(e *Exporter) {
		e.store = s
	}
}

// WithSelectors overrides the selectors used to read the page.
func WithSelectors(sel dom.Selectors) ExporterOption {
	return func(e *Exporter) {
		e.sel = sel
	}
}

// WithPageConfig overrides the page geometry. Zero fields keep the
// defaults of the export kind.
func WithPageConfig(pc PageConfig) ExporterOption {
	return func(e *Exporter) {
		e.page = &pc
	}
}

// WithMeasurer replaces the line wrapper chosen from the font family.
func WithMeasurer(m layout.Measurer) ExporterOption {
	return func(e *Exporter) {
		e.measurer = m
	}
}

// WithExportLogger sets the logger. Defaults to discarding output.
func WithExportLogger(l logrus.FieldLogger) ExporterOption {
	return func(e *Exporter) {
		e.log = l
	}
}

// NewExporter returns an Exporter printing through p.
func NewExporter(p Printer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		printer: p,
		store:   &prefs.MemoryStore{},
		sel:     dom.DefaultSelectors(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	e.routine = dom.NewRoutine(e.sel, e.log)
	return e
}

// Export exports kind from src using the stored preferences.
func (e *Exporter) Export(ctx context.Context, src Source, kind Kind) (*Result, error) {
	p, err := e.store.Get(ctx, prefs.Defaults())
	if err != nil {
		e.log.WithError(err).Warn("Reading preferences failed, using defaults")
		p = prefs.Defaults()
	}
	return e.ExportWithOptions(ctx, src, p.Options(kind))
}

// ExportWithOptions exports from src with explicit options. The returned
// error is an [*ExportError]; nothing is produced on failure.
func (e *Exporter) ExportWithOptions(ctx context.Context, src Source, opts Options) (*Result, error) {
	log := e.log.WithField("type", opts.Type)
	res, err := e.export(ctx, src, opts, log)
	if err != nil {
		log.WithError(err).Error("Export failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":  res.Filename(),
		"pages": res.Pages(),
		"bytes": res.Len(),
	}).Info("Exported PDF")
	return res, nil
}

// Extract runs only the page routine and returns its response.
func (e *Exporter) Extract(ctx context.Context, src Source, opts Options) (Response, error) {
	doc, err := e.read(ctx, src)
	if err != nil {
		return message.Failure(err), err
	}
	return e.routine.Handle(ctx, doc, Request{Action: message.ActionDownloadPDF, Options: opts}), nil
}

func (e *Exporter) read(ctx context.Context, src Source) (string, error) {
	if src == nil {
		return "", exportError(ErrNoActiveTab, nil)
	}
	if live, ok := src.(LiveSource); ok && live.Fetcher == nil {
		if f, ok := e.printer.(Fetcher); ok {
			live.Fetcher = f
			src = live
		}
	}
	doc, err := src.HTML(ctx)
	if err != nil {
		return "", exportError(ErrExtractionFailed, err)
	}
	return doc, nil
}

func (e *Exporter) export(ctx context.Context, src Source, opts Options, log logrus.FieldLogger) (*Result, error) {
	doc, err := e.read(ctx, src)
	if err != nil {
		return nil, err
	}

	resp := e.routine.Handle(ctx, doc, Request{Action: message.ActionDownloadPDF, Options: opts})
	if !resp.Success {
		return nil, exportError(ErrExtractionFailed, errors.New(resp.Error))
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, exportError(ErrEmptyResult, nil)
	}

	pc := e.page.resolvedFor(opts.Type)
	if opts.LandscapeMode {
		pc.Orientation = Landscape
	}
	m := e.measurer
	if m == nil {
		m = pc.measurer()
	}

	plan := layout.Paginate(layout.Document{
		Blocks:       resp.Blocks,
		Contents:     resp.Toc,
		WithContents: opts.AddToc && opts.Type == Conversation,
	}, pc.layoutPage(), m)
	log.WithFields(logrus.Fields{
		"blocks": len(resp.Blocks),
		"lines":  len(plan.Lines),
		"pages":  plan.Pages,
	}).Debug("Laid out transcript")

	size := pc.paperSize()
	canvas := render.NewHTMLCanvas(size.Width, size.Height)
	render.Draw(plan, canvas, pc.FontFamily)
	html, err := canvas.HTML()
	if err != nil {
		return nil, exportError(ErrRenderFailed, err)
	}

	data, err := e.printer.PrintHTML(ctx, html, size)
	if err != nil {
		return nil, exportError(ErrRenderFailed, err)
	}
	if len(data) == 0 {
		return nil, exportError(ErrRenderFailed, fmt.Errorf("printer returned no data"))
	}
	return &Result{data: data, filename: opts.Type.Filename(), pages: plan.Pages}, nil
}

// --- Package-level convenience functions ---

// Export exports from src with a temporary [Converter]. For repeated use,
// create a Converter with [NewConverter] and an [Exporter] with
// [NewExporter] to reuse the browser instance.
func Export(ctx context.Context, src Source, opts Options, convOpts ...Option) (*Result, error) {
	conv, err := NewConverter(convOpts...)
	if err != nil {
		return nil, exportError(ErrRenderFailed, err)
	}
	defer conv.Close()
	return NewExporter(conv).ExportWithOptions(ctx, src, opts)
}
