package convopdf

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Converter drives a headless browser: it reads live pages and prints
// drawn documents to PDF.
//
// A Converter manages a browser instance that is reused across calls. It
// is safe for concurrent use; every call runs in its own tab.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.log = l
	}

	if cfg.chromePath == "" && cfg.autoDownload && lookupBrowser() == "" {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.log.WithField("path", path).Info("Using downloaded browser")
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}
	if cfg.userDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(cfg.userDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(cfg.log.Debugf),
		chromedp.WithErrorf(cfg.log.Errorf),
	)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("convopdf: starting browser: %w", err)
	}

	return &Converter{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// FetchHTML loads the page at rawURL and returns its rendered document,
// after scripts have built the DOM.
func (c *Converter) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	if err := c.checkClosed(); err != nil {
		return "", err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return "", fmt.Errorf("convopdf: invalid URL %q: %w", rawURL, err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	tabCtx, tabCancel := c.newTab(ctx)
	defer tabCancel()

	actions := []chromedp.Action{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if c.cfg.waitFor != "" {
		actions = append(actions, chromedp.WaitVisible(c.cfg.waitFor, chromedp.ByQuery))
	}
	var doc string
	actions = append(actions, chromedp.OuterHTML("html", &doc, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("convopdf: fetching %s: %w", rawURL, err)
	}
	return doc, nil
}

// FetchFile loads a saved page from disk through the browser, so scripts
// in the file run before it is read.
func (c *Converter) FetchFile(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("convopdf: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("convopdf: %w", err)
	}
	return c.FetchHTML(ctx, "file://"+abs)
}

// PrintHTML prints doc to PDF on sheets of the given size. Page margins are
// left to the document, which positions its own text.
func (c *Converter) PrintHTML(ctx context.Context, doc string, size PageSize) ([]byte, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "convopdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("convopdf: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(doc); err != nil {
		f.Close()
		return nil, fmt.Errorf("convopdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("convopdf: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("convopdf: resolving path: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	tabCtx, tabCancel := c.newTab(ctx)
	defer tabCancel()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(mmToInches(size.Width)).
				WithPaperHeight(mmToInches(size.Height)).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("convopdf: printing failed: %w", err)
	}
	return buf, nil
}

func (c *Converter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.timeout)
	}
	return context.WithCancel(ctx)
}

// newTab opens a tab on the shared browser that is also cancelled with ctx.
func (c *Converter) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	stop := context.AfterFunc(ctx, tabCancel)
	return tabCtx, func() {
		stop()
		tabCancel()
	}
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}
