// convopdf exports chat conversations and source guides to PDF.
//
// Usage:
//
//	convopdf export [options] <file.html|url>
//	convopdf extract [options] <file.html|url>
//	convopdf serve [-c config]
//	convopdf prefs [get | set key=value...]
//	convopdf text [options] <file.pdf>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"

	convopdf "github.com/porticus-lab/convo-pdf"
	"github.com/porticus-lab/convo-pdf/internal/api"
	"github.com/porticus-lab/convo-pdf/internal/config"
	"github.com/porticus-lab/convo-pdf/internal/logger"
	"github.com/porticus-lab/convo-pdf/internal/pdftext"
	"github.com/porticus-lab/convo-pdf/internal/prefs"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "export":
		err = runExport(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "prefs":
		err = runPrefs(os.Args[2:])
	case "text":
		err = runText(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Debugf("%s: %v", os.Args[1], err)
		fmt.Fprintln(os.Stderr, convopdf.UserMessage(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`convopdf - export chat conversations to PDF

Usage:
  convopdf export [options] <file.html|url>
  convopdf extract [options] <file.html|url>
  convopdf serve [-c config]
  convopdf prefs [get | set key=value...]
  convopdf text [options] <file.pdf>

Commands:
  export    Render a conversation or source guide to PDF
  extract   Print the extracted transcript without rendering
  serve     Run the HTTP API used by the browser extension
  prefs     Show or change the stored export preferences
  text      Read the text back out of an exported PDF

Common options:
  -c <file>       Configuration file (default: etc/convopdf.yaml)
  -t <type>       Export type: conversation, sources, notes (default: conversation)

Export options:
  -o <file>       Output file (default: conversation.pdf or source_guide.pdf)
  --toc           Add a table of contents (saved as a preference)
  --landscape     Use landscape pages (saved as a preference)
  --gpt-only      Leave out user turns (saved as a preference)

Extract and text options:
  -f <format>     Output format: text, json (default: text)
  -w <width>      Wrap text output at width columns (default: no wrapping)
  -p <range>      Page range for text, e.g. "1", "1-5", "1,3,5" (default: all)

Examples:
  convopdf export --toc chat.html
  convopdf export -t sources -o guide.pdf https://notebook.example/123
  convopdf prefs set gptOnly=true landscapeMode=false
  convopdf text -p 1 conversation.pdf
`)
}

// commonArgs holds the options every page command accepts.
type commonArgs struct {
	configFile string
	kind       convopdf.Kind
	input      string
}

// app is the configured runtime shared by the commands.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store prefs.Store
}

func newApp(configFile string) (*app, error) {
	if configFile == "" {
		configFile = config.DefaultFile
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.SetDefault(log)
	logger.Debugf("Loaded configuration from %s", configFile)

	path := cfg.Preferences.Path
	if path == "" {
		if path, err = prefs.DefaultPath(); err != nil {
			return nil, fmt.Errorf("locating preferences: %w", err)
		}
	}
	return &app{cfg: cfg, log: log, store: prefs.NewFileStore(path)}, nil
}

func (a *app) converter() (*convopdf.Converter, error) {
	c := a.cfg.Chrome
	opts := []convopdf.Option{
		convopdf.WithTimeout(c.Timeout),
		convopdf.WithLogger(a.log),
	}
	if c.Path != "" {
		opts = append(opts, convopdf.WithChromePath(c.Path))
	}
	if c.NoSandbox {
		opts = append(opts, convopdf.WithNoSandbox())
	}
	if c.AutoDownload {
		opts = append(opts, convopdf.WithAutoDownload())
	}
	if c.UserDataDir != "" {
		opts = append(opts, convopdf.WithUserDataDir(c.UserDataDir))
	}
	if c.WaitFor != "" {
		opts = append(opts, convopdf.WithWaitFor(c.WaitFor))
	}
	return convopdf.NewConverter(opts...)
}

func (a *app) exporter(p convopdf.Printer) *convopdf.Exporter {
	return convopdf.NewExporter(p,
		convopdf.WithPreferences(a.store),
		convopdf.WithSelectors(a.cfg.Selectors),
		convopdf.WithExportLogger(a.log),
	)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func source(input string) convopdf.Source {
	if isURL(input) {
		return convopdf.LiveSource{URL: input}
	}
	return convopdf.FileSource(input)
}

// runExport implements the "export" command.
func runExport(args []string) error {
	var (
		common     = commonArgs{kind: convopdf.Conversation}
		outputFile string
		toggles    = map[string]string{}
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			i++
			if i >= len(args) {
				return fmt.Errorf("-o requires an argument")
			}
			outputFile = args[i]
		case "--toc":
			toggles["addToc"] = "true"
		case "--landscape":
			toggles["landscapeMode"] = "true"
		case "--gpt-only":
			toggles["gptOnly"] = "true"
		case "--no-toc":
			toggles["addToc"] = "false"
		case "--portrait":
			toggles["landscapeMode"] = "false"
		default:
			n, err := common.parse(args, i)
			if err != nil {
				return err
			}
			i = n
		}
	}
	if common.input == "" {
		return fmt.Errorf("no input file specified")
	}

	a, err := newApp(common.configFile)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if len(toggles) > 0 {
		p, err := a.store.Get(ctx, prefs.Defaults())
		if err != nil {
			return err
		}
		for k, v := range toggles {
			if err := p.Set(k, v); err != nil {
				return err
			}
		}
		if err := a.store.Set(ctx, p); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
	}

	conv, err := a.converter()
	if err != nil {
		return err
	}
	defer conv.Close()

	res, err := a.exporter(conv).Export(ctx, source(common.input), common.kind)
	if err != nil {
		return err
	}
	if outputFile == "" {
		outputFile = res.Filename()
	}
	if err := res.WriteToFile(outputFile, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	fmt.Printf("Wrote %s (%d pages, %d bytes)\n", outputFile, res.Pages(), res.Len())
	return nil
}

// runExtract implements the "extract" command.
func runExtract(args []string) error {
	var (
		common = commonArgs{kind: convopdf.Conversation}
		format = "text"
		width  int
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f":
			i++
			if i >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			format = args[i]
		case "-w":
			i++
			if i >= len(args) {
				return fmt.Errorf("-w requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid width: %s", args[i])
			}
			width = n
		default:
			n, err := common.parse(args, i)
			if err != nil {
				return err
			}
			i = n
		}
	}
	if common.input == "" {
		return fmt.Errorf("no input file specified")
	}

	a, err := newApp(common.configFile)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var printer convopdf.Printer
	if isURL(common.input) {
		conv, err := a.converter()
		if err != nil {
			return err
		}
		defer conv.Close()
		printer = conv
	}

	p, err := a.store.Get(ctx, prefs.Defaults())
	if err != nil {
		logger.Warnf("Reading preferences failed, using defaults: %v", err)
		p = prefs.Defaults()
	}
	resp, err := a.exporter(printer).Extract(ctx, source(common.input), p.Options(common.kind))
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(resp.Error)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	default:
		if len(resp.Toc) > 0 {
			fmt.Println("Table of Contents")
			for _, e := range resp.Toc {
				fmt.Println(e.Line())
			}
			fmt.Println()
		}
		fmt.Println(wrap(resp.Text, width))
	}
	return nil
}

// runServe implements the "serve" command.
func runServe(args []string) error {
	common := commonArgs{}
	for i := 0; i < len(args); i++ {
		n, err := common.parse(args, i)
		if err != nil {
			return err
		}
		i = n
	}
	if common.input != "" {
		return fmt.Errorf("unexpected argument: %s", common.input)
	}

	a, err := newApp(common.configFile)
	if err != nil {
		return err
	}

	conv, err := a.converter()
	if err != nil {
		return err
	}
	defer conv.Close()

	srv := api.NewServer(a.exporter(conv), a.store, a.log, a.cfg.Server.AllowedOrigins)
	httpServer := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: a.cfg.Chrome.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown: %v", err)
		}
	}()

	a.log.WithField("addr", a.cfg.Server.Addr).Info("Starting convopdf API")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// runPrefs implements the "prefs" command.
func runPrefs(args []string) error {
	var (
		configFile string
		rest       []string
	)
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			if i >= len(args) {
				return fmt.Errorf("-c requires an argument")
			}
			configFile = args[i]
			continue
		}
		rest = append(rest, args[i])
	}

	a, err := newApp(configFile)
	if err != nil {
		return err
	}
	ctx := context.Background()

	p, err := a.store.Get(ctx, prefs.Defaults())
	if err != nil {
		return err
	}

	if len(rest) > 0 && rest[0] == "set" {
		if len(rest) == 1 {
			return fmt.Errorf("set requires key=value arguments (keys: %s)", strings.Join(prefs.Keys(), ", "))
		}
		for _, kv := range rest[1:] {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid assignment %q, want key=value", kv)
			}
			if err := p.Set(k, v); err != nil {
				return err
			}
		}
		if err := a.store.Set(ctx, p); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
	} else if len(rest) > 0 && rest[0] != "get" {
		return fmt.Errorf("unknown prefs command: %s", rest[0])
	}

	fmt.Printf("removeLogo:    %t\n", p.RemoveLogo)
	fmt.Printf("landscapeMode: %t\n", p.LandscapeMode)
	fmt.Printf("addToc:        %t\n", p.AddToc)
	fmt.Printf("gptOnly:       %t\n", p.GptOnly)
	return nil
}

// runText implements the "text" command.
func runText(args []string) error {
	var (
		pageRange string
		format    = "text"
		width     int
		inputFile string
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-p":
			i++
			if i >= len(args) {
				return fmt.Errorf("-p requires an argument")
			}
			pageRange = args[i]
		case "-f":
			i++
			if i >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			format = args[i]
		case "-w":
			i++
			if i >= len(args) {
				return fmt.Errorf("-w requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid width: %s", args[i])
			}
			width = n
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			inputFile = args[i]
		}
	}

	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}
	if !pdftext.IsPDF(inputFile) {
		return fmt.Errorf("%s is not a PDF file", inputFile)
	}

	pages, err := pdftext.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}

	pageIndices, err := parsePageRange(pageRange, len(pages))
	if err != nil {
		return fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	type pageResult struct {
		Page int    `json:"page"`
		Text string `json:"text"`
	}
	results := make([]pageResult, 0, len(pageIndices))
	for _, idx := range pageIndices {
		results = append(results, pageResult{Page: idx + 1, Text: pages[idx]})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Println("\f")
			}
			fmt.Println(wrap(r.Text, width))
		}
	}
	return nil
}

// parse consumes the option at args[i] and returns the index of the last
// argument it used.
func (c *commonArgs) parse(args []string, i int) (int, error) {
	switch args[i] {
	case "-c":
		i++
		if i >= len(args) {
			return i, fmt.Errorf("-c requires an argument")
		}
		c.configFile = args[i]
	case "-t":
		i++
		if i >= len(args) {
			return i, fmt.Errorf("-t requires an argument")
		}
		k, err := convopdf.ParseKind(args[i])
		if err != nil {
			return i, err
		}
		c.kind = k
	default:
		if strings.HasPrefix(args[i], "-") {
			return i, fmt.Errorf("unknown option: %s", args[i])
		}
		c.input = args[i]
	}
	return i, nil
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// parsePageRange converts a page range string to a slice of 0-based page indices.
// Supported formats: "" (all), "3" (single page), "1-5" (range), "1,3,5" (list).
func parsePageRange(spec string, total int) ([]int, error) {
	if spec == "" {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		start, end := 0, 0
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			var err error
			if start, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
				return nil, fmt.Errorf("invalid page number: %s", lo)
			}
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid page number: %s", hi)
			}
			if start < 1 || end > total || start > end {
				return nil, fmt.Errorf("page range %d-%d out of bounds (1-%d)", start, end, total)
			}
		} else {
			p, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %s", part)
			}
			if p < 1 || p > total {
				return nil, fmt.Errorf("page %d out of bounds (1-%d)", p, total)
			}
			start, end = p, p
		}
		for p := start; p <= end; p++ {
			if !seen[p] {
				indices = append(indices, p-1)
				seen[p] = true
			}
		}
	}

	return indices, nil
}
