// Package convopdf exports chat conversations to PDF.
//
// It reads a chat page (raw HTML, a saved file, or a live URL rendered by
// headless Chrome), rebuilds the transcript of alternating user and
// assistant turns, optionally prefixes a table of contents, fits the text
// onto pages and prints the result through Chrome.
//
// # Exporting
//
// For a one-off export use the package-level helper:
//
//	res, err := convopdf.Export(ctx, convopdf.FileSource("chat.html"),
//	    convopdf.Options{Type: convopdf.Conversation, AddToc: true})
//
// For repeated exports create a [Converter], which reuses the browser
// process, and an [Exporter] around it:
//
//	c, err := convopdf.NewConverter(convopdf.WithWaitFor("mat-card"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	e := convopdf.NewExporter(c, convopdf.WithPreferences(store))
//	res, err := e.Export(ctx, convopdf.LiveSource{URL: chatURL}, convopdf.Conversation)
//	res, err  = e.Export(ctx, convopdf.StaticSource(page), convopdf.Sources)
//
// [Exporter.Export] reads the toggles (landscape, table of contents,
// assistant only) from a preference store; [Exporter.ExportWithOptions]
// takes them explicitly.
//
// Use [PageConfig] to change the paper, margin, line height or font:
//
//	e := convopdf.NewExporter(c, convopdf.WithPageConfig(convopdf.PageConfig{
//	    Size:       convopdf.Letter,
//	    FontFamily: "courier",
//	}))
//
// A [Result] gives access to the generated PDF:
//
//	res.Bytes()                       // []byte
//	res.Base64()                      // base64 string (RFC 4648)
//	res.Reader()                      // *bytes.Reader
//	res.WriteTo(w)                    // io.WriterTo
//	res.WriteToFile(res.Filename(), 0o644)
//
// # Errors
//
// A failed export returns an [*ExportError] matching one of
// [ErrNoActiveTab], [ErrExtractionFailed], [ErrEmptyResult] or
// [ErrRenderFailed] with [errors.Is]. [UserMessage] turns it into the text
// shown to a user.
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	c, err := convopdf.NewConverter(convopdf.WithAutoDownload())
package convopdf
