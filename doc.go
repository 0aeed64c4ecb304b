// Package pdfstract wraps multiple third-party PDF text-extraction
// libraries and text chunkers behind a single uniform call surface:
//
//   - dispatch-by-name to any registered extraction backend
//   - side-by-side comparison of several backends on one document
//   - parallel batch conversion of whole directories
//   - chunking of extracted text for embedding pipelines
//
// # Converting
//
// For one-off conversions use the package-level helpers:
//
//	res, err := pdfstract.Convert(ctx, "report.pdf", "ledongthuc", pdfstract.FormatText)
//
// For repeated work create a [Converter], which carries the registry,
// worker pool size and per-attempt timeout:
//
//	c, err := pdfstract.New(
//	    pdfstract.WithTimeout(30*time.Second),
//	    pdfstract.WithWorkers(3),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.Convert(ctx, "report.pdf", "fitz", pdfstract.FormatMarkdown)
//
// # Comparing libraries
//
// A comparison runs the same document through several backends and reports
// status, timing and output size per backend, preserving request order:
//
//	report, err := c.Compare(ctx, "report.pdf",
//	    []string{"native", "ledongthuc", "fitz"}, pdfstract.FormatText)
//	for _, r := range report.Results {
//	    fmt.Println(r.Library, r.Status, r.Duration, r.Size)
//	}
//
// One backend's failure or timeout never aborts the others; each attempt
// is classified as success, failed or timeout in its own result entry.
//
// # Batch runs
//
// A batch run applies one backend to every matching file in a directory
// over a bounded worker pool:
//
//	report, err := c.Batch(ctx, "./docs", "native", pdfstract.BatchOptions{
//	    Pattern: "*.pdf",
//	    Workers: 4,
//	})
//	fmt.Printf("success=%d failed=%d\n", report.Success, report.Failed)
//
// # Backends
//
// [DefaultRegistry] wires the built-in pure-Go extractor ("native") plus
// ledongthuc/pdf, rsc.io/pdf, MuPDF ("fitz"), pdfcpu, and Tesseract OCR
// ("tesseract"). Backends whose native dependencies are missing remain
// listed but unavailable; requesting one is a request-level error, not a
// crash.
package pdfstract
