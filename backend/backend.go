// Package backend contains the uniform adapters around the wrapped
// third-party PDF extraction libraries. Each adapter implements [Extractor]
// so the rest of the module can dispatch by name without knowing which
// library sits behind it.
package backend

import "context"

// Extractor converts a single PDF document into text. Implementations wrap
// exactly one third-party extraction library and must be safe for concurrent
// use: the comparison harness and the batch runner both call Extract from
// multiple goroutines.
type Extractor interface {
	// Name returns the registry identifier of the wrapped library.
	Name() string

	// Extract reads the PDF at path and returns its textual content.
	// Implementations should honor ctx cancellation where the underlying
	// library allows it; callers additionally bound every call with a
	// wall-clock timeout.
	Extract(ctx context.Context, path string) (*Output, error)
}

// Output is the library-agnostic result of one extraction.
type Output struct {
	// Text is the plain-text rendition of the document.
	Text string

	// Markdown is the library's native markdown rendition, if it has one.
	// Empty means the library only produces plain text; callers fall back
	// to Text when markdown output is requested.
	Markdown string

	// Pages is the page count, or 0 if the library does not report it.
	Pages int
}

// Prober is implemented by extractors whose native dependencies (cgo
// libraries, trained models) may be missing at runtime. The registry probes
// once at construction; a non-nil error marks the backend unavailable while
// keeping it listed, mirroring how missing converters are surfaced rather
// than hidden.
type Prober interface {
	Available() error
}
