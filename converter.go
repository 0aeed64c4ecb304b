package pdfstract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/AKSarav/pdfstract/backend"
	"github.com/AKSarav/pdfstract/chunk"
)

// Converter is the uniform call surface over the wrapped extraction
// libraries and chunkers: single conversions, multi-library comparisons,
// batch runs, and chunking all dispatch through it.
//
// A Converter is safe for concurrent use. Call [Converter.Close] when it is
// no longer needed; Close is idempotent and subsequent calls return
// [ErrClosed].
type Converter struct {
	cfg converterConfig

	mu     sync.Mutex
	closed bool
}

// New creates a Converter with the given options. Without options it uses
// [DefaultRegistry], four workers and a 120-second per-unit timeout.
func New(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Converter{cfg: cfg}, nil
}

// With returns a Converter derived from c with additional options applied.
// The derived Converter shares c's registry, task store and logger unless
// an option replaces them, and has its own lifecycle: closing one does not
// close the other. Callers use this to vary the timeout or worker count
// per request without rebuilding the registry.
func (c *Converter) With(opts ...Option) *Converter {
	cfg := c.cfg
	for _, o := range opts {
		o(&cfg)
	}
	return &Converter{cfg: cfg}
}

// Close marks the Converter closed. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Libraries describes every registered extraction library and its
// availability.
func (c *Converter) Libraries() []LibraryInfo {
	return c.cfg.registry.List()
}

// Chunkers returns the registered chunker identifiers.
func (c *Converter) Chunkers() []string {
	return chunk.Names()
}

// Task retrieves a previously persisted comparison report by task
// identifier. Returns [ErrTaskNotFound] for unknown identifiers or when no
// task store is attached.
func (c *Converter) Task(id string) (*ComparisonReport, error) {
	if c.cfg.store == nil {
		return nil, ErrTaskNotFound
	}
	return c.cfg.store.Get(id)
}

// DeleteTask removes a persisted comparison report. Returns
// [ErrTaskNotFound] for unknown identifiers.
func (c *Converter) DeleteTask(id string) error {
	if c.cfg.store == nil {
		return ErrTaskNotFound
	}
	return c.cfg.store.Delete(id)
}

// Convert runs one document through one library and renders the requested
// format. Request-level problems (unknown library, unreadable file) return
// a [RequestError]; the library's own failure or timeout is reported in the
// result status, mirroring how comparison units are classified.
func (c *Converter) Convert(ctx context.Context, path, library string, format OutputFormat) (*ConversionResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	ext, err := c.validateRequest(path, library, format)
	if err != nil {
		return nil, err
	}
	res := c.runUnit(ctx, ext, path, format)
	return &res, nil
}

// validateRequest checks library and file, library first (matching the
// order callers observe for error precedence).
func (c *Converter) validateRequest(path, library string, format OutputFormat) (backend.Extractor, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, requestErr(err, "output format")
	}
	ext, err := c.cfg.registry.Lookup(library)
	if err != nil {
		return nil, requestErr(err, "library %q", library)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, requestErr(err, "document %q", path)
	}
	return ext, nil
}

// runUnit executes one unit of work: a single library attempt on a single
// document, bounded by the configured wall-clock timeout. The outcome is
// always a terminal ConversionResult; panics and errors inside the wrapped
// library are captured, never propagated. On timeout the attempt keeps
// running in its abandoned goroutine and its eventual result is discarded.
func (c *Converter) runUnit(ctx context.Context, ext backend.Extractor, path string, format OutputFormat) ConversionResult {
	type unitOutcome struct {
		content string
		size    int
		err     error
	}

	unitCtx := ctx
	var cancel context.CancelFunc
	if c.cfg.timeout > 0 {
		unitCtx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan unitOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- unitOutcome{err: fmt.Errorf("panic in %s: %v", ext.Name(), r)}
			}
		}()
		out, err := ext.Extract(unitCtx, path)
		if err != nil {
			done <- unitOutcome{err: err}
			return
		}
		content, err := renderOutput(out, ext.Name(), format)
		done <- unitOutcome{content: content, size: len(content), err: err}
	}()

	select {
	case o := <-done:
		elapsed := time.Since(start)
		if o.err != nil {
			c.cfg.logger.Debug("conversion failed",
				"library", ext.Name(), "file", path, "error", o.err)
			return ConversionResult{
				Library:  ext.Name(),
				Status:   StatusFailed,
				Duration: elapsed,
				Err:      o.err.Error(),
			}
		}
		return ConversionResult{
			Library:  ext.Name(),
			Status:   StatusSuccess,
			Duration: elapsed,
			Content:  o.content,
			Size:     o.size,
		}
	case <-unitCtx.Done():
		elapsed := time.Since(start)
		status := StatusTimeout
		msg := fmt.Sprintf("exceeded %s timeout", c.cfg.timeout)
		if ctx.Err() != nil {
			// caller cancellation, not a per-unit timeout
			status = StatusFailed
			msg = ctx.Err().Error()
		}
		c.cfg.logger.Debug("conversion did not finish",
			"library", ext.Name(), "file", path, "status", status)
		return ConversionResult{
			Library:  ext.Name(),
			Status:   status,
			Duration: elapsed,
			Err:      msg,
		}
	}
}

// --- Package-level convenience functions ---

// Convert runs one document through one library using a temporary
// [Converter] with default options.
func Convert(ctx context.Context, path, library string, format OutputFormat, opts ...Option) (*ConversionResult, error) {
	conv, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.Convert(ctx, path, library, format)
}

// Compare runs one document through several libraries using a temporary
// [Converter].
func Compare(ctx context.Context, path string, libraries []string, format OutputFormat, opts ...Option) (*ComparisonReport, error) {
	conv, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.Compare(ctx, path, libraries, format)
}
