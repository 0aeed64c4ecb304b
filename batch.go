package pdfstract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/AKSarav/pdfstract/chunk"
)

// BatchOptions configure one batch run.
type BatchOptions struct {
	// Pattern filters file names within the directory. Empty means "*.pdf".
	Pattern string

	// Workers is the parallelism degree. Zero means the Converter's
	// configured default.
	Workers int

	// ContinueOnError keeps scheduling after a failure. When false, the
	// first failure halts dispatch of not-yet-started files; work already
	// in flight finishes and is recorded.
	ContinueOnError bool

	// Format selects the output rendition used for each conversion.
	// Empty means text.
	Format OutputFormat

	// Chunker optionally names a chunker applied to each successful
	// extraction; the chunk count is recorded per file. Empty disables
	// chunking.
	Chunker      string
	ChunkOptions chunk.Options
}

// Batch applies one library (and optionally one chunker) to every document
// matching the pattern under dir. Every matching file is attempted exactly
// once; failures and timeouts are recorded, never silently dropped, and
// Success+Failed always equals the number of files attempted. File outcome
// order follows completion and carries no meaning.
func (c *Converter) Batch(ctx context.Context, dir, library string, opts BatchOptions) (*BatchReport, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, requestErr(err, "output format")
	}
	ext, err := c.cfg.registry.Lookup(library)
	if err != nil {
		return nil, requestErr(err, "library %q", library)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, requestErr(err, "directory %q", dir)
	}
	if !info.IsDir() {
		return nil, requestErr(nil, "%q is not a directory", dir)
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.pdf"
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, requestErr(err, "pattern %q", pattern)
	}

	var chunker chunk.Chunker
	if opts.Chunker != "" {
		chunker, err = chunk.New(opts.Chunker, opts.ChunkOptions)
		if err != nil {
			return nil, requestErr(fmt.Errorf("%w: %v", ErrUnknownChunker, err), "chunker %q", opts.Chunker)
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = c.cfg.workers
	}

	c.cfg.logger.Info("batch started",
		"dir", dir, "library", library, "files", len(files), "workers", workers)

	report := &BatchReport{Files: make([]FileOutcome, 0, len(files))}
	var mu sync.Mutex
	var stopped atomic.Bool

	record := func(o FileOutcome) {
		mu.Lock()
		defer mu.Unlock()
		if o.Status == StatusSuccess {
			report.Success++
		} else {
			report.Failed++
		}
		report.Files = append(report.Files, o)
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, path := range files {
		// Stop dispatching once a failure was observed (continue-on-error
		// off) or the caller canceled; in-flight units still finish and
		// are recorded above.
		if stopped.Load() || ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := c.runUnit(ctx, ext, path, opts.Format)
			outcome := FileOutcome{Path: path, Status: res.Status, Err: res.Err}
			if res.Status == StatusSuccess && chunker != nil {
				cres, err := chunk.Split(chunker, res.Content)
				if err != nil {
					outcome.Status = StatusFailed
					outcome.Err = err.Error()
				} else {
					outcome.Chunks = cres.TotalChunks
				}
			}
			if outcome.Status != StatusSuccess && !opts.ContinueOnError {
				stopped.Store(true)
			}
			record(outcome)
			return nil
		})
	}
	g.Wait()

	c.cfg.logger.Info("batch finished",
		"dir", dir, "library", library,
		"success", report.Success, "failed", report.Failed)
	return report, nil
}
