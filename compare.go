package pdfstract

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AKSarav/pdfstract/backend"
)

// Compare runs the same document through every requested library and
// returns one report with a result per library, in request order
// regardless of completion order.
//
// Attempts are independent units of work fanned out over a bounded worker
// pool: one library's failure, panic or timeout never aborts or delays its
// siblings beyond pool scheduling. Request-level problems (empty or unknown
// library set, unreadable document) return a [RequestError] and no report.
// Caller cancellation stops dispatch of not-yet-started units; units
// already in flight are recorded with their cancellation error.
//
// If a task store is attached, the report is assigned a task identifier
// and persisted before returning.
func (c *Converter) Compare(ctx context.Context, path string, libraries []string, format OutputFormat) (*ComparisonReport, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if len(libraries) == 0 {
		return nil, requestErr(ErrEmptyLibraries, "library set")
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, requestErr(err, "output format")
	}

	// Resolve every library before any work starts: an unknown or
	// unavailable identifier rejects the whole request.
	exts := make([]extractorSlot, len(libraries))
	for i, name := range libraries {
		ext, err := c.cfg.registry.Lookup(name)
		if err != nil {
			return nil, requestErr(err, "library %q", name)
		}
		exts[i].name = name
		exts[i].ext = ext
	}
	if _, err := os.Stat(path); err != nil {
		return nil, requestErr(err, "document %q", path)
	}

	c.cfg.logger.Info("comparison started",
		"file", path, "libraries", libraries, "workers", c.cfg.workers)

	start := time.Now()
	results := make([]ConversionResult, len(exts))

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.workers)
	for i, slot := range exts {
		if ctx.Err() != nil {
			// Caller aborted: units not yet dispatched are recorded as
			// failed with the cancellation error instead of being dropped,
			// keeping one entry per requested library.
			results[i] = ConversionResult{
				Library: slot.name,
				Status:  StatusFailed,
				Err:     ctx.Err().Error(),
			}
			continue
		}
		g.Go(func() error {
			results[i] = c.runUnit(ctx, slot.ext, path, format)
			return nil
		})
	}
	g.Wait()

	report := &ComparisonReport{
		Filename: filepath.Base(path),
		Total:    time.Since(start),
		Results:  results,
	}
	if c.cfg.store != nil {
		report.TaskID = uuid.NewString()
		c.cfg.store.Save(report)
	}

	c.cfg.logger.Info("comparison finished",
		"file", report.Filename, "task_id", report.TaskID,
		"total", report.Total, "results", summarize(results))
	return report, nil
}

type extractorSlot struct {
	name string
	ext  backend.Extractor
}

func summarize(results []ConversionResult) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
