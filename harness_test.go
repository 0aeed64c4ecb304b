package pdfstract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AKSarav/pdfstract"
	"github.com/AKSarav/pdfstract/backend"
)

// stubExtractor is a scriptable backend for harness tests: it can succeed
// with fixed text, fail, panic, or hang until the context expires.
type stubExtractor struct {
	name     string
	text     string
	markdown string
	delay    time.Duration
	err      error
	panicMsg string
	probeErr error
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Available() error { return s.probeErr }

func (s *stubExtractor) Extract(ctx context.Context, path string) (*backend.Output, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &backend.Output{Text: s.text, Markdown: s.markdown}, nil
}

func newStubRegistry(exts ...*stubExtractor) *pdfstract.Registry {
	r := pdfstract.NewRegistry()
	for _, e := range exts {
		r.Register(e)
	}
	return r
}

// writeTestFile drops a small placeholder document into a temp dir and
// returns its path. Stub backends never read it; it only has to exist.
func writeTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

var errBroken = errors.New("malformed xref table")
