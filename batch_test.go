package pdfstract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AKSarav/pdfstract"
)

// writeBatchDir creates a temp directory populated with empty placeholder
// files and returns its path.
func writeBatchDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 stub"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return dir
}

func TestBatch_EveryFileAttemptedOnce(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "content"})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	dir := writeBatchDir(t, "a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf")
	report, err := conv.Batch(context.Background(), dir, "a", pdfstract.BatchOptions{Workers: 2})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	if report.Success != 5 || report.Failed != 0 {
		t.Errorf("success=%d failed=%d, want 5/0", report.Success, report.Failed)
	}
	if len(report.Files) != 5 {
		t.Fatalf("expected 5 file outcomes, got %d", len(report.Files))
	}
	seen := map[string]int{}
	for _, f := range report.Files {
		seen[f.Path]++
	}
	for path, n := range seen {
		if n != 1 {
			t.Errorf("%s attempted %d times", path, n)
		}
	}
}

func TestBatch_CountsMatchAttempts(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "bad", err: errBroken})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	dir := writeBatchDir(t, "a.pdf", "b.pdf", "c.pdf")
	report, err := conv.Batch(context.Background(), dir, "bad", pdfstract.BatchOptions{
		Workers:         2,
		ContinueOnError: true,
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	if report.Failed != 3 || report.Success != 0 {
		t.Errorf("success=%d failed=%d, want 0/3", report.Success, report.Failed)
	}
	if report.Success+report.Failed != len(report.Files) {
		t.Errorf("success+failed=%d but %d outcomes recorded",
			report.Success+report.Failed, len(report.Files))
	}
	for _, f := range report.Files {
		if f.Err == "" {
			t.Errorf("%s: failed outcome without error", f.Path)
		}
	}
}

func TestBatch_FirstFailureHaltsScheduling(t *testing.T) {
	// Glob order is lexical, so the first dispatched file fails. With one
	// worker the file already committed to the pool still runs, but
	// nothing beyond it is scheduled.
	reg := newStubRegistry(&stubExtractor{name: "bad", err: errBroken, delay: 20 * time.Millisecond})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	dir := writeBatchDir(t, "a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf")
	report, err := conv.Batch(context.Background(), dir, "bad", pdfstract.BatchOptions{
		Workers:         1,
		ContinueOnError: false,
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	if len(report.Files) >= 5 {
		t.Errorf("scheduling did not halt: %d files attempted", len(report.Files))
	}
	if report.Success+report.Failed != len(report.Files) {
		t.Errorf("success+failed=%d but %d outcomes recorded",
			report.Success+report.Failed, len(report.Files))
	}
}

func TestBatch_PatternFiltersFiles(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "content"})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	dir := writeBatchDir(t, "one.pdf", "two.pdf", "notes.txt")
	report, err := conv.Batch(context.Background(), dir, "a", pdfstract.BatchOptions{})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(report.Files) != 2 {
		t.Errorf("default *.pdf pattern matched %d files, want 2", len(report.Files))
	}

	report, err = conv.Batch(context.Background(), dir, "a", pdfstract.BatchOptions{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(report.Files) != 1 {
		t.Errorf("*.txt pattern matched %d files, want 1", len(report.Files))
	}
}

func TestBatch_EmptyDirectory(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "content"})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	report, err := conv.Batch(context.Background(), t.TempDir(), "a", pdfstract.BatchOptions{})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if report.Success != 0 || report.Failed != 0 || len(report.Files) != 0 {
		t.Errorf("empty dir produced %+v", report)
	}
}

func TestBatch_NotADirectory(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "content"})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	file := writeTestFile(t, "doc.pdf")
	_, err = conv.Batch(context.Background(), file, "a", pdfstract.BatchOptions{})
	var reqErr *pdfstract.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError for non-directory, got %v", err)
	}
}

func TestBatch_UnknownLibrary(t *testing.T) {
	conv, err := pdfstract.New(pdfstract.WithRegistry(newStubRegistry(&stubExtractor{name: "a"})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	_, err = conv.Batch(context.Background(), t.TempDir(), "missing", pdfstract.BatchOptions{})
	if !errors.Is(err, pdfstract.ErrUnknownLibrary) {
		t.Fatalf("expected ErrUnknownLibrary, got %v", err)
	}
}

func TestBatch_ChunkerRecordsChunkCount(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	reg := newStubRegistry(&stubExtractor{name: "a", text: text})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	dir := writeBatchDir(t, "doc.pdf")
	report, err := conv.Batch(context.Background(), dir, "a", pdfstract.BatchOptions{
		Chunker: "paragraph",
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if report.Success != 1 {
		t.Fatalf("success=%d (%+v)", report.Success, report.Files)
	}
	if report.Files[0].Chunks == 0 {
		t.Error("chunk count not recorded on successful file")
	}
}

func TestBatch_UnknownChunker(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "x"})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	_, err = conv.Batch(context.Background(), t.TempDir(), "a", pdfstract.BatchOptions{
		Chunker: "quantum",
	})
	if !errors.Is(err, pdfstract.ErrUnknownChunker) {
		t.Fatalf("expected ErrUnknownChunker, got %v", err)
	}
}
