package pdfstract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AKSarav/pdfstract"
	"github.com/AKSarav/pdfstract/chunk"
)

func TestConverter_Chunk(t *testing.T) {
	conv, err := pdfstract.New(pdfstract.WithRegistry(newStubRegistry(&stubExtractor{name: "a"})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	res, err := conv.Chunk("One.\n\nTwo.\n\nThree.", "paragraph", chunk.Options{Size: 6})
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if res.TotalChunks != 3 {
		t.Errorf("TotalChunks = %d, want 3", res.TotalChunks)
	}
	if res.Chunker != "paragraph" {
		t.Errorf("Chunker = %q", res.Chunker)
	}
}

func TestConverter_ChunkUnknownChunker(t *testing.T) {
	conv, err := pdfstract.New(pdfstract.WithRegistry(newStubRegistry(&stubExtractor{name: "a"})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	_, err = conv.Chunk("text", "quantum", chunk.Options{})
	if !errors.Is(err, pdfstract.ErrUnknownChunker) {
		t.Fatalf("expected ErrUnknownChunker, got %v", err)
	}
	var reqErr *pdfstract.RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected RequestError, got %T", err)
	}
}

func TestConvertChunk_ExtractsThenSplits(t *testing.T) {
	text := "Intro paragraph.\n\nBody paragraph.\n\nClosing paragraph."
	reg := newStubRegistry(&stubExtractor{name: "a", text: text})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	res, err := conv.ConvertChunk(context.Background(), writeTestFile(t, "doc.pdf"),
		"a", "paragraph", chunk.Options{Size: 20})
	if err != nil {
		t.Fatalf("ConvertChunk: %v", err)
	}
	if res.TotalChunks != 3 {
		t.Errorf("TotalChunks = %d, want 3", res.TotalChunks)
	}
	if res.OriginalSize != len(text) {
		t.Errorf("OriginalSize = %d, want %d", res.OriginalSize, len(text))
	}
}

func TestConvertChunk_ExtractionFailureIsAnError(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "bad", err: errBroken})
	conv, err := pdfstract.New(pdfstract.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	_, err = conv.ConvertChunk(context.Background(), writeTestFile(t, "doc.pdf"),
		"bad", "paragraph", chunk.Options{})
	if err == nil {
		t.Fatal("expected error when extraction fails")
	}
}
