package pdfstract

import (
	"context"
	"fmt"

	"github.com/AKSarav/pdfstract/chunk"
)

// Chunk splits text with the named chunker. Unknown chunker names return a
// [RequestError] wrapping [ErrUnknownChunker].
func (c *Converter) Chunk(text, chunker string, opts chunk.Options) (*chunk.Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	ch, err := chunk.New(chunker, opts)
	if err != nil {
		return nil, requestErr(fmt.Errorf("%w: %v", ErrUnknownChunker, err), "chunker %q", chunker)
	}
	return chunk.Split(ch, text)
}

// ConvertChunk extracts a document with one library and splits the
// resulting text with one chunker in a single call. The conversion follows
// the same unit-of-work rules as [Converter.Convert]; a failed or timed-out
// extraction is returned as an error since there is no text to chunk.
func (c *Converter) ConvertChunk(ctx context.Context, path, library, chunker string, opts chunk.Options) (*chunk.Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	ch, err := chunk.New(chunker, opts)
	if err != nil {
		return nil, requestErr(fmt.Errorf("%w: %v", ErrUnknownChunker, err), "chunker %q", chunker)
	}
	res, err := c.Convert(ctx, path, library, FormatText)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusSuccess {
		return nil, fmt.Errorf("pdfstract: extraction %s: %s", res.Status, res.Err)
	}
	return chunk.Split(ch, res.Content)
}
