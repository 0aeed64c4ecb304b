package backend

import (
	"context"
	"fmt"

	"github.com/AKSarav/pdfstract/internal/native"
)

// Native wraps the module's own pure-Go extractor. It has no native
// dependencies and is always available, so every comparison has at least
// one candidate that can run anywhere.
type Native struct{}

// NewNative returns the built-in pure-Go backend.
func NewNative() *Native { return &Native{} }

func (n *Native) Name() string { return "native" }

func (n *Native) Extract(ctx context.Context, path string) (*Output, error) {
	doc, err := native.Open(path)
	if err != nil {
		return nil, fmt.Errorf("native: opening %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := doc.ExtractText()
	if err != nil {
		return nil, fmt.Errorf("native: extracting %s: %w", path, err)
	}
	return &Output{Text: text, Pages: doc.PageCount()}, nil
}
