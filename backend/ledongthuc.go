package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Ledongthuc wraps github.com/ledongthuc/pdf, a pure-Go reader that yields
// plain text per page.
type Ledongthuc struct{}

// NewLedongthuc returns the ledongthuc/pdf backend.
func NewLedongthuc() *Ledongthuc { return &Ledongthuc{} }

func (l *Ledongthuc) Name() string { return "ledongthuc" }

func (l *Ledongthuc) Extract(ctx context.Context, path string) (out *Output, err error) {
	// The library indexes fonts lazily and can panic on malformed files.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("ledongthuc: panic reading %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ledongthuc: opening %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		if i < total {
			sb.WriteString("\n\n")
		}
	}
	return &Output{Text: strings.TrimSpace(sb.String()), Pages: total}, nil
}
