package backend

import (
	"context"
	"fmt"
	"strings"

	"rsc.io/pdf"
)

// RscPDF wraps rsc.io/pdf, which exposes positioned content spans per page.
type RscPDF struct{}

// NewRscPDF returns the rsc.io/pdf backend.
func NewRscPDF() *RscPDF { return &RscPDF{} }

func (x *RscPDF) Name() string { return "rsc" }

func (x *RscPDF) Extract(ctx context.Context, path string) (out *Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("rsc: panic reading %s: %v", path, r)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rsc: opening %s: %w", path, err)
	}

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		prevY := -1.0
		for _, span := range content.Text {
			switch {
			case prevY < 0:
				// first span on the page
			case span.Y != prevY:
				sb.WriteString("\n")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(span.S)
			prevY = span.Y
		}
		if i < total {
			sb.WriteString("\n\n")
		}
	}
	return &Output{Text: strings.TrimSpace(sb.String()), Pages: total}, nil
}
