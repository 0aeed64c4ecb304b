package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPU wraps github.com/pdfcpu/pdfcpu. pdfcpu validates and decodes page
// content streams but has no text layer of its own, so the adapter collects
// the string operands shown between BT/ET text blocks.
type PDFCPU struct{}

// NewPDFCPU returns the pdfcpu backend.
func NewPDFCPU() *PDFCPU { return &PDFCPU{} }

func (p *PDFCPU) Name() string { return "pdfcpu" }

func (p *PDFCPU) Extract(ctx context.Context, path string) (*Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu: reading %s: %w", path, err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu: parsing %s: %w", path, err)
	}

	total := pdfCtx.PageCount
	var sb strings.Builder
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNum)
		if err != nil || r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		sb.WriteString(contentStreamText(raw))
		if pageNum < total {
			sb.WriteString("\n\n")
		}
	}
	return &Output{Text: strings.TrimSpace(sb.String()), Pages: total}, nil
}

// contentStreamText collects the literal string operands inside BT/ET text
// blocks of a decoded content stream. Escapes are resolved; kerning numbers
// and operators are skipped.
func contentStreamText(stream []byte) string {
	var sb strings.Builder
	inText := false
	i := 0
	for i < len(stream) {
		c := stream[i]
		switch {
		case c == 'B' && hasToken(stream, i, "BT"):
			inText = true
			i += 2
		case c == 'E' && hasToken(stream, i, "ET"):
			inText = false
			sb.WriteByte('\n')
			i += 2
		case c == '(' && inText:
			lit, next := readLiteralString(stream, i)
			sb.WriteString(lit)
			sb.WriteByte(' ')
			i = next
		default:
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}

// hasToken reports whether the operator tok starts at position i on a token
// boundary.
func hasToken(stream []byte, i int, tok string) bool {
	if i+len(tok) > len(stream) || string(stream[i:i+len(tok)]) != tok {
		return false
	}
	if i > 0 && isRegularChar(stream[i-1]) {
		return false
	}
	end := i + len(tok)
	return end == len(stream) || !isRegularChar(stream[end])
}

func isRegularChar(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

// readLiteralString parses a (...) string starting at i, returning the
// decoded text and the position just past the closing parenthesis.
func readLiteralString(stream []byte, i int) (string, int) {
	var lit strings.Builder
	i++ // consume '('
	depth := 1
	for i < len(stream) && depth > 0 {
		b := stream[i]
		switch b {
		case '\\':
			i++
			if i >= len(stream) {
				break
			}
			switch stream[i] {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case 'r', 'b', 'f':
				// rarely meaningful in extracted text
			case '(', ')', '\\':
				lit.WriteByte(stream[i])
			}
			i++
		case '(':
			depth++
			lit.WriteByte(b)
			i++
		case ')':
			depth--
			if depth > 0 {
				lit.WriteByte(b)
			}
			i++
		default:
			lit.WriteByte(b)
			i++
		}
	}
	return lit.String(), i
}
