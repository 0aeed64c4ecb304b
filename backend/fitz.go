package backend

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gen2brain/go-fitz"
)

// inlineImagePattern matches base64 images embedded in converted markdown.
// MuPDF's HTML rendition inlines every raster image; stripping them keeps
// the markdown payload comparable in size to the other backends' output.
var inlineImagePattern = regexp.MustCompile(`!\[\]\(data:image/[^)]+\)`)

// Fitz wraps github.com/gen2brain/go-fitz (MuPDF). It is the only backend
// with a native rich-layout rendition: markdown is produced by converting
// MuPDF's per-page HTML through html-to-markdown.
type Fitz struct{}

// NewFitz returns the MuPDF backend.
func NewFitz() *Fitz { return &Fitz{} }

func (f *Fitz) Name() string { return "fitz" }

// Available probes the MuPDF native library by opening an empty in-memory
// document. go-fitz loads libmupdf lazily, so a failed probe means the
// shared library is missing rather than the input being bad.
func (f *Fitz) Available() error {
	doc, err := fitz.NewFromMemory([]byte("%PDF-1.4\n%%EOF\n"))
	if err != nil {
		// An open error on a stub document still proves the library loaded.
		if strings.Contains(err.Error(), "cannot open") {
			return nil
		}
		return fmt.Errorf("fitz: mupdf unavailable: %w", err)
	}
	doc.Close()
	return nil
}

func (f *Fitz) Extract(ctx context.Context, path string) (*Output, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("fitz: opening %s: %w", path, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	var text, markdown strings.Builder
	conv := md.NewConverter("", true, nil)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageText, err := doc.Text(i)
		if err == nil {
			text.WriteString(pageText)
			if i < total-1 {
				text.WriteString("\n\n")
			}
		}
		html, err := doc.HTML(i, true)
		if err != nil {
			continue
		}
		pageMD, err := conv.ConvertString(html)
		if err != nil {
			continue
		}
		markdown.WriteString(inlineImagePattern.ReplaceAllString(pageMD, ""))
		markdown.WriteString("\n\n")
	}

	return &Output{
		Text:     strings.TrimSpace(text.String()),
		Markdown: strings.TrimSpace(markdown.String()),
		Pages:    total,
	}, nil
}
