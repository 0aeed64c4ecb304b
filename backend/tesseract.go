package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// renderDPI is the rasterization density for OCR input. 150 keeps pages
// readable for Tesseract without the multi-second render times of 300.
const renderDPI = 150

// Tesseract wraps github.com/otiai10/gosseract. PDFs have no raster form of
// their own, so pages are rendered to PNG through MuPDF first and each image
// is recognized with a fresh client.
type Tesseract struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseract returns the OCR backend with the given language hints.
// No hints means Tesseract's default (eng).
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{clientFactory: gosseract.NewClient, languages: languages}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Available probes libtesseract by constructing and closing a client.
// gosseract aborts the process if the native library is absent at link
// time, so a probe failure here means missing trained data, not a missing
// library.
func (t *Tesseract) Available() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tesseract: unavailable: %v", r)
		}
	}()
	c := t.clientFactory()
	defer c.Close()
	if len(t.languages) > 0 {
		if err := c.SetLanguage(t.languages...); err != nil {
			return fmt.Errorf("tesseract: language data: %w", err)
		}
	}
	return nil
}

func (t *Tesseract) Extract(ctx context.Context, path string) (*Output, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("tesseract: rendering %s: %w", path, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	var sb strings.Builder
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImagePNG(i, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("tesseract: rasterizing page %d: %w", i+1, err)
		}
		text, err := t.recognize(img)
		if err != nil {
			return nil, fmt.Errorf("tesseract: page %d: %w", i+1, err)
		}
		sb.WriteString(text)
		if i < total-1 {
			sb.WriteString("\n\n")
		}
	}
	return &Output{Text: strings.TrimSpace(sb.String()), Pages: total}, nil
}

func (t *Tesseract) recognize(png []byte) (string, error) {
	c := t.clientFactory()
	defer c.Close()
	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(t.languages) > 0 {
		if err := c.SetLanguage(t.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
