// Package chunk splits extracted text into bounded segments for downstream
// embedding. Chunkers are wrapped third-party splitters (langchaingo) plus
// two simple built-ins, dispatched by name the same way extraction backends
// are.
package chunk

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

// Chunker splits text into segments. Implementations must be safe for
// concurrent use.
type Chunker interface {
	Name() string
	Split(text string) ([]string, error)
}

// Options configure a chunker at construction.
type Options struct {
	// Size is the target maximum chunk size, measured in characters
	// (runes) by the fixed and langchaingo chunkers; the paragraph
	// chunker measures bytes. Zero means the chunker's default
	// (DefaultSize).
	Size int

	// Overlap is the number of characters shared between adjacent
	// chunks, for chunkers that support it. Zero means DefaultOverlap.
	Overlap int
}

// Defaults applied when an Options field is zero.
const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Overlap < 0 || o.Overlap >= o.Size {
		o.Overlap = DefaultOverlap
	}
	return o
}

// New constructs the named chunker. Registered names are listed by [Names].
func New(name string, opts Options) (Chunker, error) {
	opts = opts.withDefaults()
	switch name {
	case "paragraph":
		return &Paragraph{MaxSize: opts.Size}, nil
	case "fixed":
		return &Fixed{Size: opts.Size, Overlap: opts.Overlap}, nil
	case "recursive":
		return newRecursive(opts), nil
	case "markdown":
		return newMarkdown(opts), nil
	}
	return nil, fmt.Errorf("unknown chunker %q (registered: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the registered chunker identifiers.
func Names() []string {
	return []string{"paragraph", "fixed", "recursive", "markdown"}
}

// Piece is one produced chunk.
type Piece struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Size  int    `json:"size"`
}

// Result aggregates one chunking run with the summary statistics the
// comparison UI displays.
type Result struct {
	Chunker      string  `json:"chunker"`
	Pieces       []Piece `json:"chunks"`
	TotalChunks  int     `json:"total_chunks"`
	AverageSize  int     `json:"average_size"`
	OriginalSize int     `json:"original_size"`
}

// Split runs c over text and wraps the segments in a Result.
func Split(c Chunker, text string) (*Result, error) {
	segments, err := c.Split(text)
	if err != nil {
		return nil, fmt.Errorf("chunker %s: %w", c.Name(), err)
	}
	res := &Result{
		Chunker:      c.Name(),
		Pieces:       make([]Piece, 0, len(segments)),
		TotalChunks:  len(segments),
		OriginalSize: len(text),
	}
	total := 0
	for i, s := range segments {
		res.Pieces = append(res.Pieces, Piece{Index: i, Text: s, Size: len(s)})
		total += len(s)
	}
	if len(segments) > 0 {
		res.AverageSize = total / len(segments)
	}
	return res, nil
}

// Documents converts the result into langchaingo documents, the shape
// embedding pipelines consume.
func (r *Result) Documents() []schema.Document {
	docs := make([]schema.Document, 0, len(r.Pieces))
	for _, p := range r.Pieces {
		docs = append(docs, schema.Document{
			PageContent: p.Text,
			Metadata: map[string]any{
				"chunker": r.Chunker,
				"index":   p.Index,
			},
		})
	}
	return docs
}
