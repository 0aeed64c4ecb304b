package chunk

import "github.com/tmc/langchaingo/textsplitter"

// langchainChunker adapts a langchaingo text splitter to the Chunker
// interface.
type langchainChunker struct {
	name     string
	splitter textsplitter.TextSplitter
}

// newRecursive wraps langchaingo's recursive-character splitter, which
// prefers paragraph, then line, then word boundaries.
func newRecursive(opts Options) Chunker {
	return &langchainChunker{
		name: "recursive",
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(opts.Size),
			textsplitter.WithChunkOverlap(opts.Overlap),
		),
	}
}

// newMarkdown wraps langchaingo's markdown-aware splitter, which keeps
// headings with their sections.
func newMarkdown(opts Options) Chunker {
	return &langchainChunker{
		name: "markdown",
		splitter: textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(opts.Size),
			textsplitter.WithChunkOverlap(opts.Overlap),
		),
	}
}

func (l *langchainChunker) Name() string { return l.name }

func (l *langchainChunker) Split(text string) ([]string, error) {
	return l.splitter.SplitText(text)
}
