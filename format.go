package pdfstract

import (
	"encoding/json"
	"fmt"

	"github.com/AKSarav/pdfstract/backend"
)

// OutputFormat selects the rendition of an extraction result.
type OutputFormat string

const (
	// FormatText is the plain-text rendition. Every backend supports it.
	FormatText OutputFormat = "text"

	// FormatMarkdown is the markdown rendition. Backends without a native
	// markdown output fall back to their plain text.
	FormatMarkdown OutputFormat = "markdown"

	// FormatJSON wraps the content in a {content, format, library} envelope.
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a format name. The empty string means FormatText.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("pdfstract: unsupported output format %q (use text, markdown or json)", s)
}

// jsonEnvelope is the FormatJSON payload shape.
type jsonEnvelope struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Library string `json:"library"`
}

// renderOutput converts a backend output into the requested format's payload.
func renderOutput(out *backend.Output, library string, format OutputFormat) (string, error) {
	switch format {
	case FormatText, "":
		return out.Text, nil
	case FormatMarkdown:
		if out.Markdown != "" {
			return out.Markdown, nil
		}
		return out.Text, nil
	case FormatJSON:
		content := out.Markdown
		if content == "" {
			content = out.Text
		}
		data, err := json.Marshal(jsonEnvelope{Content: content, Format: "markdown", Library: library})
		if err != nil {
			return "", fmt.Errorf("pdfstract: encoding json payload: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("pdfstract: unsupported output format %q", format)
}
