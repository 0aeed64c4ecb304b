package pdfstract

import (
	"encoding/json"
	"testing"

	"github.com/AKSarav/pdfstract/backend"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
		{"TEXT", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderOutput_MarkdownFallsBackToText(t *testing.T) {
	out := &backend.Output{Text: "plain only"}
	got, err := renderOutput(out, "native", FormatMarkdown)
	if err != nil {
		t.Fatalf("renderOutput: %v", err)
	}
	if got != "plain only" {
		t.Errorf("got %q, want text fallback", got)
	}

	out.Markdown = "# heading"
	got, err = renderOutput(out, "fitz", FormatMarkdown)
	if err != nil {
		t.Fatalf("renderOutput: %v", err)
	}
	if got != "# heading" {
		t.Errorf("got %q, want the native markdown", got)
	}
}

func TestRenderOutput_JSONEnvelope(t *testing.T) {
	out := &backend.Output{Text: "body text", Markdown: "# body"}
	got, err := renderOutput(out, "fitz", FormatJSON)
	if err != nil {
		t.Fatalf("renderOutput: %v", err)
	}

	var env jsonEnvelope
	if err := json.Unmarshal([]byte(got), &env); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if env.Content != "# body" {
		t.Errorf("content = %q, want the markdown rendition", env.Content)
	}
	if env.Library != "fitz" {
		t.Errorf("library = %q", env.Library)
	}
	if env.Format != "markdown" {
		t.Errorf("format = %q", env.Format)
	}
}
