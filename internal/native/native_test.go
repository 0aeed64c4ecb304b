package native

import (
	"bytes"
	"compress/zlib"
	"strconv"
	"strings"
	"testing"
)

// buildPDF assembles a minimal single-xref PDF with one content stream per
// page, enough structure for the parser without any real fonts.
func buildPDF(contentStreams [][]byte) []byte {
	var buf bytes.Buffer
	offsets := map[int]int{}

	buf.WriteString("%PDF-1.4\n")

	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, len(contentStreams))
	for i := range contentStreams {
		kids[i] = strconv.Itoa(3+i*2) + " 0 R"
	}

	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") +
		"] /Count " + strconv.Itoa(len(contentStreams)) + " >>\nendobj\n")

	next := 3
	for _, cs := range contentStreams {
		pageID, csID := next, next+1
		next += 2

		offsets[pageID] = buf.Len()
		buf.WriteString(strconv.Itoa(pageID) + " 0 obj\n" +
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents " +
			strconv.Itoa(csID) + " 0 R >>\nendobj\n")

		offsets[csID] = buf.Len()
		buf.WriteString(strconv.Itoa(csID) + " 0 obj\n<< /Length " +
			strconv.Itoa(len(cs)) + " >>\nstream\n")
		buf.Write(cs)
		buf.WriteString("\nendstream\nendobj\n")
	}

	xref := buf.Len()
	buf.WriteString("xref\n0 " + strconv.Itoa(next) + "\n")
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < next; id++ {
		off := strconv.Itoa(offsets[id])
		buf.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	buf.WriteString("trailer\n<< /Size " + strconv.Itoa(next) + " /Root 1 0 R >>\n")
	buf.WriteString("startxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")

	return buf.Bytes()
}

func TestExtractSimpleText(t *testing.T) {
	cs := []byte("BT /F1 12 Tf 100 700 Td (Hello, World!) Tj ET")
	doc, err := Load(buildPDF([][]byte{cs}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	text, err := doc.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Hello, World!") {
		t.Errorf("expected 'Hello, World!' in output, got: %q", text)
	}
}

func TestExtractTJArray(t *testing.T) {
	cs := []byte("BT /F1 14 Tf 50 750 Td [(Go) -200 (PDF)] TJ ET")
	doc, err := Load(buildPDF([][]byte{cs}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	text, err := doc.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Go") || !strings.Contains(text, "PDF") {
		t.Errorf("expected 'Go' and 'PDF' in output, got: %q", text)
	}
}

func TestExtractPages(t *testing.T) {
	doc, err := Load(buildPDF([][]byte{
		[]byte("BT /F1 12 Tf 100 700 Td (Page one) Tj ET"),
		[]byte("BT /F1 12 Tf 100 700 Td (Page two) Tj ET"),
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if n := doc.PageCount(); n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}

	pages, err := doc.ExtractPages()
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 page texts, got %d", len(pages))
	}
	if !strings.Contains(pages[0], "Page one") {
		t.Errorf("page 0: expected 'Page one', got %q", pages[0])
	}
	if !strings.Contains(pages[1], "Page two") {
		t.Errorf("page 1: expected 'Page two', got %q", pages[1])
	}
}

func TestLinesSeparatedByYPosition(t *testing.T) {
	cs := []byte("BT /F1 12 Tf 100 700 Td (first line) Tj 0 -20 Td (second line) Tj ET")
	doc, err := Load(buildPDF([][]byte{cs}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	text, err := doc.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	first := strings.Index(text, "first line")
	second := strings.Index(text, "second line")
	if first < 0 || second < 0 {
		t.Fatalf("missing lines in output: %q", text)
	}
	if !strings.Contains(text[first:second], "\n") {
		t.Errorf("expected newline between lines, got: %q", text)
	}
}

func TestFlateEncodedStream(t *testing.T) {
	plain := []byte("BT /F1 12 Tf 100 700 Td (compressed content) Tj ET")
	var comp bytes.Buffer
	zw := zlib.NewWriter(&comp)
	zw.Write(plain)
	zw.Close()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := map[int]int{}
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>\nendobj\n")
	offsets[4] = buf.Len()
	buf.WriteString("4 0 obj\n<< /Length " + strconv.Itoa(comp.Len()) + " /Filter /FlateDecode >>\nstream\n")
	buf.Write(comp.Bytes())
	buf.WriteString("\nendstream\nendobj\n")
	xref := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for id := 1; id <= 4; id++ {
		off := strconv.Itoa(offsets[id])
		buf.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	buf.WriteString("trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")

	doc, err := Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	text, err := doc.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "compressed content") {
		t.Errorf("expected 'compressed content' in output, got: %q", text)
	}
}

func TestAsciiHexDecode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"48656c6c6f>", "Hello"},
		{"48 65 6c 6c 6f>", "Hello"},
		{"4865 6c6c 6f>", "Hello"},
	}
	for _, tt := range tests {
		got, err := asciiHexDecode([]byte(tt.input))
		if err != nil {
			t.Errorf("asciiHexDecode(%q): %v", tt.input, err)
			continue
		}
		if string(got) != tt.expected {
			t.Errorf("asciiHexDecode(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestRunLengthDecode(t *testing.T) {
	// Length byte 2 copies the next 3 bytes literally.
	got, err := runLengthDecode([]byte{2, 'A', 'B', 'C', 128})
	if err != nil {
		t.Fatalf("runLengthDecode: %v", err)
	}
	if string(got) != "ABC" {
		t.Errorf("expected 'ABC', got %q", got)
	}

	// 253 repeats the next byte 257-253 = 4 times.
	got, err = runLengthDecode([]byte{253, 'X', 128})
	if err != nil {
		t.Fatalf("runLengthDecode: %v", err)
	}
	if string(got) != "XXXX" {
		t.Errorf("expected 'XXXX', got %q", got)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load([]byte("not a pdf at all")); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestEscapedString(t *testing.T) {
	cs := []byte(`BT /F1 12 Tf 100 700 Td (paren \( and \) slash \\) Tj ET`)
	doc, err := Load(buildPDF([][]byte{cs}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	text, err := doc.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "paren ( and ) slash \\") {
		t.Errorf("escapes not decoded, got: %q", text)
	}
}
