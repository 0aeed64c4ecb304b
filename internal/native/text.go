package native

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// ExtractText returns the plain text of the whole document, pages separated
// by blank lines.
func (doc *Document) ExtractText() (string, error) {
	pages, err := doc.ExtractPages()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}

// ExtractPages returns the plain text of each page, one element per page.
// A page whose content stream cannot be decoded yields an empty string
// rather than failing the document.
func (doc *Document) ExtractPages() ([]string, error) {
	pages, err := doc.pages()
	if err != nil {
		return nil, err
	}
	results := make([]string, len(pages))
	for i, page := range pages {
		content := doc.contentStreams(page)
		if len(content) == 0 {
			continue
		}
		results[i] = extractStreamText(content)
	}
	return results, nil
}

// span is a positioned piece of text from a content stream.
type span struct {
	x, y     float64
	text     string
	fontSize float64
}

// textState tracks the pieces of PDF text state extraction cares about:
// the text and line matrices (translation only) and the leading.
type textState struct {
	fontSize float64
	tx, ty   float64
	lx, ly   float64
	leading  float64
}

// extractStreamText walks a content stream's operators and assembles the
// shown strings into readable text.
func extractStreamText(data []byte) string {
	p := newParser(data, 0)
	ts := textState{fontSize: 12}
	inText := false

	var spans []span
	var stack []*object

	addSpan := func(text string) {
		if text != "" {
			spans = append(spans, span{x: ts.tx, y: ts.ty, text: text, fontSize: ts.fontSize})
		}
	}
	nextLine := func() {
		ts.lx = 0
		ts.ly -= ts.leading
		ts.tx, ts.ty = ts.lx, ts.ly
	}

	for p.pos < len(data) {
		p.skipSpace()
		if p.pos >= len(data) {
			break
		}
		c := data[p.pos]

		// operands first: strings, names, numbers, arrays, dicts
		if c == '(' || c == '<' || c == '/' || c == '[' ||
			c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			if obj, err := p.parseObject(); err == nil {
				stack = append(stack, obj)
			}
			continue
		}
		if !isOperatorStart(c) {
			p.pos++
			continue
		}

		op := readOperator(p)
		args := stack
		stack = stack[:0]

		switch op {
		case "BT":
			inText = true
			ts.tx, ts.ty, ts.lx, ts.ly = 0, 0, 0, 0
		case "ET":
			inText = false
		case "Tf":
			if len(args) >= 2 {
				ts.fontSize = floatArg(args[1])
			}
		case "TL":
			if len(args) >= 1 {
				ts.leading = floatArg(args[0])
			}
		case "Td":
			if len(args) >= 2 {
				ts.lx += floatArg(args[0])
				ts.ly += floatArg(args[1])
				ts.tx, ts.ty = ts.lx, ts.ly
			}
		case "TD":
			if len(args) >= 2 {
				ts.leading = -floatArg(args[1])
				ts.lx += floatArg(args[0])
				ts.ly += floatArg(args[1])
				ts.tx, ts.ty = ts.lx, ts.ly
			}
		case "Tm":
			if len(args) >= 6 {
				ts.tx = floatArg(args[4])
				ts.ty = floatArg(args[5])
				ts.lx, ts.ly = ts.tx, ts.ty
			}
		case "T*":
			nextLine()
		case "Tj":
			if inText && len(args) >= 1 {
				addSpan(decodeString(args[0]))
			}
		case "TJ":
			if inText && len(args) >= 1 && args[0].typ == objArray {
				var sb strings.Builder
				for _, elem := range args[0].array {
					switch elem.typ {
					case objString:
						sb.WriteString(decodeString(elem))
					case objInt, objFloat:
						// large negative kerning reads as a word space
						if floatArg(elem) < -100 {
							sb.WriteRune(' ')
						}
					}
				}
				addSpan(sb.String())
			}
		case "'":
			nextLine()
			if inText && len(args) >= 1 {
				addSpan(decodeString(args[0]))
			}
		case `"`:
			nextLine()
			if inText && len(args) >= 3 {
				addSpan(decodeString(args[2]))
			}
		}
	}

	return assembleSpans(spans)
}

func isOperatorStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		c == '\'' || c == '"' || c == '*'
}

func readOperator(p *parser) string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) || c == '(' || c == '<' || c == '[' || c == '/' ||
			(c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.' {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// decodeString decodes a PDF string object with a Latin-1 fallback.
func decodeString(obj *object) string {
	if obj.typ != objString {
		return ""
	}
	var sb strings.Builder
	for _, b := range obj.str {
		switch {
		case b >= 32 && b < 128:
			sb.WriteByte(b)
		case b >= 128:
			sb.WriteRune(rune(b))
		}
	}
	return sb.String()
}

func floatArg(obj *object) float64 {
	if obj == nil {
		return 0
	}
	switch obj.typ {
	case objFloat:
		return obj.floatV
	case objInt:
		return float64(obj.intV)
	}
	return 0
}

// assembleSpans groups positioned spans into lines by Y coordinate, orders
// lines top-to-bottom and spans left-to-right, and inserts spaces where the
// horizontal gap suggests a word boundary.
func assembleSpans(spans []span) string {
	if len(spans) == 0 {
		return ""
	}

	type line struct {
		y     float64
		spans []span
	}

	lineTol := averageFontSize(spans) * 0.5
	if lineTol < 2 {
		lineTol = 2
	}

	var lines []line
	for _, sp := range spans {
		found := false
		for i := range lines {
			if math.Abs(lines[i].y-sp.y) < lineTol {
				lines[i].spans = append(lines[i].spans, sp)
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, line{y: sp.y, spans: []span{sp}})
		}
	}

	// PDF y=0 is the bottom of the page
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for i := range lines {
		sp := lines[i].spans
		sort.SliceStable(sp, func(a, b int) bool { return sp[a].x < sp[b].x })
	}

	var sb strings.Builder
	for li, l := range lines {
		if li > 0 {
			sb.WriteByte('\n')
		}
		for si, sp := range l.spans {
			if si > 0 {
				prev := l.spans[si-1]
				gap := sp.x - (prev.x + estimateWidth(prev))
				avgFS := (sp.fontSize + prev.fontSize) / 2
				if avgFS < 1 {
					avgFS = 12
				}
				if gap > avgFS*0.3 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(cleanText(sp.text))
		}
	}
	return strings.TrimSpace(sb.String())
}

func averageFontSize(spans []span) float64 {
	sum := 0.0
	for _, s := range spans {
		sum += s.fontSize
	}
	return sum / float64(len(spans))
}

// estimateWidth gives a rough width estimate for a span.
func estimateWidth(sp span) float64 {
	return float64(len([]rune(sp.text))) * sp.fontSize * 0.5
}

// cleanText normalises whitespace and strips control characters.
func cleanText(s string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n' || r == '\f':
			if !prevSpace {
				sb.WriteByte(' ')
			}
			prevSpace = true
		case unicode.IsControl(r):
		case r == ' ' || r == '\t':
			if !prevSpace {
				sb.WriteRune(r)
			}
			prevSpace = true
		default:
			prevSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
