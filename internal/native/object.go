package native

import (
	"bytes"
	"fmt"
	"strconv"
)

// objectType identifies the kind of a PDF object.
type objectType int

const (
	objNull objectType = iota
	objBool
	objInt
	objFloat
	objString
	objName
	objArray
	objDict
	objStream
	objRef
)

// object holds any PDF object value.
type object struct {
	typ    objectType
	boolV  bool
	intV   int64
	floatV float64
	str    []byte
	name   string
	array  []*object
	dict   dict
	stream []byte // raw stream data
	ref    reference
}

// reference is an indirect object reference (N G R).
type reference struct {
	number int
	gen    int
}

// dict is a PDF dictionary (name -> object).
type dict map[string]*object

func (d dict) getInt(key string) (int64, bool) {
	obj, ok := d[key]
	if !ok {
		return 0, false
	}
	switch obj.typ {
	case objInt:
		return obj.intV, true
	case objFloat:
		return int64(obj.floatV), true
	}
	return 0, false
}

func (d dict) getName(key string) (string, bool) {
	obj, ok := d[key]
	if !ok {
		return "", false
	}
	switch obj.typ {
	case objName:
		return obj.name, true
	case objString:
		return string(obj.str), true
	}
	return "", false
}

func (d dict) getArray(key string) ([]*object, bool) {
	obj, ok := d[key]
	if !ok {
		return nil, false
	}
	if obj.typ == objArray {
		return obj.array, true
	}
	// single object treated as a 1-element array
	return []*object{obj}, true
}

const maxNesting = 100

// parser is a recursive-descent PDF object parser over a byte slice.
type parser struct {
	data  []byte
	pos   int
	depth int
}

func newParser(data []byte, pos int) *parser {
	return &parser{data: data, pos: pos}
}

// skipSpace skips whitespace and PDF comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		} else if isSpace(c) {
			p.pos++
		} else {
			break
		}
	}
}

// match checks whether the upcoming bytes equal s and advances past them if so.
func (p *parser) match(s string) bool {
	end := p.pos + len(s)
	if end > len(p.data) {
		return false
	}
	if string(p.data[p.pos:end]) == s {
		p.pos = end
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// parseObject parses one PDF object at the current position.
func (p *parser) parseObject() (*object, error) {
	if p.depth > maxNesting {
		return nil, fmt.Errorf("exceeded maximum nesting depth")
	}
	p.depth++
	defer func() { p.depth-- }()

	p.skipSpace()
	if p.pos >= len(p.data) {
		return &object{typ: objNull}, nil
	}

	c := p.data[p.pos]
	switch {
	case c == 'n' && p.match("null"):
		return &object{typ: objNull}, nil
	case c == 't' && p.match("true"):
		return &object{typ: objBool, boolV: true}, nil
	case c == 'f' && p.match("false"):
		return &object{typ: objBool}, nil
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName()
	case c == '[':
		return p.parseArray()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumberOrRef()
	default:
		// unknown token, skip it
		return &object{typ: objNull}, nil
	}
}

// parseString parses a literal string (...), resolving escapes.
func (p *parser) parseString() (*object, error) {
	p.pos++ // consume '('
	var buf bytes.Buffer
	depth := 1
	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.data) {
				break
			}
			esc := p.data[p.pos]
			p.pos++
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(esc)
			case '\r':
				// line continuation
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
				// line continuation
			default:
				if esc >= '0' && esc <= '7' {
					oct := int(esc - '0')
					for k := 0; k < 2 && p.pos < len(p.data); k++ {
						d := p.data[p.pos]
						if d < '0' || d > '7' {
							break
						}
						oct = oct*8 + int(d-'0')
						p.pos++
					}
					buf.WriteByte(byte(oct))
				} else {
					buf.WriteByte(esc)
				}
			}
			continue
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			depth--
			if depth == 0 {
				p.pos++
				break
			}
		}
		buf.WriteByte(c)
		p.pos++
	}
	return &object{typ: objString, str: buf.Bytes()}, nil
}

// parseHexString parses <hex digits>.
func (p *parser) parseHexString() (*object, error) {
	p.pos++ // consume '<'
	var buf bytes.Buffer
	for p.pos < len(p.data) && p.data[p.pos] != '>' {
		if isSpace(p.data[p.pos]) {
			p.pos++
			continue
		}
		hi := hexVal(p.data[p.pos])
		p.pos++
		var lo byte
		for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
			p.pos++
		}
		if p.pos < len(p.data) && p.data[p.pos] != '>' {
			lo = hexVal(p.data[p.pos])
			p.pos++
		}
		buf.WriteByte(hi<<4 | lo)
	}
	if p.pos < len(p.data) {
		p.pos++ // consume '>'
	}
	return &object{typ: objString, str: buf.Bytes()}, nil
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// parseName parses a PDF name /Foo with #XX escapes.
func (p *parser) parseName() (*object, error) {
	p.pos++ // consume '/'
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) || isDelim(c) {
			break
		}
		p.pos++
	}
	name := string(p.data[start:p.pos])
	if bytes.ContainsRune([]byte(name), '#') {
		var buf bytes.Buffer
		for i := 0; i < len(name); {
			if name[i] == '#' && i+2 < len(name) {
				buf.WriteByte(hexVal(name[i+1])<<4 | hexVal(name[i+2]))
				i += 3
			} else {
				buf.WriteByte(name[i])
				i++
			}
		}
		name = buf.String()
	}
	return &object{typ: objName, name: name}, nil
}

// parseArray parses [...].
func (p *parser) parseArray() (*object, error) {
	p.pos++ // consume '['
	var arr []*object
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		if p.data[p.pos] == ']' {
			p.pos++
			break
		}
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
	return &object{typ: objArray, array: arr}, nil
}

// parseDict parses <<...>> and, when followed by a stream keyword, the
// stream payload as well.
func (p *parser) parseDict() (*object, error) {
	p.pos += 2 // consume '<<'
	d := make(dict)
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			break
		}
		if p.data[p.pos] != '/' {
			// skip malformed token
			p.pos++
			continue
		}
		keyObj, err := p.parseName()
		if err != nil {
			return nil, err
		}
		valObj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		d[keyObj.name] = valObj
	}

	p.skipSpace()
	if !p.match("stream") {
		return &object{typ: objDict, dict: d}, nil
	}
	if p.pos < len(p.data) && p.data[p.pos] == '\r' {
		p.pos++
	}
	if p.pos < len(p.data) && p.data[p.pos] == '\n' {
		p.pos++
	}

	streamStart := p.pos
	length := -1
	if lenObj, ok := d.getInt("Length"); ok {
		length = int(lenObj)
	}

	var streamData []byte
	if length >= 0 && streamStart+length <= len(p.data) {
		streamData = p.data[streamStart : streamStart+length]
		p.pos = streamStart + length
	} else {
		// fallback: scan for endstream
		end := bytes.Index(p.data[streamStart:], []byte("endstream"))
		if end < 0 {
			end = len(p.data) - streamStart
		}
		streamData = p.data[streamStart : streamStart+end]
		p.pos = streamStart + end
	}

	p.skipSpace()
	p.match("endstream")

	return &object{typ: objStream, dict: d, stream: streamData}, nil
}

// parseNumberOrRef parses a number or an indirect reference (N G R).
func (p *parser) parseNumberOrRef() (*object, error) {
	numStr := p.readToken()
	n, errN := strconv.ParseInt(numStr, 10, 64)

	if errN == nil {
		savedAfterN := p.pos
		p.skipSpace()
		genStr := p.readToken()
		if g, errG := strconv.ParseInt(genStr, 10, 64); errG == nil {
			p.skipSpace()
			if p.pos < len(p.data) && p.data[p.pos] == 'R' {
				next := p.pos + 1
				if next >= len(p.data) || isSpace(p.data[next]) || isDelim(p.data[next]) {
					p.pos++
					return &object{typ: objRef, ref: reference{number: int(n), gen: int(g)}}, nil
				}
			}
		}
		p.pos = savedAfterN
		return &object{typ: objInt, intV: n}, nil
	}
	if f, err := strconv.ParseFloat(numStr, 64); err == nil {
		return &object{typ: objFloat, floatV: f}, nil
	}
	return &object{typ: objNull}, nil
}

// readToken reads a non-whitespace, non-delimiter token.
func (p *parser) readToken() string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) || isDelim(c) {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}
