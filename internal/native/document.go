// Package native is a self-contained, pure-Go PDF text extractor. It backs
// the "native" registry entry: the one extraction backend that needs no cgo,
// no native libraries, and no network, so a comparison always has at least
// one runnable candidate.
//
// The reader handles classic xref tables, cross-reference streams and object
// streams (PDF 1.5+), Flate/ASCIIHex/RunLength filters, and assembles text
// from positioned content-stream spans. Font-specific encodings are not
// interpreted; strings decode through a Latin-1 fallback, which is the usual
// trade-off for lightweight extractors.
package native

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// xrefEntry describes one entry in the cross-reference table.
type xrefEntry struct {
	offset     int64
	generation int
	inUse      bool
	// for compressed objects (PDF 1.5+)
	compressed  bool
	streamObjID int
	indexInStrm int
}

// Document is a loaded PDF file.
type Document struct {
	data    []byte
	xref    map[int]xrefEntry
	trailer dict
	cache   map[int]*object
}

// Open reads and parses a PDF file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Load(data)
}

// Load parses a PDF from raw bytes.
func Load(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("not a PDF file")
	}
	doc := &Document{
		data:  data,
		xref:  make(map[int]xrefEntry),
		cache: make(map[int]*object),
	}
	if err := doc.loadXRef(); err != nil {
		return nil, fmt.Errorf("loading xref: %w", err)
	}
	return doc, nil
}

// PageCount returns the number of pages, or 0 if the page tree is broken.
func (doc *Document) PageCount() int {
	pages, err := doc.pages()
	if err != nil {
		return 0
	}
	return len(pages)
}

func (doc *Document) loadXRef() error {
	offset, err := doc.findStartXRef()
	if err != nil {
		return err
	}
	return doc.loadXRefAt(offset)
}

// findStartXRef scans backward for "startxref" and reads the offset value.
func (doc *Document) findStartXRef() (int64, error) {
	searchFrom := len(doc.data) - 1024
	if searchFrom < 0 {
		searchFrom = 0
	}
	idx := bytes.LastIndex(doc.data[searchFrom:], []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}
	pos := searchFrom + idx + len("startxref")
	for pos < len(doc.data) && isSpace(doc.data[pos]) {
		pos++
	}
	end := pos
	for end < len(doc.data) && doc.data[end] >= '0' && doc.data[end] <= '9' {
		end++
	}
	if end == pos {
		return 0, fmt.Errorf("invalid startxref value")
	}
	offset, err := strconv.ParseInt(string(doc.data[pos:end]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing startxref: %w", err)
	}
	return offset, nil
}

// loadXRefAt loads the xref section (table or stream) at a file offset,
// following /Prev chains for incremental updates.
func (doc *Document) loadXRefAt(offset int64) error {
	if offset < 0 || int(offset) >= len(doc.data) {
		return fmt.Errorf("xref offset out of bounds: %d", offset)
	}
	p := newParser(doc.data, int(offset))
	p.skipSpace()
	if p.match("xref") {
		return doc.parseXRefTable(p)
	}
	return doc.parseXRefStream(p)
}

func (doc *Document) parseXRefTable(p *parser) error {
	for {
		p.skipSpace()
		if p.pos >= len(doc.data) {
			break
		}
		if bytes.HasPrefix(doc.data[p.pos:], []byte("trailer")) {
			p.pos += len("trailer")
			break
		}
		first, err1 := strconv.Atoi(p.readToken())
		p.skipSpace()
		count, err2 := strconv.Atoi(p.readToken())
		if err1 != nil || err2 != nil {
			break
		}
		p.skipSpace()
		// each entry is exactly 20 bytes: "nnnnnnnnnn ggggg n/f\r\n"
		for i := 0; i < count; i++ {
			id := first + i
			if p.pos+20 > len(doc.data) {
				break
			}
			entry := string(doc.data[p.pos : p.pos+20])
			p.pos += 20
			if len(entry) < 18 {
				continue
			}
			off, _ := strconv.ParseInt(strings.TrimSpace(entry[:10]), 10, 64)
			gen, _ := strconv.Atoi(strings.TrimSpace(entry[11:16]))
			if _, exists := doc.xref[id]; !exists {
				doc.xref[id] = xrefEntry{offset: off, generation: gen, inUse: entry[17] == 'n'}
			}
		}
	}

	p.skipSpace()
	trailerObj, err := p.parseObject()
	if err != nil {
		return fmt.Errorf("parsing trailer: %w", err)
	}
	if doc.trailer == nil && trailerObj.typ == objDict {
		doc.trailer = trailerObj.dict
	}
	if prev, ok := doc.trailer.getInt("Prev"); ok && prev > 0 {
		return doc.loadXRefAt(prev)
	}
	return nil
}

// parseXRefStream handles a cross-reference stream object (PDF 1.5+).
func (doc *Document) parseXRefStream(p *parser) error {
	p.readToken() // object number
	p.skipSpace()
	p.readToken() // generation
	p.skipSpace()
	p.match("obj")
	p.skipSpace()

	obj, err := p.parseObject()
	if err != nil {
		return fmt.Errorf("parsing xref stream object: %w", err)
	}
	if obj.typ != objStream {
		return fmt.Errorf("xref at offset is not a stream")
	}
	if doc.trailer == nil {
		doc.trailer = obj.dict
	}

	streamData, err := decodeStream(obj.dict, obj.stream)
	if err != nil {
		return fmt.Errorf("decoding xref stream: %w", err)
	}

	w, _ := obj.dict.getArray("W")
	if len(w) < 3 {
		return fmt.Errorf("xref stream missing /W")
	}
	w1, w2, w3 := int(w[0].intV), int(w[1].intV), int(w[2].intV)
	entrySize := w1 + w2 + w3
	if entrySize == 0 {
		return fmt.Errorf("xref stream zero entry size")
	}

	size, _ := obj.dict.getInt("Size")
	var subsections [][2]int
	if indexArr, ok := obj.dict.getArray("Index"); ok {
		for i := 0; i+1 < len(indexArr); i += 2 {
			subsections = append(subsections, [2]int{int(indexArr[i].intV), int(indexArr[i+1].intV)})
		}
	} else {
		subsections = [][2]int{{0, int(size)}}
	}

	offset := 0
	for _, sub := range subsections {
		first, count := sub[0], sub[1]
		for i := 0; i < count; i++ {
			if offset+entrySize > len(streamData) {
				break
			}
			id := first + i
			t := readBigEndian(streamData[offset:], w1)
			f2 := readBigEndian(streamData[offset+w1:], w2)
			f3 := readBigEndian(streamData[offset+w1+w2:], w3)
			offset += entrySize

			if _, exists := doc.xref[id]; exists {
				continue
			}
			switch t {
			case 0:
				doc.xref[id] = xrefEntry{generation: f3}
			case 1:
				doc.xref[id] = xrefEntry{offset: int64(f2), generation: f3, inUse: true}
			case 2:
				doc.xref[id] = xrefEntry{compressed: true, streamObjID: f2, indexInStrm: f3, inUse: true}
			}
		}
	}

	if prev, ok := obj.dict.getInt("Prev"); ok && prev > 0 {
		return doc.loadXRefAt(prev)
	}
	return nil
}

func readBigEndian(data []byte, n int) int {
	v := 0
	for i := 0; i < n && i < len(data); i++ {
		v = v<<8 | int(data[i])
	}
	return v
}

// resolveRef follows an indirect reference. Broken references degrade to
// null objects so one bad object cannot fail the whole document.
func (doc *Document) resolveRef(ref reference) *object {
	if obj, ok := doc.cache[ref.number]; ok {
		return obj
	}
	entry, ok := doc.xref[ref.number]
	if !ok || !entry.inUse {
		return &object{typ: objNull}
	}

	var obj *object
	var err error
	if entry.compressed {
		obj, err = doc.resolveCompressed(entry)
	} else {
		obj, err = doc.resolveAtOffset(entry.offset)
	}
	if err != nil {
		return &object{typ: objNull}
	}
	doc.cache[ref.number] = obj
	return obj
}

// resolveAtOffset parses "N G obj ... endobj" at a byte offset.
func (doc *Document) resolveAtOffset(offset int64) (*object, error) {
	if offset < 0 || int(offset) >= len(doc.data) {
		return nil, fmt.Errorf("object offset %d out of bounds", offset)
	}
	parseAt := func() (*object, error) {
		p := newParser(doc.data, int(offset))
		p.readToken()
		p.skipSpace()
		p.readToken()
		p.skipSpace()
		if !p.match("obj") {
			return nil, fmt.Errorf("expected 'obj' at offset %d", offset)
		}
		return p.parseObject()
	}
	obj, err := parseAt()
	if err != nil {
		return nil, err
	}

	// A stream /Length may be an indirect reference; resolve and re-parse
	// so the stream payload boundary is exact.
	if obj.typ == objStream {
		if lenRef, ok := obj.dict["Length"]; ok && lenRef.typ == objRef {
			if lenObj := doc.resolveRef(lenRef.ref); lenObj.typ == objInt {
				obj.dict["Length"] = lenObj
				return parseAt()
			}
		}
	}
	return obj, nil
}

// resolveCompressed reads an object stored inside an object stream.
func (doc *Document) resolveCompressed(entry xrefEntry) (*object, error) {
	strmObj := doc.resolveRef(reference{number: entry.streamObjID})
	if strmObj.typ != objStream {
		return nil, fmt.Errorf("compressed object container is not a stream")
	}

	data, err := decodeStream(strmObj.dict, strmObj.stream)
	if err != nil {
		return nil, err
	}

	n, _ := strmObj.dict.getInt("N")
	first, _ := strmObj.dict.getInt("First")

	// The stream opens with n (objnum, offset) pairs; indexInStrm selects
	// which pair this entry refers to.
	p := newParser(data, 0)
	offsets := make([]int, 0, int(n))
	for i := 0; i < int(n); i++ {
		p.skipSpace()
		p.readToken() // object number
		p.skipSpace()
		off, _ := strconv.Atoi(p.readToken())
		offsets = append(offsets, off)
	}
	if entry.indexInStrm < 0 || entry.indexInStrm >= len(offsets) {
		return nil, fmt.Errorf("object index %d outside object stream", entry.indexInStrm)
	}

	objPos := int(first) + offsets[entry.indexInStrm]
	if objPos < 0 || objPos >= len(data) {
		return nil, fmt.Errorf("object offset %d outside object stream", objPos)
	}
	p2 := newParser(data, objPos)
	return p2.parseObject()
}

// resolve returns the object, following any indirect reference.
func (doc *Document) resolve(obj *object) *object {
	if obj == nil || obj.typ != objRef {
		return obj
	}
	return doc.resolveRef(obj.ref)
}

// pages returns all leaf page dictionaries in document order.
func (doc *Document) pages() ([]dict, error) {
	rootRef, ok := doc.trailer["Root"]
	if !ok {
		return nil, fmt.Errorf("no /Root in trailer")
	}
	root := doc.resolve(rootRef)
	if root.typ != objDict {
		return nil, fmt.Errorf("root is not a dict")
	}
	pagesRef, ok := root.dict["Pages"]
	if !ok {
		return nil, fmt.Errorf("no /Pages in catalog")
	}
	pagesObj := doc.resolve(pagesRef)
	var pages []dict
	doc.collectPages(pagesObj.dict, &pages)
	return pages, nil
}

func (doc *Document) collectPages(node dict, pages *[]dict) {
	if typeName, _ := node.getName("Type"); typeName == "Page" {
		*pages = append(*pages, node)
		return
	}
	kidsObj, ok := node["Kids"]
	if !ok {
		return
	}
	kids := doc.resolve(kidsObj)
	if kids.typ != objArray {
		return
	}
	for _, kidRef := range kids.array {
		kid := doc.resolve(kidRef)
		if kid != nil && (kid.typ == objDict || kid.typ == objStream) {
			doc.collectPages(kid.dict, pages)
		}
	}
}

// contentStreams returns the combined decoded content stream for a page.
func (doc *Document) contentStreams(page dict) []byte {
	contentsObj, ok := page["Contents"]
	if !ok {
		return nil
	}
	contents := doc.resolve(contentsObj)

	streams := []*object{contents}
	if contents.typ == objArray {
		streams = contents.array
	}
	var result []byte
	for _, s := range streams {
		resolved := doc.resolve(s)
		if resolved.typ != objStream {
			continue
		}
		data, err := decodeStream(resolved.dict, resolved.stream)
		if err != nil {
			continue
		}
		result = append(result, data...)
		result = append(result, ' ')
	}
	return result
}
