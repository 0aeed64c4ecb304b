package native

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// maxDecodedSize caps stream decoding at 256 MB to bound memory use on
// hostile input.
const maxDecodedSize = 256 * 1024 * 1024

// decodeStream decodes a PDF stream given its dictionary and raw bytes,
// applying filter chains in sequence.
func decodeStream(d dict, data []byte) ([]byte, error) {
	filterObj, ok := d["Filter"]
	if !ok {
		return data, nil
	}

	var filters []string
	var params []dict
	switch filterObj.typ {
	case objName:
		filters = []string{filterObj.name}
		if pObj, ok := d["DecodeParms"]; ok && pObj.typ == objDict {
			params = []dict{pObj.dict}
		} else {
			params = []dict{nil}
		}
	case objArray:
		for _, f := range filterObj.array {
			if f.typ == objName {
				filters = append(filters, f.name)
			}
		}
		if pArr, ok := d["DecodeParms"]; ok && pArr.typ == objArray {
			for _, p := range pArr.array {
				if p != nil && p.typ == objDict {
					params = append(params, p.dict)
				} else {
					params = append(params, nil)
				}
			}
		}
		for len(params) < len(filters) {
			params = append(params, nil)
		}
	default:
		return data, nil
	}

	current := data
	for i, filter := range filters {
		var parms dict
		if i < len(params) {
			parms = params[i]
		}
		var err error
		current, err = applyFilter(filter, parms, current)
		if err != nil {
			return nil, fmt.Errorf("applying filter %s: %w", filter, err)
		}
	}
	return current, nil
}

func applyFilter(filter string, parms dict, data []byte) ([]byte, error) {
	switch filter {
	case "FlateDecode", "Fl":
		return flateDecode(parms, data)
	case "ASCIIHexDecode", "AHx":
		return asciiHexDecode(data)
	case "RunLengthDecode", "RL":
		return runLengthDecode(data)
	case "DCTDecode", "DCT", "CCITTFaxDecode", "CCF", "JBIG2Decode", "JPXDecode":
		// image formats: pass through, text extraction ignores them
		return data, nil
	case "Crypt":
		// identity crypt
		return data, nil
	default:
		return data, fmt.Errorf("unsupported filter: %s", filter)
	}
}

// flateDecode decompresses zlib data with optional PNG/TIFF predictor.
func flateDecode(parms dict, data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()

	result, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("zlib read: %w", err)
	}
	if len(result) > maxDecodedSize {
		return nil, fmt.Errorf("decoded size exceeds %d bytes", maxDecodedSize)
	}
	if parms == nil {
		return result, nil
	}

	predictor, ok := parms.getInt("Predictor")
	switch {
	case !ok || predictor == 1:
		return result, nil
	case predictor == 2:
		return applyTIFFPredictor(parms, result), nil
	case predictor >= 10 && predictor <= 15:
		return applyPNGPredictor(parms, result), nil
	}
	return result, nil
}

func predictorRowBytes(parms dict) int {
	colors, _ := parms.getInt("Colors")
	bits, _ := parms.getInt("BitsPerComponent")
	columns, _ := parms.getInt("Columns")
	if colors == 0 {
		colors = 1
	}
	if bits == 0 {
		bits = 8
	}
	if columns == 0 {
		columns = 1
	}
	return int((columns*colors*bits + 7) / 8)
}

func applyTIFFPredictor(parms dict, data []byte) []byte {
	rowBytes := predictorRowBytes(parms)
	if rowBytes == 0 {
		return data
	}
	result := make([]byte, len(data))
	for row := 0; row*rowBytes < len(data); row++ {
		start := row * rowBytes
		end := start + rowBytes
		if end > len(data) {
			end = len(data)
		}
		copy(result[start:end], data[start:end])
		for i := start + 1; i < end; i++ {
			result[i] += result[i-1]
		}
	}
	return result
}

// applyPNGPredictor undoes PNG row filters 0-4 (None/Sub/Up/Average/Paeth).
func applyPNGPredictor(parms dict, data []byte) []byte {
	rowBytes := predictorRowBytes(parms)
	stride := rowBytes + 1 // +1 for the per-row filter byte
	if len(data) == 0 || stride <= 1 {
		return data
	}

	numRows := len(data) / stride
	result := make([]byte, numRows*rowBytes)
	prev := make([]byte, rowBytes)

	for row := 0; row < numRows; row++ {
		srcRow := data[row*stride : (row+1)*stride]
		filterType := srcRow[0]
		srcData := srcRow[1:]
		dstRow := result[row*rowBytes : (row+1)*rowBytes]

		switch filterType {
		case 1: // Sub
			for i := range dstRow {
				var a byte
				if i > 0 {
					a = dstRow[i-1]
				}
				dstRow[i] = srcData[i] + a
			}
		case 2: // Up
			for i := range dstRow {
				dstRow[i] = srcData[i] + prev[i]
			}
		case 3: // Average
			for i := range dstRow {
				var a byte
				if i > 0 {
					a = dstRow[i-1]
				}
				dstRow[i] = srcData[i] + byte((int(a)+int(prev[i]))/2)
			}
		case 4: // Paeth
			for i := range dstRow {
				var a, c byte
				if i > 0 {
					a = dstRow[i-1]
					c = prev[i-1]
				}
				dstRow[i] = srcData[i] + paeth(a, prev[i], c)
			}
		default: // None or unknown
			copy(dstRow, srcData)
		}
		copy(prev, dstRow)
	}
	return result
}

func paeth(a, b, c byte) byte {
	ia, ib, ic := int(a), int(b), int(c)
	p := ia + ib - ic
	pa, pb, pc := intAbs(p-ia), intAbs(p-ib), intAbs(p-ic)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// asciiHexDecode decodes pairs of hex digits up to the '>' terminator.
func asciiHexDecode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	i := 0
	for i < len(data) {
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		if i >= len(data) || data[i] == '>' {
			break
		}
		hi := hexVal(data[i])
		i++
		var lo byte
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		if i < len(data) && data[i] != '>' {
			lo = hexVal(data[i])
			i++
		}
		buf.WriteByte(hi<<4 | lo)
	}
	return buf.Bytes(), nil
}

// runLengthDecode decompresses PackBits runs: 0-127 copies length+1 literal
// bytes, 129-255 repeats the next byte 257-length times, 128 ends the data.
func runLengthDecode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	i := 0
	for i < len(data) {
		length := int(data[i])
		i++
		switch {
		case length == 128:
			return buf.Bytes(), nil
		case length < 128:
			count := length + 1
			if i+count > len(data) {
				count = len(data) - i
			}
			buf.Write(data[i : i+count])
			i += count
		default:
			count := 257 - length
			if i >= len(data) {
				return buf.Bytes(), nil
			}
			b := data[i]
			i++
			for j := 0; j < count; j++ {
				buf.WriteByte(b)
			}
		}
		if buf.Len() > maxDecodedSize {
			return nil, fmt.Errorf("decoded size exceeds %d bytes", maxDecodedSize)
		}
	}
	return buf.Bytes(), nil
}
