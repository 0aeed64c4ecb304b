package chunk

// Fixed slices text into windows of Size runes with Overlap runes shared
// between adjacent windows. Windows never split a rune but pay no
// attention to words; use the recursive chunker for boundary-aware
// splitting.
type Fixed struct {
	Size    int
	Overlap int
}

func (f *Fixed) Name() string { return "fixed" }

func (f *Fixed) Split(text string) ([]string, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	step := f.Size - f.Overlap
	if step <= 0 {
		step = f.Size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + f.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
