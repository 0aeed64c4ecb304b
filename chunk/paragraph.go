package chunk

import "strings"

// Paragraph groups blank-line separated paragraphs into chunks of up to
// MaxSize bytes. A single paragraph larger than MaxSize becomes its own
// chunk rather than being split mid-sentence.
type Paragraph struct {
	MaxSize int
}

func (p *Paragraph) Name() string { return "paragraph" }

func (p *Paragraph) Split(text string) ([]string, error) {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var buffer strings.Builder
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if buffer.Len() > 0 && buffer.Len()+len(para) > p.MaxSize {
			chunks = append(chunks, strings.TrimSpace(buffer.String()))
			buffer.Reset()
		}
		buffer.WriteString(para)
		buffer.WriteString("\n\n")
	}
	if buffer.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(buffer.String()))
	}
	return chunks, nil
}
