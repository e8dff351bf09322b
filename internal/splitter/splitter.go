package splitter

// Chunk is a window of source text together with its start offset,
// measured in runes from the beginning of the document.
type Chunk struct {
	Text  string
	Start int
}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Split cuts text into overlapping windows of size runes, each overlapping
// the previous one by overlap runes. The final window always carries the
// remainder, so every rune of the input is covered by at least one chunk.
func Split(text string, size, overlap int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []Chunk
	step := size - overlap
	for start := 0; ; start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:  string(runes[start:end]),
			Start: start,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
