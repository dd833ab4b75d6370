// Package chunk cleans raw document text and splits it into fixed-size,
// ordered, content-addressed chunks.
package chunk

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sells-group/foresight-cli/internal/model"
)

// DefaultSize is the chunk window in runes.
const DefaultSize = 800

// Split cuts normalized text into fixed-size windows. Chunk IDs embed the
// 1-based index and the first 8 hex chars of the content's SHA-1, so they
// are stable within a run without being globally unique.
func Split(text string, size int) []model.Chunk {
	if size <= 0 {
		size = DefaultSize
	}

	runes := []rune(Normalize(text))
	var chunks []model.Chunk
	for pos, idx := 0, 1; pos < len(runes); pos, idx = pos+size, idx+1 {
		end := pos + size
		if end > len(runes) {
			end = len(runes)
		}
		slice := strings.TrimSpace(string(runes[pos:end]))
		if slice == "" {
			continue
		}
		chunks = append(chunks, model.Chunk{
			Index: idx - 1,
			ID:    fmt.Sprintf("c%d-%s", idx, hashText(slice)),
			Text:  slice,
		})
	}
	return chunks
}

func hashText(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}
