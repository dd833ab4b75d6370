package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// shortID yields a compact random suffix for generated item ids.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// numberedID yields the deterministic ids used by fallback generators, so an
// offline run is reproducible end to end.
func numberedID(prefix string, n int) string {
	return fmt.Sprintf("%s-%d", prefix, n)
}

// truncRunes cuts s to at most n runes.
func truncRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// splitSentences breaks text on sentence-ending punctuation, keeping only
// fragments long enough to carry meaning.
func splitSentences(text string, minLen int) []string {
	var out []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '؟', '۔', '\n':
			return true
		}
		return false
	}) {
		part = strings.TrimSpace(part)
		if len([]rune(part)) >= minLen {
			out = append(out, part)
		}
	}
	return out
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
