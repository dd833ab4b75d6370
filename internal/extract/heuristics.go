package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	pdfInternals = regexp.MustCompile(`(?i)%PDF|xref|endobj|obj\s*<<`)
	nonWord      = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// collapse squashes all whitespace runs to single spaces and trims.
func collapse(text string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// hasPDFInternals detects PDF structural tokens leaking into extracted
// text, which indicates extraction failure rather than document content.
func hasPDFInternals(text string) bool {
	return pdfInternals.MatchString(text)
}

// uniqueWordCount counts distinct case-folded words after stripping
// punctuation.
func uniqueWordCount(text string) int {
	words := strings.Fields(nonWord.ReplaceAllString(text, " "))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return len(seen)
}

// looksScanned applies the tuned scanned-document heuristic to cleaned text:
// very little text overall, very low lexical diversity, or very little text
// per page all point at a scanned PDF with no real text layer.
func (s *Service) looksScanned(cleaned string, pages int) bool {
	unique := uniqueWordCount(cleaned)
	perPage := float64(len([]rune(cleaned)))
	if pages > 0 {
		perPage /= float64(pages)
	}
	return len([]rune(cleaned)) < s.cfg.ScannedMaxChars ||
		unique < s.cfg.ScannedMinWords ||
		perPage < float64(s.cfg.ScannedMinPerPage)
}

// smallDocOverride exempts single-page documents with a little real content
// from the scanned heuristic: a one-page memo with 15 characters is short,
// not scanned.
func (s *Service) smallDocOverride(cleaned string, pages int) bool {
	return len([]rune(cleaned)) >= s.cfg.MinUsableChars &&
		pages <= 1 &&
		uniqueWordCount(cleaned) >= s.cfg.SmallDocMinUnique
}

// looksBinary samples the head of the text and reports true when the ratio
// of non-printable or replacement characters exceeds the configured bound.
func (s *Service) looksBinary(text string) bool {
	runes := []rune(text)
	if len(runes) > s.cfg.BinarySampleChars {
		runes = runes[:s.cfg.BinarySampleChars]
	}
	if len(runes) == 0 {
		return false
	}

	bad := 0
	for _, r := range runes {
		if r == unicode.ReplacementChar || (r < 32 && r != '\t' && r != '\n' && r != '\v' && r != '\f' && r != '\r') {
			bad++
		}
	}
	return float64(bad)/float64(len(runes)) > s.cfg.BinaryMaxBadRatio
}
