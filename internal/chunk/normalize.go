package chunk

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	repeatPattern  = regexp.MustCompile(`([\p{L}\p{N}])\1{2,}`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// arabicFold maps Arabic letter variants onto their Persian forms so that
// tokenization and substring checks are stable regardless of the keyboard
// the source document was typed on.
var arabicFold = runes.Map(func(r rune) rune {
	switch r {
	case 'ي': // ARABIC LETTER YEH
		return 'ی'
	case 'ك': // ARABIC LETTER KAF
		return 'ک'
	case '‌', '‍': // zero-width (non-)joiner
		return ' '
	}
	return r
})

// Normalize canonicalizes raw text: NFC form, Arabic→Persian letter folding,
// zero-width character removal, whitespace collapse.
func Normalize(text string) string {
	t := transform.Chain(norm.NFC, arabicFold)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = spacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Preprocess strips noise that would waste model context: HTML tags, URLs,
// emoji, hashtag/mention tokens, and runs of three or more repeated letters.
// Deterministic and safe on empty input.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}

	working := htmlTagPattern.ReplaceAllString(text, " ")
	working = urlPattern.ReplaceAllString(working, " ")
	working = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) {
			return ' '
		}
		return r
	}, working)

	tokens := strings.Fields(working)
	kept := tokens[:0]
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "#") || strings.HasPrefix(tok, "@") {
			continue
		}
		kept = append(kept, tok)
	}

	working = strings.Join(kept, " ")
	working = repeatPattern.ReplaceAllString(working, "$1")
	return Normalize(working)
}
