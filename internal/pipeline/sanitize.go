package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/foresight-cli/internal/extract"
	"github.com/sells-group/foresight-cli/internal/model"
)

// SanitizeStatus tags the outcome of evidence sanitization.
type SanitizeStatus int

const (
	// SanitizeOK means at least one item survived with verified provenance.
	SanitizeOK SanitizeStatus = iota
	// SanitizeFellBack means every item was dropped; the caller must
	// substitute generated evidence.
	SanitizeFellBack
	// SanitizeFatal means the source chunks themselves are corrupt and the
	// job cannot continue.
	SanitizeFatal
)

// SanitizeResult is the tagged outcome of SanitizeEvidence. Err is set only
// for SanitizeFatal; Notes records every silent adjustment for the job
// record.
type SanitizeResult struct {
	Status SanitizeStatus
	Items  []model.EvidenceItem
	Notes  []string
	Err    error
}

var pdfMarkup = regexp.MustCompile(`%PDF-|\bxref\b|\bendobj\b|\bobj\s*<<`)

// SanitizeEvidence enforces provenance on model-produced evidence: every
// surviving item references a real chunk, its content is either a verbatim
// substring of that chunk or the chunk's own prefix, and its snippet is drawn
// from the chunk around the content. Items referencing unknown chunks are
// dropped and noted, never fixed up.
func SanitizeEvidence(items []model.EvidenceItem, chunks []model.Chunk) SanitizeResult {
	chunkText := make(map[string]string, len(chunks))
	for _, ch := range chunks {
		if pdfMarkup.MatchString(ch.Text) {
			return SanitizeResult{
				Status: SanitizeFatal,
				Err:    eris.Wrap(extract.ErrCorruptExtraction, "pipeline: chunk text contains raw pdf markup"),
			}
		}
		chunkText[ch.ID] = ch.Text
	}

	var (
		out   []model.EvidenceItem
		notes []string
	)
	for _, item := range items {
		text, ok := chunkText[item.ChunkID]
		if !ok {
			notes = append(notes, fmt.Sprintf("dropped %s: unknown chunk %q", item.ID, item.ChunkID))
			continue
		}

		if item.ID == "" {
			item.ID = "ev-" + shortID()
		}
		if !validKind(item.Kind) {
			notes = append(notes, fmt.Sprintf("%s: kind %q replaced with claim", item.ID, item.Kind))
			item.Kind = model.EvidenceClaim
		}

		content := strings.TrimSpace(item.Content)
		if content != "" {
			content = truncRunes(content, model.MaxEvidenceContent)
		}
		if content == "" || !strings.Contains(text, content) {
			if content != "" {
				notes = append(notes, fmt.Sprintf("%s: content not found verbatim, replaced with chunk prefix", item.ID))
			}
			content = truncRunes(text, model.MaxEvidenceContent)
		}
		item.Content = content
		item.Snippet = snippetAround(text, content)

		out = append(out, item)
	}

	status := SanitizeOK
	if len(out) == 0 {
		status = SanitizeFellBack
	}
	return SanitizeResult{Status: status, Items: out, Notes: notes}
}

func validKind(k model.EvidenceKind) bool {
	for _, known := range model.EvidenceKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// snippetAround extracts a display window from the chunk centered near the
// content's position.
func snippetAround(chunkText, content string) string {
	idx := strings.Index(chunkText, content)
	if idx < 0 {
		return truncRunes(chunkText, model.MaxEvidenceSnippet)
	}

	runes := []rune(chunkText)
	start := len([]rune(chunkText[:idx]))
	if start > 60 {
		start -= 60
	} else {
		start = 0
	}
	end := start + model.MaxEvidenceSnippet
	if end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start:end]))
}
