package pipeline

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/extract"
	"github.com/sells-group/foresight-cli/internal/model"
)

func testChunks() []model.Chunk {
	return []model.Chunk{
		{Index: 0, ID: "c1-aaaa", Text: "Solar adoption doubled last year across the region. Grid operators report record storage deployments and falling battery prices."},
		{Index: 1, ID: "c2-bbbb", Text: "Several ministries have announced draft regulation for distributed generation, though the timeline remains unclear."},
	}
}

func TestSanitizeEvidence_KeepsVerbatimContent(t *testing.T) {
	chunks := testChunks()
	res := SanitizeEvidence([]model.EvidenceItem{
		{ID: "e1", Kind: model.EvidenceClaim, ChunkID: "c1-aaaa", Content: "Solar adoption doubled last year"},
	}, chunks)

	require.Equal(t, SanitizeOK, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Solar adoption doubled last year", res.Items[0].Content)
	assert.Empty(t, res.Notes)
}

func TestSanitizeEvidence_DropsUnknownChunk(t *testing.T) {
	res := SanitizeEvidence([]model.EvidenceItem{
		{ID: "e1", Kind: model.EvidenceClaim, ChunkID: "c99-none", Content: "whatever"},
	}, testChunks())

	assert.Equal(t, SanitizeFellBack, res.Status)
	assert.Empty(t, res.Items)
	assert.Len(t, res.Notes, 1)
}

func TestSanitizeEvidence_ReplacesFabricatedContent(t *testing.T) {
	chunks := testChunks()
	res := SanitizeEvidence([]model.EvidenceItem{
		{ID: "e1", Kind: model.EvidenceActor, ChunkID: "c2-bbbb", Content: "this sentence does not appear in the chunk"},
	}, chunks)

	require.Equal(t, SanitizeOK, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, truncRunes(chunks[1].Text, model.MaxEvidenceContent), res.Items[0].Content)
	assert.NotEmpty(t, res.Notes)
}

func TestSanitizeEvidence_ContentInvariant(t *testing.T) {
	chunks := testChunks()
	items := []model.EvidenceItem{
		{ID: "e1", Kind: model.EvidenceClaim, ChunkID: "c1-aaaa", Content: "record storage deployments"},
		{ID: "e2", Kind: model.EvidenceEvent, ChunkID: "c2-bbbb", Content: "made up"},
		{ID: "e3", Kind: model.EvidenceKind("bogus"), ChunkID: "c1-aaaa", Content: ""},
	}
	res := SanitizeEvidence(items, chunks)

	require.Equal(t, SanitizeOK, res.Status)
	byID := map[string]string{"c1-aaaa": chunks[0].Text, "c2-bbbb": chunks[1].Text}
	for _, item := range res.Items {
		text := byID[item.ChunkID]
		verbatim := strings.Contains(text, item.Content)
		prefix := item.Content == truncRunes(text, model.MaxEvidenceContent)
		assert.True(t, verbatim || prefix, "content of %s must be verbatim or chunk prefix", item.ID)
		assert.LessOrEqual(t, len([]rune(item.Snippet)), model.MaxEvidenceSnippet)
		assert.Contains(t, []model.EvidenceKind{model.EvidenceClaim, model.EvidenceActor, model.EvidenceEvent, model.EvidenceMetric}, item.Kind)
	}
}

func TestSanitizeEvidence_FatalOnPDFMarkup(t *testing.T) {
	chunks := []model.Chunk{
		{Index: 0, ID: "c1-dead", Text: "1 0 obj << /Type /Catalog >> endobj xref"},
	}
	res := SanitizeEvidence([]model.EvidenceItem{
		{ID: "e1", Kind: model.EvidenceClaim, ChunkID: "c1-dead", Content: "anything"},
	}, chunks)

	require.Equal(t, SanitizeFatal, res.Status)
	require.Error(t, res.Err)
	assert.True(t, eris.Is(res.Err, extract.ErrCorruptExtraction))
}
