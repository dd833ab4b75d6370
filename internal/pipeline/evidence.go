package pipeline

import (
	"context"
	"fmt"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

type evidenceResponse struct {
	Items []model.EvidenceItem `json:"items"`
}

func evidenceStage(ctx context.Context, e *llm.Engine, chunks []model.Chunk) []model.EvidenceItem {
	input := make([]map[string]string, len(chunks))
	for i, ch := range chunks {
		input[i] = map[string]string{"id": ch.ID, "text": ch.Text}
	}

	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "evidence",
		Prompt: prompts["evidence"],
		Input:  map[string]any{"chunks": input},
		Schema: evidenceSchema,
	}, func() evidenceResponse {
		return evidenceResponse{Items: fallbackEvidence(chunks)}
	})
	return resp.Items
}

// fallbackEvidence lifts up to two sentences per chunk verbatim, cycling
// through the evidence kinds. A document that yields no sentence at all still
// gets one item so downstream stages have something to reference.
func fallbackEvidence(chunks []model.Chunk) []model.EvidenceItem {
	kinds := model.EvidenceKinds()

	var items []model.EvidenceItem
	for idx, ch := range chunks {
		sentences := splitSentences(ch.Text, 10)
		if len(sentences) > 2 {
			sentences = sentences[:2]
		}
		for sIdx, sentence := range sentences {
			items = append(items, model.EvidenceItem{
				ID:      fmt.Sprintf("ev-%d-%d", idx+1, sIdx+1),
				Kind:    kinds[(idx+sIdx)%len(kinds)],
				ChunkID: ch.ID,
				Snippet: truncRunes(sentence, model.MaxEvidenceSnippet),
				Content: truncRunes(sentence, model.MaxEvidenceContent),
			})
		}
	}

	if len(items) == 0 && len(chunks) > 0 {
		items = append(items, model.EvidenceItem{
			ID:      "ev-1-1",
			Kind:    model.EvidenceClaim,
			ChunkID: chunks[0].ID,
			Snippet: truncRunes(chunks[0].Text, model.MaxEvidenceSnippet),
			Content: truncRunes(chunks[0].Text, model.MaxEvidenceContent),
		})
	}
	return items
}
