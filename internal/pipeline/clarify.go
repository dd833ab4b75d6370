package pipeline

import (
	"context"
	"fmt"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

type clarifyResponse struct {
	Questions []model.ClarificationQuestion `json:"questions"`
}

func clarifyStage(ctx context.Context, e *llm.Engine, coverage []model.CoverageEntry) []model.ClarificationQuestion {
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "clarify",
		Prompt: prompts["clarify"],
		Input:  map[string]any{"coverage": coverage},
		Schema: clarifySchema,
	}, func() clarifyResponse {
		return clarifyResponse{Questions: fallbackClarifications(coverage)}
	})

	for i := range resp.Questions {
		if resp.Questions[i].ID == "" {
			resp.Questions[i].ID = "q-" + resp.Questions[i].Module
		}
	}
	return resp.Questions
}

var clarificationTemplates = map[string]string{
	"trends":                 "Which developments in this area do you consider established trends, and over what period have you observed them?",
	"weak_signals":           "Are there any recent, marginal events or anomalies you noticed but did not elaborate on in the document?",
	"critical_uncertainties": "Which factors do you consider genuinely unpredictable, and what would their extreme outcomes look like?",
	"scenarios":              "If the key uncertainties resolved differently, what alternative futures would you expect?",
	"roadmapping":            "What concrete milestones or decision points exist for acting on this analysis?",
}

// fallbackClarifications asks one templated question per module the document
// does not actively cover.
func fallbackClarifications(coverage []model.CoverageEntry) []model.ClarificationQuestion {
	var out []model.ClarificationQuestion
	for _, entry := range coverage {
		if entry.Status == model.ModuleActive {
			continue
		}
		question, ok := clarificationTemplates[entry.Module]
		if !ok {
			question = fmt.Sprintf("What additional information can you provide regarding %s?", entry.Module)
		}
		out = append(out, model.ClarificationQuestion{
			ID:       "q-" + entry.Module,
			Module:   entry.Module,
			Question: question,
		})
	}
	return out
}
