package pipeline

import (
	"context"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

// The three derivation engines run sequentially and are each gated on their
// coverage verdict: an inactive module produces nothing and costs no model
// call.

type trendsResponse struct {
	Trends []model.Trend `json:"trends"`
}

func trendsStage(ctx context.Context, e *llm.Engine, evidence []model.EvidenceItem, coverage []model.CoverageEntry, profile model.DocumentProfile) []model.Trend {
	if moduleStatus(coverage, "trends") == model.ModuleInactive {
		return nil
	}
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "trends",
		Prompt: prompts["trends"],
		Input: map[string]any{
			"domain":   profile.Domain,
			"evidence": evidence,
		},
		Schema: trendsSchema,
	}, func() trendsResponse {
		return trendsResponse{Trends: fallbackTrends(evidence)}
	})
	return resp.Trends
}

// fallbackTrends promotes the first few claim/metric evidence items to
// low-confidence trends.
func fallbackTrends(evidence []model.EvidenceItem) []model.Trend {
	var out []model.Trend
	for _, ev := range evidence {
		if ev.Kind != model.EvidenceClaim && ev.Kind != model.EvidenceMetric {
			continue
		}
		category := model.TrendPlain
		if len(out) == 0 {
			category = model.TrendMega
		}
		out = append(out, model.Trend{
			ID:          numberedID("tr", len(out)+1),
			Label:       truncRunes(ev.Content, 80),
			Category:    category,
			Direction:   "rising",
			Strength:    "medium",
			EvidenceIDs: []string{ev.ID},
			LabelType:   model.LabelInference,
			Confidence:  0.58,
		})
		if len(out) == 3 {
			break
		}
	}
	return out
}

type weakSignalsResponse struct {
	WeakSignals []model.WeakSignal `json:"weak_signals"`
}

func weakSignalsStage(ctx context.Context, e *llm.Engine, evidence []model.EvidenceItem, coverage []model.CoverageEntry) []model.WeakSignal {
	if moduleStatus(coverage, "weak_signals") == model.ModuleInactive {
		return nil
	}
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "weak_signals",
		Prompt: prompts["weak_signals"],
		Input:  map[string]any{"evidence": evidence},
		Schema: weakSignalsSchema,
	}, func() weakSignalsResponse {
		return weakSignalsResponse{WeakSignals: fallbackWeakSignals(evidence)}
	})
	return resp.WeakSignals
}

func fallbackWeakSignals(evidence []model.EvidenceItem) []model.WeakSignal {
	var out []model.WeakSignal
	for _, ev := range evidence {
		if ev.Kind != model.EvidenceEvent && ev.Kind != model.EvidenceMetric {
			continue
		}
		out = append(out, model.WeakSignal{
			ID:          numberedID("ws", len(out)+1),
			Signal:      truncRunes(ev.Content, 120),
			Rationale:   "mentioned only in passing in the source",
			Evolution:   "may amplify if corroborated by further observations",
			EvidenceIDs: []string{ev.ID},
			LabelType:   model.LabelAssumption,
			Confidence:  0.52,
		})
		if len(out) == 2 {
			break
		}
	}
	return out
}

type uncertaintiesResponse struct {
	CriticalUncertainties []model.CriticalUncertainty `json:"critical_uncertainties"`
}

func uncertaintiesStage(ctx context.Context, e *llm.Engine, evidence []model.EvidenceItem, coverage []model.CoverageEntry) []model.CriticalUncertainty {
	if moduleStatus(coverage, "critical_uncertainties") == model.ModuleInactive {
		return nil
	}
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "uncertainties",
		Prompt: prompts["uncertainties"],
		Input:  map[string]any{"evidence": evidence},
		Schema: uncertaintiesSchema,
	}, func() uncertaintiesResponse {
		return uncertaintiesResponse{CriticalUncertainties: fallbackUncertainties(evidence)}
	})
	return resp.CriticalUncertainties
}

func fallbackUncertainties(evidence []model.EvidenceItem) []model.CriticalUncertainty {
	var out []model.CriticalUncertainty
	for _, ev := range evidence {
		if ev.Kind != model.EvidenceClaim {
			continue
		}
		out = append(out, model.CriticalUncertainty{
			ID:                numberedID("cu", len(out)+1),
			Driver:            truncRunes(ev.Content, 120),
			Impact:            "high",
			UncertaintyReason: "the source asserts this without resolving how it unfolds",
			EvidenceIDs:       []string{ev.ID},
			LabelType:         model.LabelAssumption,
			Confidence:        0.5,
		})
		if len(out) == 2 {
			break
		}
	}
	return out
}
