package pipeline

import (
	"context"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

func criticStage(ctx context.Context, e *llm.Engine, trends []model.Trend, signals []model.WeakSignal, uncertainties []model.CriticalUncertainty) model.CriticOutput {
	out := llm.Call(ctx, e, llm.Request{
		Stage:  "critic",
		Prompt: prompts["critic"],
		Input: map[string]any{
			"trends":                 trends,
			"weak_signals":           signals,
			"critical_uncertainties": uncertainties,
		},
		Schema: criticSchema,
	}, func() model.CriticOutput {
		return fallbackCritic(trends, signals, uncertainties)
	})

	if out.Contradictions == nil {
		out.Contradictions = []string{}
	}
	if out.Unsupported == nil {
		out.Unsupported = []string{}
	}
	return out
}

// fallbackCritic labels everything with conservative defaults: derived trends
// are inferences, weak signals and uncertainties assumptions.
func fallbackCritic(trends []model.Trend, signals []model.WeakSignal, uncertainties []model.CriticalUncertainty) model.CriticOutput {
	out := model.CriticOutput{
		Contradictions: []string{},
		Unsupported:    []string{},
	}
	for _, t := range trends {
		out.Labels = append(out.Labels, model.CriticLabel{
			ItemRef:    t.ID,
			Label:      model.LabelInference,
			Confidence: 0.55,
		})
	}
	for _, s := range signals {
		out.Labels = append(out.Labels, model.CriticLabel{
			ItemRef:    s.ID,
			Label:      model.LabelAssumption,
			Confidence: 0.45,
		})
	}
	for _, u := range uncertainties {
		out.Labels = append(out.Labels, model.CriticLabel{
			ItemRef:    u.ID,
			Label:      model.LabelAssumption,
			Confidence: 0.5,
		})
	}
	return out
}

// applyCriticLabels writes the critic's verdicts back onto the items they
// reference. Unmatched refs are ignored.
func applyCriticLabels(critic model.CriticOutput, trends []model.Trend, signals []model.WeakSignal, uncertainties []model.CriticalUncertainty) {
	byRef := make(map[string]model.CriticLabel, len(critic.Labels))
	for _, l := range critic.Labels {
		byRef[l.ItemRef] = l
	}

	for i := range trends {
		if l, ok := byRef[trends[i].ID]; ok {
			trends[i].LabelType = l.Label
			trends[i].Confidence = l.Confidence
		}
	}
	for i := range signals {
		if l, ok := byRef[signals[i].ID]; ok {
			signals[i].LabelType = l.Label
			signals[i].Confidence = l.Confidence
		}
	}
	for i := range uncertainties {
		if l, ok := byRef[uncertainties[i].ID]; ok {
			uncertainties[i].LabelType = l.Label
			uncertainties[i].Confidence = l.Confidence
		}
	}
}
