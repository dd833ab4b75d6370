package pipeline

import (
	"context"
	"fmt"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

type scenariosResponse struct {
	Scenarios []model.Scenario `json:"scenarios"`
}

// scenariosStage synthesizes contrasting futures. Fewer than two critical
// uncertainties means there is nothing to contrast, so no model call is made
// at all.
func scenariosStage(ctx context.Context, e *llm.Engine, uncertainties []model.CriticalUncertainty, profile model.DocumentProfile) []model.Scenario {
	if len(uncertainties) < 2 {
		return nil
	}
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "scenarios",
		Prompt: prompts["scenarios"],
		Input: map[string]any{
			"domain":                 profile.Domain,
			"horizon":                profile.Horizon,
			"critical_uncertainties": uncertainties,
		},
		Schema: scenariosSchema,
	}, func() scenariosResponse {
		return scenariosResponse{Scenarios: fallbackScenarios(uncertainties)}
	})
	return resp.Scenarios
}

// fallbackScenarios builds two contrasting futures from the first pair of
// drivers.
func fallbackScenarios(uncertainties []model.CriticalUncertainty) []model.Scenario {
	first := truncRunes(uncertainties[0].Driver, 80)
	second := truncRunes(uncertainties[1].Driver, 80)

	return []model.Scenario{
		{
			ID:      numberedID("sc", 1),
			Title:   "Favorable resolution",
			Summary: fmt.Sprintf("%q resolves in the document's favor while %q stays contained.", first, second),
			Implications: []string{
				"current commitments remain viable",
				"incremental adjustment is sufficient",
			},
			Indicators: []string{
				"early confirmation of " + first,
			},
		},
		{
			ID:      numberedID("sc", 2),
			Title:   "Adverse resolution",
			Summary: fmt.Sprintf("%q breaks against expectations and %q compounds the disruption.", first, second),
			Implications: []string{
				"core assumptions require revisiting",
				"contingency options gain priority",
			},
			Indicators: []string{
				"early contradiction of " + first,
			},
		},
	}
}
