package pipeline

import (
	"context"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

// analysisModules lists every foresight module the coverage stage must judge,
// in report order.
var analysisModules = []string{
	"trends",
	"weak_signals",
	"critical_uncertainties",
	"scenarios",
	"roadmapping",
}

type coverageResponse struct {
	Coverage []model.CoverageEntry `json:"coverage"`
}

func coverageStage(ctx context.Context, e *llm.Engine, text string) []model.CoverageEntry {
	resp := llm.Call(ctx, e, llm.Request{
		Stage:  "coverage",
		Prompt: prompts["coverage"],
		Input: map[string]any{
			"modules": analysisModules,
			"text":    truncRunes(text, 8000),
		},
		Schema: coverageSchema,
	}, func() coverageResponse {
		return coverageResponse{Coverage: fallbackCoverage(text)}
	})
	return normalizeCoverage(resp.Coverage)
}

// fallbackCoverage rates every module from text length alone. Scenarios are
// never rated above partial here: a synthesis module needs model judgment to
// count as actively covered.
func fallbackCoverage(text string) []model.CoverageEntry {
	n := len([]rune(text))

	base := model.ModuleInactive
	switch {
	case n > 1200:
		base = model.ModuleActive
	case n > 400:
		base = model.ModulePartial
	}

	uncertaintyStatus := base

	entries := make([]model.CoverageEntry, 0, len(analysisModules))
	for _, mod := range analysisModules {
		status := base
		if mod == "scenarios" {
			status = model.ModuleInactive
			if uncertaintyStatus != model.ModuleInactive && n > 800 {
				status = model.ModulePartial
			}
		}

		entry := model.CoverageEntry{Module: mod, Status: status}
		if status != model.ModuleActive {
			entry.MissingInformation = []string{
				"direct treatment of " + mod,
				"quantitative or time-stamped detail",
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// normalizeCoverage guarantees one entry per known module regardless of what
// the model returned; unknown modules are dropped, missing ones added as
// inactive.
func normalizeCoverage(entries []model.CoverageEntry) []model.CoverageEntry {
	byModule := make(map[string]model.CoverageEntry, len(entries))
	for _, e := range entries {
		if _, dup := byModule[e.Module]; !dup {
			byModule[e.Module] = e
		}
	}

	out := make([]model.CoverageEntry, 0, len(analysisModules))
	for _, mod := range analysisModules {
		if e, ok := byModule[mod]; ok {
			out = append(out, e)
			continue
		}
		out = append(out, model.CoverageEntry{
			Module:             mod,
			Status:             model.ModuleInactive,
			MissingInformation: []string{"module not assessed"},
		})
	}
	return out
}

func moduleStatus(coverage []model.CoverageEntry, module string) model.ModuleStatus {
	for _, e := range coverage {
		if e.Module == module {
			return e.Status
		}
	}
	return model.ModuleInactive
}

func moduleMissing(coverage []model.CoverageEntry, module string) []string {
	for _, e := range coverage {
		if e.Module == module {
			return e.MissingInformation
		}
	}
	return nil
}
