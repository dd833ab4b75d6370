package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/model"
)

func TestFallbackCoverage_Thresholds(t *testing.T) {
	long := strings.Repeat("x", 1300)
	mid := strings.Repeat("x", 500)
	short := strings.Repeat("x", 100)

	assert.Equal(t, model.ModuleActive, moduleStatus(fallbackCoverage(long), "trends"))
	assert.Equal(t, model.ModulePartial, moduleStatus(fallbackCoverage(mid), "trends"))
	assert.Equal(t, model.ModuleInactive, moduleStatus(fallbackCoverage(short), "trends"))
}

func TestFallbackCoverage_ScenariosCappedAtPartial(t *testing.T) {
	long := strings.Repeat("x", 1300)
	entries := fallbackCoverage(long)

	assert.Equal(t, model.ModuleActive, moduleStatus(entries, "critical_uncertainties"))
	assert.Equal(t, model.ModulePartial, moduleStatus(entries, "scenarios"))

	short := strings.Repeat("x", 100)
	assert.Equal(t, model.ModuleInactive, moduleStatus(fallbackCoverage(short), "scenarios"))
}

func TestNormalizeCoverage_FillsMissingModules(t *testing.T) {
	out := normalizeCoverage([]model.CoverageEntry{
		{Module: "trends", Status: model.ModuleActive},
		{Module: "made_up_module", Status: model.ModuleActive},
	})

	require.Len(t, out, len(analysisModules))
	assert.Equal(t, model.ModuleActive, moduleStatus(out, "trends"))
	assert.Equal(t, model.ModuleInactive, moduleStatus(out, "weak_signals"))
	for _, e := range out {
		assert.NotEqual(t, "made_up_module", e.Module)
	}
}

func TestFallbackClarifications_OnePerNonActiveModule(t *testing.T) {
	coverage := []model.CoverageEntry{
		{Module: "trends", Status: model.ModuleActive},
		{Module: "weak_signals", Status: model.ModulePartial},
		{Module: "scenarios", Status: model.ModuleInactive},
	}
	questions := fallbackClarifications(coverage)

	require.Len(t, questions, 2)
	assert.Equal(t, "weak_signals", questions[0].Module)
	assert.Equal(t, "scenarios", questions[1].Module)
	for _, q := range questions {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Question)
	}
}

func TestFallbackEvidence_RoundRobinKinds(t *testing.T) {
	chunks := []model.Chunk{
		{Index: 0, ID: "c1-x", Text: "First meaningful sentence here. Second meaningful sentence here. Third is ignored entirely."},
		{Index: 1, ID: "c2-y", Text: "Another chunk with one usable sentence only."},
	}
	items := fallbackEvidence(chunks)

	require.Len(t, items, 3)
	assert.Equal(t, model.EvidenceClaim, items[0].Kind)
	assert.Equal(t, model.EvidenceActor, items[1].Kind)
	assert.Equal(t, model.EvidenceActor, items[2].Kind)
	for _, item := range items {
		assert.LessOrEqual(t, len([]rune(item.Content)), model.MaxEvidenceContent)
		assert.LessOrEqual(t, len([]rune(item.Snippet)), model.MaxEvidenceSnippet)
	}
}

func TestFallbackEvidence_FloorItemWhenNoSentences(t *testing.T) {
	chunks := []model.Chunk{{Index: 0, ID: "c1-z", Text: "abc. def. ghi."}}
	items := fallbackEvidence(chunks)

	require.Len(t, items, 1)
	assert.Equal(t, "c1-z", items[0].ChunkID)
	assert.Equal(t, model.EvidenceClaim, items[0].Kind)
}

func TestFallbackScenarios_RequiresTwoUncertainties(t *testing.T) {
	one := []model.CriticalUncertainty{{ID: "cu-1", Driver: "regulation"}}
	two := append(one, model.CriticalUncertainty{ID: "cu-2", Driver: "pricing"})

	offline := newOfflineEngine()
	assert.Nil(t, scenariosStage(context.Background(), offline, one, model.DocumentProfile{}))

	scenarios := scenariosStage(context.Background(), offline, two, model.DocumentProfile{})
	require.Len(t, scenarios, 2)
	assert.NotEqual(t, scenarios[0].Title, scenarios[1].Title)
}

func TestFallbackProfile_Heuristics(t *testing.T) {
	p := fallbackProfile("The ministry should expand artificial intelligence research through 2035 and beyond.")
	assert.Equal(t, "artificial intelligence", p.Domain)
	assert.Equal(t, "long-term", p.Horizon)
	assert.Equal(t, "normative", p.AnalyticalLevel)
	assert.Equal(t, "analytical note", p.DocumentType)

	long := strings.Repeat("Energy markets shifted. ", 80)
	p = fallbackProfile(long)
	assert.Equal(t, "energy", p.Domain)
	assert.Equal(t, "policy report", p.DocumentType)
	assert.Equal(t, "mid-term", p.Horizon)
}

func TestFallbackCritic_LabelsEverything(t *testing.T) {
	trends := []model.Trend{{ID: "tr-1"}}
	signals := []model.WeakSignal{{ID: "ws-1"}}
	uncertainties := []model.CriticalUncertainty{{ID: "cu-1"}}

	out := fallbackCritic(trends, signals, uncertainties)
	require.Len(t, out.Labels, 3)

	applyCriticLabels(out, trends, signals, uncertainties)
	assert.Equal(t, model.LabelInference, trends[0].LabelType)
	assert.InDelta(t, 0.55, trends[0].Confidence, 1e-9)
	assert.Equal(t, model.LabelAssumption, signals[0].LabelType)
	assert.InDelta(t, 0.45, signals[0].Confidence, 1e-9)
	assert.Equal(t, model.LabelAssumption, uncertainties[0].LabelType)
	assert.InDelta(t, 0.5, uncertainties[0].Confidence, 1e-9)
}
