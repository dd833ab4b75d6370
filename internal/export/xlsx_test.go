package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/foresight-cli/internal/model"
)

func reportedJob() *model.Job {
	return &model.Job{
		ID:     "job-export",
		Status: model.JobStatusSucceeded,
		Report: &model.Report{
			ExecutiveBrief: "Brief.",
			FullReport:     "# Foresight Report",
			Dashboard: model.Dashboard{
				DocumentProfile: model.DocumentProfile{
					DocumentType: "policy report",
					Domain:       "energy",
					Horizon:      "long-term",
				},
				Coverage: []model.CoverageEntry{
					{Module: "trends", Status: model.ModuleActive},
					{Module: "scenarios", Status: model.ModulePartial, MissingInformation: []string{"alternative futures"}},
				},
				Trends: []model.Trend{{
					ID: "tr-1", Label: "solar growth", Category: model.TrendMega,
					Direction: "rising", Strength: "high",
					EvidenceIDs: []string{"ev-1-1"}, LabelType: model.LabelInference, Confidence: 0.58,
				}},
				Scenarios: []model.Scenario{{
					ID: "sc-1", Title: "Favorable resolution", Summary: "All goes well.",
					Implications: []string{"stay the course"}, Indicators: []string{"prices fall"},
				}},
				Evidence: []model.EvidenceItem{{
					ID: "ev-1-1", Kind: model.EvidenceClaim, ChunkID: "c1-abcd1234",
					Snippet: "solar output doubled", Content: "solar output doubled",
				}},
				ExtractionQuality: model.ExtractionQuality{Status: "ok"},
			},
		},
	}
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(reportedJob(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	for _, name := range []string{"Summary", "Coverage", "Trends", "Weak Signals", "Uncertainties", "Scenarios", "Evidence"} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, "missing sheet %s", name)
	}

	trends := f.Sheet["Trends"]
	require.Len(t, trends.Rows, 2)
	assert.Equal(t, "tr-1", trends.Rows[1].Cells[0].String())
	assert.Equal(t, "solar growth", trends.Rows[1].Cells[1].String())

	coverage := f.Sheet["Coverage"]
	require.Len(t, coverage.Rows, 3)
	assert.Equal(t, "alternative futures", coverage.Rows[2].Cells[2].String())
}

func TestWriteXLSX_NoReport(t *testing.T) {
	job := &model.Job{ID: "bare"}
	err := WriteXLSX(job, filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
