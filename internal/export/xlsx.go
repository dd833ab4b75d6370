// Package export writes a finished report to reviewer-friendly formats.
package export

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/foresight-cli/internal/model"
)

// WriteXLSX renders the job's report as a multi-sheet workbook at path.
func WriteXLSX(job *model.Job, path string) error {
	file, err := buildWorkbook(job)
	if err != nil {
		return err
	}
	return eris.Wrapf(file.Save(path), "export: save workbook %s", path)
}

func buildWorkbook(job *model.Job) (*xlsx.File, error) {
	if job.Report == nil {
		return nil, eris.Errorf("export: job %s has no report", job.ID)
	}
	dash := job.Report.Dashboard
	file := xlsx.NewFile()

	if err := addSummarySheet(file, job); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Coverage",
		[]string{"Module", "Status", "Missing Information"},
		len(dash.Coverage),
		func(i int) []string {
			c := dash.Coverage[i]
			return []string{c.Module, string(c.Status), strings.Join(c.MissingInformation, "; ")}
		}); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Trends",
		[]string{"ID", "Label", "Category", "Direction", "Strength", "Label Type", "Confidence", "Evidence IDs"},
		len(dash.Trends),
		func(i int) []string {
			t := dash.Trends[i]
			return []string{t.ID, t.Label, string(t.Category), t.Direction, t.Strength,
				string(t.LabelType), formatConfidence(t.Confidence), strings.Join(t.EvidenceIDs, ", ")}
		}); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Weak Signals",
		[]string{"ID", "Signal", "Rationale", "Evolution", "Label Type", "Confidence", "Evidence IDs"},
		len(dash.WeakSignals),
		func(i int) []string {
			s := dash.WeakSignals[i]
			return []string{s.ID, s.Signal, s.Rationale, s.Evolution,
				string(s.LabelType), formatConfidence(s.Confidence), strings.Join(s.EvidenceIDs, ", ")}
		}); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Uncertainties",
		[]string{"ID", "Driver", "Impact", "Reason", "Label Type", "Confidence", "Evidence IDs"},
		len(dash.CriticalUncertainties),
		func(i int) []string {
			u := dash.CriticalUncertainties[i]
			return []string{u.ID, u.Driver, u.Impact, u.UncertaintyReason,
				string(u.LabelType), formatConfidence(u.Confidence), strings.Join(u.EvidenceIDs, ", ")}
		}); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Scenarios",
		[]string{"ID", "Title", "Summary", "Implications", "Indicators"},
		len(dash.Scenarios),
		func(i int) []string {
			sc := dash.Scenarios[i]
			return []string{sc.ID, sc.Title, sc.Summary,
				strings.Join(sc.Implications, "; "), strings.Join(sc.Indicators, "; ")}
		}); err != nil {
		return nil, err
	}

	if err := addSheet(file, "Evidence",
		[]string{"ID", "Kind", "Chunk ID", "Snippet", "Content"},
		len(dash.Evidence),
		func(i int) []string {
			ev := dash.Evidence[i]
			return []string{ev.ID, string(ev.Kind), ev.ChunkID, ev.Snippet, ev.Content}
		}); err != nil {
		return nil, err
	}

	return file, nil
}

func addSummarySheet(file *xlsx.File, job *model.Job) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	dash := job.Report.Dashboard

	rows := [][]string{
		{"Job ID", job.ID},
		{"Status", string(job.Status)},
		{"Document Type", dash.DocumentProfile.DocumentType},
		{"Domain", dash.DocumentProfile.Domain},
		{"Horizon", dash.DocumentProfile.Horizon},
		{"Analytical Level", dash.DocumentProfile.AnalyticalLevel},
		{"Extraction Quality", dash.ExtractionQuality.Status},
		{"Trends", fmt.Sprintf("%d", len(dash.Trends))},
		{"Weak Signals", fmt.Sprintf("%d", len(dash.WeakSignals))},
		{"Critical Uncertainties", fmt.Sprintf("%d", len(dash.CriticalUncertainties))},
		{"Scenarios", fmt.Sprintf("%d", len(dash.Scenarios))},
		{"Executive Brief", job.Report.ExecutiveBrief},
	}
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}
	return nil
}

func addSheet(file *xlsx.File, name string, header []string, count int, rowAt func(int) []string) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for i := 0; i < count; i++ {
		row := sheet.AddRow()
		for _, v := range rowAt(i) {
			row.AddCell().Value = v
		}
	}
	return nil
}

func formatConfidence(c float64) string {
	if c == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", c)
}
