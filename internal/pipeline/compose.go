package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/foresight-cli/internal/model"
)

// composeReport assembles the final report deterministically from the stage
// outputs. It also enforces referential integrity: every evidence id cited by
// a derived item must exist in the sanitized evidence list.
func composeReport(job *model.Job) *model.Report {
	out := &job.Outputs

	known := make(map[string]bool, len(out.Evidence))
	for _, ev := range out.Evidence {
		known[ev.ID] = true
	}
	for i := range out.Trends {
		out.Trends[i].EvidenceIDs = pruneIDs(out.Trends[i].EvidenceIDs, known)
	}
	for i := range out.WeakSignals {
		out.WeakSignals[i].EvidenceIDs = pruneIDs(out.WeakSignals[i].EvidenceIDs, known)
	}
	for i := range out.CriticalUncertainties {
		out.CriticalUncertainties[i].EvidenceIDs = pruneIDs(out.CriticalUncertainties[i].EvidenceIDs, known)
	}

	profile := model.DocumentProfile{}
	if out.Classifier != nil {
		profile = *out.Classifier
	}

	dashboard := model.Dashboard{
		DocumentProfile:             profile,
		Coverage:                    out.Coverage,
		ClarificationQuestions:      out.Clarifications,
		Trends:                      out.Trends,
		WeakSignals:                 out.WeakSignals,
		CriticalUncertainties:       out.CriticalUncertainties,
		CriticalUncertaintiesStatus: sectionStatus(len(out.CriticalUncertainties) > 0, "no critical uncertainties could be derived from the source", moduleMissing(out.Coverage, "critical_uncertainties")),
		Scenarios:                   out.Scenarios,
		ScenariosStatus:             scenariosStatus(out),
		Evidence:                    out.Evidence,
		ExtractionQuality:           extractionQuality(job.Input.Extraction),
	}

	return &model.Report{
		ExecutiveBrief: executiveBrief(profile, out),
		FullReport:     fullReport(profile, out, dashboard),
		Dashboard:      dashboard,
	}
}

func pruneIDs(ids []string, known map[string]bool) []string {
	var out []string
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}

func sectionStatus(ok bool, reason string, missing []string) model.SectionStatus {
	if ok {
		return model.SectionStatus{Status: "ok"}
	}
	return model.SectionStatus{
		Status:             "insufficient_data",
		Reason:             reason,
		MissingInformation: missing,
	}
}

func scenariosStatus(out *model.Outputs) model.SectionStatus {
	if len(out.Scenarios) > 0 {
		return model.SectionStatus{Status: "ok"}
	}
	reason := "scenario synthesis requires at least two critical uncertainties"
	if len(out.CriticalUncertainties) >= 2 {
		reason = "scenario synthesis produced no result"
	}
	return model.SectionStatus{
		Status:             "insufficient_data",
		Reason:             reason,
		MissingInformation: moduleMissing(out.Coverage, "scenarios"),
	}
}

func extractionQuality(meta *model.ExtractionMeta) model.ExtractionQuality {
	if meta == nil {
		return model.ExtractionQuality{Status: "ok"}
	}
	switch {
	case meta.LooksScanned:
		return model.ExtractionQuality{
			Status:  "low",
			Message: "the source looks scanned; extracted text may be incomplete or noisy",
		}
	case meta.Chars < 300:
		return model.ExtractionQuality{
			Status:  "low",
			Message: fmt.Sprintf("only %d characters were extracted from the source", meta.Chars),
		}
	}
	return model.ExtractionQuality{Status: "ok"}
}

func executiveBrief(profile model.DocumentProfile, out *model.Outputs) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This %s in the %s domain was analysed over a %s horizon.\n",
		orUnknown(profile.DocumentType), orUnknown(profile.Domain), orUnknown(profile.Horizon))
	fmt.Fprintf(&sb, "The analysis yielded %d trends, %d weak signals and %d critical uncertainties from %d evidence items.\n",
		len(out.Trends), len(out.WeakSignals), len(out.CriticalUncertainties), len(out.Evidence))

	if len(out.Trends) > 0 {
		labels := make([]string, 0, 3)
		for i, t := range out.Trends {
			if i == 3 {
				break
			}
			labels = append(labels, t.Label)
		}
		fmt.Fprintf(&sb, "Leading trends: %s.\n", strings.Join(labels, "; "))
	}
	if len(out.Scenarios) > 0 {
		fmt.Fprintf(&sb, "%d contrasting scenarios were synthesized.\n", len(out.Scenarios))
	} else {
		sb.WriteString("Scenario synthesis was not possible with the available evidence.\n")
	}
	return sb.String()
}

func fullReport(profile model.DocumentProfile, out *model.Outputs, dash model.Dashboard) string {
	var sb strings.Builder

	sb.WriteString("# Foresight Report\n\n")
	sb.WriteString("## Document Profile\n")
	fmt.Fprintf(&sb, "- Type: %s\n- Domain: %s\n- Horizon: %s\n- Analytical level: %s\n\n",
		orUnknown(profile.DocumentType), orUnknown(profile.Domain),
		orUnknown(profile.Horizon), orUnknown(profile.AnalyticalLevel))

	sb.WriteString("## Coverage\n")
	for _, c := range out.Coverage {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Module, c.Status)
	}
	sb.WriteString("\n## Trends\n")
	if len(out.Trends) == 0 {
		sb.WriteString("No trends could be derived.\n")
	}
	for _, t := range out.Trends {
		fmt.Fprintf(&sb, "- [%s] %s (%s, %s; %s, confidence %.2f)\n",
			t.Category, t.Label, t.Direction, t.Strength, t.LabelType, t.Confidence)
	}

	sb.WriteString("\n## Weak Signals\n")
	if len(out.WeakSignals) == 0 {
		sb.WriteString("No weak signals could be derived.\n")
	}
	for _, s := range out.WeakSignals {
		fmt.Fprintf(&sb, "- %s: %s\n", s.Signal, s.Rationale)
	}

	sb.WriteString("\n## Critical Uncertainties\n")
	if dash.CriticalUncertaintiesStatus.Status != "ok" {
		fmt.Fprintf(&sb, "Insufficient data: %s\n", dash.CriticalUncertaintiesStatus.Reason)
	}
	for _, u := range out.CriticalUncertainties {
		fmt.Fprintf(&sb, "- %s (impact: %s): %s\n", u.Driver, u.Impact, u.UncertaintyReason)
	}

	sb.WriteString("\n## Scenarios\n")
	if dash.ScenariosStatus.Status != "ok" {
		fmt.Fprintf(&sb, "Insufficient data: %s\n", dash.ScenariosStatus.Reason)
	}
	for _, sc := range out.Scenarios {
		fmt.Fprintf(&sb, "### %s\n%s\n", sc.Title, sc.Summary)
		for _, imp := range sc.Implications {
			fmt.Fprintf(&sb, "- Implication: %s\n", imp)
		}
		for _, ind := range sc.Indicators {
			fmt.Fprintf(&sb, "- Indicator: %s\n", ind)
		}
	}

	if out.Critic != nil && (len(out.Critic.Contradictions) > 0 || len(out.Critic.Unsupported) > 0) {
		sb.WriteString("\n## Critic Notes\n")
		for _, c := range out.Critic.Contradictions {
			fmt.Fprintf(&sb, "- Contradiction: %s\n", c)
		}
		for _, u := range out.Critic.Unsupported {
			fmt.Fprintf(&sb, "- Unsupported: %s\n", u)
		}
	}

	if dash.ExtractionQuality.Status != "ok" {
		sb.WriteString("\n## Extraction Quality\n")
		sb.WriteString(dash.ExtractionQuality.Message + "\n")
	}

	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
