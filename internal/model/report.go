package model

// SectionStatus is a structured "is there enough data" marker for report
// sections that can legitimately be empty.
type SectionStatus struct {
	Status             string   `json:"status"` // "ok" or "insufficient_data"
	Reason             string   `json:"reason,omitempty"`
	MissingInformation []string `json:"missing_information,omitempty"`
}

// ExtractionQuality summarizes how trustworthy the source extraction was.
type ExtractionQuality struct {
	Status  string `json:"status"` // "ok" or "low"
	Message string `json:"message,omitempty"`
}

// Dashboard is the machine-readable half of the final report.
type Dashboard struct {
	DocumentProfile             DocumentProfile         `json:"document_profile"`
	Coverage                    []CoverageEntry         `json:"coverage"`
	ClarificationQuestions      []ClarificationQuestion `json:"clarification_questions"`
	Trends                      []Trend                 `json:"trends"`
	WeakSignals                 []WeakSignal            `json:"weak_signals"`
	CriticalUncertainties       []CriticalUncertainty   `json:"critical_uncertainties"`
	CriticalUncertaintiesStatus SectionStatus           `json:"critical_uncertainties_status"`
	Scenarios                   []Scenario              `json:"scenarios,omitempty"`
	ScenariosStatus             SectionStatus           `json:"scenarios_status"`
	Evidence                    []EvidenceItem          `json:"evidence"`
	ExtractionQuality           ExtractionQuality       `json:"extraction_quality"`
}

// Report is the stage-8 composed output.
type Report struct {
	ExecutiveBrief string    `json:"executive_brief"`
	FullReport     string    `json:"full_report"`
	Dashboard      Dashboard `json:"dashboard"`
}
