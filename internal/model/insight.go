package model

// DocumentProfile is the stage-1 classification of the source document.
type DocumentProfile struct {
	DocumentType    string `json:"document_type"`
	Domain          string `json:"domain"`
	Horizon         string `json:"horizon"`
	AnalyticalLevel string `json:"analytical_level"`
}

// ModuleStatus reports how well the source text covers an analysis module.
type ModuleStatus string

const (
	ModuleActive   ModuleStatus = "active"
	ModulePartial  ModuleStatus = "partial"
	ModuleInactive ModuleStatus = "inactive"
)

// CoverageEntry is the stage-2 coverage verdict for one analysis module.
type CoverageEntry struct {
	Module             string       `json:"module"`
	Status             ModuleStatus `json:"status"`
	MissingInformation []string     `json:"missing_information"`
}

// TrendCategory scales a trend by its reach.
type TrendCategory string

const (
	TrendMega  TrendCategory = "mega"
	TrendPlain TrendCategory = "trend"
	TrendMicro TrendCategory = "micro"
)

// Trend is a directional development grounded in evidence.
type Trend struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Category    TrendCategory `json:"category"`
	Direction   string        `json:"direction"`
	Strength    string        `json:"strength"`
	EvidenceIDs []string      `json:"evidence_ids"`
	LabelType   FactLabel     `json:"label_type,omitempty"`
	Confidence  float64       `json:"confidence,omitempty"`
}

// WeakSignal is an early, low-confidence indicator of change.
type WeakSignal struct {
	ID          string    `json:"id"`
	Signal      string    `json:"signal"`
	Rationale   string    `json:"rationale"`
	Evolution   string    `json:"evolution"`
	EvidenceIDs []string  `json:"evidence_ids"`
	LabelType   FactLabel `json:"label_type,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
}

// CriticalUncertainty is a driver whose resolution decides between futures.
type CriticalUncertainty struct {
	ID                string    `json:"id"`
	Driver            string    `json:"driver"`
	Impact            string    `json:"impact"`
	UncertaintyReason string    `json:"uncertainty_reason"`
	EvidenceIDs       []string  `json:"evidence_ids"`
	LabelType         FactLabel `json:"label_type,omitempty"`
	Confidence        float64   `json:"confidence,omitempty"`
}

// CriticLabel is the stage-6 verdict on a single derived item.
type CriticLabel struct {
	ItemRef    string    `json:"item_ref"`
	Label      FactLabel `json:"label"`
	Confidence float64   `json:"confidence"`
	Note       string    `json:"note,omitempty"`
}

// CriticOutput is the stage-6 review of all derived insights.
type CriticOutput struct {
	Contradictions []string      `json:"contradictions"`
	Unsupported    []string      `json:"unsupported"`
	Labels         []CriticLabel `json:"labels"`
}

// Scenario is a stage-7 synthesized future state.
type Scenario struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Implications []string `json:"implications"`
	Indicators   []string `json:"indicators"`
}
