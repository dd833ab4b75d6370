package model

import "time"

// JobStatus tracks the lifecycle of an analysis job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// ExtractionMeta records how text was pulled out of an uploaded file. It is
// attached once at ingestion and never mutated afterwards.
type ExtractionMeta struct {
	Extractor    string `json:"extractor_used"`
	Chars        int    `json:"extracted_chars"`
	Pages        int    `json:"pages_detected"`
	LooksScanned bool   `json:"is_scanned_heuristic"`
	FileName     string `json:"file_name,omitempty"`
}

// JobInput is the raw material a job was created from.
type JobInput struct {
	Text       string          `json:"text"`
	FileName   string          `json:"file_name,omitempty"`
	Extraction *ExtractionMeta `json:"extraction,omitempty"`
}

// ClarificationQuestion is produced by the clarification stage and shown to
// the user while the job is still running or after it completes.
type ClarificationQuestion struct {
	ID       string `json:"id"`
	Module   string `json:"module"`
	Question string `json:"question"`
}

// ClarificationAnswer is a user-supplied answer to a clarification question.
type ClarificationAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// Clarifications accumulates the question/answer exchange across runs.
type Clarifications struct {
	Questions []ClarificationQuestion `json:"questions"`
	Answers   []ClarificationAnswer   `json:"answers"`
}

// Outputs collects one slot per pipeline stage. Stages only ever read slots
// written by earlier stages.
type Outputs struct {
	Classifier             *DocumentProfile        `json:"classifier,omitempty"`
	Coverage               []CoverageEntry         `json:"coverage,omitempty"`
	Clarifications         []ClarificationQuestion `json:"clarifications,omitempty"`
	Evidence               []EvidenceItem          `json:"evidence,omitempty"`
	Trends                 []Trend                 `json:"trends,omitempty"`
	WeakSignals            []WeakSignal            `json:"weak_signals,omitempty"`
	CriticalUncertainties  []CriticalUncertainty   `json:"critical_uncertainties,omitempty"`
	Critic                 *CriticOutput           `json:"critic,omitempty"`
	Scenarios              []Scenario              `json:"scenarios,omitempty"`
	Report                 *Report                 `json:"report,omitempty"`
	EvidenceSanitizerNotes []string                `json:"evidence_sanitizer_notes,omitempty"`
}

// Job is the unit of work: one document analysed through the full pipeline.
// The orchestrator mutates it in place after each stage; progress never
// decreases and reaches exactly 1 only in a terminal state.
type Job struct {
	ID             string         `json:"id"`
	Status         JobStatus      `json:"status"`
	Progress       float64        `json:"progress"`
	Input          JobInput       `json:"input"`
	Chunks         []Chunk        `json:"chunks"`
	Outputs        Outputs        `json:"outputs"`
	Clarifications Clarifications `json:"clarifications"`
	Report         *Report        `json:"report,omitempty"`
	Error          string         `json:"error,omitempty"`
	DemoMode       bool           `json:"demo_mode"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
