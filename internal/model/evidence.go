package model

// EvidenceKind classifies what an evidence item points at.
type EvidenceKind string

const (
	EvidenceClaim  EvidenceKind = "claim"
	EvidenceActor  EvidenceKind = "actor"
	EvidenceEvent  EvidenceKind = "event"
	EvidenceMetric EvidenceKind = "metric"
)

// EvidenceKinds lists all kinds in round-robin order used by the fallback
// generator.
func EvidenceKinds() []EvidenceKind {
	return []EvidenceKind{EvidenceClaim, EvidenceActor, EvidenceEvent, EvidenceMetric}
}

// FactLabel is the provenance label a critic assigns to derived content.
type FactLabel string

const (
	LabelFact       FactLabel = "fact"
	LabelInference  FactLabel = "inference"
	LabelAssumption FactLabel = "assumption"
)

// EvidenceItem links derived insights back to a source chunk. After
// sanitization, Content is either a verbatim substring of the referenced
// chunk's text or exactly its first 200 characters, and Snippet is at most
// 160 characters.
type EvidenceItem struct {
	ID         string       `json:"id"`
	Kind       EvidenceKind `json:"kind"`
	ChunkID    string       `json:"chunk_id"`
	Snippet    string       `json:"snippet"`
	Content    string       `json:"content"`
	Page       int          `json:"page,omitempty"`
	LabelType  FactLabel    `json:"label_type,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
}

const (
	// MaxEvidenceContent bounds EvidenceItem.Content.
	MaxEvidenceContent = 200
	// MaxEvidenceSnippet bounds EvidenceItem.Snippet.
	MaxEvidenceSnippet = 160
)
