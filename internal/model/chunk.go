package model

// Chunk is an ordered, immutable slice of the normalized document text. The
// ID is derived from the content hash so it is stable within a run.
type Chunk struct {
	Index int    `json:"index"`
	ID    string `json:"chunk_id"`
	Text  string `json:"text"`
}
