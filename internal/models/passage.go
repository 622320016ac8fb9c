// Package models defines the core data types shared across tubetalk packages.
package models

// Passage is a bounded contiguous slice of a transcript used as a retrieval
// unit. Immutable once created.
type Passage struct {
	Text string `json:"text"`
	// SourceOrder is the insertion order assigned by the chunker. It is used
	// only for deterministic summarizer sampling, never for retrieval ranking.
	SourceOrder int `json:"source_order"`
}
