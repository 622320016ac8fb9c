package models

import "errors"

// Sentinel errors shared across the service and HTTP layers.
// Use errors.Is() to check for these in calling code.
var (
	// ErrInvalidInput indicates a malformed video reference or an empty
	// transcript. Ingestion aborts and no session is stored.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream indicates a transcript, embedding or generation backend
	// failure. Ingestion-path occurrences abort the whole ingestion;
	// query-path occurrences fail only that request.
	ErrUpstream = errors.New("upstream failure")

	// ErrNotFound indicates a request against a video with no session.
	ErrNotFound = errors.New("video not processed")

	// ErrSummaryPending indicates the summary was requested before the
	// background task finished. Distinct from ErrNotFound so clients know
	// to retry rather than re-submit ingestion.
	ErrSummaryPending = errors.New("summary not ready")
)
