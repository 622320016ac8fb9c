package models

// SummaryStatus tracks the lifecycle of a video's background summary.
// A summary transitions Pending -> Ready or Pending -> Failed exactly once.
type SummaryStatus string

const (
	SummaryPending SummaryStatus = "pending"
	SummaryReady   SummaryStatus = "ready"
	SummaryFailed  SummaryStatus = "failed"
)

// Summary is the structured result of background summarization. Err is set
// only when Status is SummaryFailed.
type Summary struct {
	Status SummaryStatus `json:"status"`
	Text   string        `json:"text,omitempty"`
	Err    string        `json:"error,omitempty"`
}
