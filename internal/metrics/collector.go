// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpEmbedding       = "embedding"
	OpGenerate        = "generate"
	OpTranscriptFetch = "transcript_fetch"
	OpIngest          = "ingest"
	OpChat            = "chat"
	OpSummarize       = "summarize"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Errors    int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Errors      int64   `json:"errors"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds   float64               `json:"uptime_seconds"`
	Sessions        int                   `json:"sessions"`
	Embedding       *OperationSnapshot    `json:"embedding,omitempty"`
	Generate        *OperationSnapshot    `json:"generate,omitempty"`
	TranscriptFetch *OperationSnapshot    `json:"transcript_fetch,omitempty"`
	Ingest          *OperationSnapshot    `json:"ingest,omitempty"`
	Chat            *OperationSnapshot    `json:"chat,omitempty"`
	Summarize       *OperationSnapshot    `json:"summarize,omitempty"`
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold the write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// Record records one completed operation with its duration and outcome.
func (c *Collector) Record(op string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if err != nil {
		m.Errors++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Observe wraps Record for the common time-a-function pattern:
//
//	defer collector.Observe(metrics.OpChat, time.Now(), &err)
func (c *Collector) Observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	c.Record(op, time.Since(start), err)
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		Errors:      m.Errors,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics. sessions is the
// current session count, supplied by the caller.
func (c *Collector) Snapshot(sessions int) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:   time.Since(c.startTime).Seconds(),
		Sessions:        sessions,
		Embedding:       snapshotOp(c.ops[OpEmbedding]),
		Generate:        snapshotOp(c.ops[OpGenerate]),
		TranscriptFetch: snapshotOp(c.ops[OpTranscriptFetch]),
		Ingest:          snapshotOp(c.ops[OpIngest]),
		Chat:            snapshotOp(c.ops[OpChat]),
		Summarize:       snapshotOp(c.ops[OpSummarize]),
	}
}
