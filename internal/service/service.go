// Package service wires the ingestion, chat and summarization pipelines
// together on top of the session store.
package service

import (
	"context"
	"sync"

	"github.com/tubetalk/tubetalk/internal/config"
	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/rag"
	"github.com/tubetalk/tubetalk/internal/session"
)

// TranscriptSource fetches the transcript for a video id. The service treats
// the returned text as opaque UTF-8 content.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (text, language string, err error)
}

// Service exposes the operations behind the HTTP API.
type Service struct {
	cfg         config.Config
	sessions    *session.Store
	transcripts TranscriptSource
	embedder    rag.Embedder
	condenser   *rag.Condenser
	retriever   *rag.Retriever
	composer    *rag.Composer
	summarizer  *rag.Summarizer
	collector   *metrics.Collector

	// building tracks in-flight index builds by video id so concurrent
	// first requests for one video do the work once.
	buildMu  sync.Mutex
	building map[string]chan struct{}

	// tasks tracks background summarization goroutines for shutdown.
	tasks sync.WaitGroup
}

// New creates a service. Generation and embedding backends are wrapped with
// metrics instrumentation before the pipeline components are built on them.
func New(cfg config.Config, sessions *session.Store, transcripts TranscriptSource,
	gen rag.Generator, embedder rag.Embedder, collector *metrics.Collector) *Service {

	if collector == nil {
		collector = metrics.NewCollector()
	}
	igen := &instrumentedGenerator{inner: gen, collector: collector}
	iemb := &instrumentedEmbedder{inner: embedder, collector: collector}

	retriever := rag.NewRetriever(iemb)
	return &Service{
		cfg:         cfg,
		sessions:    sessions,
		transcripts: transcripts,
		embedder:    iemb,
		condenser:   rag.NewCondenser(igen, cfg.CondenseFallback),
		retriever:   retriever,
		composer:    rag.NewComposer(igen),
		summarizer:  rag.NewSummarizer(igen, retriever, cfg.Summary, cfg.SummaryTopK, cfg.SummaryMapLimit),
		collector:   collector,
		building:    make(map[string]chan struct{}),
	}
}

// Stats returns a snapshot of runtime metrics.
func (s *Service) Stats() metrics.Snapshot {
	return s.collector.Snapshot(s.sessions.Len())
}

// Close waits for in-flight background summarizations to finish.
// Best-effort: callers typically bound this with their own timeout.
func (s *Service) Close() {
	s.tasks.Wait()
}
