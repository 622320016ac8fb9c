package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tubetalk/tubetalk/internal/chunker"
	"github.com/tubetalk/tubetalk/internal/index"
	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/models"
	"github.com/tubetalk/tubetalk/internal/session"
	"github.com/tubetalk/tubetalk/internal/transcript"
)

// ProcessResult reports the outcome of a video ingestion.
type ProcessResult struct {
	VideoID          string
	Language         string
	Passages         int
	AlreadyProcessed bool
}

// ProcessVideo ingests the video behind rawURL: transcript fetch, chunking,
// embedding and index build, then stores the session and schedules the
// background summary. A second call for an already processed video returns
// immediately without duplicating work. Any failure aborts the whole
// ingestion; no partial session is stored.
func (s *Service) ProcessVideo(ctx context.Context, rawURL string) (result ProcessResult, err error) {
	defer s.collector.Observe(metrics.OpIngest, time.Now(), &err)

	videoID, err := transcript.ExtractVideoID(rawURL)
	if err != nil {
		return ProcessResult{}, err
	}

	if sess, ok := s.sessions.Get(videoID); ok {
		return alreadyProcessed(sess), nil
	}

	release, err := s.acquireBuild(ctx, videoID)
	if err != nil {
		return ProcessResult{}, err
	}
	defer release()

	// Another request may have finished the build while we waited.
	if sess, ok := s.sessions.Get(videoID); ok {
		return alreadyProcessed(sess), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	start := time.Now()
	text, language, err := s.transcripts.Fetch(fetchCtx, videoID)
	s.collector.Record(metrics.OpTranscriptFetch, time.Since(start), err)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("%w: fetch transcript for %s: %v", models.ErrUpstream, videoID, err)
	}

	passages := chunker.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(passages) == 0 {
		return ProcessResult{}, fmt.Errorf("%w: transcript for %s is empty", models.ErrInvalidInput, videoID)
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()
	vectors, err := s.embedder.EmbedBatch(embedCtx, texts)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("%w: embed transcript for %s: %v", models.ErrUpstream, videoID, err)
	}

	idx, err := index.Build(passages, vectors)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("build index for %s: %w", videoID, err)
	}

	sess := session.NewSession(videoID, language, idx)
	s.sessions.Put(sess)

	slog.Info("video processed", "video_id", videoID, "language", language, "passages", len(passages))
	s.scheduleSummary(videoID, idx)

	return ProcessResult{VideoID: videoID, Language: language, Passages: len(passages)}, nil
}

func alreadyProcessed(sess *session.Session) ProcessResult {
	return ProcessResult{
		VideoID:          sess.VideoID,
		Language:         sess.Language,
		Passages:         sess.Index.Len(),
		AlreadyProcessed: true,
	}
}

// acquireBuild claims the build slot for videoID. When another request holds
// it, the call blocks until that build finishes or ctx is done. The returned
// release function must be called once.
func (s *Service) acquireBuild(ctx context.Context, videoID string) (func(), error) {
	for {
		s.buildMu.Lock()
		inflight, ok := s.building[videoID]
		if !ok {
			done := make(chan struct{})
			s.building[videoID] = done
			s.buildMu.Unlock()
			return func() {
				s.buildMu.Lock()
				delete(s.building, videoID)
				s.buildMu.Unlock()
				close(done)
			}, nil
		}
		s.buildMu.Unlock()

		select {
		case <-inflight:
			// The holder finished. Loop to claim the slot; the caller's
			// re-check of the store turns a completed build into the
			// already-processed fast path.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// scheduleSummary starts the fire-and-forget background summarization for a
// freshly built index. The outcome is written into the session store; there
// is no caller to report to.
func (s *Service) scheduleSummary(videoID string, idx *index.Index) {
	taskID := uuid.NewString()[:8]
	s.tasks.Add(1)

	go func() {
		defer s.tasks.Done()
		var err error
		defer s.collector.Observe(metrics.OpSummarize, time.Now(), &err)

		// The budget covers every map call plus the reduce call.
		budget := s.cfg.GenerateTimeout * time.Duration(s.cfg.SummaryMapLimit+1)
		ctx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()

		slog.Info("summarization started", "video_id", videoID, "task_id", taskID)
		var summary string
		summary, err = s.summarizer.Summarize(ctx, idx)
		if err != nil {
			slog.Warn("summarization failed", "video_id", videoID, "task_id", taskID, "error", err)
			s.sessions.SetSummary(videoID, models.Summary{
				Status: models.SummaryFailed,
				Err:    err.Error(),
			})
			return
		}

		s.sessions.SetSummary(videoID, models.Summary{
			Status: models.SummaryReady,
			Text:   summary,
		})
		slog.Info("summarization finished", "video_id", videoID, "task_id", taskID)
	}()
}
