package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/models"
)

// Chat answers question against the video's indexed transcript, using the
// session's conversation history to resolve follow-up references. On success
// the exchange is appended to the history; on failure the session and index
// remain valid for future requests.
func (s *Service) Chat(ctx context.Context, videoID, question string) (answer string, err error) {
	defer s.collector.Observe(metrics.OpChat, time.Now(), &err)

	sess, ok := s.sessions.Get(videoID)
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrNotFound, videoID)
	}
	history := sess.History()

	condenseCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()
	standalone, err := s.condenser.Condense(condenseCtx, history, question)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	retrieveCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()
	passages, err := s.retriever.Retrieve(retrieveCtx, sess.Index, standalone, s.cfg.ChatTopK)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	composeCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()
	// The composer gets the user's original question; the condensed form
	// only drives retrieval.
	answer, err = s.composer.Compose(composeCtx, question, history, passages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	sess.AppendExchange(question, answer)
	return answer, nil
}

// Summary returns the stored summary for videoID. It distinguishes an
// unknown video (models.ErrNotFound) from one whose summary is still being
// generated (models.ErrSummaryPending) and from a failed generation
// (models.ErrUpstream).
func (s *Service) Summary(videoID string) (string, error) {
	sess, ok := s.sessions.Get(videoID)
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrNotFound, videoID)
	}

	summary := sess.Summary()
	switch summary.Status {
	case models.SummaryReady:
		return summary.Text, nil
	case models.SummaryFailed:
		return "", fmt.Errorf("%w: summary generation failed: %s", models.ErrUpstream, summary.Err)
	default:
		return "", fmt.Errorf("%w: %s", models.ErrSummaryPending, videoID)
	}
}
