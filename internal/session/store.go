// Package session keeps per-video conversation state for the lifetime of
// the process.
package session

import (
	"sync"

	"github.com/tubetalk/tubetalk/internal/index"
	"github.com/tubetalk/tubetalk/internal/models"
)

// Session holds everything known about one processed video. Index is set at
// creation and never nil afterwards; history and summary are guarded by mu.
type Session struct {
	VideoID  string
	Language string
	Index    *index.Index

	mu      sync.Mutex
	history models.History
	summary models.Summary
}

// NewSession creates a session whose summary starts out pending.
func NewSession(videoID, language string, idx *index.Index) *Session {
	return &Session{
		VideoID:  videoID,
		Language: language,
		Index:    idx,
		summary:  models.Summary{Status: models.SummaryPending},
	}
}

// History returns a snapshot of the conversation so far.
func (s *Session) History() models.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.History, len(s.history))
	copy(out, s.history)
	return out
}

// AppendExchange records one user question and its answer.
func (s *Session) AppendExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		models.Turn{Role: models.RoleUser, Text: question},
		models.Turn{Role: models.RoleAssistant, Text: answer},
	)
}

// Summary returns the current summary state.
func (s *Session) Summary() models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Session) setSummary(summary models.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

// Store is an in-memory, concurrency-safe mapping from video id to session.
// Sessions live until the process exits; there is no eviction.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put stores sess under its video id, replacing any previous session.
func (st *Store) Put(sess *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.VideoID] = sess
}

// Get returns the session for videoID, if present.
func (st *Store) Get(videoID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[videoID]
	return sess, ok
}

// SetSummary records the summarization outcome for videoID. A missing
// session is a no-op: the background task may outlive interest in the video.
func (st *Store) SetSummary(videoID string, summary models.Summary) {
	st.mu.RLock()
	sess, ok := st.sessions[videoID]
	st.mu.RUnlock()
	if ok {
		sess.setSummary(summary)
	}
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
