package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/models"
	"github.com/tubetalk/tubetalk/internal/service"
)

type fakeAPI struct {
	processResult service.ProcessResult
	processErr    error
	answer        string
	chatErr       error
	summary       string
	summaryErr    error
}

func (f *fakeAPI) ProcessVideo(_ context.Context, _ string) (service.ProcessResult, error) {
	return f.processResult, f.processErr
}

func (f *fakeAPI) Chat(_ context.Context, _, _ string) (string, error) {
	return f.answer, f.chatErr
}

func (f *fakeAPI) Summary(_ string) (string, error) {
	return f.summary, f.summaryErr
}

func (f *fakeAPI) Stats() metrics.Snapshot {
	return metrics.Snapshot{Sessions: 2}
}

func newTestServer(api *fakeAPI) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(api, logger)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echoContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealthz(t *testing.T) {
	s := newTestServer(&fakeAPI{})
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStats(t *testing.T) {
	s := newTestServer(&fakeAPI{})
	rec := doJSON(t, s, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sessions":2`)
}

func TestProcessVideo_OK(t *testing.T) {
	api := &fakeAPI{processResult: service.ProcessResult{
		VideoID:  "abc123",
		Language: "en",
		Passages: 3,
	}}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/process_video", `{"url":"https://youtu.be/abc123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"video_id":"abc123"`)
	assert.Contains(t, rec.Body.String(), `"message":"video processed"`)
}

func TestProcessVideo_AlreadyProcessed(t *testing.T) {
	api := &fakeAPI{processResult: service.ProcessResult{
		VideoID:          "abc123",
		AlreadyProcessed: true,
	}}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/process_video", `{"url":"https://youtu.be/abc123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"video already processed"`)
}

func TestProcessVideo_MissingURL(t *testing.T) {
	s := newTestServer(&fakeAPI{})
	rec := doJSON(t, s, http.MethodPost, "/process_video", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url is required")
}

func TestProcessVideo_InvalidURL(t *testing.T) {
	api := &fakeAPI{processErr: fmt.Errorf("%w: not a youtube url", models.ErrInvalidInput)}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/process_video", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestProcessVideo_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{processErr: fmt.Errorf("%w: transcript api down", models.ErrUpstream)}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/process_video", `{"url":"https://youtu.be/abc123"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestChat_OK(t *testing.T) {
	api := &fakeAPI{answer: "Yes, dogs are mammals."}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"video_id":"abc123","question":"Are dogs mammals?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"answer":"Yes, dogs are mammals."`)
}

func TestChat_MissingFields(t *testing.T) {
	s := newTestServer(&fakeAPI{})

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"question":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "video_id is required")

	rec = doJSON(t, s, http.MethodPost, "/chat", `{"video_id":"abc123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question is required")
}

func TestChat_UnknownVideo(t *testing.T) {
	api := &fakeAPI{chatErr: fmt.Errorf("%w: video abc123 has not been processed", models.ErrNotFound)}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"video_id":"abc123","question":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummarize_Ready(t *testing.T) {
	api := &fakeAPI{summary: "Abstract.\n###\n- cats"}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/summarize_video", `{"video_id":"abc123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"summary"`)
}

func TestSummarize_Pending(t *testing.T) {
	api := &fakeAPI{summaryErr: models.ErrSummaryPending}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/summarize_video", `{"video_id":"abc123"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestSummarize_Failed(t *testing.T) {
	api := &fakeAPI{summaryErr: fmt.Errorf("%w: summarization failed: backend down", models.ErrUpstream)}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/summarize_video", `{"video_id":"abc123"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSummarize_Unknown(t *testing.T) {
	api := &fakeAPI{summaryErr: fmt.Errorf("%w: video abc123 has not been processed", models.ErrNotFound)}
	s := newTestServer(api)

	rec := doJSON(t, s, http.MethodPost, "/summarize_video", `{"video_id":"abc123"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(&fakeAPI{})
	rec := doJSON(t, s, http.MethodPost, "/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
