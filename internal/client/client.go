// Package client provides a JSON REST client for the tubetalk server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tubetalk/tubetalk/internal/models"
)

// Client talks to a running tubetalk server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. If baseURL is empty, uses the TUBETALK_SERVER_URL
// env var or defaults to localhost:8080. The timeout covers a full chat
// round trip including backend generation, so it is generous.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TUBETALK_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("TUBETALK_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ProcessResult is the server's answer to a process request.
type ProcessResult struct {
	VideoID          string `json:"video_id"`
	Language         string `json:"language"`
	Passages         int    `json:"passages"`
	AlreadyProcessed bool   `json:"already_processed"`
	Message          string `json:"message"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// ProcessVideo asks the server to fetch and index a video's transcript.
func (c *Client) ProcessVideo(ctx context.Context, url string) (ProcessResult, error) {
	var result ProcessResult
	err := c.post(ctx, "/process_video", map[string]string{"url": url}, &result)
	return result, err
}

// Chat sends a question about a processed video and returns the answer.
func (c *Client) Chat(ctx context.Context, videoID, question string) (string, error) {
	var result struct {
		Answer string `json:"answer"`
	}
	err := c.post(ctx, "/chat", map[string]string{
		"video_id": videoID,
		"question": question,
	}, &result)
	return result.Answer, err
}

// Summary fetches the background summary for a processed video. A summary
// that is still being generated returns models.ErrSummaryPending.
func (c *Client) Summary(ctx context.Context, videoID string) (string, error) {
	var result struct {
		Summary string `json:"summary"`
	}
	err := c.post(ctx, "/summarize_video", map[string]string{"video_id": videoID}, &result)
	return result.Summary, err
}

// Stats fetches the server's operation counters as raw JSON.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, path string, payload any, result any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// statusError converts non-200 responses back into the sentinel errors the
// server mapped them from, so callers can branch with errors.Is.
func statusError(code int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := er.Error
	if msg == "" {
		msg = string(body)
	}

	switch code {
	case http.StatusAccepted:
		return models.ErrSummaryPending
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", models.ErrNotFound, msg)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", models.ErrUpstream, msg)
	default:
		return fmt.Errorf("server error (%d): %s", code, msg)
	}
}
