package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the youtube-transcript.io transcripts API.
const DefaultEndpoint = "https://www.youtube-transcript.io/api/transcripts"

// minTranscriptLen guards against responses that technically parse but carry
// no usable speech content.
const minTranscriptLen = 10

// Client fetches transcripts from the youtube-transcript.io API.
type Client struct {
	endpoint   string
	apiKey     string
	languages  string
	httpClient *http.Client
}

// NewClient creates a transcript client. endpoint falls back to
// DefaultEndpoint when empty; languages is the preference list sent to the
// API (e.g. "hi, en").
func NewClient(endpoint, apiKey, languages string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcript API key required")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		languages:  languages,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// fetchRequest is the request format for the transcripts API.
type fetchRequest struct {
	IDs  []string `json:"ids"`
	Lang string   `json:"lang,omitempty"`
}

// segment is one timed caption entry. Different transcript providers name
// the text field differently.
type segment struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

func (s segment) value() string {
	if s.Text != "" {
		return s.Text
	}
	return s.Content
}

// Fetch retrieves and flattens the transcript for videoID. It returns the
// joined transcript text and a language tag.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, string, error) {
	body, err := json.Marshal(fetchRequest{IDs: []string{videoID}, Lang: c.languages})
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("transcript request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("transcript API status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	segments, err := parseSegments(respBody, videoID)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	for _, seg := range segments {
		if v := seg.value(); v != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(v)
		}
	}

	text := sb.String()
	if len(text) < minTranscriptLen {
		return "", "", fmt.Errorf("transcript for %s is empty", videoID)
	}
	return text, "detected", nil
}

// parseSegments tolerates the response shapes the API is known to produce:
// a list of per-video objects with a "transcript" or "body" segment list, or
// an object keyed by video id or "transcript".
func parseSegments(data []byte, videoID string) ([]segment, error) {
	var asList []struct {
		Transcript []segment `json:"transcript"`
		Body       []segment `json:"body"`
	}
	if err := json.Unmarshal(data, &asList); err == nil {
		if len(asList) == 0 {
			return nil, fmt.Errorf("no transcript found for %s", videoID)
		}
		item := asList[0]
		if len(item.Transcript) > 0 {
			return item.Transcript, nil
		}
		if len(item.Body) > 0 {
			return item.Body, nil
		}
		return nil, fmt.Errorf("no transcript found for %s", videoID)
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &asMap); err != nil {
		return nil, fmt.Errorf("parse transcript response: %w", err)
	}
	for _, key := range []string{videoID, "transcript"} {
		raw, ok := asMap[key]
		if !ok {
			continue
		}
		var segments []segment
		if err := json.Unmarshal(raw, &segments); err != nil {
			return nil, fmt.Errorf("parse transcript segments: %w", err)
		}
		if len(segments) > 0 {
			return segments, nil
		}
	}
	return nil, fmt.Errorf("no transcript found for %s", videoID)
}
