// Package transcript acquires spoken-content transcripts for videos through
// the youtube-transcript.io API.
package transcript

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tubetalk/tubetalk/internal/models"
)

// ExtractVideoID parses a YouTube watch URL or short link and returns the
// video identifier. Unrecognized hosts or URLs without an id are rejected
// with models.ErrInvalidInput.
func ExtractVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse url %q: %v", models.ErrInvalidInput, rawURL, err)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		id := parsed.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("%w: missing v parameter in %q", models.ErrInvalidInput, rawURL)
		}
		return id, nil

	case host == "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			return "", fmt.Errorf("%w: missing video id in %q", models.ErrInvalidInput, rawURL)
		}
		return id, nil

	default:
		return "", fmt.Errorf("%w: unrecognized video host %q", models.ErrInvalidInput, parsed.Hostname())
	}
}
