// Package chunker splits transcript text into overlapping passages for
// retrieval indexing.
package chunker

import (
	"strings"
	"unicode"

	"github.com/tubetalk/tubetalk/internal/models"
)

const (
	// DefaultChunkSize is the maximum passage length in runes.
	DefaultChunkSize = 1000

	// DefaultOverlap is the number of runes shared between consecutive
	// passages to preserve local context at boundaries.
	DefaultOverlap = 200
)

// Split cuts text into consecutive windows of up to size runes. Each window
// after the first begins overlap runes before the previous window's end.
// Cuts prefer the last whitespace inside the window; a window with no
// whitespace is cut hard at the size limit. Empty or whitespace-only input
// yields nil. Deterministic for identical inputs.
func Split(text string, size, overlap int) []models.Passage {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	var passages []models.Passage
	order := 0

	appendPassage := func(s []rune) {
		trimmed := strings.TrimSpace(string(s))
		if trimmed == "" {
			return
		}
		passages = append(passages, models.Passage{Text: trimmed, SourceOrder: order})
		order++
	}

	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			appendPassage(runes[start:])
			break
		}

		cut := end
		for i := end; i > start; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		appendPassage(runes[start:cut])

		next := cut - overlap
		if next <= start {
			// Overlap would stall the walk; advance past the cut instead.
			next = cut
		} else if next > 0 && !unicode.IsSpace(runes[next-1]) {
			// The overlap start landed mid-word. Snap forward to the next
			// word boundary; the skipped runes are already part of the
			// previous passage.
			for next < cut && !unicode.IsSpace(runes[next]) {
				next++
			}
			for next < cut && unicode.IsSpace(runes[next]) {
				next++
			}
		}
		start = next
	}

	return passages
}
