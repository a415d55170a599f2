package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxNormalizedLen is the hard upper bound, in characters, of normalized text.
const MaxNormalizedLen = 1000

// Normalize strips markup from raw feed text and collapses whitespace.
// All tags are removed and only textual content is retained; runs of
// whitespace (including newlines) become single spaces and the result is
// trimmed and hard-truncated to MaxNormalizedLen characters.
//
// Normalize never fails: malformed markup degrades to best-effort plain
// text extraction, and empty input yields an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	extracted := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		extracted = doc.Text()
	}

	collapsed := strings.Join(strings.Fields(extracted), " ")
	return Truncate(collapsed, MaxNormalizedLen)
}

// Truncate cuts text to at most limit characters. The cut is hard: no
// ellipsis is appended. Multi-byte characters are counted as single
// characters, never split mid-rune.
func Truncate(text string, limit int) string {
	if CountRunes(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
