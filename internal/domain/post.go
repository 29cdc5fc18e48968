package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BlogPost is one generated article tied to its source media item.
type BlogPost struct {
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Tags        []string
	MediaType   MediaType
	MediaID     int64
	MediaTitle  string
	PosterPath  string
	ReadingTime int // minutes
	Published   bool
	CreatedAt   time.Time
}

// readingWordsPerMinute is the assumed reading speed for the reading-time estimate.
const readingWordsPerMinute = 200

// ReadingTime estimates reading minutes for the given content, rounding up
// so short posts still report one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + readingWordsPerMinute - 1) / readingWordsPerMinute
	return minutes
}

var slugCleaner = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a title into a URL slug: diacritics stripped, lowered,
// non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	cleaned, _, err := transform.String(slugCleaner, title)
	if err != nil {
		cleaned = title
	}
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(cleaned) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Excerpt trims content down to a short teaser on a word boundary.
func Excerpt(content string, maxLen int) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxLen {
		return content
	}
	cut := content[:maxLen]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
