// Package analysis computes engagement metrics, keyword rankings and writing
// suggestions for a block of post text. Everything here is pure and total:
// empty input yields zero counts and the fallback suggestions.
package analysis

import "regexp"

// WordsPerMinute is the reading speed used for ReadingTimeMinutes.
const WordsPerMinute = 200

var (
	// \b is an ASCII word boundary in RE2, so a word must start and end next
	// to [A-Za-z0-9_]. Contractions and hyphenated terms count as one word.
	wordPattern    = regexp.MustCompile(`\b[\p{L}\p{N}_'-]+\b`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	urlPattern     = regexp.MustCompile(`(?i)\bhttps?://\S+`)
)

// Metrics are the lexical counts for a text.
type Metrics struct {
	WordCount          int
	ReadingTimeMinutes int
	HashtagCount       int
	MentionCount       int
	URLCount           int
}

// Compute scans text once per pattern. Hashtags, mentions and URLs are
// independent matches; a token cannot satisfy more than one of them.
func Compute(text string) Metrics {
	words := len(wordPattern.FindAllStringIndex(text, -1))
	return Metrics{
		WordCount:          words,
		ReadingTimeMinutes: readingTime(words),
		HashtagCount:       len(hashtagPattern.FindAllStringIndex(text, -1)),
		MentionCount:       len(mentionPattern.FindAllStringIndex(text, -1)),
		URLCount:           len(urlPattern.FindAllStringIndex(text, -1)),
	}
}

func readingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
