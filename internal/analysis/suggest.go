package analysis

import (
	"regexp"
	"strings"
)

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 5

const (
	shortWordLimit = 40
	longWordLimit  = 220
	minHashtags    = 2
)

const (
	TipTooShort = "Post is short—add context or details."
	TipTooLong  = "Post is long—trim or add line breaks."
	TipQuestion = "Ask a question to spark replies."
	TipCTA      = "Add a clear call-to-action or helpful link."
	TipEmoji    = "Add a tasteful emoji for scannability."
	TipHashtags = "Consider adding 2–5 relevant hashtags."
	TipMentions = "Tag relevant accounts to expand reach."
)

var fallbackTips = [...]string{
	"Use a strong opening line.",
	"Break long text into short chunks.",
	"Add a relevant image or short clip.",
	"Post when your audience is active.",
	"Keep tone consistent and concise.",
}

var ctaPattern = regexp.MustCompile(`(?i)\b(like|share|follow|check|click|subscribe|comment|save)\b`)

// FallbackTips returns a copy of the generic tips used to pad short lists.
func FallbackTips() []string {
	out := make([]string, len(fallbackTips))
	copy(out, fallbackTips[:])
	return out
}

type rule struct {
	tip     string
	applies func(text string, m Metrics) bool
}

// rules are evaluated independently; their order is the output order.
var rules = [...]rule{
	{TipTooShort, func(_ string, m Metrics) bool { return m.WordCount < shortWordLimit }},
	{TipTooLong, func(_ string, m Metrics) bool { return m.WordCount > longWordLimit }},
	{TipQuestion, func(text string, _ Metrics) bool { return !strings.Contains(text, "?") }},
	{TipCTA, func(text string, m Metrics) bool { return !ctaPattern.MatchString(text) && m.URLCount == 0 }},
	{TipEmoji, func(text string, _ Metrics) bool { return !ContainsPictographic(text) }},
	{TipHashtags, func(_ string, m Metrics) bool { return m.HashtagCount < minHashtags }},
	{TipMentions, func(_ string, m Metrics) bool { return m.MentionCount == 0 }},
}

// Suggest evaluates every rule against text/m and pads the triggered tips
// with fallbacks up to MaxSuggestions distinct entries.
func Suggest(text string, m Metrics) []string {
	var tips []string
	for _, r := range rules {
		if r.applies(text, m) {
			tips = append(tips, r.tip)
		}
	}
	return padTips(tips, fallbackTips[:], MaxSuggestions)
}

// padTips appends fallbacks in order, skipping exact duplicates, until limit
// distinct entries exist or fallbacks run out, then truncates to limit.
func padTips(tips, fallbacks []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, t := range tips {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, f := range fallbacks {
		if len(out) >= limit {
			break
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
