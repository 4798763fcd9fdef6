package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywordLimit is how many keywords Analyze reports.
const DefaultKeywordLimit = 5

var keywordPattern = regexp.MustCompile(`\b[\p{L}\p{N}_'-]{3,}\b`)

var stopwords = map[string]struct{}{
	"the": {}, "is": {}, "and": {}, "to": {}, "a": {}, "of": {}, "in": {}, "on": {}, "for": {},
	"with": {}, "at": {}, "by": {}, "an": {}, "be": {}, "this": {}, "that": {}, "it": {},
}

// Keyword is a term and how often it appeared.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// IsStopword reports whether w (already lowercased) is excluded from ranking.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// TopKeywords returns up to n of the most frequent non-stopword terms of at
// least three characters. Equal counts keep first-occurrence order.
func TopKeywords(text string, n int) []Keyword {
	if n <= 0 {
		return []Keyword{}
	}

	var ranked []Keyword
	index := make(map[string]int)
	for _, w := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if IsStopword(w) {
			continue
		}
		if i, ok := index[w]; ok {
			ranked[i].Count++
			continue
		}
		index[w] = len(ranked)
		ranked = append(ranked, Keyword{Word: w, Count: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		return []Keyword{}
	}
	return ranked
}
