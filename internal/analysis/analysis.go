package analysis

// Record is the engagement analysis returned to callers. JSON keys follow the
// upload UI contract.
type Record struct {
	WordCount          int       `json:"wordCount"`
	ReadingTimeMinutes int       `json:"readingTime"`
	HashtagCount       int       `json:"hashtags"`
	MentionCount       int       `json:"mentions"`
	URLCount           int       `json:"urls"`
	Suggestions        []string  `json:"suggestions"`
	TopKeywords        []Keyword `json:"topKeywords"`
}

// Analyze runs metrics, keyword ranking and suggestions over text.
func Analyze(text string) Record {
	m := Compute(text)
	return Record{
		WordCount:          m.WordCount,
		ReadingTimeMinutes: m.ReadingTimeMinutes,
		HashtagCount:       m.HashtagCount,
		MentionCount:       m.MentionCount,
		URLCount:           m.URLCount,
		Suggestions:        Suggest(text, m),
		TopKeywords:        TopKeywords(text, DefaultKeywordLimit),
	}
}
