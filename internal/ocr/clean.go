package ocr

import (
	"regexp"
	"strings"
)

// Social-feed screenshot chrome. The list is deliberately narrow: English UI
// strings from one platform family. Matching user text is removed too.
var (
	chromeTokens      = regexp.MustCompile(`(?i)\b(Like|Comment|Share|News Feed|Yesterday at .*|\d+\s*comments?|\d+\s*likes?)\b`)
	spaceBeforeNL     = regexp.MustCompile(`[ \t]+\n`)
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
)

// StripChrome removes like/comment/share labels, "Yesterday at ..." stamps and
// reaction counts, then tidies whitespace. It is applied to OCR output only.
// Removal can bring new matches together, so passes repeat until the text is
// stable, which makes StripChrome idempotent. Every changing pass shortens
// the text, so the loop terminates.
func StripChrome(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripOnce(text string) string {
	text = chromeTokens.ReplaceAllString(text, "")
	text = spaceBeforeNL.ReplaceAllString(text, "\n")
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
