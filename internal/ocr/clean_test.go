package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripChromeFeedScreenshot(t *testing.T) {
	in := "Great post!\nLike Comment Share\n12 comments 340 likes\nYesterday at 9:41 PM · 🌍\n\n\n\nSee you"
	assert.Equal(t, "Great post!\n\n · 🌍\n\nSee you", StripChrome(in))
}

func TestStripChromeCaseInsensitive(t *testing.T) {
	assert.Equal(t, "this and", StripChrome("LIKE this and share"))
	assert.Equal(t, "hello", StripChrome("News Feed\nhello"))
	assert.Equal(t, "great", StripChrome("great 1 COMMENT"))
}

func TestStripChromeKeepsPartialWords(t *testing.T) {
	assert.Equal(t, "Liked it, Likes, shared", StripChrome("Liked it, Likes, shared"))
}

func TestStripChromeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a\n\nb", StripChrome("  a \t\n\n\n\n\nb  "))
}

func TestStripChromeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"1 Like\n \n \n \nx",
		"Share\n\n\n  \n\nComment\t\n\nend",
		"Yesterday at noon we met. 5 likes\n\n\n\n2 comments",
		"Great post!\nLike Comment Share\n12 comments 340 likes\nYesterday at 9:41 PM · 🌍\n\n\n\nSee you",
		"LikeComment Share Like",
	}
	for _, in := range inputs {
		once := StripChrome(in)
		assert.Equal(t, once, StripChrome(once), "input %q", in)
	}
}
