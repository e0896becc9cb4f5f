package format

import "regexp"

var (
	mdV1Specials = regexp.MustCompile("([_*\\\\\\[`])")
	mdV2Specials = regexp.MustCompile("[" + regexp.QuoteMeta("_*[]()~`>#+-=|{}.!") + "]")
)

// EscapeMarkdown escapes Telegram MarkdownV1 special characters in text
// so user-provided strings can be embedded in formatted messages.
func EscapeMarkdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}

// EscapeMarkdownV2 escapes the MarkdownV2 special set.
func EscapeMarkdownV2(text string) string {
	return mdV2Specials.ReplaceAllString(text, `\$0`)
}
