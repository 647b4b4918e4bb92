// Package format contains text formatting helpers for Telegram messages.
package format

import "strings"

// The legacy Markdown parse mode gives meaning to exactly four characters.
var mdV1 = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeMarkdown neutralizes Markdown control characters in user-supplied
// text (titles, search queries) before it is interpolated into a formatted
// message body.
func EscapeMarkdown(text string) string {
	return mdV1.Replace(text)
}
