package moderation

import "strings"

// leetReplacer undoes common character swaps used to dodge the word lists.
// Every replacement is a letter that is never itself a source character, so a
// single left-to-right pass gives the same result as applying each rule over
// the whole string in order.
var leetReplacer = strings.NewReplacer(
	"@", "a",
	"$", "s",
	"!", "i",
	"1", "i",
	"3", "e",
	"0", "o",
	"*", "u",
	"+", "t",
)

// Normalize lowercases text and applies the leet-speak substitutions.
// Whitespace and Unicode forms are left untouched.
func Normalize(text string) string {
	return leetReplacer.Replace(strings.ToLower(text))
}
