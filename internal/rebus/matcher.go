// Package rebus holds the game rules: answer matching, the per-session
// progression state machine and the low-content generation trigger.
package rebus

import "strings"

// Normalize lowercases s and removes every ASCII space. Punctuation and other
// whitespace are kept.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// Matches reports whether guess equals answer after normalization.
func Matches(guess, answer string) bool {
	return Normalize(guess) == Normalize(answer)
}
