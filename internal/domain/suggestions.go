package domain

import (
	"strings"
	"unicode/utf8"
)

const longNameThreshold = 50

var trademarkSymbols = []string{"™", "®", "©"}

// SearchSuggestions returns hints shown when a lookup finds nothing or the
// name was rejected. Input-specific hints go right after the first two.
func SearchSuggestions(name string) []string {
	suggestions := []string{
		"Check if the game name is spelled correctly",
		"Try using the official game title",
		"Remove any special characters or symbols",
		"Try a shorter or more specific name",
	}

	if utf8.RuneCountInString(name) > longNameThreshold {
		suggestions = insertAt(suggestions, 2, "Try a shorter version of the game name")
	}

	if containsAny(name, trademarkSymbols) {
		suggestions = insertAt(suggestions, 2, "Remove trademark symbols (™, ®, ©)")
	}

	return suggestions
}

func insertAt(list []string, i int, s string) []string {
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
