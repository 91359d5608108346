package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MaxQueryLength = 100

// AllowedPunctuation is listed in user-facing validation messages.
const AllowedPunctuation = "- . ' , : ! &"

// Allow-list: letters, digits, whitespace and AllowedPunctuation.
var queryPattern = regexp.MustCompile(`^[A-Za-z0-9\s\-.',:!&]{1,100}$`)

var punctuationFolder = strings.NewReplacer(
	"\u201c", `"`, // left double quote
	"\u201d", `"`, // right double quote
	"\u2018", "'", // left single quote
	"\u2019", "'", // right single quote
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
)

// SearchQuery is a game name that passed validation. The zero value is not a
// valid query; build one with NewSearchQuery.
type SearchQuery struct {
	text string
}

// NewSearchQuery normalizes and validates raw user input.
//
// Whitespace runs are collapsed and the result trimmed, the length bound is
// checked before smart punctuation is folded to ASCII, and the folded text
// must match the allow-list pattern.
func NewSearchQuery(raw string) (SearchQuery, error) {
	if !utf8.ValidString(raw) {
		return SearchQuery{}, invalidInput(RuleEncoding, "Game name must be valid UTF-8 text.")
	}

	name := CollapseWhitespace(raw)
	if name == "" {
		return SearchQuery{}, invalidInput(RuleEmpty, "Game name cannot be empty.")
	}

	if utf8.RuneCountInString(name) > MaxQueryLength {
		return SearchQuery{}, invalidInput(RuleTooLong,
			fmt.Sprintf("Game name is too long (max %d characters).", MaxQueryLength))
	}

	name = FoldPunctuation(name)

	if !queryPattern.MatchString(name) {
		return SearchQuery{}, invalidInput(RuleCharset,
			"Game name contains invalid characters. Only letters, numbers, spaces, "+
				"and the following special characters are allowed: "+AllowedPunctuation)
	}

	return SearchQuery{text: name}, nil
}

func (q SearchQuery) String() string {
	return q.text
}

func (q SearchQuery) IsZero() bool {
	return q.text == ""
}

// CollapseWhitespace trims s and joins its fields with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldPunctuation replaces curly quotes and en/em dashes with ASCII look-alikes.
func FoldPunctuation(s string) string {
	return punctuationFolder.Replace(s)
}
