// Package htmltext turns upstream HTML descriptions into bounded plain text.
package htmltext

import (
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	// MaxInputBytes bounds how much markup is tokenized.
	MaxInputBytes = 50_000
	// MaxOutputRunes bounds the stripped text, applied after unescaping.
	MaxOutputRunes = 5_000
	// MaxTokenBytes bounds a single tag, comment or text run. A longer token
	// fails tokenizing with html.ErrBufferExceeded.
	MaxTokenBytes = 32 << 10
)

// Strip removes all markup from text and decodes character references once.
// When tokenizing fails the original text is returned untouched.
func Strip(text string) string {
	out, _ := StripWithStatus(text)
	return out
}

// StripWithStatus is Strip that also reports whether it fell back to the
// original text.
func StripWithStatus(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	raw, err := extractText(truncateBytes(text, MaxInputBytes))
	if err != nil {
		return text, true
	}

	out := strings.TrimSpace(html.UnescapeString(raw))
	return TruncateRunes(out, MaxOutputRunes), false
}

// extractText walks the token stream and keeps text tokens verbatim, so
// character references stay escaped until the single unescape in Strip.
func extractText(markup string) (string, error) {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	z.SetMaxBuf(MaxTokenBytes)

	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Raw())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch {
			case isSkipped(name):
				if tt == html.StartTagToken {
					skipDepth++
				}
			case isLineBreak(name):
				breakLine(&b)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch {
			case isSkipped(name):
				if skipDepth > 0 {
					skipDepth--
				}
			case isBlock(name):
				breakLine(&b)
			}
		}
	}
}

// script and style bodies are code, not description text
func isSkipped(name []byte) bool {
	switch string(name) {
	case "script", "style", "noscript":
		return true
	}
	return false
}

func isLineBreak(name []byte) bool {
	return string(name) == "br"
}

func isBlock(name []byte) bool {
	switch string(name) {
	case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "tr":
		return true
	}
	return false
}

func breakLine(b *strings.Builder) {
	s := b.String()
	if s == "" {
		return
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	if !unicode.IsSpace(r) {
		b.WriteByte('\n')
	}
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
