package htmltext

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"inline tags", "<p>Hello <b>world</b>!</p>", "Hello world!"},
		{"plain text", "Just some text", "Just some text"},
		{"empty", "", ""},
		{"named entity", "<p>Tom &amp; Jerry</p>", "Tom & Jerry"},
		{"numeric entity", "<p>caf&#233;</p>", "café"},
		{"hex entity", "<p>&#x41;BC</p>", "ABC"},
		{"double escaped decoded once", "<p>&amp;lt;b&amp;gt;</p>", "&lt;b&gt;"},
		{"paragraph boundary", "<p>One</p><p>Two</p>", "One\nTwo"},
		{"line break", "first<br>second<br/>third", "first\nsecond\nthird"},
		{"script dropped", "<p>Keep</p><script>alert('x')</script>", "Keep"},
		{"style dropped", "<style>p{color:red}</style>Text", "Text"},
		{"comment dropped", "a<!-- hidden -->b", "ab"},
		{"attributes dropped", `<a href="http://example.com" onclick="x()">link</a>`, "link"},
		{"surrounding whitespace", "\n  <p>  padded  </p>\n", "padded"},
		{"unclosed tags", "<div><p>open <i>ended", "open ended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.input)
			if got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>world</b>!</p>",
		"<h2>Plot</h2><p>The hero &mdash; returns.</p>",
		"Plain text with punctuation: yes, really!",
	}

	for _, in := range inputs {
		once := Strip(in)
		twice := Strip(once)
		if once != twice {
			t.Errorf("Strip not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStrip_BoundsOutputAfterUnescape(t *testing.T) {
	// each "&amp;" is 5 bytes of input and 1 rune of output
	in := "<p>" + strings.Repeat("&amp;", MaxOutputRunes+500) + "</p>"

	got := Strip(in)
	if n := utf8.RuneCountInString(got); n != MaxOutputRunes {
		t.Errorf("len(Strip()) = %d runes, want %d", n, MaxOutputRunes)
	}
	if strings.Contains(got, "&amp;") {
		t.Error("Strip() left entities escaped")
	}
}

func TestStrip_BoundsInput(t *testing.T) {
	in := strings.Repeat("<p>"+strings.Repeat("a", 1000)+"</p>", 2*MaxInputBytes/1000)

	got, degraded := StripWithStatus(in)
	if degraded {
		t.Fatal("StripWithStatus() degraded on oversized input")
	}
	if utf8.RuneCountInString(got) > MaxOutputRunes {
		t.Errorf("len(Strip()) = %d, want <= %d", utf8.RuneCountInString(got), MaxOutputRunes)
	}
}

func TestStripWithStatus_FallsBackToOriginal(t *testing.T) {
	filler := strings.Repeat("x", MaxTokenBytes+1024)

	tests := []struct {
		name  string
		input string
	}{
		{"unclosed attribute", "<p>Intro</p><a href='" + filler},
		{"unterminated comment", "<p>Intro</p><!--" + filler},
		{"runaway text run", "<p>" + filler + "</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.input) > MaxInputBytes {
				t.Fatalf("input of %d bytes would be truncated first", len(tt.input))
			}

			got, degraded := StripWithStatus(tt.input)
			if !degraded {
				t.Fatal("StripWithStatus() degraded = false, want true")
			}
			if got != tt.input {
				t.Errorf("StripWithStatus() returned %d bytes, want the original %d", len(got), len(tt.input))
			}
			if Strip(tt.input) != tt.input {
				t.Error("Strip() did not return the original text")
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 3, "abc"},
		{"multibyte", "héllo wörld", 7, "héllo w"},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.in, tt.n); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncateBytes_RuneBoundary(t *testing.T) {
	// "é" is two bytes; cutting at 2 must not split it
	got := truncateBytes("aé", 2)
	if got != "a" {
		t.Errorf("truncateBytes() = %q, want %q", got, "a")
	}
	if !utf8.ValidString(got) {
		t.Error("truncateBytes() produced invalid UTF-8")
	}
}
