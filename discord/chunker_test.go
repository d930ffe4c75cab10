package discord

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShortText(t *testing.T) {
	chunks := SplitMessage("hello world", 2000)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0] != "hello world" {
		t.Errorf("chunk = %q, want %q", chunks[0], "hello world")
	}
}

func TestSplitMessageRespectsLimit(t *testing.T) {
	text := strings.Repeat("line one\nline two\nline three\n", 50)
	chunks := SplitMessage(text, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d length = %d, exceeds limit 100", i, len(chunk))
		}
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitMessagePrefersLineBoundaries(t *testing.T) {
	text := "first line\nsecond line\nthird line"
	chunks := SplitMessage(text, 25)
	for i, chunk := range chunks {
		for _, line := range strings.Split(chunk, "\n") {
			switch line {
			case "first line", "second line", "third line":
			default:
				t.Errorf("chunk %d contains partial line %q", i, line)
			}
		}
	}
}

func TestSplitMessageWordBoundaries(t *testing.T) {
	// One long line forces the word-boundary fallback.
	text := strings.Repeat("word ", 100)
	chunks := SplitMessage(text, 40)
	for i, chunk := range chunks {
		if len(chunk) > 40 {
			t.Errorf("chunk %d length = %d, exceeds limit 40", i, len(chunk))
		}
		for _, w := range strings.Fields(chunk) {
			if w != "word" {
				t.Errorf("chunk %d split a word: %q", i, w)
			}
		}
	}
}

func TestSplitMessageHardSplitsOverlongWord(t *testing.T) {
	word := strings.Repeat("a", 95)
	chunks := SplitMessage(word+"\nshort", 40)
	total := 0
	for i, chunk := range chunks {
		if len(chunk) > 40 {
			t.Errorf("chunk %d length = %d, exceeds limit 40", i, len(chunk))
		}
		total += strings.Count(chunk, "a")
	}
	if total != 95 {
		t.Errorf("characters preserved = %d, want 95", total)
	}
}

func TestSplitMessageCountsRunesNotBytes(t *testing.T) {
	// 50 three-byte characters are 50 characters to the platform and
	// must stay in one message under a 100-character limit.
	text := strings.Repeat("語", 50)
	chunks := SplitMessage(text, 100)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("chunks = %d, want the text unsplit", len(chunks))
	}
}

func TestSplitMessageMultibyteBoundaries(t *testing.T) {
	text := strings.Repeat("語", 250)
	chunks := SplitMessage(text, 100)
	if len(chunks) != 3 {
		t.Errorf("chunks = %d, want 3", len(chunks))
	}
	total := 0
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if n := utf8.RuneCountInString(chunk); n > 100 {
			t.Errorf("chunk %d = %d characters, exceeds limit 100", i, n)
		}
		total += strings.Count(chunk, "語")
	}
	if total != 250 {
		t.Errorf("characters preserved = %d, want 250", total)
	}
}

func TestSplitMessagePreservesContent(t *testing.T) {
	text := "alpha beta\ngamma delta\nepsilon zeta eta theta iota kappa"
	joined := strings.Join(SplitMessage(text, 20), "\n")
	for _, w := range strings.Fields(text) {
		if !strings.Contains(joined, w) {
			t.Errorf("word %q missing from output", w)
		}
	}
}
