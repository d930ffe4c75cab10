package discord

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Discord's hard per-message character limit.
const MaxMessageLength = 2000

// SplitMessage splits text into chunks of at most limit characters.
// The limit counts runes, not bytes, matching how the platform counts
// message length, and split points always fall on rune boundaries. It
// prefers line boundaries, falls back to word boundaries for lines
// longer than the limit, and hard-splits only single words that exceed
// the limit on their own.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	size := 0 // runes in current

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			size = 0
		}
	}
	push := func(line string, n int) {
		current.WriteString(line)
		current.WriteString("\n")
		size += n + 1
	}

	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n+1 > limit {
			flush()
			if n > limit {
				for _, piece := range splitLine(line, limit) {
					pn := utf8.RuneCountInString(piece)
					if pn+1 > limit {
						chunks = append(chunks, piece)
					} else if size+pn+1 > limit {
						flush()
						push(piece, pn)
					} else {
						push(piece, pn)
					}
				}
				continue
			}
		}
		push(line, n)
	}
	flush()
	return chunks
}

// splitLine splits a single overlong line on word boundaries; words
// that alone exceed the limit are hard-split by rune count.
func splitLine(line string, limit int) []string {
	var parts []string
	var current strings.Builder
	size := 0

	for _, word := range strings.Split(line, " ") {
		n := utf8.RuneCountInString(word)
		if n > limit {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
				size = 0
			}
			runes := []rune(word)
			for len(runes) > limit {
				parts = append(parts, string(runes[:limit]))
				runes = runes[limit:]
			}
			if len(runes) > 0 {
				current.WriteString(string(runes))
				size = len(runes)
			}
			continue
		}
		if size+n+1 > limit {
			parts = append(parts, current.String())
			current.Reset()
			size = 0
		}
		if current.Len() > 0 {
			current.WriteString(" ")
			size++
		}
		current.WriteString(word)
		size += n
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
