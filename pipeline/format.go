package pipeline

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

const continuedMarker = "\n...(continued)\n"
const entrySeparator = "\n\n---\n\n"

// FormatEntry renders one summary as a list of ready-to-send chunks,
// each at most limit characters. A short entry becomes a single chunk.
// When the entry alone exceeds the limit, the summary body is split and
// every chunk repeats the URL line plus a continuation marker, so each
// chunk is independently a legal message even when the body has no
// newlines for the generic splitter to work with. Lengths count runes
// and the split points land on rune boundaries, so multi-byte text is
// never cut mid-character.
func FormatEntry(label, url, summary string, limit int) []string {
	entry := fmt.Sprintf("**URL (%s):** %s\n**Summary:**\n%s%s", label, url, summary, entrySeparator)
	if utf8.RuneCountInString(entry) <= limit {
		return []string{strings.TrimSpace(entry)}
	}

	log.Printf("Warning: summary for %s exceeds max length (%d). Splitting.", url, utf8.RuneCountInString(entry))
	urlLine := fmt.Sprintf("**URL (%s):** %s\n**Summary:**\n", label, url)
	per := limit - utf8.RuneCountInString(urlLine) - len(entrySeparator) - len(continuedMarker)
	if per <= 0 {
		log.Printf("Cannot format summary for %s: URL line leaves no room for content.", url)
		return nil
	}

	runes := []rune(summary)
	var chunks []string
	for start := 0; start < len(runes); start += per {
		end := start + per
		if end > len(runes) {
			end = len(runes)
		}
		part := urlLine + string(runes[start:end])
		if end < len(runes) {
			part += continuedMarker + entrySeparator
		} else {
			part += "\n" + entrySeparator
		}
		chunks = append(chunks, strings.TrimSpace(part))
	}
	return chunks
}

// FormatTranslated renders a summary for the translate pass, carrying
// the source channel, author and a non-embedding link back to the
// original message.
func FormatTranslated(sourceName, author, url, summary, messageLink string) string {
	return fmt.Sprintf(
		"**Summary from #%s (by %s):**\nURL: %s\n\n%s\n\n*Original Message: <%s>*",
		sourceName, author, url, summary, messageLink,
	)
}
