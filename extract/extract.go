// Package extract pulls candidate URLs out of Discord messages.
package extract

import (
	"regexp"

	"github.com/bwmarrin/discordgo"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// FirstURL returns the first URL in a message: a match in the text body
// wins, then the url field of the first embed carrying one. A message
// with several links deliberately yields only its first; chat messages
// here carry one link and the simplification keeps duplicate tracking
// one-to-one with messages.
func FirstURL(m *discordgo.Message) string {
	if url := urlPattern.FindString(m.Content); url != "" {
		return url
	}
	for _, embed := range m.Embeds {
		if embed.URL != "" {
			return embed.URL
		}
	}
	return ""
}

// URLs returns every URL in a text body, in order.
func URLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
