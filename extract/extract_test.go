package extract

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestFirstURLFromContent(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"check this out https://example.com/a and https://example.com/b", "https://example.com/a"},
		{"http://plain.example.org", "http://plain.example.org"},
		{"wrapped <https://example.com/c> link", "https://example.com/c"},
		{"no links here", ""},
		{"", ""},
		{"trailing punctuation https://example.com/d?q=1&r=2 end", "https://example.com/d?q=1&r=2"},
	}
	for _, tc := range cases {
		got := FirstURL(&discordgo.Message{Content: tc.content})
		if got != tc.want {
			t.Errorf("FirstURL(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

func TestFirstURLFallsBackToEmbed(t *testing.T) {
	msg := &discordgo.Message{
		Content: "look at this",
		Embeds: []*discordgo.MessageEmbed{
			{Title: "no url"},
			{URL: "https://example.com/embedded"},
		},
	}
	if got := FirstURL(msg); got != "https://example.com/embedded" {
		t.Errorf("FirstURL = %q, want embed URL", got)
	}
}

func TestFirstURLContentWinsOverEmbed(t *testing.T) {
	msg := &discordgo.Message{
		Content: "https://example.com/body",
		Embeds:  []*discordgo.MessageEmbed{{URL: "https://example.com/embedded"}},
	}
	if got := FirstURL(msg); got != "https://example.com/body" {
		t.Errorf("FirstURL = %q, want body URL", got)
	}
}

func TestURLs(t *testing.T) {
	got := URLs("a https://one.example b http://two.example c")
	if len(got) != 2 || got[0] != "https://one.example" || got[1] != "http://two.example" {
		t.Errorf("URLs = %v", got)
	}
}
