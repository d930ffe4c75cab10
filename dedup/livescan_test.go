package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// fakeLister serves canned thread listings and per-thread messages.
type fakeLister struct {
	active   []*discordgo.Channel
	archived []*discordgo.Channel
	messages map[string][]*discordgo.Message

	fetched []string // channel IDs whose messages were fetched
}

func (f *fakeLister) ActiveGuildThreads(guildID string) ([]*discordgo.Channel, error) {
	return f.active, nil
}

func (f *fakeLister) ArchivedPublicThreads(channelID string, limit int) ([]*discordgo.Channel, error) {
	if limit < len(f.archived) {
		return f.archived[:limit], nil
	}
	return f.archived, nil
}

func (f *fakeLister) ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	f.fetched = append(f.fetched, channelID)
	return f.messages[channelID], nil
}

func testScanner(f *fakeLister) *LiveScanner {
	return &LiveScanner{
		API:          f,
		GuildID:      "g1",
		ThreadLimit:  5,
		MessageLimit: 100,
		Sleep:        func(time.Duration) {},
	}
}

func TestSeenInChannel(t *testing.T) {
	f := &fakeLister{messages: map[string][]*discordgo.Message{
		"ch1": {
			{Content: "summary of https://example.com/seen here"},
			{Content: "unrelated"},
		},
	}}
	s := testScanner(f)

	if !s.SeenInChannel("ch1", "https://example.com/seen") {
		t.Error("URL in channel content not detected")
	}
	if s.SeenInChannel("ch1", "https://example.com/other") {
		t.Error("absent URL reported as seen")
	}
}

func TestSeenInForumSearchesActiveThenArchived(t *testing.T) {
	f := &fakeLister{
		active: []*discordgo.Channel{
			{ID: "t1", ParentID: "forum1"},
			{ID: "other", ParentID: "forum2"},
		},
		archived: []*discordgo.Channel{{ID: "t2"}},
		messages: map[string][]*discordgo.Message{
			"t2": {{Content: "posted https://example.com/old already"}},
		},
	}
	s := testScanner(f)

	if !s.SeenInForum("forum1", "https://example.com/old") {
		t.Error("URL in archived thread not detected")
	}
	for _, id := range f.fetched {
		if id == "other" {
			t.Error("scanned a thread belonging to another forum")
		}
	}
}

func TestSeenInForumHonorsThreadBudget(t *testing.T) {
	f := &fakeLister{messages: map[string][]*discordgo.Message{}}
	for i := 0; i < 10; i++ {
		f.active = append(f.active, &discordgo.Channel{ID: fmt.Sprintf("t%d", i), ParentID: "forum1"})
	}
	s := testScanner(f)
	s.ThreadLimit = 3

	if s.SeenInForum("forum1", "https://example.com/x") {
		t.Error("empty threads reported as containing the URL")
	}
	if len(f.fetched) != 3 {
		t.Errorf("threads scanned = %d, want 3", len(f.fetched))
	}
}

func TestSeenInForumDeduplicatesThreads(t *testing.T) {
	f := &fakeLister{
		active:   []*discordgo.Channel{{ID: "t1", ParentID: "forum1"}},
		archived: []*discordgo.Channel{{ID: "t1"}, {ID: "t2"}},
		messages: map[string][]*discordgo.Message{},
	}
	s := testScanner(f)

	s.SeenInForum("forum1", "https://example.com/x")
	counts := make(map[string]int)
	for _, id := range f.fetched {
		counts[id]++
	}
	if counts["t1"] != 1 {
		t.Errorf("thread t1 scanned %d times, want 1", counts["t1"])
	}
}
