package dedup

import (
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ThreadLister is the slice of the Discord client the live scan needs.
type ThreadLister interface {
	ActiveGuildThreads(guildID string) ([]*discordgo.Channel, error)
	ArchivedPublicThreads(channelID string, limit int) ([]*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error)
}

// scanDelay spaces per-thread message fetches during a forum scan.
const scanDelay = 200 * time.Millisecond

// LiveScanner checks a destination's recent messages for a URL. It is
// deliberately best-effort: the thread and message windows bound API
// cost, accepting that a duplicate buried deeper than the scan window
// is missed and summarized again.
type LiveScanner struct {
	API          ThreadLister
	GuildID      string
	ThreadLimit  int // distinct threads scanned per forum check
	MessageLimit int // messages checked per thread or channel

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

func (s *LiveScanner) pace() {
	if s.Sleep != nil {
		s.Sleep(scanDelay)
		return
	}
	time.Sleep(scanDelay)
}

// SeenInChannel reports whether the URL appears verbatim in the
// channel's recent messages. A fetch failure counts as "not seen".
func (s *LiveScanner) SeenInChannel(channelID, url string) bool {
	messages, err := s.API.ChannelMessages(channelID, s.MessageLimit)
	if err != nil {
		log.Printf("Could not fetch messages from %s to check for duplicates: %v", channelID, err)
		return false
	}
	for _, msg := range messages {
		if strings.Contains(msg.Content, url) {
			return true
		}
	}
	return false
}

// SeenInForum reports whether the URL appears in the recent threads of
// a forum channel. Candidate threads are the guild's active threads
// under that forum plus enough recently archived public threads to fill
// the thread budget; each is checked with SeenInChannel.
func (s *LiveScanner) SeenInForum(forumID, url string) bool {
	var candidates []*discordgo.Channel
	seen := make(map[string]bool)

	active, err := s.API.ActiveGuildThreads(s.GuildID)
	if err != nil {
		log.Printf("Error fetching active guild threads: %v", err)
	}
	for _, thread := range active {
		if thread.ParentID == forumID && !seen[thread.ID] {
			candidates = append(candidates, thread)
			seen[thread.ID] = true
		}
	}

	if remaining := s.ThreadLimit - len(candidates); remaining > 0 {
		archived, err := s.API.ArchivedPublicThreads(forumID, remaining)
		if err != nil {
			log.Printf("Error fetching archived threads of %s: %v", forumID, err)
		}
		for _, thread := range archived {
			if !seen[thread.ID] {
				candidates = append(candidates, thread)
				seen[thread.ID] = true
			}
		}
	}

	checked := 0
	for _, thread := range candidates {
		if checked >= s.ThreadLimit {
			break
		}
		checked++
		if s.SeenInChannel(thread.ID, url) {
			return true
		}
		s.pace()
	}
	return false
}
