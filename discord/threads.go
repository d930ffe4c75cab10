package discord

import (
	"fmt"
	"log"
	"time"
	"unicode/utf8"
)

// autoArchiveMinutes archives the daily thread after one day of
// inactivity.
const autoArchiveMinutes = 1440

// DailyTitle derives the title of the daily summary thread. The date
// and weekday use UTC so that one thread exists per UTC calendar day
// regardless of where the job runs.
func DailyTitle(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("Summary for %s (%s)", now.Format("2006-01-02"), now.Weekday())
}

// Resolution is synchronous, so there is no intermediate in-progress
// state: a resolver moves straight from unknown to found or created.
type resolverState int

const (
	stateUnknown resolverState = iota
	stateFound
	stateCreated
)

// ThreadResolver finds or creates the daily thread of a forum channel.
// It resolves at most once per run: after the first successful Resolve
// or Create, the cached thread ID is reused for every subsequent post.
type ThreadResolver struct {
	Client       *Client
	GuildID      string
	ForumID      string
	MessageProbe int // recent forum messages checked for a just-created thread
	ArchiveProbe int // archived threads checked for the title

	state    resolverState
	threadID string
}

// ThreadID returns the cached thread ID, or "" while unresolved.
func (r *ThreadResolver) ThreadID() string {
	return r.threadID
}

// Resolve looks for an existing thread with the given title. It checks,
// in order: active guild threads under the forum, the forum channel's
// recent messages (covering a thread created moments ago that is not in
// the active listing yet), and recently archived public threads. The
// result is cached; later calls return it without touching the API.
func (r *ThreadResolver) Resolve(title string) (string, bool) {
	if r.state != stateUnknown {
		return r.threadID, r.threadID != ""
	}

	active, err := r.Client.ActiveGuildThreads(r.GuildID)
	if err != nil {
		log.Printf("Error fetching active guild threads: %v", err)
	}
	for _, thread := range active {
		if thread.ParentID == r.ForumID && thread.Name == title {
			log.Printf("Found matching active thread: %s", thread.ID)
			r.cache(thread.ID, stateFound)
			return thread.ID, true
		}
	}

	messages, err := r.Client.ChannelMessages(r.ForumID, r.MessageProbe)
	if err != nil {
		log.Printf("Error fetching forum channel messages: %v", err)
	}
	for _, msg := range messages {
		if msg.Thread != nil && msg.Thread.Name == title {
			log.Printf("Found matching thread via forum message (likely just created): %s", msg.Thread.ID)
			r.cache(msg.Thread.ID, stateFound)
			return msg.Thread.ID, true
		}
	}

	archived, err := r.Client.ArchivedPublicThreads(r.ForumID, r.ArchiveProbe)
	if err != nil {
		log.Printf("Error fetching archived threads: %v", err)
	}
	for _, thread := range archived {
		if thread.Name == title {
			log.Printf("Found matching archived thread: %s", thread.ID)
			r.cache(thread.ID, stateFound)
			return thread.ID, true
		}
	}

	log.Printf("Thread %q not found.", title)
	return "", false
}

// Create starts the daily thread with its first message content and
// caches the new ID. Content longer than the platform limit is
// truncated; callers are expected to pass a single pre-chunked entry.
func (r *ThreadResolver) Create(title, content string) (string, error) {
	if n := utf8.RuneCountInString(content); n > MaxMessageLength {
		log.Printf("Warning: initial thread message is too long (%d chars). Truncating.", n)
		content = string([]rune(content)[:MaxMessageLength-10]) + "..."
	}
	thread, err := r.Client.CreateThread(r.ForumID, title, content, autoArchiveMinutes)
	if err != nil {
		return "", err
	}
	log.Printf("Successfully created thread %q: %s", title, thread.ID)
	r.cache(thread.ID, stateCreated)
	return thread.ID, nil
}

func (r *ThreadResolver) cache(id string, state resolverState) {
	r.threadID = id
	r.state = state
}
