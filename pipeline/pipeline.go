// Package pipeline ties the directory, extractor, duplicate detector,
// summarizers and sender together into the per-run batch passes.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"summary-bot/config"
	"summary-bot/dedup"
	"summary-bot/discord"
	"summary-bot/extract"
	"summary-bot/history"
	"summary-bot/prompts"
)

// urlDelay spaces consecutive URL processing to be gentle on both the
// chat platform and the summarization API.
const urlDelay = time.Second

// API is the slice of the Discord client the pipeline reads through.
type API interface {
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error)
	ChannelName(channelID string) string
}

// Collaborators are the external content capabilities the pipeline
// consumes. Each returns an error instead of text on failure; the
// pipeline degrades to a per-URL skip.
type Collaborators struct {
	Scrape         func(url string) (string, error)
	Generate       func(prompt string) (string, error)
	SummarizeVideo func(url string) (string, error)
}

// Pipeline processes candidate URLs for one run. Construct a fresh one
// per batch pass; the status map and detector run-state are per-run.
type Pipeline struct {
	API      API
	Sender   MessageSender
	Detector *dedup.Detector
	Col      Collaborators

	// ExcludedDomains are skipped outright (and never recorded, in
	// case they become summarizable later).
	ExcludedDomains []string

	// Limit is the per-message character limit used for formatting.
	// Zero means the platform default.
	Limit int

	// History is optional; nil disables run logging.
	History *history.Store

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(time.Duration)

	// mu serializes ProcessURL. The batch passes are single-threaded,
	// but watch mode feeds URLs in from gateway events, and the per-run
	// maps (statuses, the detector's seen set, the record) are not
	// safe for concurrent writes.
	mu sync.Mutex

	runID    int64
	statuses map[string]Status
	posted   int
}

// Statuses returns the per-URL outcomes of the run so far.
func (p *Pipeline) Statuses() map[string]Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statuses
}

// Posted returns how many summaries were fully delivered this run.
func (p *Pipeline) Posted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posted
}

func (p *Pipeline) limit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return discord.MaxMessageLength
}

func (p *Pipeline) pause() {
	if p.Sleep != nil {
		p.Sleep(urlDelay)
		return
	}
	time.Sleep(urlDelay)
}

func (p *Pipeline) startRun(mode string) {
	p.statuses = make(map[string]Status)
	p.posted = 0
	if p.History == nil {
		return
	}
	id, err := p.History.StartRun(mode)
	if err != nil {
		log.Printf("Could not record run start: %v", err)
		return
	}
	p.runID = id
}

// StartLive prepares the pipeline for open-ended live use, where URLs
// arrive one at a time from gateway events instead of a batch walk.
func (p *Pipeline) StartLive() {
	p.startRun("watch")
}

func (p *Pipeline) finishRun() {
	if p.History == nil || p.runID == 0 {
		return
	}
	if err := p.History.FinishRun(p.runID, p.posted); err != nil {
		log.Printf("Could not record run end: %v", err)
	}
}

// setStatus records the outcome for a URL in the run map and, when
// enabled, the history database.
func (p *Pipeline) setStatus(url string, st Status) Status {
	p.statuses[url] = st
	if st.Posted() {
		p.posted++
	}
	if p.History != nil && p.runID != 0 {
		if err := p.History.RecordURL(p.runID, url, st.String()); err != nil {
			log.Printf("Could not record history for %s: %v", url, err)
		}
	}
	return st
}

func (p *Pipeline) excluded(url string) bool {
	for _, domain := range p.ExcludedDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}

// summarizeURL routes a URL to the right collaborator chain and returns
// the trimmed summary text. A non-empty summary comes back with
// StatusUnknown; any failure comes back as the status to record.
func (p *Pipeline) summarizeURL(url string) (string, Status) {
	if prompts.IsVideoURL(url) {
		text, err := p.Col.SummarizeVideo(url)
		if err != nil {
			log.Printf("    Error summarizing video %s: %v", url, err)
			return "", StatusSummaryFailed
		}
		if text = strings.TrimSpace(text); text == "" {
			return "", StatusSummaryEmpty
		}
		return text, StatusUnknown
	}

	content, err := p.Col.Scrape(url)
	if err != nil || strings.TrimSpace(content) == "" {
		if err != nil {
			log.Printf("    Failed to scrape %s: %v", url, err)
		}
		return "", StatusScrapeFailed
	}

	summary, err := p.Col.Generate(prompts.ForURL(url, content))
	if err != nil {
		log.Printf("    Failed to summarize %s: %v", url, err)
		return "", StatusSummaryFailed
	}
	if summary = strings.TrimSpace(summary); summary == "" {
		return "", StatusSummaryEmpty
	}
	return summary, StatusUnknown
}

// checkDuplicate maps a detector verdict onto a status, or returns
// StatusUnknown for a fresh URL.
func (p *Pipeline) checkDuplicate(url string) Status {
	switch p.Detector.Check(url) {
	case dedup.SeenThisRun:
		return StatusDuplicateRun
	case dedup.SeenRecorded:
		return StatusDuplicateRecorded
	case dedup.SeenLive:
		return StatusDuplicateLive
	}
	return StatusUnknown
}

// ProcessURL runs the full chain for one URL: exclusion check,
// duplicate check, summarize, format, deliver, record. Failure at any
// stage leaves the URL out of the persisted record so a later run
// retries it.
func (p *Pipeline) ProcessURL(url, label string, dest Destination) Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.excluded(url) {
		log.Printf("  Skipping excluded-domain URL: %s", url)
		return p.setStatus(url, StatusSkippedExcluded)
	}

	if st := p.checkDuplicate(url); st != StatusUnknown {
		log.Printf("  Skipping (already summarized, %s): %s", st, url)
		p.Detector.MarkSeen(url)
		return p.setStatus(url, st)
	}
	p.Detector.MarkSeen(url)

	log.Printf("  Attempting to summarize: %s", url)
	summary, st := p.summarizeURL(url)
	if st != StatusUnknown {
		return p.setStatus(url, st)
	}

	chunks := FormatEntry(label, url, summary, p.limit())
	if len(chunks) == 0 {
		return p.setStatus(url, StatusPostFailedFormatting)
	}

	if err := dest.Deliver(chunks); err != nil {
		log.Printf("  Failed to post summary for %s: %v", url, err)
		if errors.Is(err, ErrThreadCreate) {
			return p.setStatus(url, StatusPostFailedThreadCreate)
		}
		return p.setStatus(url, StatusPostFailedChunk)
	}

	p.Detector.Confirm(url)
	log.Printf("  Successfully posted summary for %s", url)
	return p.setStatus(url, StatusSummarizedPosted)
}

// processMessages walks a fetched batch oldest first and feeds each
// message's first URL through ProcessURL.
func (p *Pipeline) processMessages(messages []*discordgo.Message, label string, dest Destination, skipBots bool) {
	for _, msg := range discord.Reverse(messages) {
		if skipBots && msg.Author != nil && msg.Author.Bot {
			continue
		}
		url := extract.FirstURL(msg)
		if url == "" {
			continue
		}
		if st, done := p.statuses[url]; done {
			log.Printf("  Skipping %s (already handled this run: %s).", url, st)
			continue
		}
		st := p.ProcessURL(url, label, dest)
		if !st.Duplicate() {
			p.pause()
		}
	}
}

// RunForum is the forum batch pass: every text channel under the
// configured category feeds the forum channel's daily thread.
func (p *Pipeline) RunForum(cfg *config.Config, resolver DailyResolver) (int, error) {
	p.startRun("forum")
	defer p.finishRun()

	title := discord.DailyTitle(time.Now())
	log.Printf("Target post title: %s", title)

	channels, err := p.API.GuildChannels(cfg.GuildID)
	if err != nil {
		return 0, fmt.Errorf("could not fetch guild channels: %w", err)
	}
	sources := discord.ChannelsInCategory(channels, cfg.CategoryName, cfg.ExcludedChannelNames)
	if len(sources) == 0 {
		log.Printf("No category channels to process.")
		return 0, nil
	}

	dest := &ForumDestination{Sender: p.Sender, Resolver: resolver, Title: title}
	for _, ch := range sources {
		log.Printf("Processing channel: %s (%s)", ch.Name, ch.ID)
		messages, err := p.API.ChannelMessages(ch.ID, cfg.MessageFetchLimit)
		if err != nil {
			log.Printf("Skipping channel %s due to fetch error: %v", ch.ID, err)
			continue
		}
		p.processMessages(messages, ch.Name, dest, false)
	}
	return p.posted, nil
}

// RunChannels is the flat batch pass: explicit source channels feed the
// summary channel directly.
func (p *Pipeline) RunChannels(cfg *config.Config) (int, error) {
	p.startRun("channel")
	defer p.finishRun()

	dest := &ChannelDestination{Sender: p.Sender, ChannelID: cfg.SummaryChannelID}
	for _, channelID := range cfg.SourceChannelIDs {
		label := p.API.ChannelName(channelID)
		log.Printf("Processing channel: %s (%s)", label, channelID)

		messages, err := p.API.ChannelMessages(channelID, cfg.MessageFetchLimit)
		if err != nil {
			log.Printf("Skipping channel %s due to fetch error: %v", channelID, err)
			continue
		}
		p.processMessages(messages, label, dest, true)
	}
	return p.posted, nil
}

// RunTranslate is the cross-language pass: the named source channel
// feeds the named target channel, with an author and original-message
// footer on every summary.
func (p *Pipeline) RunTranslate(cfg *config.Config) (int, error) {
	p.startRun("translate")
	defer p.finishRun()

	channels, err := p.API.GuildChannels(cfg.GuildID)
	if err != nil {
		return 0, fmt.Errorf("could not fetch guild channels: %w", err)
	}
	source := discord.FindChannelByName(channels, cfg.TranslateSourceName)
	if source == nil {
		return 0, fmt.Errorf("source channel %q not found", cfg.TranslateSourceName)
	}
	target := discord.FindChannelByName(channels, cfg.TranslateTargetName)
	if target == nil {
		return 0, fmt.Errorf("target channel %q not found", cfg.TranslateTargetName)
	}

	messages, err := p.API.ChannelMessages(source.ID, cfg.TranslateFetchLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages from %q: %w", cfg.TranslateSourceName, err)
	}

	for _, msg := range discord.Reverse(messages) {
		url := extract.FirstURL(msg)
		if url == "" {
			continue
		}
		if _, done := p.statuses[url]; done {
			continue
		}
		if p.excluded(url) {
			log.Printf("  Skipping excluded-domain URL: %s", url)
			p.setStatus(url, StatusSkippedExcluded)
			continue
		}
		if st := p.checkDuplicate(url); st != StatusUnknown {
			log.Printf("  Skipping (already processed, %s): %s", st, url)
			p.Detector.MarkSeen(url)
			p.setStatus(url, st)
			continue
		}
		p.Detector.MarkSeen(url)

		log.Printf("Processing message %s (author: %s), URL: %s", msg.ID, authorName(msg), url)
		summary, st := p.summarizeURL(url)
		if st != StatusUnknown {
			p.setStatus(url, st)
			continue
		}

		link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", cfg.GuildID, source.ID, msg.ID)
		output := FormatTranslated(cfg.TranslateSourceName, authorName(msg), url, summary, link)
		if err := p.Sender.Send(target.ID, output); err != nil {
			log.Printf("  Failed to post summary for %s, will retry next run: %v", url, err)
			p.setStatus(url, StatusPostFailedChunk)
			continue
		}

		p.Detector.Confirm(url)
		p.setStatus(url, StatusSummarizedPosted)
		p.pause()
	}
	return p.posted, nil
}

func authorName(msg *discordgo.Message) string {
	if msg.Author == nil || msg.Author.Username == "" {
		return "Unknown"
	}
	return msg.Author.Username
}
