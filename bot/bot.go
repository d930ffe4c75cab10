// Package bot runs the long-lived watch mode: a gateway session that
// summarizes links as they arrive, plus a cron-driven forum batch pass.
package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"summary-bot/config"
	"summary-bot/extract"
	"summary-bot/pipeline"
	"summary-bot/utils"
)

// Bot encapsulates the watch-mode state.
type Bot struct {
	Session *discordgo.Session

	cfg  *config.Config
	pipe *pipeline.Pipeline
	dest pipeline.Destination
	cron *cron.Cron

	// runMu serializes the live message handler against the scheduled
	// batch pass; both confirm URLs into the same record file.
	runMu sync.Mutex

	// RunBatch is invoked by the scheduler; main wires it to a fresh
	// forum pass per tick.
	RunBatch func()
}

// New creates the watch-mode bot. The pipeline handles messages seen
// live; RunBatch covers links that arrived while the bot was down.
func New(cfg *config.Config, pipe *pipeline.Pipeline, runBatch func()) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuilds
	// Handlers normally each run in their own goroutine; the per-URL
	// chain expects one notification at a time.
	dg.SyncEvents = true

	b := &Bot{
		Session:  dg,
		cfg:      cfg,
		pipe:     pipe,
		RunBatch: runBatch,
	}
	b.dest = &pipeline.ChannelDestination{Sender: pipe.Sender, ChannelID: cfg.SummaryChannelID}
	return b, nil
}

// Start opens the session and begins the scheduler.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.messageCreate)
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	utils.InitLogger(b.Session, b.cfg.AdminChannelID)
	utils.Info("bot", "start", "Watch mode connected.")
	b.startScheduler()
	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop closes the scheduler and session.
func (b *Bot) Stop() {
	b.stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run starts the bot and blocks until a termination signal.
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.Stop()
	return nil
}

// messageCreate handles one live message: if it came from a watched
// category channel and carries a URL, the URL goes through the same
// per-URL chain as the batch passes.
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}

	channel, err := s.State.Channel(m.ChannelID)
	if err != nil {
		channel, err = s.Channel(m.ChannelID)
		if err != nil {
			log.Printf("Could not resolve channel %s: %v", m.ChannelID, err)
			return
		}
	}
	if !b.watched(s, channel) {
		return
	}

	url := extract.FirstURL(m.Message)
	if url == "" {
		return
	}

	log.Printf("Link received in #%s from %s: %s", channel.Name, authorName(m.Message), url)
	b.runMu.Lock()
	st := b.pipe.ProcessURL(url, channel.Name, b.dest)
	b.runMu.Unlock()
	log.Printf("Processed %s: %s", url, st)
	if !st.Posted() && !st.Duplicate() {
		utils.Warn("pipeline", "process_url", fmt.Sprintf("%s: %s", url, st))
	}
}

// watched reports whether a channel is a summarization source: a text
// channel under the configured category that is not itself one of the
// bot's own source or destination channels.
func (b *Bot) watched(s *discordgo.Session, channel *discordgo.Channel) bool {
	if channel.Type != discordgo.ChannelTypeGuildText || channel.ParentID == "" {
		return false
	}
	if channel.ID == b.cfg.SummaryChannelID || channel.ID == b.cfg.ForumChannelID {
		return false
	}
	for _, id := range b.cfg.SourceChannelIDs {
		if channel.ID == id {
			return false
		}
	}

	parent, err := s.State.Channel(channel.ParentID)
	if err != nil {
		parent, err = s.Channel(channel.ParentID)
		if err != nil {
			return false
		}
	}
	return parent.Type == discordgo.ChannelTypeGuildCategory && parent.Name == b.cfg.CategoryName
}

func authorName(msg *discordgo.Message) string {
	if msg.Author == nil || msg.Author.Username == "" {
		return "Unknown"
	}
	return msg.Author.Username
}
