package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"summary-bot/bot"
	"summary-bot/config"
	"summary-bot/dedup"
	"summary-bot/discord"
	"summary-bot/history"
	"summary-bot/pipeline"
	"summary-bot/summarize"
)

var rootCmd = &cobra.Command{
	Use:   "summarybot",
	Short: "Discord link-summarizer bot",
	Long:  "Scans Discord channels for links, summarizes them with Gemini, and posts the summaries to a channel or a daily forum thread.",
}

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "One batch pass: source channels into the summary channel",
	RunE:  runChannel,
}

var forumCmd = &cobra.Command{
	Use:   "forum",
	Short: "One batch pass: category channels into the daily forum thread",
	RunE:  runForum,
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "One batch pass: summarize the source-language channel into the target channel",
	RunE:  runTranslate,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run continuously: live gateway events plus a scheduled forum pass",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(channelCmd, forumCmd, translateCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates the base configuration shared by every
// mode.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireSummarizer(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openHistory opens the optional sqlite run log. Failure is downgraded
// to a warning; the run history is an observability aid, not a
// correctness dependency.
func openHistory(cfg *config.Config) *history.Store {
	if cfg.HistoryDBPath == "" {
		return nil
	}
	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Printf("Warning: run history disabled: %v", err)
		return nil
	}
	return store
}

// buildPipeline assembles the shared pieces of a batch pass: the REST
// client, the sender, the summarizer collaborators and the duplicate
// detector with the given live-scan strategy.
func buildPipeline(cfg *config.Config, client *discord.Client, scan func(string) bool) *pipeline.Pipeline {
	scraper := summarize.NewWebScraper()
	gemini := summarize.NewGeminiClient(cfg.GoogleAPIKey, cfg.GeminiModel, cfg.GeminiVideoModel)

	return &pipeline.Pipeline{
		API:    client,
		Sender: discord.NewSender(client),
		Detector: &dedup.Detector{
			Record: dedup.LoadRecord(cfg.ProcessedURLsFile),
			Scan:   scan,
		},
		Col: pipeline.Collaborators{
			Scrape:         scraper.Scrape,
			Generate:       gemini.Generate,
			SummarizeVideo: gemini.SummarizeVideo,
		},
		ExcludedDomains: cfg.ExcludedDomains,
	}
}

func runChannel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireChannel(); err != nil {
		return err
	}

	client := discord.NewClient(cfg.Token)
	scanner := &dedup.LiveScanner{
		API:          client,
		GuildID:      cfg.GuildID,
		MessageLimit: cfg.SummaryCheckLimit,
	}
	pipe := buildPipeline(cfg, client, func(url string) bool {
		return scanner.SeenInChannel(cfg.SummaryChannelID, url)
	})
	pipe.History = openHistory(cfg)
	if pipe.History != nil {
		defer pipe.History.Close()
	}

	posted, err := pipe.RunChannels(cfg)
	if err != nil {
		return err
	}
	log.Printf("Channel pass finished: %d summaries posted.", posted)
	return nil
}

func runForum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireForum(); err != nil {
		return err
	}

	client := discord.NewClient(cfg.Token)
	posted, err := forumPass(cfg, client)
	if err != nil {
		return err
	}
	log.Printf("Forum pass finished: %d summaries posted.", posted)
	return nil
}

// forumPass runs one forum batch pass with fresh per-run state. Watch
// mode calls it on every scheduler tick.
func forumPass(cfg *config.Config, client *discord.Client) (int, error) {
	scanner := &dedup.LiveScanner{
		API:          client,
		GuildID:      cfg.GuildID,
		ThreadLimit:  cfg.ForumSearchThreadLimit,
		MessageLimit: cfg.SummaryCheckLimit,
	}
	pipe := buildPipeline(cfg, client, func(url string) bool {
		return scanner.SeenInForum(cfg.ForumChannelID, url)
	})
	pipe.History = openHistory(cfg)
	if pipe.History != nil {
		defer pipe.History.Close()
	}

	resolver := &discord.ThreadResolver{
		Client:       client,
		GuildID:      cfg.GuildID,
		ForumID:      cfg.ForumChannelID,
		MessageProbe: cfg.ForumThreadCheckLimit * 2,
		ArchiveProbe: cfg.ForumThreadCheckLimit,
	}
	return pipe.RunForum(cfg, resolver)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := discord.NewClient(cfg.Token)
	// The translate pass relies on the persisted record alone; its
	// target channel holds mixed-language content a substring scan
	// would match too loosely.
	pipe := buildPipeline(cfg, client, nil)
	pipe.History = openHistory(cfg)
	if pipe.History != nil {
		defer pipe.History.Close()
	}

	posted, err := pipe.RunTranslate(cfg)
	if err != nil {
		return err
	}
	log.Printf("Translate pass finished: %d summaries posted.", posted)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireForum(); err != nil {
		return err
	}
	if cfg.SummaryChannelID == "" {
		return fmt.Errorf("SUMMARY_CHANNEL_ID environment variable not set")
	}

	client := discord.NewClient(cfg.Token)
	scanner := &dedup.LiveScanner{
		API:          client,
		GuildID:      cfg.GuildID,
		MessageLimit: cfg.SummaryCheckLimit,
	}
	pipe := buildPipeline(cfg, client, func(url string) bool {
		return scanner.SeenInChannel(cfg.SummaryChannelID, url)
	})
	pipe.History = openHistory(cfg)
	if pipe.History != nil {
		defer pipe.History.Close()
	}
	pipe.StartLive()

	b, err := bot.New(cfg, pipe, func() {
		// A failing batch pass must never take down the gateway session.
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Batch pass panicked: %v", r)
			}
		}()
		if posted, err := forumPass(cfg, client); err != nil {
			log.Printf("Batch pass failed: %v", err)
		} else {
			log.Printf("Batch pass finished: %d summaries posted.", posted)
		}
	})
	if err != nil {
		return err
	}
	return b.Run()
}
