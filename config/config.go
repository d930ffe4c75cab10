package config

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default limits, matching the values the bot has been tuned with in
// production. All of them can be overridden via environment variables
// or config.yml.
const (
	DefaultMessageFetchLimit      = 20
	DefaultSummaryCheckLimit      = 2000
	DefaultForumSearchThreadLimit = 5
	DefaultForumThreadCheckLimit  = 5
	DefaultTranslateFetchLimit    = 100
	DefaultProcessedURLsFile      = "processed_urls.json"
	DefaultGeminiModel            = "gemini-2.0-flash"
	DefaultGeminiVideoModel       = "gemini-2.5-pro-exp-03-25"
	DefaultWatchCron              = "@hourly"
)

// Config holds every setting the bot reads. It is built once in main
// and passed into each component's constructor; nothing reads viper
// after Load returns.
type Config struct {
	Token   string
	GuildID string

	// Sources and destinations.
	SourceChannelIDs []string // explicit source channels (channel mode)
	SummaryChannelID string   // flat destination channel (channel + watch modes)
	ForumChannelID   string   // forum destination (forum + watch modes)
	CategoryName     string   // category whose text channels are scanned (forum + watch modes)

	// Translate mode reads and writes channels by name.
	TranslateSourceName string
	TranslateTargetName string

	// Channels that must never be treated as sources, to avoid the bot
	// feeding on its own output.
	ExcludedChannelNames []string

	// Domains whose links are skipped without summarizing.
	ExcludedDomains []string

	// Fetch and duplicate-scan windows.
	MessageFetchLimit      int
	TranslateFetchLimit    int
	SummaryCheckLimit      int // messages checked per thread/channel for duplicates
	ForumSearchThreadLimit int // distinct threads scanned for duplicates
	ForumThreadCheckLimit  int // archived threads checked when resolving the daily thread

	// Cross-run state.
	ProcessedURLsFile string
	HistoryDBPath     string // empty disables the sqlite run history

	// Summarization backend.
	GoogleAPIKey     string
	GeminiModel      string
	GeminiVideoModel string

	// Watch mode.
	WatchCron      string
	ScanAtStartup  bool
	AdminChannelID string // optional channel for operational log embeds
}

// Load reads configuration from .env, config.yml and the environment,
// in that order of increasing precedence, and validates the settings
// every mode requires. Mode-specific settings are validated by the
// mode entry points.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on the environment.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yml found, using environment variables and defaults.")
		} else {
			return nil, fmt.Errorf("failed to parse config.yml: %w", err)
		}
	}

	v.SetDefault("MESSAGE_FETCH_LIMIT", DefaultMessageFetchLimit)
	v.SetDefault("TRANSLATE_FETCH_LIMIT", DefaultTranslateFetchLimit)
	v.SetDefault("SUMMARY_CHECK_LIMIT", DefaultSummaryCheckLimit)
	v.SetDefault("FORUM_SEARCH_THREAD_LIMIT", DefaultForumSearchThreadLimit)
	v.SetDefault("FORUM_THREAD_CHECK_LIMIT", DefaultForumThreadCheckLimit)
	v.SetDefault("PROCESSED_URLS_FILE", DefaultProcessedURLsFile)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("GEMINI_VIDEO_MODEL", DefaultGeminiVideoModel)
	v.SetDefault("WATCH_CRON", DefaultWatchCron)
	v.SetDefault("TRANSLATE_SOURCE_CHANNEL", "jp")
	v.SetDefault("TRANSLATE_TARGET_CHANNEL", "en")
	v.SetDefault("EXCLUDED_CHANNEL_NAMES", []string{"jp", "paper"})
	v.SetDefault("EXCLUDED_DOMAINS", []string{"x.com"})

	cfg := &Config{
		Token:                  v.GetString("DISCORD_TOKEN"),
		GuildID:                v.GetString("GUILD_ID"),
		SourceChannelIDs:       parseIDList(v.GetString("SOURCE_CHANNEL_IDS")),
		SummaryChannelID:       v.GetString("SUMMARY_CHANNEL_ID"),
		ForumChannelID:         v.GetString("FORUM_CHANNEL_ID"),
		CategoryName:           v.GetString("BOT_CATEGORY_NAME"),
		TranslateSourceName:    v.GetString("TRANSLATE_SOURCE_CHANNEL"),
		TranslateTargetName:    v.GetString("TRANSLATE_TARGET_CHANNEL"),
		ExcludedChannelNames:   v.GetStringSlice("EXCLUDED_CHANNEL_NAMES"),
		ExcludedDomains:        v.GetStringSlice("EXCLUDED_DOMAINS"),
		MessageFetchLimit:      v.GetInt("MESSAGE_FETCH_LIMIT"),
		TranslateFetchLimit:    v.GetInt("TRANSLATE_FETCH_LIMIT"),
		SummaryCheckLimit:      v.GetInt("SUMMARY_CHECK_LIMIT"),
		ForumSearchThreadLimit: v.GetInt("FORUM_SEARCH_THREAD_LIMIT"),
		ForumThreadCheckLimit:  v.GetInt("FORUM_THREAD_CHECK_LIMIT"),
		ProcessedURLsFile:      v.GetString("PROCESSED_URLS_FILE"),
		HistoryDBPath:          v.GetString("HISTORY_DB_PATH"),
		GoogleAPIKey:           v.GetString("GOOGLE_API_KEY"),
		GeminiModel:            v.GetString("GEMINI_MODEL"),
		GeminiVideoModel:       v.GetString("GEMINI_VIDEO_MODEL"),
		WatchCron:              v.GetString("WATCH_CRON"),
		ScanAtStartup:          v.GetBool("SCAN_AT_STARTUP"),
		AdminChannelID:         v.GetString("ADMIN_CHANNEL_ID"),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable not set")
	}
	if cfg.GuildID == "" {
		return nil, fmt.Errorf("GUILD_ID environment variable not set")
	}
	return cfg, nil
}

// RequireForum validates the settings the forum pass needs.
func (c *Config) RequireForum() error {
	if c.ForumChannelID == "" {
		return fmt.Errorf("FORUM_CHANNEL_ID environment variable not set")
	}
	if c.CategoryName == "" {
		return fmt.Errorf("BOT_CATEGORY_NAME environment variable not set")
	}
	return nil
}

// RequireChannel validates the settings the channel pass needs.
func (c *Config) RequireChannel() error {
	if len(c.SourceChannelIDs) == 0 {
		return fmt.Errorf("SOURCE_CHANNEL_IDS environment variable not set")
	}
	if c.SummaryChannelID == "" {
		return fmt.Errorf("SUMMARY_CHANNEL_ID environment variable not set")
	}
	return nil
}

// RequireSummarizer validates the summarization backend settings.
func (c *Config) RequireSummarizer() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}
	return nil
}

// parseIDList accepts either a JSON array of ID strings (the format the
// deployment has always used, e.g. '["123","456"]') or a plain
// comma-separated list.
func parseIDList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			log.Printf("Invalid JSON channel ID list %q: %v", raw, err)
			return nil
		}
		return ids
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
