// Package utils carries the admin-channel logger used by watch mode.
package utils

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Level classifies an operational log event.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelColors = map[Level]int{
	LevelInfo:  0x00ff00,
	LevelWarn:  0xffff00,
	LevelError: 0xff0000,
}

var (
	session   *discordgo.Session
	channelID string
)

// InitLogger routes operational events to an admin channel. Only watch
// mode calls this; the batch modes have no session and every event
// falls back to stderr.
func InitLogger(s *discordgo.Session, adminChannelID string) {
	session = s
	channelID = adminChannelID
	if channelID == "" {
		log.Println("Warning: ADMIN_CHANNEL_ID is not set. Logging to channel will be disabled.")
	}
}

// Log sends one event as an embed to the admin channel, or to stderr
// when no channel is configured.
func Log(level Level, module, operation, details string) {
	if session == nil || channelID == "" {
		log.Printf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     string(level),
		Color:     levelColors[level],
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: details},
		},
	}
	if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

// Info logs an informational event.
func Info(module, operation, details string) {
	Log(LevelInfo, module, operation, details)
}

// Warn logs a warning event.
func Warn(module, operation, details string) {
	Log(LevelWarn, module, operation, details)
}

// Error logs an error event.
func Error(module, operation, details string) {
	Log(LevelError, module, operation, details)
}
