package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// pageSize is the largest batch the messages endpoint returns.
const pageSize = 100

// ChannelMessages fetches up to limit recent messages from a channel or
// thread, newest first. Limits beyond a single page are satisfied by
// paginating backward with the oldest message ID of each batch as the
// cursor, stopping early on an empty batch.
func (c *Client) ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	var all []*discordgo.Message
	before := ""

	for len(all) < limit {
		n := limit - len(all)
		if n > pageSize {
			n = pageSize
		}
		path := fmt.Sprintf("/channels/%s/messages?limit=%d", channelID, n)
		if before != "" {
			path += "&before=" + before
		}

		var batch []*discordgo.Message
		if err := c.Get(path, &batch); err != nil {
			return nil, fmt.Errorf("failed to fetch messages from channel %s: %w", channelID, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		before = batch[len(batch)-1].ID
	}
	return all, nil
}

// CreateMessage posts a single message to a channel or thread.
func (c *Client) CreateMessage(channelID, content string) (*discordgo.Message, error) {
	payload := map[string]string{"content": content}
	var msg discordgo.Message
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.Post(path, payload, &msg); err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return &msg, nil
}

// CreateThread starts a new thread in a forum channel. The platform
// requires the thread to begin with a message, so content carries its
// first message body.
func (c *Client) CreateThread(forumChannelID, name, content string, autoArchiveMinutes int) (*discordgo.Channel, error) {
	payload := map[string]any{
		"name":                  name,
		"auto_archive_duration": autoArchiveMinutes,
		"message":               map[string]string{"content": content},
	}
	var thread discordgo.Channel
	path := fmt.Sprintf("/channels/%s/threads", forumChannelID)
	if err := c.Post(path, payload, &thread); err != nil {
		return nil, fmt.Errorf("failed to create thread in channel %s: %w", forumChannelID, err)
	}
	return &thread, nil
}

// Reverse returns the messages oldest first, so that summaries are
// posted in chronological order within a fetched batch.
func Reverse(messages []*discordgo.Message) []*discordgo.Message {
	out := make([]*discordgo.Message, len(messages))
	for i, m := range messages {
		out[len(messages)-1-i] = m
	}
	return out
}
