package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// GuildChannels fetches every channel in a guild.
func (c *Client) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	var channels []*discordgo.Channel
	path := fmt.Sprintf("/guilds/%s/channels", guildID)
	if err := c.Get(path, &channels); err != nil {
		return nil, fmt.Errorf("failed to fetch channels for guild %s: %w", guildID, err)
	}
	return channels, nil
}

// ActiveGuildThreads fetches all active threads in a guild.
func (c *Client) ActiveGuildThreads(guildID string) ([]*discordgo.Channel, error) {
	var list discordgo.ThreadsList
	path := fmt.Sprintf("/guilds/%s/threads/active", guildID)
	if err := c.Get(path, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch active threads for guild %s: %w", guildID, err)
	}
	return list.Threads, nil
}

// ArchivedPublicThreads fetches up to limit recently archived public
// threads of a channel, newest first.
func (c *Client) ArchivedPublicThreads(channelID string, limit int) ([]*discordgo.Channel, error) {
	var list discordgo.ThreadsList
	path := fmt.Sprintf("/channels/%s/threads/archived/public?limit=%d", channelID, limit)
	if err := c.Get(path, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch archived threads for channel %s: %w", channelID, err)
	}
	return list.Threads, nil
}

// ChannelName fetches the display name of a channel, falling back to
// the ID when the lookup fails. Used only for summary labels.
func (c *Client) ChannelName(channelID string) string {
	var ch discordgo.Channel
	if err := c.Get("/channels/"+channelID, &ch); err != nil {
		log.Printf("Could not fetch name for channel %s: %v", channelID, err)
		return "Channel " + channelID
	}
	if ch.Name == "" {
		return "Channel " + channelID
	}
	return ch.Name
}

// FindChannelByName returns the first text or announcement channel with
// the given name, or nil.
func FindChannelByName(channels []*discordgo.Channel, name string) *discordgo.Channel {
	for _, ch := range channels {
		if ch.Name != name {
			continue
		}
		if ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews {
			return ch
		}
	}
	return nil
}

// ChannelsInCategory returns the text channels whose parent is the
// category with the given name, minus any whose names appear in
// exclude. A missing category is a configuration condition, not an
// error: it is logged and an empty slice is returned.
func ChannelsInCategory(channels []*discordgo.Channel, categoryName string, exclude []string) []*discordgo.Channel {
	var categoryID string
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == categoryName {
			categoryID = ch.ID
			break
		}
	}
	if categoryID == "" {
		log.Printf("Warning: category %q not found.", categoryName)
		return nil
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var result []*discordgo.Channel
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText || ch.ParentID != categoryID {
			continue
		}
		if excluded[ch.Name] || excluded[ch.ID] {
			log.Printf("  - Skipping excluded channel %q (%s).", ch.Name, ch.ID)
			continue
		}
		result = append(result, ch)
	}
	return result
}
