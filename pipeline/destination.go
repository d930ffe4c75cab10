package pipeline

import (
	"errors"
	"fmt"
)

// ErrThreadCreate marks a delivery failure caused by thread creation,
// as opposed to a failed chunk send.
var ErrThreadCreate = errors.New("thread creation failed")

// MessageSender delivers text to a channel or thread, chunking as
// needed. *discord.Sender is the production implementation.
type MessageSender interface {
	Send(channelID, text string) error
	SendChunks(channelID string, chunks []string) error
}

// DailyResolver finds or creates the daily forum thread.
// *discord.ThreadResolver is the production implementation.
type DailyResolver interface {
	ThreadID() string
	Resolve(title string) (string, bool)
	Create(title, content string) (string, error)
}

// Destination is where formatted summary chunks end up: a plain
// channel, or the daily thread of a forum.
type Destination interface {
	Deliver(chunks []string) error
}

// ChannelDestination posts chunks directly to a channel.
type ChannelDestination struct {
	Sender    MessageSender
	ChannelID string
}

func (d *ChannelDestination) Deliver(chunks []string) error {
	return d.Sender.SendChunks(d.ChannelID, chunks)
}

// ForumDestination posts chunks to the daily thread, resolving it on
// first use. When no thread exists yet, the first chunk becomes the new
// thread's initial message, since the platform requires a thread to
// start with content.
type ForumDestination struct {
	Sender   MessageSender
	Resolver DailyResolver
	Title    string
}

func (d *ForumDestination) Deliver(chunks []string) error {
	if len(chunks) == 0 {
		return fmt.Errorf("nothing to deliver")
	}

	if id := d.Resolver.ThreadID(); id != "" {
		return d.Sender.SendChunks(id, chunks)
	}

	if id, ok := d.Resolver.Resolve(d.Title); ok {
		return d.Sender.SendChunks(id, chunks)
	}

	id, err := d.Resolver.Create(d.Title, chunks[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThreadCreate, err)
	}
	if len(chunks) > 1 {
		return d.Sender.SendChunks(id, chunks[1:])
	}
	return nil
}
