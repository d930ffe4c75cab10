package discord

import (
	"fmt"
	"log"
	"time"
)

// chunkDelay paces consecutive chunk sends to stay clear of the
// platform's per-channel rate limits.
const chunkDelay = 500 * time.Millisecond

// Sender delivers arbitrarily long text to a channel or thread as an
// ordered sequence of messages under the platform limit.
type Sender struct {
	Client *Client
	Limit  int

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// NewSender creates a sender with the platform's default limit.
func NewSender(client *Client) *Sender {
	return &Sender{Client: client, Limit: MaxMessageLength}
}

func (s *Sender) pace() {
	if s.Sleep != nil {
		s.Sleep(chunkDelay)
		return
	}
	time.Sleep(chunkDelay)
}

// Send splits text as needed and posts the chunks in order. A failed
// chunk aborts the remainder; the caller must treat a partially sent
// message as a total failure for duplicate-tracking purposes.
func (s *Sender) Send(channelID, text string) error {
	return s.SendChunks(channelID, SplitMessage(text, s.limit()))
}

// SendChunks posts pre-split chunks in order with inter-message pacing.
func (s *Sender) SendChunks(channelID string, chunks []string) error {
	for i, chunk := range chunks {
		if len(chunks) > 1 {
			log.Printf("Sending chunk %d/%d to %s...", i+1, len(chunks), channelID)
		}
		if _, err := s.Client.CreateMessage(channelID, chunk); err != nil {
			return fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if i < len(chunks)-1 {
			s.pace()
		}
	}
	return nil
}

func (s *Sender) limit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return MaxMessageLength
}
