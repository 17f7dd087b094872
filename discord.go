package hrrembed

import (
	"fmt"
	"io"
	"time"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/kavorite/discord-snowflake"
)

// discord caps a history page at 100 messages
const pageSize = 100

// MessagePager fetches channel history. *discordgo.Session implements it.
type MessagePager interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string) ([]*dgo.Message, error)
}

// DiscordCorpus treats every non-empty message of the given channels as an
// article, newest first, one channel after another.
type DiscordCorpus struct {
	Pager    MessagePager
	Channels []string
	Since    time.Time // messages older than this end a channel
	Max      int       // per-channel message cap, 0 for none

	ch     int
	before string
	buf    []*dgo.Message
	seen   int
	done   bool
}

// NewDiscordCorpus opens a Discord session with token.
func NewDiscordCorpus(token string, channels []string) (*DiscordCorpus, error) {
	if token == "" {
		return nil, fmt.Errorf("missing discord authentication token")
	}
	client, err := dgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to open discord session: %w", err)
	}
	return &DiscordCorpus{Pager: client, Channels: channels}, nil
}

func (c *DiscordCorpus) Next() (string, error) {
	for c.ch < len(c.Channels) {
		if len(c.buf) == 0 && !c.done {
			if err := c.fetch(); err != nil {
				return "", err
			}
		}
		if len(c.buf) == 0 {
			c.advance()
			continue
		}
		msg := c.buf[0]
		c.buf = c.buf[1:]
		if !c.Since.IsZero() {
			if id, err := snowflake.Parse(msg.ID); err == nil && id.Time().Before(c.Since) {
				c.done, c.buf = true, nil
				continue
			}
		}
		if msg.Content == "" {
			continue
		}
		c.seen++
		if c.Max > 0 && c.seen >= c.Max {
			c.done, c.buf = true, nil
		}
		return msg.Content, nil
	}
	return "", io.EOF
}

func (c *DiscordCorpus) fetch() error {
	msgs, err := c.Pager.ChannelMessages(c.Channels[c.ch], pageSize, c.before, "", "")
	if err != nil {
		return fmt.Errorf("failed to page channel %s: %w", c.Channels[c.ch], err)
	}
	if len(msgs) == 0 {
		c.done = true
		return nil
	}
	c.before = msgs[len(msgs)-1].ID
	c.buf = msgs
	if len(msgs) < pageSize {
		c.done = true
	}
	return nil
}

func (c *DiscordCorpus) advance() {
	c.ch++
	c.before, c.buf, c.seen, c.done = "", nil, 0, false
}

func (c *DiscordCorpus) Reset() error {
	c.ch = 0
	c.before, c.buf, c.seen, c.done = "", nil, 0, false
	return nil
}
