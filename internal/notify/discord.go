package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Discord sends messages to Discord channels. Only the REST API is
// used; no gateway connection is opened.
type Discord struct {
	session *discordgo.Session
}

// NewDiscord creates a Discord notifier with the shared bot token.
func NewDiscord(token string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &Discord{session: session}, nil
}

// Kind returns the transport identifier.
func (d *Discord) Kind() Kind {
	return KindDiscord
}

// Send delivers text to the given channel ID.
func (d *Discord) Send(ctx context.Context, channelID, text string) error {
	_, err := d.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}
