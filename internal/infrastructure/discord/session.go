package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a bot session. It is not opened; callers attach their
// handlers first and then call Open.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	return s, nil
}
