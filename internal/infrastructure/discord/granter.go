package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mymai1208/AntiBot/internal/domain"
)

// RoleGranter adds guild roles to members through the REST API.
type RoleGranter struct {
	session *discordgo.Session
}

func NewRoleGranter(session *discordgo.Session) *RoleGranter {
	return &RoleGranter{session: session}
}

// Grant adds roleID to memberID in communityID. Failures, including ctx
// expiry, wrap domain.ErrGrantFailed.
func (g *RoleGranter) Grant(ctx context.Context, communityID, memberID, roleID domain.Snowflake) error {
	err := g.session.GuildMemberRoleAdd(communityID.String(), memberID.String(), roleID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("add role %s: %v: %w", roleID, err, domain.ErrGrantFailed)
	}
	return nil
}
