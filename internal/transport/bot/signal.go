package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/mymai1208/AntiBot/internal/domain"
)

// Signal is the closed set of interactions the bot reacts to:
// ComponentSignal, SetupSignal and OtherSignal.
type Signal interface {
	signal()
}

// ComponentSignal is a button press inside a guild.
type ComponentSignal struct {
	Interaction *discordgo.Interaction
	CustomID    string
	CommunityID domain.Snowflake
	MemberID    domain.Snowflake
}

// SetupSignal is an invocation of the setup slash command.
type SetupSignal struct {
	Interaction *discordgo.Interaction
	CommunityID domain.Snowflake
	ChannelID   string
	RoleID      domain.Snowflake
}

// OtherSignal is anything else; it is ignored.
type OtherSignal struct {
	Interaction *discordgo.Interaction
}

func (ComponentSignal) signal() {}
func (SetupSignal) signal()     {}
func (OtherSignal) signal()     {}

// Decode classifies an interaction. Interactions outside a guild, or with
// identifiers that do not parse, decode to OtherSignal.
func Decode(i *discordgo.Interaction) Signal {
	other := OtherSignal{Interaction: i}
	if i == nil || i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return other
	}
	community, err := domain.ParseSnowflake(i.GuildID)
	if err != nil {
		return other
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		member, err := domain.ParseSnowflake(i.Member.User.ID)
		if err != nil {
			return other
		}
		return ComponentSignal{
			Interaction: i,
			CustomID:    i.MessageComponentData().CustomID,
			CommunityID: community,
			MemberID:    member,
		}
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != setupCommandName {
			return other
		}
		role, ok := roleOption(data.Options)
		if !ok {
			return other
		}
		return SetupSignal{
			Interaction: i,
			CommunityID: community,
			ChannelID:   i.ChannelID,
			RoleID:      role,
		}
	}
	return other
}

func roleOption(opts []*discordgo.ApplicationCommandInteractionDataOption) (domain.Snowflake, bool) {
	for _, o := range opts {
		if o.Name != roleOptionName || o.Type != discordgo.ApplicationCommandOptionRole {
			continue
		}
		raw, ok := o.Value.(string)
		if !ok {
			return 0, false
		}
		id, err := domain.ParseSnowflake(raw)
		return id, err == nil
	}
	return 0, false
}
