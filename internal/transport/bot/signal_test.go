package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/mymai1208/AntiBot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guildInteraction(typ discordgo.InteractionType, data discordgo.InteractionData) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "900",
		Type:      typ,
		GuildID:   "1",
		ChannelID: "55",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "42"}},
		Data:      data,
	}
}

func setupData(opts ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{Name: setupCommandName, Options: opts}
}

func roleOpt(v interface{}) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: roleOptionName, Type: discordgo.ApplicationCommandOptionRole, Value: v}
}

func TestDecode_Component(t *testing.T) {
	i := guildInteraction(discordgo.InteractionMessageComponent, discordgo.MessageComponentInteractionData{CustomID: "verify"})

	sig, ok := Decode(i).(ComponentSignal)
	require.True(t, ok)
	assert.Equal(t, "verify", sig.CustomID)
	assert.Equal(t, domain.Snowflake(1), sig.CommunityID)
	assert.Equal(t, domain.Snowflake(42), sig.MemberID)
	assert.Same(t, i, sig.Interaction)
}

func TestDecode_Setup(t *testing.T) {
	i := guildInteraction(discordgo.InteractionApplicationCommand, setupData(roleOpt("99")))

	sig, ok := Decode(i).(SetupSignal)
	require.True(t, ok)
	assert.Equal(t, domain.Snowflake(1), sig.CommunityID)
	assert.Equal(t, domain.Snowflake(99), sig.RoleID)
	assert.Equal(t, "55", sig.ChannelID)
}

func TestDecode_Other(t *testing.T) {
	cases := map[string]*discordgo.Interaction{
		"nil":             nil,
		"ping":            {Type: discordgo.InteractionPing},
		"direct message":  {Type: discordgo.InteractionMessageComponent, User: &discordgo.User{ID: "42"}, Data: discordgo.MessageComponentInteractionData{CustomID: "verify"}},
		"other command":   guildInteraction(discordgo.InteractionApplicationCommand, discordgo.ApplicationCommandInteractionData{Name: "help"}),
		"setup no role":   guildInteraction(discordgo.InteractionApplicationCommand, setupData()),
		"setup bad role":  guildInteraction(discordgo.InteractionApplicationCommand, setupData(roleOpt(float64(99)))),
		"autocomplete":    guildInteraction(discordgo.InteractionApplicationCommandAutocomplete, setupData(roleOpt("99"))),
		"bad guild id":    {Type: discordgo.InteractionMessageComponent, GuildID: "x", Member: &discordgo.Member{User: &discordgo.User{ID: "42"}}},
	}
	for name, i := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := Decode(i).(OtherSignal)
			assert.True(t, ok)
		})
	}
}

func TestCommands_SetupRequiresRole(t *testing.T) {
	cmds := Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, setupCommandName, cmds[0].Name)
	require.NotNil(t, cmds[0].DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionManageRoles), *cmds[0].DefaultMemberPermissions)
	require.Len(t, cmds[0].Options, 1)
	assert.Equal(t, discordgo.ApplicationCommandOptionRole, cmds[0].Options[0].Type)
	assert.True(t, cmds[0].Options[0].Required)
}
