package bot

import "github.com/bwmarrin/discordgo"

const (
	setupCommandName = "setup"
	roleOptionName   = "role"
)

// Commands returns the application commands the bot registers globally.
func Commands() []*discordgo.ApplicationCommand {
	manageRoles := int64(discordgo.PermissionManageRoles)
	dm := false
	return []*discordgo.ApplicationCommand{
		{
			Name:                     setupCommandName,
			Description:              "Post the verify button in this channel and set the role it grants",
			DefaultMemberPermissions: &manageRoles,
			DMPermission:             &dm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        roleOptionName,
					Description: "role",
					Required:    true,
				},
			},
		},
	}
}
