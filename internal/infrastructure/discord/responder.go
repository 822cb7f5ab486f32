package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mymai1208/AntiBot/internal/domain"
)

const verifyPromptText = "To join, click the button below and open the link that appears."

// Responder sends interaction replies and channel messages.
type Responder struct {
	session *discordgo.Session
}

func NewResponder(session *discordgo.Session) *Responder {
	return &Responder{session: session}
}

// ReplyEphemeral answers the interaction with a message only the invoking user can see.
func (r *Responder) ReplyEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error {
	err := r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond to interaction: %w", err)
	}
	return nil
}

// DeferEphemeral acknowledges the interaction with a private "thinking" state.
// The outcome is delivered later through FollowupEphemeral.
func (r *Responder) DeferEphemeral(ctx context.Context, i *discordgo.Interaction) error {
	err := r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("defer interaction: %w", err)
	}
	return nil
}

// FollowupEphemeral sends a private follow-up to a deferred interaction.
func (r *Responder) FollowupEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error {
	_, err := r.session.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("interaction follow-up: %w", err)
	}
	return nil
}

// PostVerifyPrompt posts the message carrying the "Verify" button into channelID.
func (r *Responder) PostVerifyPrompt(ctx context.Context, channelID string) error {
	_, err := r.session.ChannelMessageSendComplex(channelID, VerifyPrompt(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("post verify prompt: %w", err)
	}
	return nil
}

// VerifyPrompt builds the setup message with its single primary button.
func VerifyPrompt() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: verifyPromptText,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Verify",
						Style:    discordgo.PrimaryButton,
						CustomID: domain.VerifyCustomID,
					},
				},
			},
		},
	}
}
