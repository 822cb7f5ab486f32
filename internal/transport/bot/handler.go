package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mymai1208/AntiBot/internal/application/verification"
	"github.com/mymai1208/AntiBot/internal/domain"
)

// Discord expects an interaction response within three seconds.
const interactionTimeout = 3 * time.Second

// DefaultSetupTimeout bounds the registry write and prompt post behind /setup.
const DefaultSetupTimeout = 15 * time.Second

// Replier delivers bot output back to the platform.
type Replier interface {
	ReplyEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
	DeferEphemeral(ctx context.Context, i *discordgo.Interaction) error
	FollowupEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
	PostVerifyPrompt(ctx context.Context, channelID string) error
}

// Handler routes decoded signals to the verification flow.
type Handler struct {
	svc                verification.Service
	replier            Replier
	interactionTimeout time.Duration
	setupTimeout       time.Duration
}

// NewHandler wires the handler. A non-positive setupTimeout uses DefaultSetupTimeout.
func NewHandler(svc verification.Service, replier Replier, setupTimeout time.Duration) *Handler {
	if setupTimeout <= 0 {
		setupTimeout = DefaultSetupTimeout
	}
	return &Handler{svc: svc, replier: replier, interactionTimeout: interactionTimeout, setupTimeout: setupTimeout}
}

// Dispatch handles one signal. Ignored signals return nil.
func (h *Handler) Dispatch(ctx context.Context, sig Signal) error {
	switch s := sig.(type) {
	case ComponentSignal:
		return h.startVerification(ctx, s)
	case SetupSignal:
		return h.setup(ctx, s)
	case OtherSignal:
		return nil
	default:
		return fmt.Errorf("unhandled signal %T", sig)
	}
}

func (h *Handler) startVerification(ctx context.Context, s ComponentSignal) error {
	if s.CustomID != domain.VerifyCustomID {
		return nil
	}
	link, err := h.svc.Start(ctx, s.CommunityID, s.MemberID)
	if err != nil {
		_ = h.replier.ReplyEphemeral(ctx, s.Interaction, "Could not start verification. Please try again.")
		return fmt.Errorf("start verification: %w", err)
	}
	return h.replier.ReplyEphemeral(ctx, s.Interaction, link)
}

// setup stores the configuration before posting the button so a failed write
// never leaves a prompt whose completions cannot succeed. The interaction is
// deferred first; the write and the prompt run on their own setupTimeout budget
// and the outcome arrives as a follow-up.
func (h *Handler) setup(ctx context.Context, s SetupSignal) error {
	if err := h.replier.DeferEphemeral(ctx, s.Interaction); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.setupTimeout)
	defer cancel()

	if err := h.svc.Setup(sctx, s.CommunityID, s.RoleID); err != nil {
		_ = h.followup(ctx, s.Interaction, "Failed to save the configuration.")
		return fmt.Errorf("setup: %w", err)
	}
	if err := h.replier.PostVerifyPrompt(sctx, s.ChannelID); err != nil {
		_ = h.followup(ctx, s.Interaction, "Configuration saved, but the verify button could not be posted here.")
		return err
	}
	return h.followup(ctx, s.Interaction, fmt.Sprintf("Verified members will receive <@&%s>.", s.RoleID))
}

// followup sends a deferred reply on a fresh budget, independent of whatever
// deadline the caller's context already spent.
func (h *Handler) followup(ctx context.Context, i *discordgo.Interaction, content string) error {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.interactionTimeout)
	defer cancel()
	return h.replier.FollowupEphemeral(fctx, i, content)
}

// OnInteraction is the discordgo event handler for InteractionCreate.
func (h *Handler) OnInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), h.interactionTimeout)
	defer cancel()
	if err := h.Dispatch(ctx, Decode(ic.Interaction)); err != nil {
		level := slog.LevelError
		if errors.Is(err, domain.ErrBadRequest) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "interaction failed", "interaction_id", ic.ID, "guild_id", ic.GuildID, "err", err)
	}
}

// OnReady registers the slash commands globally once the gateway is up.
func OnReady(s *discordgo.Session, r *discordgo.Ready) {
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", Commands()); err != nil {
		slog.Error("register commands", "err", err)
		return
	}
	slog.Info("bot ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

// Attach registers the bot's event handlers on session.
func Attach(session *discordgo.Session, h *Handler) {
	session.AddHandler(OnReady)
	session.AddHandler(h.OnInteraction)
}
