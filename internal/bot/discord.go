package bot

import (
	"context"
	"fmt"
	"time"

	"loopbot/internal/logger"
	"loopbot/internal/service"

	"github.com/bwmarrin/discordgo"
)

// QueryResponder answers a slash command with a plain-text reply.
type QueryResponder interface {
	Respond(ctx context.Context, command string) string
}

// Config carries the gateway credentials and targets. GuildID is optional:
// when set, commands register guild-scoped (instant updates for testing);
// global registration can take up to an hour to propagate.
type Config struct {
	Token     string
	ChannelID string
	GuildID   string
}

const startupAnnouncement = "🚀 Loop Discord Bot connected and ready to monitor!"

// announceTimeout bounds gateway sends made outside a request context.
const announceTimeout = 5 * time.Second

// commands is the slash-command set, one per Query Dispatcher route.
var commands = []*discordgo.ApplicationCommand{
	{Name: service.CmdGlucose, Description: "Get current blood glucose reading"},
	{Name: service.CmdStatus, Description: "Get full Loop status (BG, IOB, COB, basal)"},
	{Name: service.CmdInsulin, Description: "Get detailed insulin information"},
	{Name: service.CmdLoop, Description: "Get Loop system status and last update time"},
	{Name: service.CmdAlert, Description: "Check if there are any alerts or issues"},
}

// Bot owns the Discord session. It implements service.Notifier for the
// ingestion push path and routes interactions to the Query Dispatcher.
type Bot struct {
	session   *discordgo.Session
	channelID string
	guildID   string
	query     QueryResponder
	log       *logger.Logger
}

// New builds the session and wires event handlers; no network traffic
// happens until Start.
func New(cfg Config, query QueryResponder, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session:   session,
		channelID: cfg.ChannelID,
		guildID:   cfg.GuildID,
		query:     query,
		log:       log,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Start opens the gateway connection. Command registration and the startup
// announcement happen in the ready handler.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

// Send delivers one text message to the configured channel. A missing
// channel ID downgrades to a logged skip: the bot still answers commands,
// it just cannot push.
func (b *Bot) Send(ctx context.Context, text string) error {
	if b.channelID == "" {
		b.log.Warnw("channel_not_configured_skipping_send")
		return nil
	}
	_, err := b.session.ChannelMessageSend(b.channelID, text, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Infow("bot_logged_in", "user", r.User.Username)

	if err := b.registerCommands(); err != nil {
		b.log.Errorw("command_registration_failed", "err", err, "guild", b.guildID)
	} else {
		b.log.Infow("slash_commands_registered", "scope", b.commandScope())
	}

	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()
	if err := b.Send(ctx, startupAnnouncement); err != nil {
		b.log.Errorw("startup_announcement_failed", "err", err)
	}
}

// registerCommands bulk-overwrites the command set. An empty guild ID
// registers globally.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	_, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, commands)
	return err
}

func (b *Bot) commandScope() string {
	if b.guildID != "" {
		return "guild"
	}
	return "global"
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name

	reply := b.query.Respond(context.Background(), name)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply},
	})
	if err != nil {
		b.log.Errorw("interaction_reply_failed", "err", err, "command", name)
		return
	}
	b.log.Infow("command_answered", "command", name)
}
