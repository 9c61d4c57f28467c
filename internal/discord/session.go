// Package discord wraps a discordgo.Session with guild cache integration to
// provide a ready-to-use Discord management layer for guildsmith-mcp.
package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
)

// Session wraps a discordgo.Session and keeps the guild name cache fresh as
// the bot joins and leaves servers.
type Session struct {
	dg       *discordgo.Session
	resolver *resolve.Resolver
	logger   *slog.Logger
}

// NewFromSession wraps an existing *discordgo.Session, registering ready and
// guild lifecycle handlers and configuring the required gateway intents.
// A nil logger defaults to slog.Default().
//
// Intents enabled:
//   - IntentGuilds
func NewFromSession(dg *discordgo.Session, r *resolve.Resolver, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		dg:       dg,
		resolver: r,
		logger:   logger,
	}

	dg.Identify.Intents = discordgo.IntentGuilds

	dg.AddHandler(s.onReady)
	dg.AddHandler(s.onGuildCreate)
	dg.AddHandler(s.onGuildDelete)

	return s
}

// Open establishes the WebSocket connection to the Discord gateway.
// It must be called after NewFromSession to begin receiving events.
func (s *Session) Open() error {
	return s.dg.Open()
}

// Close gracefully closes the WebSocket connection to the Discord gateway.
// It is safe to call Close multiple times.
func (s *Session) Close() error {
	return s.dg.Close()
}

// DiscordSession returns the underlying *discordgo.Session for callers that
// need direct access to the Discord API.
func (s *Session) DiscordSession() *discordgo.Session {
	return s.dg
}

// onReady is called when the Discord gateway confirms the bot is connected.
// It logs the bot's identity and triggers an initial guild cache refresh.
func (s *Session) onReady(dg *discordgo.Session, event *discordgo.Ready) {
	s.logger.Info("discord connected",
		"username", event.User.Username,
		"discriminator", event.User.Discriminator,
	)
	if err := s.resolver.Refresh(); err != nil {
		s.logger.Warn("guild cache refresh failed", "error", err)
	}
}

// onGuildCreate fires when the bot joins a guild or a guild becomes available
// after an outage.
func (s *Session) onGuildCreate(dg *discordgo.Session, event *discordgo.GuildCreate) {
	if event.Guild == nil {
		return
	}
	s.logger.Info("guild available", "id", event.ID, "name", event.Name)
	if err := s.resolver.Refresh(); err != nil {
		s.logger.Warn("guild cache refresh failed", "error", err)
	}
}

// onGuildDelete fires when the bot is removed from a guild or a guild becomes
// unavailable.
func (s *Session) onGuildDelete(dg *discordgo.Session, event *discordgo.GuildDelete) {
	if event.Guild == nil {
		return
	}
	s.logger.Info("guild removed", "id", event.ID)
	if err := s.resolver.Refresh(); err != nil {
		s.logger.Warn("guild cache refresh failed", "error", err)
	}
}
