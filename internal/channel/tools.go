// Package channel provides the MCP tool handler for Discord channel listings.
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

// ChannelTools returns all tool registrations for channel listings.
func ChannelTools(
	dg discord.DiscordClient,
	r resolve.GuildResolver,
	defaultGuildID string,
	filter *safety.Filter,
	audit *safety.AuditLogger,
	logger *slog.Logger,
) []tools.Registration {
	logger = tools.DefaultLogger(logger)
	return []tools.Registration{
		toolGetChannels(dg, r, defaultGuildID, filter, audit, logger),
	}
}

func toolGetChannels(dg discord.DiscordClient, r resolve.GuildResolver, defaultGuildID string, filter *safety.Filter, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_get_channels"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List a Discord server's channels organized by category."),
		mcp.WithString("server_id",
			mcp.Description("Server ID or server name (optional, uses the default server if omitted)"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		serverID := req.GetString("server_id", "")
		if serverID == "" {
			serverID = defaultGuildID
		}
		params := map[string]any{"server_id": serverID}

		if serverID == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("server_id is required (no default server configured)"), start), nil
		}

		guildID, guildName, errResult := tools.ResolveAndFilterGuild(r, filter, audit, logger, toolName, serverID, params, start)
		if errResult != nil {
			return errResult, nil
		}
		if !resolve.ValidateGuildID(guildID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid server ID: must be a 17-20 digit Discord ID"), start), nil
		}

		logger.Debug("listing channels", "guildID", guildID)

		channels, err := dg.GuildChannels(guildID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		tools.LogAudit(audit, toolName, params, fmt.Sprintf("ok: %d channels", len(channels)), start)
		return mcp.NewToolResultText(renderChannelList(guildName, channels)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

type categoryGroup struct {
	id       string
	name     string
	children []*discordgo.Channel
}

// renderChannelList groups channels under their categories, ordered by
// position. Categories with no channels are omitted; channels without a
// known parent land in the Uncategorized section.
func renderChannelList(guildName string, channels []*discordgo.Channel) string {
	sorted := make([]*discordgo.Channel, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var groups []*categoryGroup
	byID := make(map[string]*categoryGroup)
	for _, ch := range sorted {
		if ch.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}
		g := &categoryGroup{id: ch.ID, name: ch.Name}
		groups = append(groups, g)
		byID[ch.ID] = g
	}

	var uncategorized []*discordgo.Channel
	for _, ch := range sorted {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			continue
		}
		if g, ok := byID[ch.ParentID]; ok {
			g.children = append(g.children, ch)
		} else {
			uncategorized = append(uncategorized, ch)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Channels in %s:**\n\n", guildName)

	for _, g := range groups {
		if len(g.children) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**📁 %s** (ID: %s)\n", g.name, g.id)
		for _, ch := range g.children {
			writeChannelLine(&b, ch)
		}
		b.WriteString("\n")
	}

	if len(uncategorized) > 0 {
		b.WriteString("**📋 Uncategorized:**\n")
		for _, ch := range uncategorized {
			writeChannelLine(&b, ch)
		}
	}

	return b.String()
}

func writeChannelLine(b *strings.Builder, ch *discordgo.Channel) {
	fmt.Fprintf(b, "  %s %s (ID: %s) - %s\n", channelEmoji(ch.Type), ch.Name, ch.ID, discord.ChannelTypeName(ch.Type))
}

func channelEmoji(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildVoice:
		return "🔊"
	case discordgo.ChannelTypeGuildStageVoice:
		return "🎤"
	case discordgo.ChannelTypeGuildNews:
		return "📢"
	case discordgo.ChannelTypeGuildForum:
		return "💭"
	default:
		return "💬"
	}
}
