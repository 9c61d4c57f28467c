// Package guild provides MCP tool handlers for Discord server information.
package guild

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

// GuildSummary is the response shape returned by discord_get_guild.
type GuildSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
	OnlineCount int    `json:"online_count"`
	BoostLevel  int    `json:"boost_level"`
	BoostCount  int    `json:"boost_count"`
}

// GuildEntry is one row in the discord_list_guilds response.
type GuildEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner bool   `json:"owner"`
	Admin bool   `json:"admin"`
}

// GuildList is the response shape returned by discord_list_guilds.
type GuildList struct {
	Total  int          `json:"total"`
	Guilds []GuildEntry `json:"guilds"`
}

// GuildTools returns all tool registrations for server information.
func GuildTools(
	dg discord.DiscordClient,
	r resolve.GuildResolver,
	defaultGuildID string,
	filter *safety.Filter,
	audit *safety.AuditLogger,
	logger *slog.Logger,
) []tools.Registration {
	logger = tools.DefaultLogger(logger)
	return []tools.Registration{
		toolGetGuild(dg, r, defaultGuildID, filter, audit, logger),
		toolListGuilds(dg, audit, logger),
	}
}

func toolGetGuild(dg discord.DiscordClient, r resolve.GuildResolver, defaultGuildID string, filter *safety.Filter, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_get_guild"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Retrieve information about a Discord server: name, owner, member counts, and boost status."),
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

		guildID, _, errResult := tools.ResolveAndFilterGuild(r, filter, audit, logger, toolName, serverID, params, start)
		if errResult != nil {
			return errResult, nil
		}
		if !resolve.ValidateGuildID(guildID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid server ID: must be a 17-20 digit Discord ID"), start), nil
		}

		logger.Debug("fetching server info", "guildID", guildID)

		g, err := dg.GuildWithCounts(guildID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		memberCount := g.MemberCount
		if g.ApproximateMemberCount > 0 {
			memberCount = g.ApproximateMemberCount
		}
		summary := GuildSummary{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			OwnerID:     g.OwnerID,
			MemberCount: memberCount,
			OnlineCount: g.ApproximatePresenceCount,
			BoostLevel:  int(g.PremiumTier),
			BoostCount:  g.PremiumSubscriptionCount,
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(summary), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolListGuilds(dg discord.DiscordClient, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_list_guilds"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List every Discord server the bot is a member of."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		params := map[string]any{}

		logger.Debug("listing servers")

		guilds, err := dg.UserGuilds(200, "", "", false)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		list := GuildList{
			Total:  len(guilds),
			Guilds: make([]GuildEntry, 0, len(guilds)),
		}
		for _, g := range guilds {
			list.Guilds = append(list.Guilds, GuildEntry{
				ID:    g.ID,
				Name:  g.Name,
				Owner: g.Owner,
				Admin: g.Permissions&discordgo.PermissionAdministrator != 0,
			})
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
