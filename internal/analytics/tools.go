package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

// AnalyticsTools returns all tool registrations for server analytics and
// health monitoring.
func AnalyticsTools(
	dg discord.DiscordClient,
	r resolve.GuildResolver,
	filter *safety.Filter,
	audit *safety.AuditLogger,
	logger *slog.Logger,
) []tools.Registration {
	logger = tools.DefaultLogger(logger)
	return []tools.Registration{
		toolServerAnalytics(dg, r, filter, audit, logger),
		toolServerHealth(dg, r, filter, audit, logger),
	}
}

func toolServerAnalytics(dg discord.DiscordClient, r resolve.GuildResolver, filter *safety.Filter, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_server_analytics"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get analytics for a Discord server: member, channel, and role statistics plus a 0-100 health score."),
		mcp.WithString("server_id",
			mcp.Required(),
			mcp.Description("Server ID or server name"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		serverID := req.GetString("server_id", "")
		params := map[string]any{"server_id": serverID}

		if serverID == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("server_id is required"), start), nil
		}

		guildID, _, errResult := tools.ResolveAndFilterGuild(r, filter, audit, logger, toolName, serverID, params, start)
		if errResult != nil {
			return errResult, nil
		}
		if !resolve.ValidateGuildID(guildID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid server ID: must be a 17-20 digit Discord ID"), start), nil
		}

		logger.Debug("collecting server analytics", "guildID", guildID)

		overview, err := Collect(ctx, dg, guildID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(RenderAnalytics(overview)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolServerHealth(dg discord.DiscordClient, r resolve.GuildResolver, filter *safety.Filter, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_server_health"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Check a Discord server's health: verification and content-filter settings, structure counts, and an overall 0-100 score."),
		mcp.WithString("server_id",
			mcp.Required(),
			mcp.Description("Server ID or server name"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		serverID := req.GetString("server_id", "")
		params := map[string]any{"server_id": serverID}

		if serverID == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("server_id is required"), start), nil
		}

		guildID, _, errResult := tools.ResolveAndFilterGuild(r, filter, audit, logger, toolName, serverID, params, start)
		if errResult != nil {
			return errResult, nil
		}
		if !resolve.ValidateGuildID(guildID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid server ID: must be a 17-20 digit Discord ID"), start), nil
		}

		logger.Debug("checking server health", "guildID", guildID)

		health, err := CollectHealth(dg, guildID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(RenderHealth(health)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
