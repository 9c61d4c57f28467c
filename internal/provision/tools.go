// Package provision exposes the AI-driven server setup pipeline as MCP tools:
// a full setup run gated by preflight checks and confirmation, and a
// standalone preflight check.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/setup"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

// SetupTools returns all tool registrations for server provisioning.
func SetupTools(
	dg discord.DiscordClient,
	r resolve.GuildResolver,
	filter *safety.Filter,
	confirm *safety.ConfirmationTracker,
	audit *safety.AuditLogger,
	logger *slog.Logger,
) []tools.Registration {
	logger = tools.DefaultLogger(logger)
	mgr := setup.NewManager(dg, logger)
	return []tools.Registration{
		toolSetupServer(mgr, r, filter, confirm, audit, logger),
		toolPreflightCheck(dg, r, filter, audit, logger),
	}
}

func toolSetupServer(mgr *setup.Manager, r resolve.GuildResolver, filter *safety.Filter, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_setup_server"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Set up a complete Discord server from a natural-language description: categories, channels, roles, and starter content. Runs preflight checks first and supports a dry_run preview."),
		mcp.WithString("server_id",
			mcp.Required(),
			mcp.Description("Server ID or server name"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Natural-language description of the server to build"),
		),
		mcp.WithString("server_name",
			mcp.Description("Override the server name (optional)"),
		),
		mcp.WithString("server_type",
			mcp.Description("Template to use: gaming, community, education, business, creative, or general (optional, auto-detected from the description)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Preview the generated plan without making any changes"),
		),
		mcp.WithString("confirmation_token",
			mcp.Description("Token from a previous confirmation request"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		serverID := req.GetString("server_id", "")
		description := req.GetString("description", "")
		serverName := req.GetString("server_name", "")
		serverType := req.GetString("server_type", "")
		dryRun := req.GetBool("dry_run", false)
		token := req.GetString("confirmation_token", "")

		params := map[string]any{
			"server_id":   serverID,
			"description": description,
			"server_name": serverName,
			"server_type": serverType,
			"dry_run":     dryRun,
		}

		if serverID == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("server_id is required"), start), nil
		}
		if description == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("description is required"), start), nil
		}

		guildID, guildName, errResult := tools.ResolveAndFilterGuild(r, filter, audit, logger, toolName, serverID, params, start)
		if errResult != nil {
			return errResult, nil
		}
		if !resolve.ValidateGuildID(guildID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid server ID: must be a 17-20 digit Discord ID"), start), nil
		}

		setupReq := setup.SetupRequest{
			GuildID:     guildID,
			Description: description,
			ServerName:  serverName,
			ServerType:  serverType,
		}

		if dryRun {
			lines, err := mgr.Preview(setupReq)
			if err != nil {
				msg := discord.FormatAPIError(err)
				tools.LogAudit(audit, toolName, params, "error: "+msg, start)
				return tools.ErrorResult(msg), nil
			}
			tools.LogAudit(audit, toolName, params, "dry_run", start)
			return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
		}

		if confirm != nil && confirm.NeedsConfirmation(toolName) && !confirm.Confirm(token) {
			tools.LogAudit(audit, toolName, params, "confirmation_required", start)
			return tools.ConfirmPrompt(confirm, toolName, guildName,
				fmt.Sprintf("Apply a full server setup to %q", guildName)), nil
		}

		logger.Info("starting server setup", "guildID", guildID, "guild", guildName)

		outcome := mgr.EnhancedSetup(ctx, setupReq)
		result := "ok"
		if outcome.GateFailed {
			result = "preflight_failed"
		}
		tools.LogAudit(audit, toolName, params, result, start)
		return mcp.NewToolResultText(renderSetupResult(outcome)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// renderSetupResult wraps a finished run in the result banner. Gate failures
// are returned as-is: nothing ran, so there is nothing to summarize.
func renderSetupResult(outcome *setup.SetupOutcome) string {
	joined := strings.Join(outcome.Lines, "\n")
	if outcome.GateFailed {
		return joined
	}
	return fmt.Sprintf(`🚀 **AI-Powered Discord Server Setup Complete!**

**Results Summary:**
✅ Successful Operations: %d
❌ Failed Operations: %d
⚠️ Warnings: %d

**Detailed Report:**
%s

---
🎉 **Your server is ready! Check your Discord server for the new structure.**`,
		outcome.Succeeded, outcome.Failed, outcome.Warned, joined)
}

func toolPreflightCheck(dg discord.DiscordClient, r resolve.GuildResolver, filter *safety.Filter, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_preflight_check"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Check whether a Discord server is ready for an automated setup run: bot membership, permissions, and resource limits."),
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

		logger.Debug("running preflight checks", "guildID", guildID)

		checks, err := setup.RunPreflight(dg, guildID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		lines := []string{"🔍 **Pre-flight Check Results:**"}
		lines = append(lines, setup.CheckLines(checks)...)

		result := "ok"
		if setup.AnyFailed(checks) {
			lines = append(lines, "", "🔧 **Please fix the above issues before proceeding with setup.**")
			result = "checks_failed"
		}

		tools.LogAudit(audit, toolName, params, result, start)
		return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
