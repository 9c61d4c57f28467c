// Package user provides MCP tool handlers for Discord user lookups.
package user

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

// UserSummary is the response shape returned by discord_get_user.
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Bot        bool   `json:"bot"`
	CreatedAt  string `json:"created_at,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// UserTools returns all tool registrations for user lookups.
func UserTools(
	dg discord.DiscordClient,
	audit *safety.AuditLogger,
	logger *slog.Logger,
) []tools.Registration {
	logger = tools.DefaultLogger(logger)
	return []tools.Registration{
		toolGetUser(dg, audit, logger),
	}
}

func toolGetUser(dg discord.DiscordClient, audit *safety.AuditLogger, logger *slog.Logger) tools.Registration {
	const toolName = "discord_get_user"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Retrieve information about a Discord user by their ID."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Discord user ID"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		userID := req.GetString("user_id", "")
		params := map[string]any{"user_id": userID}

		if userID == "" {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("user_id is required"), start), nil
		}
		if !resolve.ValidateUserID(userID) {
			return tools.AuditErrorResult(audit, toolName, params, errors.New("invalid user ID: must be a 17-20 digit Discord ID"), start), nil
		}

		logger.Debug("fetching user info", "userID", userID)

		u, err := dg.User(userID)
		if err != nil {
			msg := discord.FormatAPIError(err)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		summary := UserSummary{
			ID:         u.ID,
			Username:   u.Username,
			GlobalName: u.GlobalName,
			Bot:        u.Bot,
			AvatarURL:  u.AvatarURL(""),
		}
		if created, err := discordgo.SnowflakeTimestamp(u.ID); err == nil {
			summary.CreatedAt = created.UTC().Format("2006-01-02 15:04:05")
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(summary), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
