package analytics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/analytics"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/testutil"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func analyticsRegs(mock *testutil.MockDiscordClient, filter *safety.Filter) []tools.Registration {
	return analytics.AnalyticsTools(mock, testutil.NewMockGuildResolver(), filter, nil, quietLogger())
}

func Test_AnalyticsTools_Registrations(t *testing.T) {
	t.Parallel()

	regs := analyticsRegs(&testutil.MockDiscordClient{}, safety.NewFilter(nil, nil))
	testutil.AssertRegistrations(t, regs, []string{
		"discord_server_analytics",
		"discord_server_health",
	})
}

func Test_AnalyticsTools_ParamValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		wantText string
	}{
		{
			name:     "analytics missing server_id",
			tool:     "discord_server_analytics",
			args:     map[string]any{},
			wantText: "server_id is required",
		},
		{
			name:     "analytics short numeric id",
			tool:     "discord_server_analytics",
			args:     map[string]any{"server_id": "123"},
			wantText: "invalid server ID: must be a 17-20 digit Discord ID",
		},
		{
			name:     "analytics unknown name",
			tool:     "discord_server_analytics",
			args:     map[string]any{"server_id": "Nonexistent Guild"},
			wantText: `guild "Nonexistent Guild" not found`,
		},
		{
			name:     "health missing server_id",
			tool:     "discord_server_health",
			args:     map[string]any{},
			wantText: "server_id is required",
		},
		{
			name:     "health short numeric id",
			tool:     "discord_server_health",
			args:     map[string]any{"server_id": "123"},
			wantText: "invalid server ID: must be a 17-20 digit Discord ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			regs := analyticsRegs(&testutil.MockDiscordClient{}, safety.NewFilter(nil, nil))
			handler := testutil.FindHandler(t, regs, tt.tool)

			result, err := handler(context.Background(), testutil.NewCallToolRequest(tt.tool, tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !result.IsError {
				t.Error("expected an error result")
			}
			testutil.AssertTextContains(t, result, tt.wantText)
		})
	}
}

func Test_ServerAnalytics_ResolvesByName(t *testing.T) {
	t.Parallel()

	regs := analyticsRegs(&testutil.MockDiscordClient{}, safety.NewFilter(nil, nil))
	handler := testutil.FindHandler(t, regs, "discord_server_analytics")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_server_analytics", map[string]any{
		"server_id": testutil.MockGuildName,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testutil.AssertNotError(t, result)
	testutil.AssertTextContains(t, result, "📊 **Server Analytics for Test Guild**")
	testutil.AssertTextContains(t, result, "- Health Score: 65/100")
	testutil.AssertTextContains(t, result, "- Humans: 2")
	testutil.AssertTextContains(t, result, "- Bots: 1")
}

func Test_ServerAnalytics_FilterDenied(t *testing.T) {
	t.Parallel()

	regs := analyticsRegs(&testutil.MockDiscordClient{}, safety.NewFilter([]string{testutil.MockSecondGuild}, nil))
	handler := testutil.FindHandler(t, regs, "discord_server_analytics")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_server_analytics", map[string]any{
		"server_id": testutil.MockGuildID,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testutil.AssertTextContains(t, result, `access to server "Test Guild" is not allowed`)
}

func Test_ServerAnalytics_PermissionError(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockDiscordClient{
		GuildWithCountsFunc: func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
			return nil, &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusForbidden},
			}
		},
	}
	regs := analyticsRegs(mock, safety.NewFilter(nil, nil))
	handler := testutil.FindHandler(t, regs, "discord_server_analytics")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_server_analytics", map[string]any{
		"server_id": testutil.MockGuildID,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testutil.AssertTextContains(t, result, "Permission denied. The bot lacks necessary permissions for this action.")
}

func Test_ServerHealth_RendersReport(t *testing.T) {
	t.Parallel()

	regs := analyticsRegs(&testutil.MockDiscordClient{}, safety.NewFilter(nil, nil))
	handler := testutil.FindHandler(t, regs, "discord_server_health")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_server_health", map[string]any{
		"server_id": testutil.MockGuildID,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testutil.AssertNotError(t, result)
	testutil.AssertTextContains(t, result, "🏥 **Server Health Monitor for Test Guild**")
	testutil.AssertTextContains(t, result, "**Overall Health Score: 65/100**")
	testutil.AssertTextContains(t, result, "- Verification Level: medium")
	// 65 is below the 70 threshold, so the report recommends a review.
	testutil.AssertTextContains(t, result, "⚠️ Server health needs attention.")
}

func Test_ServerHealth_APIError(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockDiscordClient{
		GuildWithCountsFunc: func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
			return nil, errors.New("boom")
		},
	}
	regs := analyticsRegs(mock, safety.NewFilter(nil, nil))
	handler := testutil.FindHandler(t, regs, "discord_server_health")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_server_health", map[string]any{
		"server_id": testutil.MockGuildID,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testutil.AssertTextContains(t, result, "error: boom")
}
