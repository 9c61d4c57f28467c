package setup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/analytics"
	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// Manager orchestrates full setup runs: preflight, plan generation, a
// pre-change snapshot, execution, and a post-run health check.
type Manager struct {
	dg     discord.DiscordClient
	logger *slog.Logger
}

func NewManager(dg discord.DiscordClient, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dg: dg, logger: logger}
}

// SetupRequest carries the parameters of one setup run. ServerName and
// ServerType are optional; an empty ServerType is auto-detected from the
// description by EnhancedSetup and Preview.
type SetupRequest struct {
	GuildID     string
	Description string
	ServerName  string
	ServerType  string
}

// SetupOutcome is the result of a setup run: the full report lines plus
// counters for the executed steps. GateFailed means preflight blocked the run
// and nothing was changed.
type SetupOutcome struct {
	Lines      []string
	Succeeded  int
	Failed     int
	Warned     int
	GateFailed bool
}

// EnhancedSetup runs preflight checks and, when they pass, a full setup. Any
// failed check blocks execution entirely.
func (m *Manager) EnhancedSetup(ctx context.Context, req SetupRequest) *SetupOutcome {
	checks, err := RunPreflight(m.dg, req.GuildID)
	if err != nil {
		return &SetupOutcome{
			Lines:  []string{"❌ Setup failed: " + discord.FormatAPIError(err)},
			Failed: 1,
		}
	}

	if AnyFailed(checks) {
		lines := []string{"🚨 **Pre-flight check failed:**"}
		lines = append(lines, CheckLines(checks)...)
		lines = append(lines, "", "🔧 **Please fix the above issues before proceeding with setup.**")
		return &SetupOutcome{Lines: lines, GateFailed: true}
	}

	req.ServerType = m.detectType(req)

	lines := []string{"🔍 **Pre-flight Check Results:**"}
	lines = append(lines, CheckLines(checks)...)
	lines = append(lines, "")

	inner := m.SetupServer(ctx, req)
	inner.Lines = append(lines, inner.Lines...)
	return inner
}

// SetupServer generates a plan from the request and applies it. The outcome
// lines narrate the whole run; the counters reflect executed steps only.
func (m *Manager) SetupServer(ctx context.Context, req SetupRequest) *SetupOutcome {
	guild, err := m.dg.Guild(req.GuildID)
	if err != nil {
		return &SetupOutcome{
			Lines:  []string{"❌ Setup failed: " + discord.FormatAPIError(err)},
			Failed: 1,
		}
	}

	lines := []string{"✅ Connected to server: " + guild.Name}

	typeStr := req.ServerType
	if typeStr == "" {
		typeStr = "general"
	}
	plan := BuildPlan(req.Description, ParseServerType(typeStr))
	if req.ServerName != "" {
		plan.ServerName = req.ServerName
	}

	planName := plan.ServerName
	if planName == "" {
		planName = guild.Name
	}
	lines = append(lines,
		fmt.Sprintf("🎯 Generated plan for '%s'", planName),
		fmt.Sprintf("📋 Template: %s", titleCase(typeStr)),
		fmt.Sprintf("📊 Planned: %d categories, %d channels, %d roles",
			len(plan.Categories), len(plan.Channels), len(plan.Roles)),
	)

	snap, err := analytics.TakeSnapshot(m.dg, req.GuildID)
	if err != nil {
		m.logger.Warn("pre-setup snapshot failed", "guildID", req.GuildID, "error", err)
		lines = append(lines, "⚠️ Backup creation failed: "+discord.FormatAPIError(err))
	} else {
		m.logger.Debug("pre-setup snapshot taken",
			"guildID", req.GuildID, "channels", len(snap.Channels), "roles", len(snap.Roles))
		lines = append(lines, "✅ Pre-setup backup created")
	}

	report := Execute(ctx, m.dg, req.GuildID, plan)
	lines = append(lines, report.Lines()...)

	score := m.healthAfterSetup(guild, req.GuildID)
	lines = append(lines, fmt.Sprintf("🏥 Server health score: %d/100", score))
	switch {
	case score >= 80:
		lines = append(lines, "🎉 Server setup completed successfully with excellent health!")
	case score >= 60:
		lines = append(lines, "✅ Server setup completed with good health.")
	default:
		lines = append(lines, "⚠️ Server setup completed but may need optimization.")
	}

	lines = append(lines, setupSummary(plan, report, score)...)

	succeeded, failed, warned := report.Counts()
	return &SetupOutcome{
		Lines:     lines,
		Succeeded: succeeded,
		Failed:    failed,
		Warned:    warned,
	}
}

// Preview builds the plan a setup run would execute and renders it without
// touching the guild.
func (m *Manager) Preview(req SetupRequest) ([]string, error) {
	guild, err := m.dg.Guild(req.GuildID)
	if err != nil {
		return nil, err
	}

	typeStr := m.detectType(req)
	plan := BuildPlan(req.Description, ParseServerType(typeStr))
	if req.ServerName != "" {
		plan.ServerName = req.ServerName
	}
	planName := plan.ServerName
	if planName == "" {
		planName = guild.Name
	}

	lines := []string{
		"🔍 **Setup Plan Preview (dry run)**",
		"",
		fmt.Sprintf("🎯 Plan for '%s'", planName),
		fmt.Sprintf("📋 Template: %s", titleCase(typeStr)),
		fmt.Sprintf("🔐 Verification level: %s", plan.VerificationLevel),
		fmt.Sprintf("📊 Planned: %d categories, %d channels, %d roles",
			len(plan.Categories), len(plan.Channels), len(plan.Roles)),
		"",
		"**Categories:**",
	}
	for _, name := range plan.Categories {
		lines = append(lines, "• "+name)
	}

	lines = append(lines, "", "**Channels:**")
	for _, ch := range plan.Channels {
		entry := fmt.Sprintf("• %s %s", kindEmoji(ch.Kind), ch.Name)
		if ch.Category != "" {
			entry += fmt.Sprintf(" (%s)", ch.Category)
		}
		lines = append(lines, entry)
	}

	lines = append(lines, "", "**Roles:**")
	for _, role := range plan.Roles {
		lines = append(lines, "• "+role.Name)
	}

	if len(plan.AutoModRules) > 0 {
		lines = append(lines, "", "**Automod rules:**")
		for _, rule := range plan.AutoModRules {
			lines = append(lines, "• "+rule.Name)
		}
	}

	if plan.WelcomeMessage != "" {
		lines = append(lines, "", "📝 Welcome message configured")
	}
	if plan.RulesContent != "" {
		lines = append(lines, "📜 Rules content generated")
	}

	lines = append(lines, "", "ℹ️ No changes were made. Run again with dry_run=false to execute this plan.")
	return lines, nil
}

// detectType resolves the request's server type, auto-detecting from the
// description when the caller left it empty or asked for general.
func (m *Manager) detectType(req SetupRequest) string {
	if req.ServerType != "" && !strings.EqualFold(req.ServerType, "general") {
		return req.ServerType
	}
	detected := DetectServerType(req.Description)
	m.logger.Info("auto-detected server type", "guildID", req.GuildID, "type", string(detected))
	return string(detected)
}

// healthAfterSetup scores the guild with fresh data, falling back to the
// pre-setup guild object when the refetch fails.
func (m *Manager) healthAfterSetup(initial *discordgo.Guild, guildID string) int {
	guild, err := m.dg.GuildWithCounts(guildID)
	if err != nil {
		m.logger.Warn("post-setup guild fetch failed", "guildID", guildID, "error", err)
		return analytics.HealthScore(initial, nil)
	}
	channels, err := m.dg.GuildChannels(guildID)
	if err != nil {
		m.logger.Warn("post-setup channel fetch failed", "guildID", guildID, "error", err)
		return analytics.HealthScore(guild, nil)
	}
	return analytics.HealthScore(guild, channels)
}

func setupSummary(plan *Plan, report *Report, score int) []string {
	succeeded, failed, warned := report.Counts()

	lines := []string{
		"",
		"📊 **Setup Summary:**",
		fmt.Sprintf("✅ Successful operations: %d", succeeded),
		fmt.Sprintf("❌ Failed operations: %d", failed),
		fmt.Sprintf("⚠️ Warnings: %d", warned),
		fmt.Sprintf("🏥 Final health score: %d/100", score),
	}

	switch {
	case score < 70:
		lines = append(lines,
			"",
			"🔧 **Recommendations:**",
			"• Review failed operations above",
			"• Check bot permissions",
			"• Consider manual adjustment of settings",
			"• Run security audit for optimization",
		)
	case score < 90:
		lines = append(lines,
			"",
			"💡 **Optimization Tips:**",
			"• Consider adding more specific channel permissions",
			"• Review automoderation settings",
			"• Add custom server branding (icon/banner)",
			"• Set up welcome messages and rules",
		)
	default:
		lines = append(lines,
			"",
			"🎯 **Next Steps:**",
			"• Invite members to your new server",
			"• Test all channels and permissions",
			"• Customize automoderation rules",
			"• Schedule events and activities",
		)
	}

	if plan.WelcomeMessage != "" {
		lines = append(lines, "📝 Welcome message configured")
	}
	if plan.RulesContent != "" {
		lines = append(lines, "📜 Rules content generated")
	}
	if len(plan.AutoModRules) > 0 {
		lines = append(lines, fmt.Sprintf("🛡️ %d automod rules configured", len(plan.AutoModRules)))
	}

	return lines
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func kindEmoji(kind ChannelKind) string {
	switch kind {
	case KindVoice:
		return "🔊"
	case KindStage:
		return "🎤"
	case KindForum:
		return "💭"
	case KindAnnouncement:
		return "📢"
	default:
		return "💬"
	}
}
