package setup

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// setupReason is attached to every mutating call as the audit log reason so
// automated changes are distinguishable in the guild's audit log.
const setupReason = "AI-driven server setup"

// maxMessageLen is Discord's content limit for a single message, counted in
// characters, not bytes.
const maxMessageLen = 2000

// Execute applies a Plan to a guild, best effort. Every step is attempted
// even when earlier steps fail, and each outcome is recorded in the returned
// Report. Execution stops early only when the guild itself is unreachable or
// ctx is cancelled. Re-running the same plan creates duplicate channels and
// roles; there is no reconciliation against existing resources.
func Execute(ctx context.Context, dg discord.DiscordClient, guildID string, plan *Plan) *Report {
	report := &Report{}

	if _, err := dg.Guild(guildID); err != nil {
		report.Add(StepResult{
			Kind:   StepSummary,
			Status: StatusFailed,
			Detail: "General setup error",
			Reason: discord.FormatAPIError(err),
		})
		return report
	}

	if aborted(ctx, report) {
		return report
	}
	executeSettings(dg, guildID, plan, report)

	if aborted(ctx, report) {
		return report
	}
	executeRoles(dg, guildID, plan, report)

	if aborted(ctx, report) {
		return report
	}
	categoryIDs := executeCategories(dg, guildID, plan, report)

	if aborted(ctx, report) {
		return report
	}
	executeChannels(dg, guildID, plan, categoryIDs, report)

	if aborted(ctx, report) {
		return report
	}
	executeWelcome(dg, guildID, plan, report)

	report.Add(StepResult{
		Kind:   StepSummary,
		Status: StatusInfo,
		Detail: fmt.Sprintf("🎉 Server setup completed! Created %d categories, %d channels, and %d roles.",
			report.CreatedCount(StepCategory),
			report.CreatedCount(StepChannel),
			report.CreatedCount(StepRole)),
	})

	return report
}

// aborted records a cancellation step and reports true when ctx is done.
func aborted(ctx context.Context, report *Report) bool {
	if err := ctx.Err(); err != nil {
		report.Add(StepResult{
			Kind:   StepSummary,
			Status: StatusFailed,
			Detail: "General setup error",
			Reason: err.Error(),
		})
		return true
	}
	return false
}

func executeSettings(dg discord.DiscordClient, guildID string, plan *Plan, report *Report) {
	if plan.ServerName == "" && plan.Description == "" {
		return
	}

	params := &discordgo.GuildParams{
		Name:        plan.ServerName,
		Description: plan.Description,
	}
	if _, err := dg.GuildEdit(guildID, params, discordgo.WithAuditLogReason(setupReason)); err != nil {
		report.Add(StepResult{
			Kind:   StepSettings,
			Target: plan.ServerName,
			Status: StatusFailed,
			Detail: "Failed to update server settings",
			Reason: discord.FormatAPIError(err),
		})
		return
	}
	report.Add(StepResult{
		Kind:   StepSettings,
		Target: plan.ServerName,
		Status: StatusCreated,
		Detail: "Updated server settings",
	})
}

// executeRoles creates the plan's roles in reverse order. Discord stacks new
// roles above older ones, so creating the least privileged role first leaves
// the hierarchy top-down as listed in the plan.
func executeRoles(dg discord.DiscordClient, guildID string, plan *Plan, report *Report) {
	for i := len(plan.Roles) - 1; i >= 0; i-- {
		role := plan.Roles[i]

		color := ParseColor(role.Color)
		perms := ParsePermissions(role.Permissions)
		hoist := role.Hoist
		mentionable := role.Mentionable

		params := &discordgo.RoleParams{
			Name:        role.Name,
			Color:       &color,
			Hoist:       &hoist,
			Permissions: &perms,
			Mentionable: &mentionable,
		}
		if _, err := dg.GuildRoleCreate(guildID, params, discordgo.WithAuditLogReason(setupReason)); err != nil {
			report.Add(StepResult{
				Kind:   StepRole,
				Target: role.Name,
				Status: StatusFailed,
				Detail: fmt.Sprintf("Failed to create role %s", role.Name),
				Reason: discord.FormatAPIError(err),
			})
			continue
		}
		report.Add(StepResult{
			Kind:   StepRole,
			Target: role.Name,
			Status: StatusCreated,
			Detail: fmt.Sprintf("Created role: %s", role.Name),
		})
	}
}

// executeCategories creates the plan's categories and returns a name-to-ID
// map for parenting channels created in the same run.
func executeCategories(dg discord.DiscordClient, guildID string, plan *Plan, report *Report) map[string]string {
	categoryIDs := make(map[string]string, len(plan.Categories))
	for _, name := range plan.Categories {
		ch, err := dg.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name: name,
			Type: discordgo.ChannelTypeGuildCategory,
		}, discordgo.WithAuditLogReason(setupReason))
		if err != nil {
			report.Add(StepResult{
				Kind:   StepCategory,
				Target: name,
				Status: StatusFailed,
				Detail: fmt.Sprintf("Failed to create category %s", name),
				Reason: discord.FormatAPIError(err),
			})
			continue
		}
		categoryIDs[name] = ch.ID
		report.Add(StepResult{
			Kind:   StepCategory,
			Target: name,
			Status: StatusCreated,
			Detail: fmt.Sprintf("Created category: %s", name),
		})
	}
	return categoryIDs
}

func executeChannels(dg discord.DiscordClient, guildID string, plan *Plan, categoryIDs map[string]string, report *Report) {
	for _, cfg := range plan.Channels {
		chType, ok := channelType(cfg.Kind)
		if !ok {
			continue
		}

		data := discordgo.GuildChannelCreateData{
			Name:             cfg.Name,
			Type:             chType,
			Topic:            cfg.Topic,
			Position:         cfg.Position,
			NSFW:             cfg.NSFW,
			RateLimitPerUser: cfg.Slowmode,
			UserLimit:        cfg.UserLimit,
		}
		if parentID, ok := categoryIDs[cfg.Category]; ok {
			data.ParentID = parentID
		}

		ch, err := dg.GuildChannelCreateComplex(guildID, data, discordgo.WithAuditLogReason(setupReason))
		if err != nil {
			report.Add(StepResult{
				Kind:   StepChannel,
				Target: cfg.Name,
				Status: StatusFailed,
				Detail: fmt.Sprintf("Failed to create channel %s", cfg.Name),
				Reason: discord.FormatAPIError(err),
			})
			continue
		}
		report.Add(StepResult{
			Kind:   StepChannel,
			Target: cfg.Name,
			Status: StatusCreated,
			Detail: fmt.Sprintf("Created %s channel: %s", cfg.Kind, cfg.Name),
		})

		if plan.RulesContent != "" && strings.Contains(strings.ToLower(cfg.Name), "rules") {
			if _, err := dg.ChannelMessageSend(ch.ID, truncateMessage(plan.RulesContent)); err != nil {
				report.Add(StepResult{
					Kind:   StepMessage,
					Target: cfg.Name,
					Status: StatusWarned,
					Detail: fmt.Sprintf("Created %s but couldn't add content", cfg.Name),
					Reason: discord.FormatAPIError(err),
				})
			} else {
				report.Add(StepResult{
					Kind:   StepMessage,
					Target: cfg.Name,
					Status: StatusCreated,
					Detail: fmt.Sprintf("Added rules content to %s", cfg.Name),
				})
			}
		}
	}
}

// executeWelcome posts the welcome message to the first text channel whose
// name contains "general", looked up fresh so channels created this run are
// included.
func executeWelcome(dg discord.DiscordClient, guildID string, plan *Plan, report *Report) {
	if plan.WelcomeMessage == "" {
		return
	}

	channels, err := dg.GuildChannels(guildID)
	if err != nil {
		report.Add(StepResult{
			Kind:   StepMessage,
			Target: "general",
			Status: StatusWarned,
			Detail: "Failed to send welcome message",
			Reason: discord.FormatAPIError(err),
		})
		return
	}

	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		if !strings.Contains(strings.ToLower(ch.Name), "general") {
			continue
		}
		if _, err := dg.ChannelMessageSend(ch.ID, truncateMessage(plan.WelcomeMessage)); err != nil {
			report.Add(StepResult{
				Kind:   StepMessage,
				Target: ch.Name,
				Status: StatusWarned,
				Detail: "Failed to send welcome message",
				Reason: discord.FormatAPIError(err),
			})
		} else {
			report.Add(StepResult{
				Kind:   StepMessage,
				Target: ch.Name,
				Status: StatusCreated,
				Detail: "Sent welcome message to general channel",
			})
		}
		return
	}
}

func channelType(kind ChannelKind) (discordgo.ChannelType, bool) {
	switch kind {
	case KindText:
		return discordgo.ChannelTypeGuildText, true
	case KindVoice:
		return discordgo.ChannelTypeGuildVoice, true
	case KindStage:
		return discordgo.ChannelTypeGuildStageVoice, true
	case KindForum:
		return discordgo.ChannelTypeGuildForum, true
	case KindAnnouncement:
		return discordgo.ChannelTypeGuildNews, true
	default:
		return 0, false
	}
}

// truncateMessage clips text to Discord's message limit. The limit is in
// characters, and the generated prose carries emoji and interpolated server
// names, so the cut has to land on a rune boundary.
func truncateMessage(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLen-3]) + "..."
}
