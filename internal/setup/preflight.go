package setup

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// CheckStatus classifies a preflight check outcome.
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckFail
	CheckWarn
	CheckInfo
)

// CheckResult is one preflight finding. Only CheckFail blocks a setup run;
// warnings and infos are advisory.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Detail string
}

// Line renders the check as a single report line with a status glyph.
func (c CheckResult) Line() string {
	switch c.Status {
	case CheckPass:
		return "✅ " + c.Detail
	case CheckFail:
		return "❌ " + c.Detail
	case CheckWarn:
		return "⚠️ " + c.Detail
	default:
		return "ℹ️ " + c.Detail
	}
}

// AnyFailed reports whether any check failed.
func AnyFailed(checks []CheckResult) bool {
	for _, c := range checks {
		if c.Status == CheckFail {
			return true
		}
	}
	return false
}

// CheckLines renders every check in order.
func CheckLines(checks []CheckResult) []string {
	lines := make([]string, 0, len(checks))
	for _, c := range checks {
		lines = append(lines, c.Line())
	}
	return lines
}

// requiredPermissions are the permissions a setup run needs, with the bit
// each name maps to. Listed in report order.
var requiredPermissions = []struct {
	name string
	bit  int64
}{
	{"manage_guild", discordgo.PermissionManageGuild},
	{"manage_channels", discordgo.PermissionManageChannels},
	{"manage_roles", discordgo.PermissionManageRoles},
	{"send_messages", discordgo.PermissionSendMessages},
	{"view_channel", discordgo.PermissionViewChannel},
	{"create_instant_invite", discordgo.PermissionCreateInstantInvite},
}

// RunPreflight verifies a guild is ready for a setup run: the bot is a
// member, holds the required permissions, and the guild has headroom under
// Discord's channel and role limits. It returns an error only when the checks
// themselves cannot run; a failed check is a result, not an error.
func RunPreflight(dg discord.DiscordClient, guildID string) ([]CheckResult, error) {
	guild, err := dg.Guild(guildID)
	if err != nil {
		return nil, err
	}

	bot, err := dg.User("@me")
	if err != nil {
		return nil, err
	}

	var checks []CheckResult

	member, err := dg.GuildMember(guildID, bot.ID)
	if err != nil {
		if discord.IsNotFound(err) {
			checks = append(checks, CheckResult{
				Name:   "membership",
				Status: CheckFail,
				Detail: "Bot is not a member of this server",
			})
			return checks, nil
		}
		return nil, err
	}

	roles, err := dg.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	channels, err := dg.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}

	perms := memberPermissions(guildID, member, roles)
	var missing []string
	if perms&discordgo.PermissionAdministrator == 0 {
		for _, req := range requiredPermissions {
			if perms&req.bit == 0 {
				missing = append(missing, req.name)
			}
		}
	}
	if len(missing) > 0 {
		checks = append(checks, CheckResult{
			Name:   "permissions",
			Status: CheckFail,
			Detail: "Missing permissions: " + strings.Join(missing, ", "),
		})
	} else {
		checks = append(checks, CheckResult{
			Name:   "permissions",
			Status: CheckPass,
			Detail: "Bot has sufficient permissions",
		})
	}

	if len(channels) > 450 {
		checks = append(checks, CheckResult{
			Name:   "channels",
			Status: CheckWarn,
			Detail: "Server has many channels - may hit Discord limits",
		})
	} else {
		checks = append(checks, CheckResult{
			Name:   "channels",
			Status: CheckPass,
			Detail: fmt.Sprintf("Channel count OK (%d/500)", len(channels)),
		})
	}

	if len(roles) > 200 {
		checks = append(checks, CheckResult{
			Name:   "roles",
			Status: CheckWarn,
			Detail: "Server has many roles - may hit Discord limits",
		})
	} else {
		checks = append(checks, CheckResult{
			Name:   "roles",
			Status: CheckPass,
			Detail: fmt.Sprintf("Role count OK (%d/250)", len(roles)),
		})
	}

	if isCommunityGuild(guild) {
		checks = append(checks, CheckResult{
			Name:   "community",
			Status: CheckPass,
			Detail: "Community server - advanced features available",
		})
	} else {
		checks = append(checks, CheckResult{
			Name:   "community",
			Status: CheckInfo,
			Detail: "Not a community server - some features unavailable",
		})
	}

	return checks, nil
}

// memberPermissions folds the guild-wide permissions of a member: the
// @everyone role (whose ID equals the guild ID) plus every role the member
// holds.
func memberPermissions(guildID string, member *discordgo.Member, roles []*discordgo.Role) int64 {
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}

	var perms int64
	if everyone, ok := byID[guildID]; ok {
		perms |= everyone.Permissions
	}
	for _, id := range member.Roles {
		if r, ok := byID[id]; ok {
			perms |= r.Permissions
		}
	}
	return perms
}

func isCommunityGuild(g *discordgo.Guild) bool {
	for _, f := range g.Features {
		if string(f) == "COMMUNITY" {
			return true
		}
	}
	return false
}
