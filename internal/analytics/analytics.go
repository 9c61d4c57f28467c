// Package analytics computes guild statistics, health scores, and pre-change
// snapshots from the Discord REST API.
package analytics

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// memberPageSize is Discord's maximum page size for the guild members
// endpoint.
const memberPageSize = 1000

// ChannelStats breaks a guild's channels down by type.
type ChannelStats struct {
	Total      int            `json:"total"`
	Text       int            `json:"text"`
	Voice      int            `json:"voice"`
	Categories int            `json:"categories"`
	ByType     map[string]int `json:"by_type"`
}

// RoleStats summarizes a guild's roles, excluding @everyone.
type RoleStats struct {
	Total       int `json:"total"`
	Hoisted     int `json:"hoisted"`
	Mentionable int `json:"mentionable"`
}

// MemberStats summarizes the guild member list.
type MemberStats struct {
	Total       int `json:"total"`
	Humans      int `json:"humans"`
	Bots        int `json:"bots"`
	RecentJoins int `json:"recent_joins"`
}

// Overview is the full analytics payload for one guild.
type Overview struct {
	GuildID     string       `json:"guild_id"`
	Name        string       `json:"name"`
	MemberCount int          `json:"member_count"`
	BoostLevel  int          `json:"boost_level"`
	BoostCount  int          `json:"boost_count"`
	Channels    ChannelStats `json:"channels"`
	Roles       RoleStats    `json:"roles"`
	Members     MemberStats  `json:"members"`
	HealthScore int          `json:"health_score"`
}

// Collect gathers guild, channel, and member data concurrently and folds it
// into an Overview. Member listing paginates through the full member list,
// checking ctx between pages.
func Collect(ctx context.Context, dg discord.DiscordClient, guildID string) (*Overview, error) {
	var (
		guild    *discordgo.Guild
		channels []*discordgo.Channel
		members  []*discordgo.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		guild, err = dg.GuildWithCounts(guildID)
		return err
	})
	g.Go(func() error {
		var err error
		channels, err = dg.GuildChannels(guildID)
		return err
	})
	g.Go(func() error {
		after := ""
		for {
			batch, err := dg.GuildMembers(guildID, after, memberPageSize)
			if err != nil {
				return err
			}
			members = append(members, batch...)
			if len(batch) < memberPageSize {
				return nil
			}
			last := batch[len(batch)-1]
			if last.User == nil {
				return nil
			}
			after = last.User.ID
			if err := gctx.Err(); err != nil {
				return err
			}
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o := &Overview{
		GuildID:     guild.ID,
		Name:        guild.Name,
		MemberCount: memberCount(guild),
		BoostLevel:  int(guild.PremiumTier),
		BoostCount:  guild.PremiumSubscriptionCount,
		Channels:    channelStats(channels),
		Roles:       roleStats(guild.Roles),
		Members:     memberStats(members),
		HealthScore: HealthScore(guild, channels),
	}
	return o, nil
}

// HealthScore rates a guild 0-100 from its moderation settings, structure,
// and size. channels may be nil when only the guild object is available; the
// channel-derived signals then contribute nothing.
func HealthScore(g *discordgo.Guild, channels []*discordgo.Channel) int {
	score := 50

	if g.VerificationLevel != discordgo.VerificationLevelNone {
		score += 10
	}
	if g.ExplicitContentFilter != discordgo.ExplicitContentFilterDisabled {
		score += 10
	}
	if len(channels) > 5 {
		score += 10
	}
	if len(g.Roles) > 3 {
		score += 10
	}
	if g.SystemChannelID != "" {
		score += 5
	}
	if g.RulesChannelID != "" {
		score += 5
	}

	if memberCount(g) > 1000 && len(g.Roles) < 5 {
		score -= 10
	}
	if len(channels) > 50 {
		score -= 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// memberCount prefers the approximate count, which REST fetches populate,
// over the gateway-only MemberCount field.
func memberCount(g *discordgo.Guild) int {
	if g.ApproximateMemberCount > 0 {
		return g.ApproximateMemberCount
	}
	return g.MemberCount
}

func channelStats(channels []*discordgo.Channel) ChannelStats {
	stats := ChannelStats{
		Total:  len(channels),
		ByType: make(map[string]int),
	}
	for _, ch := range channels {
		name := discord.ChannelTypeName(ch.Type)
		stats.ByType[name]++
		switch ch.Type {
		case discordgo.ChannelTypeGuildText:
			stats.Text++
		case discordgo.ChannelTypeGuildVoice:
			stats.Voice++
		case discordgo.ChannelTypeGuildCategory:
			stats.Categories++
		}
	}
	return stats
}

func roleStats(roles []*discordgo.Role) RoleStats {
	var stats RoleStats
	for _, r := range roles {
		if r.Name == "@everyone" {
			continue
		}
		stats.Total++
		if r.Hoist {
			stats.Hoisted++
		}
		if r.Mentionable {
			stats.Mentionable++
		}
	}
	return stats
}

func memberStats(members []*discordgo.Member) MemberStats {
	stats := MemberStats{Total: len(members)}
	cutoff := time.Now().AddDate(0, 0, -7)
	for _, m := range members {
		if m.User != nil && m.User.Bot {
			stats.Bots++
		}
		if !m.JoinedAt.IsZero() && m.JoinedAt.After(cutoff) {
			stats.RecentJoins++
		}
	}
	stats.Humans = stats.Total - stats.Bots
	return stats
}

func verificationLevelName(v discordgo.VerificationLevel) string {
	switch v {
	case discordgo.VerificationLevelNone:
		return "none"
	case discordgo.VerificationLevelLow:
		return "low"
	case discordgo.VerificationLevelMedium:
		return "medium"
	case discordgo.VerificationLevelHigh:
		return "high"
	case discordgo.VerificationLevelVeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

func contentFilterName(g *discordgo.Guild) string {
	switch g.ExplicitContentFilter {
	case discordgo.ExplicitContentFilterDisabled:
		return "disabled"
	case discordgo.ExplicitContentFilterMembersWithoutRoles:
		return "members_without_roles"
	case discordgo.ExplicitContentFilterAllMembers:
		return "all_members"
	default:
		return "unknown"
	}
}
