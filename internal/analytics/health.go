package analytics

import (
	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// Health is the health-monitor payload for one guild.
type Health struct {
	GuildID           string `json:"guild_id"`
	Name              string `json:"name"`
	Score             int    `json:"score"`
	VerificationLevel string `json:"verification_level"`
	ContentFilter     string `json:"content_filter"`
	ChannelCount      int    `json:"channel_count"`
	RoleCount         int    `json:"role_count"`
	MemberCount       int    `json:"member_count"`
}

// CollectHealth fetches the guild and its channels and scores them.
func CollectHealth(dg discord.DiscordClient, guildID string) (*Health, error) {
	guild, err := dg.GuildWithCounts(guildID)
	if err != nil {
		return nil, err
	}
	channels, err := dg.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}

	return &Health{
		GuildID:           guild.ID,
		Name:              guild.Name,
		Score:             HealthScore(guild, channels),
		VerificationLevel: verificationLevelName(guild.VerificationLevel),
		ContentFilter:     contentFilterName(guild),
		ChannelCount:      len(channels),
		RoleCount:         len(guild.Roles),
		MemberCount:       memberCount(guild),
	}, nil
}
