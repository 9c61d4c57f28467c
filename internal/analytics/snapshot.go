package analytics

import (
	"time"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// ServerInfo captures the guild-level settings recorded in a snapshot.
type ServerInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	VerificationLevel string `json:"verification_level"`
	ContentFilter     string `json:"content_filter"`
	AFKTimeout        int    `json:"afk_timeout"`
}

// ChannelRecord is one channel entry in a snapshot.
type ChannelRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Position int    `json:"position"`
	ParentID string `json:"parent_id,omitempty"`
}

// RoleRecord is one role entry in a snapshot. @everyone is excluded.
type RoleRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions int64  `json:"permissions,string"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
}

// Snapshot records a guild's settings and structure at one point in time,
// taken before a setup run so the prior state is recoverable by hand.
type Snapshot struct {
	Timestamp  time.Time       `json:"timestamp"`
	GuildID    string          `json:"guild_id"`
	ServerInfo ServerInfo      `json:"server_info"`
	Channels   []ChannelRecord `json:"channels"`
	Roles      []RoleRecord    `json:"roles"`
}

// TakeSnapshot reads the guild's current settings, channels, and roles.
func TakeSnapshot(dg discord.DiscordClient, guildID string) (*Snapshot, error) {
	guild, err := dg.Guild(guildID)
	if err != nil {
		return nil, err
	}
	channels, err := dg.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Timestamp: time.Now().UTC(),
		GuildID:   guild.ID,
		ServerInfo: ServerInfo{
			Name:              guild.Name,
			Description:       guild.Description,
			VerificationLevel: verificationLevelName(guild.VerificationLevel),
			ContentFilter:     contentFilterName(guild),
			AFKTimeout:        guild.AfkTimeout,
		},
	}

	for _, ch := range channels {
		snap.Channels = append(snap.Channels, ChannelRecord{
			ID:       ch.ID,
			Name:     ch.Name,
			Type:     discord.ChannelTypeName(ch.Type),
			Position: ch.Position,
			ParentID: ch.ParentID,
		})
	}
	for _, r := range guild.Roles {
		if r.Name == "@everyone" {
			continue
		}
		snap.Roles = append(snap.Roles, RoleRecord{
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Position:    r.Position,
			Permissions: r.Permissions,
			Hoist:       r.Hoist,
			Mentionable: r.Mentionable,
		})
	}

	return snap, nil
}
