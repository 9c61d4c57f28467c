package testutil

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/discord"
)

// Compile-time assertion: *MockDiscordClient satisfies discord.DiscordClient.
var _ discord.DiscordClient = (*MockDiscordClient)(nil)

// mockGuildRoles returns the default role fixture for a guild: the @everyone
// role plus a Moderator role that carries every permission the setup pipeline
// checks for.
func mockGuildRoles(guildID string) []*discordgo.Role {
	return []*discordgo.Role{
		{
			ID:   guildID,
			Name: "@everyone",
			Permissions: discordgo.PermissionViewChannel |
				discordgo.PermissionSendMessages,
			Position: 0,
		},
		{
			ID:   "role-001",
			Name: "Moderator",
			Permissions: discordgo.PermissionManageGuild |
				discordgo.PermissionManageChannels |
				discordgo.PermissionManageRoles |
				discordgo.PermissionCreateInstantInvite |
				discordgo.PermissionViewChannel |
				discordgo.PermissionSendMessages,
			Color:    0x3498db,
			Position: 1,
		},
	}
}

// MockDiscordClient implements discord.DiscordClient using configurable function
// fields. Each method delegates to its corresponding func field; when the field
// is nil the method returns a sensible default that matches the responses
// produced by NewMockDiscordSession's HTTP handlers.
type MockDiscordClient struct {
	GuildFunc                     func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildWithCountsFunc           func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildEditFunc                 func(guildID string, g *discordgo.GuildParams, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannelsFunc             func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplexFunc func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildRolesFunc                func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreateFunc           func(guildID string, roleParams *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildMemberFunc               func(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMembersFunc              func(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	ChannelMessageSendFunc        func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserFunc                      func(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	UserGuildsFunc                func(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error)

	mu  sync.Mutex
	seq int
}

// nextID returns a unique id for resources created through this mock, so a
// setup run that creates several categories or channels gets distinct IDs.
func (m *MockDiscordClient) nextID(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq)
}

func (m *MockDiscordClient) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if m.GuildFunc != nil {
		return m.GuildFunc(guildID, options...)
	}
	name := MockGuildName
	if guildID == MockSecondGuildID {
		name = MockSecondGuild
	}
	return &discordgo.Guild{
		ID:          guildID,
		Name:        name,
		MemberCount: 42,
	}, nil
}

func (m *MockDiscordClient) GuildWithCounts(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if m.GuildWithCountsFunc != nil {
		return m.GuildWithCountsFunc(guildID, options...)
	}
	name := MockGuildName
	if guildID == MockSecondGuildID {
		name = MockSecondGuild
	}
	return &discordgo.Guild{
		ID:                       guildID,
		Name:                     name,
		Description:              "A guild for testing",
		OwnerID:                  "900000000000000009",
		MemberCount:              42,
		ApproximateMemberCount:   45,
		ApproximatePresenceCount: 12,
		VerificationLevel:        discordgo.VerificationLevelMedium,
		SystemChannelID:          "ch-001",
		Roles:                    mockGuildRoles(guildID),
	}, nil
}

func (m *MockDiscordClient) GuildEdit(guildID string, g *discordgo.GuildParams, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if m.GuildEditFunc != nil {
		return m.GuildEditFunc(guildID, g, options...)
	}
	name := MockGuildName
	if g != nil && g.Name != "" {
		name = g.Name
	}
	guild := &discordgo.Guild{
		ID:          guildID,
		Name:        name,
		MemberCount: 42,
	}
	if g != nil {
		guild.Description = g.Description
	}
	return guild, nil
}

func (m *MockDiscordClient) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	if m.GuildChannelsFunc != nil {
		return m.GuildChannelsFunc(guildID, options...)
	}
	return []*discordgo.Channel{
		{
			ID:       "ch-001",
			Name:     "general",
			Type:     discordgo.ChannelTypeGuildText,
			Position: 0,
		},
		{
			ID:       "ch-002",
			Name:     "random",
			Type:     discordgo.ChannelTypeGuildText,
			Position: 1,
		},
	}, nil
}

func (m *MockDiscordClient) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if m.GuildChannelCreateComplexFunc != nil {
		return m.GuildChannelCreateComplexFunc(guildID, data, options...)
	}
	return &discordgo.Channel{
		ID:       m.nextID("ch"),
		GuildID:  guildID,
		Name:     data.Name,
		Type:     data.Type,
		Topic:    data.Topic,
		ParentID: data.ParentID,
	}, nil
}

func (m *MockDiscordClient) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	if m.GuildRolesFunc != nil {
		return m.GuildRolesFunc(guildID, options...)
	}
	return mockGuildRoles(guildID), nil
}

func (m *MockDiscordClient) GuildRoleCreate(guildID string, roleParams *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	if m.GuildRoleCreateFunc != nil {
		return m.GuildRoleCreateFunc(guildID, roleParams, options...)
	}
	role := &discordgo.Role{
		ID: m.nextID("role"),
	}
	if roleParams != nil {
		role.Name = roleParams.Name
		if roleParams.Color != nil {
			role.Color = *roleParams.Color
		}
		if roleParams.Hoist != nil {
			role.Hoist = *roleParams.Hoist
		}
		if roleParams.Permissions != nil {
			role.Permissions = *roleParams.Permissions
		}
		if roleParams.Mentionable != nil {
			role.Mentionable = *roleParams.Mentionable
		}
	}
	return role, nil
}

func (m *MockDiscordClient) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m.GuildMemberFunc != nil {
		return m.GuildMemberFunc(guildID, userID, options...)
	}
	roles := []string{}
	if userID == MockBotUserID {
		roles = []string{"role-001"}
	}
	return &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: "mockuser"},
		Roles:   roles,
	}, nil
}

func (m *MockDiscordClient) GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	if m.GuildMembersFunc != nil {
		return m.GuildMembersFunc(guildID, after, limit, options...)
	}
	return []*discordgo.Member{
		{
			GuildID: guildID,
			User:    &discordgo.User{ID: MockBotUserID, Username: "guildsmith", Bot: true},
			Roles:   []string{"role-001"},
		},
		{
			GuildID: guildID,
			User:    &discordgo.User{ID: "user-1", Username: "tester"},
			Roles:   []string{},
		},
		{
			GuildID: guildID,
			User:    &discordgo.User{ID: "user-2", Username: "alice"},
			Roles:   []string{},
		},
	}, nil
}

func (m *MockDiscordClient) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ChannelMessageSendFunc != nil {
		return m.ChannelMessageSendFunc(channelID, content, options...)
	}
	return &discordgo.Message{
		ID:        m.nextID("msg"),
		ChannelID: channelID,
		Content:   content,
	}, nil
}

func (m *MockDiscordClient) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(userID, options...)
	}
	if userID == "@me" {
		return &discordgo.User{
			ID:       MockBotUserID,
			Username: "guildsmith",
			Bot:      true,
		}, nil
	}
	return &discordgo.User{
		ID:       userID,
		Username: "mockuser",
	}, nil
}

func (m *MockDiscordClient) UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error) {
	if m.UserGuildsFunc != nil {
		return m.UserGuildsFunc(limit, beforeID, afterID, withCounts, options...)
	}
	return []*discordgo.UserGuild{
		{
			ID:          MockGuildID,
			Name:        MockGuildName,
			Owner:       true,
			Permissions: discordgo.PermissionAdministrator,
		},
		{
			ID:          MockSecondGuildID,
			Name:        MockSecondGuild,
			Owner:       false,
			Permissions: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}, nil
}
