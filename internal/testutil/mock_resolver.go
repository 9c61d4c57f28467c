package testutil

import (
	"fmt"

	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
)

// Compile-time assertion.
var _ resolve.GuildResolver = (*MockGuildResolver)(nil)

// MockGuildResolver implements resolve.GuildResolver using in-memory maps.
// It is pre-populated with standard test guilds by NewMockGuildResolver.
type MockGuildResolver struct {
	IDToName map[string]string // guild ID -> name
	NameToID map[string]string // guild name -> ID
}

// NewMockGuildResolver returns a MockGuildResolver pre-loaded with the
// standard test guilds: Test Guild and Second Guild.
func NewMockGuildResolver() *MockGuildResolver {
	return &MockGuildResolver{
		IDToName: map[string]string{
			MockGuildID:       MockGuildName,
			MockSecondGuildID: MockSecondGuild,
		},
		NameToID: map[string]string{
			MockGuildName:   MockGuildID,
			MockSecondGuild: MockSecondGuildID,
		},
	}
}

// GuildName returns the name for the given guild ID. If the ID is not found,
// the ID itself is returned (matching *resolve.Resolver behavior).
func (m *MockGuildResolver) GuildName(id string) string {
	if name, ok := m.IDToName[id]; ok {
		return name
	}
	return id
}

// GuildID returns the ID for the given guild name. If the name is not found,
// an error is returned (matching *resolve.Resolver behavior).
func (m *MockGuildResolver) GuildID(name string) (string, error) {
	if id, ok := m.NameToID[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("resolve: guild %q not found", name)
}
