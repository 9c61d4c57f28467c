// Package testutil provides shared test infrastructure for guildsmith-mcp
// tool tests.
//
// The primary helper is NewMockDiscordSession, which starts an httptest.Server
// that simulates key Discord REST API endpoints and returns a *discordgo.Session
// pointing to it.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// Well-known fixture IDs served by the mock Discord API. Guild IDs are
// snowflake-length so they survive ID validation in the code under test.
const (
	MockGuildID       = "100000000000000001"
	MockGuildName     = "Test Guild"
	MockSecondGuildID = "200000000000000002"
	MockSecondGuild   = "Second Guild"
	MockBotUserID     = "bot-user-001"
)

// MockDiscord bundles the test server and discordgo session together so callers
// can register additional handlers or inspect request state.
type MockDiscord struct {
	Server  *httptest.Server
	Session *discordgo.Session
	Mux     *http.ServeMux
}

// Close shuts down the test server. It should be called via t.Cleanup.
func (m *MockDiscord) Close() {
	m.Server.Close()
}

// NewMockDiscordSession starts an httptest.Server with handlers that simulate
// Discord's REST API and returns a MockDiscord that wraps both the server and
// a discordgo.Session pointed at it.
//
// The returned MockDiscord should be cleaned up via t.Cleanup:
//
//	md := testutil.NewMockDiscordSession(t)
//	t.Cleanup(md.Close)
func NewMockDiscordSession(t *testing.T) *MockDiscord {
	t.Helper()

	mux := http.NewServeMux()

	// Sequential IDs for resources created through the mock, so a setup run
	// that creates several categories or channels gets distinct IDs back.
	var idMu sync.Mutex
	idSeq := 0
	nextID := func(prefix string) string {
		idMu.Lock()
		defer idMu.Unlock()
		idSeq++
		return fmt.Sprintf("%s-%03d", prefix, idSeq)
	}

	guildName := func(guildID string) string {
		if guildID == MockSecondGuildID {
			return MockSecondGuild
		}
		return MockGuildName
	}

	// --- Guilds ---
	// GET/PATCH /api/v9/guilds/{gID} plus channels, roles and members
	// sub-resources.
	mux.HandleFunc("/api/v9/guilds/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v9/guilds/")
		parts := strings.Split(path, "/")

		if len(parts) < 1 {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}

		guildID := parts[0]

		switch {
		// GET /guilds/{id}: get guild info (with_counts query is ignored,
		// the approximate counts are always populated)
		case r.Method == http.MethodGet && len(parts) == 1:
			guild := &discordgo.Guild{
				ID:                       guildID,
				Name:                     guildName(guildID),
				Description:              "A guild for testing",
				OwnerID:                  "900000000000000009",
				MemberCount:              42,
				ApproximateMemberCount:   45,
				ApproximatePresenceCount: 12,
				VerificationLevel:        discordgo.VerificationLevelMedium,
				SystemChannelID:          "ch-001",
				Roles:                    mockGuildRoles(guildID),
			}
			writeJSON(w, guild)

		// PATCH /guilds/{id}: edit guild settings
		case r.Method == http.MethodPatch && len(parts) == 1:
			var params discordgo.GuildParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			name := params.Name
			if name == "" {
				name = guildName(guildID)
			}
			guild := &discordgo.Guild{
				ID:          guildID,
				Name:        name,
				Description: params.Description,
				MemberCount: 42,
			}
			writeJSON(w, guild)

		// GET /guilds/{id}/channels
		case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "channels":
			channels := []*discordgo.Channel{
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
			}
			writeJSON(w, channels)

		// POST /guilds/{id}/channels: create channel
		case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "channels":
			var data discordgo.GuildChannelCreateData
			if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			ch := &discordgo.Channel{
				ID:       nextID("ch"),
				GuildID:  guildID,
				Name:     data.Name,
				Type:     data.Type,
				Topic:    data.Topic,
				ParentID: data.ParentID,
			}
			writeJSON(w, ch)

		// GET /guilds/{id}/roles
		case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "roles":
			writeJSON(w, mockGuildRoles(guildID))

		// POST /guilds/{id}/roles: create role
		case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "roles":
			var params discordgo.RoleParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			role := &discordgo.Role{
				ID:   nextID("role"),
				Name: params.Name,
			}
			if params.Color != nil {
				role.Color = *params.Color
			}
			if params.Hoist != nil {
				role.Hoist = *params.Hoist
			}
			if params.Permissions != nil {
				role.Permissions = *params.Permissions
			}
			if params.Mentionable != nil {
				role.Mentionable = *params.Mentionable
			}
			writeJSON(w, role)

		// GET /guilds/{id}/members: list members
		case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "members":
			members := []*discordgo.Member{
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
			}
			writeJSON(w, members)

		// GET /guilds/{id}/members/{uID}: get single member
		case r.Method == http.MethodGet && len(parts) == 3 && parts[1] == "members":
			userID := parts[2]
			roles := []string{}
			if userID == MockBotUserID {
				roles = []string{"role-001"}
			}
			member := &discordgo.Member{
				GuildID: guildID,
				User:    &discordgo.User{ID: userID, Username: "mockuser"},
				Roles:   roles,
			}
			writeJSON(w, member)

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	// --- Users ---
	// GET /api/v9/users/@me, /users/@me/guilds and /users/{uID}
	mux.HandleFunc("/api/v9/users/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v9/users/")
		parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

		switch {
		// GET /users/@me/guilds: guilds the bot is a member of
		case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "@me" && parts[1] == "guilds":
			guilds := []*discordgo.UserGuild{
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
			}
			writeJSON(w, guilds)

		// GET /users/@me: the bot's own user
		case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "@me":
			user := &discordgo.User{
				ID:       MockBotUserID,
				Username: "guildsmith",
				Bot:      true,
			}
			writeJSON(w, user)

		// GET /users/{id}
		case r.Method == http.MethodGet && len(parts) == 1:
			user := &discordgo.User{
				ID:       parts[0],
				Username: "mockuser",
			}
			writeJSON(w, user)

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	// --- Channel messages ---
	// POST /api/v9/channels/{cID}/messages (welcome and rules content)
	mux.HandleFunc("/api/v9/channels/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v9/channels/")
		parts := strings.Split(path, "/")

		if len(parts) < 1 {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}

		channelID := parts[0]

		switch {
		case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "messages":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			resp := &discordgo.Message{
				ID:        nextID("msg"),
				ChannelID: channelID,
				Content:   stringFromAny(body["content"]),
			}
			writeJSON(w, resp)

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	ts := httptest.NewServer(mux)

	// Override discordgo's endpoint variables so the session talks to our mock.
	discordgo.EndpointDiscord = ts.URL + "/"
	discordgo.EndpointAPI = discordgo.EndpointDiscord + "api/v" + discordgo.APIVersion + "/"
	discordgo.EndpointGuilds = discordgo.EndpointAPI + "guilds/"
	discordgo.EndpointChannels = discordgo.EndpointAPI + "channels/"
	discordgo.EndpointUsers = discordgo.EndpointAPI + "users/"

	dg, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("testutil: discordgo.New failed: %v", err)
	}

	return &MockDiscord{
		Server:  ts,
		Session: dg,
		Mux:     mux,
	}
}

// writeJSON marshals v as JSON and writes it to w with 200 OK.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// stringFromAny safely converts an interface{} to string.
func stringFromAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
