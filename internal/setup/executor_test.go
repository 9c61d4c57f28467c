package setup_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsmith/guildsmith-mcp/internal/setup"
	"github.com/guildsmith/guildsmith-mcp/internal/testutil"
)

func joinLines(r *setup.Report) string {
	return strings.Join(r.Lines(), "\n")
}

// ---------------------------------------------------------------------------
// Role creation
// ---------------------------------------------------------------------------

func Test_Execute_CreatesRolesInReverseOrder(t *testing.T) {
	t.Parallel()

	var created []string
	mock := &testutil.MockDiscordClient{
		GuildRoleCreateFunc: func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
			created = append(created, params.Name)
			return &discordgo.Role{ID: "r-" + params.Name, Name: params.Name}, nil
		},
	}

	plan := &setup.Plan{
		Roles: []setup.RoleConfig{
			{Name: "Owner", Permissions: []string{"administrator"}},
			{Name: "Moderator", Permissions: []string{"manage_messages"}},
			{Name: "Member", Permissions: []string{"send_messages"}},
		},
	}

	setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	want := []string{"Member", "Moderator", "Owner"}
	if len(created) != len(want) {
		t.Fatalf("created %d roles, want %d", len(created), len(want))
	}
	for i := range want {
		if created[i] != want[i] {
			t.Errorf("created[%d] = %q, want %q (lowest role first)", i, created[i], want[i])
		}
	}
}

func Test_Execute_RoleParams(t *testing.T) {
	t.Parallel()

	var got *discordgo.RoleParams
	mock := &testutil.MockDiscordClient{
		GuildRoleCreateFunc: func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
			got = params
			return &discordgo.Role{ID: "r-1", Name: params.Name}, nil
		},
	}

	plan := &setup.Plan{
		Roles: []setup.RoleConfig{
			{Name: "Mod", Color: "#3498db", Permissions: []string{"kick_members", "ban_members"}, Hoist: true},
		},
	}
	setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if got == nil {
		t.Fatal("role create was never called")
	}
	if got.Color == nil || *got.Color != 0x3498db {
		t.Errorf("Color = %v, want 0x3498db", got.Color)
	}
	wantPerms := int64(discordgo.PermissionKickMembers | discordgo.PermissionBanMembers)
	if got.Permissions == nil || *got.Permissions != wantPerms {
		t.Errorf("Permissions = %v, want %d", got.Permissions, wantPerms)
	}
	if got.Hoist == nil || !*got.Hoist {
		t.Error("Hoist should be set")
	}
}

func Test_Execute_RoleFailureDoesNotStopRun(t *testing.T) {
	t.Parallel()

	var createdRoles, createdChannels []string
	mock := &testutil.MockDiscordClient{
		GuildRoleCreateFunc: func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
			if params.Name == "Cursed" {
				return nil, errors.New("boom")
			}
			createdRoles = append(createdRoles, params.Name)
			return &discordgo.Role{ID: "r-" + params.Name}, nil
		},
		GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
			createdChannels = append(createdChannels, data.Name)
			return &discordgo.Channel{ID: "ch-" + data.Name, Name: data.Name, Type: data.Type}, nil
		},
	}

	plan := &setup.Plan{
		Roles: []setup.RoleConfig{
			{Name: "Alpha"},
			{Name: "Cursed"},
			{Name: "Omega"},
		},
		Categories: []string{"Info"},
		Channels:   []setup.ChannelConfig{{Name: "lobby", Kind: setup.KindText, Category: "Info"}},
	}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if len(createdRoles) != 2 {
		t.Errorf("created roles = %v, want the two working ones", createdRoles)
	}
	if len(createdChannels) != 2 {
		t.Errorf("created channels = %v, want category plus channel", createdChannels)
	}

	succeeded, failed, _ := report.Counts()
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if succeeded != 4 {
		t.Errorf("succeeded = %d, want 4 (2 roles, 1 category, 1 channel)", succeeded)
	}
	if !strings.Contains(joinLines(report), "❌ Failed to create role Cursed: boom") {
		t.Errorf("report should name the failed role, got:\n%s", joinLines(report))
	}
}

// ---------------------------------------------------------------------------
// Categories and channels
// ---------------------------------------------------------------------------

func Test_Execute_ParentsChannelsToCategories(t *testing.T) {
	t.Parallel()

	var channelData []discordgo.GuildChannelCreateData
	mock := &testutil.MockDiscordClient{
		GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
			channelData = append(channelData, data)
			id := "ch-" + data.Name
			if data.Type == discordgo.ChannelTypeGuildCategory {
				id = "cat-" + data.Name
			}
			return &discordgo.Channel{ID: id, Name: data.Name, Type: data.Type}, nil
		},
	}

	plan := &setup.Plan{
		Categories: []string{"Info"},
		Channels: []setup.ChannelConfig{
			{Name: "rules-free-lobby", Kind: setup.KindText, Category: "Info", Topic: "hello"},
			{Name: "orphan", Kind: setup.KindText, Category: "Nowhere"},
		},
	}
	setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if len(channelData) != 3 {
		t.Fatalf("create calls = %d, want 3", len(channelData))
	}
	if channelData[0].Type != discordgo.ChannelTypeGuildCategory {
		t.Error("categories should be created before channels")
	}
	if channelData[1].ParentID != "cat-Info" {
		t.Errorf("ParentID = %q, want cat-Info", channelData[1].ParentID)
	}
	if channelData[1].Topic != "hello" {
		t.Errorf("Topic = %q, want hello", channelData[1].Topic)
	}
	if channelData[2].ParentID != "" {
		t.Errorf("unknown category should leave ParentID empty, got %q", channelData[2].ParentID)
	}
}

func Test_Execute_ChannelTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind setup.ChannelKind
		want discordgo.ChannelType
	}{
		{setup.KindText, discordgo.ChannelTypeGuildText},
		{setup.KindVoice, discordgo.ChannelTypeGuildVoice},
		{setup.KindStage, discordgo.ChannelTypeGuildStageVoice},
		{setup.KindForum, discordgo.ChannelTypeGuildForum},
		{setup.KindAnnouncement, discordgo.ChannelTypeGuildNews},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			var got discordgo.ChannelType
			mock := &testutil.MockDiscordClient{
				GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
					got = data.Type
					return &discordgo.Channel{ID: "ch-1", Type: data.Type}, nil
				},
			}

			plan := &setup.Plan{Channels: []setup.ChannelConfig{{Name: "x", Kind: tt.kind}}}
			setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

			if got != tt.want {
				t.Errorf("channel type = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_Execute_SkipsUnknownChannelKind(t *testing.T) {
	t.Parallel()

	calls := 0
	mock := &testutil.MockDiscordClient{
		GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
			calls++
			return &discordgo.Channel{ID: "ch-1"}, nil
		},
	}

	plan := &setup.Plan{Channels: []setup.ChannelConfig{{Name: "mystery", Kind: setup.ChannelKind("hologram")}}}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if calls != 0 {
		t.Errorf("create calls = %d, want 0", calls)
	}
	if strings.Contains(joinLines(report), "mystery") {
		t.Errorf("skipped channel should not appear in the report, got:\n%s", joinLines(report))
	}
}

// ---------------------------------------------------------------------------
// Content delivery
// ---------------------------------------------------------------------------

func Test_Execute_SendsRulesContentToRulesChannels(t *testing.T) {
	t.Parallel()

	sent := map[string]string{}
	mock := &testutil.MockDiscordClient{
		GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
			return &discordgo.Channel{ID: "id-" + data.Name, Name: data.Name, Type: data.Type}, nil
		},
		ChannelMessageSendFunc: func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
			sent[channelID] = content
			return &discordgo.Message{ID: "m-1"}, nil
		},
	}

	plan := &setup.Plan{
		Channels: []setup.ChannelConfig{
			{Name: "📖-rules", Kind: setup.KindText},
			{Name: "💬-general-chat", Kind: setup.KindText},
		},
		RulesContent: "be nice",
	}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if _, ok := sent["id-📖-rules"]; !ok {
		t.Error("rules channel should receive the rules content")
	}
	if _, ok := sent["id-💬-general-chat"]; ok {
		t.Error("general chat should not receive the rules content")
	}
	if !strings.Contains(joinLines(report), "✅ Added rules content to 📖-rules") {
		t.Errorf("report should record the rules post, got:\n%s", joinLines(report))
	}
}

func Test_Execute_TruncatesLongRulesContent(t *testing.T) {
	t.Parallel()

	// executeRules sends the plan's rules content through the mock and
	// returns what reached the channel.
	sendRules := func(t *testing.T, content string) string {
		t.Helper()
		var sent string
		mock := &testutil.MockDiscordClient{
			GuildChannelCreateComplexFunc: func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
				return &discordgo.Channel{ID: "id-" + data.Name, Name: data.Name, Type: data.Type}, nil
			},
			ChannelMessageSendFunc: func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				sent = content
				return &discordgo.Message{ID: "m-1"}, nil
			},
		}
		plan := &setup.Plan{
			Channels:     []setup.ChannelConfig{{Name: "rules", Kind: setup.KindText}},
			RulesContent: content,
		}
		setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)
		return sent
	}

	t.Run("ascii over the limit", func(t *testing.T) {
		t.Parallel()

		sent := sendRules(t, strings.Repeat("a", 2500))
		if len(sent) != 2000 {
			t.Errorf("sent length = %d, want 2000", len(sent))
		}
		if !strings.HasSuffix(sent, "...") {
			t.Error("truncated content should end with an ellipsis")
		}
	})

	t.Run("multi-byte under the character limit is untouched", func(t *testing.T) {
		t.Parallel()

		// 1200 characters but 2400 bytes; the limit counts characters.
		content := strings.Repeat("é", 1200)
		sent := sendRules(t, content)
		if sent != content {
			t.Errorf("sent %d runes, want the content unchanged (%d runes)",
				utf8.RuneCountInString(sent), utf8.RuneCountInString(content))
		}
	})

	t.Run("multi-byte over the limit cuts on a rune boundary", func(t *testing.T) {
		t.Parallel()

		sent := sendRules(t, strings.Repeat("é", 2500))
		if got := utf8.RuneCountInString(sent); got != 2000 {
			t.Errorf("sent runes = %d, want 2000", got)
		}
		if !utf8.ValidString(sent) {
			t.Error("truncated content should be valid UTF-8")
		}
		if !strings.HasSuffix(sent, "...") {
			t.Error("truncated content should end with an ellipsis")
		}
	})
}

func Test_Execute_WelcomeMessage(t *testing.T) {
	t.Parallel()

	t.Run("sent to the general channel", func(t *testing.T) {
		t.Parallel()

		var sentTo string
		mock := &testutil.MockDiscordClient{
			ChannelMessageSendFunc: func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				sentTo = channelID
				return &discordgo.Message{ID: "m-1"}, nil
			},
		}

		plan := &setup.Plan{WelcomeMessage: "hello there"}
		report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

		// The default channel fixture lists "general" first.
		if sentTo != "ch-001" {
			t.Errorf("welcome sent to %q, want ch-001", sentTo)
		}
		if !strings.Contains(joinLines(report), "✅ Sent welcome message to general channel") {
			t.Errorf("report should record the welcome post, got:\n%s", joinLines(report))
		}
	})

	t.Run("silent when no general channel exists", func(t *testing.T) {
		t.Parallel()

		sends := 0
		mock := &testutil.MockDiscordClient{
			GuildChannelsFunc: func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
				return []*discordgo.Channel{
					{ID: "ch-9", Name: "random", Type: discordgo.ChannelTypeGuildText},
				}, nil
			},
			ChannelMessageSendFunc: func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				sends++
				return &discordgo.Message{ID: "m-1"}, nil
			},
		}

		plan := &setup.Plan{WelcomeMessage: "hello there"}
		report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

		if sends != 0 {
			t.Errorf("sends = %d, want 0", sends)
		}
		if strings.Contains(joinLines(report), "welcome") {
			t.Errorf("report should not mention a welcome message, got:\n%s", joinLines(report))
		}
	})

	t.Run("warns when the send fails", func(t *testing.T) {
		t.Parallel()

		mock := &testutil.MockDiscordClient{
			ChannelMessageSendFunc: func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				return nil, errors.New("boom")
			},
		}

		plan := &setup.Plan{WelcomeMessage: "hello there"}
		report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

		if !strings.Contains(joinLines(report), "⚠️ Failed to send welcome message: boom") {
			t.Errorf("report should warn about the failed send, got:\n%s", joinLines(report))
		}
	})
}

// ---------------------------------------------------------------------------
// Guild settings and run control
// ---------------------------------------------------------------------------

func Test_Execute_UpdatesServerSettings(t *testing.T) {
	t.Parallel()

	var got *discordgo.GuildParams
	mock := &testutil.MockDiscordClient{
		GuildEditFunc: func(guildID string, params *discordgo.GuildParams, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
			got = params
			return &discordgo.Guild{ID: guildID, Name: params.Name}, nil
		},
	}

	plan := &setup.Plan{ServerName: "New Name", Description: "fresh description"}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if got == nil {
		t.Fatal("guild edit was never called")
	}
	if got.Name != "New Name" || got.Description != "fresh description" {
		t.Errorf("GuildParams = %+v, want name and description applied", got)
	}
	if !strings.Contains(joinLines(report), "✅ Updated server settings") {
		t.Errorf("report should record the settings update, got:\n%s", joinLines(report))
	}
}

func Test_Execute_GuildFetchErrorStopsRun(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockDiscordClient{
		GuildFunc: func(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
			return nil, errors.New("boom")
		},
	}

	plan := &setup.Plan{Roles: []setup.RoleConfig{{Name: "A"}}}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	if len(report.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(report.Steps))
	}
	if got := report.Steps[0].Line(); got != "❌ General setup error: boom" {
		t.Errorf("Line() = %q", got)
	}
}

func Test_Execute_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	roleCalls := 0
	mock := &testutil.MockDiscordClient{
		GuildRoleCreateFunc: func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
			roleCalls++
			return &discordgo.Role{ID: "r-1"}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := &setup.Plan{Roles: []setup.RoleConfig{{Name: "A"}}}
	report := setup.Execute(ctx, mock, testutil.MockGuildID, plan)

	if roleCalls != 0 {
		t.Errorf("role calls = %d, want 0 after cancellation", roleCalls)
	}
	if !strings.Contains(joinLines(report), "❌ General setup error: context canceled") {
		t.Errorf("report should mention the cancellation, got:\n%s", joinLines(report))
	}
}

func Test_Execute_RerunCreatesDuplicates(t *testing.T) {
	t.Parallel()

	roleCalls := 0
	mock := &testutil.MockDiscordClient{
		GuildRoleCreateFunc: func(guildID string, params *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
			roleCalls++
			return &discordgo.Role{ID: "r-1"}, nil
		},
	}

	plan := &setup.Plan{Roles: []setup.RoleConfig{{Name: "A"}, {Name: "B"}}}
	setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)
	setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	// Plans are applied as-is; nothing reconciles against existing resources.
	if roleCalls != 4 {
		t.Errorf("role calls = %d, want 4 across two runs", roleCalls)
	}
}

func Test_Execute_SummaryCountsCreatedResources(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockDiscordClient{}
	plan := &setup.Plan{
		Categories: []string{"One", "Two"},
		Channels: []setup.ChannelConfig{
			{Name: "a", Kind: setup.KindText, Category: "One"},
			{Name: "b", Kind: setup.KindVoice, Category: "Two"},
			{Name: "c", Kind: setup.KindText},
		},
		Roles: []setup.RoleConfig{{Name: "R1"}},
	}
	report := setup.Execute(context.Background(), mock, testutil.MockGuildID, plan)

	want := "🎉 Server setup completed! Created 2 categories, 3 channels, and 1 roles."
	if !strings.Contains(joinLines(report), want) {
		t.Errorf("report missing summary %q, got:\n%s", want, joinLines(report))
	}
}
