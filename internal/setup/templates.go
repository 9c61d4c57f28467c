package setup

// serverTemplate is a static blueprint of categories, channels, and roles for
// one server type.
type serverTemplate struct {
	categories []string
	channels   []ChannelConfig
	roles      []RoleConfig
}

// templates holds the built-in blueprints. Education, business, and creative
// setups use the general blueprint, the same fallback that handles unknown
// types.
var templates = map[ServerType]serverTemplate{
	TypeGaming: {
		categories: []string{
			"📋 Information",
			"💬 General Chat",
			"🎮 Gaming",
			"🔊 Voice Channels",
			"🔧 Admin",
		},
		channels: []ChannelConfig{
			{Name: "📖-rules", Kind: KindText, Category: "📋 Information", Topic: "Server rules and guidelines"},
			{Name: "📢-announcements", Kind: KindAnnouncement, Category: "📋 Information", Topic: "Important server announcements"},
			{Name: "❓-support", Kind: KindText, Category: "📋 Information", Topic: "Get help and support here"},

			{Name: "💬-general", Kind: KindText, Category: "💬 General Chat", Topic: "General discussion and chat"},
			{Name: "🎯-introductions", Kind: KindText, Category: "💬 General Chat", Topic: "Introduce yourself to the community"},
			{Name: "🌍-off-topic", Kind: KindText, Category: "💬 General Chat", Topic: "Non-gaming related discussions"},

			{Name: "🎮-general-gaming", Kind: KindText, Category: "🎮 Gaming", Topic: "General gaming discussions"},
			{Name: "🎯-lfg", Kind: KindText, Category: "🎮 Gaming", Topic: "Looking for group/teammates"},
			{Name: "📊-game-stats", Kind: KindText, Category: "🎮 Gaming", Topic: "Share your gaming achievements"},
			{Name: "🎮-game-forum", Kind: KindForum, Category: "🎮 Gaming", Topic: "Game-specific discussions and help"},

			{Name: "🔊 General Voice", Kind: KindVoice, Category: "🔊 Voice Channels"},
			{Name: "🎮 Gaming Voice 1", Kind: KindVoice, Category: "🔊 Voice Channels"},
			{Name: "🎮 Gaming Voice 2", Kind: KindVoice, Category: "🔊 Voice Channels"},
			{Name: "🎤 Stage Channel", Kind: KindStage, Category: "🔊 Voice Channels"},

			{Name: "🛡️-mod-chat", Kind: KindText, Category: "🔧 Admin", Topic: "Moderator discussions", ViewRoles: []string{"Moderator", "Admin"}},
			{Name: "📋-mod-logs", Kind: KindText, Category: "🔧 Admin", Topic: "Moderation logs", ViewRoles: []string{"Moderator", "Admin"}},
		},
		roles: []RoleConfig{
			{Name: "👑 Server Owner", Color: "#ff0000", Permissions: []string{"administrator"}, Hoist: true},
			{Name: "🛡️ Admin", Color: "#ff6600", Permissions: []string{"administrator"}, Hoist: true},
			{Name: "🔨 Moderator", Color: "#3498db", Permissions: []string{
				"kick_members", "ban_members", "manage_messages", "mute_members",
				"deafen_members", "move_members", "manage_nicknames",
			}, Hoist: true},
			{Name: "🎮 Gamer", Color: "#9b59b6", Permissions: []string{"send_messages", "connect"}, Hoist: true},
			{Name: "✨ VIP", Color: "#f1c40f", Permissions: []string{"send_messages", "connect"}, Hoist: true},
			{Name: "👤 Member", Color: "#95a5a6", Permissions: []string{"send_messages", "connect"}},
		},
	},

	TypeCommunity: {
		categories: []string{
			"📋 Server Info",
			"💬 Community",
			"🎨 Creative",
			"🔊 Voice",
			"🔧 Staff",
		},
		channels: []ChannelConfig{
			{Name: "📜-rules", Kind: KindText, Category: "📋 Server Info"},
			{Name: "📢-announcements", Kind: KindAnnouncement, Category: "📋 Server Info"},
			{Name: "🎉-events", Kind: KindText, Category: "📋 Server Info"},

			{Name: "💬-general", Kind: KindText, Category: "💬 Community"},
			{Name: "👋-introductions", Kind: KindText, Category: "💬 Community"},
			{Name: "💭-discussions", Kind: KindForum, Category: "💬 Community"},
			{Name: "📸-media", Kind: KindText, Category: "💬 Community"},

			{Name: "🎨-showcase", Kind: KindText, Category: "🎨 Creative"},
			{Name: "💡-ideas", Kind: KindText, Category: "🎨 Creative"},
			{Name: "🤝-collaborations", Kind: KindText, Category: "🎨 Creative"},

			{Name: "🗣️ General Voice", Kind: KindVoice, Category: "🔊 Voice"},
			{Name: "🎵 Music/Podcast", Kind: KindVoice, Category: "🔊 Voice"},
			{Name: "🎤 Town Hall", Kind: KindStage, Category: "🔊 Voice"},

			{Name: "👮-staff-chat", Kind: KindText, Category: "🔧 Staff"},
			{Name: "📊-reports", Kind: KindText, Category: "🔧 Staff"},
		},
		roles: []RoleConfig{
			{Name: "👑 Owner", Color: "#e74c3c", Permissions: []string{"administrator"}, Hoist: true},
			{Name: "🔨 Moderator", Color: "#3498db", Permissions: []string{
				"kick_members", "ban_members", "manage_messages", "mute_members",
			}, Hoist: true},
			{Name: "🌟 Active Member", Color: "#f39c12", Permissions: []string{"send_messages"}, Hoist: true},
			{Name: "👥 Member", Color: "#95a5a6", Permissions: []string{"send_messages"}},
		},
	},

	TypeGeneral: {
		categories: []string{
			"📋 Information",
			"💬 General",
			"🔊 Voice",
		},
		channels: []ChannelConfig{
			{Name: "📜-rules", Kind: KindText, Category: "📋 Information"},
			{Name: "📢-announcements", Kind: KindAnnouncement, Category: "📋 Information"},
			{Name: "💬-general", Kind: KindText, Category: "💬 General"},
			{Name: "🗣️ General Voice", Kind: KindVoice, Category: "🔊 Voice"},
		},
		roles: []RoleConfig{
			{Name: "👑 Owner", Color: "#e74c3c", Permissions: []string{"administrator"}, Hoist: true},
			{Name: "🔨 Moderator", Color: "#3498db", Permissions: []string{
				"kick_members", "ban_members", "manage_messages",
			}, Hoist: true},
			{Name: "👥 Member", Color: "#95a5a6", Permissions: []string{"send_messages"}},
		},
	},
}

// TemplateFor returns deep copies of the template lists for the given type so
// plan customization never mutates the catalog. Types without a dedicated
// blueprint fall back to the general one.
func TemplateFor(t ServerType) (categories []string, channels []ChannelConfig, roles []RoleConfig) {
	tmpl, ok := templates[t]
	if !ok {
		tmpl = templates[TypeGeneral]
	}

	categories = make([]string, len(tmpl.categories))
	copy(categories, tmpl.categories)

	channels = make([]ChannelConfig, len(tmpl.channels))
	copy(channels, tmpl.channels)
	for i := range channels {
		if len(channels[i].ViewRoles) > 0 {
			vr := make([]string, len(channels[i].ViewRoles))
			copy(vr, channels[i].ViewRoles)
			channels[i].ViewRoles = vr
		}
	}

	roles = make([]RoleConfig, len(tmpl.roles))
	copy(roles, tmpl.roles)
	for i := range roles {
		perms := make([]string, len(roles[i].Permissions))
		copy(perms, roles[i].Permissions)
		roles[i].Permissions = perms
	}

	return categories, channels, roles
}
