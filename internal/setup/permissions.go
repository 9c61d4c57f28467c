package setup

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// permissionBits maps template permission names to Discord permission bits.
// Keys are normalized: lowercase with underscores. Several entries are
// aliases for the same bit.
var permissionBits = map[string]int64{
	"administrator": discordgo.PermissionAdministrator,
	"admin":         discordgo.PermissionAdministrator,

	"manage_server":   discordgo.PermissionManageGuild,
	"manage_guild":    discordgo.PermissionManageGuild,
	"manage_channels": discordgo.PermissionManageChannels,
	"manage_roles":    discordgo.PermissionManageRoles,
	"manage_messages": discordgo.PermissionManageMessages,
	"manage_webhooks": discordgo.PermissionManageWebhooks,

	"manage_emojis":              discordgo.PermissionManageGuildExpressions,
	"manage_emojis_and_stickers": discordgo.PermissionManageGuildExpressions,

	"kick_members":          discordgo.PermissionKickMembers,
	"ban_members":           discordgo.PermissionBanMembers,
	"moderate_members":      discordgo.PermissionModerateMembers,
	"create_instant_invite": discordgo.PermissionCreateInstantInvite,

	"view_channels":        discordgo.PermissionViewChannel,
	"view_channel":         discordgo.PermissionViewChannel,
	"send_messages":        discordgo.PermissionSendMessages,
	"send_tts_messages":    discordgo.PermissionSendTTSMessages,
	"embed_links":          discordgo.PermissionEmbedLinks,
	"attach_files":         discordgo.PermissionAttachFiles,
	"read_message_history": discordgo.PermissionReadMessageHistory,
	"mention_everyone":     discordgo.PermissionMentionEveryone,
	"use_external_emojis":  discordgo.PermissionUseExternalEmojis,
	"external_emojis":      discordgo.PermissionUseExternalEmojis,
	"add_reactions":        discordgo.PermissionAddReactions,

	"connect":              discordgo.PermissionVoiceConnect,
	"speak":                discordgo.PermissionVoiceSpeak,
	"mute_members":         discordgo.PermissionVoiceMuteMembers,
	"deafen_members":       discordgo.PermissionVoiceDeafenMembers,
	"move_members":         discordgo.PermissionVoiceMoveMembers,
	"use_voice_activation": discordgo.PermissionVoiceUseVAD,
	"priority_speaker":     discordgo.PermissionVoicePrioritySpeaker,
	"stream":               discordgo.PermissionVoiceStreamVideo,
	"request_to_speak":     discordgo.PermissionVoiceRequestToSpeak,

	"change_nickname":  discordgo.PermissionChangeNickname,
	"manage_nicknames": discordgo.PermissionManageNicknames,

	"use_application_commands": discordgo.PermissionUseSlashCommands,
	"manage_events":            discordgo.PermissionManageEvents,
	"manage_threads":           discordgo.PermissionManageThreads,
	"create_public_threads":    discordgo.PermissionCreatePublicThreads,
	"create_private_threads":   discordgo.PermissionCreatePrivateThreads,
	"use_external_stickers":    discordgo.PermissionUseExternalStickers,
	"send_messages_in_threads": discordgo.PermissionSendMessagesInThreads,
	"use_embedded_activities":  discordgo.PermissionUseActivities,
}

func normalizePermission(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// ParsePermissions folds a list of permission names into a Discord permission
// bitmask. Unknown names are skipped rather than failing the whole role.
func ParsePermissions(names []string) int64 {
	var bits int64
	for _, name := range names {
		if bit, ok := permissionBits[normalizePermission(name)]; ok {
			bits |= bit
		}
	}
	return bits
}

// ParseColor converts a "#RRGGBB" hex string to a Discord color int. Exactly
// six hex digits are required; anything else yields 0, Discord's default role
// color.
func ParseColor(hex string) int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
