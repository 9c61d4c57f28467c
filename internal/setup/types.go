// Package setup implements the template-driven server provisioning pipeline:
// analyze a free-text description, build a structured plan from a server-type
// template, and execute that plan against a live guild best-effort, collecting
// one structured outcome record per step.
package setup

import "strings"

// ServerType selects a template from the catalog.
type ServerType string

const (
	TypeGaming    ServerType = "gaming"
	TypeCommunity ServerType = "community"
	TypeEducation ServerType = "education"
	TypeBusiness  ServerType = "business"
	TypeCreative  ServerType = "creative"
	TypeGeneral   ServerType = "general"
)

// ParseServerType normalizes a server type string. Unknown values map to
// TypeGeneral.
func ParseServerType(s string) ServerType {
	switch ServerType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeGaming:
		return TypeGaming
	case TypeCommunity:
		return TypeCommunity
	case TypeEducation:
		return TypeEducation
	case TypeBusiness:
		return TypeBusiness
	case TypeCreative:
		return TypeCreative
	default:
		return TypeGeneral
	}
}

// ChannelKind is the channel flavor a ChannelConfig provisions.
type ChannelKind string

const (
	KindText         ChannelKind = "text"
	KindVoice        ChannelKind = "voice"
	KindStage        ChannelKind = "stage"
	KindForum        ChannelKind = "forum"
	KindAnnouncement ChannelKind = "announcement"
)

// ChannelConfig describes one channel to create. Built by the plan builder,
// consumed once by the executor, never persisted.
type ChannelConfig struct {
	Name     string
	Kind     ChannelKind
	Category string // parent category name, resolved at execution time
	Topic    string
	Position int
	NSFW     bool
	Slowmode int // seconds
	// UserLimit applies to voice channels only (0 = unlimited).
	UserLimit int
	// ViewRoles restricts visibility to the named roles. Plan data surfaced
	// in previews; the executor does not apply per-channel overwrites.
	ViewRoles []string
}

// RoleConfig describes one role to create, listed top-of-hierarchy first.
type RoleConfig struct {
	Name        string
	Color       string // #RRGGBB
	Permissions []string
	Hoist       bool
	Mentionable bool
}

// AutoModAction is one action an automod rule takes when triggered.
type AutoModAction struct {
	Type            string
	DurationSeconds int
}

// AutoModRule is a planned platform-native moderation rule. Rules are plan
// data: they appear in previews and summary counts but the executor does not
// create them.
type AutoModRule struct {
	Name           string
	TriggerType    string // "spam" or "keyword_preset"
	KeywordPresets []string
	Actions        []AutoModAction
	Enabled        bool
}

// Plan is the complete provisioning plan for one setup run. Built once per
// invocation; the only post-build mutation is the caller's explicit
// server-name override.
type Plan struct {
	ServerName        string
	Description       string
	VerificationLevel string
	Categories        []string
	Channels          []ChannelConfig
	Roles             []RoleConfig
	AutoModRules      []AutoModRule
	WelcomeMessage    string
	RulesContent      string
}
