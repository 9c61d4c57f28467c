// Package config provides configuration loading and defaults for the guildsmith-mcp server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds network and authentication settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// DiscordConfig holds Discord bot credentials and default guild targeting.
type DiscordConfig struct {
	Token string `yaml:"token"`
	// DefaultGuildID is used by read-only tools when the caller omits the
	// server parameter. Setup tools always require an explicit server.
	DefaultGuildID string `yaml:"default_guild_id"`
}

// GuildFilter holds allowlist and denylist entries for guild filtering.
type GuildFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups guild filters and destructive tool declarations.
type SafetyConfig struct {
	Guilds GuildFilter `yaml:"guilds"`
	// DestructiveTools lists tool names that must be confirmed with a
	// single-use token before they execute. Empty means no tool requires
	// confirmation.
	DestructiveTools []string `yaml:"destructive_tools"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
	// MaxSizeMB is loaded from config but no log rotation is currently implemented.
	MaxSizeMB int `yaml:"max_size_mb"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the top-level configuration structure for the guildsmith-mcp server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Discord DiscordConfig `yaml:"discord"`
	Safety  SafetyConfig  `yaml:"safety"`
	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// It returns a pointer to the populated Config and any error encountered.
// On error, nil is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
//
// Defaults:
//   - Server.Port = 8080
//   - Audit.Enabled = true
//   - Audit.LogPath = "audit.log"
//   - Logging.Level = "info"
//
// No tool requires confirmation by default; set safety.destructive_tools
// (for example to ["discord_setup_server"]) to enable the token flow.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Audit: AuditConfig{
			Enabled: true,
			LogPath: "audit.log",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment variables.
// Only non-empty environment variable values override existing config values.
//
// Recognized variables:
//   - GUILDSMITH_DISCORD_TOKEN -> cfg.Discord.Token
//   - GUILDSMITH_DEFAULT_GUILD_ID -> cfg.Discord.DefaultGuildID
//   - GUILDSMITH_AUTH_TOKEN -> cfg.Server.AuthToken
func ApplyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GUILDSMITH_DISCORD_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if guildID := os.Getenv("GUILDSMITH_DEFAULT_GUILD_ID"); guildID != "" {
		cfg.Discord.DefaultGuildID = guildID
	}
	if authToken := os.Getenv("GUILDSMITH_AUTH_TOKEN"); authToken != "" {
		cfg.Server.AuthToken = authToken
	}
}
