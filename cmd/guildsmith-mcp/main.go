// Command guildsmith-mcp is the entry point for the Discord server management
// MCP server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/analytics"
	"github.com/guildsmith/guildsmith-mcp/internal/auth"
	"github.com/guildsmith/guildsmith-mcp/internal/channel"
	"github.com/guildsmith/guildsmith-mcp/internal/config"
	"github.com/guildsmith/guildsmith-mcp/internal/discord"
	"github.com/guildsmith/guildsmith-mcp/internal/guild"
	"github.com/guildsmith/guildsmith-mcp/internal/provision"
	"github.com/guildsmith/guildsmith-mcp/internal/resolve"
	"github.com/guildsmith/guildsmith-mcp/internal/safety"
	"github.com/guildsmith/guildsmith-mcp/internal/tools"
	"github.com/guildsmith/guildsmith-mcp/internal/user"
)

const (
	defaultConfigPath = "config.yaml"
	serverVersion     = "1.0.0"
)

func main() {
	logger := log.New(os.Stderr, "guildsmith-mcp: ", log.LstdFlags)

	// 1. Load config.
	cfg := loadConfig(logger)

	// 2. Apply environment variable overrides.
	config.ApplyEnvOverrides(cfg)

	if cfg.Discord.Token == "" {
		logger.Fatal("no Discord token configured (set discord.token or GUILDSMITH_DISCORD_TOKEN)")
	}

	// 3. Build the structured logger. Everything goes to stderr; stdout is
	// reserved for the stdio transport.
	slogger := newSlogger(cfg.Logging.Level)

	// 4. Open audit log file if enabled.
	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logger.Printf("warning: could not open audit log %q: %v (audit logging disabled)", cfg.Audit.LogPath, err)
		} else {
			auditLogger = safety.NewAuditLogger(f)
			defer func() { _ = f.Close() }()
		}
	}

	// 5. Build safety components.
	guildFilter := safety.NewFilter(
		cfg.Safety.Guilds.Allowlist,
		cfg.Safety.Guilds.Denylist,
	)
	confirm := safety.NewConfirmationTracker(cfg.Safety.DestructiveTools)

	// 6. Create raw discordgo session.
	rawDG, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Fatalf("failed to create Discord session: %v", err)
	}

	// 7. Create the guild name resolver.
	resolver := resolve.New(rawDG)

	// 8. Wrap the session (registers event handlers and gateway intents).
	discordSession := discord.NewFromSession(rawDG, resolver, slogger)

	// 9. Open Discord connection.
	if err := discordSession.Open(); err != nil {
		logger.Fatalf("failed to open Discord connection: %v", err)
	}

	// 10. Build MCP server.
	mcpServer := server.NewMCPServer(
		"guildsmith-mcp",
		serverVersion,
		server.WithToolCapabilities(false),
	)

	// 11. Register all tools.
	var registrations []tools.Registration
	registrations = append(registrations,
		provision.SetupTools(rawDG, resolver, guildFilter, confirm, auditLogger, slogger)...,
	)
	registrations = append(registrations,
		analytics.AnalyticsTools(rawDG, resolver, guildFilter, auditLogger, slogger)...,
	)
	registrations = append(registrations,
		guild.GuildTools(rawDG, resolver, cfg.Discord.DefaultGuildID, guildFilter, auditLogger, slogger)...,
	)
	registrations = append(registrations,
		channel.ChannelTools(rawDG, resolver, cfg.Discord.DefaultGuildID, guildFilter, auditLogger, slogger)...,
	)
	registrations = append(registrations,
		user.UserTools(rawDG, auditLogger, slogger)...,
	)

	tools.RegisterAll(mcpServer, registrations)

	// 12. Start in stdio or HTTP mode.
	if useStdio() {
		logger.Println("starting in stdio mode")
		if err := server.ServeStdio(mcpServer, server.WithErrorLogger(logger)); err != nil {
			logger.Printf("stdio server error: %v", err)
		}
	} else {
		httpHandler := server.NewStreamableHTTPServer(mcpServer)
		authMiddleware := auth.NewAuthMiddleware(cfg.Server.AuthToken, slogger)
		wrappedHandler := authMiddleware(httpHandler)

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           wrappedHandler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			logger.Printf("listening on %s", addr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("HTTP server error: %v", err)
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}

	// 13. Close Discord session.
	if err := discordSession.Close(); err != nil {
		logger.Printf("Discord close error: %v", err)
	}

	logger.Println("server stopped")
}

// newSlogger builds a text slog.Logger on stderr at the configured level.
// Unknown level strings fall back to info.
func newSlogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// useStdio returns true if the --stdio flag was passed on the command line.
func useStdio() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--stdio" {
			return true
		}
	}
	return false
}

// loadConfig attempts to read the config file from the path specified by
// GUILDSMITH_CONFIG_PATH or the default "config.yaml". If the file cannot be
// read, DefaultConfig is returned.
func loadConfig(logger *log.Logger) *config.Config {
	path := os.Getenv("GUILDSMITH_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Printf("could not load config from %q (%v), using defaults", path, err)
		return config.DefaultConfig()
	}

	logger.Printf("loaded config from %q", path)
	return cfg
}
