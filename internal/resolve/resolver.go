// Package resolve provides a guild name ↔ ID cache covering every server the
// bot is a member of, so tool callers can use either form interchangeably.
package resolve

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// GuildLister is the slice of the Discord API the resolver needs to refresh
// its cache. *discordgo.Session satisfies it.
type GuildLister interface {
	UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error)
}

// Resolver maintains an in-memory bidirectional cache of guild IDs and names.
// It is safe for concurrent use.
type Resolver struct {
	dg     GuildLister
	mu     sync.RWMutex
	byID   map[string]string // guild ID -> name
	byName map[string]string // guild name -> ID
}

// New constructs a Resolver backed by the provided client. The cache is empty
// until Refresh is called, typically from the gateway ready handler.
func New(dg GuildLister) *Resolver {
	return &Resolver{
		dg:     dg,
		byID:   make(map[string]string),
		byName: make(map[string]string),
	}
}

// GuildName returns the human-readable name for the guild with the given ID.
// If the ID is not present in the cache, the ID itself is returned so callers
// always receive a non-empty, printable value.
func (r *Resolver) GuildName(id string) string {
	r.mu.RLock()
	name, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return id
	}
	return name
}

// GuildID returns the ID for the guild with the given name. If the name is
// not present in the cache, an error is returned.
func (r *Resolver) GuildID(name string) (string, error) {
	r.mu.RLock()
	id, ok := r.byName[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("resolve: guild %q not found", name)
	}
	return id, nil
}

// Refresh fetches the bot's current guild list from Discord and updates the
// cache. When two guilds share a name, the first one returned by the API
// keeps the name mapping. A write lock is held only during the map swap, so
// concurrent reads are not blocked during the network call.
func (r *Resolver) Refresh() error {
	guilds, err := r.dg.UserGuilds(200, "", "", false)
	if err != nil {
		return fmt.Errorf("resolve: failed to fetch guilds: %w", err)
	}

	newByID := make(map[string]string, len(guilds))
	newByName := make(map[string]string, len(guilds))

	for _, g := range guilds {
		newByID[g.ID] = g.Name
		if _, ok := newByName[g.Name]; !ok {
			newByName[g.Name] = g.ID
		}
	}

	r.mu.Lock()
	r.byID = newByID
	r.byName = newByName
	r.mu.Unlock()

	return nil
}

// ResolveGuildParam resolves a guild parameter that may be a name or ID.
// All-digit strings are treated as IDs and passed through untouched,
// otherwise the name is looked up via the Resolver.
func ResolveGuildParam(r GuildResolver, guild string) (string, error) {
	if guild == "" {
		return "", fmt.Errorf("resolve: empty guild parameter")
	}

	allDigits := true
	for _, c := range guild {
		if c < '0' || c > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return guild, nil
	}

	return r.GuildID(guild)
}

// ValidateGuildID reports whether id has the shape of a Discord snowflake:
// all digits, 17 to 20 characters.
func ValidateGuildID(id string) bool {
	if len(id) < 17 || len(id) > 20 {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidateUserID reports whether id looks like a user snowflake. User and
// guild IDs share the same shape.
func ValidateUserID(id string) bool {
	return ValidateGuildID(id)
}
