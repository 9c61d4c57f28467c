package resolve

// GuildResolver provides guild name/ID resolution. Tool handlers and helpers
// accept this interface rather than the concrete *Resolver type.
type GuildResolver interface {
	GuildName(id string) string
	GuildID(name string) (string, error)
}

// Compile-time assertion: *Resolver satisfies GuildResolver.
var _ GuildResolver = (*Resolver)(nil)
