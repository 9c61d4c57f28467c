package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// IsNotFound reports whether err is a Discord REST 404.
func IsNotFound(err error) bool {
	var rerr *discordgo.RESTError
	return errors.As(err, &rerr) && rerr.Response != nil &&
		rerr.Response.StatusCode == http.StatusNotFound
}

// FormatAPIError converts a Discord REST failure into a short human-readable
// message. Forbidden and not-found responses get stable wording so callers
// can surface them directly; other REST errors include the API message when
// one is present. Non-REST errors pass through unchanged.
func FormatAPIError(err error) string {
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) || rerr.Response == nil {
		return err.Error()
	}
	switch rerr.Response.StatusCode {
	case http.StatusForbidden:
		return "Permission denied. The bot lacks necessary permissions for this action."
	case http.StatusNotFound:
		return "Resource not found. The specified server, channel, or user doesn't exist."
	default:
		if rerr.Message != nil && rerr.Message.Message != "" {
			return fmt.Sprintf("Discord API error: %s", rerr.Message.Message)
		}
		return fmt.Sprintf("Discord API error: HTTP %d", rerr.Response.StatusCode)
	}
}
