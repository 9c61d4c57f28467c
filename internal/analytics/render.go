package analytics

import (
	"fmt"
	"strings"
)

// RenderAnalytics formats an Overview as the markdown block returned by the
// analytics tool.
func RenderAnalytics(o *Overview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 **Server Analytics for %s**\n\n", o.Name)

	b.WriteString("**Server Overview:**\n")
	fmt.Fprintf(&b, "- Members: %d\n", o.MemberCount)
	fmt.Fprintf(&b, "- Boost Level: %d\n", o.BoostLevel)
	fmt.Fprintf(&b, "- Health Score: %d/100\n\n", o.HealthScore)

	fmt.Fprintf(&b, "**Channels (%d total):**\n", o.Channels.Total)
	fmt.Fprintf(&b, "- Text: %d\n", o.Channels.Text)
	fmt.Fprintf(&b, "- Voice: %d\n", o.Channels.Voice)
	fmt.Fprintf(&b, "- Categories: %d\n\n", o.Channels.Categories)

	b.WriteString("**Roles:**\n")
	fmt.Fprintf(&b, "- Total: %d\n", o.Roles.Total)
	fmt.Fprintf(&b, "- Hoisted: %d\n", o.Roles.Hoisted)
	fmt.Fprintf(&b, "- Mentionable: %d\n\n", o.Roles.Mentionable)

	b.WriteString("**Members:**\n")
	fmt.Fprintf(&b, "- Humans: %d\n", o.Members.Humans)
	fmt.Fprintf(&b, "- Bots: %d\n", o.Members.Bots)
	fmt.Fprintf(&b, "- Recent Joins (7d): %d", o.Members.RecentJoins)

	return b.String()
}

// RenderHealth formats a Health payload as the markdown block returned by the
// health-monitor tool.
func RenderHealth(h *Health) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏥 **Server Health Monitor for %s**\n\n", h.Name)
	fmt.Fprintf(&b, "**Overall Health Score: %d/100**\n\n", h.Score)

	b.WriteString("**Health Indicators:**\n")
	fmt.Fprintf(&b, "- Verification Level: %s\n", h.VerificationLevel)
	fmt.Fprintf(&b, "- Content Filter: %s\n", h.ContentFilter)
	fmt.Fprintf(&b, "- Channel Count: %d\n", h.ChannelCount)
	fmt.Fprintf(&b, "- Role Count: %d\n", h.RoleCount)
	fmt.Fprintf(&b, "- Member Count: %d\n\n", h.MemberCount)

	b.WriteString("**Recommendations:**\n")
	if h.Score < 70 {
		b.WriteString("⚠️ Server health needs attention. Consider reviewing security settings.")
	} else {
		b.WriteString("✅ Server health is good!")
	}

	return b.String()
}
