package setup

import "fmt"

// BuildPlan turns a description and a server type into a concrete Plan. The
// type's template supplies the structure; the description analysis customizes
// it (explicit name, extra feature channels, verification hints) and decides
// which automod rules and boilerplate content to include.
func BuildPlan(description string, serverType ServerType) *Plan {
	categories, channels, roles := TemplateFor(serverType)
	analysis := AnalyzeDescription(description)

	plan := &Plan{
		ServerName:        analysis.ServerName,
		Description:       description,
		VerificationLevel: "medium",
		Categories:        categories,
		Channels:          channels,
		Roles:             roles,
	}

	for _, feature := range analysis.Features {
		switch feature {
		case "events":
			plan.Channels = append(plan.Channels, ChannelConfig{
				Name:     "📅-events",
				Kind:     KindText,
				Category: "📋 Information",
				Topic:    "Server events and activities",
			})
		case "forum":
			if !hasForumChannel(plan.Channels) {
				plan.Channels = append(plan.Channels, ChannelConfig{
					Name:     "💭-discussions",
					Kind:     KindForum,
					Category: "💬 General Chat",
					Topic:    "General discussion topics",
				})
			}
		}
	}

	if analysis.VerificationLevel != "" {
		plan.VerificationLevel = analysis.VerificationLevel
	}

	plan.AutoModRules = append(plan.AutoModRules, AutoModRule{
		Name:        "Anti-Spam",
		TriggerType: "spam",
		Actions: []AutoModAction{
			{Type: "block_message"},
			{Type: "timeout", DurationSeconds: 300},
		},
		Enabled: true,
	})
	if analysis.ContentFilter == "high" {
		plan.AutoModRules = append(plan.AutoModRules, AutoModRule{
			Name:           "Family Friendly Filter",
			TriggerType:    "keyword_preset",
			KeywordPresets: []string{"profanity", "sexual_content"},
			Actions: []AutoModAction{
				{Type: "block_message"},
				{Type: "send_alert_message"},
			},
			Enabled: true,
		})
	}

	plan.WelcomeMessage = welcomeMessage(plan.ServerName)
	plan.RulesContent = rulesContent(plan.ServerName)

	return plan
}

func hasForumChannel(channels []ChannelConfig) bool {
	for _, ch := range channels {
		if ch.Kind == KindForum {
			return true
		}
	}
	return false
}

func welcomeMessage(serverName string) string {
	if serverName == "" {
		serverName = "our server"
	}
	return fmt.Sprintf(`Welcome to %s! 🎉

We're excited to have you join our community. Here's how to get started:

1. 📜 Read our rules in the rules channel
2. 👋 Introduce yourself in our introductions channel
3. 🎯 Check out our various channels and find your interests
4. 🤝 Be respectful and have fun!

If you have any questions, feel free to ask our staff members.
Enjoy your stay! ✨`, serverName)
}

func rulesContent(serverName string) string {
	if serverName == "" {
		serverName = "this server"
	}
	return fmt.Sprintf(`# 📜 %s Rules

Please read and follow these rules to maintain a positive environment for everyone.

## 🤝 General Conduct
1. **Be respectful** - Treat all members with kindness and respect
2. **No harassment** - Harassment, bullying, or discrimination will not be tolerated
3. **Keep it civil** - Disagreements are fine, but keep discussions constructive
4. **Use appropriate language** - Keep content appropriate for all ages

## 💬 Communication Guidelines
5. **Stay on topic** - Use appropriate channels for discussions
6. **No spam** - Avoid repetitive messages, excessive caps, or flooding
7. **No advertising** - Don't advertise other servers or products without permission
8. **English only** - Please communicate primarily in English

## 🚫 Prohibited Content
9. **No NSFW content** - Keep all content safe for work
10. **No piracy** - Don't share or discuss illegal content
11. **No doxxing** - Don't share personal information of others
12. **No hate speech** - Discriminatory language is strictly prohibited

## 🔨 Enforcement
- **First offense**: Warning
- **Second offense**: Temporary timeout
- **Third offense**: Temporary ban
- **Severe violations**: Immediate permanent ban

## 📞 Contact Staff
If you have questions or need to report an issue, please contact our staff members.

**Remember**: These rules help keep our community safe and enjoyable for everyone!`, serverName)
}
