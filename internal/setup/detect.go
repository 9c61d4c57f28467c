package setup

import "strings"

// typeKeywords pairs each detectable server type with the keywords that vote
// for it. Order matters: when two types score the same, the one listed first
// wins.
var typeKeywords = []struct {
	serverType ServerType
	keywords   []string
}{
	{TypeGaming, []string{
		"gaming", "game", "esports", "competitive", "tournament", "clan",
		"guild", "valorant", "league", "cs2", "minecraft", "wow", "raid",
		"pvp", "fps", "mmorpg", "strategy", "team", "scrim", "practice",
	}},
	{TypeBusiness, []string{
		"business", "company", "corporate", "startup", "team", "work",
		"office", "project", "client", "meeting", "sales", "marketing",
		"hr", "department", "professional", "enterprise", "productivity",
		"collaboration",
	}},
	{TypeEducation, []string{
		"education", "school", "university", "college", "class", "course",
		"student", "teacher", "professor", "study", "homework", "assignment",
		"lecture", "academic", "learning", "tutorial", "training", "workshop",
	}},
	{TypeCreative, []string{
		"creative", "art", "artist", "design", "music", "writing",
		"photography", "video", "streaming", "content", "creator",
		"portfolio", "showcase", "collaboration", "project", "commission",
		"inspiration", "gallery",
	}},
	{TypeCommunity, []string{
		"community", "social", "hangout", "friends", "chat", "discussion",
		"hobby", "interest", "local", "neighborhood", "support", "group",
		"club", "society", "gathering", "casual", "friendly", "welcoming",
	}},
}

// DetectServerType guesses the server type from a free-form description by
// counting keyword hits per type. No hits at all means general.
func DetectServerType(description string) ServerType {
	lower := strings.ToLower(description)

	best := TypeGeneral
	bestScore := 0
	for _, entry := range typeKeywords {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = entry.serverType
			bestScore = score
		}
	}
	return best
}
