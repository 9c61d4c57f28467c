package setup

import (
	"regexp"
	"strings"
)

// Analysis captures what a free-form server description asks for: an explicit
// name if one was quoted, security hints, and the features it mentions.
type Analysis struct {
	ServerName        string
	VerificationLevel string
	ContentFilter     string
	Features          []string
	Description       string
}

// namePatterns match an explicitly quoted server name, tried in order. The
// first capture group is the name.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:server|community|guild)\s+(?:called|named)\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)['"]([^'"]+)['"](?:\s+server|\s+community|\s+guild)`),
	regexp.MustCompile(`(?i)call(?:ed)?\s+it\s+['"]([^'"]+)['"]`),
}

// featureHints maps a feature tag to the words that request it.
var featureHints = []struct {
	feature string
	words   []string
}{
	{"announcements", []string{"announcement", "news", "update"}},
	{"events", []string{"event", "schedule", "calendar"}},
	{"voice", []string{"voice", "talk", "call", "meeting"}},
	{"stage", []string{"stage", "presentation", "lecture"}},
	{"forum", []string{"forum", "discussion", "topic"}},
}

// AnalyzeDescription extracts setup hints from a natural-language description.
// VerificationLevel stays empty when the text gives no signal; ContentFilter
// always resolves, defaulting to medium.
func AnalyzeDescription(description string) Analysis {
	a := Analysis{
		ContentFilter: "medium",
		Description:   description,
	}

	for _, pat := range namePatterns {
		if m := pat.FindStringSubmatch(description); m != nil {
			a.ServerName = m[1]
			break
		}
	}

	lower := strings.ToLower(description)

	switch {
	case containsAny(lower, "strict", "secure", "verification", "verified"):
		a.VerificationLevel = "high"
	case containsAny(lower, "open", "welcoming", "easy"):
		a.VerificationLevel = "low"
	}

	switch {
	case containsAny(lower, "family", "safe", "clean", "appropriate"):
		a.ContentFilter = "high"
	case containsAny(lower, "adult", "mature", "18+"):
		a.ContentFilter = "low"
	}

	for _, hint := range featureHints {
		if containsAny(lower, hint.words...) {
			a.Features = append(a.Features, hint.feature)
		}
	}

	return a
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
