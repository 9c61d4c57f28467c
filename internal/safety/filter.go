// Package safety provides the guardrails for tool execution: guild
// allow/deny filtering, single-use confirmation tokens for destructive
// tools, and JSONL audit logging.
package safety

import "path"

// Filter decides whether a named resource (typically a guild name) may
// be operated on. Entries are glob patterns in path.Match syntax. The
// denylist always wins; an empty allowlist permits everything not
// denied.
type Filter struct {
	allowlist []string
	denylist  []string
}

// NewFilter builds a Filter from allow and deny pattern lists. Nil or
// empty lists are valid and impose no restriction of their kind.
func NewFilter(allowlist, denylist []string) *Filter {
	return &Filter{allowlist: allowlist, denylist: denylist}
}

// IsAllowed reports whether resource passes the filter.
func (f *Filter) IsAllowed(resource string) bool {
	for _, pattern := range f.denylist {
		if globMatch(pattern, resource) {
			return false
		}
	}
	if len(f.allowlist) == 0 {
		return true
	}
	for _, pattern := range f.allowlist {
		if globMatch(pattern, resource) {
			return true
		}
	}
	return false
}

// globMatch treats malformed patterns as non-matching rather than
// failing the whole check.
func globMatch(pattern, resource string) bool {
	ok, err := path.Match(pattern, resource)
	return err == nil && ok
}
