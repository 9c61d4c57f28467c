package safety

import (
	"sync"

	"github.com/google/uuid"
)

// ConfirmationTracker hands out single-use tokens for tools that must
// be explicitly confirmed before they run. A token is minted by
// RequestConfirmation and consumed by the first successful Confirm.
type ConfirmationTracker struct {
	mu          sync.Mutex
	destructive map[string]struct{}
	pending     map[string]pendingOperation
}

type pendingOperation struct {
	Tool        string
	Resource    string
	Description string
}

// NewConfirmationTracker registers the given tool names as requiring
// confirmation. A nil or empty list yields a tracker that never
// requires confirmation.
func NewConfirmationTracker(tools []string) *ConfirmationTracker {
	destructive := make(map[string]struct{}, len(tools))
	for _, name := range tools {
		destructive[name] = struct{}{}
	}
	return &ConfirmationTracker{
		destructive: destructive,
		pending:     make(map[string]pendingOperation),
	}
}

// NeedsConfirmation reports whether tool was registered as destructive.
func (ct *ConfirmationTracker) NeedsConfirmation(tool string) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	_, ok := ct.destructive[tool]
	return ok
}

// RequestConfirmation records a pending operation and returns the token
// the caller must present to proceed.
func (ct *ConfirmationTracker) RequestConfirmation(tool, resource, description string) string {
	token := uuid.New().String()
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.pending[token] = pendingOperation{Tool: tool, Resource: resource, Description: description}
	return token
}

// Confirm consumes token. It returns true exactly once per issued
// token; unknown or already-used tokens return false.
func (ct *ConfirmationTracker) Confirm(token string) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if _, ok := ct.pending[token]; !ok {
		return false
	}
	delete(ct.pending, token)
	return true
}
