package safety

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEntry is one record of a tool invocation.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Duration  time.Duration  `json:"duration"`
}

// AuditLogger writes audit entries as JSON lines. A nil *AuditLogger is
// valid and discards all entries, so callers never have to branch on
// whether auditing is enabled.
type AuditLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewAuditLogger returns a logger writing to w, or nil if w is nil.
func NewAuditLogger(w io.Writer) *AuditLogger {
	if w == nil {
		return nil
	}
	return &AuditLogger{w: w}
}

// Log writes entry as a single JSON line. Concurrent calls do not
// interleave.
func (a *AuditLogger) Log(entry AuditEntry) error {
	if a == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.w.Write(append(data, '\n'))
	return err
}
