package logger

import (
	"encoding/json"
	"sync"
)

const defaultRecentSize = 500

// LogEntry is a parsed log line kept for the recent-logs endpoint.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Recent implements io.Writer over zerolog's JSON output and keeps the
// newest entries in a fixed-size ring.
type Recent struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewRecent creates a buffer holding at most size entries.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = defaultRecentSize
	}
	return &Recent{entries: make([]LogEntry, size)}
}

// Write implements io.Writer. Lines that are not JSON objects are ignored.
func (r *Recent) Write(p []byte) (int, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err != nil {
		return len(p), nil //nolint:nilerr // malformed lines are dropped
	}
	r.push(toEntry(raw))
	return len(p), nil
}

// Entries returns buffered entries from oldest to newest.
func (r *Recent) Entries() []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]LogEntry, r.count)
	size := len(r.entries)
	start := (r.head - r.count + size) % size
	for i := 0; i < r.count; i++ {
		out[i] = r.entries[(start+i)%size]
	}
	return out
}

func (r *Recent) push(e LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

func toEntry(raw map[string]any) LogEntry {
	var e LogEntry
	if v, ok := raw[zerologTimeKey].(string); ok {
		e.Timestamp = v
		delete(raw, zerologTimeKey)
	}
	if v, ok := raw["level"].(string); ok {
		e.Level = v
		delete(raw, "level")
	}
	if v, ok := raw["component"].(string); ok {
		e.Component = v
		delete(raw, "component")
	}
	if v, ok := raw["message"].(string); ok {
		e.Message = v
		delete(raw, "message")
	}
	if len(raw) > 0 {
		e.Fields = raw
	}
	return e
}

const zerologTimeKey = "time"
