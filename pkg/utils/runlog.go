package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLogger writes structured JSONL events for a single ide run.
// A nil *RunLogger discards everything.
type RunLogger struct {
	mu   sync.Mutex
	w    io.Writer
	c    io.Closer
	id   string
	path string
	now  func() time.Time
}

// OpenRunLogger creates <dir>/run-YYYYmmdd_HHMMSS-<id>.jsonl.
func OpenRunLogger(dir, id string) (*RunLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}
	name := time.Now().Format("20060102_150405")
	if len(id) > 8 {
		name += "-" + id[:8]
	} else if id != "" {
		name += "-" + id
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%s.jsonl", name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return &RunLogger{w: f, c: f, id: id, path: path, now: time.Now}, nil
}

// NewRunLogger writes events to w.
func NewRunLogger(w io.Writer, id string) *RunLogger {
	return &RunLogger{w: w, id: id, now: time.Now}
}

// Path returns the file being written, or "" when not file backed.
func (r *RunLogger) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Close closes the underlying file, if open.
func (r *RunLogger) Close() error {
	if r == nil || r.c == nil {
		return nil
	}
	return r.c.Close()
}

// LogEvent writes a JSON line with the provided type and fields.
func (r *RunLogger) LogEvent(eventType string, fields map[string]any) {
	if r == nil || r.w == nil {
		return
	}
	payload := map[string]any{
		"ts":   r.now().Format(time.RFC3339Nano),
		"type": eventType,
		"run":  r.id,
	}
	for k, v := range fields {
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.w.Write(append(b, '\n'))
}
