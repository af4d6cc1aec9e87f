// Package auditlog appends one JSON line per scan/attack/adjudicate/mutate/
// isolate event to a rotating log file, adapting the teacher's own
// AuditLogger — originally built to log shell-command interception
// decisions — to this module's pipeline events instead.
package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/assailsec/assail/internal/redact"
)

// defaultMaxLogBytes is the file size at which the log is rotated (10 MB),
// carried over unchanged from the teacher's own logger.
const defaultMaxLogBytes = 10 * 1024 * 1024

// EventType discriminates which pipeline stage produced an Event.
type EventType string

const (
	EventScan       EventType = "scan"
	EventAttack     EventType = "attack"
	EventAdjudicate EventType = "adjudicate"
	EventMutate     EventType = "mutate"
	EventIsolate    EventType = "isolate"
)

// Event is one audit-log line. Command/Args/Error are redacted before
// they're ever serialized, since a target_command or checker invocation
// can legitimately carry a secret-looking argument from the caller's
// shell environment.
type Event struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	Program   string                 `json:"program,omitempty"`
	Axis      string                 `json:"axis,omitempty"`
	Command   string                 `json:"command,omitempty"`
	Args      []string               `json:"args,omitempty"`
	Verdict   string                 `json:"verdict,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
}

// Logger appends Events as newline-delimited JSON to a single file,
// rotating it to <path>.1 once it crosses defaultMaxLogBytes.
type Logger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// Open creates or appends to the audit log at path.
func Open(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("auditlog: opening %s: %w", path, err)
	}
	return &Logger{path: path, file: file}, nil
}

// rotateIfNeeded rotates the log file once it has reached
// defaultMaxLogBytes. Must be called with l.mu held.
func (l *Logger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < defaultMaxLogBytes {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log before rotation: %w", err)
	}

	rotated := l.path + ".1"
	_ = os.Remove(rotated)
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open fresh log after rotation: %w", err)
	}
	l.file = f
	return nil
}

// Log redacts event.Command/Args/Error and appends it as one JSON line.
// A nil Logger is a no-op, so callers can log unconditionally whether or
// not an audit log was configured.
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "auditlog: warning: log rotation failed: %v\n", err)
	}

	event.Command = redact.Redact(event.Command)
	event.Args = redact.RedactArgs(event.Args)
	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("auditlog: marshaling event: %w", err)
	}
	data = append(data, '\n')

	_, err = l.file.Write(data)
	return err
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
