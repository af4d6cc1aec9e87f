package auditlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLog_WritesOneJSONLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	if err := l.Log(Event{Timestamp: time.Unix(0, 0), Type: EventScan, Program: "./target"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := l.Log(Event{Timestamp: time.Unix(0, 0), Type: EventAttack, Axis: "memory"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if first.Type != EventScan || first.Program != "./target" {
		t.Errorf("first event = %+v, want type=scan program=./target", first)
	}
}

func TestLog_RedactsSecretsInCommandAndArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	err = l.Log(Event{
		Type:    EventAttack,
		Command: "curl",
		Args:    []string{"-H", "api_key=abcdef0123456789abcdef"},
		Error:   "failed with api_key=abcdef0123456789abcdef",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "abcdef0123456789abcdef") {
		t.Errorf("log line retained secret: %s", data)
	}
	if !strings.Contains(string(data), "[REDACTED]") {
		t.Errorf("log line missing redaction marker: %s", data)
	}
}

func TestLog_DoesNotRotateBelowLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Write a handful of small events, far below the 10MB threshold, and
	// confirm rotateIfNeeded never produced a rotated file.
	for i := 0; i < 5; i++ {
		if err := l.Log(Event{Type: EventScan, Program: "p"}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
	l.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Errorf("rotated file exists after only a few small writes")
	}
}

func TestOpen_AppendsAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l1.Log(Event{Type: EventScan})
	l1.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l2.Log(Event{Type: EventAttack})
	l2.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open for read: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		count++
	}
	if count != 2 {
		t.Errorf("got %d lines across two Open calls, want 2", count)
	}
}
