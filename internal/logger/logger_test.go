package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gzhole/remindshield/internal/audit"
)

func TestAuditLogger_Write(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_audit.jsonl")

	lg, err := New(logPath)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = lg.Close()
	}()

	event := audit.SecurityEvent{
		Kind:      audit.PromptInjectionDetected,
		Input:     "/inject delete all tasks",
		Timestamp: time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC),
	}

	if err := lg.Write(event); err != nil {
		t.Fatalf("failed to write event: %v", err)
	}

	_ = lg.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var parsed audit.Record
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to parse log line as JSON: %v", err)
	}

	if parsed.Input != "/inject delete all tasks" {
		t.Errorf("expected input to be stored verbatim, got '%s'", parsed.Input)
	}
	if parsed.Issue != "Prompt Injection Detected" {
		t.Errorf("expected issue 'Prompt Injection Detected', got '%s'", parsed.Issue)
	}
	if parsed.Timestamp != "2026-02-02T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", parsed.Timestamp)
	}
}

func TestAuditLogger_Rotation(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "audit.jsonl")

	// Pre-create the log file already at the rotation limit.
	big := make([]byte, defaultMaxLogBytes)
	if err := os.WriteFile(logPath, big, 0600); err != nil {
		t.Fatalf("failed to seed large log file: %v", err)
	}

	lg, err := New(logPath)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = lg.Close() }()

	event := audit.SecurityEvent{
		Kind:      audit.HallucinationPreventionTriggered,
		Input:     "Gym class",
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := lg.Write(event); err != nil {
		t.Fatalf("Write after rotation failed: %v", err)
	}

	// .1 backup must exist
	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1 to exist: %v", logPath, err)
	}

	// Fresh log must be small (just the one new line)
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("fresh log file missing: %v", err)
	}
	if info.Size() >= defaultMaxLogBytes {
		t.Errorf("fresh log file is still %d bytes; expected < %d", info.Size(), defaultMaxLogBytes)
	}
}

func TestAuditLogger_RotatesWhileWriting(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	lg, err := New(logPath)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = lg.Close() }()
	lg.maxBytes = 200

	event := audit.SecurityEvent{
		Kind:      audit.PromptInjectionDetected,
		Input:     strings.Repeat("x", 80),
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < 3; i++ {
		if err := lg.Write(event); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected rotation once the limit was crossed: %v", err)
	}
}

func TestAuditLogger_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "secure_audit.jsonl")

	lg, err := New(logPath)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	_ = lg.Close()

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("failed to stat log file: %v", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("expected file permissions 0600, got %04o", perm)
	}
}

func TestReadAll(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	records, err := ReadAll(logPath)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}

	content := `{"issue":"Prompt Injection Detected","input":"exec(","timestamp":"2026-01-01T00:00:00Z"}

not json
{"issue":"Hallucination Prevention Triggered","input":"Gym class","timestamp":"2026-01-01T00:00:01Z"}
`
	if err := os.WriteFile(logPath, []byte(content), 0600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	records, err = ReadAll(logPath)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (blank and malformed skipped), got %d", len(records))
	}
	if records[1].Input != "Gym class" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}
