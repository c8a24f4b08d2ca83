package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNew_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "recon.log")

	logger, err := New(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestStreamLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}

func TestStreamLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, DebugLevel)

	logger.Error(context.Background(), "walk failed", errors.New("permission denied"), Fields{
		"root":  "/photos",
		"files": 3,
	})

	line := buf.String()
	if !strings.Contains(line, "[ERROR] walk failed") {
		t.Errorf("unexpected line: %s", line)
	}
	if !strings.Contains(line, `error="permission denied"`) {
		t.Errorf("error not rendered: %s", line)
	}
	// fields are sorted by key
	if strings.Index(line, "files=3") > strings.Index(line, "root=/photos") {
		t.Errorf("fields not sorted: %s", line)
	}
}

func TestStreamLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatJSON, InfoLevel)

	logger.Info(context.Background(), "indexed location", Fields{"location": "Source", "unique": 2})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["message"] != "indexed location" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["location"] != "Source" {
		t.Errorf("location = %v", entry["location"])
	}
}

func TestStreamLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWriterLogger(&buf, FormatText, InfoLevel)
	child := base.WithFields(Fields{"run_id": "abc"})

	child.Info(context.Background(), "child", Fields{"n": 1})
	base.Info(context.Background(), "parent", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "run_id=abc") || !strings.Contains(lines[0], "n=1") {
		t.Errorf("child fields missing: %s", lines[0])
	}
	if strings.Contains(lines[1], "run_id") {
		t.Errorf("parent should not carry child fields: %s", lines[1])
	}
}

func TestStreamLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "recon.log")

	logger, err := New(Config{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a reasonably long message to force rotation", nil)
	}
	logger.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected first backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestStreamLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			child := logger.WithFields(Fields{"worker": n})
			for j := 0; j < 10; j++ {
				child.Info(context.Background(), "tick", nil)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("got %d lines, want 100", len(lines))
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x", nil)
	logger.Info(ctx, "x", nil)
	logger.Warn(ctx, "x", nil)
	logger.Error(ctx, "x", errors.New("e"), nil)

	if logger.WithFields(Fields{"a": 1}) != Logger(logger) {
		t.Error("WithFields should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
