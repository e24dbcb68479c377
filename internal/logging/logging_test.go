package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDailyWriterWriteAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewDailyWriterWithPrefix(dir, "", 0)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer writer.Close()

	if _, err := writer.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if writer.retentionDays != defaultRetentionDays {
		t.Fatalf("expected default retention, got %d", writer.retentionDays)
	}

	date := time.Now().Format("20060102")
	path := filepath.Join(dir, "investchat-"+date+".log")
	if writer.Path() != path {
		t.Fatalf("expected path %q, got %q", path, writer.Path())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log content missing")
	}
}

func TestDailyWriterRotatesAtMidnight(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewDailyWriterWithPrefix(dir, "rot", 7)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer writer.Close()

	day := time.Date(2025, 8, 12, 23, 59, 0, 0, time.Local)
	writer.now = func() time.Time { return day }
	if _, err := writer.Write([]byte("late\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	day = day.Add(2 * time.Minute)
	if _, err := writer.Write([]byte("early\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(dir, "rot-20250812.log"))
	if err != nil || !strings.Contains(string(first), "late") {
		t.Fatalf("expected first day file, got %q %v", first, err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "rot-20250813.log"))
	if err != nil || !strings.Contains(string(second), "early") {
		t.Fatalf("expected second day file, got %q %v", second, err)
	}
}

func TestDailyWriterRotateAndCleanup(t *testing.T) {
	dir := t.TempDir()
	prefix := "test"

	oldDate := time.Now().AddDate(0, 0, -3).Format("20060102")
	recentDate := time.Now().Format("20060102")
	oldPath := filepath.Join(dir, prefix+"-"+oldDate+".log")
	recentPath := filepath.Join(dir, prefix+"-"+recentDate+".log")
	otherPath := filepath.Join(dir, "other-"+oldDate+".log")
	for _, path := range []string{oldPath, recentPath, otherPath} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	writer, err := NewDailyWriterWithPrefix(dir, prefix, 1)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer writer.Close()

	if _, err := os.Stat(oldPath); err == nil {
		t.Fatalf("expected old log to be removed")
	}
	if _, err := os.Stat(recentPath); err != nil {
		t.Fatalf("expected recent log to remain: %v", err)
	}
	if _, err := os.Stat(otherPath); err != nil {
		t.Fatalf("expected foreign log to remain: %v", err)
	}
}

func TestDailyWriterCloseNil(t *testing.T) {
	w := &DailyWriter{}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Path() != "" {
		t.Fatalf("expected empty path")
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envLogFormat, "json")
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var console bytes.Buffer
	logger, writer, err := NewLogger(Options{Dir: t.TempDir(), Level: slog.LevelWarn, Console: &console})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer writer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "user_id", "u1")
	out := console.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"service":"investchat"`) {
		t.Fatalf("expected json record, got %s", out)
	}

	data, err := os.ReadFile(writer.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "shown") {
		t.Fatalf("expected record in log file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"-4":      slog.LevelDebug,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input, slog.LevelInfo); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestEnvLevelOverrides(t *testing.T) {
	t.Setenv(envLogLevel, "debug")
	if got := resolveLevel(slog.LevelError); got != slog.LevelDebug {
		t.Fatalf("expected env override, got %v", got)
	}
}
