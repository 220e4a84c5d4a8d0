package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pinyinsub/internal/config"
	"pinyinsub/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "pinyinsub.log"))
	if !strings.Contains(content, "debug message") {
		t.Fatalf("expected debug line, got %q", content)
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "merge").Info("records fused",
		logging.Int("fused", 3),
		logging.String("video", "my show.mkv"),
	)
	logger.Debug("hidden")

	content := readLog(t, logPath)
	if !strings.Contains(content, " INFO merge: records fused") {
		t.Fatalf("missing component prefix: %q", content)
	}
	if !strings.Contains(content, "fused=3") || !strings.Contains(content, `video="my show.mkv"`) {
		t.Fatalf("missing fields: %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line should be filtered at info: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information at info level: %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information, got %q", content)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-123")
	logging.WithContext(ctx, logger).Info("generated", logging.Error(errors.New("boom")))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	assertField := func(key string, want any) {
		t.Helper()
		if payload[key] != want {
			t.Errorf("%s = %v, want %v", key, payload[key], want)
		}
	}
	assertField("msg", "generated")
	assertField("level", "info")
	assertField(logging.FieldRunID, "run-123")
	assertField("error", "boom")
	if _, ok := payload["ts"]; !ok {
		t.Error("expected ts field")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "track skipped", "track_skipped", logging.String(logging.FieldImpact, "track ignored"))

	content := readLog(t, logPath)
	for _, want := range []string{"event_type=track_skipped", `error_hint="check logs for details"`, `impact="track ignored"`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in %q", want, content)
		}
	}
}

func TestRunIDFromContext(t *testing.T) {
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id")
	}
	ctx := logging.WithRunID(context.Background(), "abc")
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
	logging.NewNop().Info("discarded")
}
