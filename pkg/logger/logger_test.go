//go:build !integration

package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := log
	log = zap.New(core).Sugar()
	t.Cleanup(func() { log = prev })

	return logs
}

func TestNormalizeWrapsBareError(t *testing.T) {
	args := normalize([]any{errors.New("boom")})
	if len(args) != 1 {
		t.Fatalf("expected one field, got %d", len(args))
	}
	field, ok := args[0].(zap.Field)
	if !ok || field.Key != "error" {
		t.Fatalf("expected error field, got %#v", args[0])
	}
}

func TestNormalizeKeepsKeyValues(t *testing.T) {
	args := normalize([]any{"bid_id", 7})
	if len(args) != 2 {
		t.Fatalf("expected key/value pair to be kept, got %v", args)
	}
}

func TestErrorLogsStructuredFields(t *testing.T) {
	logs := observe(t)

	Error("Failed to settle", errors.New("gateway down"))
	Warn("Bid rejected", "bid_id", 7)

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["error"]; got != "gateway down" {
		t.Fatalf("expected error field, got %v", got)
	}

	if got := entries[1].ContextMap()["bid_id"]; got != int64(7) {
		t.Fatalf("expected bid_id 7, got %#v", got)
	}
}

func TestGormWriterRoutesIntoLogger(t *testing.T) {
	logs := observe(t)

	GormWriter{}.Printf("%s [%.3fms] %s\n", "user_repository.go:42", 1.5, "SELECT 1")

	if logs.Len() != 1 {
		t.Fatalf("expected one entry, got %d", logs.Len())
	}
	if msg := logs.All()[0].Message; msg != "user_repository.go:42 [1.500ms] SELECT 1" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestInitSelectsLogger(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	Init("production")
	if L().Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("production logger must not emit debug")
	}

	Init("development")
	if !L().Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("development logger must emit debug")
	}
}
