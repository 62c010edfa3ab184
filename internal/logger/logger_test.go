package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	log := initTo(&buf, "chartd", slog.LevelInfo)
	log.Debug("hidden")
	log.Info("hello", "k", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["service"] != "chartd" || rec["msg"] != "hello" {
		t.Errorf("record = %v", rec)
	}
	if slog.Default() != log {
		t.Error("Init should install the default logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNop(t *testing.T) {
	if Nop().Enabled(context.Background(), slog.LevelError) {
		t.Error("Nop logger should be disabled at every level")
	}
}

func TestEngineID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if id := EngineID(ctx); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if attrs := Attrs(ctx); attrs != nil {
		t.Errorf("expected nil attrs, got %v", attrs)
	}

	ctx = WithEngineID(ctx, "eng-123")
	if id := EngineID(ctx); id != "eng-123" {
		t.Errorf("expected 'eng-123', got %q", id)
	}
	if attrs := Attrs(ctx); len(attrs) != 1 {
		t.Errorf("expected one attr, got %v", attrs)
	}
}
