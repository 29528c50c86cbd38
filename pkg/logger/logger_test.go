package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if Named("test") == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	SetLevel(slog.LevelInfo)
	l := NewWithWriter(&buf).Named("render")

	ctx := context.Background()
	l.Info(ctx, "mark drawn", Int("pointer_id", 3), Bool("suppressed", false), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"mark drawn", "pointer_id=3", "suppressed=false", "error=boom", "component=render", "source="} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	ctx := context.Background()

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	defer SetLevel(slog.LevelInfo)

	l.Info(ctx, "hidden")
	l.Warn(ctx, "shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Error("info record written at warn level")
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("warn record missing")
	}
}

func TestSetLevelString(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) = %v", lvl, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	SetLevel(slog.LevelInfo)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error(context.Background(), "nothing happens")
	if l.Named("x") == nil {
		t.Fatal("named discard logger is nil")
	}
}
