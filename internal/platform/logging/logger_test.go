package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("component", "pick")

	logger.Info("pick submitted", "user_id", "u-1", "error", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{`"msg":"pick submitted"`, `"component":"pick"`, `"user_id":"u-1"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}
}

func TestLogger_MirrorReceivesMergedArgs(t *testing.T) {
	var (
		mu       sync.Mutex
		messages []string
		gotArgs  []any
	)
	SetMirror(func(_ context.Context, _ Level, msg string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, msg)
		gotArgs = args
	})
	defer SetMirror(nil)

	var buf bytes.Buffer
	NewJSONWriter(&buf, LevelDebug).With("scope", "global").InfoContext(context.Background(), "standings refreshed", "rows", 3)

	mu.Lock()
	defer mu.Unlock()
	if len(messages) != 1 || messages[0] != "standings refreshed" {
		t.Fatalf("unexpected mirrored messages: %v", messages)
	}
	if len(gotArgs) != 4 || gotArgs[0] != "scope" || gotArgs[3] != 3 {
		t.Fatalf("unexpected mirrored args: %v", gotArgs)
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("a", 1) == nil {
		t.Fatalf("expected nop logger from nil receiver")
	}
}
