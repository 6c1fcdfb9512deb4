package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestIsHealthRequestLog(t *testing.T) {
	if !isHealthRequestLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isHealthRequestLog("http request", []any{"path", "/v1/picks"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if isHealthRequestLog("qstash publish request", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"gameweek_id", "gw-3", 42, 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "gameweek_id" || attrs[0].Value.AsString() != "gw-3" {
		t.Fatalf("unexpected gameweek_id attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "arg_1" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected positional attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[2])
	}
}

func TestLogValue(t *testing.T) {
	v := logValue(map[string]any{"points": 3, "correct": true}, 0)
	if v.Kind() != otellog.KindMap || len(v.AsMap()) != 2 {
		t.Fatalf("expected 2-item map, got %s", v.Kind())
	}
	if items := v.AsMap(); items[0].Key != "correct" {
		t.Fatalf("expected sorted keys, got %s first", items[0].Key)
	}

	if got := logValue(errors.New("team exhausted"), 0); got.AsString() != "team exhausted" {
		t.Fatalf("unexpected error value: %s", got.AsString())
	}
	if got := logValue(uint16(7), 0); got.AsInt64() != 7 {
		t.Fatalf("unexpected uint value: %d", got.AsInt64())
	}
	if got := logValue([]string{"gw-1", "gw-2"}, 0); got.Kind() != otellog.KindSlice || len(got.AsSlice()) != 2 {
		t.Fatalf("unexpected slice value: %s", got.Kind())
	}
	if got := logValue(1500*time.Millisecond, 0); got.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value: %s", got.AsString())
	}
}

func TestSeverityOf(t *testing.T) {
	if severityOf(logging.LevelWarn) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if severityOf(logging.LevelError) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
