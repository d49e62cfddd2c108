package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"raf_pnp_backend/platform/actor"

	"github.com/google/uuid"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestWithContextAddsRequestAndActor(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	userID := uuid.New()
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = actor.WithActor(ctx, actor.User(userID, "Thandi Mokoena"))
	log.WithContext(ctx).Info("case_created")

	rec := decode(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Fatalf("expected request id, got %v", rec["request_id"])
	}
	a, ok := rec["actor"].(map[string]any)
	if !ok {
		t.Fatalf("expected actor group, got %v", rec["actor"])
	}
	if a["id"] != userID.String() || a["name"] != "Thandi Mokoena" || a["kind"] != "user" {
		t.Fatalf("unexpected actor fields %v", a)
	}
}

func TestWithContextWithoutValuesReturnsSameLogger(t *testing.T) {
	log := NewWithWriter("production", &bytes.Buffer{})
	if log.WithContext(context.Background()) != log {
		t.Fatal("expected the receiver when the context carries nothing")
	}
}

func TestRequestLogsServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Request("POST", "/api/v1/cases", 500, 12*time.Millisecond, "10.0.0.1", errors.New("db down"))

	rec := decode(t, &buf)
	if rec["level"] != "ERROR" || rec["error"] != "db down" {
		t.Fatalf("unexpected record %v", rec)
	}
	if rec["latency_ms"] != float64(12) {
		t.Fatalf("expected latency 12, got %v", rec["latency_ms"])
	}
}

func TestRequestIgnoresErrorBelowServerRange(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Request("GET", "/api/v1/cases/x", 404, time.Millisecond, "10.0.0.1", errors.New("not found"))

	rec := decode(t, &buf)
	if rec["level"] != "INFO" {
		t.Fatalf("expected info level, got %v", rec["level"])
	}
	if _, ok := rec["error"]; ok {
		t.Fatal("client errors should not carry the error field")
	}
}
