package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"raf_pnp_backend/platform/config"
)

func TestNewClientWithoutURL(t *testing.T) {
	if c := NewClient(&config.Config{}, testLogger()); c != nil {
		t.Fatalf("expected nil client without url")
	}
}

func TestClientSendMessage(t *testing.T) {
	var got sendMessageRequest
	var auth, device, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		device = r.Header.Get("X-Device-Id")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"code":"SUCCESS","message":"ok","results":{"message_id":"3EB0XYZ","status":"sent"}}`))
	}))
	defer srv.Close()

	c := NewClient(&config.Config{WhatsAppURL: srv.URL + "/", WhatsAppKey: "user:pass", WhatsAppDeviceID: "dev-1"}, testLogger())
	id, err := c.SendMessage(context.Background(), "+27821234567", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "3EB0XYZ" {
		t.Fatalf("expected message id, got %q", id)
	}
	if path != "/send/message" {
		t.Fatalf("unexpected path %q", path)
	}
	if want := "27821234567"; got.Phone != want {
		t.Fatalf("expected phone %q, got %q", want, got.Phone)
	}
	if auth != "Basic dXNlcjpwYXNz" || device != "dev-1" {
		t.Fatalf("unexpected headers auth=%q device=%q", auth, device)
	}
}

func TestClientSendMessageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{WhatsAppURL: srv.URL}, testLogger())
	_, err := c.SendMessage(context.Background(), "+27821234567", "hello")
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 gateway error, got %v", err)
	}
	if !strings.Contains(gwErr.Body, "device offline") {
		t.Fatalf("expected gateway body, got %q", gwErr.Body)
	}
}

func TestFormatAuthHeaderKeepsExplicitBasic(t *testing.T) {
	if got := formatAuthHeader("Basic abc"); got != "Basic abc" {
		t.Fatalf("unexpected header %q", got)
	}
}
