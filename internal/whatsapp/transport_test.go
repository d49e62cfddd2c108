package whatsapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

type memStore struct {
	messages []Message
}

func (m *memStore) Create(_ context.Context, msg Message) (Message, error) {
	msg.ID = uuid.New()
	msg.CreatedAt = fixedNow
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memStore) find(id uuid.UUID) *Message {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return &m.messages[i]
		}
	}
	return nil
}

func (m *memStore) MarkSent(_ context.Context, id uuid.UUID, externalID string, at time.Time) error {
	msg := m.find(id)
	msg.Status = StatusSent
	msg.ExternalMessageID = &externalID
	msg.SentAt = &at
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	msg := m.find(id)
	msg.Status = StatusFailed
	msg.ErrorMessage = &reason
	return nil
}

func (m *memStore) ListRecent(_ context.Context, limit int) ([]Message, error) {
	return m.messages, nil
}

func (m *memStore) ListByPhone(_ context.Context, phoneNumber string) ([]Message, error) {
	var out []Message
	for _, msg := range m.messages {
		if msg.ToPhoneNumber == phoneNumber {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeGateway struct {
	id    string
	err   error
	calls int
}

func (g *fakeGateway) SendMessage(_ context.Context, _, _ string) (string, error) {
	g.calls++
	return g.id, g.err
}

func testLogger() *logger.Logger {
	return logger.New("test")
}

func TestSimulatorRecordsSentMessage(t *testing.T) {
	store := &memStore{}
	sim := NewSimulator(store, testLogger())
	sim.now = func() time.Time { return fixedNow }

	taskID := uuid.New()
	ctx := WithRefs(context.Background(), Refs{TaskID: &taskID})
	if err := sim.SendNotification(ctx, "+27821234567", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(store.messages))
	}
	msg := store.messages[0]
	if msg.Status != StatusSent || !msg.IsSimulated {
		t.Fatalf("expected simulated sent message, got %+v", msg)
	}
	if msg.ExternalMessageID == nil || len(*msg.ExternalMessageID) < 4 || (*msg.ExternalMessageID)[:4] != "SIM-" {
		t.Fatalf("expected SIM- external id, got %v", msg.ExternalMessageID)
	}
	if msg.DeliveredAt == nil || !msg.DeliveredAt.Equal(fixedNow.Add(2*time.Second)) {
		t.Fatalf("expected delivery 2s after send, got %v", msg.DeliveredAt)
	}
	if msg.TaskID == nil || *msg.TaskID != taskID {
		t.Fatalf("expected task ref to be stored")
	}
}

func TestProviderWithoutGatewayFailsClosed(t *testing.T) {
	store := &memStore{}
	p := NewProvider(nil, store, testLogger())

	err := p.SendNotification(context.Background(), "+27821234567", "hello")
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
	if !apperr.Is(err, apperr.KindTransportFailure) {
		t.Fatalf("expected transport failure kind, got %v", apperr.KindOf(err))
	}
	if len(store.messages) != 0 {
		t.Fatalf("expected nothing recorded, got %d", len(store.messages))
	}
}

func TestProviderWithNilClientFailsClosed(t *testing.T) {
	var client *Client
	p := NewProvider(client, &memStore{}, testLogger())

	if err := p.SendNotification(context.Background(), "+27821234567", "hello"); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestProviderMarksSentOnSuccess(t *testing.T) {
	store := &memStore{}
	gw := &fakeGateway{id: "3EB0ABC"}
	p := NewProvider(gw, store, testLogger())
	p.now = func() time.Time { return fixedNow }

	if err := p.SendNotification(context.Background(), "+27821234567", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := store.messages[0]
	if msg.Status != StatusSent || msg.IsSimulated {
		t.Fatalf("expected real sent message, got %+v", msg)
	}
	if msg.ExternalMessageID == nil || *msg.ExternalMessageID != "3EB0ABC" {
		t.Fatalf("expected gateway id, got %v", msg.ExternalMessageID)
	}
}

func TestProviderMarksFailedOnGatewayError(t *testing.T) {
	store := &memStore{}
	gw := &fakeGateway{err: errors.New("gateway down")}
	p := NewProvider(gw, store, testLogger())

	err := p.SendNotification(context.Background(), "+27821234567", "hello")
	if !apperr.Is(err, apperr.KindTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	msg := store.messages[0]
	if msg.Status != StatusFailed || msg.ErrorMessage == nil || *msg.ErrorMessage != "gateway down" {
		t.Fatalf("expected failed message with reason, got %+v", msg)
	}
}

func TestNewSelectsVariant(t *testing.T) {
	sim := New(&config.Config{WhatsAppSimulator: true}, &memStore{}, testLogger())
	if !IsSimulated(sim) {
		t.Fatalf("expected simulator")
	}

	prov := New(&config.Config{WhatsAppSimulator: false}, &memStore{}, testLogger())
	if IsSimulated(prov) {
		t.Fatalf("expected provider")
	}
	if err := prov.SendNotification(context.Background(), "+27821234567", "x"); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected unconfigured provider to fail closed, got %v", err)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := "0123456789012345678901234567890123456789012345678901234"
	if got := preview(long); got != long[:50]+"..." {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := preview("short"); got != "short" {
		t.Fatalf("unexpected preview %q", got)
	}
}
