package whatsapp

import (
	"context"
	"errors"
	"time"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Transport is the outbound WhatsApp seam. A nil error means the message
// was accepted for delivery.
type Transport interface {
	SendNotification(ctx context.Context, phoneNumber, message string) error
}

// ErrProviderNotConfigured is returned by a Provider without a gateway.
var ErrProviderNotConfigured = errors.New("whatsapp provider not configured")

const simulatedDeliveryDelay = 2 * time.Second

// New selects the simulator or the real provider from configuration.
func New(cfg config.WhatsAppConfig, store Store, log *logger.Logger) Transport {
	if cfg.UseWhatsAppSimulator() {
		log.Info("whatsapp transport: simulator")
		return NewSimulator(store, log)
	}
	client := NewClient(cfg, log)
	if client == nil {
		log.Warn("whatsapp transport: provider selected without a gateway url, sends will fail")
		return NewProvider(nil, store, log)
	}
	log.Info("whatsapp transport: gowa provider")
	return NewProvider(client, store, log)
}

// IsSimulated reports whether t only records messages.
func IsSimulated(t Transport) bool {
	_, ok := t.(*Simulator)
	return ok
}

// Simulator logs messages as sent without contacting any gateway.
type Simulator struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewSimulator(store Store, log *logger.Logger) *Simulator {
	return &Simulator{store: store, log: log, now: time.Now}
}

func (s *Simulator) SendNotification(ctx context.Context, phoneNumber, message string) error {
	now := s.now()
	delivered := now.Add(simulatedDeliveryDelay)
	externalID := "SIM-" + uuid.NewString()
	refs := refsFrom(ctx)

	_, err := s.store.Create(ctx, Message{
		ToPhoneNumber:     phoneNumber,
		MessageBody:       message,
		Status:            StatusSent,
		IsSimulated:       true,
		ExternalMessageID: &externalID,
		TaskID:            refs.TaskID,
		CaseID:            refs.CaseID,
		UserID:            refs.UserID,
		SentAt:            &now,
		DeliveredAt:       &delivered,
	})
	if err != nil {
		return err
	}

	s.log.Info("whatsapp simulated", "phone", phoneNumber, "preview", preview(message))
	return nil
}

type gateway interface {
	SendMessage(ctx context.Context, phoneNumber, message string) (string, error)
}

// Provider delivers through the GOWA gateway and records each attempt.
type Provider struct {
	gateway gateway
	store   Store
	limiter *rate.Limiter
	log     *logger.Logger
	now     func() time.Time
}

// NewProvider builds a provider. A nil gateway makes every send fail with
// ErrProviderNotConfigured.
func NewProvider(gw gateway, store Store, log *logger.Logger) *Provider {
	p := &Provider{
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		log:     log,
		now:     time.Now,
	}
	// Keep the interface nil when the concrete client is nil.
	if c, ok := gw.(*Client); !ok || c != nil {
		p.gateway = gw
	}
	return p
}

func (p *Provider) SendNotification(ctx context.Context, phoneNumber, message string) error {
	if p.gateway == nil {
		return apperr.TransportFailure("whatsapp provider is not configured", ErrProviderNotConfigured)
	}

	refs := refsFrom(ctx)
	queued, err := p.store.Create(ctx, Message{
		ToPhoneNumber: phoneNumber,
		MessageBody:   message,
		Status:        StatusQueued,
		TaskID:        refs.TaskID,
		CaseID:        refs.CaseID,
		UserID:        refs.UserID,
	})
	if err != nil {
		return err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return p.fail(ctx, queued.ID, err)
	}

	externalID, err := p.gateway.SendMessage(ctx, phoneNumber, message)
	if err != nil {
		return p.fail(ctx, queued.ID, err)
	}

	if err := p.store.MarkSent(ctx, queued.ID, externalID, p.now()); err != nil {
		p.log.Error("failed to mark whatsapp message sent", "messageId", queued.ID, "error", err)
	}
	return nil
}

func (p *Provider) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if err := p.store.MarkFailed(ctx, id, cause.Error()); err != nil {
		p.log.Error("failed to mark whatsapp message failed", "messageId", id, "error", err)
	}
	return apperr.TransportFailure("whatsapp delivery failed", cause)
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= 50 {
		return message
	}
	return string(runes[:50]) + "..."
}

var (
	_ Transport = (*Simulator)(nil)
	_ Transport = (*Provider)(nil)
)
