package whatsapp

import (
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the transport, the templated senders and the message log.
type Module struct {
	transport Transport
	messages  *Messages
	handler   *Handler
}

type moduleConfig interface {
	config.WhatsAppConfig
	config.NotificationConfig
}

// NewModule selects the transport from cfg. The directory is supplied later
// through SetDirectory because it reads from modules built after this one.
func NewModule(pool *pgxpool.Pool, cfg moduleConfig, val *validator.Validator, log *logger.Logger) *Module {
	store := NewRepository(pool)
	transport := New(cfg, store, log)
	messages := NewMessages(transport, cfg.GetAppBaseURL(), log)
	return &Module{
		transport: transport,
		messages:  messages,
		handler:   NewHandler(store, messages, nil, val),
	}
}

func (m *Module) Name() string {
	return "whatsapp"
}

// Transport returns the configured outbound transport.
func (m *Module) Transport() Transport {
	return m.transport
}

// Messages returns the templated senders.
func (m *Module) Messages() *Messages {
	return m.messages
}

// SetDirectory injects the lookup used by manual sends.
func (m *Module) SetDirectory(dir Directory) {
	m.handler.dir = dir
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/whatsapp")
	m.handler.RegisterRoutes(group)

	send := group.Group("")
	if ctx.OutboundLimiter != nil {
		send.Use(ctx.OutboundLimiter.Middleware())
	}
	m.handler.RegisterSendRoutes(send)
}

var _ apphttp.Module = (*Module)(nil)
