// Package notification owns in-app notifications and their delivery to
// WhatsApp and email. Domain modules call the Dispatcher through their own
// ports; committed domain events are pushed to connected browsers over SSE.
package notification

import (
	"context"
	"strings"

	"raf_pnp_backend/internal/email"
	"raf_pnp_backend/internal/events"
	apphttp "raf_pnp_backend/internal/http"
	notifhandler "raf_pnp_backend/internal/notification/handler"
	"raf_pnp_backend/internal/notification/inapp"
	"raf_pnp_backend/internal/notification/sse"
	"raf_pnp_backend/internal/whatsapp"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/httpkit"
	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module handles notification routes and event subscriptions.
type Module struct {
	dispatcher   *Dispatcher
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
	sse          *sse.Service
	teams        TeamMemberReader
	queryUser    bool
	log          *logger.Logger
}

// New builds the module. Recipient and team readers are injected with the
// setters once the users and teams modules exist.
func New(pool *pgxpool.Pool, transport whatsapp.Transport, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	stream := sse.New(log)

	dispatcher := NewDispatcher(repo, transport, sender, cfg.GetAppBaseURL(), log)
	dispatcher.SetSSE(stream)

	svc := inapp.NewService(repo, log)
	return &Module{
		dispatcher:   dispatcher,
		inAppService: svc,
		inAppHandler: notifhandler.NewHTTPHandler(svc),
		sse:          stream,
		queryUser:    cfg.IsDevelopment(),
		log:          log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	notifications.GET("/stream", m.sse.Handler(streamUserID(m.queryUser)))
	m.inAppHandler.RegisterRoutes(notifications)
}

// streamUserID resolves the stream owner from the authenticated caller.
// The ?userId= fallback is honoured only when allowQuery is set, which is
// limited to development.
func streamUserID(allowQuery bool) func(c *gin.Context) (uuid.UUID, bool) {
	return func(c *gin.Context) (uuid.UUID, bool) {
		if caller, ok := httpkit.CallerFrom(c); ok {
			return caller.ID, true
		}
		if !allowQuery {
			return uuid.Nil, false
		}
		id, err := uuid.Parse(strings.TrimSpace(c.Query("userId")))
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
}

// Dispatcher exposes the notification dispatcher for the composition root.
func (m *Module) Dispatcher() *Dispatcher { return m.dispatcher }

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// SSE returns the live event stream.
func (m *Module) SSE() *sse.Service { return m.sse }

func (m *Module) SetRecipientReader(r RecipientReader) { m.dispatcher.SetRecipientReader(r) }

func (m *Module) SetTeamMemberReader(r TeamMemberReader) {
	m.teams = r
	m.dispatcher.SetTeamMemberReader(r)
}

// RegisterHandlers subscribes to the domain events pushed over SSE.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CaseStatusChanged{}.EventName(), m)
	bus.Subscribe(events.DocumentUploaded{}.EventName(), m)
	bus.Subscribe(events.TaskAssigned{}.EventName(), m)
	bus.Subscribe(events.TaskCompleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CaseStatusChanged:
		return m.handleCaseStatusChanged(ctx, e)
	case events.DocumentUploaded:
		m.sse.Broadcast(sse.Event{
			Type:    sse.EventDocumentUploaded,
			CaseID:  e.CaseID,
			Message: e.DocumentName,
			Data:    e,
		})
		return nil
	case events.TaskAssigned:
		m.sse.Publish(e.AssigneeID, sse.Event{Type: sse.EventTaskAssigned, TaskID: e.TaskID, Data: e})
		return nil
	case events.TaskCompleted:
		m.sse.Publish(e.CreatorID, sse.Event{Type: sse.EventTaskCompleted, TaskID: e.TaskID, Data: e})
		return nil
	default:
		return nil
	}
}

func (m *Module) handleCaseStatusChanged(ctx context.Context, e events.CaseStatusChanged) error {
	if e.AssignedTeamID == nil || m.teams == nil {
		return nil
	}
	members, err := m.teams.ActiveMemberIDs(ctx, *e.AssignedTeamID)
	if err != nil {
		return err
	}
	m.sse.PublishToUsers(members, sse.Event{
		Type:    sse.EventCaseStatusChanged,
		CaseID:  e.CaseID,
		Message: e.CaseNumber + ": " + e.OldStatus + " -> " + e.NewStatus,
		Data:    e,
	})
	return nil
}

var _ apphttp.Module = (*Module)(nil)
