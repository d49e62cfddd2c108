// Package sse pushes notification and case events to staff browsers over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType is the SSE "event:" field.
type EventType string

const (
	EventNotification      EventType = "notification"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventDocumentUploaded  EventType = "document_uploaded"
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskCompleted     EventType = "task_completed"
)

const (
	bufferSize        = 32
	keepAliveInterval = 25 * time.Second
)

// Event is serialised as the SSE data line.
type Event struct {
	Type    EventType `json:"type"`
	CaseID  uuid.UUID `json:"caseId,omitempty"`
	TaskID  uuid.UUID `json:"taskId,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// subscriber is one open stream. A user with several tabs has several.
type subscriber struct {
	userID uuid.UUID
	events chan Event
}

// Service tracks open streams by user.
type Service struct {
	log *logger.Logger

	mu     sync.RWMutex
	byUser map[uuid.UUID]map[*subscriber]struct{}
	closed bool
}

func New(log *logger.Logger) *Service {
	return &Service{log: log, byUser: make(map[uuid.UUID]map[*subscriber]struct{})}
}

func (s *Service) subscribe(userID uuid.UUID) (*subscriber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	sub := &subscriber{userID: userID, events: make(chan Event, bufferSize)}
	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[*subscriber]struct{})
	}
	s.byUser[userID][sub] = struct{}{}
	return sub, true
}

func (s *Service) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs, ok := s.byUser[sub.userID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.events)
	if len(subs) == 0 {
		delete(s.byUser, sub.userID)
	}
}

// Connected reports how many streams userID has open.
func (s *Service) Connected(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID])
}

// Publish queues event on every stream of userID. A stream whose buffer is
// full misses the event; the in-app list remains the source of truth.
func (s *Service) Publish(userID uuid.UUID, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.byUser[userID] {
		select {
		case sub.events <- event:
		default:
			s.log.Warn("sse buffer full, event dropped", "userId", userID, "event", event.Type)
		}
	}
}

// PublishToUsers publishes once per distinct user in userIDs.
func (s *Service) PublishToUsers(userIDs []uuid.UUID, event Event) {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.Publish(id, event)
	}
}

// Broadcast publishes to every connected user.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	users := make([]uuid.UUID, 0, len(s.byUser))
	for id := range s.byUser {
		users = append(users, id)
	}
	s.mu.RUnlock()
	s.PublishToUsers(users, event)
}

// Handler streams events for the user resolved by userOf. Requests it
// cannot attribute to a user are rejected with 401.
func (s *Service) Handler(userOf func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userOf(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sub, ok := s.subscribe(userID)
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
			return
		}
		defer s.unsubscribe(sub)

		h := c.Writer.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()
		s.log.Debug("sse stream opened", "userId", userID)

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-c.Request.Context().Done():
				s.log.Debug("sse stream closed by client", "userId", userID)
				return
			case <-keepAlive.C:
				c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
				c.Writer.Flush()
			case event, ok := <-sub.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Error("sse encode failed", "event", event.Type, "error", err)
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close ends every open stream and refuses new ones. It is registered as an
// http.Server shutdown hook so long-lived streams do not hold up shutdown.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, subs := range s.byUser {
		for sub := range subs {
			close(sub.events)
		}
		delete(s.byUser, id)
	}
}
