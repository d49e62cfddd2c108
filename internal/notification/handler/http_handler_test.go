package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raf_pnp_backend/internal/notification/inapp"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubStore struct {
	unreadOnly bool
	limit      int
	read       map[uuid.UUID]bool
}

func (s *stubStore) Create(context.Context, inapp.CreateParams) (inapp.Notification, error) {
	return inapp.Notification{}, nil
}

func (s *stubStore) ListForUser(_ context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]inapp.Notification, error) {
	s.unreadOnly = unreadOnly
	s.limit = limit
	return []inapp.Notification{{ID: uuid.New(), UserID: userID, Title: "t", Message: "m"}}, nil
}

func (s *stubStore) CountUnread(context.Context, uuid.UUID) (int, error) { return 3, nil }

func (s *stubStore) MarkRead(_ context.Context, id uuid.UUID, _ time.Time) error {
	if !s.read[id] {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *stubStore) MarkAllRead(context.Context, uuid.UUID, time.Time) (int64, error) {
	return 2, nil
}

func (s *stubStore) Delete(context.Context, uuid.UUID) error { return nil }

func newRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHTTPHandler(inapp.NewService(store, logger.New("test"))).RegisterRoutes(r.Group("/notifications"))
	return r
}

func TestListPassesUnreadOnlyAndLimit(t *testing.T) {
	store := &stubStore{}
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/user/"+uuid.NewString()+"?unreadOnly=true", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !store.unreadOnly || store.limit != inapp.ListLimit {
		t.Fatalf("unexpected list args unreadOnly=%v limit=%d", store.unreadOnly, store.limit)
	}
	var body struct {
		Items []inapp.Notification `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body.Items) != 1 {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCountUnread(t *testing.T) {
	r := newRouter(&stubStore{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/user/"+uuid.NewString()+"/count", nil))

	if w.Code != http.StatusOK || w.Body.String() != `{"count":3}` {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestMarkReadUnknownIsNotFound(t *testing.T) {
	r := newRouter(&stubStore{read: map[uuid.UUID]bool{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/notifications/"+uuid.NewString()+"/read", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	r := newRouter(&stubStore{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notifications/not-a-uuid", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
