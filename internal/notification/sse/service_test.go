package sse

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newService() *Service {
	return New(logger.NewWithWriter("production", io.Discard))
}

func TestPublishToUsersDeduplicates(t *testing.T) {
	s := newService()
	userID := uuid.New()
	sub, _ := s.subscribe(userID)

	s.PublishToUsers([]uuid.UUID{userID, userID, uuid.New()}, Event{Type: EventCaseStatusChanged})

	if got := len(sub.events); got != 1 {
		t.Fatalf("expected 1 event, got %d", got)
	}
}

func TestBroadcastReachesEveryStream(t *testing.T) {
	s := newService()
	a, _ := s.subscribe(uuid.New())
	b, _ := s.subscribe(uuid.New())
	userID := uuid.New()
	c1, _ := s.subscribe(userID)
	c2, _ := s.subscribe(userID)

	s.Broadcast(Event{Type: EventDocumentUploaded})

	for i, sub := range []*subscriber{a, b, c1, c2} {
		if len(sub.events) != 1 {
			t.Fatalf("stream %d did not receive the event", i)
		}
	}
}

func TestFullBufferDropsEvent(t *testing.T) {
	s := newService()
	sub, _ := s.subscribe(uuid.New())

	for i := 0; i < bufferSize+5; i++ {
		s.Publish(sub.userID, Event{Type: EventNotification})
	}

	if len(sub.events) != bufferSize {
		t.Fatalf("expected buffer to cap at %d, got %d", bufferSize, len(sub.events))
	}
}

func TestUnsubscribeClosesStream(t *testing.T) {
	s := newService()
	sub, _ := s.subscribe(uuid.New())
	s.unsubscribe(sub)
	s.unsubscribe(sub)

	if s.Connected(sub.userID) != 0 {
		t.Fatal("expected no connections")
	}
	if _, ok := <-sub.events; ok {
		t.Fatal("expected channel to be closed")
	}
	s.Publish(sub.userID, Event{Type: EventNotification})
}

func TestCloseRefusesNewStreams(t *testing.T) {
	s := newService()
	sub, _ := s.subscribe(uuid.New())
	s.Close()

	if _, ok := <-sub.events; ok {
		t.Fatal("open stream should be closed")
	}
	s.unsubscribe(sub)
	if _, ok := s.subscribe(uuid.New()); ok {
		t.Fatal("subscribe after Close should fail")
	}
}

func TestHandlerStreamsPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newService()
	userID := uuid.New()

	r := gin.New()
	r.GET("/stream", s.Handler(func(*gin.Context) (uuid.UUID, bool) { return userID, true }))
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(prefix string) {
		t.Helper()
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", prefix, lines.Err())
	}

	waitFor("event:connected")
	s.Publish(userID, Event{Type: EventTaskAssigned, Message: "Draft particulars"})
	waitFor("event:task_assigned")
}

func TestHandlerRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newService()
	r := gin.New()
	r.GET("/stream", s.Handler(func(*gin.Context) (uuid.UUID, bool) { return uuid.Nil, false }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
