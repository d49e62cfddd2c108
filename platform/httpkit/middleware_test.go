package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type testJWTConfig struct{ secret string }

func (c testJWTConfig) GetJWTAccessSecret() string { return c.secret }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsWrappedDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", apperr.NotFound("case not found"), http.StatusNotFound, "not_found"},
		{"wrapped transition", wrap(apperr.InvalidTransition("not allowed")), http.StatusUnprocessableEntity, "invalid_transition"},
		{"transport", apperr.TransportFailure("whatsapp failed", errors.New("dial")), http.StatusBadGateway, "transport_failure"},
		{"plain", errors.New("db is down"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if !HandleError(c, tc.err) {
				t.Fatal("expected error to be handled")
			}
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, body.Kind)
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Fatal("nil error should not be handled")
	}
}

func wrap(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestRequestIDPropagatesHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != "abc-123" {
		t.Fatalf("expected request id on context, got %q", seen)
	}
	if w.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", w.Header().Get(HeaderRequestID))
	}
}

func TestActorFallsBackToSystem(t *testing.T) {
	system := actor.System(uuid.Nil, "")
	r := gin.New()
	r.Use(Actor(system))
	var got actor.Actor
	r.GET("/", func(c *gin.Context) {
		got, _ = actor.FromContext(c.Request.Context())
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !got.IsSystem() || got.Label() != "System" {
		t.Fatalf("expected system actor, got %+v", got)
	}
}

func TestAuthRequiredSetsUserActor(t *testing.T) {
	cfg := testJWTConfig{secret: "test-secret"}
	userID := uuid.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"name":  "Sanjay Pather",
		"roles": []string{"attorney"},
		"type":  "access",
	})
	signed, err := token.SignedString([]byte(cfg.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	r := gin.New()
	r.Use(AuthRequired(cfg), Actor(actor.System(uuid.Nil, "")))
	var got actor.Actor
	r.GET("/", func(c *gin.Context) {
		got, _ = actor.FromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.Kind != actor.KindUser || got.ID != userID || got.Name != "Sanjay Pather" {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	r := gin.New()
	r.Use(AuthRequired(testJWTConfig{secret: "s"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	cfg := testJWTConfig{secret: "test-secret"}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"type": "refresh",
	}).SignedString([]byte(cfg.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	r := gin.New()
	r.Use(AuthRequired(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/?token="+signed, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter("test", rate.Every(time.Hour), 2, nil)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("burst should admit two requests")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("third request should be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter("test", rate.Every(time.Hour), 1, nil)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	l.Allow("10.0.0.2")

	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Fatal("idle client should have been evicted")
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter("test", rate.Every(time.Hour), 1, nil).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
}
