package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"raf_pnp_backend/internal/clients/repository"
	"raf_pnp_backend/internal/clients/service"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memStore struct {
	clients  map[uuid.UUID]repository.Client
	hasCases map[uuid.UUID]bool
}

func newMemStore() *memStore {
	return &memStore{clients: map[uuid.UUID]repository.Client{}, hasCases: map[uuid.UUID]bool{}}
}

func (m *memStore) Create(_ context.Context, c repository.Client) (repository.Client, error) {
	for _, existing := range m.clients {
		if existing.IDNumber == c.IDNumber {
			return repository.Client{}, apperr.Conflict("a client with this ID number already exists")
		}
	}
	c.ID = uuid.New()
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (repository.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return repository.Client{}, apperr.NotFound("client not found")
	}
	return c, nil
}

func (m *memStore) List(_ context.Context, _ repository.ListParams) ([]repository.Client, int, error) {
	out := make([]repository.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memStore) Update(_ context.Context, c repository.Client) (repository.Client, error) {
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if m.hasCases[id] {
		return apperr.Conflict("client has cases and cannot be deleted")
	}
	delete(m.clients, id)
	return nil
}

func (m *memStore) ListCases(_ context.Context, _ uuid.UUID) ([]repository.CaseSummary, error) {
	return []repository.CaseSummary{}, nil
}

func newRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(store, logger.New("test")), validator.New())
	r := gin.New()
	h.RegisterRoutes(r.Group("/clients"))
	return r
}

func TestCreateClientValidatesIDNumber(t *testing.T) {
	r := newRouter(newMemStore())

	cases := []struct {
		name     string
		idNumber string
		status   int
	}{
		{"valid luhn", "8001015009087", http.StatusCreated},
		{"bad check digit", "8001015009088", http.StatusBadRequest},
		{"too short", "800101500908", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{
				"firstName": "Thabo",
				"lastName":  "Mokoena",
				"idNumber":  tc.idNumber,
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body)))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateClientDuplicateIDNumber(t *testing.T) {
	r := newRouter(newMemStore())
	body, _ := json.Marshal(map[string]string{"firstName": "A", "lastName": "B", "idNumber": "8506120123086"})

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body)))
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
}

func TestDeleteClientWithCases(t *testing.T) {
	store := newMemStore()
	id := uuid.New()
	store.clients[id] = repository.Client{ID: id, FirstName: "Lerato"}
	store.hasCases[id] = true
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/clients/"+id.String(), nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestGetClientInvalidID(t *testing.T) {
	r := newRouter(newMemStore())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/not-a-uuid", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
