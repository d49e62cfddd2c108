package service

import (
	"context"
	"strings"

	"raf_pnp_backend/internal/clients/repository"
	"raf_pnp_backend/internal/clients/transport"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/phone"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is the persistence the client service needs.
type Store interface {
	Create(ctx context.Context, c repository.Client) (repository.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Client, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Client, int, error)
	Update(ctx context.Context, c repository.Client) (repository.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListCases(ctx context.Context, clientID uuid.UUID) ([]repository.CaseSummary, error)
}

// Service provides business logic for clients.
type Service struct {
	repo Store
	log  *logger.Logger
}

// New creates a new clients service.
func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	created, err := s.repo.Create(ctx, repository.Client{
		FirstName:   sanitize.Text(req.FirstName),
		LastName:    sanitize.Text(req.LastName),
		IDNumber:    strings.TrimSpace(req.IDNumber),
		PhoneNumber: phone.Optional(req.PhoneNumber),
		Email:       normalizeEmail(req.Email),
		Address:     sanitize.Optional(req.Address),
	})
	if err != nil {
		return transport.ClientResponse{}, err
	}
	s.log.Info("client created", "clientId", created.ID)
	return toClientResponse(created, nil), nil
}

// GetByID returns the client together with its cases.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	cases, err := s.repo.ListCases(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toClientResponse(c, cases), nil
}

func (s *Service) List(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Search: strings.TrimSpace(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	responses := make([]transport.ClientResponse, len(items))
	for i, item := range items {
		responses[i] = toClientResponse(item, nil)
	}
	return transport.ClientListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	if req.FirstName != nil {
		c.FirstName = sanitize.Text(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = sanitize.Text(*req.LastName)
	}
	if req.IDNumber != nil {
		c.IDNumber = strings.TrimSpace(*req.IDNumber)
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = phone.Optional(*req.PhoneNumber)
	}
	if req.Email != nil {
		c.Email = normalizeEmail(*req.Email)
	}
	if req.Address != nil {
		c.Address = sanitize.Optional(*req.Address)
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toClientResponse(updated, nil), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("client deleted", "clientId", id)
	return nil
}

func normalizeEmail(value string) *string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}
	return &value
}

func toClientResponse(c repository.Client, cases []repository.CaseSummary) transport.ClientResponse {
	resp := transport.ClientResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    strings.TrimSpace(c.FirstName + " " + c.LastName),
		IDNumber:    c.IDNumber,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		Address:     c.Address,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if cases != nil {
		resp.Cases = make([]transport.ClientCaseResponse, len(cases))
		for i, cs := range cases {
			resp.Cases[i] = transport.ClientCaseResponse{
				ID:           cs.ID,
				CaseNumber:   cs.CaseNumber,
				Status:       cs.Status,
				AccidentDate: cs.AccidentDate.Format("2006-01-02"),
				DateOpened:   cs.DateOpened,
			}
		}
	}
	return resp
}
