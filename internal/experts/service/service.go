// Package service manages expert appointments on RAF cases.
package service

import (
	"context"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/experts/domain"
	"raf_pnp_backend/internal/experts/transport"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/phone"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Appointment, error)
	Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOutstanding(ctx context.Context) (int, error)
}

// ActivityRecorder appends to a case log on the caller's unit of work.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, caseID uuid.UUID, draft casedomain.ActivityDraft) error
}

// Service provides expert appointment business logic.
type Service struct {
	repo       Repository
	uow        db.UnitOfWork
	activities ActivityRecorder
	loc        *time.Location
	now        func() time.Time
	log        *logger.Logger
}

// New creates an experts service. loc decides which calendar day a report
// was received on.
func New(repo Repository, uow db.UnitOfWork, activities ActivityRecorder, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, uow: uow, activities: activities, loc: loc, now: time.Now, log: log}
}

func (s *Service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

// Create books an expert and logs an ExpertAppointment activity on the case.
func (s *Service) Create(ctx context.Context, caseID uuid.UUID, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	status := domain.StatusPending
	if req.Status != "" {
		status = domain.Status(req.Status)
	}
	a := domain.Appointment{
		CaseID:          caseID,
		ExpertType:      domain.ExpertType(req.ExpertType),
		ExpertName:      sanitize.Text(req.ExpertName),
		PracticeName:    sanitize.Optional(req.PracticeName),
		ContactNumber:   phone.Optional(sanitize.Text(req.ContactNumber)),
		Email:           sanitize.Optional(req.Email),
		AppointmentDate: req.AppointmentDate,
		ExpertFee:       req.ExpertFee,
		FeePaid:         req.FeePaid,
		Notes:           sanitize.Optional(req.Notes),
	}
	a.ApplyStatus(status, s.today())

	var created domain.Appointment
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		out, err := s.repo.Create(ctx, a)
		if err != nil {
			return err
		}
		title, description := domain.AppointedActivity(out)
		if err := s.activities.RecordActivity(ctx, caseID, casedomain.ActivityDraft{
			Type:        casedomain.ActivityExpertAppointment,
			Title:       title,
			Description: description,
		}); err != nil {
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.log.Info("expert appointed", "caseId", caseID, "appointmentId", created.ID, "expertType", created.ExpertType)
	return toResponse(created), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return toResponse(a), nil
}

func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]transport.AppointmentResponse, error) {
	items, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentRequest) (transport.AppointmentResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	a.ExpertType = domain.ExpertType(req.ExpertType)
	a.ExpertName = sanitize.Text(req.ExpertName)
	a.PracticeName = sanitize.Optional(req.PracticeName)
	a.ContactNumber = phone.Optional(sanitize.Text(req.ContactNumber))
	a.Email = sanitize.Optional(req.Email)
	a.AppointmentDate = req.AppointmentDate
	a.ExpertFee = req.ExpertFee
	a.FeePaid = req.FeePaid
	a.Notes = sanitize.Optional(req.Notes)

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return toResponse(updated), nil
}

// UpdateStatus changes the appointment status. ReportReceived stamps the
// report date on first entry.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (transport.AppointmentResponse, error) {
	if !status.IsValid() {
		return transport.AppointmentResponse{}, apperr.Validation("invalid appointment status")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	a.ApplyStatus(status, s.today())

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// CountOutstanding counts appointments still waiting on a report.
func (s *Service) CountOutstanding(ctx context.Context) (int, error) {
	return s.repo.CountOutstanding(ctx)
}

func toResponse(a domain.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:                 a.ID,
		CaseID:             a.CaseID,
		ExpertType:         string(a.ExpertType),
		ExpertTypeDisplay:  a.ExpertType.DisplayName(),
		ExpertName:         a.ExpertName,
		PracticeName:       a.PracticeName,
		ContactNumber:      a.ContactNumber,
		Email:              a.Email,
		AppointmentDate:    a.AppointmentDate,
		Status:             string(a.Status),
		StatusDisplay:      a.Status.DisplayName(),
		ReportReceivedDate: a.ReportReceivedDate,
		ExpertFee:          a.ExpertFee,
		FeePaid:            a.FeePaid,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
