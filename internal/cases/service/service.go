// Package service holds the case business logic: intake, editing and the
// lifecycle transition unit of work.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/cases/ports"
	"raf_pnp_backend/internal/cases/repository"
	"raf_pnp_backend/internal/cases/transport"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	caseNumberPrefix = "RAF"
)

// Service provides business logic for cases.
type Service struct {
	repo     repository.Repository
	uow      db.UnitOfWork
	engine   *domain.Engine
	notifier ports.Notifier
	eventBus events.Bus
	system   actor.Actor
	log      *logger.Logger
}

// New creates a new cases service.
func New(repo repository.Repository, uow db.UnitOfWork, engine *domain.Engine, eventBus events.Bus, system actor.Actor, log *logger.Logger) *Service {
	return &Service{repo: repo, uow: uow, engine: engine, eventBus: eventBus, system: system, log: log}
}

// SetNotifier wires the notification dispatcher. It is set after
// construction because the dispatcher depends on modules built later.
func (s *Service) SetNotifier(notifier ports.Notifier) {
	s.notifier = notifier
}

// Engine exposes the lifecycle engine (transition table and clock).
func (s *Service) Engine() *domain.Engine {
	return s.engine
}

func (s *Service) Create(ctx context.Context, req transport.CreateCaseRequest) (transport.CaseResponse, error) {
	loc := s.engine.Location
	accidentDate, err := parseDate(req.AccidentDate, loc)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	initialLodgement, err := parseOptionalDate(req.InitialLodgementDate, loc)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if accidentDate.After(s.engine.Today()) {
		return transport.CaseResponse{}, apperr.Validation("accident date cannot be in the future")
	}

	who := actor.OrSystem(ctx, s.system)
	mmiDate := domain.DefaultMmiDate(accidentDate)

	var created domain.Case
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		caseNumber := strings.ToUpper(strings.TrimSpace(req.CaseNumber))
		if caseNumber == "" {
			next, err := s.nextCaseNumber(ctx)
			if err != nil {
				return err
			}
			caseNumber = next
		}

		c, err := s.repo.Create(ctx, repository.CreateCaseParams{
			CaseNumber:              caseNumber,
			ClientID:                req.ClientID,
			AccidentDate:            accidentDate,
			AccidentDescription:     sanitize.Optional(req.AccidentDescription),
			AccidentLocation:        sanitize.Optional(req.AccidentLocation),
			Status:                  domain.StatusClientIntake,
			DateOpened:              s.engine.Now(),
			InitialLodgementDate:    initialLodgement,
			MmiDate:                 &mmiDate,
			AssignedAttorney:        sanitize.Optional(req.AssignedAttorney),
			CandidateAttorney:       sanitize.Optional(req.CandidateAttorney),
			FeeAgreementSigned:      req.FeeAgreementSigned,
			ContingencyFeeAgreement: req.ContingencyFeeAgreement,
			EstimatedClaimValue:     req.EstimatedClaimValue,
			Notes:                   sanitize.Optional(req.Notes),
			AssignedTeamID:          req.AssignedTeamID,
		})
		if err != nil {
			return err
		}

		if _, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			CaseID:       c.ID,
			Draft:        domain.NewCaseCreatedActivity(c.CaseNumber),
			ActivityDate: s.engine.Now(),
			CreatedBy:    who.Label(),
		}); err != nil {
			return err
		}

		created = c
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.eventBus.Publish(ctx, events.CaseCreated{
				BaseEvent:  events.NewBaseEvent(),
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				ClientID:   c.ClientID,
				ActorID:    who.ID,
			})
		})
		return nil
	})
	if err != nil {
		return transport.CaseResponse{}, err
	}

	s.log.Info("case created", "caseId", created.ID, "caseNumber", created.CaseNumber)
	return s.toCaseResponse(created), nil
}

// nextCaseNumber returns RAF-{year}-{NNN} for the current year.
func (s *Service) nextCaseNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", caseNumberPrefix, s.engine.Today().Year())
	last, err := s.repo.MaxCaseNumberSuffix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, last+1), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CaseResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	return s.toCaseResponse(c), nil
}

// Get returns the domain case, for other modules.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req transport.ListCasesRequest) (transport.CaseListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	params := repository.ListCasesParams{
		Search: strings.TrimSpace(req.Search),
		Sort:   req.Sort,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.Status != "" {
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return transport.CaseListResponse{}, apperr.Validation("unknown case status")
		}
		params.Status = &status
	}
	if req.AssignedTeamID != "" {
		teamID, err := uuid.Parse(req.AssignedTeamID)
		if err != nil {
			return transport.CaseListResponse{}, apperr.Validation("invalid team id")
		}
		params.AssignedTeamID = &teamID
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return transport.CaseListResponse{}, apperr.Validation("invalid client id")
		}
		params.ClientID = &clientID
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.CaseListResponse{}, err
	}

	responses := make([]transport.CaseResponse, len(items))
	for i, item := range items {
		responses[i] = s.toCaseResponse(item)
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return transport.CaseListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update edits case details under optimistic concurrency. The status is
// not editable here; see TransitionStatus.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCaseRequest) (transport.CaseResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if c.Version != req.Version {
		return transport.CaseResponse{}, apperr.Conflict("case was modified by someone else; reload and try again").WithOp("cases.update")
	}
	if err := s.applyUpdate(&c, req); err != nil {
		return transport.CaseResponse{}, err
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	s.log.Info("case updated", "caseId", id, "version", updated.Version)
	return s.toCaseResponse(updated), nil
}

func (s *Service) applyUpdate(c *domain.Case, req transport.UpdateCaseRequest) error {
	loc := s.engine.Location
	if req.CaseNumber != nil {
		c.CaseNumber = strings.ToUpper(strings.TrimSpace(*req.CaseNumber))
	}
	if req.AccidentDate != nil {
		d, err := parseDate(*req.AccidentDate, loc)
		if err != nil {
			return err
		}
		c.AccidentDate = d
	}

	dates := []struct {
		value  *string
		target **time.Time
	}{
		{req.InitialLodgementDate, &c.InitialLodgementDate},
		{req.ComplianceLodgementDate, &c.ComplianceLodgementDate},
		{req.MmiDate, &c.MmiDate},
		{req.StatutoryExpiryDate, &c.StatutoryExpiryDate},
		{req.SummonsIssueDate, &c.SummonsIssueDate},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		parsed, err := parseOptionalDate(*d.value, loc)
		if err != nil {
			return err
		}
		*d.target = parsed
	}

	if req.AccidentDescription != nil {
		c.AccidentDescription = sanitize.Optional(*req.AccidentDescription)
	}
	if req.AccidentLocation != nil {
		c.AccidentLocation = sanitize.Optional(*req.AccidentLocation)
	}
	if req.AssignedAttorney != nil {
		c.AssignedAttorney = sanitize.Optional(*req.AssignedAttorney)
	}
	if req.CandidateAttorney != nil {
		c.CandidateAttorney = sanitize.Optional(*req.CandidateAttorney)
	}
	if req.FeeAgreementSigned != nil {
		c.FeeAgreementSigned = *req.FeeAgreementSigned
	}
	if req.ContingencyFeeAgreement != nil {
		c.ContingencyFeeAgreement = *req.ContingencyFeeAgreement
	}
	if req.EstimatedClaimValue != nil {
		c.EstimatedClaimValue = req.EstimatedClaimValue
	}
	if req.SettlementAmount != nil {
		c.SettlementAmount = req.SettlementAmount
	}
	if req.Notes != nil {
		c.Notes = sanitize.Optional(*req.Notes)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("case deleted", "caseId", id)
	return nil
}

// TransitionStatus moves a case to newStatus. The case row, its activity
// and the notification rows commit together; the event and channel sends
// follow the commit.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, newStatus domain.Status) (transport.CaseResponse, error) {
	who := actor.OrSystem(ctx, s.system)

	var result domain.Case
	var transition domain.Transition
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		transition, err = s.engine.Apply(&c, newStatus)
		if err != nil {
			return err
		}

		updated, err := s.repo.Update(ctx, c)
		if err != nil {
			return err
		}

		if _, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			CaseID:       updated.ID,
			Draft:        transition.Activity,
			ActivityDate: transition.At,
			CreatedBy:    who.Label(),
		}); err != nil {
			return err
		}

		if s.notifier != nil {
			if err := s.notifier.NotifyCaseStatusChanged(ctx, updated, transition.From); err != nil {
				return err
			}
		}

		result = updated
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.eventBus.Publish(ctx, events.CaseStatusChanged{
				BaseEvent:      events.NewBaseEvent(),
				CaseID:         updated.ID,
				CaseNumber:     updated.CaseNumber,
				OldStatus:      string(transition.From),
				NewStatus:      string(transition.To),
				AssignedTeamID: updated.AssignedTeamID,
				ActorID:        who.ID,
			})
		})
		return nil
	})
	if err != nil {
		return transport.CaseResponse{}, err
	}

	s.log.WithContext(ctx).Info("case status changed",
		"caseId", id, "from", transition.From, "to", transition.To)
	return s.toCaseResponse(result), nil
}

// AssignTeam sets or clears the team responsible for a case.
func (s *Service) AssignTeam(ctx context.Context, caseID uuid.UUID, teamID *uuid.UUID) (domain.Case, error) {
	c, err := s.repo.SetAssignedTeam(ctx, caseID, teamID)
	if err != nil {
		return domain.Case{}, err
	}
	db.AfterCommit(ctx, func(ctx context.Context) {
		s.eventBus.Publish(ctx, events.CaseTeamAssigned{
			BaseEvent: events.NewBaseEvent(),
			CaseID:    caseID,
			TeamID:    teamID,
		})
	})
	s.log.Info("case team assigned", "caseId", caseID, "teamId", teamID)
	return c, nil
}

// Statuses lists the lifecycle stages with the moves the table allows.
func (s *Service) Statuses() transport.StatusListResponse {
	table := s.engine.Table
	items := make([]transport.StatusResponse, len(domain.Statuses))
	for i, status := range domain.Statuses {
		targets := table.Targets(status)
		next := make([]string, len(targets))
		for j, t := range targets {
			next[j] = string(t)
		}
		items[i] = transport.StatusResponse{
			Status:      string(status),
			DisplayName: status.DisplayName(),
			ShortName:   status.ShortName(),
			IsTerminal:  status.IsTerminal(),
			AllowedNext: next,
		}
	}
	return transport.StatusListResponse{Policy: table.Name(), Statuses: items}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(transport.DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, apperr.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}
	return t, nil
}

// parseOptionalDate treats an empty string as "clear the date".
func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) toCaseResponse(c domain.Case) transport.CaseResponse {
	now := s.engine.Now()
	return transport.CaseResponse{
		ID:                       c.ID,
		CaseNumber:               c.CaseNumber,
		ClientID:                 c.ClientID,
		ClientName:               c.ClientName(),
		AccidentDate:             c.AccidentDate.Format(transport.DateLayout),
		AccidentDescription:      c.AccidentDescription,
		AccidentLocation:         c.AccidentLocation,
		Status:                   string(c.Status),
		StatusDisplayName:        c.Status.DisplayName(),
		DateOpened:               c.DateOpened,
		DateClosed:               formatDate(c.DateClosed),
		InitialLodgementDate:     formatDate(c.InitialLodgementDate),
		ComplianceLodgementDate:  formatDate(c.ComplianceLodgementDate),
		MmiDate:                  formatDate(c.MmiDate),
		StatutoryExpiryDate:      formatDate(c.StatutoryExpiryDate),
		SummonsIssueDate:         formatDate(c.SummonsIssueDate),
		AssignedAttorney:         c.AssignedAttorney,
		CandidateAttorney:        c.CandidateAttorney,
		FeeAgreementSigned:       c.FeeAgreementSigned,
		ContingencyFeeAgreement:  c.ContingencyFeeAgreement,
		EstimatedClaimValue:      c.EstimatedClaimValue,
		SettlementAmount:         c.SettlementAmount,
		Notes:                    c.Notes,
		AssignedTeamID:           c.AssignedTeamID,
		DaysSinceAccident:        c.DaysSinceAccident(now),
		DaysUntilMmi:             c.DaysUntilMmi(now),
		DaysUntilStatutoryExpiry: c.DaysUntilStatutoryExpiry(now),
		Version:                  c.Version,
		UpdatedAt:                c.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(transport.DateLayout)
	return &s
}
