package service

import (
	"context"

	"raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/cases/repository"
	"raf_pnp_backend/internal/cases/transport"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

func (s *Service) ListActivities(ctx context.Context, caseID uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.repo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListActivities(ctx, caseID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ActivityResponse, len(items))
	for i, item := range items {
		responses[i] = toActivityResponse(item)
	}
	return responses, nil
}

// AddActivity records a manual log entry. A reminder date turns it into a
// reminder that stays open until completed.
func (s *Service) AddActivity(ctx context.Context, caseID uuid.UUID, req transport.AddActivityRequest) (transport.ActivityResponse, error) {
	activityType := domain.ActivityType(req.Type)
	if activityType == domain.ActivityReminder && req.ReminderDate == nil {
		return transport.ActivityResponse{}, apperr.Validation("reminder date is required for reminders")
	}

	draft := domain.ActivityDraft{
		Type:         activityType,
		Title:        sanitize.Text(req.Title),
		Description:  sanitize.Text(req.Description),
		IsReminder:   req.ReminderDate != nil,
		ReminderDate: req.ReminderDate,
	}
	a, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		CaseID:       caseID,
		Draft:        draft,
		ActivityDate: s.engine.Now(),
		CreatedBy:    actor.OrSystem(ctx, s.system).Label(),
	})
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	return toActivityResponse(a), nil
}

// RecordActivity appends a prepared entry; used by documents and experts.
func (s *Service) RecordActivity(ctx context.Context, caseID uuid.UUID, draft domain.ActivityDraft) error {
	_, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		CaseID:       caseID,
		Draft:        draft,
		ActivityDate: s.engine.Now(),
		CreatedBy:    actor.OrSystem(ctx, s.system).Label(),
	})
	return err
}

func (s *Service) CompleteReminder(ctx context.Context, activityID uuid.UUID) (transport.ActivityResponse, error) {
	a, err := s.repo.CompleteReminder(ctx, activityID)
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	return toActivityResponse(a), nil
}

func toActivityResponse(a domain.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:                a.ID,
		CaseID:            a.CaseID,
		Type:              string(a.Type),
		Title:             a.Title,
		Description:       a.Description,
		ActivityDate:      a.ActivityDate,
		CreatedBy:         a.CreatedBy,
		IsReminder:        a.IsReminder,
		ReminderDate:      a.ReminderDate,
		ReminderCompleted: a.ReminderCompleted,
	}
}
