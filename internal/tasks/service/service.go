// Package service holds task business logic, including the workflow tasks
// raised for case stages.
package service

import (
	"context"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/tasks/ports"
	"raf_pnp_backend/internal/tasks/repository"
	"raf_pnp_backend/internal/tasks/transport"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence the task service needs.
type Store interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Task, error)
	ListOpenForUser(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
	ListOverdueNotNotifiedSince(ctx context.Context, now, since time.Time) ([]domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	MarkOverdueNotified(ctx context.Context, id uuid.UUID, at time.Time) error
	AddComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error)
}

// Service provides business logic for tasks.
type Service struct {
	repo     Store
	uow      db.UnitOfWork
	cases    ports.CaseLookup
	users    ports.UserDirectory
	notifier ports.Notifier
	eventBus events.Bus
	system   actor.Actor
	now      func() time.Time
	log      *logger.Logger
}

// New creates a new tasks service.
func New(repo Store, uow db.UnitOfWork, eventBus events.Bus, system actor.Actor, log *logger.Logger) *Service {
	return &Service{repo: repo, uow: uow, eventBus: eventBus, system: system, now: time.Now, log: log}
}

// SetCaseLookup wires the cases module for workflow tasks.
func (s *Service) SetCaseLookup(cases ports.CaseLookup) {
	s.cases = cases
}

// SetUserDirectory wires the users module for comment author names.
func (s *Service) SetUserDirectory(users ports.UserDirectory) {
	s.users = users
}

// SetNotifier wires the notification dispatcher.
func (s *Service) SetNotifier(notifier ports.Notifier) {
	s.notifier = notifier
}

func (s *Service) List(ctx context.Context, req transport.ListTasksRequest) ([]transport.TaskResponse, error) {
	var params repository.ListParams
	if req.Status != "" {
		status := domain.Status(req.Status)
		params.Status = &status
	}
	var err error
	if params.AssigneeID, err = parseOptionalID(req.AssignedToUserID, "assignedToUserId"); err != nil {
		return nil, err
	}
	if params.TeamID, err = parseOptionalID(req.TeamID, "teamId"); err != nil {
		return nil, err
	}
	if params.CaseID, err = parseOptionalID(req.CaseID, "caseId"); err != nil {
		return nil, err
	}

	tasks, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.toTaskResponses(tasks), nil
}

// GetByID returns the task with its comments.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TaskResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	resp := s.toTaskResponse(t)
	resp.Comments = toCommentResponses(comments)
	return resp, nil
}

// Get returns the domain task for background jobs.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForUser returns the user's open tasks.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]transport.TaskResponse, error) {
	tasks, err := s.repo.ListOpenForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toTaskResponses(tasks), nil
}

func (s *Service) ListOverdue(ctx context.Context) ([]transport.TaskResponse, error) {
	tasks, err := s.repo.ListOverdue(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.toTaskResponses(tasks), nil
}

// OverdueToNotify returns overdue tasks that have not had an overdue notice
// in the last day.
func (s *Service) OverdueToNotify(ctx context.Context) ([]domain.Task, error) {
	now := s.now()
	return s.repo.ListOverdueNotNotifiedSince(ctx, now, now.Add(-24*time.Hour))
}

// MarkOverdueNotified stamps the overdue notice time.
func (s *Service) MarkOverdueNotified(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkOverdueNotified(ctx, id, s.now())
}

func (s *Service) Create(ctx context.Context, req transport.CreateTaskRequest) (transport.TaskResponse, error) {
	who := actor.OrSystem(ctx, s.system)
	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
	}

	draft := domain.Task{
		Title:            sanitize.Text(req.Title),
		Description:      sanitize.Optional(req.Description),
		CaseID:           req.CaseID,
		TeamID:           req.TeamID,
		AssignedToUserID: req.AssignedToUserID,
		CreatedByUserID:  actorUserID(who),
		CreatedByName:    who.Label(),
		Status:           domain.StatusNotStarted,
		Priority:         priority,
		DueDate:          req.DueDate,
	}

	var created domain.Task
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, draft)
		if err != nil {
			return err
		}
		return s.afterAssign(ctx, created)
	})
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("task created", "taskId", created.ID, "title", created.Title)
	return s.toTaskResponse(created), nil
}

// CreateWorkflowTask raises a task for a case stage. Priority and due date
// follow the stage and the team is taken from the case. No one is notified.
func (s *Service) CreateWorkflowTask(ctx context.Context, req transport.CreateWorkflowTaskRequest) (transport.TaskResponse, error) {
	if s.cases == nil {
		return transport.TaskResponse{}, apperr.Internal("case lookup not configured")
	}
	ref, err := s.cases.GetCaseRef(ctx, req.CaseID)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	who := actor.OrSystem(ctx, s.system)
	draft := domain.NewWorkflowTask(ref, domain.WorkflowInput{
		CaseStatus:  casedomain.Status(req.CaseStatus),
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Optional(req.Description),
		AssigneeID:  req.AssignToUserID,
	}, actorUserID(who), who.Label(), s.now())

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("workflow task created", "taskId", created.ID, "caseId", ref.ID, "caseStatus", req.CaseStatus)
	return s.toTaskResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTaskRequest) (transport.TaskResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	if req.Title != nil {
		t.Title = sanitize.Text(*req.Title)
	}
	if req.Description != nil {
		t.Description = sanitize.Optional(*req.Description)
	}
	if req.Priority != nil {
		t.Priority = domain.Priority(*req.Priority)
	}
	dueChanged := req.DueDate != nil && (t.DueDate == nil || !t.DueDate.Equal(*req.DueDate))
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	if dueChanged && updated.AssignedToUserID != nil && updated.Status.IsOpen() {
		s.eventBus.Publish(ctx, events.TaskDueDateChanged{
			BaseEvent:  events.NewBaseEvent(),
			TaskID:     updated.ID,
			AssigneeID: *updated.AssignedToUserID,
			DueDate:    *updated.DueDate,
		})
	}
	s.log.Info("task updated", "taskId", id)
	return s.toTaskResponse(updated), nil
}

// Cancel soft deletes a task by moving it to Cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Status = domain.StatusCancelled
	if _, err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.log.Info("task cancelled", "taskId", id)
	return nil
}

// Assign gives the task to userID and starts it if it had not started.
func (s *Service) Assign(ctx context.Context, id, userID uuid.UUID) (transport.TaskResponse, error) {
	var updated domain.Task
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t.AssignedToUserID = &userID
		if t.Status == domain.StatusNotStarted {
			t.Status = domain.StatusInProgress
		}
		if updated, err = s.repo.Update(ctx, t); err != nil {
			return err
		}
		return s.afterAssign(ctx, updated)
	})
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("task assigned", "taskId", id, "userId", userID)
	return s.toTaskResponse(updated), nil
}

// afterAssign notifies the assignee and schedules the due reminder once the
// assignment commits.
func (s *Service) afterAssign(ctx context.Context, t domain.Task) error {
	if t.AssignedToUserID == nil {
		return nil
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyTaskAssigned(ctx, t); err != nil {
			return err
		}
	}
	assignee := *t.AssignedToUserID
	db.AfterCommit(ctx, func(ctx context.Context) {
		s.eventBus.Publish(ctx, events.TaskAssigned{
			BaseEvent:  events.NewBaseEvent(),
			TaskID:     t.ID,
			AssigneeID: assignee,
			CaseID:     t.CaseID,
			DueDate:    t.DueDate,
		})
	})
	return nil
}

// UpdateStatus moves a task. Completing it stamps CompletedDate and tells
// the creator.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (transport.TaskResponse, error) {
	if !status.IsValid() {
		return transport.TaskResponse{}, apperr.Validation("unknown task status")
	}

	var updated domain.Task
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		completing := status == domain.StatusCompleted && t.Status != domain.StatusCompleted
		t.Status = status
		if status == domain.StatusCompleted {
			now := s.now()
			t.CompletedDate = &now
		}
		if updated, err = s.repo.Update(ctx, t); err != nil {
			return err
		}
		if !completing {
			return nil
		}

		if s.notifier != nil {
			if err := s.notifier.NotifyTaskCompleted(ctx, updated); err != nil {
				return err
			}
		}
		if updated.CreatedByUserID != nil {
			creator := *updated.CreatedByUserID
			db.AfterCommit(ctx, func(ctx context.Context) {
				s.eventBus.Publish(ctx, events.TaskCompleted{
					BaseEvent: events.NewBaseEvent(),
					TaskID:    updated.ID,
					CreatorID: creator,
				})
			})
		}
		return nil
	})
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("task status updated", "taskId", id, "status", status)
	return s.toTaskResponse(updated), nil
}

func actorUserID(a actor.Actor) *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

func parseOptionalID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperr.Validation("invalid " + field)
	}
	return &id, nil
}

func (s *Service) toTaskResponses(tasks []domain.Task) []transport.TaskResponse {
	out := make([]transport.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = s.toTaskResponse(t)
	}
	return out
}

func (s *Service) toTaskResponse(t domain.Task) transport.TaskResponse {
	now := s.now()
	var related *string
	if t.RelatedCaseStatus != nil {
		v := string(*t.RelatedCaseStatus)
		related = &v
	}
	return transport.TaskResponse{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		CaseID:            t.CaseID,
		CaseNumber:        t.CaseNumber,
		TeamID:            t.TeamID,
		TeamName:          t.TeamName,
		AssignedToUserID:  t.AssignedToUserID,
		AssigneeName:      t.AssigneeName,
		CreatedByUserID:   t.CreatedByUserID,
		CreatedByName:     t.CreatedByName,
		Status:            string(t.Status),
		StatusDisplayName: t.Status.DisplayName(),
		Priority:          string(t.Priority),
		RelatedCaseStatus: related,
		IsWorkflowTask:    t.IsWorkflowTask,
		CreatedAt:         t.CreatedAt,
		DueDate:           t.DueDate,
		CompletedDate:     t.CompletedDate,
		IsOverdue:         t.IsOverdue(now),
		DaysUntilDue:      t.DaysUntilDue(now),
	}
}
