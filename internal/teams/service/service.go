package service

import (
	"context"
	"fmt"

	"raf_pnp_backend/internal/teams/domain"
	"raf_pnp_backend/internal/teams/ports"
	"raf_pnp_backend/internal/teams/transport"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence the team service needs.
type Store interface {
	Create(ctx context.Context, t domain.Team) (domain.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Team, error)
	List(ctx context.Context, includeDeactivated bool) ([]domain.Team, error)
	ListByLead(ctx context.Context, leadUserID uuid.UUID) ([]domain.Team, error)
	Update(ctx context.Context, t domain.Team) (domain.Team, error)
	SetState(ctx context.Context, id uuid.UUID, state domain.State) error

	GetMember(ctx context.Context, teamID, userID uuid.UUID) (domain.Member, error)
	InsertMember(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error
	ReactivateMember(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error
	DeactivateMember(ctx context.Context, teamID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.Member, error)
	ListActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	Stats(ctx context.Context, teamID uuid.UUID) (domain.Stats, error)
}

// Service provides business logic for teams.
type Service struct {
	repo     Store
	uow      db.UnitOfWork
	cases    ports.CaseAssigner
	notifier ports.TeamNotifier
	log      *logger.Logger
}

// New creates a new teams service.
func New(repo Store, uow db.UnitOfWork, log *logger.Logger) *Service {
	return &Service{repo: repo, uow: uow, log: log}
}

// SetCaseAssigner wires the cases module.
func (s *Service) SetCaseAssigner(cases ports.CaseAssigner) {
	s.cases = cases
}

// SetNotifier wires the notification dispatcher.
func (s *Service) SetNotifier(notifier ports.TeamNotifier) {
	s.notifier = notifier
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]transport.TeamResponse, error) {
	teams, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return toTeamResponses(teams), nil
}

func (s *Service) ListByLead(ctx context.Context, leadUserID uuid.UUID) ([]transport.TeamResponse, error) {
	teams, err := s.repo.ListByLead(ctx, leadUserID)
	if err != nil {
		return nil, err
	}
	return toTeamResponses(teams), nil
}

// GetByID returns the team with its active members.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TeamResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	resp := toTeamResponse(t)
	resp.Members = toMemberResponses(members)
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req transport.CreateTeamRequest) (transport.TeamResponse, error) {
	created, err := s.repo.Create(ctx, domain.Team{
		Name:        sanitize.Text(req.Name),
		Description: sanitize.Optional(req.Description),
		LeadUserID:  req.LeadUserID,
	})
	if err != nil {
		return transport.TeamResponse{}, err
	}
	s.log.Info("team created", "teamId", created.ID, "name", created.Name)
	return toTeamResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTeamRequest) (transport.TeamResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	if req.Name != nil {
		t.Name = sanitize.Text(*req.Name)
	}
	if req.Description != nil {
		t.Description = sanitize.Optional(*req.Description)
	}
	if req.LeadUserID != nil {
		t.LeadUserID = req.LeadUserID
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	s.log.Info("team updated", "teamId", id)
	return toTeamResponse(updated), nil
}

// Deactivate soft deletes a team. Its memberships and history stay.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetState(ctx, id, domain.StateDeactivated); err != nil {
		return err
	}
	s.log.Info("team deactivated", "teamId", id)
	return nil
}

// AddMember adds a user to an active team. A previously removed member is
// reactivated with the requested role; an active member is a conflict.
func (s *Service) AddMember(ctx context.Context, teamID uuid.UUID, req transport.AddMemberRequest) error {
	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleMember
	}
	if !role.IsValid() {
		return apperr.Validation("invalid team role")
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		team, err := s.repo.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.State.IsActive() {
			return apperr.Conflict("team is deactivated")
		}

		existing, err := s.repo.GetMember(ctx, teamID, req.UserID)
		switch {
		case err == nil && existing.State.IsActive():
			return apperr.Conflict("user is already a member of this team")
		case err == nil:
			return s.repo.ReactivateMember(ctx, teamID, req.UserID, role)
		case apperr.Is(err, apperr.KindNotFound):
			return s.repo.InsertMember(ctx, teamID, req.UserID, role)
		default:
			return err
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("team member added", "teamId", teamID, "userId", req.UserID, "role", role)
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if err := s.repo.DeactivateMember(ctx, teamID, userID); err != nil {
		return err
	}
	s.log.Info("team member removed", "teamId", teamID, "userId", userID)
	return nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	if !role.IsValid() {
		return apperr.Validation("invalid team role")
	}
	if err := s.repo.UpdateMemberRole(ctx, teamID, userID, role); err != nil {
		return err
	}
	s.log.Info("team member role updated", "teamId", teamID, "userId", userID, "role", role)
	return nil
}

func (s *Service) ListMembers(ctx context.Context, teamID uuid.UUID) ([]transport.MemberResponse, error) {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return toMemberResponses(members), nil
}

// ActiveMemberIDs returns the ids of active members; empty for an unknown team.
func (s *Service) ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListActiveMemberIDs(ctx, teamID)
}

func (s *Service) Stats(ctx context.Context, teamID uuid.UUID) (transport.StatsResponse, error) {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return transport.StatsResponse{}, err
	}
	st, err := s.repo.Stats(ctx, teamID)
	if err != nil {
		return transport.StatsResponse{}, err
	}
	return transport.StatsResponse{
		TotalMembers:   st.TotalMembers,
		ActiveCases:    st.ActiveCases,
		TotalTasks:     st.TotalTasks,
		ActiveTasks:    st.ActiveTasks,
		CompletedTasks: st.CompletedTasks,
		OverdueTasks:   st.OverdueTasks,
		CompletionRate: st.CompletionRate,
	}, nil
}

// AssignToCase makes the team responsible for a case and tells its members.
func (s *Service) AssignToCase(ctx context.Context, teamID, caseID uuid.UUID) error {
	if s.cases == nil {
		return apperr.Internal("case assignment is not available")
	}
	return s.uow.Do(ctx, func(ctx context.Context) error {
		team, err := s.repo.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.State.IsActive() {
			return apperr.Conflict("team is deactivated")
		}
		caseNumber, err := s.cases.AssignTeam(ctx, caseID, &teamID)
		if err != nil {
			return err
		}
		s.log.Info("team assigned to case", "teamId", teamID, "caseId", caseID)
		return s.notify(ctx, teamID, "Case Assigned",
			fmt.Sprintf("Case %s has been assigned to team %s", caseNumber, team.Name), &caseID)
	})
}

// UnassignFromCase clears the case's team.
func (s *Service) UnassignFromCase(ctx context.Context, teamID, caseID uuid.UUID) error {
	if s.cases == nil {
		return apperr.Internal("case assignment is not available")
	}
	return s.uow.Do(ctx, func(ctx context.Context) error {
		team, err := s.repo.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		caseNumber, err := s.cases.AssignTeam(ctx, caseID, nil)
		if err != nil {
			return err
		}
		s.log.Info("team unassigned from case", "teamId", teamID, "caseId", caseID)
		return s.notify(ctx, teamID, "Case Unassigned",
			fmt.Sprintf("Case %s is no longer assigned to team %s", caseNumber, team.Name), &caseID)
	})
}

func (s *Service) notify(ctx context.Context, teamID uuid.UUID, title, message string, caseID *uuid.UUID) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.NotifyTeamUpdate(ctx, teamID, title, message, caseID)
}

func toTeamResponse(t domain.Team) transport.TeamResponse {
	return transport.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		LeadUserID:  t.LeadUserID,
		LeadName:    t.LeadName,
		State:       string(t.State),
		IsActive:    t.State.IsActive(),
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTeamResponses(teams []domain.Team) []transport.TeamResponse {
	out := make([]transport.TeamResponse, len(teams))
	for i, t := range teams {
		out[i] = toTeamResponse(t)
	}
	return out
}

func toMemberResponses(members []domain.Member) []transport.MemberResponse {
	out := make([]transport.MemberResponse, len(members))
	for i, m := range members {
		out[i] = transport.MemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			FullName: m.UserName,
			Email:    m.UserEmail,
			Role:     string(m.Role),
			State:    string(m.State),
			JoinedAt: m.JoinedAt,
		}
	}
	return out
}
