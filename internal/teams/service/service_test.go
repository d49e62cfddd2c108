package service

import (
	"context"
	"testing"

	"raf_pnp_backend/internal/teams/domain"
	"raf_pnp_backend/internal/teams/transport"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

type memberKey struct{ team, user uuid.UUID }

type memStore struct {
	teams   map[uuid.UUID]domain.Team
	members map[memberKey]domain.Member
}

func newMemStore() *memStore {
	return &memStore{teams: map[uuid.UUID]domain.Team{}, members: map[memberKey]domain.Member{}}
}

func (m *memStore) Create(_ context.Context, t domain.Team) (domain.Team, error) {
	t.ID = uuid.New()
	t.State = domain.StateActive
	m.teams[t.ID] = t
	return t, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (domain.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return domain.Team{}, apperr.NotFound("team not found")
	}
	return t, nil
}

func (m *memStore) List(context.Context, bool) ([]domain.Team, error)            { return nil, nil }
func (m *memStore) ListByLead(context.Context, uuid.UUID) ([]domain.Team, error) { return nil, nil }
func (m *memStore) Update(_ context.Context, t domain.Team) (domain.Team, error) { return t, nil }

func (m *memStore) SetState(_ context.Context, id uuid.UUID, state domain.State) error {
	t := m.teams[id]
	t.State = state
	m.teams[id] = t
	return nil
}

func (m *memStore) GetMember(_ context.Context, teamID, userID uuid.UUID) (domain.Member, error) {
	mem, ok := m.members[memberKey{teamID, userID}]
	if !ok {
		return domain.Member{}, apperr.NotFound("team member not found")
	}
	return mem, nil
}

func (m *memStore) InsertMember(_ context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	m.members[memberKey{teamID, userID}] = domain.Member{TeamID: teamID, UserID: userID, Role: role, State: domain.StateActive}
	return nil
}

func (m *memStore) ReactivateMember(_ context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	mem := m.members[memberKey{teamID, userID}]
	mem.State = domain.StateActive
	mem.Role = role
	m.members[memberKey{teamID, userID}] = mem
	return nil
}

func (m *memStore) DeactivateMember(_ context.Context, teamID, userID uuid.UUID) error {
	mem, ok := m.members[memberKey{teamID, userID}]
	if !ok {
		return apperr.NotFound("team member not found")
	}
	mem.State = domain.StateDeactivated
	m.members[memberKey{teamID, userID}] = mem
	return nil
}

func (m *memStore) UpdateMemberRole(_ context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	mem, ok := m.members[memberKey{teamID, userID}]
	if !ok || !mem.State.IsActive() {
		return apperr.NotFound("team member not found")
	}
	mem.Role = role
	m.members[memberKey{teamID, userID}] = mem
	return nil
}

func (m *memStore) ListMembers(context.Context, uuid.UUID) ([]domain.Member, error) { return nil, nil }

func (m *memStore) ListActiveMemberIDs(_ context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for k, mem := range m.members {
		if k.team == teamID && mem.State.IsActive() {
			ids = append(ids, k.user)
		}
	}
	return ids, nil
}

func (m *memStore) Stats(context.Context, uuid.UUID) (domain.Stats, error) { return domain.Stats{}, nil }

type fakeAssigner struct {
	caseID uuid.UUID
	teamID *uuid.UUID
}

func (f *fakeAssigner) AssignTeam(_ context.Context, caseID uuid.UUID, teamID *uuid.UUID) (string, error) {
	f.caseID, f.teamID = caseID, teamID
	return "RAF-2024-001", nil
}

type fakeTeamNotifier struct {
	titles   []string
	messages []string
}

func (f *fakeTeamNotifier) NotifyTeamUpdate(_ context.Context, _ uuid.UUID, title, message string, _ *uuid.UUID) error {
	f.titles = append(f.titles, title)
	f.messages = append(f.messages, message)
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return New(store, db.NoTx{}, logger.New("test")), store
}

func TestAddMemberLifecycle(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	team, _ := store.Create(ctx, domain.Team{Name: "Litigation"})
	userID := uuid.New()

	if err := svc.AddMember(ctx, team.ID, transport.AddMemberRequest{UserID: userID}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := store.members[memberKey{team.ID, userID}].Role; got != domain.RoleMember {
		t.Fatalf("expected default Member role, got %s", got)
	}

	err := svc.AddMember(ctx, team.ID, transport.AddMemberRequest{UserID: userID})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for active member, got %v", err)
	}

	if err := svc.RemoveMember(ctx, team.ID, userID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ids, _ := svc.ActiveMemberIDs(ctx, team.ID)
	if len(ids) != 0 {
		t.Fatalf("removed member must not be active, got %v", ids)
	}

	if err := svc.AddMember(ctx, team.ID, transport.AddMemberRequest{UserID: userID, Role: "Lead"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	mem := store.members[memberKey{team.ID, userID}]
	if !mem.State.IsActive() || mem.Role != domain.RoleLead {
		t.Fatalf("expected reactivated lead, got %+v", mem)
	}
}

func TestAddMemberToDeactivatedTeam(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	team, _ := store.Create(ctx, domain.Team{Name: "Intake"})
	if err := svc.Deactivate(ctx, team.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	err := svc.AddMember(ctx, team.ID, transport.AddMemberRequest{UserID: uuid.New()})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateRoleRequiresActiveMember(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	team, _ := store.Create(ctx, domain.Team{Name: "Intake"})
	userID := uuid.New()
	store.members[memberKey{team.ID, userID}] = domain.Member{State: domain.StateDeactivated, Role: domain.RoleMember}

	err := svc.UpdateMemberRole(ctx, team.ID, userID, domain.RoleAdmin)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignToCaseNotifiesTeam(t *testing.T) {
	svc, store := newTestService()
	assigner := &fakeAssigner{}
	notifier := &fakeTeamNotifier{}
	svc.SetCaseAssigner(assigner)
	svc.SetNotifier(notifier)
	ctx := context.Background()
	team, _ := store.Create(ctx, domain.Team{Name: "Litigation"})
	caseID := uuid.New()

	if err := svc.AssignToCase(ctx, team.ID, caseID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigner.caseID != caseID || assigner.teamID == nil || *assigner.teamID != team.ID {
		t.Fatalf("unexpected assignment %+v", assigner)
	}
	if len(notifier.titles) != 1 || notifier.messages[0] != "Case RAF-2024-001 has been assigned to team Litigation" {
		t.Fatalf("unexpected notification %v", notifier.messages)
	}

	if err := svc.UnassignFromCase(ctx, team.ID, caseID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if assigner.teamID != nil {
		t.Fatal("expected team to be cleared")
	}
}
