package service

import (
	"context"
	"testing"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/tasks/repository"
	"raf_pnp_backend/internal/tasks/transport"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type memStore struct {
	tasks    map[uuid.UUID]domain.Task
	comments []domain.Comment
}

func newMemStore() *memStore {
	return &memStore{tasks: map[uuid.UUID]domain.Task{}}
}

func (m *memStore) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	t.ID = uuid.New()
	t.CreatedAt = fixedNow
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (domain.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, apperr.NotFound("task not found")
	}
	return t, nil
}

func (m *memStore) List(context.Context, repository.ListParams) ([]domain.Task, error) {
	return nil, nil
}
func (m *memStore) ListOpenForUser(context.Context, uuid.UUID) ([]domain.Task, error) {
	return nil, nil
}
func (m *memStore) ListOverdue(context.Context, time.Time) ([]domain.Task, error) { return nil, nil }
func (m *memStore) ListOverdueNotNotifiedSince(context.Context, time.Time, time.Time) ([]domain.Task, error) {
	return nil, nil
}

func (m *memStore) Update(_ context.Context, t domain.Task) (domain.Task, error) {
	if _, ok := m.tasks[t.ID]; !ok {
		return domain.Task{}, apperr.NotFound("task not found")
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) MarkOverdueNotified(context.Context, uuid.UUID, time.Time) error { return nil }

func (m *memStore) AddComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = uuid.New()
	c.CreatedAt = fixedNow
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *memStore) ListComments(context.Context, uuid.UUID) ([]domain.Comment, error) {
	return m.comments, nil
}

type fakeCases struct{ ref domain.CaseRef }

func (f fakeCases) GetCaseRef(_ context.Context, id uuid.UUID) (domain.CaseRef, error) {
	if id != f.ref.ID {
		return domain.CaseRef{}, apperr.NotFound("case not found")
	}
	return f.ref, nil
}

type fakeUsers map[uuid.UUID]string

func (f fakeUsers) FullName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := f[id]
	if !ok {
		return "", apperr.NotFound("user not found")
	}
	return name, nil
}

type fakeNotifier struct {
	assigned  []domain.Task
	completed []domain.Task
	commented []string
}

func (f *fakeNotifier) NotifyTaskAssigned(_ context.Context, t domain.Task) error {
	f.assigned = append(f.assigned, t)
	return nil
}

func (f *fakeNotifier) NotifyTaskCompleted(_ context.Context, t domain.Task) error {
	f.completed = append(f.completed, t)
	return nil
}

func (f *fakeNotifier) NotifyTaskCommented(_ context.Context, _ domain.Task, commenter string) error {
	f.commented = append(f.commented, commenter)
	return nil
}

type recordingBus struct{ published []events.Event }

func (b *recordingBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *memStore, *fakeNotifier, *recordingBus) {
	store := newMemStore()
	notifier := &fakeNotifier{}
	bus := &recordingBus{}
	svc := New(store, db.NoTx{}, bus, actor.System(uuid.Nil, ""), logger.New("development"))
	svc.SetNotifier(notifier)
	svc.now = func() time.Time { return fixedNow }
	return svc, store, notifier, bus
}

func TestCreateWorkflowTaskUsesStageRules(t *testing.T) {
	svc, store, notifier, bus := newTestService()
	teamID := uuid.New()
	ref := domain.CaseRef{ID: uuid.New(), CaseNumber: "RAF-2024-002", TeamID: &teamID}
	svc.SetCaseLookup(fakeCases{ref: ref})

	resp, err := svc.CreateWorkflowTask(context.Background(), transport.CreateWorkflowTaskRequest{
		CaseID:     ref.ID,
		CaseStatus: string(casedomain.StatusClientIntake),
		Title:      "Collect hospital records",
	})
	if err != nil {
		t.Fatalf("create workflow task: %v", err)
	}

	task := store.tasks[resp.ID]
	if task.Priority != domain.PriorityHigh {
		t.Fatalf("expected High priority, got %s", task.Priority)
	}
	if want := fixedNow.AddDate(0, 0, 7); task.DueDate == nil || !task.DueDate.Equal(want) {
		t.Fatalf("expected due %s, got %v", want, task.DueDate)
	}
	if task.TeamID == nil || *task.TeamID != teamID {
		t.Fatal("expected team inherited from case")
	}
	if task.CreatedByName != "System" || task.CreatedByUserID != nil {
		t.Fatalf("expected system creator, got %q %v", task.CreatedByName, task.CreatedByUserID)
	}
	if len(notifier.assigned) != 0 || len(bus.published) != 0 {
		t.Fatal("workflow task creation must not notify")
	}
}

func TestCreateWorkflowTaskUnknownCase(t *testing.T) {
	svc, store, _, _ := newTestService()
	svc.SetCaseLookup(fakeCases{ref: domain.CaseRef{ID: uuid.New()}})

	_, err := svc.CreateWorkflowTask(context.Background(), transport.CreateWorkflowTaskRequest{
		CaseID:     uuid.New(),
		CaseStatus: string(casedomain.StatusSummonsIssued),
		Title:      "Serve summons",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if len(store.tasks) != 0 {
		t.Fatal("no task should be stored")
	}
}

func TestCreateWorkflowTaskRecordsUserActor(t *testing.T) {
	svc, store, _, _ := newTestService()
	ref := domain.CaseRef{ID: uuid.New()}
	svc.SetCaseLookup(fakeCases{ref: ref})
	user := actor.User(uuid.New(), "Thandi Mokoena")

	resp, err := svc.CreateWorkflowTask(actor.WithActor(context.Background(), user), transport.CreateWorkflowTaskRequest{
		CaseID:     ref.ID,
		CaseStatus: string(casedomain.StatusTrialPhase),
		Title:      "Prepare trial bundle",
	})
	if err != nil {
		t.Fatalf("create workflow task: %v", err)
	}
	task := store.tasks[resp.ID]
	if task.CreatedByUserID == nil || *task.CreatedByUserID != user.ID || task.CreatedByName != user.Name {
		t.Fatalf("expected creator %s, got %v %q", user.ID, task.CreatedByUserID, task.CreatedByName)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected Medium priority, got %s", task.Priority)
	}
}

func TestAssignStartsTaskAndNotifies(t *testing.T) {
	svc, store, notifier, bus := newTestService()
	due := fixedNow.Add(72 * time.Hour)
	created, _ := store.Create(context.Background(), domain.Task{Title: "Draft lodgement", Status: domain.StatusNotStarted, DueDate: &due})
	assignee := uuid.New()

	resp, err := svc.Assign(context.Background(), created.ID, assignee)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if resp.Status != string(domain.StatusInProgress) {
		t.Fatalf("expected InProgress, got %s", resp.Status)
	}
	if len(notifier.assigned) != 1 || *notifier.assigned[0].AssignedToUserID != assignee {
		t.Fatalf("expected one assignment notice, got %d", len(notifier.assigned))
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.TaskAssigned)
	if !ok || evt.DueDate == nil || !evt.DueDate.Equal(due) {
		t.Fatalf("unexpected event %+v", bus.published[0])
	}
}

func TestUpdateDueDatePublishesReschedule(t *testing.T) {
	svc, store, _, bus := newTestService()
	assignee := uuid.New()
	oldDue := fixedNow.Add(48 * time.Hour)
	newDue := fixedNow.Add(96 * time.Hour)
	assigned, _ := store.Create(context.Background(), domain.Task{Title: "Collect RAF1 form", Status: domain.StatusInProgress, AssignedToUserID: &assignee, DueDate: &oldDue})
	unassigned, _ := store.Create(context.Background(), domain.Task{Title: "Unclaimed", Status: domain.StatusNotStarted, DueDate: &oldDue})
	done, _ := store.Create(context.Background(), domain.Task{Title: "Filed", Status: domain.StatusCompleted, AssignedToUserID: &assignee, DueDate: &oldDue})

	tests := []struct {
		name   string
		id     uuid.UUID
		due    time.Time
		events int
	}{
		{name: "assigned open task", id: assigned.ID, due: newDue, events: 1},
		{name: "same due date", id: assigned.ID, due: newDue, events: 0},
		{name: "no assignee", id: unassigned.ID, due: newDue, events: 0},
		{name: "completed task", id: done.ID, due: newDue, events: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus.published = nil
			due := tt.due
			if _, err := svc.Update(context.Background(), tt.id, transport.UpdateTaskRequest{DueDate: &due}); err != nil {
				t.Fatalf("update: %v", err)
			}
			if len(bus.published) != tt.events {
				t.Fatalf("expected %d events, got %d", tt.events, len(bus.published))
			}
			if tt.events == 0 {
				return
			}
			evt, ok := bus.published[0].(events.TaskDueDateChanged)
			if !ok || evt.TaskID != tt.id || evt.AssigneeID != assignee || !evt.DueDate.Equal(tt.due) {
				t.Fatalf("unexpected event %+v", bus.published[0])
			}
		})
	}
}

func TestAssignKeepsLaterStatus(t *testing.T) {
	svc, store, _, _ := newTestService()
	created, _ := store.Create(context.Background(), domain.Task{Title: "Review", Status: domain.StatusBlocked})

	resp, err := svc.Assign(context.Background(), created.ID, uuid.New())
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if resp.Status != string(domain.StatusBlocked) {
		t.Fatalf("expected Blocked to be kept, got %s", resp.Status)
	}
}

func TestUpdateStatusCompletedStampsDateAndNotifiesCreator(t *testing.T) {
	svc, store, notifier, bus := newTestService()
	creator := uuid.New()
	created, _ := store.Create(context.Background(), domain.Task{Title: "File summons", Status: domain.StatusInProgress, CreatedByUserID: &creator})

	resp, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if resp.CompletedDate == nil || !resp.CompletedDate.Equal(fixedNow) {
		t.Fatalf("expected completed date %s, got %v", fixedNow, resp.CompletedDate)
	}
	if len(notifier.completed) != 1 || len(bus.published) != 1 {
		t.Fatalf("expected one completion notice and event, got %d/%d", len(notifier.completed), len(bus.published))
	}

	if _, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusCompleted); err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if len(notifier.completed) != 1 {
		t.Fatal("completing twice must not notify again")
	}
}

func TestCancelIsSoftDelete(t *testing.T) {
	svc, store, _, _ := newTestService()
	created, _ := store.Create(context.Background(), domain.Task{Title: "Obsolete", Status: domain.StatusNotStarted})

	if err := svc.Cancel(context.Background(), created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, ok := store.tasks[created.ID]
	if !ok || got.Status != domain.StatusCancelled {
		t.Fatalf("expected task kept as Cancelled, got %+v", got)
	}
	if err := svc.Cancel(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAddCommentNotifiesAssigneeOnlyWhenSomeoneElseComments(t *testing.T) {
	svc, store, notifier, _ := newTestService()
	assignee := uuid.New()
	other := uuid.New()
	svc.SetUserDirectory(fakeUsers{assignee: "Lerato Dlamini", other: "Pieter van Wyk"})
	created, _ := store.Create(context.Background(), domain.Task{Title: "Expert booking", AssignedToUserID: &assignee})

	if _, err := svc.AddComment(context.Background(), created.ID, transport.AddCommentRequest{UserID: &assignee, Comment: "Booked"}); err != nil {
		t.Fatalf("add own comment: %v", err)
	}
	if len(notifier.commented) != 0 {
		t.Fatal("assignee's own comment must not notify")
	}

	resp, err := svc.AddComment(context.Background(), created.ID, transport.AddCommentRequest{UserID: &other, Comment: "Please confirm the date"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if resp.AuthorName != "Pieter van Wyk" {
		t.Fatalf("expected author name from directory, got %q", resp.AuthorName)
	}
	if len(notifier.commented) != 1 || notifier.commented[0] != "Pieter van Wyk" {
		t.Fatalf("expected one comment notice, got %v", notifier.commented)
	}
}

func TestAddCommentUnknownTask(t *testing.T) {
	svc, store, _, _ := newTestService()
	_, err := svc.AddComment(context.Background(), uuid.New(), transport.AddCommentRequest{Comment: "hello"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if len(store.comments) != 0 {
		t.Fatal("no comment should be stored")
	}
}
