package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"raf_pnp_backend/internal/email"
	"raf_pnp_backend/internal/notification"
	reportsvc "raf_pnp_backend/internal/reports/service"
	taskdomain "raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var fixedNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

var systemActor = actor.System(uuid.MustParse("00000000-0000-0000-0000-000000000001"), "RAF Scheduler")

type fakeTasks struct {
	tasks    map[uuid.UUID]taskdomain.Task
	overdue  []taskdomain.Task
	marked   []uuid.UUID
	markErr  error
	actorIDs []uuid.UUID
}

func (f *fakeTasks) Get(ctx context.Context, id uuid.UUID) (taskdomain.Task, error) {
	if a, ok := actor.FromContext(ctx); ok {
		f.actorIDs = append(f.actorIDs, a.ID)
	}
	t, ok := f.tasks[id]
	if !ok {
		return taskdomain.Task{}, apperr.NotFound("task not found")
	}
	return t, nil
}

func (f *fakeTasks) OverdueToNotify(context.Context) ([]taskdomain.Task, error) {
	return f.overdue, nil
}

func (f *fakeTasks) MarkOverdueNotified(_ context.Context, id uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeDeadlines struct {
	items []reportsvc.Deadline
	days  int
}

func (f *fakeDeadlines) Deadlines(_ context.Context, days int) ([]reportsvc.Deadline, error) {
	f.days = days
	return f.items, nil
}

type fakeNotifier struct {
	dueSoon   []uuid.UUID
	overdue   []uuid.UUID
	notices   []notification.DeadlineNotice
	digests   map[uuid.UUID][]email.DeadlineItem
	overdueFn func(taskdomain.Task) error
	actors    []actor.Actor
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{digests: map[uuid.UUID][]email.DeadlineItem{}}
}

func (n *fakeNotifier) NotifyTaskDueSoon(ctx context.Context, t taskdomain.Task) error {
	a, _ := actor.FromContext(ctx)
	n.actors = append(n.actors, a)
	n.dueSoon = append(n.dueSoon, t.ID)
	return nil
}

func (n *fakeNotifier) NotifyTaskOverdue(_ context.Context, t taskdomain.Task) error {
	if n.overdueFn != nil {
		if err := n.overdueFn(t); err != nil {
			return err
		}
	}
	n.overdue = append(n.overdue, t.ID)
	return nil
}

func (n *fakeNotifier) NotifyDeadlineApproaching(_ context.Context, d notification.DeadlineNotice) error {
	n.notices = append(n.notices, d)
	return nil
}

func (n *fakeNotifier) SendDeadlineDigest(_ context.Context, userID uuid.UUID, items []email.DeadlineItem) error {
	n.digests[userID] = items
	return nil
}

type fakeTeams map[uuid.UUID][]uuid.UUID

func (f fakeTeams) ActiveMemberIDs(_ context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	return f[teamID], nil
}

func newTestJobs(tasks *fakeTasks, deadlines *fakeDeadlines, notifier *fakeNotifier, teams TeamMembers) *Jobs {
	j := NewJobs(tasks, deadlines, notifier, teams, db.NoTx{}, systemActor, 0, logger.New("test"))
	j.now = func() time.Time { return fixedNow }
	return j
}

func dueSoonTask(t *testing.T, taskID uuid.UUID, due time.Time) *asynq.Task {
	t.Helper()
	task, err := NewTaskDueSoonTask(TaskDueSoonPayload{TaskID: taskID.String(), DueUnix: due.Unix()})
	if err != nil {
		t.Fatalf("NewTaskDueSoonTask: %v", err)
	}
	return task
}

func TestHandleTaskDueSoon(t *testing.T) {
	assignee := uuid.New()
	due := fixedNow.Add(20 * time.Hour)
	moved := fixedNow.Add(72 * time.Hour)

	cases := []struct {
		name   string
		task   taskdomain.Task
		due    time.Time
		notify bool
	}{
		{"open and due", taskdomain.Task{Status: taskdomain.StatusInProgress, AssignedToUserID: &assignee, DueDate: &due}, due, true},
		{"completed", taskdomain.Task{Status: taskdomain.StatusCompleted, AssignedToUserID: &assignee, DueDate: &due}, due, false},
		{"unassigned", taskdomain.Task{Status: taskdomain.StatusNotStarted, DueDate: &due}, due, false},
		{"due date moved", taskdomain.Task{Status: taskdomain.StatusInProgress, AssignedToUserID: &assignee, DueDate: &moved}, due, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.task.ID = uuid.New()
			tasks := &fakeTasks{tasks: map[uuid.UUID]taskdomain.Task{tc.task.ID: tc.task}}
			notifier := newFakeNotifier()
			j := newTestJobs(tasks, &fakeDeadlines{}, notifier, nil)

			if err := j.HandleTaskDueSoon(context.Background(), dueSoonTask(t, tc.task.ID, tc.due)); err != nil {
				t.Fatalf("HandleTaskDueSoon: %v", err)
			}
			if got := len(notifier.dueSoon) == 1; got != tc.notify {
				t.Fatalf("notified=%v, want %v", got, tc.notify)
			}
			if tc.notify && notifier.actors[0].ID != systemActor.ID {
				t.Fatalf("expected system actor, got %+v", notifier.actors[0])
			}
		})
	}
}

func TestHandleTaskDueSoonIgnoresDeletedTask(t *testing.T) {
	j := newTestJobs(&fakeTasks{tasks: map[uuid.UUID]taskdomain.Task{}}, &fakeDeadlines{}, newFakeNotifier(), nil)
	if err := j.HandleTaskDueSoon(context.Background(), dueSoonTask(t, uuid.New(), fixedNow.Add(time.Hour))); err != nil {
		t.Fatalf("expected nil for a missing task, got %v", err)
	}
}

func TestHandleScanOverdueMarksEachNotice(t *testing.T) {
	first, second := taskdomain.Task{ID: uuid.New()}, taskdomain.Task{ID: uuid.New()}
	tasks := &fakeTasks{overdue: []taskdomain.Task{first, second}}
	notifier := newFakeNotifier()
	notifier.overdueFn = func(task taskdomain.Task) error {
		if task.ID == second.ID {
			return errors.New("insert failed")
		}
		return nil
	}
	j := newTestJobs(tasks, &fakeDeadlines{}, notifier, nil)

	err := j.HandleScanOverdue(context.Background(), asynq.NewTask(TaskScanOverdue, nil))
	if err == nil {
		t.Fatalf("expected the failure to be reported for retry")
	}
	if len(tasks.marked) != 1 || tasks.marked[0] != first.ID {
		t.Fatalf("only the delivered notice should be stamped, got %v", tasks.marked)
	}
}

func TestHandleScanDeadlines(t *testing.T) {
	teamA, teamB := uuid.New(), uuid.New()
	alice, bob := uuid.New(), uuid.New()
	caseOne, caseTwo := uuid.New(), uuid.New()

	deadlines := &fakeDeadlines{items: []reportsvc.Deadline{
		{CaseID: caseOne, CaseNumber: "RAF-2026-0001", DeadlineType: "MMI Date", DeadlineDate: fixedNow.AddDate(0, 0, 3), DaysRemaining: 3, AssignedTeamID: &teamA},
		{CaseID: caseTwo, CaseNumber: "RAF-2026-0002", DeadlineType: "120-Day Expiry", DeadlineDate: fixedNow.AddDate(0, 0, 9), DaysRemaining: 9, AssignedTeamID: &teamB},
		{CaseID: uuid.New(), CaseNumber: "RAF-2026-0003", DeadlineType: "MMI Date", DaysRemaining: 1},
	}}
	teams := fakeTeams{teamA: {alice, bob}, teamB: {bob}}
	notifier := newFakeNotifier()
	j := newTestJobs(&fakeTasks{}, deadlines, notifier, teams)

	if err := j.HandleScanDeadlines(context.Background(), asynq.NewTask(TaskScanDeadlines, nil)); err != nil {
		t.Fatalf("HandleScanDeadlines: %v", err)
	}

	if deadlines.days != defaultDeadlineWarningDays {
		t.Fatalf("expected default window, got %d", deadlines.days)
	}
	if len(notifier.notices) != 2 {
		t.Fatalf("cases without a team should be skipped, got %d notices", len(notifier.notices))
	}
	if len(notifier.digests[alice]) != 1 || len(notifier.digests[bob]) != 2 {
		t.Fatalf("unexpected digests alice=%v bob=%v", notifier.digests[alice], notifier.digests[bob])
	}
	item := notifier.digests[alice][0]
	if item.Date != "Mar 13, 2026" || item.URL != "/Cases/Details?id="+caseOne.String() {
		t.Fatalf("unexpected digest item %+v", item)
	}
}
