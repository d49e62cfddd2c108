package scheduler

import (
	"context"
	"errors"
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

const (
	defaultDeadlineWarningDays = 14
	digestDateLayout           = "Jan 02, 2006"
)

// TaskSource reads tasks for reminders and overdue scans.
type TaskSource interface {
	Get(ctx context.Context, id uuid.UUID) (taskdomain.Task, error)
	OverdueToNotify(ctx context.Context) ([]taskdomain.Task, error)
	MarkOverdueNotified(ctx context.Context, id uuid.UUID) error
}

// DeadlineSource lists case milestone dates within the next days days.
type DeadlineSource interface {
	Deadlines(ctx context.Context, days int) ([]reportsvc.Deadline, error)
}

// Notifier is the part of the notification dispatcher the jobs use.
type Notifier interface {
	NotifyTaskDueSoon(ctx context.Context, t taskdomain.Task) error
	NotifyTaskOverdue(ctx context.Context, t taskdomain.Task) error
	NotifyDeadlineApproaching(ctx context.Context, n notification.DeadlineNotice) error
	SendDeadlineDigest(ctx context.Context, userID uuid.UUID, items []email.DeadlineItem) error
}

// TeamMembers lists active team members for the deadline digest.
type TeamMembers interface {
	ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// Jobs holds the asynq handlers. Every handler acts as the system actor.
type Jobs struct {
	tasks       TaskSource
	deadlines   DeadlineSource
	notifier    Notifier
	teams       TeamMembers
	uow         db.UnitOfWork
	system      actor.Actor
	warningDays int
	now         func() time.Time
	log         *logger.Logger
}

func NewJobs(tasks TaskSource, deadlines DeadlineSource, notifier Notifier, teams TeamMembers, uow db.UnitOfWork, system actor.Actor, warningDays int, log *logger.Logger) *Jobs {
	if warningDays <= 0 {
		warningDays = defaultDeadlineWarningDays
	}
	return &Jobs{
		tasks:       tasks,
		deadlines:   deadlines,
		notifier:    notifier,
		teams:       teams,
		uow:         uow,
		system:      system,
		warningDays: warningDays,
		now:         time.Now,
		log:         log,
	}
}

// Register mounts the handlers on mux.
func (j *Jobs) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskDueSoon, j.HandleTaskDueSoon)
	mux.HandleFunc(TaskScanOverdue, j.HandleScanOverdue)
	mux.HandleFunc(TaskScanDeadlines, j.HandleScanDeadlines)
}

func (j *Jobs) asSystem(ctx context.Context) context.Context {
	return actor.WithActor(ctx, j.system)
}

// HandleTaskDueSoon reminds the assignee when the task is still open and the
// due date is the one the reminder was scheduled for.
func (j *Jobs) HandleTaskDueSoon(ctx context.Context, task *asynq.Task) error {
	ctx = j.asSystem(ctx)
	payload, err := ParseTaskDueSoonPayload(task)
	if err != nil {
		return err
	}
	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	t, err := j.tasks.Get(ctx, taskID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !t.Status.IsOpen() || t.AssignedToUserID == nil || t.DueDate == nil {
		return nil
	}
	if payload.DueUnix != 0 && t.DueDate.Unix() != payload.DueUnix {
		return nil
	}
	if !t.DueDate.After(j.now()) {
		return nil
	}

	return j.uow.Do(ctx, func(ctx context.Context) error {
		return j.notifier.NotifyTaskDueSoon(ctx, t)
	})
}

// HandleScanOverdue sends one overdue notice per task per day. Each notice
// and its stamp share a unit of work, so a retry only covers the failures.
func (j *Jobs) HandleScanOverdue(ctx context.Context, _ *asynq.Task) error {
	ctx = j.asSystem(ctx)
	overdue, err := j.tasks.OverdueToNotify(ctx)
	if err != nil {
		return err
	}

	var errs []error
	sent := 0
	for _, t := range overdue {
		err := j.uow.Do(ctx, func(ctx context.Context) error {
			if err := j.notifier.NotifyTaskOverdue(ctx, t); err != nil {
				return err
			}
			return j.tasks.MarkOverdueNotified(ctx, t.ID)
		})
		if err != nil {
			j.log.Error("overdue notice failed", "taskId", t.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		sent++
	}

	j.log.Info("overdue scan finished", "candidates", len(overdue), "sent", sent)
	return errors.Join(errs...)
}

// HandleScanDeadlines notifies each case team of upcoming MMI and 120-day
// expiry dates and emails every member a digest of their deadlines.
func (j *Jobs) HandleScanDeadlines(ctx context.Context, _ *asynq.Task) error {
	ctx = j.asSystem(ctx)
	deadlines, err := j.deadlines.Deadlines(ctx, j.warningDays)
	if err != nil {
		return err
	}

	var errs []error
	digests := make(map[uuid.UUID][]email.DeadlineItem)
	var order []uuid.UUID
	members := make(map[uuid.UUID][]uuid.UUID)

	for _, d := range deadlines {
		if d.AssignedTeamID == nil {
			continue
		}
		notice := notification.DeadlineNotice{
			CaseID:        d.CaseID,
			CaseNumber:    d.CaseNumber,
			TeamID:        d.AssignedTeamID,
			Deadline:      d.DeadlineType,
			Date:          d.DeadlineDate,
			DaysRemaining: d.DaysRemaining,
		}
		if err := j.uow.Do(ctx, func(ctx context.Context) error {
			return j.notifier.NotifyDeadlineApproaching(ctx, notice)
		}); err != nil {
			j.log.Error("deadline notice failed", "caseId", d.CaseID, "error", err)
			errs = append(errs, err)
			continue
		}

		if j.teams == nil {
			continue
		}
		teamID := *d.AssignedTeamID
		ids, ok := members[teamID]
		if !ok {
			ids, err = j.teams.ActiveMemberIDs(ctx, teamID)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			members[teamID] = ids
		}
		item := email.DeadlineItem{
			CaseNumber:    d.CaseNumber,
			Deadline:      d.DeadlineType,
			Date:          d.DeadlineDate.Format(digestDateLayout),
			DaysRemaining: d.DaysRemaining,
			URL:           "/Cases/Details?id=" + d.CaseID.String(),
		}
		for _, userID := range ids {
			if _, seen := digests[userID]; !seen {
				order = append(order, userID)
			}
			digests[userID] = append(digests[userID], item)
		}
	}

	for _, userID := range order {
		if err := j.notifier.SendDeadlineDigest(ctx, userID, digests[userID]); err != nil {
			j.log.Error("deadline digest failed", "userId", userID, "error", err)
			errs = append(errs, err)
		}
	}

	j.log.Info("deadline scan finished", "deadlines", len(deadlines), "digests", len(order))
	return errors.Join(errs...)
}
