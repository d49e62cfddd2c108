package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultDueSoonLead = 24 * time.Hour

// Client enqueues one-off reminder jobs from the API process.
type Client struct {
	client *asynq.Client
	queue  string
	lead   time.Duration
	now    func() time.Time
	log    *logger.Logger
}

// ReminderScheduler queues the due-soon reminder for a task.
type ReminderScheduler interface {
	ScheduleTaskDueReminder(ctx context.Context, payload TaskDueSoonPayload, runAt time.Time) error
}

func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}
	lead := cfg.GetTaskDueSoonLead()
	if lead <= 0 {
		lead = defaultDueSoonLead
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
		lead:   lead,
		now:    time.Now,
		log:    log,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleTaskDueReminder enqueues a tasks.due_soon job at runAt. Repeat
// calls for the same task and due date are ignored.
func (c *Client) ScheduleTaskDueReminder(ctx context.Context, payload TaskDueSoonPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewTaskDueSoonTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.TaskID(fmt.Sprintf("due-soon:%s:%d", payload.TaskID, payload.DueUnix)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// ScheduleDueReminder schedules the reminder lead before due. A reminder time
// already in the past fires immediately; a past due date schedules nothing.
func (c *Client) ScheduleDueReminder(ctx context.Context, taskID uuid.UUID, due time.Time) error {
	now := c.now()
	if !due.After(now) {
		return nil
	}
	runAt := due.Add(-c.lead)
	if runAt.Before(now) {
		runAt = now
	}
	return c.ScheduleTaskDueReminder(ctx, TaskDueSoonPayload{TaskID: taskID.String(), DueUnix: due.Unix()}, runAt)
}

// Handle schedules a reminder for every assignment that carries a due date
// and for every due date change. Reminders for a replaced due date are
// dropped by the job itself.
func (c *Client) Handle(ctx context.Context, event events.Event) error {
	var taskID uuid.UUID
	var due time.Time
	switch e := event.(type) {
	case events.TaskAssigned:
		if e.DueDate == nil {
			return nil
		}
		taskID, due = e.TaskID, *e.DueDate
	case events.TaskDueDateChanged:
		taskID, due = e.TaskID, e.DueDate
	default:
		return nil
	}
	if err := c.ScheduleDueReminder(ctx, taskID, due); err != nil {
		c.log.Error("schedule task reminder failed", "taskId", taskID, "error", err)
		return err
	}
	return nil
}

// RegisterHandlers subscribes the client to assignments and due date changes.
func (c *Client) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.TaskAssigned{}.EventName(), c)
	bus.Subscribe(events.TaskDueDateChanged{}.EventName(), c)
}

var _ ReminderScheduler = (*Client)(nil)
