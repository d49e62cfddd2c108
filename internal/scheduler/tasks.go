package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDueSoon = "tasks.due_soon"

const TaskScanOverdue = "scan.overdue_tasks"

const TaskScanDeadlines = "scan.case_deadlines"

type TaskDueSoonPayload struct {
	TaskID string `json:"taskId"`
	// DueUnix pins the reminder to the due date it was scheduled for, so a
	// stale reminder is ignored after the due date moves.
	DueUnix int64 `json:"dueUnix"`
}

func NewTaskDueSoonTask(payload TaskDueSoonPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDueSoon, data), nil
}

func ParseTaskDueSoonPayload(task *asynq.Task) (TaskDueSoonPayload, error) {
	var payload TaskDueSoonPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TaskDueSoonPayload{}, err
	}
	return payload, nil
}
