// Package events declares the domain events RAF modules publish, on top of
// the bus in platform/events.
package events

import (
	"time"

	"raf_pnp_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Case Domain Events
// =============================================================================

// CaseCreated is published after a new RAF case is committed.
type CaseCreated struct {
	BaseEvent
	CaseID     uuid.UUID `json:"caseId"`
	CaseNumber string    `json:"caseNumber"`
	ClientID   uuid.UUID `json:"clientId"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e CaseCreated) EventName() string { return "cases.created" }

// CaseStatusChanged is published after a lifecycle transition is committed.
type CaseStatusChanged struct {
	BaseEvent
	CaseID         uuid.UUID  `json:"caseId"`
	CaseNumber     string     `json:"caseNumber"`
	OldStatus      string     `json:"oldStatus"`
	NewStatus      string     `json:"newStatus"`
	AssignedTeamID *uuid.UUID `json:"assignedTeamId,omitempty"`
	ActorID        uuid.UUID  `json:"actorId"`
}

func (e CaseStatusChanged) EventName() string { return "cases.status_changed" }

// CaseTeamAssigned is published when a team is assigned to or removed from a case.
type CaseTeamAssigned struct {
	BaseEvent
	CaseID uuid.UUID  `json:"caseId"`
	TeamID *uuid.UUID `json:"teamId,omitempty"`
}

func (e CaseTeamAssigned) EventName() string { return "cases.team_assigned" }

// DocumentUploaded is published after a case document is stored.
type DocumentUploaded struct {
	BaseEvent
	CaseID       uuid.UUID `json:"caseId"`
	DocumentID   uuid.UUID `json:"documentId"`
	DocumentName string    `json:"documentName"`
	DocumentType string    `json:"documentType"`
}

func (e DocumentUploaded) EventName() string { return "documents.uploaded" }

// =============================================================================
// Task Domain Events
// =============================================================================

// TaskAssigned is published when a task gets an assignee.
type TaskAssigned struct {
	BaseEvent
	TaskID     uuid.UUID  `json:"taskId"`
	AssigneeID uuid.UUID  `json:"assigneeId"`
	CaseID     *uuid.UUID `json:"caseId,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

func (e TaskAssigned) EventName() string { return "tasks.assigned" }

// TaskDueDateChanged is published when an assigned open task gets a new due date.
type TaskDueDateChanged struct {
	BaseEvent
	TaskID     uuid.UUID `json:"taskId"`
	AssigneeID uuid.UUID `json:"assigneeId"`
	DueDate    time.Time `json:"dueDate"`
}

func (e TaskDueDateChanged) EventName() string { return "tasks.due_date_changed" }

// TaskCompleted is published when a task moves to Completed.
type TaskCompleted struct {
	BaseEvent
	TaskID    uuid.UUID `json:"taskId"`
	CreatorID uuid.UUID `json:"creatorId"`
}

func (e TaskCompleted) EventName() string { return "tasks.completed" }
