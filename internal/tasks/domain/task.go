// Package domain holds task types and the workflow task rules.
package domain

import (
	"math"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"

	"github.com/google/uuid"
)

// Status is the progress of a task. Cancelled is the soft delete state.
type Status string

const (
	StatusNotStarted  Status = "NotStarted"
	StatusInProgress  Status = "InProgress"
	StatusBlocked     Status = "Blocked"
	StatusUnderReview Status = "UnderReview"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
)

var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusBlocked,
	StatusUnderReview,
	StatusCompleted,
	StatusCancelled,
}

var statusNames = map[Status]string{
	StatusNotStarted:  "Not Started",
	StatusInProgress:  "In Progress",
	StatusBlocked:     "Blocked",
	StatusUnderReview: "Under Review",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// DisplayName returns the human label of s.
func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// IsOpen reports whether work on the task can still happen.
func (s Status) IsOpen() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// Priority orders tasks; higher ranks sort first.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank is 0 for Low up to 3 for Urgent, or -1 when unknown.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

type Task struct {
	ID                uuid.UUID
	Title             string
	Description       *string
	CaseID            *uuid.UUID
	CaseNumber        *string
	TeamID            *uuid.UUID
	TeamName          *string
	AssignedToUserID  *uuid.UUID
	AssigneeName      *string
	CreatedByUserID   *uuid.UUID
	CreatedByName     string
	Status            Status
	Priority          Priority
	RelatedCaseStatus *casedomain.Status
	IsWorkflowTask    bool
	CreatedAt         time.Time
	DueDate           *time.Time
	CompletedDate     *time.Time
	OverdueNotifiedAt *time.Time
	UpdatedAt         time.Time
}

// IsOverdue reports whether an open task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status.IsOpen()
}

// DaysUntilDue is the number of whole days left, negative once overdue.
// It is nil when the task has no due date.
func (t Task) DaysUntilDue(now time.Time) *int {
	if t.DueDate == nil {
		return nil
	}
	days := int(math.Trunc(t.DueDate.Sub(now).Hours() / 24))
	return &days
}

type Comment struct {
	ID         uuid.UUID
	TaskID     uuid.UUID
	UserID     *uuid.UUID
	AuthorName string
	Comment    string
	CreatedAt  time.Time
}

// MaxCommentLength bounds a single comment.
const MaxCommentLength = 1000
