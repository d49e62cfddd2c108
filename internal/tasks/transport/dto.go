package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title            string     `json:"title" validate:"required,min=1,max=200"`
	Description      string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	CaseID           *uuid.UUID `json:"caseId,omitempty"`
	TeamID           *uuid.UUID `json:"teamId,omitempty"`
	AssignedToUserID *uuid.UUID `json:"assignedToUserId,omitempty"`
	Priority         string     `json:"priority,omitempty" validate:"omitempty,task_priority"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,task_priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type ListTasksRequest struct {
	Status           string `form:"status" validate:"omitempty,task_status"`
	AssignedToUserID string `form:"assignedToUserId" validate:"omitempty,uuid"`
	TeamID           string `form:"teamId" validate:"omitempty,uuid"`
	CaseID           string `form:"caseId" validate:"omitempty,uuid"`
}

type AssignTaskRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,task_status"`
}

// AddCommentRequest carries the comment text. UserID defaults to the
// authenticated user.
type AddCommentRequest struct {
	UserID  *uuid.UUID `json:"userId,omitempty"`
	Comment string     `json:"comment" validate:"required,min=1,max=1000"`
}

type CreateWorkflowTaskRequest struct {
	CaseID         uuid.UUID  `json:"caseId" validate:"required"`
	CaseStatus     string     `json:"caseStatus" validate:"required,case_status"`
	Title          string     `json:"title" validate:"required,min=1,max=200"`
	Description    string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssignToUserID *uuid.UUID `json:"assignToUserId,omitempty"`
}

type TaskResponse struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       *string           `json:"description,omitempty"`
	CaseID            *uuid.UUID        `json:"caseId,omitempty"`
	CaseNumber        *string           `json:"caseNumber,omitempty"`
	TeamID            *uuid.UUID        `json:"teamId,omitempty"`
	TeamName          *string           `json:"teamName,omitempty"`
	AssignedToUserID  *uuid.UUID        `json:"assignedToUserId,omitempty"`
	AssigneeName      *string           `json:"assigneeName,omitempty"`
	CreatedByUserID   *uuid.UUID        `json:"createdByUserId,omitempty"`
	CreatedByName     string            `json:"createdByName"`
	Status            string            `json:"status"`
	StatusDisplayName string            `json:"statusDisplayName"`
	Priority          string            `json:"priority"`
	RelatedCaseStatus *string           `json:"relatedCaseStatus,omitempty"`
	IsWorkflowTask    bool              `json:"isWorkflowTask"`
	CreatedAt         time.Time         `json:"createdAt"`
	DueDate           *time.Time        `json:"dueDate,omitempty"`
	CompletedDate     *time.Time        `json:"completedDate,omitempty"`
	IsOverdue         bool              `json:"isOverdue"`
	DaysUntilDue      *int              `json:"daysUntilDue,omitempty"`
	Comments          []CommentResponse `json:"comments,omitempty"`
}

type CommentResponse struct {
	ID         uuid.UUID  `json:"id"`
	TaskID     uuid.UUID  `json:"taskId"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	AuthorName string     `json:"authorName"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt"`
}
