package domain

import (
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"

	"github.com/google/uuid"
)

// defaultDueOffsetDays applies to stages without a dedicated deadline.
const defaultDueOffsetDays = 30

var dueOffsets = map[casedomain.Status]int{
	casedomain.StatusClientIntake:        7,
	casedomain.StatusInitialLodgement:    14,
	casedomain.StatusExpertAppointments:  30,
	casedomain.StatusComplianceLodgement: 14,
	casedomain.StatusSummonsIssued:       10,
}

// PriorityFor maps the case stage a workflow task belongs to onto a priority.
func PriorityFor(status casedomain.Status) Priority {
	switch status {
	case casedomain.StatusClientIntake:
		return PriorityHigh
	case casedomain.StatusSummonsIssued:
		return PriorityUrgent
	default:
		return PriorityMedium
	}
}

// DueOffsetFor returns how many days after creation a workflow task is due.
func DueOffsetFor(status casedomain.Status) int {
	if days, ok := dueOffsets[status]; ok {
		return days
	}
	return defaultDueOffsetDays
}

// CaseRef is the slice of a case a workflow task needs.
type CaseRef struct {
	ID         uuid.UUID
	CaseNumber string
	TeamID     *uuid.UUID
}

// WorkflowInput describes a task raised for a case stage.
type WorkflowInput struct {
	CaseStatus  casedomain.Status
	Title       string
	Description *string
	AssigneeID  *uuid.UUID
}

// NewWorkflowTask derives a NotStarted task from the case stage. The team is
// inherited from the case.
func NewWorkflowTask(c CaseRef, in WorkflowInput, createdByID *uuid.UUID, createdByName string, now time.Time) Task {
	due := now.AddDate(0, 0, DueOffsetFor(in.CaseStatus))
	caseID := c.ID
	status := in.CaseStatus
	return Task{
		Title:             in.Title,
		Description:       in.Description,
		CaseID:            &caseID,
		TeamID:            c.TeamID,
		AssignedToUserID:  in.AssigneeID,
		CreatedByUserID:   createdByID,
		CreatedByName:     createdByName,
		Status:            StatusNotStarted,
		Priority:          PriorityFor(in.CaseStatus),
		RelatedCaseStatus: &status,
		IsWorkflowTask:    true,
		CreatedAt:         now,
		DueDate:           &due,
	}
}
