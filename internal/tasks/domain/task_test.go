package domain

import (
	"testing"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"

	"github.com/google/uuid"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestWorkflowMappings(t *testing.T) {
	tests := []struct {
		status   casedomain.Status
		priority Priority
		days     int
	}{
		{casedomain.StatusClientIntake, PriorityHigh, 7},
		{casedomain.StatusInitialLodgement, PriorityMedium, 14},
		{casedomain.StatusExpertAppointments, PriorityMedium, 30},
		{casedomain.StatusComplianceLodgement, PriorityMedium, 14},
		{casedomain.StatusStatutoryWaitingPeriod, PriorityMedium, 30},
		{casedomain.StatusSummonsIssued, PriorityUrgent, 10},
		{casedomain.StatusTrialPhase, PriorityMedium, 30},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := PriorityFor(tt.status); got != tt.priority {
				t.Fatalf("priority: expected %s, got %s", tt.priority, got)
			}
			if got := DueOffsetFor(tt.status); got != tt.days {
				t.Fatalf("offset: expected %d, got %d", tt.days, got)
			}
		})
	}
}

func TestNewWorkflowTaskInheritsTeam(t *testing.T) {
	teamID := uuid.New()
	ref := CaseRef{ID: uuid.New(), CaseNumber: "RAF-2025-001", TeamID: &teamID}

	task := NewWorkflowTask(ref, WorkflowInput{
		CaseStatus: casedomain.StatusSummonsIssued,
		Title:      "Serve summons",
	}, nil, "System", now)

	if task.TeamID == nil || *task.TeamID != teamID {
		t.Fatalf("expected team %s, got %v", teamID, task.TeamID)
	}
	if !task.IsWorkflowTask || task.RelatedCaseStatus == nil || *task.RelatedCaseStatus != casedomain.StatusSummonsIssued {
		t.Fatalf("expected workflow flags, got %+v", task)
	}
	if task.Status != StatusNotStarted || task.Priority != PriorityUrgent {
		t.Fatalf("unexpected status/priority %s/%s", task.Status, task.Priority)
	}
	if want := now.AddDate(0, 0, 10); !task.DueDate.Equal(want) {
		t.Fatalf("expected due %s, got %s", want, task.DueDate)
	}
}

func TestIsOverdueAndDaysUntilDue(t *testing.T) {
	past := now.Add(-36 * time.Hour)
	future := now.Add(50 * time.Hour)

	tests := []struct {
		name    string
		task    Task
		overdue bool
		days    *int
	}{
		{"no due date", Task{Status: StatusInProgress}, false, nil},
		{"past open", Task{Status: StatusInProgress, DueDate: &past}, true, intPtr(-1)},
		{"past completed", Task{Status: StatusCompleted, DueDate: &past}, false, intPtr(-1)},
		{"past cancelled", Task{Status: StatusCancelled, DueDate: &past}, false, intPtr(-1)},
		{"future", Task{Status: StatusNotStarted, DueDate: &future}, false, intPtr(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.overdue {
				t.Fatalf("overdue: expected %v, got %v", tt.overdue, got)
			}
			got := tt.task.DaysUntilDue(now)
			if (got == nil) != (tt.days == nil) || (got != nil && *got != *tt.days) {
				t.Fatalf("days: expected %v, got %v", deref(tt.days), deref(got))
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityUrgent.Rank() <= PriorityHigh.Rank() || PriorityLow.Rank() != 0 {
		t.Fatal("unexpected priority ordering")
	}
	if Priority("Critical").IsValid() {
		t.Fatal("unknown priority must be invalid")
	}
}

func intPtr(v int) *int { return &v }

func deref(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
