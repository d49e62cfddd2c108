// Package domain holds team and membership types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle tag of a team or membership. Rows are never
// removed; they move to StateDeactivated.
type State string

const (
	StateActive      State = "active"
	StateDeactivated State = "deactivated"
)

// IsActive reports whether the state is active.
func (s State) IsActive() bool { return s == StateActive }

// Role is a member's position in a team.
type Role string

const (
	RoleMember Role = "Member"
	RoleLead   Role = "Lead"
	RoleAdmin  Role = "Admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLead, RoleAdmin:
		return true
	}
	return false
}

// Rank orders roles from Member (0) to Admin (2).
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleLead:
		return 1
	default:
		return 0
	}
}

type Team struct {
	ID          uuid.UUID
	Name        string
	Description *string
	LeadUserID  *uuid.UUID
	LeadName    *string
	State       State
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Member struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	UserID    uuid.UUID
	UserName  string
	UserEmail string
	Role      Role
	State     State
	JoinedAt  time.Time
}

// TaskCounts are the raw figures behind Stats.
type TaskCounts struct {
	Total     int
	Active    int
	Completed int
	Overdue   int
}

type Stats struct {
	TotalMembers   int
	ActiveCases    int
	TotalTasks     int
	ActiveTasks    int
	CompletedTasks int
	OverdueTasks   int
	CompletionRate float64
}

// NewStats derives the completion rate as a percentage of all tasks.
func NewStats(members, cases int, tasks TaskCounts) Stats {
	rate := 0.0
	if tasks.Total > 0 {
		rate = float64(tasks.Completed) / float64(tasks.Total) * 100
	}
	return Stats{
		TotalMembers:   members,
		ActiveCases:    cases,
		TotalTasks:     tasks.Total,
		ActiveTasks:    tasks.Active,
		CompletedTasks: tasks.Completed,
		OverdueTasks:   tasks.Overdue,
		CompletionRate: rate,
	}
}
