package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=500"`
	LeadUserID  *uuid.UUID `json:"leadUserId,omitempty"`
}

type UpdateTeamRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	LeadUserID  *uuid.UUID `json:"leadUserId,omitempty"`
}

type ListTeamsRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role,omitempty" validate:"omitempty,oneof=Member Lead Admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Member Lead Admin"`
}

type AssignCaseRequest struct {
	CaseID uuid.UUID `json:"caseId" validate:"required"`
}

type TeamResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	LeadUserID  *uuid.UUID       `json:"leadUserId,omitempty"`
	LeadName    *string          `json:"leadName,omitempty"`
	State       string           `json:"state"`
	IsActive    bool             `json:"isActive"`
	MemberCount int              `json:"memberCount"`
	Members     []MemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	State    string    `json:"state"`
	JoinedAt time.Time `json:"joinedAt"`
}

type StatsResponse struct {
	TotalMembers   int     `json:"totalMembers"`
	ActiveCases    int     `json:"activeCases"`
	TotalTasks     int     `json:"totalTasks"`
	ActiveTasks    int     `json:"activeTasks"`
	CompletedTasks int     `json:"completedTasks"`
	OverdueTasks   int     `json:"overdueTasks"`
	CompletionRate float64 `json:"completionRate"`
}
