package transport

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type CreateCaseRequest struct {
	CaseNumber              string     `json:"caseNumber,omitempty" validate:"omitempty,max=50"`
	ClientID                uuid.UUID  `json:"clientId" validate:"required"`
	AccidentDate            string     `json:"accidentDate" validate:"required,datetime=2006-01-02"`
	AccidentDescription     string     `json:"accidentDescription,omitempty" validate:"omitempty,max=2000"`
	AccidentLocation        string     `json:"accidentLocation,omitempty" validate:"omitempty,max=500"`
	InitialLodgementDate    string     `json:"initialLodgementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssignedAttorney        string     `json:"assignedAttorney,omitempty" validate:"omitempty,max=200"`
	CandidateAttorney       string     `json:"candidateAttorney,omitempty" validate:"omitempty,max=200"`
	FeeAgreementSigned      bool       `json:"feeAgreementSigned"`
	ContingencyFeeAgreement bool       `json:"contingencyFeeAgreement"`
	EstimatedClaimValue     *float64   `json:"estimatedClaimValue,omitempty" validate:"omitempty,gte=0"`
	Notes                   string     `json:"notes,omitempty" validate:"omitempty,max=4000"`
	AssignedTeamID          *uuid.UUID `json:"assignedTeamId,omitempty"`
}

// UpdateCaseRequest changes case details. Status moves go through the
// status endpoint so the lifecycle rules apply.
type UpdateCaseRequest struct {
	Version                 int      `json:"version" validate:"required,min=1"`
	CaseNumber              *string  `json:"caseNumber,omitempty" validate:"omitempty,min=1,max=50"`
	AccidentDate            *string  `json:"accidentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AccidentDescription     *string  `json:"accidentDescription,omitempty" validate:"omitempty,max=2000"`
	AccidentLocation        *string  `json:"accidentLocation,omitempty" validate:"omitempty,max=500"`
	InitialLodgementDate    *string  `json:"initialLodgementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ComplianceLodgementDate *string  `json:"complianceLodgementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MmiDate                 *string  `json:"mmiDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StatutoryExpiryDate     *string  `json:"statutoryExpiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SummonsIssueDate        *string  `json:"summonsIssueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssignedAttorney        *string  `json:"assignedAttorney,omitempty" validate:"omitempty,max=200"`
	CandidateAttorney       *string  `json:"candidateAttorney,omitempty" validate:"omitempty,max=200"`
	FeeAgreementSigned      *bool    `json:"feeAgreementSigned,omitempty"`
	ContingencyFeeAgreement *bool    `json:"contingencyFeeAgreement,omitempty"`
	EstimatedClaimValue     *float64 `json:"estimatedClaimValue,omitempty" validate:"omitempty,gte=0"`
	SettlementAmount        *float64 `json:"settlementAmount,omitempty" validate:"omitempty,gte=0"`
	Notes                   *string  `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required,case_status"`
}

type ListCasesRequest struct {
	Search         string `form:"search" validate:"omitempty,max=100"`
	Status         string `form:"status" validate:"omitempty,case_status"`
	AssignedTeamID string `form:"teamId" validate:"omitempty,uuid"`
	ClientID       string `form:"clientId" validate:"omitempty,uuid"`
	Sort           string `form:"sort" validate:"omitempty,oneof=newest oldest casenumber client"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type CaseResponse struct {
	ID                       uuid.UUID  `json:"id"`
	CaseNumber               string     `json:"caseNumber"`
	ClientID                 uuid.UUID  `json:"clientId"`
	ClientName               string     `json:"clientName"`
	AccidentDate             string     `json:"accidentDate"`
	AccidentDescription      *string    `json:"accidentDescription,omitempty"`
	AccidentLocation         *string    `json:"accidentLocation,omitempty"`
	Status                   string     `json:"status"`
	StatusDisplayName        string     `json:"statusDisplayName"`
	DateOpened               time.Time  `json:"dateOpened"`
	DateClosed               *string    `json:"dateClosed,omitempty"`
	InitialLodgementDate     *string    `json:"initialLodgementDate,omitempty"`
	ComplianceLodgementDate  *string    `json:"complianceLodgementDate,omitempty"`
	MmiDate                  *string    `json:"mmiDate,omitempty"`
	StatutoryExpiryDate      *string    `json:"statutoryExpiryDate,omitempty"`
	SummonsIssueDate         *string    `json:"summonsIssueDate,omitempty"`
	AssignedAttorney         *string    `json:"assignedAttorney,omitempty"`
	CandidateAttorney        *string    `json:"candidateAttorney,omitempty"`
	FeeAgreementSigned       bool       `json:"feeAgreementSigned"`
	ContingencyFeeAgreement  bool       `json:"contingencyFeeAgreement"`
	EstimatedClaimValue      *float64   `json:"estimatedClaimValue,omitempty"`
	SettlementAmount         *float64   `json:"settlementAmount,omitempty"`
	Notes                    *string    `json:"notes,omitempty"`
	AssignedTeamID           *uuid.UUID `json:"assignedTeamId,omitempty"`
	DaysSinceAccident        int        `json:"daysSinceAccident"`
	DaysUntilMmi             *int       `json:"daysUntilMmi,omitempty"`
	DaysUntilStatutoryExpiry *int       `json:"daysUntilStatutoryExpiry,omitempty"`
	Version                  int        `json:"version"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

type CaseListResponse struct {
	Items      []CaseResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type AddActivityRequest struct {
	Type         string     `json:"type" validate:"required,oneof=NoteAdded ClientContact RafCommunication CourtFiling DiaryEntry Reminder Other"`
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description,omitempty" validate:"omitempty,max=4000"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
}

type ActivityResponse struct {
	ID                uuid.UUID  `json:"id"`
	CaseID            uuid.UUID  `json:"caseId"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	ActivityDate      time.Time  `json:"activityDate"`
	CreatedBy         string     `json:"createdBy"`
	IsReminder        bool       `json:"isReminder"`
	ReminderDate      *time.Time `json:"reminderDate,omitempty"`
	ReminderCompleted bool       `json:"reminderCompleted"`
}

type StatusResponse struct {
	Status      string   `json:"status"`
	DisplayName string   `json:"displayName"`
	ShortName   string   `json:"shortName"`
	IsTerminal  bool     `json:"isTerminal"`
	AllowedNext []string `json:"allowedNext"`
}

type StatusListResponse struct {
	Policy   string           `json:"policy"`
	Statuses []StatusResponse `json:"statuses"`
}
