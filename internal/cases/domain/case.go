package domain

import (
	"time"

	"github.com/google/uuid"
)

// MmiMonths is the time from accident to maximum medical improvement.
const MmiMonths = 12

// Case is a Road Accident Fund claim.
type Case struct {
	ID                      uuid.UUID
	CaseNumber              string
	ClientID                uuid.UUID
	ClientFirstName         string
	ClientLastName          string
	AccidentDate            time.Time
	AccidentDescription     *string
	AccidentLocation        *string
	Status                  Status
	DateOpened              time.Time
	DateClosed              *time.Time
	InitialLodgementDate    *time.Time
	ComplianceLodgementDate *time.Time
	MmiDate                 *time.Time
	StatutoryExpiryDate     *time.Time
	SummonsIssueDate        *time.Time
	AssignedAttorney        *string
	CandidateAttorney       *string
	FeeAgreementSigned      bool
	ContingencyFeeAgreement bool
	EstimatedClaimValue     *float64
	SettlementAmount        *float64
	Notes                   *string
	AssignedTeamID          *uuid.UUID
	Version                 int
	UpdatedAt               time.Time
}

// ClientName returns "First Last".
func (c Case) ClientName() string {
	if c.ClientFirstName == "" && c.ClientLastName == "" {
		return "Unknown"
	}
	return c.ClientFirstName + " " + c.ClientLastName
}

// DaysSinceAccident counts whole days from the accident to now.
func (c Case) DaysSinceAccident(now time.Time) int {
	return wholeDays(now.Sub(c.AccidentDate))
}

// DaysUntilMmi counts whole days until the MMI date, nil when unset.
func (c Case) DaysUntilMmi(now time.Time) *int {
	return daysUntil(c.MmiDate, now)
}

// DaysUntilStatutoryExpiry counts whole days until the 120-day window ends.
func (c Case) DaysUntilStatutoryExpiry(now time.Time) *int {
	return daysUntil(c.StatutoryExpiryDate, now)
}

// DefaultMmiDate is the accident date plus twelve months.
func DefaultMmiDate(accident time.Time) time.Time {
	return accident.AddDate(0, MmiMonths, 0)
}

func daysUntil(target *time.Time, now time.Time) *int {
	if target == nil {
		return nil
	}
	days := wholeDays(target.Sub(now))
	return &days
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

// ActivityType classifies case log entries.
type ActivityType string

const (
	ActivityNoteAdded         ActivityType = "NoteAdded"
	ActivityDocumentUploaded  ActivityType = "DocumentUploaded"
	ActivityStatusChanged     ActivityType = "StatusChanged"
	ActivityClientContact     ActivityType = "ClientContact"
	ActivityRafCommunication  ActivityType = "RafCommunication"
	ActivityCourtFiling       ActivityType = "CourtFiling"
	ActivityExpertAppointment ActivityType = "ExpertAppointment"
	ActivityDiaryEntry        ActivityType = "DiaryEntry"
	ActivityReminder          ActivityType = "Reminder"
	ActivityOther             ActivityType = "Other"
)

// ActivityTypes lists every activity type.
var ActivityTypes = []ActivityType{
	ActivityNoteAdded,
	ActivityDocumentUploaded,
	ActivityStatusChanged,
	ActivityClientContact,
	ActivityRafCommunication,
	ActivityCourtFiling,
	ActivityExpertAppointment,
	ActivityDiaryEntry,
	ActivityReminder,
	ActivityOther,
}

// Activity is an append-only case log entry.
type Activity struct {
	ID                uuid.UUID
	CaseID            uuid.UUID
	Type              ActivityType
	Title             string
	Description       *string
	ActivityDate      time.Time
	CreatedBy         string
	IsReminder        bool
	ReminderDate      *time.Time
	ReminderCompleted bool
}

// NewCaseCreatedActivity is the first log entry of every case.
func NewCaseCreatedActivity(caseNumber string) ActivityDraft {
	return ActivityDraft{
		Type:        ActivityStatusChanged,
		Title:       "Case Created",
		Description: "New RAF case created. Case Number: " + caseNumber,
	}
}

// ActivityDraft is an activity before it has been stored.
type ActivityDraft struct {
	Type         ActivityType
	Title        string
	Description  string
	IsReminder   bool
	ReminderDate *time.Time
}
