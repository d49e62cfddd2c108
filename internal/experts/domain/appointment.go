// Package domain holds expert appointment types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpertType is the medico-legal discipline of an expert.
type ExpertType string

const (
	ExpertNeurosurgeon           ExpertType = "Neurosurgeon"
	ExpertMaxillofacialSurgeon   ExpertType = "MaxillofacialSurgeon"
	ExpertClinicalPsychologist   ExpertType = "ClinicalPsychologist"
	ExpertOccupationalTherapist  ExpertType = "OccupationalTherapist"
	ExpertIndustrialPsychologist ExpertType = "IndustrialPsychologist"
	ExpertActuary                ExpertType = "Actuary"
	ExpertOrthopaedicSurgeon     ExpertType = "OrthopaedicSurgeon"
	ExpertGeneralPractitioner    ExpertType = "GeneralPractitioner"
	ExpertPhysiotherapist        ExpertType = "Physiotherapist"
	ExpertOther                  ExpertType = "Other"
)

var expertNames = map[ExpertType]string{
	ExpertNeurosurgeon:           "Neurosurgeon",
	ExpertMaxillofacialSurgeon:   "Maxillofacial Surgeon",
	ExpertClinicalPsychologist:   "Clinical Psychologist",
	ExpertOccupationalTherapist:  "Occupational Therapist",
	ExpertIndustrialPsychologist: "Industrial Psychologist",
	ExpertActuary:                "Actuary",
	ExpertOrthopaedicSurgeon:     "Orthopaedic Surgeon",
	ExpertGeneralPractitioner:    "General Practitioner",
	ExpertPhysiotherapist:        "Physiotherapist",
	ExpertOther:                  "Other",
}

func (t ExpertType) IsValid() bool {
	_, ok := expertNames[t]
	return ok
}

func (t ExpertType) DisplayName() string {
	if name, ok := expertNames[t]; ok {
		return name
	}
	return string(t)
}

// Status tracks an appointment from booking to report.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusScheduled      Status = "Scheduled"
	StatusCompleted      Status = "Completed"
	StatusCancelled      Status = "Cancelled"
	StatusReportReceived Status = "ReportReceived"
)

var statusNames = map[Status]string{
	StatusPending:        "Pending",
	StatusScheduled:      "Scheduled",
	StatusCompleted:      "Completed",
	StatusCancelled:      "Cancelled",
	StatusReportReceived: "Report Received",
}

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// IsOutstanding reports whether the expert report is still awaited.
func (s Status) IsOutstanding() bool {
	return s == StatusPending || s == StatusScheduled
}

// Appointment is an expert engaged on a case.
type Appointment struct {
	ID                 uuid.UUID
	CaseID             uuid.UUID
	ExpertType         ExpertType
	ExpertName         string
	PracticeName       *string
	ContactNumber      *string
	Email              *string
	AppointmentDate    *time.Time
	Status             Status
	ReportReceivedDate *time.Time
	ExpertFee          *float64
	FeePaid            bool
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ApplyStatus moves the appointment to next. Entering ReportReceived stamps
// the report date once; today is the calendar date in the firm's location.
func (a *Appointment) ApplyStatus(next Status, today time.Time) {
	a.Status = next
	if next == StatusReportReceived && a.ReportReceivedDate == nil {
		d := today
		a.ReportReceivedDate = &d
	}
}

// AppointedActivity is the case log text for a new appointment.
func AppointedActivity(a Appointment) (title, description string) {
	description = a.ExpertType.DisplayName() + ": " + a.ExpertName
	if a.AppointmentDate != nil {
		description += " on " + a.AppointmentDate.Format("02 Jan 2006")
	}
	return "Expert Appointed", description
}
