package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ExpertType      string     `json:"expertType" validate:"required,expert_type"`
	ExpertName      string     `json:"expertName" validate:"required,min=1,max=200"`
	PracticeName    string     `json:"practiceName" validate:"max=200"`
	ContactNumber   string     `json:"contactNumber" validate:"omitempty,max=20,za_phone"`
	Email           string     `json:"email" validate:"omitempty,email,max=100"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	Status          string     `json:"status" validate:"omitempty,appointment_status"`
	ExpertFee       *float64   `json:"expertFee,omitempty" validate:"omitempty,gte=0"`
	FeePaid         bool       `json:"feePaid"`
	Notes           string     `json:"notes" validate:"max=1000"`
}

// UpdateAppointmentRequest replaces the editable fields.
type UpdateAppointmentRequest struct {
	ExpertType      string     `json:"expertType" validate:"required,expert_type"`
	ExpertName      string     `json:"expertName" validate:"required,min=1,max=200"`
	PracticeName    string     `json:"practiceName" validate:"max=200"`
	ContactNumber   string     `json:"contactNumber" validate:"omitempty,max=20,za_phone"`
	Email           string     `json:"email" validate:"omitempty,email,max=100"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	ExpertFee       *float64   `json:"expertFee,omitempty" validate:"omitempty,gte=0"`
	FeePaid         bool       `json:"feePaid"`
	Notes           string     `json:"notes" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,appointment_status"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CaseID             uuid.UUID  `json:"caseId"`
	ExpertType         string     `json:"expertType"`
	ExpertTypeDisplay  string     `json:"expertTypeDisplay"`
	ExpertName         string     `json:"expertName"`
	PracticeName       *string    `json:"practiceName,omitempty"`
	ContactNumber      *string    `json:"contactNumber,omitempty"`
	Email              *string    `json:"email,omitempty"`
	AppointmentDate    *time.Time `json:"appointmentDate,omitempty"`
	Status             string     `json:"status"`
	StatusDisplay      string     `json:"statusDisplay"`
	ReportReceivedDate *time.Time `json:"reportReceivedDate,omitempty"`
	ExpertFee          *float64   `json:"expertFee,omitempty"`
	FeePaid            bool       `json:"feePaid"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
