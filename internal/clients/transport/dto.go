package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=1,max=100"`
	LastName    string `json:"lastName" validate:"required,min=1,max=100"`
	IDNumber    string `json:"idNumber" validate:"required,sa_id"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,za_phone"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type UpdateClientRequest struct {
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	IDNumber    *string `json:"idNumber,omitempty" validate:"omitempty,sa_id"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,za_phone"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type ListClientsRequest struct {
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ClientResponse struct {
	ID          uuid.UUID            `json:"id"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	FullName    string               `json:"fullName"`
	IDNumber    string               `json:"idNumber"`
	PhoneNumber *string              `json:"phoneNumber,omitempty"`
	Email       *string              `json:"email,omitempty"`
	Address     *string              `json:"address,omitempty"`
	Cases       []ClientCaseResponse `json:"cases,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type ClientCaseResponse struct {
	ID           uuid.UUID `json:"id"`
	CaseNumber   string    `json:"caseNumber"`
	Status       string    `json:"status"`
	AccidentDate string    `json:"accidentDate"`
	DateOpened   time.Time `json:"dateOpened"`
}

type ClientListResponse struct {
	Items      []ClientResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}
