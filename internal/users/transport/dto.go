package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	FullName         string `json:"fullName" validate:"required,min=1,max=200"`
	Email            string `json:"email" validate:"required,email,max=200"`
	PhoneNumber      string `json:"phoneNumber,omitempty" validate:"omitempty,za_phone"`
	WhatsAppEnabled  bool   `json:"whatsAppEnabled"`
	PreferredChannel string `json:"preferredChannel,omitempty" validate:"omitempty,oneof=InApp Email WhatsApp All"`
	Role             string `json:"role,omitempty" validate:"omitempty,max=100"`
}

type UpdateUserRequest struct {
	FullName    *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,za_phone"`
	Role        *string `json:"role,omitempty" validate:"omitempty,max=100"`
}

type NotificationPreferencesRequest struct {
	WhatsAppEnabled  bool   `json:"whatsAppEnabled"`
	PreferredChannel string `json:"preferredChannel" validate:"required,oneof=InApp Email WhatsApp All"`
	PhoneNumber      string `json:"phoneNumber,omitempty" validate:"omitempty,za_phone"`
}

type ConfirmPhoneRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type ListUsersRequest struct {
	IncludeDeactivated bool `form:"includeDeactivated"`
}

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	PhoneNumber      *string   `json:"phoneNumber,omitempty"`
	WhatsAppEnabled  bool      `json:"whatsAppEnabled"`
	PhoneVerified    bool      `json:"phoneVerified"`
	PreferredChannel string    `json:"preferredChannel"`
	Role             *string   `json:"role,omitempty"`
	State            string    `json:"state"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
