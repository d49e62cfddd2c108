// Package whatsapp delivers WhatsApp notifications through a swappable
// transport and keeps an audit log of every attempted message.
package whatsapp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the delivery state of a logged message.
type Status string

const (
	StatusQueued    Status = "Queued"
	StatusSent      Status = "Sent"
	StatusDelivered Status = "Delivered"
	StatusRead      Status = "Read"
	StatusFailed    Status = "Failed"
)

// Message is the audit record of one outbound message.
type Message struct {
	ID                uuid.UUID  `json:"id"`
	ToPhoneNumber     string     `json:"toPhoneNumber"`
	MessageBody       string     `json:"messageBody"`
	Status            Status     `json:"status"`
	IsSimulated       bool       `json:"isSimulated"`
	ExternalMessageID *string    `json:"externalMessageId,omitempty"`
	ErrorMessage      *string    `json:"errorMessage,omitempty"`
	TaskID            *uuid.UUID `json:"taskId,omitempty"`
	CaseID            *uuid.UUID `json:"caseId,omitempty"`
	UserID            *uuid.UUID `json:"userId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
	ReadAt            *time.Time `json:"readAt,omitempty"`
}

// Refs links a message to the records it is about.
type Refs struct {
	TaskID *uuid.UUID
	CaseID *uuid.UUID
	UserID *uuid.UUID
}

type refsKey struct{}

// WithRefs attaches refs to ctx so the transport can store them with the
// message without widening SendNotification.
func WithRefs(ctx context.Context, refs Refs) context.Context {
	return context.WithValue(ctx, refsKey{}, refs)
}

func refsFrom(ctx context.Context) Refs {
	refs, _ := ctx.Value(refsKey{}).(Refs)
	return refs
}
