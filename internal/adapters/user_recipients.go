package adapters

import (
	"context"

	"raf_pnp_backend/internal/notification"
	"raf_pnp_backend/internal/users/repository"
	"raf_pnp_backend/internal/whatsapp"

	"github.com/google/uuid"
)

// UserReader is the part of the users service the adapters read from.
type UserReader interface {
	Get(ctx context.Context, id uuid.UUID) (repository.User, error)
}

// NotificationRecipients adapts users for the notification dispatcher.
type NotificationRecipients struct {
	users UserReader
}

func NewNotificationRecipients(users UserReader) *NotificationRecipients {
	return &NotificationRecipients{users: users}
}

func (a *NotificationRecipients) Recipient(ctx context.Context, userID uuid.UUID) (notification.Recipient, error) {
	u, err := a.users.Get(ctx, userID)
	if err != nil {
		return notification.Recipient{}, err
	}
	return notification.Recipient{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		WhatsAppEnabled: u.WhatsAppEnabled,
		Channel:         u.PreferredChannel,
		Active:          u.IsActive(),
	}, nil
}

// UserDirectory resolves comment author names for tasks.
type UserDirectory struct {
	users UserReader
}

func NewUserDirectory(users UserReader) *UserDirectory {
	return &UserDirectory{users: users}
}

func (a *UserDirectory) FullName(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := a.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.FullName, nil
}

func whatsAppRecipient(u repository.User) whatsapp.Recipient {
	return whatsapp.Recipient{
		UserID:          u.ID,
		PhoneNumber:     u.PhoneNumber,
		WhatsAppEnabled: u.WhatsAppEnabled && u.IsActive(),
	}
}

var _ notification.RecipientReader = (*NotificationRecipients)(nil)
