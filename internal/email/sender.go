package email

import (
	"context"

	"raf_pnp_backend/platform/config"
)

// Sender delivers notification mail.
type Sender interface {
	SendNotificationEmail(ctx context.Context, toEmail, title, message, actionURL string) error
	SendDeadlineDigestEmail(ctx context.Context, toEmail, recipientName string, items []DeadlineItem) error
}

// DeadlineItem is one line of the deadline digest.
type DeadlineItem struct {
	CaseNumber    string
	Deadline      string
	Date          string
	DaysRemaining int
	URL           string
}

// NoopSender drops every message. It is used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendNotificationEmail(ctx context.Context, toEmail, title, message, actionURL string) error {
	return nil
}

func (NoopSender) SendDeadlineDigestEmail(ctx context.Context, toEmail, recipientName string, items []DeadlineItem) error {
	return nil
}

// NewSender returns an SMTP sender when email is enabled, otherwise a NoopSender.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}
