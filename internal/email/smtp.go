package email

import (
	"context"
	"fmt"
	"time"

	"raf_pnp_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

const (
	subjectPrefix = "[RAF] "
	digestSubject = "RAF deadlines approaching"
	smtpTimeout   = 15 * time.Second
)

// SMTPSender delivers mail through the firm's SMTP relay.
type SMTPSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendNotificationEmail mirrors an in-app notification to email.
func (s *SMTPSender) SendNotificationEmail(ctx context.Context, toEmail, title, message, actionURL string) error {
	body, err := renderNotification(title, message, actionURL)
	if err != nil {
		return err
	}
	return s.deliver(ctx, toEmail, subjectPrefix+title, body)
}

// SendDeadlineDigestEmail sends the daily list of approaching deadlines.
// An empty list sends nothing.
func (s *SMTPSender) SendDeadlineDigestEmail(ctx context.Context, toEmail, recipientName string, items []DeadlineItem) error {
	if len(items) == 0 {
		return nil
	}
	body, err := renderDeadlineDigest(recipientName, items)
	if err != nil {
		return err
	}
	return s.deliver(ctx, toEmail, digestSubject, body)
}

func (s *SMTPSender) compose(toEmail, subject string, body rendered) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return nil, fmt.Errorf("email from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("email to %q: %w", toEmail, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body.Text)
	msg.AddAlternativeString(gomail.TypeTextHTML, body.HTML)
	return msg, nil
}

func (s *SMTPSender) deliver(ctx context.Context, toEmail, subject string, body rendered) error {
	msg, err := s.compose(toEmail, subject, body)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(smtpTimeout),
	}
	if s.cfg.GetSMTPUsername() != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.GetSMTPUsername()),
			gomail.WithPassword(s.cfg.GetSMTPPassword()),
		)
	}
	client, err := gomail.NewClient(s.cfg.GetSMTPHost(), opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", toEmail, err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
