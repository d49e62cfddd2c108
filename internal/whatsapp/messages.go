package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

const dueDateLayout = "Jan 02, 2006"

// Recipient is a user as the templated senders need them.
type Recipient struct {
	UserID          uuid.UUID
	PhoneNumber     *string
	WhatsAppEnabled bool
}

func (r Recipient) reachable() (string, bool) {
	if !r.WhatsAppEnabled || r.PhoneNumber == nil || strings.TrimSpace(*r.PhoneNumber) == "" {
		return "", false
	}
	return *r.PhoneNumber, true
}

// TaskInfo carries the task fields used in message templates.
type TaskInfo struct {
	ID         uuid.UUID
	Title      string
	Priority   string
	DueDate    *time.Time
	CaseID     *uuid.UUID
	CaseNumber *string
}

// CaseInfo carries the case fields used in message templates.
type CaseInfo struct {
	ID         uuid.UUID
	CaseNumber string
}

// Messages renders the templated WhatsApp messages and sends them over a
// Transport.
type Messages struct {
	transport Transport
	baseURL   string
	log       *logger.Logger
}

func NewMessages(transport Transport, baseURL string, log *logger.Logger) *Messages {
	return &Messages{transport: transport, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// SendTaskAssignment reports false without sending when the recipient has
// WhatsApp disabled or no phone number.
func (m *Messages) SendTaskAssignment(ctx context.Context, to Recipient, task TaskInfo) (bool, error) {
	phoneNumber, ok := to.reachable()
	if !ok {
		return false, nil
	}

	due := "Not set"
	if task.DueDate != nil {
		due = task.DueDate.Format(dueDateLayout)
	}
	body := fmt.Sprintf("🎯 *New Task Assigned*\nTask: %s\nPriority: %s\nDue: %s\nView: %s/Tasks/Details?id=%s",
		task.Title, task.Priority, due, m.baseURL, task.ID)

	ctx = WithRefs(ctx, Refs{TaskID: &task.ID, CaseID: task.CaseID, UserID: &to.UserID})
	return m.send(ctx, phoneNumber, body)
}

func (m *Messages) SendDeadlineReminder(ctx context.Context, to Recipient, task TaskInfo, daysUntilDue int) (bool, error) {
	phoneNumber, ok := to.reachable()
	if !ok {
		return false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏰ *Deadline Approaching*\nTask: %s\nDue in: %d day(s)\n", task.Title, daysUntilDue)
	if task.CaseNumber != nil && *task.CaseNumber != "" {
		fmt.Fprintf(&b, "Case: %s\n", *task.CaseNumber)
	}
	fmt.Fprintf(&b, "Action required!\nView: %s/Tasks/Details?id=%s", m.baseURL, task.ID)

	ctx = WithRefs(ctx, Refs{TaskID: &task.ID, CaseID: task.CaseID, UserID: &to.UserID})
	return m.send(ctx, phoneNumber, b.String())
}

func (m *Messages) SendCaseUpdate(ctx context.Context, to Recipient, c CaseInfo, update string) (bool, error) {
	phoneNumber, ok := to.reachable()
	if !ok {
		return false, nil
	}

	body := fmt.Sprintf("📋 *Case Status Updated*\nCase: %s\n%s\nView: %s/Cases/Details?id=%s",
		c.CaseNumber, update, m.baseURL, c.ID)

	ctx = WithRefs(ctx, Refs{CaseID: &c.ID, UserID: &to.UserID})
	return m.send(ctx, phoneNumber, body)
}

// SendVerificationCode sends a phone verification code. The simulator
// variant marks the message as not actually sent.
func (m *Messages) SendVerificationCode(ctx context.Context, phoneNumber, code string) error {
	body := fmt.Sprintf("🔐 *RAF System Verification*\n\nYour verification code is: *%s*\nValid for 10 minutes.", code)
	if IsSimulated(m.transport) {
		body += "\n\n(Simulated - not actually sent)"
	}
	_, err := m.send(ctx, phoneNumber, body)
	return err
}

func (m *Messages) send(ctx context.Context, phoneNumber, body string) (bool, error) {
	if err := m.transport.SendNotification(ctx, phoneNumber, body); err != nil {
		m.log.TransportFailure("whatsapp", phoneNumber, err)
		return false, err
	}
	return true, nil
}
