package whatsapp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type captureTransport struct {
	phone   string
	message string
	calls   int
}

func (c *captureTransport) SendNotification(_ context.Context, phoneNumber, message string) error {
	c.calls++
	c.phone = phoneNumber
	c.message = message
	return nil
}

func strPtr(s string) *string { return &s }

func TestTemplatedSendsSkipUnreachableRecipients(t *testing.T) {
	tr := &captureTransport{}
	m := NewMessages(tr, "https://raf.example", testLogger())
	task := TaskInfo{ID: uuid.New(), Title: "File pleadings", Priority: "High"}

	cases := []struct {
		name string
		to   Recipient
	}{
		{name: "disabled", to: Recipient{UserID: uuid.New(), PhoneNumber: strPtr("+27821234567")}},
		{name: "no phone", to: Recipient{UserID: uuid.New(), WhatsAppEnabled: true}},
		{name: "blank phone", to: Recipient{UserID: uuid.New(), WhatsAppEnabled: true, PhoneNumber: strPtr("  ")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sent, err := m.SendTaskAssignment(context.Background(), tc.to, task)
			if err != nil || sent {
				t.Fatalf("expected skip, got sent=%v err=%v", sent, err)
			}
		})
	}
	if tr.calls != 0 {
		t.Fatalf("expected no transport calls, got %d", tr.calls)
	}
}

func TestSendTaskAssignmentFormat(t *testing.T) {
	tr := &captureTransport{}
	m := NewMessages(tr, "https://raf.example/", testLogger())
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	task := TaskInfo{ID: uuid.New(), Title: "File pleadings", Priority: "High", DueDate: &due}
	to := Recipient{UserID: uuid.New(), WhatsAppEnabled: true, PhoneNumber: strPtr("+27821234567")}

	sent, err := m.SendTaskAssignment(context.Background(), to, task)
	if err != nil || !sent {
		t.Fatalf("expected send, got sent=%v err=%v", sent, err)
	}
	want := "🎯 *New Task Assigned*\nTask: File pleadings\nPriority: High\nDue: Jun 01, 2026\nView: https://raf.example/Tasks/Details?id=" + task.ID.String()
	if tr.message != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", tr.message, want)
	}
}

func TestSendDeadlineReminderIncludesCaseNumberWhenKnown(t *testing.T) {
	tr := &captureTransport{}
	m := NewMessages(tr, "https://raf.example", testLogger())
	to := Recipient{UserID: uuid.New(), WhatsAppEnabled: true, PhoneNumber: strPtr("+27821234567")}

	_, _ = m.SendDeadlineReminder(context.Background(), to, TaskInfo{ID: uuid.New(), Title: "Serve summons"}, 2)
	if strings.Contains(tr.message, "Case:") {
		t.Fatalf("expected no case line, got %q", tr.message)
	}

	_, _ = m.SendDeadlineReminder(context.Background(), to, TaskInfo{ID: uuid.New(), Title: "Serve summons", CaseNumber: strPtr("RAF-2026-0001")}, 2)
	if !strings.Contains(tr.message, "Due in: 2 day(s)\nCase: RAF-2026-0001\nAction required!") {
		t.Fatalf("unexpected reminder %q", tr.message)
	}
}

func TestSendCaseUpdateFormat(t *testing.T) {
	tr := &captureTransport{}
	m := NewMessages(tr, "https://raf.example", testLogger())
	to := Recipient{UserID: uuid.New(), WhatsAppEnabled: true, PhoneNumber: strPtr("+27821234567")}
	c := CaseInfo{ID: uuid.New(), CaseNumber: "RAF-2026-0002"}

	if _, err := m.SendCaseUpdate(context.Background(), to, c, "Summons issued"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "📋 *Case Status Updated*\nCase: RAF-2026-0002\nSummons issued\nView: https://raf.example/Cases/Details?id=" + c.ID.String()
	if tr.message != want {
		t.Fatalf("unexpected message %q", tr.message)
	}
}

func TestVerificationCodeFooterOnlyWhenSimulated(t *testing.T) {
	store := &memStore{}
	sim := NewMessages(NewSimulator(store, testLogger()), "", testLogger())
	if err := sim.SendVerificationCode(context.Background(), "+27821234567", "123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := store.messages[0].MessageBody
	if !strings.Contains(body, "*123456*") || !strings.HasSuffix(body, "(Simulated - not actually sent)") {
		t.Fatalf("unexpected simulated body %q", body)
	}

	tr := &captureTransport{}
	live := NewMessages(tr, "", testLogger())
	_ = live.SendVerificationCode(context.Background(), "+27821234567", "654321")
	if strings.Contains(tr.message, "Simulated") {
		t.Fatalf("real transport must not carry the simulated footer: %q", tr.message)
	}
}
