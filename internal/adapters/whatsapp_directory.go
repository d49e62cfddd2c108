package adapters

import (
	"context"

	taskdomain "raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/whatsapp"

	"github.com/google/uuid"
)

// TaskReader is the part of the tasks service the WhatsApp directory reads.
type TaskReader interface {
	Get(ctx context.Context, id uuid.UUID) (taskdomain.Task, error)
}

// WhatsAppDirectory resolves users, tasks and cases for manual sends.
type WhatsAppDirectory struct {
	users UserReader
	tasks TaskReader
	cases CaseReader
}

func NewWhatsAppDirectory(users UserReader, tasks TaskReader, cases CaseReader) *WhatsAppDirectory {
	return &WhatsAppDirectory{users: users, tasks: tasks, cases: cases}
}

func (d *WhatsAppDirectory) Recipient(ctx context.Context, userID uuid.UUID) (whatsapp.Recipient, error) {
	u, err := d.users.Get(ctx, userID)
	if err != nil {
		return whatsapp.Recipient{}, err
	}
	return whatsAppRecipient(u), nil
}

func (d *WhatsAppDirectory) TaskInfo(ctx context.Context, taskID uuid.UUID) (whatsapp.TaskInfo, error) {
	t, err := d.tasks.Get(ctx, taskID)
	if err != nil {
		return whatsapp.TaskInfo{}, err
	}
	return whatsapp.TaskInfo{
		ID:         t.ID,
		Title:      t.Title,
		Priority:   string(t.Priority),
		DueDate:    t.DueDate,
		CaseID:     t.CaseID,
		CaseNumber: t.CaseNumber,
	}, nil
}

func (d *WhatsAppDirectory) CaseInfo(ctx context.Context, caseID uuid.UUID) (whatsapp.CaseInfo, error) {
	c, err := d.cases.Get(ctx, caseID)
	if err != nil {
		return whatsapp.CaseInfo{}, err
	}
	return whatsapp.CaseInfo{ID: c.ID, CaseNumber: c.CaseNumber}, nil
}

var _ whatsapp.Directory = (*WhatsAppDirectory)(nil)
