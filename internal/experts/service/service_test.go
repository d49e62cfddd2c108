package service

import (
	"context"
	"testing"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/experts/domain"
	"raf_pnp_backend/internal/experts/transport"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	items map[uuid.UUID]domain.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]domain.Appointment{}}
}

func (r *fakeRepo) Create(_ context.Context, a domain.Appointment) (domain.Appointment, error) {
	a.ID = uuid.New()
	r.items[a.ID] = a
	return a, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return domain.Appointment{}, apperr.NotFound("expert appointment not found")
	}
	return a, nil
}

func (r *fakeRepo) ListByCase(_ context.Context, caseID uuid.UUID) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range r.items {
		if a.CaseID == caseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, a domain.Appointment) (domain.Appointment, error) {
	if _, ok := r.items[a.ID]; !ok {
		return domain.Appointment{}, apperr.NotFound("expert appointment not found")
	}
	r.items[a.ID] = a
	return a, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("expert appointment not found")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) CountOutstanding(context.Context) (int, error) {
	n := 0
	for _, a := range r.items {
		if a.Status.IsOutstanding() {
			n++
		}
	}
	return n, nil
}

type fakeActivities struct {
	caseIDs []uuid.UUID
	drafts  []casedomain.ActivityDraft
}

func (a *fakeActivities) RecordActivity(_ context.Context, caseID uuid.UUID, draft casedomain.ActivityDraft) error {
	a.caseIDs = append(a.caseIDs, caseID)
	a.drafts = append(a.drafts, draft)
	return nil
}

var johannesburg = time.FixedZone("SAST", 2*60*60)

func newTestService(repo *fakeRepo, acts *fakeActivities) *Service {
	svc := New(repo, db.NoTx{}, acts, johannesburg, logger.New("test"))
	// 23:30 UTC is already the next day in Johannesburg.
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC) }
	return svc
}

func TestCreateDefaultsToPendingAndLogsActivity(t *testing.T) {
	repo, acts := newFakeRepo(), &fakeActivities{}
	svc := newTestService(repo, acts)
	caseID := uuid.New()

	resp, err := svc.Create(context.Background(), caseID, transport.CreateAppointmentRequest{
		ExpertType:    string(domain.ExpertActuary),
		ExpertName:    "  Mr K. Pillay ",
		ContactNumber: "082 555 1234",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Status != string(domain.StatusPending) || resp.ExpertName != "Mr K. Pillay" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ContactNumber == nil || *resp.ContactNumber != "+27825551234" {
		t.Fatalf("expected normalized phone, got %v", resp.ContactNumber)
	}

	if len(acts.drafts) != 1 || acts.caseIDs[0] != caseID {
		t.Fatalf("expected one activity on the case, got %v", acts.drafts)
	}
	if acts.drafts[0].Type != casedomain.ActivityExpertAppointment || acts.drafts[0].Description != "Actuary: Mr K. Pillay" {
		t.Fatalf("unexpected activity %+v", acts.drafts[0])
	}
}

func TestUpdateStatusStampsReportDateInLocation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeActivities{})

	created, err := svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
		ExpertType: string(domain.ExpertNeurosurgeon),
		ExpertName: "Dr L. Botha",
		Status:     string(domain.StatusScheduled),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ReportReceivedDate != nil {
		t.Fatalf("scheduled appointment should have no report date")
	}

	resp, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusReportReceived)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	want := time.Date(2026, 3, 11, 0, 0, 0, 0, johannesburg)
	if resp.ReportReceivedDate == nil || !resp.ReportReceivedDate.Equal(want) {
		t.Fatalf("expected report date %v, got %v", want, resp.ReportReceivedDate)
	}
	if resp.StatusDisplay != "Report Received" {
		t.Fatalf("unexpected display %q", resp.StatusDisplay)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeActivities{})
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.Status("Lost"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCountOutstanding(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeActivities{})
	for _, st := range []domain.Status{domain.StatusPending, domain.StatusScheduled, domain.StatusReportReceived, domain.StatusCancelled} {
		if _, err := svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
			ExpertType: string(domain.ExpertOther),
			ExpertName: "Expert",
			Status:     string(st),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := svc.CountOutstanding(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2 outstanding, got %d (%v)", n, err)
	}
}
