package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"raf_pnp_backend/internal/reports/repository"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu        sync.Mutex
	filters   []repository.CaseFilter
	counts    func(f repository.CaseFilter) int
	byStatus  []repository.StatusCount
	deadlines []repository.DeadlineRow
	from, to  time.Time
	err       error
}

func (s *fakeStore) CountCases(_ context.Context, f repository.CaseFilter) (int, error) {
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.counts(f), nil
}

func (s *fakeStore) CountClients(context.Context) (int, error) { return 7, nil }

func (s *fakeStore) RecentActive(_ context.Context, _ []string, limit int) ([]repository.CaseSummary, error) {
	return []repository.CaseSummary{{ID: uuid.New(), CaseNumber: "RAF-2026-0001", Status: "MmiWaitingPeriod"}}, nil
}

func (s *fakeStore) CountByStatus(context.Context) ([]repository.StatusCount, error) {
	return s.byStatus, nil
}

func (s *fakeStore) Deadlines(_ context.Context, from, to time.Time) ([]repository.DeadlineRow, error) {
	s.mu.Lock()
	s.from, s.to = from, to
	s.mu.Unlock()
	return s.deadlines, nil
}

type fakeExperts struct{ n int }

func (e fakeExperts) CountOutstanding(context.Context) (int, error) { return e.n, nil }

func countByKey(f repository.CaseFilter) int {
	switch {
	case f.ClosedSince != nil:
		return 2
	case len(f.ExcludeStatuses) > 0:
		return 10
	case len(f.Statuses) == 0:
		return 15
	default:
		return len(strings.Join(f.Statuses, ","))
	}
}

func newTestService(store *fakeStore) *Service {
	svc := New(store, fakeExperts{n: 3}, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboard(t *testing.T) {
	store := &fakeStore{counts: countByKey}
	d, err := newTestService(store).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalCases != 15 || d.ActiveCases != 10 || d.TotalClients != 7 {
		t.Fatalf("unexpected counts %+v", d)
	}
	if d.AwaitingMmi != len("MmiWaitingPeriod") {
		t.Fatalf("awaiting MMI should filter on MmiWaitingPeriod, got %d", d.AwaitingMmi)
	}
	if len(d.RecentCases) != 1 || d.RecentCases[0].StatusDisplay != "MMI Waiting Period" {
		t.Fatalf("unexpected recent cases %+v", d.RecentCases)
	}
}

func TestSummary(t *testing.T) {
	store := &fakeStore{
		counts: countByKey,
		byStatus: []repository.StatusCount{
			{Status: "TrialPhase", Count: 1},
			{Status: "ClientIntake", Count: 4},
			{Status: "StatutoryWaitingPeriod", Count: 2},
		},
		deadlines: []repository.DeadlineRow{
			{CaseNumber: "RAF-B", Kind: repository.DeadlineStatutory, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
			{CaseNumber: "RAF-A", Kind: repository.DeadlineMmi, Date: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
		},
	}
	sum, err := newTestService(store).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if sum.FinalisedThisYear != 2 || sum.OutstandingExpertReports != 3 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if want := len("SummonsIssued,PajaApplication,PleadingPhase,PreTrialPhase,TrialPhase"); sum.InLitigation != want {
		t.Fatalf("litigation should cover summons through trial, got %d", sum.InLitigation)
	}

	var closedSince *time.Time
	for _, f := range store.filters {
		if f.ClosedSince != nil {
			closedSince = f.ClosedSince
		}
	}
	if closedSince == nil || !closedSince.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start-of-year filter, got %v", closedSince)
	}

	gotOrder := []string{}
	for _, sc := range sum.CasesByStatus {
		gotOrder = append(gotOrder, sc.StatusName)
	}
	if strings.Join(gotOrder, "|") != "Client Intake|120-Day Wait|Trial" {
		t.Fatalf("unexpected status order %v", gotOrder)
	}

	if len(sum.ApproachingDeadlines) != 2 || sum.ApproachingDeadlines[0].CaseNumber != "RAF-A" {
		t.Fatalf("deadlines should be soonest first, got %+v", sum.ApproachingDeadlines)
	}
	if sum.ApproachingDeadlines[0].DaysRemaining != 2 || sum.ApproachingDeadlines[1].DaysRemaining != 22 {
		t.Fatalf("unexpected days remaining %+v", sum.ApproachingDeadlines)
	}
	if !store.to.Equal(time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected a 60 day window, got %v..%v", store.from, store.to)
	}
}

func TestSummaryPropagatesErrors(t *testing.T) {
	store := &fakeStore{counts: countByKey, err: errors.New("db down")}
	if _, err := newTestService(store).Summary(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
