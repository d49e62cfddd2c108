// Package service builds the dashboard and the summary report.
package service

import (
	"context"
	"sort"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/reports/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentCasesLimit = 5
	reportWindowDays = 60
)

// Store is the query surface reports need.
type Store interface {
	CountCases(ctx context.Context, f repository.CaseFilter) (int, error)
	CountClients(ctx context.Context) (int, error)
	RecentActive(ctx context.Context, terminal []string, limit int) ([]repository.CaseSummary, error)
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
	Deadlines(ctx context.Context, from, to time.Time) ([]repository.DeadlineRow, error)
}

// ExpertCounter counts expert appointments still awaiting a report.
type ExpertCounter interface {
	CountOutstanding(ctx context.Context) (int, error)
}

type RecentCase struct {
	ID            uuid.UUID  `json:"id"`
	CaseNumber    string     `json:"caseNumber"`
	ClientName    string     `json:"clientName"`
	Status        string     `json:"status"`
	StatusDisplay string     `json:"statusDisplay"`
	AccidentDate  time.Time  `json:"accidentDate"`
	MmiDate       *time.Time `json:"mmiDate,omitempty"`
}

type Dashboard struct {
	TotalCases   int          `json:"totalCases"`
	ActiveCases  int          `json:"activeCases"`
	AwaitingMmi  int          `json:"awaitingMmi"`
	TotalClients int          `json:"totalClients"`
	RecentCases  []RecentCase `json:"recentCases"`
}

type StatusCount struct {
	Status     string `json:"status"`
	StatusName string `json:"statusName"`
	Count      int    `json:"count"`
}

type Deadline struct {
	CaseID         uuid.UUID  `json:"caseId"`
	CaseNumber     string     `json:"caseNumber"`
	ClientName     string     `json:"clientName"`
	DeadlineType   string     `json:"deadlineType"`
	DeadlineDate   time.Time  `json:"deadlineDate"`
	DaysRemaining  int        `json:"daysRemaining"`
	AssignedTeamID *uuid.UUID `json:"assignedTeamId,omitempty"`
}

type Summary struct {
	TotalCases               int           `json:"totalCases"`
	ActiveCases              int           `json:"activeCases"`
	ClosedCases              int           `json:"closedCases"`
	TotalClients             int           `json:"totalClients"`
	AwaitingMmi              int           `json:"awaitingMmi"`
	In120DayPeriod           int           `json:"in120DayPeriod"`
	PendingExperts           int           `json:"pendingExperts"`
	OutstandingExpertReports int           `json:"outstandingExpertReports"`
	InLitigation             int           `json:"inLitigation"`
	FinalisedThisYear        int           `json:"finalisedThisYear"`
	CasesByStatus            []StatusCount `json:"casesByStatus"`
	ApproachingDeadlines     []Deadline    `json:"approachingDeadlines"`
}

// Service computes reports. Dates are calendar days in loc.
type Service struct {
	store   Store
	experts ExpertCounter
	loc     *time.Location
	now     func() time.Time
}

func New(store Store, experts ExpertCounter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, experts: experts, loc: loc, now: time.Now}
}

func (s *Service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func statusList(statuses ...casedomain.Status) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

// count schedules one case count on g.
func (s *Service) count(ctx context.Context, g *errgroup.Group, dst *int, f repository.CaseFilter) {
	g.Go(func() error {
		n, err := s.store.CountCases(ctx, f)
		*dst = n
		return err
	})
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	terminal := casedomain.TerminalStatuses()
	var d Dashboard
	var recent []repository.CaseSummary

	g, gctx := errgroup.WithContext(ctx)
	s.count(gctx, g, &d.TotalCases, repository.CaseFilter{})
	s.count(gctx, g, &d.ActiveCases, repository.CaseFilter{ExcludeStatuses: terminal})
	s.count(gctx, g, &d.AwaitingMmi, repository.CaseFilter{Statuses: statusList(casedomain.StatusMmiWaitingPeriod)})
	g.Go(func() error {
		n, err := s.store.CountClients(gctx)
		d.TotalClients = n
		return err
	})
	g.Go(func() error {
		rows, err := s.store.RecentActive(gctx, terminal, recentCasesLimit)
		recent = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d.RecentCases = make([]RecentCase, 0, len(recent))
	for _, r := range recent {
		st := casedomain.Status(r.Status)
		d.RecentCases = append(d.RecentCases, RecentCase{
			ID:            r.ID,
			CaseNumber:    r.CaseNumber,
			ClientName:    r.ClientName,
			Status:        r.Status,
			StatusDisplay: st.DisplayName(),
			AccidentDate:  r.AccidentDate,
			MmiDate:       r.MmiDate,
		})
	}
	return d, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	today := s.today()
	startOfYear := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, s.loc)
	terminal := casedomain.TerminalStatuses()

	var sum Summary
	var byStatus []repository.StatusCount
	var deadlines []Deadline

	g, gctx := errgroup.WithContext(ctx)
	s.count(gctx, g, &sum.TotalCases, repository.CaseFilter{})
	s.count(gctx, g, &sum.ActiveCases, repository.CaseFilter{ExcludeStatuses: terminal})
	s.count(gctx, g, &sum.ClosedCases, repository.CaseFilter{Statuses: terminal})
	s.count(gctx, g, &sum.AwaitingMmi, repository.CaseFilter{Statuses: statusList(casedomain.StatusMmiWaitingPeriod)})
	s.count(gctx, g, &sum.In120DayPeriod, repository.CaseFilter{Statuses: statusList(casedomain.StatusStatutoryWaitingPeriod)})
	s.count(gctx, g, &sum.PendingExperts, repository.CaseFilter{Statuses: statusList(casedomain.StatusExpertAppointments)})
	s.count(gctx, g, &sum.InLitigation, repository.CaseFilter{Statuses: statusList(casedomain.LitigationStatuses...)})
	s.count(gctx, g, &sum.FinalisedThisYear, repository.CaseFilter{
		Statuses:    statusList(casedomain.StatusFinalised),
		ClosedSince: &startOfYear,
	})
	g.Go(func() error {
		n, err := s.store.CountClients(gctx)
		sum.TotalClients = n
		return err
	})
	if s.experts != nil {
		g.Go(func() error {
			n, err := s.experts.CountOutstanding(gctx)
			sum.OutstandingExpertReports = n
			return err
		})
	}
	g.Go(func() error {
		rows, err := s.store.CountByStatus(gctx)
		byStatus = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.Deadlines(gctx, reportWindowDays)
		deadlines = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sort.Slice(byStatus, func(i, j int) bool {
		return casedomain.Status(byStatus[i].Status).Order() < casedomain.Status(byStatus[j].Status).Order()
	})
	sum.CasesByStatus = make([]StatusCount, 0, len(byStatus))
	for _, sc := range byStatus {
		sum.CasesByStatus = append(sum.CasesByStatus, StatusCount{
			Status:     sc.Status,
			StatusName: casedomain.Status(sc.Status).ShortName(),
			Count:      sc.Count,
		})
	}
	sum.ApproachingDeadlines = deadlines
	return sum, nil
}

// Deadlines lists MMI and 120-day expiry dates from today through the next
// days days, soonest first.
func (s *Service) Deadlines(ctx context.Context, days int) ([]Deadline, error) {
	today := s.today()
	rows, err := s.store.Deadlines(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	out := make([]Deadline, 0, len(rows))
	for _, r := range rows {
		out = append(out, Deadline{
			CaseID:         r.CaseID,
			CaseNumber:     r.CaseNumber,
			ClientName:     r.ClientName,
			DeadlineType:   r.Kind,
			DeadlineDate:   r.Date,
			DaysRemaining:  daysBetween(today, r.Date, s.loc),
			AssignedTeamID: r.AssignedTeamID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out, nil
}

// daysBetween counts calendar days from a to b, reading b's date in loc.
func daysBetween(a, b time.Time, loc *time.Location) int {
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(bd.Sub(a).Hours()+12) / 24
}
