package domain

import (
	"strings"
	"testing"
	"time"

	"raf_pnp_backend/platform/apperr"
)

var testNow = time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

func fixedEngine(table *TransitionTable) *Engine {
	e := NewEngine(table, time.UTC)
	e.Now = func() time.Time { return testNow }
	return e
}

func sameDay(t *testing.T, got *time.Time, want time.Time) {
	t.Helper()
	if got == nil {
		t.Fatalf("expected %s, got nil", want.Format(time.DateOnly))
	}
	if got.Format(time.DateOnly) != want.Format(time.DateOnly) {
		t.Fatalf("expected %s, got %s", want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}

func TestApplyComplianceLodgementStampsStatutoryExpiry(t *testing.T) {
	c := &Case{Status: StatusExpertAppointments}

	tr, err := fixedEngine(Permissive()).Apply(c, StatusComplianceLodgement)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sameDay(t, c.ComplianceLodgementDate, today)
	sameDay(t, c.StatutoryExpiryDate, today.AddDate(0, 0, StatutoryWaitingDays))
	if got := c.StatutoryExpiryDate.Sub(*c.ComplianceLodgementDate); got != 120*24*time.Hour {
		t.Fatalf("expected exactly 120 days, got %s", got)
	}
	if tr.From != StatusExpertAppointments || tr.To != StatusComplianceLodgement {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if c.DateClosed != nil {
		t.Fatal("DateClosed must stay nil for an open stage")
	}
}

func TestApplySummonsIssuedLeavesOtherDatesUntouched(t *testing.T) {
	mmi := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lodged := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	expiry := lodged.AddDate(0, 0, StatutoryWaitingDays)
	c := &Case{
		Status:                  StatusStatutoryWaitingPeriod,
		MmiDate:                 &mmi,
		ComplianceLodgementDate: &lodged,
		StatutoryExpiryDate:     &expiry,
	}

	tr, err := fixedEngine(Permissive()).Apply(c, StatusSummonsIssued)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if c.Status != StatusSummonsIssued {
		t.Fatalf("expected SummonsIssued, got %s", c.Status)
	}
	sameDay(t, c.SummonsIssueDate, testNow)
	sameDay(t, c.MmiDate, mmi)
	sameDay(t, c.ComplianceLodgementDate, lodged)
	sameDay(t, c.StatutoryExpiryDate, expiry)
	if c.DateClosed != nil || c.InitialLodgementDate != nil {
		t.Fatal("unrelated milestone dates changed")
	}
	want := "Status changed from StatutoryWaitingPeriod to SummonsIssued"
	if tr.Activity.Description != want {
		t.Fatalf("expected %q, got %q", want, tr.Activity.Description)
	}
}

func TestApplyTerminalStagesSetDateClosed(t *testing.T) {
	for _, to := range []Status{StatusFinalised, StatusClosed} {
		t.Run(string(to), func(t *testing.T) {
			c := &Case{Status: StatusTrialPhase}
			if _, err := fixedEngine(Permissive()).Apply(c, to); err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			sameDay(t, c.DateClosed, testNow)
		})
	}
}

func TestApplyOpenStageKeepsExistingDateClosed(t *testing.T) {
	closed := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	c := &Case{Status: StatusClosed, DateClosed: &closed}

	if _, err := fixedEngine(Permissive()).Apply(c, StatusPleadingPhase); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	sameDay(t, c.DateClosed, closed)
}

func TestApplySameStatusIsAcceptedAndLogged(t *testing.T) {
	c := &Case{Status: StatusPleadingPhase}

	tr, err := fixedEngine(Standard()).Apply(c, StatusPleadingPhase)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !strings.Contains(tr.Activity.Description, "PleadingPhase to PleadingPhase") {
		t.Fatalf("unexpected description %q", tr.Activity.Description)
	}
}

func TestApplyRejectsMovesOutsideTable(t *testing.T) {
	c := &Case{Status: StatusClientIntake}

	_, err := fixedEngine(Standard()).Apply(c, StatusTrialPhase)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if c.Status != StatusClientIntake {
		t.Fatalf("status changed on rejected move: %s", c.Status)
	}
}

func TestApplyRejectsUnknownStatus(t *testing.T) {
	c := &Case{Status: StatusClientIntake}
	_, err := fixedEngine(Permissive()).Apply(c, Status("Settled"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	late := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)

	got := DateOf(late, loc)
	if got.Format(time.DateOnly) != "2025-04-01" {
		t.Fatalf("expected 2025-04-01, got %s", got.Format(time.DateOnly))
	}
}

func TestDefaultMmiDate(t *testing.T) {
	accident := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if got := DefaultMmiDate(accident); got.Format(time.DateOnly) != "2025-02-10" {
		t.Fatalf("expected 2025-02-10, got %s", got.Format(time.DateOnly))
	}
}
