package domain

import (
	"testing"
	"time"
)

func TestApplyStatusStampsReportDateOnce(t *testing.T) {
	first := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 0, 5)

	a := Appointment{Status: StatusScheduled}
	a.ApplyStatus(StatusReportReceived, first)
	if a.ReportReceivedDate == nil || !a.ReportReceivedDate.Equal(first) {
		t.Fatalf("expected report date %v, got %v", first, a.ReportReceivedDate)
	}

	a.ApplyStatus(StatusCompleted, later)
	a.ApplyStatus(StatusReportReceived, later)
	if !a.ReportReceivedDate.Equal(first) {
		t.Fatalf("report date should not move, got %v", a.ReportReceivedDate)
	}
}

func TestApplyStatusLeavesDateForOtherStatuses(t *testing.T) {
	a := Appointment{Status: StatusPending}
	a.ApplyStatus(StatusScheduled, time.Now())
	if a.ReportReceivedDate != nil {
		t.Fatalf("unexpected report date")
	}
}

func TestAppointedActivity(t *testing.T) {
	when := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	title, desc := AppointedActivity(Appointment{
		ExpertType:      ExpertOrthopaedicSurgeon,
		ExpertName:      "Dr P. Naidoo",
		AppointmentDate: &when,
	})
	if title != "Expert Appointed" || desc != "Orthopaedic Surgeon: Dr P. Naidoo on 02 Apr 2026" {
		t.Fatalf("got %q / %q", title, desc)
	}
}
