package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	reportsvc "raf_pnp_backend/internal/reports/service"
)

func TestRenderTransitionsPermissive(t *testing.T) {
	var buf bytes.Buffer
	renderTransitions(&buf, casedomain.Permissive())

	out := buf.String()
	if !strings.Contains(out, "any stage") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, casedomain.StatusClientIntake.DisplayName()) {
		t.Fatalf("every stage should be listed:\n%s", out)
	}
}

func TestRenderTransitionsStandardListsTargets(t *testing.T) {
	var buf bytes.Buffer
	renderTransitions(&buf, casedomain.Standard())

	out := buf.String()
	if strings.Contains(out, "any stage") {
		t.Fatalf("standard table is not permissive:\n%s", out)
	}
	if !strings.Contains(out, casedomain.StatusInitialLodgement.ShortName()) {
		t.Fatalf("expected the intake targets:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, reportsvc.Summary{
		TotalCases:    11,
		CasesByStatus: []reportsvc.StatusCount{{Status: "TrialPhase", StatusName: "Trial", Count: 1}},
		ApproachingDeadlines: []reportsvc.Deadline{{
			CaseNumber:    "RAF-2025-001",
			ClientName:    "John van der Merwe",
			DeadlineType:  "120-Day Expiry",
			DeadlineDate:  time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC),
			DaysRemaining: 15,
		}},
	})

	out := buf.String()
	for _, want := range []string{"Total cases", "11", "Trial", "RAF-2025-001", "25 Mar 2026", "120-Day Expiry"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}
