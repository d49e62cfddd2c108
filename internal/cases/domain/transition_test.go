package domain

import "testing"

func TestPermissiveAllowsEverything(t *testing.T) {
	table := Permissive()
	for _, from := range Statuses {
		for _, to := range Statuses {
			if !table.Allows(from, to) {
				t.Fatalf("permissive table rejected %s -> %s", from, to)
			}
		}
	}
}

func TestStandardTable(t *testing.T) {
	table := Standard()
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusClientIntake, StatusInitialLodgement, true},
		{StatusExpertAppointments, StatusComplianceLodgement, true},
		{StatusStatutoryWaitingPeriod, StatusSummonsIssued, true},
		{StatusTrialPhase, StatusFinalised, true},
		{StatusMmiWaitingPeriod, StatusClosed, true},
		{StatusClientIntake, StatusTrialPhase, false},
		{StatusClosed, StatusClientIntake, false},
		{StatusSummonsIssued, StatusComplianceLodgement, false},
	}
	for _, tc := range cases {
		if got := table.Allows(tc.from, tc.to); got != tc.want {
			t.Errorf("Allows(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if targets := table.Targets(StatusClosed); len(targets) != 0 {
		t.Fatalf("expected Closed to have no targets, got %v", targets)
	}
}

func TestParseTable(t *testing.T) {
	data := []byte(`
transitions:
  ClientIntake: [InitialLodgement]
  "*": [Closed]
`)
	table, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if !table.Allows(StatusClientIntake, StatusInitialLodgement) {
		t.Fatal("expected explicit edge")
	}
	if !table.Allows(StatusTrialPhase, StatusClosed) {
		t.Fatal("expected wildcard edge")
	}
	if table.Allows(StatusClientIntake, StatusTrialPhase) {
		t.Fatal("unexpected edge")
	}
}

func TestParseTableRejectsUnknownStatus(t *testing.T) {
	if _, err := ParseTable([]byte("transitions:\n  Intake: [Closed]\n")); err == nil {
		t.Fatal("expected error for unknown source")
	}
	if _, err := ParseTable([]byte("transitions:\n  ClientIntake: [Settled]\n")); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestParseTableAllowAll(t *testing.T) {
	table, err := ParseTable([]byte("allowAll: true\n"))
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if !table.AllowsAll() {
		t.Fatal("expected permissive table")
	}
}

func TestResolveTable(t *testing.T) {
	if table, err := ResolveTable("", ""); err != nil || !table.AllowsAll() {
		t.Fatalf("expected permissive default, got %v %v", table, err)
	}
	if table, err := ResolveTable("standard", ""); err != nil || table.AllowsAll() {
		t.Fatalf("expected standard table, got %v %v", table, err)
	}
	if _, err := ResolveTable("strict", ""); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestStatusLabels(t *testing.T) {
	if StatusStatutoryWaitingPeriod.DisplayName() != "120-Day Waiting Period" {
		t.Fatalf("unexpected display name %q", StatusStatutoryWaitingPeriod.DisplayName())
	}
	if StatusStatutoryWaitingPeriod.ShortName() != "120-Day Wait" {
		t.Fatalf("unexpected short name %q", StatusStatutoryWaitingPeriod.ShortName())
	}
	if StatusClientIntake.ShortName() != "Client Intake" {
		t.Fatalf("unexpected short name %q", StatusClientIntake.ShortName())
	}
	if !StatusFinalised.IsTerminal() || StatusTrialPhase.IsTerminal() {
		t.Fatal("unexpected terminal classification")
	}
}
