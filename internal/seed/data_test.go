package seed

import (
	"testing"
	"time"

	"raf_pnp_backend/platform/validator"
)

func TestSampleClientsHaveValidIDNumbers(t *testing.T) {
	for _, c := range sampleClients(time.Now()) {
		if !validator.ValidSAID(c.IDNumber) {
			t.Errorf("%s %s: invalid id number %s", c.FirstName, c.LastName, c.IDNumber)
		}
	}
}

func TestSampleCasesAreConsistent(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	clients := sampleClients(now)
	seen := map[string]bool{}

	for _, c := range sampleCases(now) {
		if seen[c.CaseNumber] {
			t.Errorf("duplicate case number %s", c.CaseNumber)
		}
		seen[c.CaseNumber] = true

		if c.Client < 0 || c.Client >= len(clients) {
			t.Errorf("%s: client index %d out of range", c.CaseNumber, c.Client)
		}
		if c.Team < 0 || c.Team >= len(sampleTeams) {
			t.Errorf("%s: team index %d out of range", c.CaseNumber, c.Team)
		}
		if !c.Status.IsValid() {
			t.Errorf("%s: unknown status %s", c.CaseNumber, c.Status)
		}
		if (c.DateClosed != nil) != c.Status.IsTerminal() {
			t.Errorf("%s: closed date must be set only on terminal stages", c.CaseNumber)
		}
		if c.DateOpened.Before(c.AccidentDate) {
			t.Errorf("%s: opened before the accident", c.CaseNumber)
		}
	}
}

func TestSampleMembersReferenceSeededRows(t *testing.T) {
	for _, m := range sampleMembers {
		if m.Team >= len(sampleTeams) || m.User >= len(sampleUsers) {
			t.Errorf("member %+v references a missing row", m)
		}
	}
	for _, team := range sampleTeams {
		if team.Lead >= len(sampleUsers) {
			t.Errorf("team %s lead out of range", team.Name)
		}
	}
}
