package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnySource is the YAML key whose targets apply to every source stage.
const AnySource = "*"

// TransitionTable decides which lifecycle moves are allowed.
// A move to the current stage is always allowed.
type TransitionTable struct {
	name     string
	allowAll bool
	edges    map[Status]map[Status]struct{}
}

// Permissive allows every stage to follow every other stage.
func Permissive() *TransitionTable {
	return &TransitionTable{name: "permissive", allowAll: true}
}

// Standard is the forward RAF workflow. Closed is reachable from every open stage.
func Standard() *TransitionTable {
	t := &TransitionTable{name: "standard", edges: make(map[Status]map[Status]struct{})}
	forward := map[Status][]Status{
		StatusClientIntake:           {StatusInitialLodgement, StatusMmiWaitingPeriod, StatusExpertAppointments},
		StatusInitialLodgement:       {StatusMmiWaitingPeriod, StatusExpertAppointments},
		StatusMmiWaitingPeriod:       {StatusExpertAppointments},
		StatusExpertAppointments:     {StatusComplianceLodgement},
		StatusComplianceLodgement:    {StatusStatutoryWaitingPeriod},
		StatusStatutoryWaitingPeriod: {StatusSummonsIssued, StatusPajaApplication, StatusFinalised},
		StatusSummonsIssued:          {StatusPajaApplication, StatusPleadingPhase, StatusFinalised},
		StatusPajaApplication:        {StatusSummonsIssued, StatusPleadingPhase, StatusFinalised},
		StatusPleadingPhase:          {StatusPreTrialPhase, StatusFinalised},
		StatusPreTrialPhase:          {StatusTrialPhase, StatusFinalised},
		StatusTrialPhase:             {StatusFinalised},
		StatusFinalised:              {StatusClosed},
	}
	for from, targets := range forward {
		for _, to := range targets {
			t.add(from, to)
		}
	}
	for _, from := range Statuses {
		if from != StatusClosed {
			t.add(from, StatusClosed)
		}
	}
	return t
}

// TableFile is the YAML layout of a transition table file.
//
//	allowAll: false
//	transitions:
//	  ClientIntake: [InitialLodgement, MmiWaitingPeriod]
//	  "*": [Closed]
type TableFile struct {
	AllowAll    bool                `yaml:"allowAll"`
	Transitions map[string][]string `yaml:"transitions"`
}

// ParseTable builds a table from YAML. Unknown stage names are rejected.
func ParseTable(data []byte) (*TransitionTable, error) {
	var file TableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse transition table: %w", err)
	}
	if file.AllowAll {
		t := Permissive()
		t.name = "file"
		return t, nil
	}

	t := &TransitionTable{name: "file", edges: make(map[Status]map[Status]struct{})}
	for rawFrom, rawTargets := range file.Transitions {
		sources := Statuses
		if rawFrom != AnySource {
			from, ok := ParseStatus(rawFrom)
			if !ok {
				return nil, fmt.Errorf("transition table: unknown source status %q", rawFrom)
			}
			sources = []Status{from}
		}
		for _, rawTo := range rawTargets {
			to, ok := ParseStatus(rawTo)
			if !ok {
				return nil, fmt.Errorf("transition table: unknown target status %q", rawTo)
			}
			for _, from := range sources {
				if from != to {
					t.add(from, to)
				}
			}
		}
	}
	return t, nil
}

// LoadTable reads a table from a YAML file.
func LoadTable(path string) (*TransitionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transition table: %w", err)
	}
	return ParseTable(data)
}

// ResolveTable picks the table for a policy name, preferring a file when set.
func ResolveTable(policy, path string) (*TransitionTable, error) {
	if path != "" {
		return LoadTable(path)
	}
	switch policy {
	case "", "permissive":
		return Permissive(), nil
	case "standard":
		return Standard(), nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q", policy)
	}
}

func (t *TransitionTable) add(from, to Status) {
	if t.edges[from] == nil {
		t.edges[from] = make(map[Status]struct{})
	}
	t.edges[from][to] = struct{}{}
}

// Name identifies where the table came from.
func (t *TransitionTable) Name() string { return t.name }

// AllowsAll reports whether the table is permissive.
func (t *TransitionTable) AllowsAll() bool { return t.allowAll }

// Allows reports whether a case may move from one stage to another.
func (t *TransitionTable) Allows(from, to Status) bool {
	if !to.IsValid() {
		return false
	}
	if t.allowAll || from == to {
		return true
	}
	_, ok := t.edges[from][to]
	return ok
}

// Targets lists the stages reachable from a stage in workflow order,
// excluding the stage itself.
func (t *TransitionTable) Targets(from Status) []Status {
	out := make([]Status, 0, len(Statuses))
	for _, to := range Statuses {
		if to != from && t.Allows(from, to) {
			out = append(out, to)
		}
	}
	return out
}
