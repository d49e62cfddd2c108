package domain

import (
	"fmt"
	"time"

	"raf_pnp_backend/platform/apperr"
)

// StatutoryWaitingDays is the period the Fund has to respond after a
// compliant lodgement.
const StatutoryWaitingDays = 120

// Transition is the outcome of applying a status change to a case.
type Transition struct {
	From     Status
	To       Status
	At       time.Time
	Activity ActivityDraft
}

// Engine applies lifecycle moves and the date stamps that go with them.
type Engine struct {
	Table    *TransitionTable
	Location *time.Location
	Now      func() time.Time
}

// NewEngine creates an engine over table. A nil location means UTC.
func NewEngine(table *TransitionTable, loc *time.Location) *Engine {
	if table == nil {
		table = Permissive()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Table: table, Location: loc, Now: time.Now}
}

// Today is the current calendar date in the engine's location.
func (e *Engine) Today() time.Time {
	return DateOf(e.Now(), e.Location)
}

// Apply moves c to the target stage in place and stamps milestone dates.
// Dates not tied to the target stage are left untouched.
func (e *Engine) Apply(c *Case, to Status) (Transition, error) {
	if !to.IsValid() {
		return Transition{}, apperr.Validation(fmt.Sprintf("unknown case status %q", to))
	}
	from := c.Status
	if !e.Table.Allows(from, to) {
		return Transition{}, apperr.InvalidTransition(
			fmt.Sprintf("case cannot move from %s to %s", from.DisplayName(), to.DisplayName()),
		).WithDetails(map[string]interface{}{
			"from":    from,
			"to":      to,
			"allowed": e.Table.Targets(from),
		})
	}

	now := e.Now()
	today := DateOf(now, e.Location)
	c.Status = to

	switch to {
	case StatusComplianceLodgement:
		expiry := today.AddDate(0, 0, StatutoryWaitingDays)
		c.ComplianceLodgementDate = &today
		c.StatutoryExpiryDate = &expiry
	case StatusSummonsIssued:
		c.SummonsIssueDate = &today
	case StatusFinalised, StatusClosed:
		c.DateClosed = &today
	}

	return Transition{
		From: from,
		To:   to,
		At:   now,
		Activity: ActivityDraft{
			Type:        ActivityStatusChanged,
			Title:       "Status Updated",
			Description: fmt.Sprintf("Status changed from %s to %s", from, to),
		},
	}, nil
}

// DateOf truncates t to midnight of its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
