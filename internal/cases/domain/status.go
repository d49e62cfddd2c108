package domain

// Status is a wire-stable case lifecycle stage.
type Status string

const (
	StatusClientIntake           Status = "ClientIntake"
	StatusInitialLodgement       Status = "InitialLodgement"
	StatusMmiWaitingPeriod       Status = "MmiWaitingPeriod"
	StatusExpertAppointments     Status = "ExpertAppointments"
	StatusComplianceLodgement    Status = "ComplianceLodgement"
	StatusStatutoryWaitingPeriod Status = "StatutoryWaitingPeriod"
	StatusSummonsIssued          Status = "SummonsIssued"
	StatusPajaApplication        Status = "PajaApplication"
	StatusPleadingPhase          Status = "PleadingPhase"
	StatusPreTrialPhase          Status = "PreTrialPhase"
	StatusTrialPhase             Status = "TrialPhase"
	StatusFinalised              Status = "Finalised"
	StatusClosed                 Status = "Closed"
)

// Statuses lists every stage in workflow order.
var Statuses = []Status{
	StatusClientIntake,
	StatusInitialLodgement,
	StatusMmiWaitingPeriod,
	StatusExpertAppointments,
	StatusComplianceLodgement,
	StatusStatutoryWaitingPeriod,
	StatusSummonsIssued,
	StatusPajaApplication,
	StatusPleadingPhase,
	StatusPreTrialPhase,
	StatusTrialPhase,
	StatusFinalised,
	StatusClosed,
}

// LitigationStatuses are the stages from summons up to trial.
var LitigationStatuses = []Status{
	StatusSummonsIssued,
	StatusPajaApplication,
	StatusPleadingPhase,
	StatusPreTrialPhase,
	StatusTrialPhase,
}

var displayNames = map[Status]string{
	StatusClientIntake:           "Client Intake",
	StatusInitialLodgement:       "Initial Lodgement (Non-Compliance)",
	StatusMmiWaitingPeriod:       "MMI Waiting Period",
	StatusExpertAppointments:     "Expert Appointments",
	StatusComplianceLodgement:    "Compliance Lodgement",
	StatusStatutoryWaitingPeriod: "120-Day Waiting Period",
	StatusSummonsIssued:          "Summons Issued",
	StatusPajaApplication:        "PAJA Application",
	StatusPleadingPhase:          "Pleading Phase",
	StatusPreTrialPhase:          "Pre-Trial Phase",
	StatusTrialPhase:             "Trial Phase",
	StatusFinalised:              "Finalised",
	StatusClosed:                 "Closed",
}

// Report labels are shorter than the display names.
var shortNames = map[Status]string{
	StatusInitialLodgement:       "Initial Lodgement",
	StatusMmiWaitingPeriod:       "MMI Waiting",
	StatusStatutoryWaitingPeriod: "120-Day Wait",
	StatusPreTrialPhase:          "Pre-Trial",
	StatusTrialPhase:             "Trial",
}

// ParseStatus returns the status for a wire identifier.
func ParseStatus(value string) (Status, bool) {
	s := Status(value)
	_, ok := displayNames[s]
	return s, ok
}

// IsValid reports whether s is one of the known stages.
func (s Status) IsValid() bool {
	_, ok := displayNames[s]
	return ok
}

// DisplayName returns the human label used on case screens.
func (s Status) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// ShortName returns the compact label used in reports.
func (s Status) ShortName() string {
	if name, ok := shortNames[s]; ok {
		return name
	}
	return s.DisplayName()
}

// IsTerminal reports whether the case is finished.
func (s Status) IsTerminal() bool {
	return s == StatusFinalised || s == StatusClosed
}

// Order returns the position of s in the workflow, or -1.
func (s Status) Order() int {
	for i, candidate := range Statuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// TerminalStatuses returns the wire identifiers of the finished stages.
func TerminalStatuses() []string {
	return []string{string(StatusFinalised), string(StatusClosed)}
}
