package seed

import (
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
)

type userSeed struct {
	FullName string
	Email    string
	Phone    string
	Role     string
	WhatsApp bool
	Verified bool
	Channel  string
}

type teamSeed struct {
	Name        string
	Description string
	Lead        int
}

type memberSeed struct {
	Team int
	User int
	Role string
}

type clientSeed struct {
	FirstName string
	LastName  string
	IDNumber  string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}

type caseSeed struct {
	CaseNumber          string
	Client              int
	Team                int
	AccidentDate        time.Time
	Description         string
	Location            string
	Status              casedomain.Status
	DateOpened          time.Time
	DateClosed          *time.Time
	InitialLodgement    *time.Time
	MmiDate             *time.Time
	ComplianceLodgement *time.Time
	StatutoryExpiry     *time.Time
	SummonsIssued       *time.Time
	Attorney            string
	Candidate           string
	Contingency         bool
	EstimatedValue      *float64
	SettlementAmount    *float64
	Notes               string
}

var sampleUsers = []userSeed{
	{"Sanjay Pather", "sanjay.pather@patherlaw.co.za", "+27825551234", "Senior Attorney", true, true, "All"},
	{"Vinesh Pather", "vinesh.pather@patherlaw.co.za", "+27825552345", "Senior Attorney", true, true, "All"},
	{"Anjali Govender", "anjali.govender@patherlaw.co.za", "+27825553456", "Candidate Attorney", true, true, "WhatsApp"},
	{"Rajesh Singh", "rajesh.singh@patherlaw.co.za", "+27825554567", "Candidate Attorney", false, false, "Email"},
	{"Thandi Moodley", "thandi.moodley@patherlaw.co.za", "+27825555678", "Candidate Attorney", true, true, "All"},
	{"Nokulunga Dube", "nokulunga.dube@patherlaw.co.za", "+27825556789", "Paralegal", true, true, "InApp"},
}

var sampleTeams = []teamSeed{
	{"RAF Litigation Team", "Handles all RAF litigation matters from pleading phase to trial", 0},
	{"Compliance & Pre-Litigation", "Manages case intake, compliance lodgements, and pre-litigation preparation", 1},
	{"Expert Coordination", "Coordinates expert appointments and report collection", 2},
}

var sampleMembers = []memberSeed{
	{0, 0, "Lead"}, {0, 2, "Member"}, {0, 5, "Member"},
	{1, 1, "Lead"}, {1, 3, "Member"}, {1, 4, "Member"},
	{2, 2, "Lead"}, {2, 5, "Member"},
}

func sampleClients(now time.Time) []clientSeed {
	return []clientSeed{
		{"Thabo", "Molefe", "8506125185080", "082 456 7890", "thabo.molefe@email.co.za", "45 Main Road, Durban, KwaZulu-Natal, 4001", now.AddDate(0, -18, 0)},
		{"Priya", "Naidoo", "9203145234085", "083 234 5678", "priya.naidoo@gmail.com", "12 Smith Street, Pietermaritzburg, 3201", now.AddDate(0, -14, 0)},
		{"Sipho", "Dlamini", "7812095432085", "072 345 6789", "sipho.dlamini@outlook.com", "78 Beach Road, Umhlanga, 4320", now.AddDate(0, -10, 0)},
		{"Fatima", "Khan", "9508234567082", "084 567 8901", "fatima.khan@yahoo.com", "23 Victoria Embankment, Durban, 4001", now.AddDate(0, -8, 0)},
		{"John", "van der Merwe", "8001155189087", "076 890 1234", "john.vdmerwe@email.co.za", "56 Musgrave Road, Berea, 4001", now.AddDate(0, -6, 0)},
		{"Nomvula", "Zulu", "9109234567089", "082 111 2222", "nomvula.zulu@gmail.com", "34 Inanda Road, Phoenix, 4068", now.AddDate(0, -4, 0)},
		{"Rajesh", "Pillay", "8705125186086", "083 333 4444", "rajesh.pillay@email.co.za", "89 Sparks Road, Overport, 4091", now.AddDate(0, -3, 0)},
		{"Lindiwe", "Mthembu", "9402145678081", "071 555 6666", "lindiwe.m@outlook.com", "67 Umbilo Road, Durban, 4001", now.AddDate(0, -2, 0)},
		{"Mohammed", "Essop", "8811235189083", "084 777 8888", "m.essop@gmail.com", "12 Grey Street, Durban CBD, 4001", now.AddDate(0, -1, 0)},
		{"Sarah", "Nkosi", "9606145234089", "072 999 0000", "sarah.nkosi@yahoo.com", "45 Argyle Road, Glenwood, 4001", now.AddDate(0, 0, -14)},
	}
}

// Team indexes into sampleTeams; litigation stages go to the litigation team.
const (
	teamLitigation = 0
	teamCompliance = 1
	teamExperts    = 2
)

func sampleCases(now time.Time) []caseSeed {
	months := func(n int) *time.Time {
		t := now.AddDate(0, n, 0)
		return &t
	}
	days := func(n int) *time.Time {
		t := now.AddDate(0, 0, n)
		return &t
	}
	money := func(v float64) *float64 { return &v }

	return []caseSeed{
		{
			CaseNumber:          "RAF-2024-001",
			Client:              0,
			Team:                teamLitigation,
			AccidentDate:        *months(-30),
			Status:              casedomain.StatusFinalised,
			Description:         "Motor vehicle collision on N3 highway. Client was a passenger in a taxi that was rear-ended by a truck. Sustained serious spinal injuries.",
			Location:            "N3 Highway near Pietermaritzburg toll plaza",
			DateOpened:          *months(-29),
			DateClosed:          months(-2),
			InitialLodgement:    months(-28),
			MmiDate:             months(-18),
			ComplianceLodgement: months(-16),
			StatutoryExpiry:     months(-12),
			SummonsIssued:       months(-11),
			Attorney:            "Adv. S. Pather",
			Candidate:           "Mr. R. Singh",
			Contingency:         true,
			EstimatedValue:      money(1500000),
			SettlementAmount:    money(1250000),
			Notes:               "Matter successfully settled at mediation. Client satisfied with outcome.",
		},
		{
			CaseNumber:          "RAF-2024-002",
			Client:              1,
			Team:                teamLitigation,
			AccidentDate:        *months(-24),
			Status:              casedomain.StatusTrialPhase,
			Description:         "Pedestrian knocked down by uninsured vehicle at zebra crossing. Multiple fractures and traumatic brain injury.",
			Location:            "Corner of West and Field Street, Durban CBD",
			DateOpened:          *months(-23),
			InitialLodgement:    months(-22),
			MmiDate:             months(-12),
			ComplianceLodgement: months(-10),
			StatutoryExpiry:     months(-6),
			SummonsIssued:       months(-5),
			Attorney:            "Adv. S. Pather",
			Candidate:           "Ms. A. Govender",
			Contingency:         true,
			EstimatedValue:      money(2500000),
			Notes:               "Trial date set for next month. All expert witnesses confirmed. RAF disputing quantum.",
		},
		{
			CaseNumber:          "RAF-2024-003",
			Client:              2,
			Team:                teamLitigation,
			AccidentDate:        *months(-20),
			Status:              casedomain.StatusPreTrialPhase,
			Description:         "Motorcycle accident on M4 South Coast Road. Client collided with vehicle that failed to yield. Leg amputation required.",
			Location:            "M4 South Coast Road, Amanzimtoti",
			DateOpened:          *months(-19),
			InitialLodgement:    months(-18),
			MmiDate:             months(-8),
			ComplianceLodgement: months(-7),
			StatutoryExpiry:     months(-3),
			SummonsIssued:       months(-2),
			Attorney:            "Adv. V. Pather",
			Candidate:           "Mr. T. Moodley",
			Contingency:         true,
			EstimatedValue:      money(3500000),
			Notes:               "Pre-trial conference scheduled. Discovery completed. Awaiting joint expert minutes.",
		},
		{
			CaseNumber:          "RAF-2024-004",
			Client:              3,
			Team:                teamLitigation,
			AccidentDate:        *months(-18),
			Status:              casedomain.StatusPleadingPhase,
			Description:         "Rear-end collision at traffic light. Whiplash and disc herniation. Client was breadwinner for family of 5.",
			Location:            "Umgeni Road and Argyle Road intersection, Durban",
			DateOpened:          *months(-17),
			InitialLodgement:    months(-16),
			MmiDate:             months(-6),
			ComplianceLodgement: months(-5),
			StatutoryExpiry:     months(-1),
			SummonsIssued:       days(-20),
			Attorney:            "Adv. S. Pather",
			Candidate:           "Ms. N. Dube",
			Contingency:         true,
			EstimatedValue:      money(850000),
			Notes:               "Summons served. Notice of Intention to Defend received. Awaiting RAF plea within 20 court days.",
		},
		{
			CaseNumber:          "RAF-2025-001",
			Client:              4,
			Team:                teamLitigation,
			AccidentDate:        *months(-16),
			Status:              casedomain.StatusPajaApplication,
			Description:         "Bus accident on N2 North. Multiple passengers injured. Client sustained rib fractures and internal injuries.",
			Location:            "N2 Highway near King Shaka International Airport",
			DateOpened:          *months(-15),
			InitialLodgement:    months(-14),
			MmiDate:             months(-4),
			ComplianceLodgement: months(-3),
			StatutoryExpiry:     days(15),
			SummonsIssued:       days(-10),
			Attorney:            "Adv. V. Pather",
			Candidate:           "Mr. R. Singh",
			Contingency:         true,
			EstimatedValue:      money(650000),
			Notes:               "PAJA application filed to compel RAF decision on serious injury assessment. Summons issued in parallel.",
		},
		{
			CaseNumber:          "RAF-2025-002",
			Client:              5,
			Team:                teamCompliance,
			AccidentDate:        *months(-14),
			Status:              casedomain.StatusStatutoryWaitingPeriod,
			Description:         "Hit and run accident. Client was cycling on road shoulder. Driver fled scene. Fractured pelvis and facial injuries.",
			Location:            "Old Main Road, Hillcrest",
			DateOpened:          *months(-13),
			InitialLodgement:    months(-12),
			MmiDate:             months(-2),
			ComplianceLodgement: days(-60),
			StatutoryExpiry:     days(60),
			Attorney:            "Adv. S. Pather",
			Candidate:           "Ms. A. Govender",
			Contingency:         true,
			EstimatedValue:      money(920000),
			Notes:               "Compliance lodgement completed. In 120-day statutory waiting period. Diary set for expiry date to issue summons if no response.",
		},
		{
			CaseNumber:          "RAF-2025-003",
			Client:              6,
			Team:                teamCompliance,
			AccidentDate:        *months(-13),
			Status:              casedomain.StatusComplianceLodgement,
			Description:         "Collision with stationary vehicle. Client's vehicle was rear-ended while parked. Neck and back injuries.",
			Location:            "Sandile Thusi Road, Greyville",
			DateOpened:          *months(-12),
			InitialLodgement:    months(-11),
			MmiDate:             months(-1),
			ComplianceLodgement: days(-5),
			Attorney:            "Adv. V. Pather",
			Candidate:           "Mr. T. Moodley",
			Contingency:         true,
			EstimatedValue:      money(450000),
			Notes:               "Full compliance lodgement submitted. All RAF 1, RAF 4 forms and expert reports included. Awaiting RAF acknowledgement.",
		},
		{
			CaseNumber:       "RAF-2025-004",
			Client:           7,
			Team:             teamExperts,
			AccidentDate:     *months(-11),
			Status:           casedomain.StatusExpertAppointments,
			Description:      "Side impact collision at intersection. Client was driver. Head injury and shoulder dislocation.",
			Location:         "Intersection of Jan Smuts Highway and Stella Road, Pinetown",
			DateOpened:       *months(-10),
			InitialLodgement: months(-9),
			MmiDate:          months(1),
			Attorney:         "Adv. S. Pather",
			Candidate:        "Ms. N. Dube",
			Contingency:      true,
			EstimatedValue:   money(780000),
			Notes:            "MMI reached. Neurosurgeon and Clinical Psychologist appointments completed. Awaiting Industrial Psychologist and Actuary reports.",
		},
		{
			CaseNumber:       "RAF-2025-005",
			Client:           8,
			Team:             teamCompliance,
			AccidentDate:     *months(-10),
			Status:           casedomain.StatusMmiWaitingPeriod,
			Description:      "Taxi collision. Client was commuter. Multiple soft tissue injuries and psychological trauma.",
			Location:         "Warwick Avenue, Durban CBD",
			DateOpened:       *months(-9),
			InitialLodgement: months(-8),
			MmiDate:          months(2),
			Attorney:         "Adv. V. Pather",
			Candidate:        "Mr. R. Singh",
			EstimatedValue:   money(380000),
			Notes:            "Monitoring client's recovery. GP follow-up reports obtained. Planning expert appointments for post-MMI.",
		},
		{
			CaseNumber:   "RAF-2026-001",
			Client:       9,
			Team:         teamCompliance,
			AccidentDate: *days(-21),
			Status:       casedomain.StatusClientIntake,
			Description:  "Head-on collision on R102. Client was passenger. Fractured arm and lacerations. Currently hospitalized.",
			Location:     "R102 near Tongaat",
			DateOpened:   *days(-14),
			MmiDate:      months(12),
			Attorney:     "Adv. S. Pather",
			Candidate:    "Ms. A. Govender",
			Contingency:  true,
			Notes:        "New intake. Accident report obtained. Collecting hospital records. Fee agreement signed. Preparing initial lodgement.",
		},
		{
			CaseNumber:       "RAF-2025-006",
			Client:           0,
			Team:             teamCompliance,
			AccidentDate:     *months(-3),
			Status:           casedomain.StatusInitialLodgement,
			Description:      "Second accident for same client. Rear-ended at stop street. Aggravation of previous spinal injuries.",
			Location:         "Florida Road, Morningside",
			DateOpened:       *months(-2),
			InitialLodgement: days(-30),
			MmiDate:          months(9),
			Attorney:         "Adv. S. Pather",
			Candidate:        "Mr. T. Moodley",
			Contingency:      true,
			Notes:            "Non-compliance lodgement sent via registered post. Preservation letter sent to RAF. Awaiting MMI period.",
		},
	}
}
