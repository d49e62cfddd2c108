// Package domain holds case document types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies a case document.
type DocumentType string

const (
	TypeAccidentReport          DocumentType = "AccidentReport"
	TypeHospitalRecords         DocumentType = "HospitalRecords"
	TypeMedicalRecords          DocumentType = "MedicalRecords"
	TypeEmploymentRecords       DocumentType = "EmploymentRecords"
	TypeFeeAgreement            DocumentType = "FeeAgreement"
	TypeContingencyFeeAgreement DocumentType = "ContingencyFeeAgreement"
	TypeRaf1Form                DocumentType = "Raf1Form"
	TypeRaf4Form                DocumentType = "Raf4Form"
	TypeExpertReport            DocumentType = "ExpertReport"
	TypeSummons                 DocumentType = "Summons"
	TypePlea                    DocumentType = "Plea"
	TypeNoticeOfIntention       DocumentType = "NoticeOfIntention"
	TypeCourtOrder              DocumentType = "CourtOrder"
	TypeCorrespondence          DocumentType = "Correspondence"
	TypeOther                   DocumentType = "Other"
)

var displayNames = map[DocumentType]string{
	TypeAccidentReport:          "Accident Report",
	TypeHospitalRecords:         "Hospital Records",
	TypeMedicalRecords:          "Medical Records",
	TypeEmploymentRecords:       "Employment Records",
	TypeFeeAgreement:            "Fee Agreement",
	TypeContingencyFeeAgreement: "Contingency Fee Agreement",
	TypeRaf1Form:                "RAF 1 Form",
	TypeRaf4Form:                "RAF 4 Form",
	TypeExpertReport:            "Expert Report",
	TypeSummons:                 "Summons",
	TypePlea:                    "Plea",
	TypeNoticeOfIntention:       "Notice of Intention to Defend",
	TypeCourtOrder:              "Court Order",
	TypeCorrespondence:          "Correspondence",
	TypeOther:                   "Other",
}

var allTypes = []DocumentType{
	TypeAccidentReport, TypeHospitalRecords, TypeMedicalRecords, TypeEmploymentRecords,
	TypeFeeAgreement, TypeContingencyFeeAgreement, TypeRaf1Form, TypeRaf4Form,
	TypeExpertReport, TypeSummons, TypePlea, TypeNoticeOfIntention,
	TypeCourtOrder, TypeCorrespondence, TypeOther,
}

// AllTypes lists document types in display order.
func AllTypes() []DocumentType {
	out := make([]DocumentType, len(allTypes))
	copy(out, allTypes)
	return out
}

func (t DocumentType) IsValid() bool {
	_, ok := displayNames[t]
	return ok
}

func (t DocumentType) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// Document is a file stored against a case.
type Document struct {
	ID           uuid.UUID
	CaseID       uuid.UUID
	Name         string
	Type         DocumentType
	FileKey      string
	ContentType  string
	SizeBytes    int64
	Description  *string
	DateUploaded time.Time
	DateReceived *time.Time
	UploadedBy   string
}

// UploadedActivity is the case log text for an upload.
func UploadedActivity(name string, t DocumentType) (title, description string) {
	return "Document Uploaded", "Uploaded " + name + " (" + string(t) + ")"
}
