package transport

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest holds the multipart form fields next to the file.
type UploadDocumentRequest struct {
	DocumentType string `form:"documentType" validate:"required,document_type"`
	Description  string `form:"description" validate:"max=500"`
	DateReceived string `form:"dateReceived" validate:"omitempty,datetime=2006-01-02"`
}

type DocumentResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CaseID              uuid.UUID  `json:"caseId"`
	DocumentName        string     `json:"documentName"`
	DocumentType        string     `json:"documentType"`
	DocumentTypeDisplay string     `json:"documentTypeDisplay"`
	ContentType         string     `json:"contentType"`
	SizeBytes           int64      `json:"sizeBytes"`
	Description         *string    `json:"description,omitempty"`
	DateUploaded        time.Time  `json:"dateUploaded"`
	DateReceived        *time.Time `json:"dateReceived,omitempty"`
	UploadedBy          string     `json:"uploadedBy,omitempty"`
}

type DownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"fileName"`
	ExpiresAt time.Time `json:"expiresAt"`
}
