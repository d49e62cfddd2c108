package storage

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// documentContentTypes are the MIME types accepted for case documents:
// scanned forms, medical records, spreadsheets and correspondence.
var documentContentTypes = []string{
	"application/msword",
	"application/pdf",
	"application/vnd.ms-excel",
	"application/vnd.ms-outlook",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/webp",
	"message/rfc822",
	"text/csv",
	"text/plain",
}

// Policy decides whether an upload may be stored.
type Policy struct {
	MaxBytes int64
}

// Check validates size and content type and returns the content type in
// its canonical form, without parameters and lowercased.
func (p Policy) Check(contentType string, size int64) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("file is empty")
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return "", fmt.Errorf("file is %d bytes, the limit is %d bytes", size, p.MaxBytes)
	}
	ct := canonicalContentType(contentType)
	if _, ok := slices.BinarySearch(documentContentTypes, ct); !ok {
		return "", fmt.Errorf("content type %q is not accepted", contentType)
	}
	return ct, nil
}

// AcceptedContentTypes lists the accepted MIME types in sorted order.
func AcceptedContentTypes() []string {
	return slices.Clone(documentContentTypes)
}

func canonicalContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// CaseDocumentKey returns a fresh object key for fileName under the case's
// prefix. Directory components are dropped so uploads cannot escape it.
func CaseDocumentKey(caseID uuid.UUID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." || stem == "/" || stem == ".." {
		stem, ext = "document", strings.TrimPrefix(ext, ".")
		if ext != "" {
			ext = "." + ext
		}
	}
	return fmt.Sprintf("cases/%s/%s_%s%s", caseID, stem, uuid.NewString()[:8], ext)
}
