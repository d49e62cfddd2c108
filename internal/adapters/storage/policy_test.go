package storage

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestPolicyCheck(t *testing.T) {
	p := Policy{MaxBytes: 10 << 20}
	cases := []struct {
		name        string
		contentType string
		size        int64
		want        string
		ok          bool
	}{
		{"pdf", "application/pdf", 100, "application/pdf", true},
		{"parameters stripped", "Application/PDF; charset=binary", 100, "application/pdf", true},
		{"jpeg", "image/jpeg", 100, "image/jpeg", true},
		{"at limit", "text/plain", 10 << 20, "text/plain", true},
		{"video", "video/mp4", 100, "", false},
		{"executable", "application/x-msdownload", 100, "", false},
		{"no type", "", 100, "", false},
		{"empty", "application/pdf", 0, "", false},
		{"over limit", "application/pdf", 10<<20 + 1, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Check(tc.contentType, tc.size)
			if (err == nil) != tc.ok {
				t.Fatalf("Check(%q, %d) err=%v, want ok=%v", tc.contentType, tc.size, err, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Check(%q) = %q, want %q", tc.contentType, got, tc.want)
			}
		})
	}
}

func TestAcceptedContentTypesSorted(t *testing.T) {
	if !slices.IsSorted(AcceptedContentTypes()) {
		t.Fatal("content types must stay sorted for binary search")
	}
}

func TestCaseDocumentKey(t *testing.T) {
	caseID := uuid.New()
	prefix := "cases/" + caseID.String() + "/"

	key := CaseDocumentKey(caseID, `C:\scans\RAF 1 form.pdf`)
	if !strings.HasPrefix(key, prefix+"RAF 1 form_") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if key := CaseDocumentKey(caseID, "../../etc/passwd"); !strings.HasPrefix(key, prefix+"passwd_") {
		t.Fatalf("expected traversal to be stripped, got %q", key)
	}
	if key := CaseDocumentKey(caseID, ".."); !strings.HasPrefix(key, prefix+"document_") {
		t.Fatalf("expected fallback stem, got %q", key)
	}
	if CaseDocumentKey(caseID, "a.pdf") == CaseDocumentKey(caseID, "a.pdf") {
		t.Fatal("keys must be unique per upload")
	}
}
