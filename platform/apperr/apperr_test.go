package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("case not found"), http.StatusNotFound},
		{Validation("bad id number"), http.StatusBadRequest},
		{Conflict("duplicate case number"), http.StatusConflict},
		{InvalidTransition("not allowed"), http.StatusUnprocessableEntity},
		{TransportFailure("whatsapp down", errors.New("503")), http.StatusBadGateway},
		{Internal("boom"), http.StatusInternalServerError},
		{&Error{Kind: "mystery"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.Status(); got != tc.want {
			t.Errorf("%s: status %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("update case: %w", Conflict("case was modified").WithOp("cases.update"))
	if !Is(err, KindConflict) {
		t.Fatalf("expected conflict in %v", err)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("plain errors have no kind")
	}
}

func TestErrorStringIncludesOpAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := TransportFailure("whatsapp delivery failed", cause).WithOp("whatsapp.send")
	if got := err.Error(); got != "whatsapp.send: whatsapp delivery failed: dial tcp: refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
}
