package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"082 123 4567", "+27821234567"},
		{"+27 82 123 4567", "+27821234567"},
		{"0027821234567", "+27821234567"},
		{"  011 555 0100 ", "+27115550100"},
		{"not a number", "not a number"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOptional(t *testing.T) {
	if Optional("   ") != nil {
		t.Fatal("blank input should be nil")
	}
	if got := Optional("0821234567"); got == nil || *got != "+27821234567" {
		t.Fatalf("unexpected %v", got)
	}
}

func TestIsValidAndGatewayDigits(t *testing.T) {
	if !IsValid("0821234567") || IsValid("12") || IsValid("") {
		t.Fatal("unexpected validity result")
	}
	if got := GatewayDigits("082 123 4567"); got != "27821234567" {
		t.Fatalf("GatewayDigits = %q", got)
	}
}
