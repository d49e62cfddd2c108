package validator

import "testing"

func TestValidSAID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"8001015009087", true},
		{"8506120123086", true},
		{"8001015009088", false},
		{"800101500908", false},
		{"80010150090A7", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSAID(tt.id); got != tt.want {
			t.Errorf("ValidSAID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCustomTags(t *testing.T) {
	val := New()

	type client struct {
		IDNumber string `validate:"required,sa_id"`
		Phone    string `validate:"omitempty,za_phone"`
	}

	if err := val.Struct(client{IDNumber: "9203045112084", Phone: "082 555 1234"}); err != nil {
		t.Fatalf("expected valid client, got %v", err)
	}
	if err := val.Struct(client{IDNumber: "9203045112085"}); err == nil {
		t.Fatal("expected sa_id failure")
	}
	if err := val.Struct(client{IDNumber: "9203045112084", Phone: "12345"}); err == nil {
		t.Fatal("expected za_phone failure")
	}
}
