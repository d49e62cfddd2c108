package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain note", "plain note"},
		{"<b>bold</b> text", "bold text"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptionalDropsEmpty(t *testing.T) {
	if got := Optional("  <br>  "); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
	if got := Optional("Hospital records"); got == nil || *got != "Hospital records" {
		t.Fatalf("unexpected %v", got)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("Ngcobo Ş", 7); got != "Ngcobo " {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 50); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
}
