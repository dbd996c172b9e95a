package language

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en-US", "en-US"},
		{"en-us", "en-US"},
		{"en_US", "en-US"},
		{" pt-br ", "pt-BR"},
		{"fr", "fr"},
	}
	for _, tc := range tests {
		got, err := Canonical(tc.in)
		if err != nil {
			t.Fatalf("Canonical(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a tag!", "und"} {
		if _, err := Canonical(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fr"); got != "French" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := DisplayName("!!"); got != "!!" {
		t.Fatalf("expected passthrough for invalid tag, got %q", got)
	}
}
