package user

import (
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"A@X.com ":         "a@x.com",
		"  bob@Example.FR": "bob@example.fr",
		"":                 "",
		"\tmix@Case.com\n": "mix@case.com",
	}

	for in, want := range tests {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	u := New(" Alice@X.com", "$2a$10$hash", time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC))

	if u.Email != "alice@x.com" {
		t.Fatalf("email should be normalized, got %q", u.Email)
	}

	row := u.Row()
	if len(row) != 3 || row[0] != "alice@x.com" || row[1] != "$2a$10$hash" || row[2] != "2025-03-05" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("marie.curie@example.com"); got != "marie.curie" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := DisplayName("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("unexpected display name %q", got)
	}
}
