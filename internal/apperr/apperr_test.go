package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	sentinel := New(KindAuthentication, "wrong password")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: base, want: KindUnknown},
		{name: "sentinel", err: sentinel, want: KindAuthentication},
		{name: "wrapped sentinel", err: fmt.Errorf("login: %w", sentinel), want: KindAuthentication},
		{name: "wrap keeps outer kind", err: Wrap(KindConfiguration, "users", New(KindNotFound, "x")), want: KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorfKeepsCause(t *testing.T) {
	cause := errors.New("403 forbidden")

	err := Errorf(KindAuthorization, "open %q: %w", "Users", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause, got %v", err)
	}
	if err.Kind != KindAuthorization {
		t.Fatalf("unexpected kind %v", err.Kind)
	}
	if err.Error() != `open "Users": 403 forbidden` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	if got := Wrap(KindUnavailable, "service unavailable", errors.New("dial tcp")).Error(); got != "service unavailable: dial tcp" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := New(KindValidation, "already used").Error(); got != "already used" {
		t.Fatalf("unexpected message %q", got)
	}
}
