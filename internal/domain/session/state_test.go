package session

import (
	"errors"
	"testing"
)

func TestNewIsLoggedOut(t *testing.T) {
	s := New()
	if s.Phase != LoggedOut || s.Email != "" || s.Authenticated() {
		t.Fatalf("unexpected initial state %+v", s)
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		name      string
		start     State
		act       func(*State) error
		wantPhase Phase
		wantEmail string
	}{
		{"start registration", State{Phase: LoggedOut}, (*State).StartRegistration, Registering, ""},
		{"cancel registration", State{Phase: Registering}, (*State).CancelRegistration, LoggedOut, ""},
		{"complete registration", State{Phase: Registering}, (*State).CompleteRegistration, LoggedOut, ""},
		{"log in", State{Phase: LoggedOut}, func(s *State) error { return s.LogIn("a@x.com") }, LoggedIn, "a@x.com"},
		{"log out", State{Phase: LoggedIn, Email: "a@x.com"}, (*State).LogOut, LoggedOut, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			if err := tt.act(&s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Phase != tt.wantPhase || s.Email != tt.wantEmail {
				t.Fatalf("got %+v, want phase=%s email=%q", s, tt.wantPhase, tt.wantEmail)
			}
		})
	}
}

func TestInvalidTransitionsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name  string
		start State
		act   func(*State) error
	}{
		{"register while logged in", State{Phase: LoggedIn, Email: "a@x.com"}, (*State).StartRegistration},
		{"register twice", State{Phase: Registering}, (*State).StartRegistration},
		{"log in while registering", State{Phase: Registering}, func(s *State) error { return s.LogIn("a@x.com") }},
		{"log in twice", State{Phase: LoggedIn, Email: "a@x.com"}, func(s *State) error { return s.LogIn("b@x.com") }},
		{"log out while logged out", State{Phase: LoggedOut}, (*State).LogOut},
		{"log out while registering", State{Phase: Registering}, (*State).LogOut},
		{"cancel while logged out", State{Phase: LoggedOut}, (*State).CancelRegistration},
		{"complete while logged in", State{Phase: LoggedIn, Email: "a@x.com"}, (*State).CompleteRegistration},
		{"log in without email", State{Phase: LoggedOut}, func(s *State) error { return s.LogIn("") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			err := tt.act(&s)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if s != tt.start {
				t.Fatalf("state changed on invalid transition: %+v -> %+v", tt.start, s)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		phase, email string
		want         State
	}{
		{"logged_in", "a@x.com", State{Phase: LoggedIn, Email: "a@x.com"}},
		{"logged_in", "", New()},
		{"registering", "stale@x.com", State{Phase: Registering}},
		{"bogus", "a@x.com", New()},
		{"", "", New()},
	}

	for _, tt := range tests {
		if got := Restore(tt.phase, tt.email); got != tt.want {
			t.Fatalf("Restore(%q, %q) = %+v, want %+v", tt.phase, tt.email, got, tt.want)
		}
	}
}
