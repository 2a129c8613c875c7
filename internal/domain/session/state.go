// Package session holds the visitor's position in the login/registration flow.
//
// The only valid moves are:
//
//	LoggedOut   -> Registering  (StartRegistration)
//	Registering -> LoggedOut    (CompleteRegistration, CancelRegistration)
//	LoggedOut   -> LoggedIn     (LogIn)
//	LoggedIn    -> LoggedOut    (LogOut)
//
// Anything else returns ErrInvalidTransition and leaves the state untouched.
package session

import (
	"errors"
	"fmt"
)

type Phase string

const (
	LoggedOut   Phase = "logged_out"
	Registering Phase = "registering"
	LoggedIn    Phase = "logged_in"
)

var ErrInvalidTransition = errors.New("invalid session transition")

func (p Phase) Valid() bool {
	switch p {
	case LoggedOut, Registering, LoggedIn:
		return true
	}
	return false
}

type State struct {
	Phase Phase
	Email string
}

// New is the state of a fresh visit.
func New() State {
	return State{Phase: LoggedOut}
}

// Restore rebuilds a state from stored values. Anything inconsistent (unknown
// phase, logged in without an email) falls back to a fresh state.
func Restore(phase, email string) State {
	p := Phase(phase)
	if !p.Valid() {
		return New()
	}

	if p == LoggedIn && email == "" {
		return New()
	}

	if p != LoggedIn {
		email = ""
	}

	return State{Phase: p, Email: email}
}

func (s State) Authenticated() bool {
	return s.Phase == LoggedIn
}

func (s *State) StartRegistration() error {
	return s.move(LoggedOut, Registering, "")
}

func (s *State) CancelRegistration() error {
	return s.move(Registering, LoggedOut, "")
}

func (s *State) CompleteRegistration() error {
	return s.move(Registering, LoggedOut, "")
}

func (s *State) LogIn(email string) error {
	if email == "" {
		return fmt.Errorf("%w: login without an email", ErrInvalidTransition)
	}

	return s.move(LoggedOut, LoggedIn, email)
}

func (s *State) LogOut() error {
	return s.move(LoggedIn, LoggedOut, "")
}

func (s *State) move(from, to Phase, email string) error {
	if s.Phase != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrInvalidTransition, from, to, s.Phase)
	}

	s.Phase = to
	s.Email = email

	return nil
}
