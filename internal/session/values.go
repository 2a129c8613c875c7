package session

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	state "github.com/geocoder89/lentpath/internal/domain/session"
)

const (
	keyPhase = "phase"
	keyEmail = "email"
	keySID   = "sid"
)

// Flash levels, rendered as alert classes.
const (
	FlashError   = "error"
	FlashWarning = "warning"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

var flashLevels = []string{FlashError, FlashWarning, FlashSuccess, FlashInfo}

// LoadState decodes the flow state; missing or tampered values give a fresh
// state.
func LoadState(s *sessions.Session) state.State {
	phase, _ := s.Values[keyPhase].(string)
	email, _ := s.Values[keyEmail].(string)

	return state.Restore(phase, email)
}

func SaveState(s *sessions.Session, st state.State) {
	s.Values[keyPhase] = string(st.Phase)
	if st.Email == "" {
		delete(s.Values, keyEmail)
	} else {
		s.Values[keyEmail] = st.Email
	}
}

// ID returns the workspace id of the session, allocating one on first use.
func ID(s *sessions.Session) string {
	if sid, ok := s.Values[keySID].(string); ok && sid != "" {
		return sid
	}

	return RotateID(s)
}

// RotateID gives the session a new workspace id, so the next request builds
// fresh snapshots.
func RotateID(s *sessions.Session) string {
	sid := uuid.NewString()
	s.Values[keySID] = sid

	return sid
}

type Flash struct {
	Level string
	Text  string
}

// Flashes are kept as []string per level, a type both codecs handle without
// registration.
func AddFlash(s *sessions.Session, level, text string) {
	key := flashKey(level)
	prev, _ := s.Values[key].([]string)
	s.Values[key] = append(prev, text)
}

// Flashes pops every pending message, errors first.
func Flashes(s *sessions.Session) []Flash {
	var out []Flash

	for _, level := range flashLevels {
		key := flashKey(level)
		texts, _ := s.Values[key].([]string)
		for _, text := range texts {
			out = append(out, Flash{Level: level, Text: text})
		}
		delete(s.Values, key)
	}

	return out
}

func flashKey(level string) string {
	return "_flash_" + level
}
