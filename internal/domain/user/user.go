package user

import (
	"strings"
	"time"
)

// Column headers of the Users workbook.
const (
	ColEmail        = "Email"
	ColPasswordHash = "Mot_de_Passe_Haché"
	ColRegisteredOn = "Date_Inscription"
)

// RequiredColumns lists the headers Login cannot work without.
var RequiredColumns = []string{ColEmail, ColPasswordHash, ColRegisteredOn}

const DateLayout = "2006-01-02"

type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose hash in JSON
	RegisteredOn string `json:"registeredOn"`
}

// NormalizeEmail is applied to every address before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// New builds the record appended on registration.
func New(email, passwordHash string, registeredAt time.Time) User {
	return User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		RegisteredOn: registeredAt.Format(DateLayout),
	}
}

// Row is the sheet row, in column order.
func (u User) Row() []string {
	return []string{u.Email, u.PasswordHash, u.RegisteredOn}
}

// DisplayName is the local part of the address, used in greetings.
func (u User) DisplayName() string {
	return DisplayName(u.Email)
}

func DisplayName(email string) string {
	name, _, _ := strings.Cut(email, "@")

	return name
}
