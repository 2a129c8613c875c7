package auth

import (
	"context"
	"time"

	"github.com/geocoder89/lentpath/internal/apperr"
	"github.com/geocoder89/lentpath/internal/domain/user"
	"github.com/geocoder89/lentpath/internal/security"
)

var (
	ErrServiceUnavailable = apperr.New(apperr.KindUnavailable, "service unavailable")
	ErrMissingFields      = apperr.New(apperr.KindValidation, "email and password are required")
	ErrEmailTaken         = apperr.New(apperr.KindValidation, "already used")
	ErrStoreEmpty         = apperr.New(apperr.KindNotFound, "empty")
	ErrUserNotFound       = apperr.New(apperr.KindAuthentication, "not found")
	ErrWrongPassword      = apperr.New(apperr.KindAuthentication, "wrong password")
)

// CredentialStore is the per-session users snapshot.
// *repo/sheets.UsersRepo implements it.
type CredentialStore interface {
	Available() bool
	SchemaErr() error
	Len() int
	FindByEmail(email string) (user.User, error)
	Exists(email string) bool
	Add(ctx context.Context, u user.User) error
}

type Authenticator struct {
	store CredentialStore
	now   func() time.Time
}

// NewAuthenticator uses now for the registration date; nil means time.Now.
func NewAuthenticator(store CredentialStore, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}

	return &Authenticator{store: store, now: now}
}

// Register creates an account. The email is normalized first. Rejections, in
// order: store unavailable, empty email or password, email already present.
func (a *Authenticator) Register(ctx context.Context, email, password string) error {
	if a.store == nil || !a.store.Available() {
		return ErrServiceUnavailable
	}

	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return ErrMissingFields
	}

	if err := a.store.SchemaErr(); err != nil {
		return err
	}

	if a.store.Exists(email) {
		return ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	return a.store.Add(ctx, user.New(email, hash, a.now()))
}

// Login checks a password against the stored hash. Rejections, in order:
// store unavailable, store empty, required column absent, unknown email,
// wrong password.
func (a *Authenticator) Login(ctx context.Context, email, password string) (user.User, error) {
	if a.store == nil || !a.store.Available() {
		return user.User{}, ErrServiceUnavailable
	}

	if a.store.Len() == 0 {
		return user.User{}, ErrStoreEmpty
	}

	if err := a.store.SchemaErr(); err != nil {
		return user.User{}, err
	}

	u, err := a.store.FindByEmail(user.NormalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}

	if !security.VerifyPassword(password, u.PasswordHash) {
		return user.User{}, ErrWrongPassword
	}

	return u, nil
}
