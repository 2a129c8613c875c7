// Package sheets holds the per-session snapshots of the two workbooks. Each
// repository is loaded once through the gateway and then served from memory.
package sheets

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/geocoder89/lentpath/internal/apperr"
	"github.com/geocoder89/lentpath/internal/domain/user"
	gw "github.com/geocoder89/lentpath/internal/sheets"
)

var (
	ErrUserNotFound     = apperr.New(apperr.KindNotFound, "user not found")
	ErrStoreUnavailable = apperr.New(apperr.KindUnavailable, "service unavailable")
)

// UsersRepo is the credential store of one session. Lookups scan the snapshot
// taken at load time, registrations go to the remote table first and only then
// to the snapshot.
type UsersRepo struct {
	mu      sync.RWMutex
	table   gw.Table
	records gw.Records
	users   []user.User

	loadErr   error
	schemaErr error
}

// LoadUsers opens name and reads it once. The repo is always usable: when the
// table cannot be opened or read it reports Available() == false and LoadErr
// holds the reason.
func LoadUsers(ctx context.Context, g gw.Gateway, name string) *UsersRepo {
	r := &UsersRepo{}

	t, err := g.Open(ctx, name)
	if err != nil {
		r.loadErr = err
		return r
	}

	rec, err := t.ReadAll(ctx)
	if err != nil {
		r.loadErr = wrapGateway("read users", err)
		return r
	}

	r.table = t
	r.records = rec

	if rec.HasHeader() {
		if missing := rec.MissingColumns(user.RequiredColumns...); len(missing) > 0 {
			r.schemaErr = missingColumns(name, missing)
		}
	}

	for _, row := range rec.Rows {
		r.users = append(r.users, user.User{
			Email:        row[user.ColEmail],
			PasswordHash: row[user.ColPasswordHash],
			RegisteredOn: row[user.ColRegisteredOn],
		})
	}

	return r
}

func (r *UsersRepo) Available() bool {
	return r.table != nil
}

// LoadErr is the open or read failure, nil when Available.
func (r *UsersRepo) LoadErr() error {
	return r.loadErr
}

// SchemaErr is the ConfigurationError for required columns absent from the
// header. A blank table has no header and no schema error.
func (r *UsersRepo) SchemaErr() error {
	return r.schemaErr
}

func (r *UsersRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}

// FindByEmail returns the first record whose email equals email exactly.
// Callers normalize first.
func (r *UsersRepo) FindByEmail(email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, ErrUserNotFound
}

func (r *UsersRepo) Exists(email string) bool {
	_, err := r.FindByEmail(email)
	return err == nil
}

// Add appends u remotely, then to the snapshot. On a blank sheet the header
// row is written first so that u does not end up as the header.
func (r *UsersRepo) Add(ctx context.Context, u user.User) error {
	if !r.Available() {
		return ErrStoreUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.records.HasHeader() {
		if err := r.table.AppendRow(ctx, user.RequiredColumns); err != nil {
			return wrapGateway("write users header", err)
		}
		r.records.Columns = append([]string(nil), user.RequiredColumns...)
	}

	row := r.records.Layout(user.RequiredColumns, map[string]string{
		user.ColEmail:        u.Email,
		user.ColPasswordHash: u.PasswordHash,
		user.ColRegisteredOn: u.RegisteredOn,
	})

	if err := r.table.AppendRow(ctx, row); err != nil {
		return wrapGateway("append user", err)
	}

	r.users = append(r.users, u)

	return nil
}

func missingColumns(table string, cols []string) error {
	return apperr.Errorf(apperr.KindConfiguration,
		"table %q is missing columns %s", table, strings.Join(cols, ", "))
}

// wrapGateway keeps classified gateway errors as they are and marks anything
// else as unavailable.
func wrapGateway(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return apperr.Wrap(ae.Kind, op, err)
	}

	return apperr.Wrap(apperr.KindUnavailable, op, err)
}
