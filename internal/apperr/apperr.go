// Package apperr classifies failures into the handful of kinds the web layer
// knows how to present to a visitor.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnknown is what KindOf reports for errors that were never classified.
	KindUnknown Kind = iota
	// KindConfiguration: a workbook or a column is missing or misnamed.
	KindConfiguration
	// KindAuthorization: the service account was refused by the remote service.
	KindAuthorization
	// KindNotFound: a workbook or the day's content is absent. Never fatal.
	KindNotFound
	// KindValidation: the visitor's input was rejected, retry allowed.
	KindValidation
	// KindAuthentication: unknown user or wrong password, retry allowed.
	KindAuthentication
	// KindUnavailable: the spreadsheet service cannot be reached at all.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}

	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a classified error. Package level sentinels are built with it so
// that errors.Is keeps working on the pointer.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
