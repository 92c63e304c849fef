package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the discriminant of Error.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindAccessDenied
	KindInvalidToken
	KindNotFound
)

var kindNames = map[ErrorKind]string{
	KindInternal:           "internal",
	KindValidation:         "validation",
	KindDuplicateEmail:     "duplicate_email",
	KindInvalidCredentials: "invalid_credentials",
	KindAccessDenied:       "access_denied",
	KindInvalidToken:       "invalid_token",
	KindNotFound:           "not_found",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Violation is a single failed field constraint.
type Violation struct {
	Field   string
	Message string
}

// Error is the failure type returned by services. Kind selects the wire
// response; Err keeps the underlying cause for server-side logs only.
type Error struct {
	Kind       ErrorKind
	Field      string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch {
	case e.Kind == KindDuplicateEmail && e.Field != "":
		b.WriteString(": ")
		b.WriteString(e.Field)
		b.WriteString(" already exists")
	case len(e.Violations) > 0:
		b.WriteString(": ")
		for i, v := range e.Violations {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(v.Field)
			b.WriteString(": ")
			b.WriteString(v.Message)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports every violated field constraint in order.
func NewValidationError(violations []Violation) *Error {
	return &Error{Kind: KindValidation, Violations: violations}
}

// NewDuplicateError reports a uniqueness conflict on field.
func NewDuplicateError(field string, err error) *Error {
	return &Error{Kind: KindDuplicateEmail, Field: field, Err: err}
}

func NewInvalidCredentialsError() *Error {
	return &Error{Kind: KindInvalidCredentials}
}

func NewAccessDeniedError() *Error {
	return &Error{Kind: KindAccessDenied}
}

func NewInvalidTokenError(err error) *Error {
	return &Error{Kind: KindInvalidToken, Err: err}
}

func NewNotFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Err: err}
}

func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for any other error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
