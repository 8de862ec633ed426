// Package apperr defines the error kinds handlers translate into HTTP
// statuses and localized messages.
package apperr

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUpload       = errors.New("upload failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("temporarily unavailable")
)

// Error pairs an error kind with an i18n message ID.
type Error struct {
	Kind      error
	MessageID string
	Data      map[string]interface{}
	Err       error
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.MessageID
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Is matches any *Error with the same kind and message ID, so copies made
// by With still satisfy errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.MessageID == e.MessageID
}

// With returns a copy carrying template data for the localized message.
func (e *Error) With(key string, value interface{}) *Error {
	data := make(map[string]interface{}, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data[key] = value
	return &Error{Kind: e.Kind, MessageID: e.MessageID, Data: data, Err: e.Err}
}

func Validation(messageID string) *Error {
	return &Error{Kind: ErrValidation, MessageID: messageID}
}

func NotFound(messageID string) *Error {
	return &Error{Kind: ErrNotFound, MessageID: messageID}
}

func Conflict(messageID string) *Error {
	return &Error{Kind: ErrConflict, MessageID: messageID}
}

func Unavailable(messageID string) *Error {
	return &Error{Kind: ErrUnavailable, MessageID: messageID}
}

func Upload(err error) *Error {
	return &Error{Kind: ErrUpload, MessageID: "upload.failed", Err: err}
}

// Common errors shared by several modules.
var (
	ErrVersionConflict = Conflict("common.version_conflict")
	ErrDuplicate       = Conflict("common.duplicate")
	ErrInUse           = Conflict("common.in_use")
	ErrInvalidBody     = Validation("validation.invalid_body")
	ErrInvalidID       = Validation("validation.invalid_id")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqInvalidText         = "22P02"
)

// FromPostgres maps constraint violations to application errors and
// returns any other error unchanged.
func FromPostgres(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return &Error{Kind: ErrConflict, MessageID: "common.duplicate", Err: err,
			Data: map[string]interface{}{"Constraint": pqErr.Constraint}}
	case pqForeignKeyViolation:
		return &Error{Kind: ErrConflict, MessageID: "common.in_use", Err: err,
			Data: map[string]interface{}{"Constraint": pqErr.Constraint}}
	case pqCheckViolation:
		return &Error{Kind: ErrValidation, MessageID: "common.constraint", Err: err,
			Data: map[string]interface{}{"Constraint": pqErr.Constraint}}
	case pqInvalidText:
		return &Error{Kind: ErrValidation, MessageID: "validation.invalid_id", Err: err}
	}
	return err
}
