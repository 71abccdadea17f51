// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import "errors"

// Kind is the machine-readable class of a service failure.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindBusinessRule Kind = "BUSINESS_RULE"
	KindInternal     Kind = "INTERNAL"
)

// Error is a typed service failure. Field is set for validation errors.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that are not *Error are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func notFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func conflict(field, message string, err error) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message, Err: err}
}

func businessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message}
}
