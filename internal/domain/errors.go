package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Callers test with errors.Is against these sentinels.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrBusinessRule      = errors.New("business rule violation")
	ErrAccessDenied      = errors.New("access denied")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

// Error carries a kind sentinel plus a human-readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// BusinessRulef builds an ErrBusinessRule error.
func BusinessRulef(format string, args ...any) error {
	return newError(ErrBusinessRule, format, args...)
}

// NotFoundf builds an ErrNotFound error.
func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Conflictf builds an ErrConflict error.
func Conflictf(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// AccessDenied never names the resource, so a refusal does not reveal whether it exists.
func AccessDenied() error {
	return &Error{Kind: ErrAccessDenied, Msg: "you do not have permission to modify this resource"}
}

// TransitionError reports a rejected task state change.
type TransitionError struct {
	From TaskState
	To   TaskState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition task from %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every invalid field found in one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
