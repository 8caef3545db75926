// Package errs defines the error taxonomy shared by flows and the
// dispatcher. Errors that carry a user-safe message are rendered to the
// chat verbatim; everything else is masked behind a generic notice.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// StaleFlow reports that a continuation step was invoked while the
// required data-bag fields are missing, which means the user replied to
// an expired prompt (old inline button, restarted flow, process restart).
type StaleFlow struct {
	Missing []string
}

func (e *StaleFlow) Error() string {
	return "⚠️ This message is out of date"
}

// NewStaleFlow records which fields were absent for diagnostics.
func NewStaleFlow(missing ...string) *StaleFlow {
	return &StaleFlow{Missing: missing}
}

// ValidationError reports malformed user input. The flow is not advanced
// so the user can retry from the menu.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Reason)
}

// NewValidation builds a ValidationError with a formatted reason.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UserError is a business-rule rejection with a specific user-facing
// message, e.g. "no costs found for deletion".
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// NewUser builds a UserError with a formatted message.
func NewUser(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// AccessForbidden is returned when the sender is not on the allow list.
type AccessForbidden struct{}

func (e *AccessForbidden) Error() string { return "🔐 Access denied" }

// NotFound reports that a requested record does not exist or that an
// ordered-by-date lookup ran against an empty table.
type NotFound struct {
	What string
}

func (e *NotFound) Error() string {
	if e.What == "" {
		return "not found"
	}
	return fmt.Sprintf("not found: %s", e.What)
}

// NewNotFound names the missing record.
func NewNotFound(what string) *NotFound {
	return &NotFound{What: what}
}

// DatabaseError wraps a persistence failure. It triggers rollback and
// best-effort UI cleanup; the user only ever sees a generic notice.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return "database error"
	}
	return fmt.Sprintf("database error: %v", e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// WrapDB wraps err into a DatabaseError unless it already is one or it
// belongs to the user-safe taxonomy (NotFound stays NotFound).
func WrapDB(err error) error {
	if err == nil {
		return nil
	}
	var dbe *DatabaseError
	if errors.As(err, &dbe) {
		return err
	}
	var nf *NotFound
	if errors.As(err, &nf) {
		return err
	}
	return &DatabaseError{Err: err}
}

// UserMessage extracts the user-safe message for taxonomy errors.
// The second result is false for errors that must be masked.
func UserMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var (
		stale     *StaleFlow
		validate  *ValidationError
		userErr   *UserError
		forbidden *AccessForbidden
	)
	switch {
	case errors.As(err, &stale):
		return stale.Error(), true
	case errors.As(err, &validate):
		return validate.Error(), true
	case errors.As(err, &userErr):
		return userErr.Error(), true
	case errors.As(err, &forbidden):
		return forbidden.Error(), true
	}
	return "", false
}

// Describe renders a compact description for logs: the error chain with
// the taxonomy type first.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	parts := []string{err.Error()}
	var stale *StaleFlow
	if errors.As(err, &stale) && len(stale.Missing) > 0 {
		parts = append(parts, "missing="+strings.Join(stale.Missing, ","))
	}
	return strings.Join(parts, " ")
}
