package market

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports input that violates a domain rule. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// AuthorizationError means there is no resolved user or the user does not
// own the entity being acted on.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

// ConflictError rejects a write that is valid on its own but clashes with the
// current state of a deal.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// RemoteError wraps a failure of the records store or another collaborator.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomain(err) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// lookupErr maps a failed single-row read to NotFoundError or RemoteError.
func lookupErr(entity, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return remote("load "+entity, err)
}

func isDomain(err error) bool {
	var (
		v *ValidationError
		n *NotFoundError
		a *AuthorizationError
		c *ConflictError
		r *RemoteError
	)
	return errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &a) ||
		errors.As(err, &c) || errors.As(err, &r)
}
