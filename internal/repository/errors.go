package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrDuplicate matches every *ConflictError
var ErrDuplicate = errors.New("record already exists")

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = pq.ErrorCode("23505")

// ConflictError reports a violated uniqueness constraint. Message keeps the
// driver's diagnostic text, which names the offending constraint.
type ConflictError struct {
	Constraint string
	Detail     string
	Message    string
}

func (e *ConflictError) Error() string {
	msg := e.Message
	if e.Constraint != "" {
		msg = fmt.Sprintf("%s (constraint %s)", msg, e.Constraint)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrDuplicate) match
func (e *ConflictError) Unwrap() error {
	return ErrDuplicate
}

// classify converts a unique violation into a *ConflictError and wraps
// anything else with op.
func classify(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &ConflictError{
			Constraint: pqErr.Constraint,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
