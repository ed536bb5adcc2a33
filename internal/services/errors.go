package services

import (
	"errors"
	"fmt"

	"github.com/shokulab/backend/internal/verification"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPersistence       = errors.New("persistence failure")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError is returned for bad input before anything is written.
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

// PermissionDeniedError carries the verification check that refused the action.
type PermissionDeniedError struct {
	Check verification.ContractCheck
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied (%s): %s", e.Check.Reason, e.Check.Message)
}

func invalidTransition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
