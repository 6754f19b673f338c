package core

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers branch on a failure class with errors.Is.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoActor           = errors.New("no authenticated user")
	ErrNoCompany         = errors.New("account is missing company information")
	ErrInvalidLine       = errors.New("invalid line item")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingPriceLevel = errors.New("item has no price for the selected level")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidLogin      = errors.New("invalid email or password")
)

// ValidationError wraps a sentinel with human-readable details.
// Nothing is mutated when an operation returns one.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing invoice, customer, purchase, item, vendor or return.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func notFound(kind string, key any) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: fmt.Sprint(key)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
