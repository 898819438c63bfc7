package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUnauthenticated is returned when a request carries no valid credential.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when an authenticated identity lacks the
	// role required for an operation.
	ErrForbidden = errors.New("operation not permitted")
)

// User validation errors.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
)

// Tour validation errors.
var (
	ErrEmptyTourName     = errors.New("tour name cannot be empty")
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or difficult")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidDiscount   = errors.New("price discount must be below the regular price")
	ErrInvalidRating     = errors.New("ratings average must be between 1 and 5")
	ErrInvalidDuration   = errors.New("duration must be at least one day")
	ErrInvalidGroupSize  = errors.New("max group size must be at least one")
	ErrEmptyTourSummary  = errors.New("tour summary cannot be empty")
	ErrEmptyTourImage    = errors.New("tour cover image cannot be empty")
	ErrNoTourFieldsToSet = errors.New("no tour fields to update")
	ErrNoUserFieldsToSet = errors.New("no user fields to update")
)

// ValidationError carries the offending field alongside the underlying
// sentinel so handlers can build a precise client message while errors.Is
// still matches the sentinel.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
