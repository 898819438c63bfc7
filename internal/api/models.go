package api

import "github.com/wildtrails/tours-api/internal/domain"

// Common request/response structures

// SignupRequest defines the payload for the user signup endpoint.
type SignupRequest struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// ForgotPasswordRequest defines the payload for the forgot-password endpoint.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for the reset-password endpoint.
// The reset token itself travels in the URL path.
type ResetPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest defines the payload for the logged-in password
// change endpoint.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdateMeRequest defines the payload for self-service profile updates.
// Role is deliberately absent: self-service updates can never escalate.
type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"  validate:"omitempty,email"`
	Photo *string `json:"photo,omitempty"`

	// Password fields are rejected, not ignored, to keep clients off
	// this route for credential changes.
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`
}

// UserEnvelope wraps a user for the data section of the response envelope.
type UserEnvelope struct {
	User *domain.User `json:"user"`
}

// TourEnvelope wraps a tour for the data section of the response envelope.
type TourEnvelope struct {
	Tour *domain.Tour `json:"tour"`
}

// ToursEnvelope wraps a tour list for the data section of the response envelope.
type ToursEnvelope struct {
	Tours []domain.Tour `json:"tours"`
}

// UsersEnvelope wraps a user list for the data section of the response envelope.
type UsersEnvelope struct {
	Users []domain.User `json:"users"`
}

// StatsEnvelope wraps the by-difficulty report.
type StatsEnvelope struct {
	Stats []domain.TourStats `json:"stats"`
}

// PlanEnvelope wraps the monthly starting-tours report.
type PlanEnvelope struct {
	Plan []domain.MonthlyPlanEntry `json:"plan"`
}
