package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/query"
)

// UserStore defines the interface for user persistence.
//
// Read paths return only active users; deactivated accounts behave as if
// they do not exist. Password material entering this interface is always
// a hash: callers hash plaintext before the store sees it.
type UserStore interface {
	// Create saves a new user. The caller must have hashed the password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an active user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist or is inactive.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// GetByEmail retrieves an active user by their email address.
	// Returns ErrUserNotFound if the user does not exist or is inactive.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ConsumeResetToken atomically claims the reset token: in a single
	// update it matches the given hash with an expiry after now and
	// clears the stored token state, returning the claiming user. Of any
	// number of concurrent presentations of the same token, exactly one
	// succeeds; the rest get ErrUserNotFound.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	// List executes the given query pipeline over active users.
	List(ctx context.Context, features *query.Features) ([]domain.User, error)

	// Update applies a partial profile update and returns the updated
	// user. Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists when changing to a taken email.
	Update(ctx context.Context, id primitive.ObjectID, update *domain.UserUpdate) (*domain.User, error)

	// UpdatePassword replaces the stored password hash and records the
	// change time. Returns ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string, changedAt time.Time) error

	// SetResetToken persists the reset-token hash and its expiry.
	// Returns ErrUserNotFound if the user does not exist.
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expiresAt time.Time) error

	// ClearResetToken removes any persisted reset-token state, rolling
	// back an issued token whose delivery failed. Clearing a user
	// without one is a no-op.
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error

	// Deactivate soft-deletes the account; subsequent reads return
	// ErrUserNotFound. Returns ErrUserNotFound if already gone.
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	// Delete removes a user permanently.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
