package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTService defines operations for managing JWT authentication credentials.
type JWTService interface {
	// GenerateToken creates a signed JWT credential embedding the user's ID.
	// The construction is a pure function of (user ID, secret, expiry policy);
	// cookie side effects live in the HTTP layer.
	GenerateToken(ctx context.Context, userID primitive.ObjectID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken on expiry and ErrInvalidToken on a bad
	// signature or malformed token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports how long issued credentials stay valid, so the
	// HTTP layer can align cookie expiry with the credential.
	TokenLifetime() time.Duration
}

// Claims represents the verified contents of a credential.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID primitive.ObjectID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
