package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wildtrails/tours-api/internal/api/shared"
	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/platform/logger"
	"github.com/wildtrails/tours-api/internal/service/auth"
	"github.com/wildtrails/tours-api/internal/store"
)

// bearerScheme is the expected Authorization header prefix.
const bearerScheme = "Bearer"

// AuthMiddleware guards routes behind JWT authentication. It verifies the
// credential, resolves the identity it names, and attaches the user to
// the request context for downstream handlers.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	userStore store.UserStore,
	cookieName string,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
		cookieName: cookieName,
	}
}

// Authenticate validates the bearer credential, resolves its user, and
// rejects requests whose credential predates the user's last password
// change. On success the resolved user rides the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		token, err := m.extractToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"You are not logged in. Please log in to get access.")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// Expired and invalid tokens share the 401 outcome but are
			// logged apart.
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				log.Debug("authentication rejected: token expired")
				shared.RespondWithError(w, r, http.StatusUnauthorized,
					"Your session has expired. Please log in again.")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				log.Debug("authentication rejected: invalid token")
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authentication error", err)
			}
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Deleted or deactivated accounts can still hold
				// syntactically valid tokens.
				log.Debug("authentication rejected: token user no longer exists",
					"user_id", claims.UserID.Hex())
				shared.RespondWithError(w, r, http.StatusUnauthorized,
					"The user belonging to this token no longer exists.")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Authentication error", err)
			return
		}

		if user.HasPasswordChangedSince(claims.IssuedAt) {
			log.Debug("authentication rejected: credential predates password change",
				"user_id", user.ID.Hex())
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Password was changed after this token was issued. Please log in again.")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole restricts a route to the given roles. It has no identity
// resolution of its own and must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r)
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized,
					"You are not logged in. Please log in to get access.")
				return
			}

			if !user.Role.OneOf(roles...) {
				logger.FromContext(r.Context()).Debug("authorization rejected: role not allowed",
					"user_id", user.ID.Hex(),
					"role", string(user.Role))
				shared.RespondWithError(w, r, http.StatusForbidden,
					"You do not have permission to perform this action.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls the credential from the Authorization header or,
// failing that, from the credential cookie the issuance path sets.
func (m *AuthMiddleware) extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", auth.ErrMissingToken
}

// GetUser extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func GetUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
