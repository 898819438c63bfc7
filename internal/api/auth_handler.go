package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wildtrails/tours-api/internal/api/shared"
	"github.com/wildtrails/tours-api/internal/config"
	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/platform/logger"
	"github.com/wildtrails/tours-api/internal/platform/mailer"
	"github.com/wildtrails/tours-api/internal/service/auth"
	"github.com/wildtrails/tours-api/internal/store"
)

// AuthHandler handles signup, login and the password lifecycle.
type AuthHandler struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	mailer     mailer.Mailer
	authConfig config.AuthConfig
	timeFunc   func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	ml mailer.Mailer,
	authConfig config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		mailer:     ml,
		authConfig: authConfig,
		timeFunc:   time.Now,
	}
}

// Signup handles POST /api/v1/auth/signup.
// Every signup produces a plain user account; role escalation is an
// admin-only operation on a separate route.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Invalid signup details. Name, email and matching passwords are required.")
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}
	user.HashedPassword = hashed

	if err := h.userStore.Create(ctx, user); err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to issue credential", err)
		return
	}

	log.Info("user registered", "user_id", user.ID.Hex())

	h.setAuthCookie(w, token)
	shared.RespondWithToken(w, r, http.StatusCreated, token, UserEnvelope{User: user})
}

// Login handles POST /api/v1/auth/login.
// Missing-user and wrong-password failures share one message and one
// status so the response does not reveal which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please provide email and password")
		return
	}

	email := domain.NormalizeEmail(req.Email)

	user, err := h.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login attempt for unknown email")
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Incorrect email or password")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate", err)
		return
	}

	if err := h.verifier.Compare(user.HashedPassword, req.Password); err != nil {
		log.Debug("login attempt with wrong password", "user_id", user.ID.Hex())
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to issue credential", err)
		return
	}

	log.Info("user logged in", "user_id", user.ID.Hex())

	h.setAuthCookie(w, token)
	shared.RespondWithToken(w, r, http.StatusOK, token, UserEnvelope{User: user})
}

// Logout handles GET /api/v1/auth/logout. Stateless credentials cannot be
// revoked server-side, so logout overwrites the cookie with a short-lived
// placeholder.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  h.timeFunc().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
// On delivery failure the persisted token state is rolled back so that no
// unconsumable token lingers on the account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req ForgotPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	email := domain.NormalizeEmail(req.Email)

	user, err := h.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				"There is no user with that email address.")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to process request", err)
		return
	}

	plaintext, tokenHash, err := auth.NewResetToken()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to process request", err)
		return
	}

	expiresAt := h.timeFunc().Add(auth.ResetTokenTTL)
	if err := h.userStore.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to process request", err)
		return
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/reset-password/%s",
		requestScheme(r), r.Host, plaintext)
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body: fmt.Sprintf(
			"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s\nIf you didn't forget your password, please ignore this email.",
			resetURL),
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		// Best effort rollback: a clear failure leaves a token the user
		// never received, which simply expires.
		if clearErr := h.userStore.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Error("failed to clear reset token after mail failure",
				"user_id", user.ID.Hex(), "error", clearErr)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"There was an error sending the email. Try again later.", err)
		return
	}

	log.Info("password reset token issued", "user_id", user.ID.Hex())
	shared.RespondWithData(w, r, http.StatusOK, map[string]string{
		"message": "Token sent to email",
	})
}

// ResetPassword handles PATCH /api/v1/auth/reset-password/{token}.
// The token is consumed before the new password is examined, so each
// token gets exactly one attempt.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	plaintext := chi.URLParam(r, "token")
	if plaintext == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Token is invalid or has expired")
		return
	}

	var req ResetPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Password must be at least 8 characters and match passwordConfirm")
		return
	}

	// Claiming the token is a single atomic store update; whatever
	// happens next, it cannot be presented again, here or concurrently.
	tokenHash := auth.HashResetToken(plaintext)
	user, err := h.userStore.ConsumeResetToken(ctx, tokenHash, h.timeFunc())
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Token is invalid or has expired")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to reset password", err)
		return
	}

	if err := domain.ValidatePassword(req.Password); err != nil {
		HandleAPIError(w, r, err, "Failed to reset password")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to reset password", err)
		return
	}

	user.StampPasswordChanged(h.timeFunc())
	if err := h.userStore.UpdatePassword(ctx, user.ID, hashed, user.PasswordChangedAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to reset password", err)
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to issue credential", err)
		return
	}

	log.Info("password reset completed", "user_id", user.ID.Hex())

	h.setAuthCookie(w, token)
	shared.RespondWithToken(w, r, http.StatusOK, token, UserEnvelope{User: user})
}

// UpdateMyPassword handles PATCH /api/v1/users/update-my-password.
// Requires the current password before accepting a new one, then reissues
// the credential since the old one dies with the password change.
func (h *AuthHandler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Current password, new password and matching passwordConfirm are required")
		return
	}

	if err := h.verifier.Compare(user.HashedPassword, req.PasswordCurrent); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized,
			"Your current password is wrong.")
		return
	}

	if err := domain.ValidatePassword(req.Password); err != nil {
		HandleAPIError(w, r, err, "Failed to update password")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update password", err)
		return
	}

	user.StampPasswordChanged(h.timeFunc())
	if err := h.userStore.UpdatePassword(ctx, user.ID, hashed, user.PasswordChangedAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update password", err)
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to issue credential", err)
		return
	}

	log.Info("password updated", "user_id", user.ID.Hex())

	h.setAuthCookie(w, token)
	shared.RespondWithToken(w, r, http.StatusOK, token, UserEnvelope{User: user})
}

// setAuthCookie mirrors the issued credential into an http-only cookie
// with the same lifetime as the credential itself.
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  h.timeFunc().Add(h.jwtService.TokenLifetime()),
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestScheme reports the scheme the client used, honoring proxies that
// set X-Forwarded-Proto.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
