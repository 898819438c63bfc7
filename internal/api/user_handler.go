package api

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/wildtrails/tours-api/internal/api/shared"
	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/platform/logger"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

// UserHandler handles self-service profile routes and admin user
// management.
type UserHandler struct {
	userStore store.UserStore
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore) *UserHandler {
	return &UserHandler{userStore: userStore}
}

// GetMe handles GET /api/v1/users/me. The authenticated user is already
// resolved by the middleware; no extra store round trip is needed.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, UserEnvelope{User: user})
}

// UpdateMe handles PATCH /api/v1/users/update-me. Password fields in the
// body are rejected outright so clients learn the dedicated route instead
// of silently losing the change.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Password != nil || req.PasswordConfirm != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"This route is not for password updates. Please use /update-my-password.")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid profile details")
		return
	}

	update := domain.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	}
	if err := update.Validate(); err != nil {
		HandleAPIError(w, r, err, "Invalid profile update")
		return
	}

	updated, err := h.userStore.Update(ctx, user.ID, &update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	log.Info("profile updated", "user_id", user.ID.Hex())
	shared.RespondWithData(w, r, http.StatusOK, UserEnvelope{User: updated})
}

// DeleteMe handles DELETE /api/v1/users/delete-me. The account is
// deactivated, not removed; it vanishes from all read paths.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.userStore.Deactivate(ctx, user.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to deactivate account")
		return
	}

	log.Info("account deactivated", "user_id", user.ID.Hex())
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/users (admin only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	features := query.New(bson.M{}, r.URL.Query()).Apply()

	users, err := h.userStore.List(ctx, features)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch users")
		return
	}

	shared.RespondWithResults(w, r, http.StatusOK, len(users), UsersEnvelope{Users: users})
}

// Get handles GET /api/v1/users/{id} (admin only).
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid user ID")
		return
	}

	user, err := h.userStore.GetByID(ctx, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch user")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, UserEnvelope{User: user})
}

// Update handles PATCH /api/v1/users/{id} (admin only). Unlike UpdateMe
// this path may change roles, but never passwords.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid user ID")
		return
	}

	var update domain.UserUpdate
	if err := shared.DecodeJSON(r, &update); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := update.Validate(); err != nil {
		HandleAPIError(w, r, err, "Invalid user update")
		return
	}

	user, err := h.userStore.Update(ctx, id, &update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	log.Info("user updated by admin", "user_id", id.Hex())
	shared.RespondWithData(w, r, http.StatusOK, UserEnvelope{User: user})
}

// Delete handles DELETE /api/v1/users/{id} (admin only). This is the hard
// delete; self-service deletion only deactivates.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid user ID")
		return
	}

	if err := h.userStore.Delete(ctx, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	log.Info("user deleted by admin", "user_id", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}
