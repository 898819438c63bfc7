package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/mocks"
)

func seedActiveUser(t *testing.T, userStore *mocks.MockUserStore, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", email, "pass1234")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = "$2a$04$notarealhashbutnonempty0000000000000000000000000000"
	userStore.Add(user)
	return user
}

func TestUserHandler_GetMe(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated user", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "jonas@example.com")
		handler := NewUserHandler(userStore)

		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil), user)
		rr := httptest.NewRecorder()

		handler.GetMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "jonas@example.com")
		assert.NotContains(t, rr.Body.String(), user.HashedPassword,
			"password hash must never be serialized")
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		handler := NewUserHandler(mocks.NewMockUserStore())

		rr := httptest.NewRecorder()
		handler.GetMe(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Parallel()

	t.Run("updates profile fields", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "jonas@example.com")
		handler := NewUserHandler(userStore)

		body := `{"name":"Jonas Schmedtmann","photo":"new-photo.jpg"}`
		req := authedRequest(
			httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-me", strings.NewReader(body)), user)
		rr := httptest.NewRecorder()

		handler.UpdateMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Jonas Schmedtmann", user.Name)
		assert.Equal(t, "new-photo.jpg", user.Photo)
	})

	t.Run("rejects password fields instead of ignoring them", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "jonas@example.com")
		handler := NewUserHandler(userStore)

		body := `{"name":"Jonas","password":"newpass123","passwordConfirm":"newpass123"}`
		req := authedRequest(
			httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-me", strings.NewReader(body)), user)
		rr := httptest.NewRecorder()

		handler.UpdateMe(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Message, "update-my-password")
		assert.Equal(t, "Test User", user.Name, "nothing may change on a rejected request")
	})

	t.Run("cannot change role through self-service", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "jonas@example.com")
		handler := NewUserHandler(userStore)

		// The role key is not part of the request model and is dropped
		// on decode.
		body := `{"name":"Jonas","role":"admin"}`
		req := authedRequest(
			httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-me", strings.NewReader(body)), user)
		rr := httptest.NewRecorder()

		handler.UpdateMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "jonas@example.com")
		handler := NewUserHandler(userStore)

		req := authedRequest(
			httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-me", strings.NewReader(`{}`)), user)
		rr := httptest.NewRecorder()

		handler.UpdateMe(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUserHandler_DeleteMe(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user := seedActiveUser(t, userStore, "jonas@example.com")
	handler := NewUserHandler(userStore)

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete-me", nil), user)
	rr := httptest.NewRecorder()

	handler.DeleteMe(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, user.Active, "self-deletion deactivates rather than removes")

	// The account is now invisible to reads.
	_, err := userStore.GetByID(req.Context(), user.ID)
	assert.Error(t, err)
}

func TestUserHandler_AdminRoutes(t *testing.T) {
	t.Parallel()

	t.Run("list returns results count", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		seedActiveUser(t, userStore, "one@example.com")
		seedActiveUser(t, userStore, "two@example.com")
		handler := NewUserHandler(userStore)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeSuccess(t, rr)
		require.NotNil(t, resp.Results)
		assert.Equal(t, 2, *resp.Results)
	})

	t.Run("get unknown user is not found", func(t *testing.T) {
		t.Parallel()
		handler := NewUserHandler(mocks.NewMockUserStore())
		id := primitive.NewObjectID()

		rr := httptest.NewRecorder()
		handler.Get(rr, idRequest(http.MethodGet, "/api/v1/users/"+id.Hex(), id.Hex(), ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin update may change role", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "guide@example.com")
		handler := NewUserHandler(userStore)

		rr := httptest.NewRecorder()
		handler.Update(rr, idRequest(http.MethodPatch, "/api/v1/users/"+user.ID.Hex(), user.ID.Hex(),
			`{"role":"lead-guide"}`))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.RoleLeadGuide, user.Role)
	})

	t.Run("admin update rejects unknown role", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "guide@example.com")
		handler := NewUserHandler(userStore)

		rr := httptest.NewRecorder()
		handler.Update(rr, idRequest(http.MethodPatch, "/api/v1/users/"+user.ID.Hex(), user.ID.Hex(),
			`{"role":"superadmin"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("delete removes the user permanently", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		user := seedActiveUser(t, userStore, "gone@example.com")
		handler := NewUserHandler(userStore)

		rr := httptest.NewRecorder()
		handler.Delete(rr, idRequest(http.MethodDelete, "/api/v1/users/"+user.ID.Hex(), user.ID.Hex(), ""))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, userStore.Users)
	})
}
