package mocks

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, user *domain.User) error
	GetByIDFn           func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	ConsumeResetTokenFn func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	ListFn              func(ctx context.Context, features *query.Features) ([]domain.User, error)
	UpdateFn            func(ctx context.Context, id primitive.ObjectID, update *domain.UserUpdate) (*domain.User, error)
	UpdatePasswordFn    func(ctx context.Context, id primitive.ObjectID, hashedPassword string, changedAt time.Time) error
	SetResetTokenFn     func(ctx context.Context, id primitive.ObjectID, tokenHash string, expiresAt time.Time) error
	ClearResetTokenFn   func(ctx context.Context, id primitive.ObjectID) error
	DeactivateFn        func(ctx context.Context, id primitive.ObjectID) error
	DeleteFn            func(ctx context.Context, id primitive.ObjectID) error

	// Data for the default in-memory implementation, keyed by email.
	Users map[string]*domain.User

	// mu serializes token consumption so the default implementation has
	// the same exactly-once semantics as the real store.
	mu sync.Mutex
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Add seeds a user into the default in-memory map.
func (m *MockUserStore) Add(user *domain.User) {
	m.Users[user.Email] = user
}

func (m *MockUserStore) byID(id primitive.ObjectID) *domain.User {
	for _, u := range m.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if user := m.byID(id); user != nil && user.Active {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if user, exists := m.Users[email]; exists && user.Active {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

// ConsumeResetToken implements the UserStore interface. The default
// claims the token under a lock: match and clear are one step, so only
// one of any concurrent callers can succeed.
func (m *MockUserStore) ConsumeResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*domain.User, error) {
	if m.ConsumeResetTokenFn != nil {
		return m.ConsumeResetTokenFn(ctx, tokenHash, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.Active && user.PasswordResetToken == tokenHash && user.PasswordResetExpires.After(now) {
			user.PasswordResetToken = ""
			user.PasswordResetExpires = time.Time{}
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements the UserStore interface
func (m *MockUserStore) List(
	ctx context.Context,
	features *query.Features,
) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, features)
	}

	users := make([]domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		if user.Active {
			users = append(users, *user)
		}
	}
	return users, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(
	ctx context.Context,
	id primitive.ObjectID,
	update *domain.UserUpdate,
) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	user := m.byID(id)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = domain.NormalizeEmail(*update.Email)
	}
	if update.Photo != nil {
		user.Photo = *update.Photo
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	return user, nil
}

// UpdatePassword implements the UserStore interface
func (m *MockUserStore) UpdatePassword(
	ctx context.Context,
	id primitive.ObjectID,
	hashedPassword string,
	changedAt time.Time,
) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, hashedPassword, changedAt)
	}

	user := m.byID(id)
	if user == nil {
		return store.ErrUserNotFound
	}
	user.HashedPassword = hashedPassword
	user.PasswordChangedAt = changedAt
	return nil
}

// SetResetToken implements the UserStore interface
func (m *MockUserStore) SetResetToken(
	ctx context.Context,
	id primitive.ObjectID,
	tokenHash string,
	expiresAt time.Time,
) error {
	if m.SetResetTokenFn != nil {
		return m.SetResetTokenFn(ctx, id, tokenHash, expiresAt)
	}

	user := m.byID(id)
	if user == nil {
		return store.ErrUserNotFound
	}
	user.PasswordResetToken = tokenHash
	user.PasswordResetExpires = expiresAt
	return nil
}

// ClearResetToken implements the UserStore interface
func (m *MockUserStore) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	if m.ClearResetTokenFn != nil {
		return m.ClearResetTokenFn(ctx, id)
	}

	if user := m.byID(id); user != nil {
		user.PasswordResetToken = ""
		user.PasswordResetExpires = time.Time{}
	}
	return nil
}

// Deactivate implements the UserStore interface
func (m *MockUserStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, id)
	}

	user := m.byID(id)
	if user == nil || !user.Active {
		return store.ErrUserNotFound
	}
	user.Active = false
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	user := m.byID(id)
	if user == nil {
		return store.ErrUserNotFound
	}
	delete(m.Users, user.Email)
	return nil
}
