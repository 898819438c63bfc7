package mocks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

// MockTourStore implements store.TourStore for testing
type MockTourStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, tour *domain.Tour) error
	GetByIDFn     func(ctx context.Context, id primitive.ObjectID) (*domain.Tour, error)
	ListFn        func(ctx context.Context, features *query.Features) ([]domain.Tour, error)
	UpdateFn      func(ctx context.Context, id primitive.ObjectID, update *domain.TourUpdate) (*domain.Tour, error)
	DeleteFn      func(ctx context.Context, id primitive.ObjectID) error
	StatsFn       func(ctx context.Context) ([]domain.TourStats, error)
	MonthlyPlanFn func(ctx context.Context, year int) ([]domain.MonthlyPlanEntry, error)

	// Data for the default in-memory implementation, keyed by ID hex.
	Tours map[string]*domain.Tour

	// LastFeatures records the pipeline handed to List for assertions.
	LastFeatures *query.Features
}

// Ensure MockTourStore implements store.TourStore
var _ store.TourStore = (*MockTourStore)(nil)

// NewMockTourStore creates a new mock store with initialized defaults
func NewMockTourStore() *MockTourStore {
	return &MockTourStore{
		Tours: make(map[string]*domain.Tour),
	}
}

// Add seeds a tour into the default in-memory map.
func (m *MockTourStore) Add(tour *domain.Tour) {
	m.Tours[tour.ID.Hex()] = tour
}

// Create implements the TourStore interface
func (m *MockTourStore) Create(ctx context.Context, tour *domain.Tour) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tour)
	}

	for _, existing := range m.Tours {
		if existing.Name == tour.Name {
			return store.ErrTourNameExists
		}
	}
	m.Tours[tour.ID.Hex()] = tour
	return nil
}

// GetByID implements the TourStore interface
func (m *MockTourStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tour, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if tour, exists := m.Tours[id.Hex()]; exists && !tour.SecretTour {
		return tour, nil
	}
	return nil, store.ErrTourNotFound
}

// List implements the TourStore interface
func (m *MockTourStore) List(
	ctx context.Context,
	features *query.Features,
) ([]domain.Tour, error) {
	m.LastFeatures = features
	if m.ListFn != nil {
		return m.ListFn(ctx, features)
	}

	tours := make([]domain.Tour, 0, len(m.Tours))
	for _, tour := range m.Tours {
		if !tour.SecretTour {
			tours = append(tours, *tour)
		}
	}
	return tours, nil
}

// Update implements the TourStore interface
func (m *MockTourStore) Update(
	ctx context.Context,
	id primitive.ObjectID,
	update *domain.TourUpdate,
) (*domain.Tour, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	tour, exists := m.Tours[id.Hex()]
	if !exists {
		return nil, store.ErrTourNotFound
	}
	if update.Name != nil {
		tour.Name = *update.Name
		tour.Slug = domain.Slugify(*update.Name)
	}
	if update.Price != nil {
		tour.Price = *update.Price
	}
	if update.Difficulty != nil {
		tour.Difficulty = *update.Difficulty
	}
	return tour, nil
}

// Delete implements the TourStore interface
func (m *MockTourStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Tours[id.Hex()]; !exists {
		return store.ErrTourNotFound
	}
	delete(m.Tours, id.Hex())
	return nil
}

// Stats implements the TourStore interface
func (m *MockTourStore) Stats(ctx context.Context) ([]domain.TourStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return nil, nil
}

// MonthlyPlan implements the TourStore interface
func (m *MockTourStore) MonthlyPlan(
	ctx context.Context,
	year int,
) ([]domain.MonthlyPlanEntry, error) {
	if m.MonthlyPlanFn != nil {
		return m.MonthlyPlanFn(ctx, year)
	}
	return nil, nil
}
