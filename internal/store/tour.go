package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/query"
)

// TourStore defines the interface for tour persistence.
//
// Every read path excludes tours flagged secret; implementations enforce
// this with a base filter that client query parameters cannot override.
type TourStore interface {
	// Create saves a new tour.
	// Returns ErrTourNameExists if the name is already taken.
	Create(ctx context.Context, tour *domain.Tour) error

	// GetByID retrieves a tour by its unique ID.
	// Returns ErrTourNotFound if the tour does not exist or is secret.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tour, error)

	// List executes the given query pipeline and returns the matching
	// tours. An out-of-range page yields an empty slice, not an error.
	List(ctx context.Context, features *query.Features) ([]domain.Tour, error)

	// Update applies a partial update and returns the updated tour.
	// Renames re-derive the slug. Returns ErrTourNotFound if the tour
	// does not exist and ErrTourNameExists on a name collision.
	Update(ctx context.Context, id primitive.ObjectID, update *domain.TourUpdate) (*domain.Tour, error)

	// Delete removes a tour permanently.
	// Returns ErrTourNotFound if the tour does not exist.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Stats aggregates tour statistics grouped by difficulty over all
	// well-rated, non-secret tours.
	Stats(ctx context.Context) ([]domain.TourStats, error)

	// MonthlyPlan aggregates how many tours start in each month of the
	// given year, busiest months first.
	MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlanEntry, error)
}
