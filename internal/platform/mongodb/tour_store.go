package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

const tourCollection = "tours"

// statsMinRating keeps unrated and poorly rated tours out of the
// by-difficulty report.
const statsMinRating = 4.5

// TourStore implements store.TourStore using MongoDB.
type TourStore struct {
	coll *mongo.Collection
}

// Ensure TourStore implements store.TourStore
var _ store.TourStore = (*TourStore)(nil)

// NewTourStore creates a TourStore backed by the given database.
func NewTourStore(db *mongo.Database) *TourStore {
	return &TourStore{coll: db.Collection(tourCollection)}
}

// baseFilter hides secret tours from every read path. $ne true also
// matches documents missing the flag.
func (s *TourStore) baseFilter() bson.M {
	return bson.M{"secretTour": bson.M{"$ne": true}}
}

// Create implements store.TourStore.
func (s *TourStore) Create(ctx context.Context, tour *domain.Tour) error {
	_, err := s.coll.InsertOne(ctx, tour)
	return mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
}

// GetByID implements store.TourStore.
func (s *TourStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tour, error) {
	filter := mergeFilter(bson.M{"_id": id}, s.baseFilter())

	var tour domain.Tour
	if err := s.coll.FindOne(ctx, filter).Decode(&tour); err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	return &tour, nil
}

// List implements store.TourStore. The visibility base filter is merged
// over the client-derived filter last, so it cannot be overridden.
func (s *TourStore) List(ctx context.Context, features *query.Features) ([]domain.Tour, error) {
	filter := mergeFilter(features.Query(), s.baseFilter())

	cursor, err := s.coll.Find(ctx, filter, features.FindOptions())
	if err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	defer cursor.Close(ctx)

	tours := make([]domain.Tour, 0)
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	return tours, nil
}

// Update implements store.TourStore. The update is validated against the
// resulting document, so cross-field rules (discount below price) hold
// even when only one side changes.
func (s *TourStore) Update(
	ctx context.Context,
	id primitive.ObjectID,
	update *domain.TourUpdate,
) (*domain.Tour, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := tourUpdateDoc(update)
	if err := validateTourUpdate(current, update); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := mergeFilter(bson.M{"_id": id}, s.baseFilter())

	var updated domain.Tour
	err = s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	return &updated, nil
}

// Delete implements store.TourStore.
func (s *TourStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	if res.DeletedCount == 0 {
		return store.ErrTourNotFound
	}
	return nil
}

// Stats implements store.TourStore using an aggregation over well-rated,
// non-secret tours grouped by difficulty.
func (s *TourStore) Stats(ctx context.Context) ([]domain.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: mergeFilter(
			bson.M{"ratingsAverage": bson.M{"$gte": statsMinRating}},
			s.baseFilter(),
		)}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$difficulty",
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	defer cursor.Close(ctx)

	stats := make([]domain.TourStats, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	return stats, nil
}

// MonthlyPlan implements store.TourStore. Tours are unwound by start date
// and bucketed by calendar month of the given year, busiest months first.
func (s *TourStore) MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: s.baseFilter()}},
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	defer cursor.Close(ctx)

	plan := make([]domain.MonthlyPlanEntry, 0)
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, mapError(err, store.ErrTourNotFound, store.ErrTourNameExists)
	}
	return plan, nil
}

// tourUpdateDoc builds the $set document for the fields present in the
// update. Renames re-derive the slug.
func tourUpdateDoc(update *domain.TourUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
		set["slug"] = domain.Slugify(*update.Name)
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}
	if update.MaxGroupSize != nil {
		set["maxGroupSize"] = *update.MaxGroupSize
	}
	if update.Difficulty != nil {
		set["difficulty"] = *update.Difficulty
	}
	if update.RatingsAverage != nil {
		set["ratingsAverage"] = *update.RatingsAverage
	}
	if update.RatingsQuantity != nil {
		set["ratingsQuantity"] = *update.RatingsQuantity
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.PriceDiscount != nil {
		set["priceDiscount"] = *update.PriceDiscount
	}
	if update.Summary != nil {
		set["summary"] = *update.Summary
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.ImageCover != nil {
		set["imageCover"] = *update.ImageCover
	}
	if update.Images != nil {
		set["images"] = update.Images
	}
	if update.StartDates != nil {
		set["startDates"] = update.StartDates
	}
	if update.SecretTour != nil {
		set["secretTour"] = *update.SecretTour
	}
	return set
}

// validateTourUpdate enforces the discount-below-price rule against the
// values the document will hold after the update.
func validateTourUpdate(current *domain.Tour, update *domain.TourUpdate) error {
	price := current.Price
	if update.Price != nil {
		price = *update.Price
	}
	discount := current.PriceDiscount
	if update.PriceDiscount != nil {
		discount = *update.PriceDiscount
	}

	if discount != 0 && discount >= price {
		return domain.ErrInvalidDiscount
	}
	return nil
}
