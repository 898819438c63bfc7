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

const userCollection = "users"

// UserStore implements store.UserStore using MongoDB.
type UserStore struct {
	coll *mongo.Collection
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore backed by the given database.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(userCollection)}
}

// baseFilter hides deactivated accounts from every read path.
func (s *UserStore) baseFilter() bson.M {
	return bson.M{"active": true}
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	_, err := s.coll.InsertOne(ctx, user)
	return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	filter := mergeFilter(bson.M{"_id": id}, s.baseFilter())

	var user domain.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	filter := mergeFilter(bson.M{"email": domain.NormalizeEmail(email)}, s.baseFilter())

	var user domain.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	return &user, nil
}

// ConsumeResetToken implements store.UserStore. Match and clear happen in
// one FindOneAndUpdate, so concurrent presentations of the same token race
// on a single atomic document update and only one can win. The expiry
// check is part of the filter, so an expired token and a nonexistent one
// are indistinguishable.
func (s *UserStore) ConsumeResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*domain.User, error) {
	filter := mergeFilter(bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	}, s.baseFilter())

	update := bson.M{"$unset": bson.M{
		"passwordResetToken":   "",
		"passwordResetExpires": "",
	}}

	var user domain.User
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	return &user, nil
}

// List implements store.UserStore.
func (s *UserStore) List(ctx context.Context, features *query.Features) ([]domain.User, error) {
	filter := mergeFilter(features.Query(), s.baseFilter())

	cursor, err := s.coll.Find(ctx, filter, features.FindOptions())
	if err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	return users, nil
}

// Update implements store.UserStore.
func (s *UserStore) Update(
	ctx context.Context,
	id primitive.ObjectID,
	update *domain.UserUpdate,
) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = domain.NormalizeEmail(*update.Email)
	}
	if update.Photo != nil {
		set["photo"] = *update.Photo
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := mergeFilter(bson.M{"_id": id}, s.baseFilter())

	var updated domain.User
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	return &updated, nil
}

// UpdatePassword implements store.UserStore. Any pending reset token is
// discarded alongside the password change.
func (s *UserStore) UpdatePassword(
	ctx context.Context,
	id primitive.ObjectID,
	hashedPassword string,
	changedAt time.Time,
) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{
				"password":          hashedPassword,
				"passwordChangedAt": changedAt,
				"updatedAt":         time.Now().UTC(),
			},
			"$unset": bson.M{
				"passwordResetToken":   "",
				"passwordResetExpires": "",
			},
		})
	if err != nil {
		return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// SetResetToken implements store.UserStore.
func (s *UserStore) SetResetToken(
	ctx context.Context,
	id primitive.ObjectID,
	tokenHash string,
	expiresAt time.Time,
) error {
	res, err := s.coll.UpdateOne(ctx,
		mergeFilter(bson.M{"_id": id}, s.baseFilter()),
		bson.M{"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expiresAt,
		}})
	if err != nil {
		return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// ClearResetToken implements store.UserStore. Zero matched documents is
// not an error; the rollback must be idempotent.
func (s *UserStore) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		}})
	return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
}

// Deactivate implements store.UserStore.
func (s *UserStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		mergeFilter(bson.M{"_id": id}, s.baseFilter()),
		bson.M{"$set": bson.M{
			"active":    false,
			"updatedAt": time.Now().UTC(),
		}})
	if err != nil {
		return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}
	if res.DeletedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
