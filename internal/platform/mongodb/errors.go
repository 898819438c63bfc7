package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mapError converts driver errors into the store package's sentinel
// errors. The notFound and duplicate sentinels are per-collection so
// handlers can produce entity-specific messages without inspecting
// driver internals.
func mapError(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound
	case mongo.IsDuplicateKeyError(err):
		return duplicate
	default:
		return fmt.Errorf("mongodb operation failed: %w", err)
	}
}

// mergeFilter lays the base filter over the client-derived filter. Base
// keys always win.
func mergeFilter(clientFilter, base bson.M) bson.M {
	merged := make(bson.M, len(clientFilter)+len(base))
	for k, v := range clientFilter {
		merged[k] = v
	}
	for k, v := range base {
		merged[k] = v
	}
	return merged
}
