package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/mocks"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

func newTestTour(t *testing.T, name string) *domain.Tour {
	t.Helper()
	tour, err := domain.NewTour(domain.Tour{
		Name:         name,
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   domain.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	})
	require.NoError(t, err)
	return tour
}

// idRequest binds an id path parameter as chi would.
func idRequest(method, path, id, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTourHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("returns envelope with results count", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tourStore.Add(newTestTour(t, "The Forest Hiker"))
		tourStore.Add(newTestTour(t, "The Sea Explorer"))
		handler := NewTourHandler(tourStore)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeSuccess(t, rr)
		require.NotNil(t, resp.Results)
		assert.Equal(t, 2, *resp.Results)
	})

	t.Run("query string drives the pipeline", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		handler := NewTourHandler(tourStore)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/tours?difficulty=easy&price[lte]=500&sort=price&fields=name,price&page=2&limit=10", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		features := tourStore.LastFeatures
		require.NotNil(t, features)

		filter := features.Query()
		assert.Equal(t, "easy", filter["difficulty"])
		priceFilter, ok := filter["price"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, int64(500), priceFilter["$lte"])

		opts := features.FindOptions()
		require.NotNil(t, opts.Skip)
		assert.Equal(t, int64(10), *opts.Skip)
		require.NotNil(t, opts.Limit)
		assert.Equal(t, int64(10), *opts.Limit)
	})

	t.Run("store failure maps to error envelope", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tourStore.ListFn = func(ctx context.Context, features *query.Features) ([]domain.Tour, error) {
			return nil, errors.New("connection reset")
		}
		handler := NewTourHandler(tourStore)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "error", resp.Status)
		assert.NotContains(t, resp.Message, "connection reset", "internal details must not leak")
	})
}

func TestTourHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns the tour", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tour := newTestTour(t, "The Forest Hiker")
		tourStore.Add(tour)
		handler := NewTourHandler(tourStore)

		rr := httptest.NewRecorder()
		handler.Get(rr, idRequest(http.MethodGet, "/api/v1/tours/"+tour.ID.Hex(), tour.ID.Hex(), ""))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "the-forest-hiker")
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		t.Parallel()
		handler := NewTourHandler(mocks.NewMockTourStore())

		rr := httptest.NewRecorder()
		handler.Get(rr, idRequest(http.MethodGet, "/api/v1/tours/not-an-id", "not-an-id", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()
		handler := NewTourHandler(mocks.NewMockTourStore())
		id := primitive.NewObjectID()

		rr := httptest.NewRecorder()
		handler.Get(rr, idRequest(http.MethodGet, "/api/v1/tours/"+id.Hex(), id.Hex(), ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Tour not found", decodeError(t, rr).Message)
	})
}

func TestTourHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates tour with derived slug and defaults", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		handler := NewTourHandler(tourStore)

		body := `{"name":"The Forest Hiker","duration":5,"maxGroupSize":25,"difficulty":"easy","price":397,"summary":"Forests and lakes","imageCover":"cover.jpg"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"slug":"the-forest-hiker"`)
		assert.Contains(t, rr.Body.String(), `"ratingsAverage":4.5`)
	})

	t.Run("rejects invalid difficulty", func(t *testing.T) {
		t.Parallel()
		handler := NewTourHandler(mocks.NewMockTourStore())

		body := `{"name":"The Forest Hiker","duration":5,"maxGroupSize":25,"difficulty":"impossible","price":397,"summary":"Forests","imageCover":"cover.jpg"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate name is a bad request", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tourStore.CreateFn = func(ctx context.Context, tour *domain.Tour) error {
			return store.ErrTourNameExists
		}
		handler := NewTourHandler(tourStore)

		body := `{"name":"The Forest Hiker","duration":5,"maxGroupSize":25,"difficulty":"easy","price":397,"summary":"Forests","imageCover":"cover.jpg"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "A tour with this name already exists", decodeError(t, rr).Message)
	})
}

func TestTourHandler_Update(t *testing.T) {
	t.Parallel()

	t.Run("applies partial update", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tour := newTestTour(t, "The Forest Hiker")
		tourStore.Add(tour)
		handler := NewTourHandler(tourStore)

		rr := httptest.NewRecorder()
		handler.Update(rr, idRequest(http.MethodPatch, "/api/v1/tours/"+tour.ID.Hex(), tour.ID.Hex(),
			`{"price":497}`))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"price":497`)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tour := newTestTour(t, "The Forest Hiker")
		tourStore.Add(tour)
		handler := NewTourHandler(tourStore)

		rr := httptest.NewRecorder()
		handler.Update(rr, idRequest(http.MethodPatch, "/api/v1/tours/"+tour.ID.Hex(), tour.ID.Hex(), `{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTourHandler_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deletes and returns no content", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tour := newTestTour(t, "The Forest Hiker")
		tourStore.Add(tour)
		handler := NewTourHandler(tourStore)

		rr := httptest.NewRecorder()
		handler.Delete(rr, idRequest(http.MethodDelete, "/api/v1/tours/"+tour.ID.Hex(), tour.ID.Hex(), ""))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()
		handler := NewTourHandler(mocks.NewMockTourStore())
		id := primitive.NewObjectID()

		rr := httptest.NewRecorder()
		handler.Delete(rr, idRequest(http.MethodDelete, "/api/v1/tours/"+id.Hex(), id.Hex(), ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAliasTopTours(t *testing.T) {
	t.Parallel()

	t.Run("presets the query string", func(t *testing.T) {
		t.Parallel()
		var seen *http.Request
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/top-5-cheap", nil)
		AliasTopTours(inner).ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, seen)
		q := seen.URL.Query()
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "-ratingsAverage,price", q.Get("sort"))
		assert.Equal(t, "name,price,ratingsAverage,summary,difficulty", q.Get("fields"))
	})

	t.Run("overrides client-supplied preset keys", func(t *testing.T) {
		t.Parallel()
		var seen *http.Request
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/top-5-cheap?limit=9999&difficulty=easy", nil)
		AliasTopTours(inner).ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, seen)
		q := seen.URL.Query()
		assert.Equal(t, "5", q.Get("limit"), "client cannot widen the alias")
		assert.Equal(t, "easy", q.Get("difficulty"), "non-preset keys survive")
	})
}

func TestTourHandler_Reports(t *testing.T) {
	t.Parallel()

	t.Run("stats", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		tourStore.StatsFn = func(ctx context.Context) ([]domain.TourStats, error) {
			return []domain.TourStats{
				{Difficulty: domain.DifficultyEasy, NumTours: 3, AvgPrice: 400},
			}, nil
		}
		handler := NewTourHandler(tourStore)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/stats", nil)
		rr := httptest.NewRecorder()

		handler.Stats(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"numTours":3`)
	})

	t.Run("monthly plan passes the year through", func(t *testing.T) {
		t.Parallel()
		tourStore := mocks.NewMockTourStore()
		var gotYear int
		tourStore.MonthlyPlanFn = func(ctx context.Context, year int) ([]domain.MonthlyPlanEntry, error) {
			gotYear = year
			return []domain.MonthlyPlanEntry{{Month: 7, NumTourStarts: 2, Tours: []string{"The Forest Hiker"}}}, nil
		}
		handler := NewTourHandler(tourStore)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/monthly-plan/2021", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("year", "2021")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()

		handler.MonthlyPlan(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2021, gotYear)
	})

	t.Run("non-numeric year is a bad request", func(t *testing.T) {
		t.Parallel()
		handler := NewTourHandler(mocks.NewMockTourStore())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tours/monthly-plan/later", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("year", "later")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()

		handler.MonthlyPlan(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
