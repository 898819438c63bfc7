package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/wildtrails/tours-api/internal/api/shared"
	"github.com/wildtrails/tours-api/internal/domain"
	"github.com/wildtrails/tours-api/internal/platform/logger"
	"github.com/wildtrails/tours-api/internal/query"
	"github.com/wildtrails/tours-api/internal/store"
)

// TourHandler handles tour CRUD and the aggregation reports.
type TourHandler struct {
	tourStore store.TourStore
}

// NewTourHandler creates a new TourHandler with the given dependencies.
func NewTourHandler(tourStore store.TourStore) *TourHandler {
	return &TourHandler{tourStore: tourStore}
}

// List handles GET /api/v1/tours. The full query pipeline (filter, sort,
// field limiting, pagination) is driven by the request's query string.
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	features := query.New(bson.M{}, r.URL.Query()).Apply()

	tours, err := h.tourStore.List(ctx, features)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tours")
		return
	}

	shared.RespondWithResults(w, r, http.StatusOK, len(tours), ToursEnvelope{Tours: tours})
}

// Get handles GET /api/v1/tours/{id}.
func (h *TourHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid tour ID")
		return
	}

	tour, err := h.tourStore.GetByID(ctx, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tour")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, TourEnvelope{Tour: tour})
}

// Create handles POST /api/v1/tours.
func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var input domain.Tour
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	tour, err := domain.NewTour(input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tour")
		return
	}

	if err := h.tourStore.Create(ctx, tour); err != nil {
		HandleAPIError(w, r, err, "Failed to create tour")
		return
	}

	log.Info("tour created", "tour_id", tour.ID.Hex(), "name", tour.Name)
	shared.RespondWithData(w, r, http.StatusCreated, TourEnvelope{Tour: tour})
}

// Update handles PATCH /api/v1/tours/{id}. Only the fields present in the
// body change; everything else is left as is.
func (h *TourHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid tour ID")
		return
	}

	var update domain.TourUpdate
	if err := shared.DecodeJSON(r, &update); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := update.Validate(); err != nil {
		HandleAPIError(w, r, err, "Invalid tour update")
		return
	}

	tour, err := h.tourStore.Update(ctx, id, &update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tour")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, TourEnvelope{Tour: tour})
}

// Delete handles DELETE /api/v1/tours/{id}.
func (h *TourHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id, err := getPathObjectID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid tour ID")
		return
	}

	if err := h.tourStore.Delete(ctx, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tour")
		return
	}

	log.Info("tour deleted", "tour_id", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

// AliasTopTours presets the query string for the top-5 cheap-and-good
// alias route before the regular List handler runs. Client-supplied
// values for the preset keys are overridden, not merged.
func AliasTopTours(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		r.URL.RawQuery = q.Encode()
		next.ServeHTTP(w, r)
	})
}

// Stats handles GET /api/v1/tours/stats.
func (h *TourHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.tourStore.Stats(ctx)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute tour statistics")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, StatsEnvelope{Stats: stats})
}

// MonthlyPlan handles GET /api/v1/tours/monthly-plan/{year}.
func (h *TourHandler) MonthlyPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid year")
		return
	}

	plan, err := h.tourStore.MonthlyPlan(ctx, year)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute monthly plan")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, PlanEnvelope{Plan: plan})
}
