package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty is the closed set of tour difficulty ratings.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Valid reports whether the difficulty is a member of the known set.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		return true
	default:
		return false
	}
}

// Tour represents a bookable tour. The slug is derived from the name and
// kept in sync by the constructor and update path. Tours flagged secret
// are hidden from every read path, including aggregations.
type Tour struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"           json:"id"`
	Name            string             `bson:"name"                    json:"name"`
	Slug            string             `bson:"slug"                    json:"slug"`
	Duration        int                `bson:"duration"                json:"duration"`
	MaxGroupSize    int                `bson:"maxGroupSize"            json:"maxGroupSize"`
	Difficulty      Difficulty         `bson:"difficulty"              json:"difficulty"`
	RatingsAverage  float64            `bson:"ratingsAverage"          json:"ratingsAverage"`
	RatingsQuantity int                `bson:"ratingsQuantity"         json:"ratingsQuantity"`
	Price           float64            `bson:"price"                   json:"price"`
	PriceDiscount   float64            `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string             `bson:"summary"                 json:"summary"`
	Description     string             `bson:"description,omitempty"   json:"description,omitempty"`
	ImageCover      string             `bson:"imageCover"              json:"imageCover"`
	Images          []string           `bson:"images,omitempty"        json:"images,omitempty"`
	StartDates      []time.Time        `bson:"startDates,omitempty"    json:"startDates,omitempty"`
	SecretTour      bool               `bson:"secretTour"              json:"secretTour"`
	CreatedAt       time.Time          `bson:"createdAt"               json:"createdAt"`
}

// defaultRatingsAverage applies to tours that have not been rated yet.
const defaultRatingsAverage = 4.5

// NewTour finalizes a decoded tour: assigns an ID and creation time,
// derives the slug from the name, applies defaults, and validates.
func NewTour(t Tour) (*Tour, error) {
	t.ID = primitive.NewObjectID()
	t.Name = strings.TrimSpace(t.Name)
	t.Slug = Slugify(t.Name)
	t.CreatedAt = time.Now().UTC()

	if t.RatingsAverage == 0 {
		t.RatingsAverage = defaultRatingsAverage
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// Validate checks if the Tour has valid data.
func (t *Tour) Validate() error {
	if t.Name == "" {
		return ErrEmptyTourName
	}
	if t.Duration < 1 {
		return ErrInvalidDuration
	}
	if t.MaxGroupSize < 1 {
		return ErrInvalidGroupSize
	}
	if !t.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if t.RatingsAverage < 1 || t.RatingsAverage > 5 {
		return ErrInvalidRating
	}
	if t.Price <= 0 {
		return ErrInvalidPrice
	}
	if t.PriceDiscount != 0 && t.PriceDiscount >= t.Price {
		return ErrInvalidDiscount
	}
	if t.Summary == "" {
		return ErrEmptyTourSummary
	}
	if t.ImageCover == "" {
		return ErrEmptyTourImage
	}
	return nil
}

// TourUpdate describes a partial update to a tour. Nil fields are left
// untouched. When Name is set the slug is re-derived by the store.
type TourUpdate struct {
	Name            *string     `json:"name,omitempty"`
	Duration        *int        `json:"duration,omitempty"`
	MaxGroupSize    *int        `json:"maxGroupSize,omitempty"`
	Difficulty      *Difficulty `json:"difficulty,omitempty"`
	RatingsAverage  *float64    `json:"ratingsAverage,omitempty"`
	RatingsQuantity *int        `json:"ratingsQuantity,omitempty"`
	Price           *float64    `json:"price,omitempty"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty"`
	Summary         *string     `json:"summary,omitempty"`
	Description     *string     `json:"description,omitempty"`
	ImageCover      *string     `json:"imageCover,omitempty"`
	Images          []string    `json:"images,omitempty"`
	StartDates      []time.Time `json:"startDates,omitempty"`
	SecretTour      *bool       `json:"secretTour,omitempty"`
}

// Validate checks the fields that are present for the same constraints
// the constructor enforces. Cross-field checks that need the stored tour
// (discount below price) are enforced by the store against the updated
// document.
func (u *TourUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrNoTourFieldsToSet
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyTourName
	}
	if u.Duration != nil && *u.Duration < 1 {
		return ErrInvalidDuration
	}
	if u.MaxGroupSize != nil && *u.MaxGroupSize < 1 {
		return ErrInvalidGroupSize
	}
	if u.Difficulty != nil && !u.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if u.RatingsAverage != nil && (*u.RatingsAverage < 1 || *u.RatingsAverage > 5) {
		return ErrInvalidRating
	}
	if u.Price != nil && *u.Price <= 0 {
		return ErrInvalidPrice
	}
	if u.Summary != nil && *u.Summary == "" {
		return ErrEmptyTourSummary
	}
	if u.ImageCover != nil && *u.ImageCover == "" {
		return ErrEmptyTourImage
	}
	return nil
}

// IsEmpty reports whether the update would change nothing.
func (u *TourUpdate) IsEmpty() bool {
	return u.Name == nil && u.Duration == nil && u.MaxGroupSize == nil &&
		u.Difficulty == nil && u.RatingsAverage == nil && u.RatingsQuantity == nil &&
		u.Price == nil && u.PriceDiscount == nil && u.Summary == nil &&
		u.Description == nil && u.ImageCover == nil && u.Images == nil &&
		u.StartDates == nil && u.SecretTour == nil
}

// TourStats is one row of the by-difficulty aggregation report.
type TourStats struct {
	Difficulty Difficulty `bson:"_id"        json:"difficulty"`
	NumTours   int        `bson:"numTours"   json:"numTours"`
	NumRatings int        `bson:"numRatings" json:"numRatings"`
	AvgRating  float64    `bson:"avgRating"  json:"avgRating"`
	AvgPrice   float64    `bson:"avgPrice"   json:"avgPrice"`
	MinPrice   float64    `bson:"minPrice"   json:"minPrice"`
	MaxPrice   float64    `bson:"maxPrice"   json:"maxPrice"`
}

// MonthlyPlanEntry is one row of the monthly starting-tours report.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month"         json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours"         json:"tours"`
}
