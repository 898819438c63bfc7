package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTour() Tour {
	return Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestNewTour(t *testing.T) {
	t.Parallel()

	t.Run("derives slug and defaults", func(t *testing.T) {
		t.Parallel()

		tour, err := NewTour(validTour())
		require.NoError(t, err)

		assert.False(t, tour.ID.IsZero())
		assert.Equal(t, "the-forest-hiker", tour.Slug)
		assert.Equal(t, defaultRatingsAverage, tour.RatingsAverage)
		assert.False(t, tour.CreatedAt.IsZero())
		assert.False(t, tour.SecretTour)
	})

	tests := []struct {
		name    string
		mutate  func(*Tour)
		wantErr error
	}{
		{"empty name", func(tr *Tour) { tr.Name = "" }, ErrEmptyTourName},
		{"zero duration", func(tr *Tour) { tr.Duration = 0 }, ErrInvalidDuration},
		{"zero group size", func(tr *Tour) { tr.MaxGroupSize = 0 }, ErrInvalidGroupSize},
		{"unknown difficulty", func(tr *Tour) { tr.Difficulty = "brutal" }, ErrInvalidDifficulty},
		{"rating above five", func(tr *Tour) { tr.RatingsAverage = 5.5 }, ErrInvalidRating},
		{"zero price", func(tr *Tour) { tr.Price = 0 }, ErrInvalidPrice},
		{"discount at price", func(tr *Tour) { tr.PriceDiscount = 397 }, ErrInvalidDiscount},
		{"empty summary", func(tr *Tour) { tr.Summary = "" }, ErrEmptyTourSummary},
		{"empty cover image", func(tr *Tour) { tr.ImageCover = "" }, ErrEmptyTourImage},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tour := validTour()
			tc.mutate(&tour)
			_, err := NewTour(tour)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTourUpdateValidate(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	diff := func(d Difficulty) *Difficulty { return &d }

	tests := []struct {
		name    string
		update  TourUpdate
		wantErr error
	}{
		{"empty update", TourUpdate{}, ErrNoTourFieldsToSet},
		{"valid rename", TourUpdate{Name: str("The Sea Explorer")}, nil},
		{"blank rename", TourUpdate{Name: str("  ")}, ErrEmptyTourName},
		{"valid price", TourUpdate{Price: num(499)}, nil},
		{"negative price", TourUpdate{Price: num(-1)}, ErrInvalidPrice},
		{"unknown difficulty", TourUpdate{Difficulty: diff("extreme")}, ErrInvalidDifficulty},
		{"rating below one", TourUpdate{RatingsAverage: num(0.5)}, ErrInvalidRating},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.update.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"The Sea Explorer!", "the-sea-explorer"},
		{"  Snow   Adventurer  ", "snow-adventurer"},
		{"Tour #7 (2025)", "tour-7-2025"},
		{"", ""},
	}

	for _, tc := range tests {
		tc := tc
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"user", "guide", "lead-guide", "admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)

	assert.True(t, RoleAdmin.OneOf(RoleAdmin, RoleLeadGuide))
	assert.False(t, RoleUser.OneOf(RoleAdmin, RoleLeadGuide))
}
