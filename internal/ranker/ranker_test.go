package ranker

import (
	"fmt"
	"math/rand"
	"testing"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id string, rating float64, reviews int) places.Candidate {
	return places.Candidate{
		PlaceID:          id,
		Name:             "Cafe " + id,
		Vicinity:         id + " Main St",
		Rating:           &rating,
		UserRatingsTotal: &reviews,
	}
}

func ids(shops []models.Shop) []string {
	out := make([]string, len(shops))
	for i, s := range shops {
		out[i] = s.ID
	}
	return out
}

func TestRankAndSeed_OrdersAndTruncates(t *testing.T) {
	input := []places.Candidate{
		candidate("a", 4.2, 500),
		candidate("b", 4.8, 50),
		candidate("c", 4.8, 900),
		candidate("d", 4.5, 11),
		candidate("e", 4.5, 11),
		candidate("f", 3.9, 2000),
		candidate("g", 4.0, 300),
		candidate("h", 4.6, 120),
		candidate("i", 3.5, 40),
		candidate("j", 3.0, 1000),
	}

	shops, err := RankAndSeed(input, nil)
	require.NoError(t, err)

	// d and e tie on both keys and keep input order.
	assert.Equal(t, []string{"c", "b", "h", "d", "e", "a", "g", "f"}, ids(shops))
}

func TestRankAndSeed_Filters(t *testing.T) {
	noRating := places.Candidate{PlaceID: "nr", Name: "No Rating", UserRatingsTotal: intPtr(500)}
	noReviews := places.Candidate{PlaceID: "nv", Name: "No Reviews", Rating: floatPtr(4.9)}

	input := []places.Candidate{
		candidate("zero", 0, 500),
		candidate("ten", 5.0, 10),
		noRating,
		noReviews,
	}
	for i := 0; i < 8; i++ {
		input = append(input, candidate(fmt.Sprintf("ok%d", i), 4.0, 11+i))
	}

	shops, err := RankAndSeed(input, nil)
	require.NoError(t, err)
	require.Len(t, shops, 8)
	for _, s := range shops {
		assert.NotContains(t, []string{"zero", "ten", "nr", "nv"}, s.ID)
	}
}

func TestRankAndSeed_Insufficient(t *testing.T) {
	tests := []struct {
		name    string
		input   []places.Candidate
		wantMsg string
	}{
		{
			name:    "empty search",
			input:   nil,
			wantMsg: "No coffee shops found in this area. Try a different location or increase the search radius.",
		},
		{
			name: "too few survivors",
			input: []places.Candidate{
				candidate("a", 4.5, 100),
				candidate("b", 4.4, 100),
				candidate("c", 4.3, 5),
			},
			wantMsg: "Only found 2 highly-rated coffee shops. Try a different location with more options.",
		},
		{
			name:    "none survive",
			input:   []places.Candidate{candidate("a", 4.5, 3)},
			wantMsg: "Only found 0 highly-rated coffee shops. Try a different location with more options.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RankAndSeed(tt.input, nil)
			require.Error(t, err)
			stdErr := errors.AsStandardError(err)
			assert.Equal(t, errors.ErrCodeInsufficientShops, stdErr.Code)
			assert.Equal(t, tt.wantMsg, stdErr.Message)
		})
	}
}

func TestRankAndSeed_MapsShopFields(t *testing.T) {
	input := make([]places.Candidate, 0, 8)
	for i := 0; i < 8; i++ {
		input = append(input, candidate(fmt.Sprintf("p%d", i), 4.0, 100-i))
	}
	open := false
	input[0].Vicinity = ""
	input[0].FormattedAddress = "1 Market St, San Francisco"
	input[0].Geometry = places.Geometry{Location: places.LatLng{Lat: 37.79, Lng: -122.39}}
	input[0].Photos = []places.Photo{{PhotoReference: ""}, {PhotoReference: "ref-9"}}
	input[0].PriceLevel = intPtr(3)
	input[0].OpeningHours = &places.OpeningHours{OpenNow: &open}

	shops, err := RankAndSeed(input, func(ref string) string { return "photo:" + ref })
	require.NoError(t, err)

	first := shops[0]
	assert.Equal(t, "p0", first.ID)
	assert.Equal(t, "p0", first.PlaceID)
	assert.Equal(t, "1 Market St, San Francisco", first.Address)
	assert.Equal(t, 100, first.ReviewCount)
	assert.Equal(t, 37.79, first.Lat)
	assert.Equal(t, "photo:ref-9", first.PhotoURL)
	require.NotNil(t, first.PriceLevel)
	assert.Equal(t, 3, *first.PriceLevel)
	require.NotNil(t, first.OpenNow)
	assert.False(t, *first.OpenNow)

	assert.Empty(t, shops[1].PhotoURL)
	assert.Nil(t, shops[1].OpenNow)
}

// Every emitted shop clears the floor and the sequence never increases
// under (rating, reviews).
func TestRankAndSeed_OutputInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		n := 8 + rng.Intn(20)
		input := make([]places.Candidate, n)
		for i := range input {
			rating := float64(rng.Intn(11)) / 2
			reviews := rng.Intn(40)
			input[i] = candidate(fmt.Sprintf("c%d", i), rating, reviews)
		}

		shops, err := RankAndSeed(input, nil)
		if err != nil {
			assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientShops))
			continue
		}

		require.Len(t, shops, SeedCount)
		for i, s := range shops {
			assert.Greater(t, s.Rating, 0.0)
			assert.Greater(t, s.ReviewCount, MinReviews)
			if i > 0 {
				prev := shops[i-1]
				ordered := prev.Rating > s.Rating ||
					(prev.Rating == s.Rating && prev.ReviewCount >= s.ReviewCount)
				assert.True(t, ordered, "seed %d out of order: %+v before %+v", i, prev, s)
			}
		}
	}
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
