// Package ranker turns raw nearby-search candidates into tournament seeds.
package ranker

import (
	"sort"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/places"
)

const (
	// SeedCount is how many shops a bracket is seeded with.
	SeedCount = 8
	// MinReviews is exclusive: a shop needs more than this many reviews.
	MinReviews = 10
)

// PhotoURLFunc turns a provider photo reference into a URL. It may return "".
type PhotoURLFunc func(ref string) string

// Eligible reports whether c clears the rating and review floor.
func Eligible(c places.Candidate) bool {
	return c.Rating != nil && *c.Rating > 0 &&
		c.UserRatingsTotal != nil && *c.UserRatingsTotal > MinReviews
}

// RankAndSeed filters candidates, orders them by (rating, reviews) descending
// with input order breaking remaining ties, and returns the top eight.
func RankAndSeed(candidates []places.Candidate, photoURL PhotoURLFunc) ([]models.Shop, error) {
	if len(candidates) == 0 {
		return nil, errors.NewNoShopsFoundError()
	}

	survivors := make([]places.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Eligible(c) {
			survivors = append(survivors, c)
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		ri, rj := *survivors[i].Rating, *survivors[j].Rating
		if ri != rj {
			return ri > rj
		}
		return *survivors[i].UserRatingsTotal > *survivors[j].UserRatingsTotal
	})

	if len(survivors) < SeedCount {
		return nil, errors.NewInsufficientShopsError(len(survivors))
	}

	seeds := make([]models.Shop, 0, SeedCount)
	for _, c := range survivors[:SeedCount] {
		seeds = append(seeds, toShop(c, photoURL))
	}
	return seeds, nil
}

func toShop(c places.Candidate, photoURL PhotoURLFunc) models.Shop {
	shop := models.Shop{
		ID:          c.PlaceID,
		PlaceID:     c.PlaceID,
		Name:        c.Name,
		Address:     c.Address(),
		Rating:      *c.Rating,
		ReviewCount: *c.UserRatingsTotal,
		Lat:         c.Geometry.Location.Lat,
		Lng:         c.Geometry.Location.Lng,
		PriceLevel:  c.PriceLevel,
		OpenNow:     c.OpenNow(),
	}
	if ref := c.FirstPhotoReference(); ref != "" && photoURL != nil {
		shop.PhotoURL = photoURL(ref)
	}
	return shop
}
