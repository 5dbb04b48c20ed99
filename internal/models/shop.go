package models

import "strings"

// Shop is a seeded coffee shop. ID and PlaceID both carry the provider's
// place_id; ReviewCount travels as userRatingsTotal on the wire.
type Shop struct {
	ID          string  `json:"id"`
	PlaceID     string  `json:"placeId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"userRatingsTotal"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PhotoURL    string  `json:"photoUrl,omitempty"`
	PriceLevel  *int    `json:"priceLevel,omitempty"`
	OpenNow     *bool   `json:"openNow,omitempty"`
}

// Key identifies a shop within one tournament.
func (s Shop) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// Brief returns the subset the judge needs.
func (s Shop) Brief() ShopBrief {
	return ShopBrief{
		Name:             s.Name,
		Address:          s.Address,
		Rating:           s.Rating,
		UserRatingsTotal: s.ReviewCount,
	}
}

// ShopBrief is the shape accepted by the battle endpoint.
type ShopBrief struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

// Shop lifts a brief into a Shop with no provider identity.
func (b ShopBrief) Shop() Shop {
	return Shop{
		Name:        b.Name,
		Address:     b.Address,
		Rating:      b.Rating,
		ReviewCount: b.UserRatingsTotal,
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationResult is a resolved geocoding hit.
type LocationResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
}

func (l LocationResult) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng}
}

// ResolveWinner maps a winner name back onto one of the two contenders.
// Exact matches win; otherwise names are compared case- and
// whitespace-insensitively. ok is false when neither shop matches.
func ResolveWinner(name string, a, b Shop) (winner Shop, ok bool) {
	switch name {
	case a.Name:
		return a, true
	case b.Name:
		return b, true
	}

	n := normalizeName(name)
	switch n {
	case normalizeName(a.Name):
		return a, true
	case normalizeName(b.Name):
		return b, true
	}
	return Shop{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
