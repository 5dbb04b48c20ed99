package places

// Candidate is a raw nearby-search result, kept verbatim for the ranker.
type Candidate struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Vicinity         string        `json:"vicinity,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	Geometry         Geometry      `json:"geometry"`
	Photos           []Photo       `json:"photos,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
}

// Address prefers vicinity, then the formatted address.
func (c Candidate) Address() string {
	switch {
	case c.Vicinity != "":
		return c.Vicinity
	case c.FormattedAddress != "":
		return c.FormattedAddress
	default:
		return "Address unknown"
	}
}

// FirstPhotoReference returns the first non-empty photo reference.
func (c Candidate) FirstPhotoReference() string {
	for _, p := range c.Photos {
		if p.PhotoReference != "" {
			return p.PhotoReference
		}
	}
	return ""
}

// OpenNow is nil when the provider sent no opening-hours snapshot.
func (c Candidate) OpenNow() *bool {
	if c.OpeningHours == nil {
		return nil
	}
	return c.OpeningHours.OpenNow
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

type OpeningHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

type geocodeResult struct {
	Geometry         Geometry `json:"geometry"`
	FormattedAddress string   `json:"formatted_address"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type nearbyResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Results      []Candidate `json:"results"`
}
