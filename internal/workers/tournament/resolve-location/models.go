// internal/workers/tournament/resolve-location/models.go
package resolvelocation

type Input struct {
	Location string `json:"location"`
}

type Output struct {
	Success          bool    `json:"success"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         string  `json:"location"`
}
