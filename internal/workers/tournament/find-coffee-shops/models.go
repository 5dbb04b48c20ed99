// internal/workers/tournament/find-coffee-shops/models.go
package findcoffeeshops

import "coffee-tournament/internal/models"

// Lat and Lng are pointers so that 0 is a real coordinate, not "missing".
type Input struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius int      `json:"radius,omitempty"`
}

type Output struct {
	Success        bool               `json:"success"`
	CoffeeShops    []models.Shop      `json:"coffeeShops"`
	Count          int                `json:"count"`
	SearchLocation models.Coordinates `json:"searchLocation"`
}
