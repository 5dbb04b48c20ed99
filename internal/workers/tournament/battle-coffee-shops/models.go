// internal/workers/tournament/battle-coffee-shops/models.go
package battlecoffeeshops

import "coffee-tournament/internal/models"

// Input accepts either ShopBrief objects or full Shop objects; the brief
// fields are a subset of the Shop wire shape.
type Input struct {
	Shop1 *models.Shop `json:"shop1"`
	Shop2 *models.Shop `json:"shop2"`
}

type Output struct {
	Success   bool          `json:"success"`
	Winner    string        `json:"winner"`
	Scores    models.Scores `json:"scores"`
	Reasoning string        `json:"reasoning"`
	Timestamp string        `json:"timestamp"`
	Fallback  bool          `json:"fallback,omitempty"`

	Result models.BattleResult `json:"-"`
}
