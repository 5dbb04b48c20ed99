package models

import "time"

// TimestampLayout is ISO 8601 with millisecond precision, always UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// AxisScores are the four judged categories, each an integer in [1,10].
type AxisScores struct {
	Quality    int `json:"quality"`
	Ambiance   int `json:"ambiance"`
	Service    int `json:"service"`
	Uniqueness int `json:"uniqueness"`
}

// Each returns the four scores in a fixed order.
func (a AxisScores) Each() [4]int {
	return [4]int{a.Quality, a.Ambiance, a.Service, a.Uniqueness}
}

// Score bounds for every axis.
const (
	MinScore = 1
	MaxScore = 10
)

// InRange reports whether every axis is within [MinScore, MaxScore].
func (a AxisScores) InRange() bool {
	for _, v := range a.Each() {
		if v < MinScore || v > MaxScore {
			return false
		}
	}
	return true
}

// Total sums the four axes.
func (a AxisScores) Total() int {
	return a.Quality + a.Ambiance + a.Service + a.Uniqueness
}

// Scores carries one AxisScores per side, keyed shop1/shop2 on the wire.
type Scores struct {
	ShopA AxisScores `json:"shop1"`
	ShopB AxisScores `json:"shop2"`
}

// BattleResult is the immutable record of one match.
type BattleResult struct {
	ID        string `json:"id"`
	ShopA     Shop   `json:"shop1"`
	ShopB     Shop   `json:"shop2"`
	Winner    Shop   `json:"winner"`
	Reasoning string `json:"reasoning"`
	Scores    Scores `json:"scores"`
	Timestamp string `json:"timestamp"`
	Fallback  bool   `json:"fallback"`
	Round     string `json:"round,omitempty"`
}

// FormatTimestamp renders t the way BattleResult.Timestamp expects.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
