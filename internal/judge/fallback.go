package judge

import (
	"fmt"
	"math"

	"coffee-tournament/internal/models"
)

// CompositeScore is rating × log10(reviews + 1).
func CompositeScore(s models.Shop) float64 {
	reviews := s.ReviewCount
	if reviews < 0 {
		reviews = 0
	}
	return s.Rating * math.Log10(float64(reviews)+1)
}

// axisScore doubles a 0-5 rating onto the 1-10 scale.
func axisScore(rating float64) int {
	v := int(math.Round(rating * 2))
	switch {
	case v < 1:
		return 1
	case v > 10:
		return 10
	default:
		return v
	}
}

func uniformAxes(rating float64) models.AxisScores {
	v := axisScore(rating)
	return models.AxisScores{Quality: v, Ambiance: v, Service: v, Uniqueness: v}
}

// Fallback decides a battle from ratings alone. Ties go to a.
func Fallback(a, b models.Shop) Verdict {
	scoreA, scoreB := CompositeScore(a), CompositeScore(b)

	side, winner := SideA, a
	if scoreB > scoreA {
		side, winner = SideB, b
	}

	reasoning := fmt.Sprintf("Based on ratings and review counts: %s (%s/5, %d reviews) vs %s (%s/5, %d reviews). ",
		a.Name, formatRating(a.Rating), a.ReviewCount,
		b.Name, formatRating(b.Rating), b.ReviewCount)
	if scoreA == scoreB {
		reasoning += fmt.Sprintf("%s wins the tiebreak as the first-listed shop.", winner.Name)
	} else {
		reasoning += fmt.Sprintf("%s wins on composite score (%.2f vs %.2f).",
			winner.Name, math.Max(scoreA, scoreB), math.Min(scoreA, scoreB))
	}
	reasoning += " Note: Detailed AI analysis unavailable - using fallback comparison."

	return Verdict{
		Source: SourceFallback,
		Winner: side,
		Scores: models.Scores{
			ShopA: uniformAxes(a.Rating),
			ShopB: uniformAxes(b.Rating),
		},
		Reasoning: reasoning,
	}
}
