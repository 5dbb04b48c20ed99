package judge

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"coffee-tournament/internal/common/validation"
	"coffee-tournament/internal/models"
)

// Source says where a verdict came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Side identifies one of the two contenders.
type Side int

const (
	SideA Side = iota
	SideB
)

// Verdict is the judge's internal decision before it is stamped into a
// BattleResult. Cause is set on fallback verdicts.
type Verdict struct {
	Source    Source
	Winner    Side
	Scores    models.Scores
	Reasoning string
	Cause     error
}

var axisSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"quality", "ambiance", "service", "uniqueness"},
	"properties": map[string]interface{}{
		"quality":    scoreSchema,
		"ambiance":   scoreSchema,
		"service":    scoreSchema,
		"uniqueness": scoreSchema,
	},
}

var scoreSchema = map[string]interface{}{
	"type":    "integer",
	"minimum": 1,
	"maximum": 10,
}

var verdictSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []string{"winner", "scores", "reasoning"},
	"properties": map[string]interface{}{
		"winner":    map[string]interface{}{"type": "string", "minLength": 1},
		"reasoning": map[string]interface{}{"type": "string", "minLength": 1},
		"scores": map[string]interface{}{
			"type":     "object",
			"required": []string{"shop1", "shop2"},
			"properties": map[string]interface{}{
				"shop1": axisSchema,
				"shop2": axisSchema,
			},
		},
	},
})

// wireAxis decodes through float64 so whole numbers written as 8.0 survive.
type wireAxis struct {
	Quality    float64 `json:"quality"`
	Ambiance   float64 `json:"ambiance"`
	Service    float64 `json:"service"`
	Uniqueness float64 `json:"uniqueness"`
}

func (w wireAxis) scores() models.AxisScores {
	return models.AxisScores{
		Quality:    int(math.Round(w.Quality)),
		Ambiance:   int(math.Round(w.Ambiance)),
		Service:    int(math.Round(w.Service)),
		Uniqueness: int(math.Round(w.Uniqueness)),
	}
}

type wireVerdict struct {
	Winner string `json:"winner"`
	Scores struct {
		Shop1 wireAxis `json:"shop1"`
		Shop2 wireAxis `json:"shop2"`
	} `json:"scores"`
	Reasoning string `json:"reasoning"`
}

// ParseVerdict extracts, validates and decodes an LLM response. Any error
// means the response cannot be trusted.
func ParseVerdict(text string, a, b models.Shop) (Verdict, error) {
	raw := extractJSON(text)
	if raw == "" {
		return Verdict{}, fmt.Errorf("no JSON object in response")
	}

	if result := verdictSchema.ValidateJSON([]byte(raw)); !result.Valid {
		return Verdict{}, fmt.Errorf("verdict failed validation: %s", result.Error())
	}

	var wire wireVerdict
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if strings.TrimSpace(wire.Reasoning) == "" {
		return Verdict{}, fmt.Errorf("verdict reasoning is blank")
	}

	winner, ok := models.ResolveWinner(wire.Winner, a, b)
	if !ok {
		return Verdict{}, fmt.Errorf("winner %q matches neither %q nor %q", wire.Winner, a.Name, b.Name)
	}
	side := SideB
	if winner.Key() == a.Key() {
		side = SideA
	}

	return Verdict{
		Source: SourceLLM,
		Winner: side,
		Scores: models.Scores{
			ShopA: wire.Scores.Shop1.scores(),
			ShopB: wire.Scores.Shop2.scores(),
		},
		Reasoning: strings.TrimSpace(wire.Reasoning),
	}, nil
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// extractJSON prefers a fenced code block and falls back to the first
// balanced {...} span in the text.
func extractJSON(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if obj := extractJSONObject(m[1]); obj != "" {
			return obj
		}
	}
	return extractJSONObject(text)
}

// extractJSONObject returns the first balanced object, ignoring braces that
// appear inside string literals.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
