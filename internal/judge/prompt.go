package judge

import (
	"fmt"
	"strconv"
	"strings"

	"coffee-tournament/internal/models"
)

// BuildPrompt renders the judging instructions for a single battle. The
// response contract is one JSON object with winner, scores.shop1,
// scores.shop2 and reasoning.
func BuildPrompt(a, b models.Shop) string {
	var sb strings.Builder

	sb.WriteString("You are a coffee expert judging a tournament between two coffee shops. ")
	sb.WriteString("Compare these two coffee shops and determine a winner:\n\n")
	writeShop(&sb, 1, a)
	writeShop(&sb, 2, b)

	sb.WriteString(`Consider what you know about their coffee quality, ambiance, service, and what makes each unique. Then provide:

1. A score (1-10, whole numbers only) for each shop in these categories:
   - Quality: Coffee taste, beans, brewing methods
   - Ambiance: Atmosphere, decor, comfort
   - Service: Staff friendliness, speed, expertise
   - Uniqueness: Special offerings, character, innovation

2. Determine the winner based on these scores

3. Provide detailed reasoning (2-3 paragraphs) explaining why the winner was chosen, citing specific strengths and weaknesses

Format your response EXACTLY as JSON:
{
`)
	fmt.Fprintf(&sb, "  \"winner\": %s or %s,\n", strconv.Quote(a.Name), strconv.Quote(b.Name))
	sb.WriteString(`  "scores": {
    "shop1": {
      "quality": <number 1-10>,
      "ambiance": <number 1-10>,
      "service": <number 1-10>,
      "uniqueness": <number 1-10>
    },
    "shop2": {
      "quality": <number 1-10>,
      "ambiance": <number 1-10>,
      "service": <number 1-10>,
      "uniqueness": <number 1-10>
    }
  },
  "reasoning": "<detailed explanation>"
}`)

	return sb.String()
}

func writeShop(sb *strings.Builder, n int, s models.Shop) {
	fmt.Fprintf(sb, "**Coffee Shop %d: %s**\n", n, s.Name)
	fmt.Fprintf(sb, "- Address: %s\n", s.Address)
	fmt.Fprintf(sb, "- Google Rating: %s/5 (%d reviews)\n\n", formatRating(s.Rating), s.ReviewCount)
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
