package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWinner(t *testing.T) {
	a := Shop{ID: "a", Name: "Blue Bottle Coffee"}
	b := Shop{ID: "b", Name: "Ritual Coffee Roasters"}

	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"exact A", "Blue Bottle Coffee", "a", true},
		{"exact B", "Ritual Coffee Roasters", "b", true},
		{"case and spacing", "  ritual   coffee ROASTERS ", "b", true},
		{"no match", "Philz Coffee", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveWinner(tt.input, a, b)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveWinner_SameNamePrefersA(t *testing.T) {
	a := Shop{ID: "a", Name: "Starbucks"}
	b := Shop{ID: "b", Name: "Starbucks"}

	got, ok := ResolveWinner("Starbucks", a, b)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestShopWireShape(t *testing.T) {
	price := 2
	shop := Shop{
		ID: "p1", PlaceID: "p1", Name: "Sightglass", Address: "270 7th St",
		Rating: 4.5, ReviewCount: 2100, Lat: 37.77, Lng: -122.41, PriceLevel: &price,
	}

	raw, err := json.Marshal(shop)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, float64(2100), wire["userRatingsTotal"])
	assert.Equal(t, "p1", wire["placeId"])
	assert.NotContains(t, wire, "openNow")
	assert.NotContains(t, wire, "photoUrl")

	brief := shop.Brief()
	assert.Equal(t, ShopBrief{Name: "Sightglass", Address: "270 7th St", Rating: 4.5, UserRatingsTotal: 2100}, brief)
	assert.Equal(t, "Sightglass", brief.Shop().Key())
	assert.Equal(t, "p1", shop.Key())
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	ts := time.Date(2024, 3, 1, 4, 5, 6, 7_000_000, loc)
	assert.Equal(t, "2024-03-01T12:05:06.007Z", FormatTimestamp(ts))
}

func TestAxisScores(t *testing.T) {
	s := AxisScores{Quality: 9, Ambiance: 7, Service: 8, Uniqueness: 6}
	assert.Equal(t, 30, s.Total())
	assert.Equal(t, [4]int{9, 7, 8, 6}, s.Each())
}

func TestAxisScores_InRange(t *testing.T) {
	tests := []struct {
		name   string
		scores AxisScores
		want   bool
	}{
		{name: "bounds", scores: AxisScores{Quality: 1, Ambiance: 10, Service: 5, Uniqueness: 1}, want: true},
		{name: "zero", scores: AxisScores{Quality: 0, Ambiance: 7, Service: 8, Uniqueness: 6}, want: false},
		{name: "eleven", scores: AxisScores{Quality: 9, Ambiance: 7, Service: 11, Uniqueness: 6}, want: false},
		{name: "negative", scores: AxisScores{Quality: 9, Ambiance: 7, Service: 8, Uniqueness: -3}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scores.InRange())
		})
	}
}
