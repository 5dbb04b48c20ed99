// Package e2e drives the HTTP API end to end against fake places and AI
// providers.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"

	"coffee-tournament/internal/api"
	"coffee-tournament/internal/app"
	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/places"
	"coffee-tournament/internal/places/placestest"
	"coffee-tournament/internal/tournament"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================================
// FAKE AI PROVIDER
// ==========================================

var shopHeading = regexp.MustCompile(`\*\*Coffee Shop (\d): (.+?)\*\*`)

// fakeAI always prefers the second shop of the prompt. When broken is set it
// answers with prose instead of a verdict.
type fakeAI struct {
	server *httptest.Server
	calls  atomic.Int32
	broken atomic.Bool
}

func newFakeAI(t *testing.T) *fakeAI {
	f := &fakeAI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Path != "/api/ai/generate" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		text := "I would rather not pick a favourite."
		if !f.broken.Load() {
			names := map[string]string{}
			for _, m := range shopHeading.FindAllStringSubmatch(req.Prompt, -1) {
				names[m[1]] = m[2]
			}
			text = fmt.Sprintf("```json\n%s\n```", verdictJSON(names["2"]))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func verdictJSON(winner string) string {
	v := map[string]interface{}{
		"winner":    winner,
		"reasoning": winner + " pulls a cleaner shot and the room feels better for it.",
		"scores": map[string]interface{}{
			"shop1": map[string]int{"quality": 7, "ambiance": 6, "service": 7, "uniqueness": 6},
			"shop2": map[string]int{"quality": 9, "ambiance": 8, "service": 8, "uniqueness": 9},
		},
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

// ==========================================
// HARNESS
// ==========================================

type harness struct {
	base   string
	ai     *fakeAI
	places *placestest.Provider
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(places.APIKeyEnv, "e2e-key")

	p := placestest.NewProvider(t, placestest.SanFrancisco)
	ai := newFakeAI(t)
	pc := p.Config()

	cfg := &config.Config{
		Places: config.PlacesConfig{
			GeocodeURL: pc.GeocodeURL,
			NearbyURL:  pc.NearbyURL,
			PhotoURL:   pc.PhotoURL,
			Timeout:    2000,
		},
		Judge: config.JudgeConfig{Provider: "http", BaseURL: ai.server.URL + "/", Timeout: 2000},
	}

	a := app.New(context.Background(), cfg, nil, logger.NewTestLogger(t))
	srv := httptest.NewServer(api.NewServer(a.Services(nil)).Handler())
	t.Cleanup(srv.Close)

	return &harness{base: srv.URL, ai: ai, places: p}
}

func (h *harness) post(t *testing.T, path string, body, out interface{}) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(h.base+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

type tournamentEnvelope struct {
	Success    bool                   `json:"success"`
	Error      string                 `json:"error"`
	Tournament *tournament.Tournament `json:"tournament"`
	Result     *models.BattleResult   `json:"result"`
}

// ==========================================
// SCENARIOS
// ==========================================

func TestHappyPath(t *testing.T) {
	h := newHarness(t)

	// 1. Locate.
	var loc struct {
		Success          bool    `json:"success"`
		Lat              float64 `json:"lat"`
		Lng              float64 `json:"lng"`
		FormattedAddress string  `json:"formattedAddress"`
	}
	require.Equal(t, 200, h.post(t, "/location", map[string]string{"location": "San Francisco"}, &loc))
	require.True(t, loc.Success)

	// 2. Discover.
	var found struct {
		Success     bool          `json:"success"`
		CoffeeShops []models.Shop `json:"coffeeShops"`
		Count       int           `json:"count"`
	}
	require.Equal(t, 200, h.post(t, "/coffee-shops", map[string]float64{"lat": loc.Lat, "lng": loc.Lng}, &found))
	require.Equal(t, 8, found.Count)

	wantSeeds := []string{
		"Philz Coffee", "Andytown Coffee Roasters", "Sightglass Coffee", "Saint Frank Coffee",
		"Ritual Coffee Roasters", "Blue Bottle Coffee", "Equator Coffees", "Four Barrel Coffee",
	}
	var gotSeeds []string
	for _, s := range found.CoffeeShops {
		gotSeeds = append(gotSeeds, s.Name)
	}
	if diff := cmp.Diff(wantSeeds, gotSeeds); diff != "" {
		t.Fatalf("seed order mismatch (-want +got):\n%s", diff)
	}

	// 3. Seed the bracket.
	var env tournamentEnvelope
	require.Equal(t, 200, h.post(t, "/tournament", map[string]interface{}{
		"shops":    found.CoffeeShops,
		"location": map[string]interface{}{"lat": loc.Lat, "lng": loc.Lng, "formattedAddress": loc.FormattedAddress},
	}, &env))
	tr := env.Tournament
	require.NotNil(t, tr)

	// 4. Play every pairing in bracket order.
	var winners []string
	for tr.Champion == nil {
		pairs := tr.Pairings()
		require.NotEmpty(t, pairs)
		for _, id := range []string{pairs[0][0].ID, pairs[0][1].ID} {
			env = tournamentEnvelope{}
			require.Equal(t, 200, h.post(t, "/tournament/select", map[string]interface{}{"tournament": tr, "shopId": id}, &env))
			tr = env.Tournament
		}

		env = tournamentEnvelope{}
		require.Equal(t, 200, h.post(t, "/tournament/battle", map[string]interface{}{"tournament": tr}, &env), env.Error)
		tr = env.Tournament
		require.NotNil(t, env.Result)
		assert.False(t, env.Result.Fallback)
		winners = append(winners, env.Result.Winner.Name)
	}

	// The AI always backs the second shop: seeds 1,3,5,7 win the quarterfinals,
	// then 3 and 7, then 7.
	assert.Equal(t, []string{
		"Andytown Coffee Roasters", "Saint Frank Coffee", "Blue Bottle Coffee", "Four Barrel Coffee",
		"Saint Frank Coffee", "Four Barrel Coffee",
		"Four Barrel Coffee",
	}, winners)
	assert.Equal(t, "Four Barrel Coffee", tr.Champion.Name)
	assert.Equal(t, tournament.Champion, tr.CurrentRound)
	assert.Equal(t, int32(7), h.ai.calls.Load())

	var semis []string
	for _, s := range tr.SlotsByRound(tournament.Semifinal) {
		semis = append(semis, s.Shop.Name)
	}
	assert.Equal(t, []string{"Andytown Coffee Roasters", "Saint Frank Coffee", "Blue Bottle Coffee", "Four Barrel Coffee"}, semis)

	// 5. Reset.
	env = tournamentEnvelope{}
	require.Equal(t, 200, h.post(t, "/tournament/reset", map[string]interface{}{"tournament": tr}, &env))
	assert.Nil(t, env.Tournament.Champion)
	assert.Empty(t, env.Tournament.Battles)
}

func TestBrokenAIFallsBack(t *testing.T) {
	h := newHarness(t)
	h.ai.broken.Store(true)

	var out struct {
		Success   bool          `json:"success"`
		Winner    string        `json:"winner"`
		Fallback  bool          `json:"fallback"`
		Reasoning string        `json:"reasoning"`
		Scores    models.Scores `json:"scores"`
	}
	status := h.post(t, "/battle", map[string]interface{}{
		"shop1": map[string]interface{}{"name": "Equator Coffees", "rating": 4.5, "userRatingsTotal": 700},
		"shop2": map[string]interface{}{"name": "Ritual Coffee Roasters", "rating": 4.5, "userRatingsTotal": 1800},
	}, &out)

	require.Equal(t, 200, status)
	assert.True(t, out.Success)
	assert.True(t, out.Fallback)
	assert.Equal(t, "Ritual Coffee Roasters", out.Winner)
	assert.Contains(t, out.Reasoning, "Detailed AI analysis unavailable")
	assert.Equal(t, models.AxisScores{Quality: 9, Ambiance: 9, Service: 9, Uniqueness: 9}, out.Scores.ShopB)
}

func TestErrorScenarios(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "unknown location",
			path:       "/location",
			body:       map[string]string{"location": placestest.UnknownLocation},
			wantStatus: 400,
			wantError:  "Could not find location: Atlantis. Please try a different location or be more specific.",
		},
		{
			name:       "middle of the ocean",
			path:       "/coffee-shops",
			body:       map[string]float64{"lat": 0, "lng": 0},
			wantStatus: 400,
			wantError:  "No coffee shops found in this area. Try a different location or increase the search radius.",
		},
		{
			name:       "battle without shops",
			path:       "/battle",
			body:       map[string]interface{}{},
			wantStatus: 400,
			wantError:  "Both shops are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			assert.Equal(t, tt.wantStatus, h.post(t, tt.path, tt.body, &out))
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantError, out.Error)
		})
	}
	assert.Equal(t, int32(0), h.ai.calls.Load())
}
